package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nagpalarpit/POS-WaiterApp/internal/database"
)

var ErrOrderNotFound = errors.New("order not found")

// Service persists submitted orders and drives settlement.
type Service struct {
	db     *gorm.DB
	settle SettleClient
}

func NewService(db *gorm.DB, settle SettleClient) *Service {
	return &Service{
		db:     db,
		settle: settle,
	}
}

func moneyString(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// Create stores a submitted order document and returns the stored row.
func (s *Service) Create(ctx context.Context, payload CreateOrderPayload) (database.Order, error) {
	details := payload.OrderDetails

	document, err := json.Marshal(payload)
	if err != nil {
		return database.Order{}, fmt.Errorf("marshal order payload: %w", err)
	}

	row := database.Order{
		CompanyID:      int64(payload.CompanyID),
		OrderStatusID:  int32(payload.OrderStatusID),
		DeliveryTypeID: int32(details.OrderDeliveryTypeID),
		Subtotal:       moneyString(details.OrderSubTotal),
		TaxTotal:       moneyString(details.OrderTaxTotal),
		DiscountTotal:  moneyString(details.OrderDiscountTotal),
		Total:          moneyString(details.OrderTotal),
		Payload:        string(document),
	}
	if details.TableNo != nil {
		tableNo := int32(*details.TableNo)
		row.TableNo = &tableNo
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return database.Order{}, fmt.Errorf("create order: %w", err)
	}
	return row, nil
}

func (s *Service) Get(ctx context.Context, companyID, orderID int64) (database.Order, error) {
	var row database.Order
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND id = ?", companyID, orderID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return database.Order{}, fmt.Errorf("get order: %w", err)
	}
	return row, nil
}

func (s *Service) List(ctx context.Context, companyID int64, limit, offset int) ([]database.Order, int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&database.Order{}).
		Where("company_id = ?", companyID).
		Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var rows []database.Order
	if err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return rows, total, nil
}

func (s *Service) ListByDeliveryType(ctx context.Context, companyID int64, deliveryType int) ([]database.Order, error) {
	var rows []database.Order
	if err := s.db.WithContext(ctx).
		Where("company_id = ? AND delivery_type_id = ?", companyID, deliveryType).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list orders by delivery type: %w", err)
	}
	return rows, nil
}

// GetByTable returns the open (unpaid, not canceled) order for a table, if any.
func (s *Service) GetByTable(ctx context.Context, companyID int64, tableNo int) (database.Order, error) {
	var row database.Order
	err := s.db.WithContext(ctx).
		Where("company_id = ? AND table_no = ? AND is_paid = ? AND order_status_id NOT IN ?",
			companyID, tableNo, false, []int{StatusCanceled, StatusRejected, StatusTSCCanceled}).
		Order("created_at DESC").
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Order{}, ErrOrderNotFound
	}
	if err != nil {
		return database.Order{}, fmt.Errorf("get order by table: %w", err)
	}
	return row, nil
}

func (s *Service) UpdateStatus(ctx context.Context, companyID, orderID int64, statusID int) error {
	result := s.db.WithContext(ctx).Model(&database.Order{}).
		Where("company_id = ? AND id = ?", companyID, orderID).
		Update("order_status_id", statusID)
	if result.Error != nil {
		return fmt.Errorf("update order status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *Service) UpdateTotal(ctx context.Context, companyID, orderID int64, subtotal, taxTotal, discountTotal, total float64) error {
	result := s.db.WithContext(ctx).Model(&database.Order{}).
		Where("company_id = ? AND id = ?", companyID, orderID).
		Updates(map[string]interface{}{
			"subtotal":       moneyString(subtotal),
			"tax_total":      moneyString(taxTotal),
			"discount_total": moneyString(discountTotal),
			"total":          moneyString(total),
		})
	if result.Error != nil {
		return fmt.Errorf("update order total: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, companyID, orderID int64) error {
	result := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&database.Order{}, orderID)
	if result.Error != nil {
		return fmt.Errorf("delete order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

// SettleOutcome reports how an order was settled. Remote is false when the
// payment backend was unreachable and the order was marked paid locally.
type SettleOutcome struct {
	Order  database.Order
	Remote bool
}

// Settle marks an order paid. It first asks the payment backend to settle;
// when that fails the order is still marked paid locally so the table can be
// freed, and reconciliation happens out of band.
func (s *Service) Settle(ctx context.Context, companyID, orderID int64, info SettleInfoPayload) (SettleOutcome, error) {
	row, err := s.Get(ctx, companyID, orderID)
	if err != nil {
		return SettleOutcome{}, err
	}

	remote := false
	result := SettleResult{PaidAt: time.Now()}
	if s.settle != nil {
		if remoteResult, err := s.settle.Settle(ctx, info); err == nil {
			result = remoteResult
			remote = true
		} else {
			log.Printf("remote settle failed for order %d, settling locally: %v", orderID, err)
		}
	}

	updates := map[string]interface{}{
		"is_paid":         true,
		"order_status_id": StatusDelivered,
		"paid_at":         result.PaidAt,
	}
	if result.PaymentSummary != nil {
		summary := string(result.PaymentSummary)
		updates["payment_summary"] = &summary
	}
	if result.PaymentDetails != nil {
		details := string(result.PaymentDetails)
		updates["payment_details"] = &details
	}
	if result.TSC != "" {
		updates["tsc"] = &result.TSC
	}
	if result.InvoiceNumber != "" {
		updates["invoice_number"] = &result.InvoiceNumber
	}

	if err := s.db.WithContext(ctx).Model(&row).Updates(updates).Error; err != nil {
		return SettleOutcome{}, fmt.Errorf("settle order: %w", err)
	}

	return SettleOutcome{Order: row, Remote: remote}, nil
}
