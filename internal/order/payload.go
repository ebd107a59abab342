package order

import (
	"fmt"
	"time"

	"github.com/nagpalarpit/POS-WaiterApp/internal/cart"
)

// SessionContext is the read-only session/user input to the payload builder,
// taken from the authenticated waiter's token.
type SessionContext struct {
	CompanyID  int    `json:"companyId"`
	UserID     int    `json:"id"`
	Username   string `json:"username,omitempty"`
	Email      string `json:"email,omitempty"`
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Mobile     string `json:"mobileNo,omitempty"`
	CustomerID *int   `json:"customerId,omitempty"`
	Currency   string `json:"currency,omitempty"`
	PosID      string `json:"posId,omitempty"`
}

// DiscountTypeCode remaps the cart discount tag to the order service's
// numeric code. Fixed external contract: PERCENTAGE is 1, FLAT is 0.
func DiscountTypeCode(discountType cart.DiscountType) int {
	if discountType == cart.DiscountPercentage {
		return 1
	}
	return 0
}

type DiscountPayload struct {
	DiscountName  string  `json:"discountName,omitempty"`
	DiscountType  int     `json:"discountType"`
	DiscountValue float64 `json:"discountValue"`
}

// Nested option blocks. Variant and attribute quantities are fixed at 1 by
// convention; only the line quantity and the attribute-value quantities vary.

type AttributeValuePayload struct {
	Description                     string  `json:"description"`
	MenuItemVariantAttributeID      int     `json:"menuItemVariantAttributeId"`
	MenuItemVariantAttributeValueID *int    `json:"menuItemVariantAttributeValueId"`
	Name                            string  `json:"name"`
	Quantity                        int     `json:"quantity"`
	UnitPrice                       string  `json:"unitPrice"`
	DiscountedPrice                 float64 `json:"discountedPrice"`
	DiscountID                      *int    `json:"discountId"`
}

type VariantAttributePayload struct {
	MenuItemVariantAttributeID      int                     `json:"menuItemVariantAttributeId"`
	Description                     string                  `json:"description"`
	Name                            string                  `json:"name"`
	Quantity                        int                     `json:"quantity"`
	UnitPrice                       string                  `json:"unitPrice"`
	DiscountedPrice                 float64                 `json:"discountedPrice"`
	DiscountID                      *int                    `json:"discountId"`
	OrderItemVariantAttributeValues []AttributeValuePayload `json:"orderItemVariantAttributeValues"`
}

type VariantPayload struct {
	MenuItemVariantID          int                       `json:"menuItemVariantId"`
	Description                string                    `json:"description"`
	Name                       string                    `json:"name"`
	Quantity                   int                       `json:"quantity"`
	UnitPrice                  string                    `json:"unitPrice"`
	DiscountedPrice            float64                   `json:"discountedPrice"`
	DiscountID                 *int                      `json:"discountId"`
	OrderItemVariantAttributes []VariantAttributePayload `json:"orderItemVariantAttributes,omitempty"`
}

type OrderItemPayload struct {
	CompanyID         int             `json:"companyId"`
	DiscountID        *int            `json:"discountId"`
	CategoryID        int             `json:"categoryId"`
	CartID            string          `json:"cartId,omitempty"`
	CategoryName      string          `json:"categoryName"`
	MenuItemID        int             `json:"menuItemId"`
	ItemName          string          `json:"itemName"`
	Quantity          int             `json:"quantity"`
	UnitPrice         string          `json:"unitPrice"`
	OrderItemNote     string          `json:"orderItemNote"`
	GroupType         int             `json:"groupType"`
	GroupLabel        string          `json:"groupLabel,omitempty"`
	CustomID          int             `json:"customId"`
	Tax               *cart.TaxRule   `json:"tax,omitempty"`
	SplitPaidQuantity int             `json:"splitPaidQuantity"`
	OrderItemVariant  *VariantPayload `json:"orderItemVariant,omitempty"`
}

type OrderDetailsPayload struct {
	CompanyID                   int                `json:"companyId"`
	CustomerID                  *int               `json:"customerId"`
	UserEmail                   string             `json:"userEmail"`
	UserFirstName               string             `json:"userFirstName"`
	UserLastName                string             `json:"userLastName"`
	UserMobile                  *string            `json:"userMobile"`
	Addresses                   []interface{}      `json:"addresses"`
	IsCallerID                  bool               `json:"isCallerId"`
	Currency                    string             `json:"currency"`
	IsPickup                    bool               `json:"isPickup"`
	PickupDateTime              *string            `json:"pickupDateTime"`
	FamilyName                  string             `json:"familyName"`
	OrderType                   string             `json:"orderType"`
	IsSandbox                   bool               `json:"isSandbox"`
	IsPriceIncludingTax         bool               `json:"isPriceIncludingTax"`
	OrderTaxTotal               float64            `json:"orderTaxTotal"`
	OrderCartTaxAndChargesTotal float64            `json:"orderCartTaxAndChargesTotal"`
	OrderDeliveryTypeID         int                `json:"orderDeliveryTypeId"`
	OrderPromoCodeDiscountTotal float64            `json:"orderPromoCodeDiscountTotal"`
	CountryCode                 string             `json:"countryCode"`
	CustomerAddressID           *int               `json:"customerAddressId"`
	OrderNotes                  string             `json:"orderNotes"`
	OrderDiscountTotal          float64            `json:"orderDiscountTotal"`
	OrderItem                   []OrderItemPayload `json:"orderItem"`
	OrderStatusID               int                `json:"orderStatusId"`
	OrderSubTotal               float64            `json:"orderSubTotal"`
	OrderTotal                  float64            `json:"orderTotal"`
	CreatedAt                   time.Time          `json:"createdAt"`
	Count                       int                `json:"count"`
	Discount                    *DiscountPayload   `json:"discount,omitempty"`
	User                        *SessionContext    `json:"user,omitempty"`
	AddedBy                     *int               `json:"addedBy"`
	PosID                       string             `json:"posId"`
	OnHold                      bool               `json:"onHold"`
	HoldingName                 string             `json:"holdingName"`
	IsSplitOrder                bool               `json:"isSplitOrder"`
	TableNo                     *int               `json:"tableNo,omitempty"`
	TableArea                   interface{}        `json:"tableArea,omitempty"`
}

// SettleInfoPayload duplicates the order details at the top level and nested,
// the way the settle endpoint expects them.
type SettleInfoPayload struct {
	OrderDetailsPayload
	OrderStatusID int                 `json:"orderStatusId"`
	OrderDetails  OrderDetailsPayload `json:"orderDetails"`
	CompanyID     int                 `json:"companyId"`
}

type CreateOrderPayload struct {
	OrderStatusID int                 `json:"orderStatusId"`
	OrderDetails  OrderDetailsPayload `json:"orderDetails"`
	CompanyID     int                 `json:"companyId"`
	SettleInfo    SettleInfoPayload   `json:"settleInfo"`
}

// TaxTotal derives the order tax from the first line's tax rule only, applied
// once to the whole subtotal. Multi-category carts with differing tax rules
// are therefore taxed by whichever category was added last; the order service
// expects this single-tax-line shape, so it is preserved as-is.
func TaxTotal(c cart.Cart, subtotal float64) float64 {
	if len(c.Items) == 0 {
		return 0
	}
	tax := c.Items[0].Tax
	if tax == nil {
		return 0
	}
	if tax.Percentage != 0 {
		return subtotal * tax.Percentage / 100
	}
	if tax.FlatAmount != 0 {
		return tax.FlatAmount
	}
	return 0
}

// BuildOrder maps a priced cart plus session context into the order-submission
// document. The discount itself is clamped to the subtotal, but the grand
// total is not floored.
func BuildOrder(c cart.Cart, sess SessionContext, deliveryType int, tableNo *int, now time.Time) (CreateOrderPayload, error) {
	if len(c.Items) == 0 {
		return CreateOrderPayload{}, fmt.Errorf("cart has no items")
	}
	if deliveryType == DeliveryTypeTable && tableNo == nil {
		return CreateOrderPayload{}, fmt.Errorf("table number required for dine-in orders")
	}
	if sess.CompanyID == 0 {
		return CreateOrderPayload{}, fmt.Errorf("company id missing")
	}

	subtotal := cart.Subtotal(c)
	taxTotal := TaxTotal(c, subtotal)
	discountTotal := cart.DiscountAmount(subtotal, c.Discount)
	total := subtotal + taxTotal - discountTotal

	var discount *DiscountPayload
	if c.Discount != nil {
		discount = &DiscountPayload{
			DiscountName:  c.Discount.DiscountName,
			DiscountType:  DiscountTypeCode(c.Discount.DiscountType),
			DiscountValue: c.Discount.DiscountValue,
		}
	}

	var userMobile *string
	if sess.Mobile != "" {
		userMobile = &sess.Mobile
	}

	var addedBy *int
	if sess.UserID != 0 {
		userID := sess.UserID
		addedBy = &userID
	}

	userFirstName := sess.FirstName
	if userFirstName == "" {
		userFirstName = sess.Username
	}

	currency := sess.Currency
	if currency == "" {
		currency = "INR"
	}

	details := OrderDetailsPayload{
		CompanyID:           sess.CompanyID,
		CustomerID:          sess.CustomerID,
		UserEmail:           sess.Email,
		UserFirstName:       userFirstName,
		UserLastName:        sess.LastName,
		UserMobile:          userMobile,
		Addresses:           []interface{}{},
		Currency:            currency,
		IsPickup:            deliveryType == DeliveryTypePickup,
		OrderType:           OrderTypeLabel(deliveryType),
		OrderTaxTotal:       taxTotal,
		OrderDeliveryTypeID: deliveryType,
		CountryCode:         "IN",
		OrderNotes:          c.OrderNote,
		OrderDiscountTotal:  discountTotal,
		OrderItem:           buildOrderItems(c, sess.CompanyID),
		OrderStatusID:       StatusPending,
		OrderSubTotal:       subtotal,
		OrderTotal:          total,
		CreatedAt:           now,
		Count:               1,
		Discount:            discount,
		User:                &sess,
		AddedBy:             addedBy,
		PosID:               sess.PosID,
	}

	if deliveryType == DeliveryTypeTable {
		details.TableNo = tableNo
		// Dine-in documents carry tableArea as an explicit null; other order
		// types omit both table keys.
		details.TableArea = (*string)(nil)
	}

	return CreateOrderPayload{
		OrderStatusID: StatusPending,
		OrderDetails:  details,
		CompanyID:     sess.CompanyID,
		SettleInfo: SettleInfoPayload{
			OrderDetailsPayload: details,
			OrderStatusID:       StatusPending,
			OrderDetails:        details,
			CompanyID:           sess.CompanyID,
		},
	}, nil
}

func buildOrderItems(c cart.Cart, companyID int) []OrderItemPayload {
	items := make([]OrderItemPayload, 0, len(c.Items))
	for _, line := range c.Items {
		item := OrderItemPayload{
			CompanyID:     companyID,
			CategoryID:    line.CategoryID,
			CartID:        line.CartID,
			CategoryName:  line.CategoryName,
			MenuItemID:    line.ItemID,
			ItemName:      line.ItemName,
			Quantity:      cart.LineQuantity(line),
			UnitPrice:     cart.FormatAmount(line.ItemPrice),
			OrderItemNote: line.OrderItemNote,
			GroupType:     line.GroupType,
			GroupLabel:    line.GroupLabel,
			CustomID:      line.CustomID,
			Tax:           line.Tax,
		}

		if line.VariantID != 0 {
			variant := &VariantPayload{
				MenuItemVariantID: line.VariantID,
				Name:              line.VariantName,
				Quantity:          1,
				UnitPrice:         cart.FormatAmount(line.VariantPrice),
			}

			if line.AttributeID != 0 {
				attribute := VariantAttributePayload{
					MenuItemVariantAttributeID: line.AttributeID,
					Name:                       line.AttributeName,
					Quantity:                   1,
					UnitPrice:                  cart.FormatAmount(line.AttributePrice),
				}

				values := make([]AttributeValuePayload, 0, len(line.AttributeValues))
				for _, av := range line.AttributeValues {
					valueID := av.AttributeValueID
					if valueID == 0 {
						valueID = av.ID
					}
					var valueIDPtr *int
					if valueID != 0 {
						id := valueID
						valueIDPtr = &id
					}
					values = append(values, AttributeValuePayload{
						Description:                     av.AttributeValueDescription,
						MenuItemVariantAttributeID:      line.AttributeID,
						MenuItemVariantAttributeValueID: valueIDPtr,
						Name:                            cart.AttributeValueName(av),
						Quantity:                        cart.AttributeValueQuantity(av),
						UnitPrice:                       cart.FormatAmount(cart.AttributeValuePrice(av)),
					})
				}
				attribute.OrderItemVariantAttributeValues = values
				variant.OrderItemVariantAttributes = []VariantAttributePayload{attribute}
			}

			item.OrderItemVariant = variant
		}

		items = append(items, item)
	}
	return items
}
