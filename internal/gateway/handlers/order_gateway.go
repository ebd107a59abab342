package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nagpalarpit/POS-WaiterApp/internal/cart"
	"github.com/nagpalarpit/POS-WaiterApp/internal/gateway/middleware"
	"github.com/nagpalarpit/POS-WaiterApp/internal/order"
	"github.com/nagpalarpit/POS-WaiterApp/internal/utils"
)

type OrderHTTPHandler struct {
	orderService *order.Service
	cartStore    cart.Store
}

func NewOrderHTTPHandler(orderService *order.Service, cartStore cart.Store) *OrderHTTPHandler {
	return &OrderHTTPHandler{
		orderService: orderService,
		cartStore:    cartStore,
	}
}

// Request structs
type CreateOrderRequest struct {
	DeliveryType int  `json:"deliveryType"`
	TableNo      *int `json:"tableNo,omitempty"`
}

type UpdateOrderStatusRequest struct {
	OrderStatusID int `json:"orderStatusId" binding:"required,min=1,max=9"`
}

type ListOrdersQuery struct {
	Page     int `form:"page,default=1"`
	PageSize int `form:"page_size,default=20"`
}

func sessionFromClaims(claims *utils.Claims) order.SessionContext {
	return order.SessionContext{
		CompanyID: int(claims.CompanyId),
		UserID:    int(claims.UserId),
		Username:  claims.Username,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
		Currency:  claims.Currency,
	}
}

// --- Order Handlers ---

// CreateOrder submits the waiter's current cart as an order. The cart is
// cleared only after the order row is stored, so a failed submit leaves the
// cart intact for retry.
func (h *OrderHTTPHandler) CreateOrder(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if req.DeliveryType < order.DeliveryTypeTable || req.DeliveryType > order.DeliveryTypeKiosk {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid delivery type"))
		return
	}

	cartService := cart.NewServiceWithKey(h.cartStore, fmt.Sprintf("cart:%d", claims.UserId))
	current := cartService.Load(c.Request.Context())

	payload, err := order.BuildOrder(current, sessionFromClaims(claims), req.DeliveryType, req.TableNo, time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	row, err := h.orderService.Create(c.Request.Context(), payload)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to create order"))
		return
	}

	if _, err := cartService.Clear(c.Request.Context()); err != nil {
		// The order exists; a stale cart is recoverable, a lost order is not.
		c.JSON(http.StatusOK, successWithMetaResponse("Order created, cart not cleared", row, gin.H{"cartCleared": false}))
		return
	}

	c.JSON(http.StatusCreated, successResponse("Order created successfully", row))
}

func (h *OrderHTTPHandler) ListOrders(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	var query ListOrdersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid query parameters"))
		return
	}

	rows, total, err := h.orderService.List(c.Request.Context(), claims.CompanyId, query.PageSize, (query.Page-1)*query.PageSize)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list orders"))
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Orders retrieved successfully", rows, gin.H{
		"page":      query.Page,
		"page_size": query.PageSize,
		"total":     total,
	}))
}

func (h *OrderHTTPHandler) ListOrdersByDeliveryType(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	deliveryType, err := strconv.Atoi(c.Param("deliveryType"))
	if err != nil || deliveryType < order.DeliveryTypeTable || deliveryType > order.DeliveryTypeKiosk {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid delivery type"))
		return
	}

	rows, err := h.orderService.ListByDeliveryType(c.Request.Context(), claims.CompanyId, deliveryType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to list orders"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Orders retrieved successfully", rows))
}

func (h *OrderHTTPHandler) GetOrder(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	row, err := h.orderService.Get(c.Request.Context(), claims.CompanyId, orderID)
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("Order not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to get order"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Order retrieved successfully", row))
}

func (h *OrderHTTPHandler) GetOrderByTable(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	tableNo, err := strconv.Atoi(c.Param("tableNo"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid table number"))
		return
	}

	row, err := h.orderService.GetByTable(c.Request.Context(), claims.CompanyId, tableNo)
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("No open order for this table"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to get order"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Order retrieved successfully", row))
}

func (h *OrderHTTPHandler) UpdateOrderStatus(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	err = h.orderService.UpdateStatus(c.Request.Context(), claims.CompanyId, orderID, req.OrderStatusID)
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("Order not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to update order status"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Order status updated", gin.H{
		"orderId":       orderID,
		"orderStatusId": req.OrderStatusID,
		"statusLabel":   order.StatusLabel(req.OrderStatusID),
	}))
}

// SettleOrder marks the order paid, using the settlement info captured at
// submit time.
func (h *OrderHTTPHandler) SettleOrder(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	row, err := h.orderService.Get(c.Request.Context(), claims.CompanyId, orderID)
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("Order not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to get order"))
		return
	}
	if row.IsPaid {
		c.JSON(http.StatusConflict, errorResponse("Order is already paid"))
		return
	}

	var stored order.CreateOrderPayload
	if err := json.Unmarshal([]byte(row.Payload), &stored); err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Stored order payload is unreadable"))
		return
	}

	outcome, err := h.orderService.Settle(c.Request.Context(), claims.CompanyId, orderID, stored.SettleInfo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to settle order"))
		return
	}

	c.JSON(http.StatusOK, successWithMetaResponse("Order settled successfully", outcome.Order, gin.H{
		"remoteSettlement": outcome.Remote,
	}))
}

func (h *OrderHTTPHandler) DeleteOrder(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid order ID"))
		return
	}

	err = h.orderService.Delete(c.Request.Context(), claims.CompanyId, orderID)
	if errors.Is(err, order.ErrOrderNotFound) {
		c.JSON(http.StatusNotFound, errorResponse("Order not found"))
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to delete order"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Order deleted successfully", nil))
}
