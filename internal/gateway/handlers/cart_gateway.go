package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nagpalarpit/POS-WaiterApp/internal/cart"
	"github.com/nagpalarpit/POS-WaiterApp/internal/gateway/middleware"
)

type CartHTTPHandler struct {
	store cart.Store
}

func NewCartHTTPHandler(store cart.Store) *CartHTTPHandler {
	return &CartHTTPHandler{
		store: store,
	}
}

// Each waiter session gets its own cart, keyed by the authenticated user.
func (h *CartHTTPHandler) cartService(c *gin.Context) (*cart.Service, bool) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return nil, false
	}
	key := fmt.Sprintf("cart:%d", claims.UserId)
	return cart.NewServiceWithKey(h.store, key), true
}

// Request structs
type AddCartItemRequest struct {
	Category  cart.CategoryRef     `json:"category" binding:"required"`
	Item      cart.ItemRef         `json:"item" binding:"required"`
	Variant   *cart.OptionRef      `json:"variant,omitempty"`
	Attribute *cart.OptionRef      `json:"attribute,omitempty"`
	Values    []cart.SelectedValue `json:"values,omitempty"`
}

// Quantity is not marked required: zero (or negative) is a valid request and
// removes the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type SetItemNoteRequest struct {
	Note string `json:"note"`
}

type SetOrderNoteRequest struct {
	Note string `json:"note"`
}

type SetDiscountRequest struct {
	DiscountName  string  `json:"discountName"`
	DiscountType  string  `json:"discountType" binding:"required,oneof=PERCENTAGE FLAT"`
	DiscountValue float64 `json:"discountValue"`
}

type CartSummary struct {
	Subtotal      float64 `json:"subtotal"`
	DiscountTotal float64 `json:"discountTotal"`
	ItemCount     int     `json:"itemCount"`
}

func cartSummary(c cart.Cart) CartSummary {
	subtotal := cart.Subtotal(c)
	return CartSummary{
		Subtotal:      subtotal,
		DiscountTotal: cart.DiscountAmount(subtotal, c.Discount),
		ItemCount:     cart.ItemCount(c),
	}
}

// --- Cart Handlers ---

func (h *CartHTTPHandler) GetCart(c *gin.Context) {
	svc, ok := h.cartService(c)
	if !ok {
		return
	}

	current := svc.Load(c.Request.Context())
	c.JSON(http.StatusOK, successWithMetaResponse("Cart retrieved successfully", current, cartSummary(current)))
}

func (h *CartHTTPHandler) AddItem(c *gin.Context) {
	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}
	if req.Item.ID == 0 || req.Item.Name == "" {
		c.JSON(http.StatusBadRequest, errorResponse("Item id and name are required"))
		return
	}

	svc, ok := h.cartService(c)
	if !ok {
		return
	}

	updated, err := svc.AddItem(c.Request.Context(), req.Category, req.Item, req.Variant, req.Attribute, req.Values)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to persist cart"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Item added to cart", updated, cartSummary(updated)))
}

func (h *CartHTTPHandler) SetQuantity(c *gin.Context) {
	cartID := c.Param("cartId")

	var req SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	svc, ok := h.cartService(c)
	if !ok {
		return
	}

	updated, err := svc.SetQuantity(c.Request.Context(), cartID, req.Quantity)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to persist cart"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Quantity updated", updated, cartSummary(updated)))
}

func (h *CartHTTPHandler) RemoveItem(c *gin.Context) {
	cartID := c.Param("cartId")

	svc, ok := h.cartService(c)
	if !ok {
		return
	}

	updated, err := svc.RemoveItem(c.Request.Context(), cartID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to persist cart"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Item removed from cart", updated, cartSummary(updated)))
}

func (h *CartHTTPHandler) SetItemNote(c *gin.Context) {
	cartID := c.Param("cartId")

	var req SetItemNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	svc, ok := h.cartService(c)
	if !ok {
		return
	}

	updated, err := svc.SetItemNote(c.Request.Context(), cartID, req.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to persist cart"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Item note updated", updated, cartSummary(updated)))
}

func (h *CartHTTPHandler) SetOrderNote(c *gin.Context) {
	var req SetOrderNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	svc, ok := h.cartService(c)
	if !ok {
		return
	}

	updated, err := svc.SetOrderNote(c.Request.Context(), req.Note)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to persist cart"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Order note updated", updated, cartSummary(updated)))
}

// SetDiscount applies a cart-level discount. A non-positive value clears the
// discount instead of storing a zero one; percentages above 100 are rejected.
func (h *CartHTTPHandler) SetDiscount(c *gin.Context) {
	var req SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	discountType := cart.DiscountType(req.DiscountType)
	if discountType == cart.DiscountPercentage && req.DiscountValue > 100 {
		c.JSON(http.StatusBadRequest, errorResponse("Percentage discount cannot exceed 100"))
		return
	}

	var discount *cart.CartDiscount
	if req.DiscountValue > 0 {
		discount = &cart.CartDiscount{
			DiscountName:  req.DiscountName,
			DiscountType:  discountType,
			DiscountValue: req.DiscountValue,
		}
	}

	svc, ok := h.cartService(c)
	if !ok {
		return
	}

	updated, err := svc.SetDiscount(c.Request.Context(), discount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to persist cart"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Discount updated", updated, cartSummary(updated)))
}

func (h *CartHTTPHandler) RemoveDiscount(c *gin.Context) {
	svc, ok := h.cartService(c)
	if !ok {
		return
	}

	updated, err := svc.SetDiscount(c.Request.Context(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to persist cart"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Discount removed", updated, cartSummary(updated)))
}

func (h *CartHTTPHandler) ClearCart(c *gin.Context) {
	svc, ok := h.cartService(c)
	if !ok {
		return
	}

	updated, err := svc.Clear(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to persist cart"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Cart cleared", updated, cartSummary(updated)))
}
