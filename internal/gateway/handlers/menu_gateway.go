package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nagpalarpit/POS-WaiterApp/internal/gateway/middleware"
	"github.com/nagpalarpit/POS-WaiterApp/internal/menu"
)

type MenuHTTPHandler struct {
	menuService *menu.Service
}

func NewMenuHTTPHandler(menuService *menu.Service) *MenuHTTPHandler {
	return &MenuHTTPHandler{
		menuService: menuService,
	}
}

type ImportMenuRequest struct {
	Categories []map[string]interface{} `json:"categories" binding:"required,min=1"`
}

// --- Menu Handlers ---

func (h *MenuHTTPHandler) ListCategories(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	categories, err := h.menuService.Categories(c.Request.Context(), claims.CompanyId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to load menu"))
		return
	}
	c.JSON(http.StatusOK, successResponse("Menu retrieved successfully", categories))
}

// ImportMenu replaces the company's menu with the uploaded payload. The
// payload may use any of the legacy shapes; it is normalized on the way in.
func (h *MenuHTTPHandler) ImportMenu(c *gin.Context) {
	claims, ok := middleware.SessionClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("Session claims missing"))
		return
	}

	var req ImportMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	imported, err := h.menuService.Import(c.Request.Context(), claims.CompanyId, req.Categories)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to import menu"))
		return
	}
	c.JSON(http.StatusOK, successWithMetaResponse("Menu imported successfully", nil, gin.H{"itemsImported": imported}))
}
