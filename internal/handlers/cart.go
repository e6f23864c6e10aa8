// internal/handlers/cart.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/storefront-backend/internal/cart"
	"github.com/javajoker/storefront-backend/internal/catalog"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type CartHandler struct {
	carts   *cart.Manager
	catalog *catalog.Service
}

type AddCartItemRequest struct {
	ProductID         string            `json:"product_id" validate:"required,product_id"`
	Quantity          int               `json:"quantity" validate:"required,min=1"`
	SelectedVariantID string            `json:"selected_variant_id,omitempty"`
	SelectedOptions   map[string]string `json:"selected_options,omitempty"`
}

type UpdateCartItemRequest struct {
	ProductID         string `json:"product_id" validate:"required,product_id"`
	Quantity          int    `json:"quantity" validate:"min=0"`
	SelectedVariantID string `json:"selected_variant_id,omitempty"`
}

func NewCartHandler(carts *cart.Manager, catalogService *catalog.Service) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalogService,
	}
}

func (h *CartHandler) sessionCart(c *gin.Context) (*cart.Store, bool) {
	sessionID, exists := utils.GetSessionIDFromContext(c)
	if !exists {
		utils.ErrorResponse(c, 401, "NO_SESSION", "Missing cart session", nil)
		return nil, false
	}
	store, err := h.carts.Cart(sessionID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return nil, false
	}
	return store, true
}

// GET /cart
func (h *CartHandler) GetCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	utils.SuccessResponse(c, gin.H{
		"items":      store.Items(),
		"total":      store.Total(),
		"item_count": store.ItemCount(),
	})
}

// GET /cart/summary
func (h *CartHandler) GetSummary(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	byProvider := gin.H{}
	for _, provider := range store.Providers() {
		entries := store.ItemsByProvider(provider)
		var subtotal float64
		for idx := range entries {
			subtotal += entries[idx].Subtotal()
		}
		byProvider[string(provider)] = gin.H{
			"items":    entries,
			"subtotal": subtotal,
		}
	}

	utils.SuccessResponse(c, gin.H{
		"total":       store.Total(),
		"item_count":  store.ItemCount(),
		"by_provider": byProvider,
	})
}

// POST /cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// The cart stores a full product snapshot, so the current normalized
	// product is resolved here, once, at add time.
	product, err := h.catalog.GetProductByID(c.Request.Context(), req.ProductID)
	if err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}
	if product == nil {
		utils.NotFoundResponse(c, "product")
		return
	}

	outcome, err := store.AddItem(*product, req.Quantity, req.SelectedVariantID, req.SelectedOptions)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	message := "Added to cart"
	if outcome == cart.OutcomeQuantityUpdated {
		message = "Cart quantity updated"
	}
	utils.SuccessResponse(c, gin.H{
		"message":    message,
		"outcome":    outcome,
		"items":      store.Items(),
		"item_count": store.ItemCount(),
	})
}

// PUT /cart/items
func (h *CartHandler) UpdateItem(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	changed, err := store.UpdateQuantity(req.ProductID, req.SelectedVariantID, req.Quantity)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"changed":    changed,
		"items":      store.Items(),
		"item_count": store.ItemCount(),
	})
}

// DELETE /cart/items?product_id=...&selected_variant_id=...
func (h *CartHandler) RemoveItem(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	productID := c.Query("product_id")
	if productID == "" {
		utils.BadRequestResponse(c, "product_id is required", nil)
		return
	}

	removed, err := store.RemoveItem(productID, c.Query("selected_variant_id"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"removed":    removed,
		"items":      store.Items(),
		"item_count": store.ItemCount(),
	})
}

// DELETE /cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	if err := store.Clear(); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": "Cart cleared",
		"items":   []models.CartItem{},
	})
}
