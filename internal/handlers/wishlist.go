// internal/handlers/wishlist.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/storefront-backend/internal/cart"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type WishlistHandler struct {
	carts *cart.Manager
}

type WishlistRequest struct {
	ProductID string `json:"product_id" validate:"required,product_id"`
}

func NewWishlistHandler(carts *cart.Manager) *WishlistHandler {
	return &WishlistHandler{carts: carts}
}

func (h *WishlistHandler) sessionWishlist(c *gin.Context) (*cart.Wishlist, bool) {
	sessionID, exists := utils.GetSessionIDFromContext(c)
	if !exists {
		utils.ErrorResponse(c, 401, "NO_SESSION", "Missing cart session", nil)
		return nil, false
	}
	list, err := h.carts.Wishlist(sessionID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return nil, false
	}
	return list, true
}

// GET /wishlist
func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	list, ok := h.sessionWishlist(c)
	if !ok {
		return
	}
	utils.SuccessResponse(c, gin.H{
		"product_ids": list.IDs(),
	})
}

// POST /wishlist
func (h *WishlistHandler) AddToWishlist(c *gin.Context) {
	list, ok := h.sessionWishlist(c)
	if !ok {
		return
	}

	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	added, err := list.Add(req.ProductID)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"added":       added,
		"product_ids": list.IDs(),
	})
}

// DELETE /wishlist/:id
func (h *WishlistHandler) RemoveFromWishlist(c *gin.Context) {
	list, ok := h.sessionWishlist(c)
	if !ok {
		return
	}

	removed, err := list.Remove(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"removed":     removed,
		"product_ids": list.IDs(),
	})
}
