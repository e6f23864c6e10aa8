// internal/handlers/checkout.go
package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/storefront-backend/internal/bundle"
	"github.com/javajoker/storefront-backend/internal/cart"
	"github.com/javajoker/storefront-backend/internal/checkout"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type CheckoutHandler struct {
	carts   *cart.Manager
	planner *checkout.Planner
	bundles *bundle.Service
}

type PlanCheckoutRequest struct {
	Mode            string  `json:"mode,omitempty" validate:"omitempty,oneof=quick bundle"`
	DiscountPercent float64 `json:"discount_percent,omitempty" validate:"min=0,max=100"`
}

type CreateBundleRequest struct {
	Provider        string  `json:"provider" validate:"required,provider"`
	DiscountPercent float64 `json:"discount_percent,omitempty" validate:"min=0,max=100"`
}

func NewCheckoutHandler(carts *cart.Manager, planner *checkout.Planner, bundles *bundle.Service) *CheckoutHandler {
	return &CheckoutHandler{
		carts:   carts,
		planner: planner,
		bundles: bundles,
	}
}

func (h *CheckoutHandler) sessionCart(c *gin.Context) (*cart.Store, bool) {
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

// POST /checkout/plan
//
// Produces the outbound navigation plan for the session cart. Planning never
// mutates the cart; clearing is a separate, user-confirmed call.
func (h *CheckoutHandler) PlanCheckout(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	var req PlanCheckoutRequest
	// The plan request body is optional; an empty body means quick mode.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if len(store.Items()) == 0 {
		utils.BadRequestResponse(c, "Cart is empty", nil)
		return
	}

	mode := checkout.Mode(req.Mode)
	if mode == "" {
		mode = checkout.ModeQuick
	}

	plan, err := h.planner.Plan(c.Request.Context(), store, mode, req.DiscountPercent)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"plan": plan,
	})
}

// POST /checkout/bundle
//
// Synthesizes a combined offer for one provider's cart items. Failure is a
// warning payload, not an error: the client falls back to quick checkout.
func (h *CheckoutHandler) CreateBundle(c *gin.Context) {
	store, ok := h.sessionCart(c)
	if !ok {
		return
	}

	var req CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}
	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	// With the bundle provider disabled there is no service to call; that is
	// the same degradation as a failed offer, not an error.
	if h.bundles == nil {
		utils.SuccessResponse(c, gin.H{
			"warning": "Bundle unavailable: bundle provider is not enabled",
		})
		return
	}

	provider := models.Provider(req.Provider)
	var items []models.CartItem
	for _, item := range store.Items() {
		if item.Product.Source == provider {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		utils.BadRequestResponse(c, "No cart items for provider", nil)
		return
	}

	created, checkoutURL, err := h.bundles.CreateBundle(c.Request.Context(), items, req.DiscountPercent)
	if err != nil {
		utils.SuccessResponse(c, gin.H{
			"warning": "Bundle unavailable: " + err.Error(),
		})
		return
	}

	utils.SuccessResponse(c, gin.H{
		"bundle":       created,
		"checkout_url": checkoutURL,
	})
}
