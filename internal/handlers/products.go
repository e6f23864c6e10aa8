// internal/handlers/products.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/storefront-backend/internal/catalog"
	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/utils"
)

type ProductHandler struct {
	catalog *catalog.Service
}

func NewProductHandler(catalogService *catalog.Service) *ProductHandler {
	return &ProductHandler{catalog: catalogService}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	filter := &catalog.Filter{
		Query: c.Query("q"),
	}

	if source := c.Query("source"); source != "" {
		provider := models.Provider(source)
		if !provider.Valid() {
			utils.BadRequestResponse(c, "Unknown provider", nil)
			return
		}
		filter.Source = provider
	}

	if availableStr := c.Query("available"); availableStr != "" {
		if available, err := strconv.ParseBool(availableStr); err == nil {
			filter.AvailableOnly = available
		}
	}

	result, err := h.catalog.GetAllProducts(c.Request.Context(), filter)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	// A non-empty error map next to fetched products is a partial success;
	// the client renders a warning, not an error state.
	utils.SuccessResponse(c, gin.H{
		"products": result.Products,
		"errors":   result.Errors,
	})
}

// GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id := c.Param("id")
	if _, _, err := models.SplitProductID(id); err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	product, err := h.catalog.GetProductByID(c.Request.Context(), id)
	if err != nil {
		utils.BadGatewayResponse(c, err.Error())
		return
	}
	if product == nil {
		utils.NotFoundResponse(c, "product")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"product": product,
	})
}
