// internal/providers/printify.go
package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
)

const DefaultPrintifyBaseURL = "https://api.printify.com"

// PrintifyProduct is the raw record shape the Printify API returns. Variant
// prices are integer minor units (cents).
type PrintifyProduct struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Images      []PrintifyImage   `json:"images"`
	Variants    []PrintifyVariant `json:"variants"`
	Options     []PrintifyOption  `json:"options"`
	Visible     *bool             `json:"visible,omitempty"`
	External    *PrintifyExternal `json:"external,omitempty"`
}

type PrintifyImage struct {
	Src       string `json:"src"`
	IsDefault bool   `json:"is_default"`
	Position  string `json:"position,omitempty"`
}

type PrintifyVariant struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Price     int64   `json:"price"`
	IsEnabled *bool   `json:"is_enabled,omitempty"`
	Options   []int64 `json:"options"`
}

// PrintifyOption is a variant axis ("Sizes", "Colors") with its values.
type PrintifyOption struct {
	Name   string                `json:"name"`
	Type   string                `json:"type"`
	Values []PrintifyOptionValue `json:"values"`
}

type PrintifyOptionValue struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// PrintifyExternal links a product published to an external storefront.
type PrintifyExternal struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
}

type printifyListResponse struct {
	CurrentPage int               `json:"current_page"`
	Data        []PrintifyProduct `json:"data"`
	LastPage    int               `json:"last_page"`
}

// PrintifyClient is a thin authenticated fetcher against the Printify REST
// API, scoped to one shop.
type PrintifyClient struct {
	apiClient
	shopID string
}

func NewPrintifyClient(baseURL, apiToken, shopID string, httpClient *http.Client, log *logrus.Logger) *PrintifyClient {
	if baseURL == "" {
		baseURL = DefaultPrintifyBaseURL
	}
	return &PrintifyClient{
		apiClient: newAPIClient("printify", baseURL, apiToken, httpClient, 5, log),
		shopID:    shopID,
	}
}

func (c *PrintifyClient) ListProducts(ctx context.Context) ([]PrintifyProduct, error) {
	query := url.Values{"limit": {"100"}}
	var resp printifyListResponse
	path := fmt.Sprintf("/v1/shops/%s/products.json", url.PathEscape(c.shopID))
	if err := c.doJSON(ctx, http.MethodGet, path, query, nil, &resp); err != nil {
		return nil, fmt.Errorf("list printify products: %w", err)
	}
	return resp.Data, nil
}

func (c *PrintifyClient) GetProduct(ctx context.Context, nativeID string) (*PrintifyProduct, error) {
	var product PrintifyProduct
	path := fmt.Sprintf("/v1/shops/%s/products/%s.json", url.PathEscape(c.shopID), url.PathEscape(nativeID))
	if err := c.doJSON(ctx, http.MethodGet, path, nil, nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}
