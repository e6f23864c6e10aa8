// internal/providers/gumroad.go
package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

const DefaultGumroadBaseURL = "https://api.gumroad.com"

// GumroadProduct is the raw record shape the Gumroad API returns. Prices are
// integer minor units (cents).
type GumroadProduct struct {
	ID           string           `json:"id"`
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        int64            `json:"price"`
	Currency     string           `json:"currency"`
	ShortURL     string           `json:"short_url"`
	ThumbnailURL string           `json:"thumbnail_url"`
	PreviewURL   string           `json:"preview_url"`
	Published    *bool            `json:"published,omitempty"`
	Tags         []string         `json:"tags"`
	Variants     []GumroadVariant `json:"variants"`
}

// GumroadVariant is a variant category (axis) with its options.
type GumroadVariant struct {
	Title   string                 `json:"title"`
	Options []GumroadVariantOption `json:"options"`
}

type GumroadVariantOption struct {
	Name string `json:"name"`
	// PriceDifference is the option's surcharge over the base price, in cents.
	PriceDifference int64 `json:"price_difference"`
}

// CreateGumroadProductRequest is the payload for synthesizing an ad-hoc
// product, used by the bundle checkout path. Price is in cents.
type CreateGumroadProductRequest struct {
	Name            string `json:"name"`
	Description     string `json:"description"`
	Price           int64  `json:"price"`
	CustomPermalink string `json:"custom_permalink,omitempty"`
}

type gumroadListResponse struct {
	Success  bool             `json:"success"`
	Products []GumroadProduct `json:"products"`
	Message  string           `json:"message"`
}

type gumroadProductResponse struct {
	Success bool           `json:"success"`
	Product GumroadProduct `json:"product"`
	Message string         `json:"message"`
}

// GumroadClient is a thin authenticated fetcher against the Gumroad REST API.
// It returns raw provider records; all mapping happens in the normalizer.
type GumroadClient struct {
	apiClient
}

func NewGumroadClient(baseURL, accessToken string, httpClient *http.Client, log *logrus.Logger) *GumroadClient {
	if baseURL == "" {
		baseURL = DefaultGumroadBaseURL
	}
	return &GumroadClient{
		apiClient: newAPIClient("gumroad", baseURL, accessToken, httpClient, 5, log),
	}
}

func (c *GumroadClient) ListProducts(ctx context.Context) ([]GumroadProduct, error) {
	var resp gumroadListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v2/products", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("list gumroad products: %w", err)
	}
	if !resp.Success {
		return nil, &APIError{Provider: c.provider, StatusCode: http.StatusOK, Message: resp.Message}
	}
	return resp.Products, nil
}

func (c *GumroadClient) GetProduct(ctx context.Context, nativeID string) (*GumroadProduct, error) {
	var resp gumroadProductResponse
	if err := c.doJSON(ctx, http.MethodGet, "/v2/products/"+url.PathEscape(nativeID), nil, nil, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		// Gumroad reports unknown ids with success=false on a 200. Envelope
		// failures with any other message (bad token, missing scope) stay
		// API errors.
		if resp.Message == "" || strings.Contains(strings.ToLower(resp.Message), "not found") {
			return nil, ErrProductNotFound
		}
		return nil, &APIError{Provider: c.provider, StatusCode: http.StatusOK, Message: resp.Message}
	}
	return &resp.Product, nil
}

// CreateProduct synthesizes a new product, used for bundle offers.
func (c *GumroadClient) CreateProduct(ctx context.Context, req CreateGumroadProductRequest) (*GumroadProduct, error) {
	var resp gumroadProductResponse
	if err := c.doJSON(ctx, http.MethodPost, "/v2/products", nil, req, &resp); err != nil {
		return nil, fmt.Errorf("create gumroad product: %w", err)
	}
	if !resp.Success {
		return nil, &APIError{Provider: c.provider, StatusCode: http.StatusOK, Message: resp.Message}
	}
	return &resp.Product, nil
}

// PublishProduct flips a freshly created product live so its checkout URL
// resolves. Gumroad creates products unpublished.
func (c *GumroadClient) PublishProduct(ctx context.Context, nativeID string) error {
	var resp gumroadProductResponse
	if err := c.doJSON(ctx, http.MethodPut, "/v2/products/"+url.PathEscape(nativeID)+"/enable", nil, nil, &resp); err != nil {
		return fmt.Errorf("publish gumroad product: %w", err)
	}
	if !resp.Success {
		return &APIError{Provider: c.provider, StatusCode: http.StatusOK, Message: resp.Message}
	}
	return nil
}
