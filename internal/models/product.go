// internal/models/product.go
package models

import (
	"fmt"
	"strings"
)

// Provider identifies an external commerce backend.
type Provider string

const (
	ProviderGumroad  Provider = "gumroad"
	ProviderPrintify Provider = "printify"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderGumroad, ProviderPrintify:
		return true
	}
	return false
}

// BuildProductID constructs the globally unique product id. The provider
// prefix is what routes every later operation back to its source.
func BuildProductID(provider Provider, nativeID string) string {
	return fmt.Sprintf("%s-%s", provider, nativeID)
}

// SplitProductID parses a unified product id into its provider prefix and the
// provider-native id. Native ids may themselves contain hyphens, so only the
// first separator is significant.
func SplitProductID(id string) (Provider, string, error) {
	parts := strings.SplitN(id, "-", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("invalid product id %q", id)
	}
	provider := Provider(parts[0])
	if !provider.Valid() {
		return "", "", fmt.Errorf("unknown provider prefix in product id %q", id)
	}
	return provider, parts[1], nil
}

type ProductImage struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text,omitempty"`
}

// ProductVariant is a variant axis (e.g. "Size") and its possible values.
// Prices live in VariantDetail, not here.
type ProductVariant struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Options []string `json:"options"`
}

// VariantDetail maps one selectable variant to its price. ID is what
// CartItem.SelectedVariantID refers to; NativeID is the provider's own
// variant identifier when it has one.
type VariantDetail struct {
	ID       string            `json:"id"`
	NativeID string            `json:"native_id,omitempty"`
	Options  map[string]string `json:"options,omitempty"`
	Price    float64           `json:"price"`
}

// Product is the unified catalog entity. It is created fresh on every
// catalog fetch and never mutated after normalization.
type Product struct {
	ID             string           `json:"id"`
	Source         Provider         `json:"source"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	Price          float64          `json:"price"` // major currency units
	Images         []ProductImage   `json:"images"`
	Variants       []ProductVariant `json:"variants,omitempty"`
	VariantDetails []VariantDetail  `json:"variant_details,omitempty"`
	Tags           []string         `json:"tags,omitempty"`
	Available      bool             `json:"available"`

	// PurchaseURL is set only for providers with direct-redirect checkout.
	PurchaseURL string `json:"purchase_url,omitempty"`
}

// PriceFor returns the price for the given selected variant, falling back to
// the base price when no matching variant detail exists.
func (p *Product) PriceFor(selectedVariantID string) float64 {
	if selectedVariantID == "" {
		return p.Price
	}
	for _, d := range p.VariantDetails {
		if d.ID == selectedVariantID {
			return d.Price
		}
	}
	return p.Price
}
