// internal/models/cart.go
package models

// CartItem is one line item in the cart. It stores a full product snapshot,
// so later catalog changes never retroactively alter an item already added.
type CartItem struct {
	Product           Product           `json:"product"`
	Quantity          int               `json:"quantity"`
	SelectedVariantID string            `json:"selected_variant_id,omitempty"`
	SelectedOptions   map[string]string `json:"selected_options,omitempty"`
}

// SameLineItem reports whether this entry and the given identity key refer to
// the same line item. Product id plus selected variant is the merge key for
// every cart operation; variant-less products compare by product id alone.
func (i *CartItem) SameLineItem(productID, selectedVariantID string) bool {
	return i.Product.ID == productID && i.SelectedVariantID == selectedVariantID
}

// UnitPrice is the variant-specific price when a matching variant detail
// exists, the base product price otherwise.
func (i *CartItem) UnitPrice() float64 {
	return i.Product.PriceFor(i.SelectedVariantID)
}

func (i *CartItem) Subtotal() float64 {
	return i.UnitPrice() * float64(i.Quantity)
}
