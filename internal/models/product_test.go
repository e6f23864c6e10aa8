// internal/models/product_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductIDRoundTrip(t *testing.T) {
	id := BuildProductID(ProviderGumroad, "abc123")
	assert.Equal(t, "gumroad-abc123", id)

	provider, nativeID, err := SplitProductID(id)
	require.NoError(t, err)
	assert.Equal(t, ProviderGumroad, provider)
	assert.Equal(t, "abc123", nativeID)
}

func TestSplitProductIDHyphenatedNativeID(t *testing.T) {
	provider, nativeID, err := SplitProductID("printify-64f1-a2b3-c4d5")
	require.NoError(t, err)
	assert.Equal(t, ProviderPrintify, provider)
	assert.Equal(t, "64f1-a2b3-c4d5", nativeID, "only the first separator is significant")
}

func TestSplitProductIDInvalid(t *testing.T) {
	for _, id := range []string{"", "gumroad", "gumroad-", "shopify-abc", "-abc"} {
		_, _, err := SplitProductID(id)
		assert.Error(t, err, "id %q must be rejected", id)
	}
}

func TestPriceFor(t *testing.T) {
	p := Product{
		Price: 10,
		VariantDetails: []VariantDetail{
			{ID: "size:large", Price: 12.50},
		},
	}

	assert.Equal(t, 12.50, p.PriceFor("size:large"))
	assert.Equal(t, 10.0, p.PriceFor(""), "no selection means base price")
	assert.Equal(t, 10.0, p.PriceFor("size:unknown"), "unknown variant falls open to base price")
}

func TestCartItemIdentityAndSubtotal(t *testing.T) {
	item := CartItem{
		Product: Product{
			ID:    "gumroad-a",
			Price: 10,
			VariantDetails: []VariantDetail{
				{ID: "size:large", Price: 12.50},
			},
		},
		Quantity:          3,
		SelectedVariantID: "size:large",
	}

	assert.True(t, item.SameLineItem("gumroad-a", "size:large"))
	assert.False(t, item.SameLineItem("gumroad-a", ""))
	assert.False(t, item.SameLineItem("gumroad-b", "size:large"))

	assert.Equal(t, 12.50, item.UnitPrice())
	assert.InDelta(t, 37.50, item.Subtotal(), 1e-9)
}
