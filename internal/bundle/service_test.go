// internal/bundle/service_test.go
package bundle

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/providers"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeGumroad struct {
	createErr  error
	publishErr error
	shortURL   string

	createdReq  providers.CreateGumroadProductRequest
	publishedID string
}

func (f *fakeGumroad) CreateProduct(_ context.Context, req providers.CreateGumroadProductRequest) (*providers.GumroadProduct, error) {
	f.createdReq = req
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &providers.GumroadProduct{ID: "native-1", ShortURL: f.shortURL}, nil
}

func (f *fakeGumroad) PublishProduct(_ context.Context, nativeID string) error {
	f.publishedID = nativeID
	return f.publishErr
}

func gumroadItem(id, name string, price float64, quantity int) models.CartItem {
	return models.CartItem{
		Product: models.Product{
			ID:     "gumroad-" + id,
			Source: models.ProviderGumroad,
			Name:   name,
			Price:  price,
		},
		Quantity: quantity,
	}
}

func TestCreateBundle(t *testing.T) {
	gumroad := &fakeGumroad{shortURL: "https://gum.co/bundle-offer"}
	svc := NewService(gumroad, 0, testLogger())

	items := []models.CartItem{
		gumroadItem("a", "Poster", 10, 2),
		gumroadItem("b", "Sticker Pack", 5.50, 1),
	}

	bundle, checkoutURL, err := svc.CreateBundle(context.Background(), items, 0)
	require.NoError(t, err)

	assert.Equal(t, "https://gum.co/bundle-offer", checkoutURL)
	assert.Equal(t, "Bundle: Poster + Sticker Pack", bundle.Name)
	assert.InDelta(t, 25.50, bundle.TotalPrice, 1e-9)
	assert.Equal(t, items, bundle.Items)
	assert.Equal(t, DefaultTTL, bundle.ExpiresAt.Sub(bundle.CreatedAt))

	assert.Equal(t, "Includes: 2x Poster, 1x Sticker Pack", gumroad.createdReq.Description)
	assert.Equal(t, int64(2550), gumroad.createdReq.Price, "offer price goes back in cents")
	assert.True(t, strings.HasPrefix(gumroad.createdReq.CustomPermalink, "bundle-"))
	assert.Equal(t, "native-1", gumroad.publishedID)
}

func TestCreateBundleDiscount(t *testing.T) {
	gumroad := &fakeGumroad{shortURL: "https://gum.co/bundle-offer"}
	svc := NewService(gumroad, 0, testLogger())

	items := []models.CartItem{
		gumroadItem("a", "Poster", 10, 1),
		gumroadItem("b", "Print", 10, 1),
	}

	bundle, _, err := svc.CreateBundle(context.Background(), items, 15)
	require.NoError(t, err)
	assert.InDelta(t, 17.00, bundle.TotalPrice, 1e-9)
	assert.Equal(t, int64(1700), gumroad.createdReq.Price)
}

func TestCreateBundleDiscountRounding(t *testing.T) {
	gumroad := &fakeGumroad{shortURL: "https://gum.co/bundle-offer"}
	svc := NewService(gumroad, 0, testLogger())

	items := []models.CartItem{
		gumroadItem("a", "Poster", 9.99, 1),
		gumroadItem("b", "Print", 4.99, 1),
	}

	// 14.98 * 0.9 = 13.482 rounds to 13.48.
	bundle, _, err := svc.CreateBundle(context.Background(), items, 10)
	require.NoError(t, err)
	assert.InDelta(t, 13.48, bundle.TotalPrice, 1e-9)
	assert.Equal(t, int64(1348), gumroad.createdReq.Price)
}

func TestCreateBundleVariantPrices(t *testing.T) {
	gumroad := &fakeGumroad{shortURL: "https://gum.co/bundle-offer"}
	svc := NewService(gumroad, 0, testLogger())

	withVariant := gumroadItem("a", "Tee", 20, 1)
	withVariant.Product.VariantDetails = []models.VariantDetail{{ID: "size:xl", Price: 22.50}}
	withVariant.SelectedVariantID = "size:xl"

	bundle, _, err := svc.CreateBundle(context.Background(), []models.CartItem{withVariant}, 0)
	require.NoError(t, err)
	assert.InDelta(t, 22.50, bundle.TotalPrice, 1e-9)
}

func TestCreateBundleNameTruncation(t *testing.T) {
	gumroad := &fakeGumroad{shortURL: "https://gum.co/bundle-offer"}
	svc := NewService(gumroad, 0, testLogger())

	long := strings.Repeat("Very Long Product Name ", 6)
	bundle, _, err := svc.CreateBundle(context.Background(), []models.CartItem{
		gumroadItem("a", long, 10, 1),
	}, 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(bundle.Name, "Bundle: "))
	assert.True(t, strings.HasSuffix(bundle.Name, "..."))
	assert.LessOrEqual(t, len(bundle.Name), len("Bundle: ")+80)
}

func TestCreateBundleNameTruncationMultibyte(t *testing.T) {
	gumroad := &fakeGumroad{shortURL: "https://gum.co/bundle-offer"}
	svc := NewService(gumroad, 0, testLogger())

	long := strings.Repeat("限定版ポスター", 15)
	bundle, _, err := svc.CreateBundle(context.Background(), []models.CartItem{
		gumroadItem("a", long, 10, 1),
	}, 0)
	require.NoError(t, err)
	assert.True(t, utf8.ValidString(bundle.Name), "truncation must not split a rune")
	assert.True(t, strings.HasSuffix(bundle.Name, "..."))
	assert.LessOrEqual(t, utf8.RuneCountInString(bundle.Name), utf8.RuneCountInString("Bundle: ")+80)
}

func TestCreateBundleValidation(t *testing.T) {
	svc := NewService(&fakeGumroad{shortURL: "https://gum.co/x"}, 0, testLogger())
	ctx := context.Background()

	_, _, err := svc.CreateBundle(ctx, nil, 0)
	assert.Error(t, err)

	_, _, err = svc.CreateBundle(ctx, []models.CartItem{gumroadItem("a", "Poster", 10, 1)}, 101)
	assert.Error(t, err)

	_, _, err = svc.CreateBundle(ctx, []models.CartItem{gumroadItem("a", "Poster", 10, 0)}, 0)
	assert.Error(t, err)

	printify := gumroadItem("b", "Mug", 10, 1)
	printify.Product.Source = models.ProviderPrintify
	_, _, err = svc.CreateBundle(ctx, []models.CartItem{printify}, 0)
	assert.Error(t, err)
}

func TestCreateBundleProviderFailures(t *testing.T) {
	ctx := context.Background()
	items := []models.CartItem{gumroadItem("a", "Poster", 10, 1)}

	t.Run("create fails", func(t *testing.T) {
		svc := NewService(&fakeGumroad{createErr: fmt.Errorf("boom")}, 0, testLogger())
		_, _, err := svc.CreateBundle(ctx, items, 0)
		assert.ErrorContains(t, err, "create bundle offer")
	})

	t.Run("publish fails", func(t *testing.T) {
		svc := NewService(&fakeGumroad{shortURL: "https://gum.co/x", publishErr: fmt.Errorf("boom")}, 0, testLogger())
		_, _, err := svc.CreateBundle(ctx, items, 0)
		assert.ErrorContains(t, err, "publish bundle offer")
	})

	t.Run("missing checkout url", func(t *testing.T) {
		svc := NewService(&fakeGumroad{}, 0, testLogger())
		_, _, err := svc.CreateBundle(ctx, items, 0)
		assert.ErrorContains(t, err, "no checkout url")
	})

	t.Run("provider disabled", func(t *testing.T) {
		svc := NewService(nil, 0, testLogger())
		_, _, err := svc.CreateBundle(ctx, items, 0)
		assert.ErrorContains(t, err, "not enabled")
	})
}

func TestCreateBundleTTL(t *testing.T) {
	gumroad := &fakeGumroad{shortURL: "https://gum.co/x"}
	svc := NewService(gumroad, 2*time.Hour, testLogger())

	bundle, _, err := svc.CreateBundle(context.Background(), []models.CartItem{
		gumroadItem("a", "Poster", 10, 1),
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, bundle.ExpiresAt.Sub(bundle.CreatedAt))
}
