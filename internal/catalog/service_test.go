// internal/catalog/service_test.go
package catalog

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

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

type fakeGumroadAPI struct {
	products []providers.GumroadProduct
	listErr  error
	getErr   error
	listed   int
}

func (f *fakeGumroadAPI) ListProducts(ctx context.Context) ([]providers.GumroadProduct, error) {
	f.listed++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakeGumroadAPI) GetProduct(_ context.Context, nativeID string) (*providers.GumroadProduct, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.products {
		if f.products[i].ID == nativeID {
			return &f.products[i], nil
		}
	}
	return nil, providers.ErrProductNotFound
}

type fakePrintifyAPI struct {
	products []providers.PrintifyProduct
	listErr  error
	getErr   error
	listed   int
}

func (f *fakePrintifyAPI) ListProducts(context.Context) ([]providers.PrintifyProduct, error) {
	f.listed++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.products, nil
}

func (f *fakePrintifyAPI) GetProduct(_ context.Context, nativeID string) (*providers.PrintifyProduct, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.products {
		if f.products[i].ID == nativeID {
			return &f.products[i], nil
		}
	}
	return nil, providers.ErrProductNotFound
}

func TestGetAllProductsAggregates(t *testing.T) {
	gumroad := &fakeGumroadAPI{products: []providers.GumroadProduct{
		{ID: "g1", Name: "Poster", Price: 1000},
	}}
	printify := &fakePrintifyAPI{products: []providers.PrintifyProduct{
		{ID: "p1", Title: "Mug", Variants: []providers.PrintifyVariant{{ID: 1, Price: 1599}}},
	}}
	svc := NewService(gumroad, printify, 0, testLogger())

	result, err := svc.GetAllProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Products, 2)
	assert.Equal(t, "gumroad-g1", result.Products[0].ID)
	assert.Equal(t, "printify-p1", result.Products[1].ID)
}

func TestGetAllProductsPartialFailure(t *testing.T) {
	gumroad := &fakeGumroadAPI{products: []providers.GumroadProduct{
		{ID: "g1", Name: "Poster", Price: 1000},
	}}
	printify := &fakePrintifyAPI{listErr: fmt.Errorf("upstream timeout")}
	svc := NewService(gumroad, printify, 0, testLogger())

	result, err := svc.GetAllProducts(context.Background(), nil)
	require.NoError(t, err, "one provider outage degrades, it never fails the read")
	require.Len(t, result.Products, 1)
	assert.Equal(t, "gumroad-g1", result.Products[0].ID)
	assert.Equal(t, "upstream timeout", result.Errors[models.ProviderPrintify])
}

func TestGetAllProductsMalformedRecordIsolated(t *testing.T) {
	gumroad := &fakeGumroadAPI{products: []providers.GumroadProduct{
		{ID: "g1", Name: "Good", Price: 1000},
		{Name: "Missing ID"},
		{ID: "g3", Name: "Also Good", Price: 500},
	}}
	svc := NewService(gumroad, nil, 0, testLogger())

	result, err := svc.GetAllProducts(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, result.Products, 2, "one bad record never fails the whole fetch")
	assert.Empty(t, result.Errors)
}

func TestGetAllProductsDisabledProvider(t *testing.T) {
	gumroad := &fakeGumroadAPI{products: []providers.GumroadProduct{
		{ID: "g1", Price: 100},
	}}
	svc := NewService(gumroad, nil, 0, testLogger())

	result, err := svc.GetAllProducts(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, result.Products, 1)
	assert.Empty(t, result.Errors, "a disabled provider is not an error")
}

func TestGetAllProductsFilters(t *testing.T) {
	gumroad := &fakeGumroadAPI{products: []providers.GumroadProduct{
		{ID: "g1", Name: "Cat Poster", Price: 1000},
		{ID: "g2", Name: "Dog Poster", Price: 1000, Published: boolPtr(false)},
	}}
	printify := &fakePrintifyAPI{products: []providers.PrintifyProduct{
		{ID: "p1", Title: "Cat Mug"},
	}}
	svc := NewService(gumroad, printify, 0, testLogger())
	ctx := context.Background()

	bySource, err := svc.GetAllProducts(ctx, &Filter{Source: models.ProviderPrintify})
	require.NoError(t, err)
	require.Len(t, bySource.Products, 1)
	assert.Equal(t, "printify-p1", bySource.Products[0].ID)

	byQuery, err := svc.GetAllProducts(ctx, &Filter{Query: "cat"})
	require.NoError(t, err)
	assert.Len(t, byQuery.Products, 2)

	available, err := svc.GetAllProducts(ctx, &Filter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, available.Products, 2)
}

func TestGetAllProductsCaching(t *testing.T) {
	gumroad := &fakeGumroadAPI{products: []providers.GumroadProduct{
		{ID: "g1", Price: 100},
	}}
	svc := NewService(gumroad, nil, time.Minute, testLogger())
	ctx := context.Background()

	_, err := svc.GetAllProducts(ctx, nil)
	require.NoError(t, err)
	_, err = svc.GetAllProducts(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, gumroad.listed, "second read within TTL hits the cache")

	svc.InvalidateCache()
	_, err = svc.GetAllProducts(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, gumroad.listed)
}

func TestGetAllProductsNeverCachesDegradedFetch(t *testing.T) {
	gumroad := &fakeGumroadAPI{listErr: fmt.Errorf("down")}
	svc := NewService(gumroad, nil, time.Minute, testLogger())
	ctx := context.Background()

	_, err := svc.GetAllProducts(ctx, nil)
	require.NoError(t, err)
	_, err = svc.GetAllProducts(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, gumroad.listed, "degraded results are refetched, not cached")
}

func TestGetAllProductsSurvivesCallerCancellation(t *testing.T) {
	gumroad := &fakeGumroadAPI{products: []providers.GumroadProduct{
		{ID: "g1", Price: 100},
	}}
	svc := NewService(gumroad, nil, 0, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The fetch is shared across concurrent callers, so one caller's
	// cancellation must not poison it.
	result, err := svc.GetAllProducts(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Products, 1)
}

func TestGetProductByID(t *testing.T) {
	gumroad := &fakeGumroadAPI{products: []providers.GumroadProduct{
		{ID: "g1", Name: "Poster", Price: 1000},
	}}
	printify := &fakePrintifyAPI{products: []providers.PrintifyProduct{
		{ID: "p1", Title: "Mug", Variants: []providers.PrintifyVariant{{ID: 1, Price: 1599}}},
	}}
	svc := NewService(gumroad, printify, 0, testLogger())
	ctx := context.Background()

	product, err := svc.GetProductByID(ctx, "gumroad-g1")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Poster", product.Name)

	product, err = svc.GetProductByID(ctx, "printify-p1")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, "Mug", product.Name)
}

func TestGetProductByIDNotFound(t *testing.T) {
	svc := NewService(&fakeGumroadAPI{}, nil, 0, testLogger())

	product, err := svc.GetProductByID(context.Background(), "gumroad-missing")
	require.NoError(t, err, "provider not-found is a null result, not an error")
	assert.Nil(t, product)
}

func TestGetProductByIDErrors(t *testing.T) {
	svc := NewService(&fakeGumroadAPI{getErr: fmt.Errorf("boom")}, nil, 0, testLogger())
	ctx := context.Background()

	_, err := svc.GetProductByID(ctx, "gumroad-g1")
	assert.Error(t, err)

	_, err = svc.GetProductByID(ctx, "not-a-valid-provider")
	assert.Error(t, err)

	_, err = svc.GetProductByID(ctx, "printify-p1")
	assert.ErrorContains(t, err, "not enabled")
}
