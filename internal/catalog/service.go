// internal/catalog/service.go
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/providers"
)

// GumroadAPI is the slice of the Gumroad client the catalog consumes.
type GumroadAPI interface {
	ListProducts(ctx context.Context) ([]providers.GumroadProduct, error)
	GetProduct(ctx context.Context, nativeID string) (*providers.GumroadProduct, error)
}

// PrintifyAPI is the slice of the Printify client the catalog consumes.
type PrintifyAPI interface {
	ListProducts(ctx context.Context) ([]providers.PrintifyProduct, error)
	GetProduct(ctx context.Context, nativeID string) (*providers.PrintifyProduct, error)
}

// Result is the aggregation outcome. A non-empty Errors map alongside
// non-empty Products is a partial success, not a hard failure.
type Result struct {
	Products []models.Product           `json:"products"`
	Errors   map[models.Provider]string `json:"errors"`
}

// Filter narrows an aggregated catalog read.
type Filter struct {
	Source        models.Provider
	Query         string
	AvailableOnly bool
}

// Service aggregates provider catalogs into the unified product model.
// Clients are injected so tests substitute fakes; a nil client disables that
// provider.
type Service struct {
	gumroad  GumroadAPI
	printify PrintifyAPI
	log      *logrus.Entry

	sfg      singleflight.Group
	cacheTTL time.Duration
	mu       sync.Mutex
	cached   *Result
	cachedAt time.Time
}

func NewService(gumroad GumroadAPI, printify PrintifyAPI, cacheTTL time.Duration, log *logrus.Logger) *Service {
	return &Service{
		gumroad:  gumroad,
		printify: printify,
		cacheTTL: cacheTTL,
		log:      log.WithField("component", "catalog"),
	}
}

// GetAllProducts fans out to every enabled provider, isolating failures per
// provider: one provider outage degrades the catalog, it never blanks it.
// Concurrent callers share one in-flight fetch.
func (s *Service) GetAllProducts(ctx context.Context, filter *Filter) (*Result, error) {
	v, err, _ := s.sfg.Do("catalog", func() (interface{}, error) {
		if cached := s.fromCache(); cached != nil {
			return copyResult(cached), nil
		}
		// The flight is shared by every concurrent caller, so it must not die
		// with whichever caller happened to start it.
		result := s.fetchAll(context.WithoutCancel(ctx))
		s.storeCache(result)
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	result := v.(*Result)
	if filter != nil {
		result = applyFilter(result, filter)
	}
	return result, nil
}

func (s *Service) fetchAll(ctx context.Context) *Result {
	result := &Result{
		Products: []models.Product{},
		Errors:   map[models.Provider]string{},
	}

	var wg sync.WaitGroup
	var mu sync.Mutex

	if s.gumroad != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := s.fetchGumroad(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors[models.ProviderGumroad] = err.Error()
				return
			}
			result.Products = append(result.Products, products...)
		}()
	}

	if s.printify != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			products, err := s.fetchPrintify(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors[models.ProviderPrintify] = err.Error()
				return
			}
			result.Products = append(result.Products, products...)
		}()
	}

	wg.Wait()

	// Stable ordering across providers regardless of goroutine completion.
	sortProducts(result.Products)
	return result
}

func (s *Service) fetchGumroad(ctx context.Context) ([]models.Product, error) {
	raws, err := s.gumroad.ListProducts(ctx)
	if err != nil {
		s.log.WithError(err).Error("gumroad catalog fetch failed")
		return nil, err
	}
	products := make([]models.Product, 0, len(raws))
	for _, raw := range raws {
		product, err := NormalizeGumroad(raw)
		if err != nil {
			s.log.WithError(err).WithField("native_id", raw.ID).Warn("skipping gumroad record")
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

func (s *Service) fetchPrintify(ctx context.Context) ([]models.Product, error) {
	raws, err := s.printify.ListProducts(ctx)
	if err != nil {
		s.log.WithError(err).Error("printify catalog fetch failed")
		return nil, err
	}
	products := make([]models.Product, 0, len(raws))
	for _, raw := range raws {
		product, err := NormalizePrintify(raw)
		if err != nil {
			s.log.WithError(err).WithField("native_id", raw.ID).Warn("skipping printify record")
			continue
		}
		products = append(products, product)
	}
	return products, nil
}

// GetProductByID routes a unified id to its provider's single-item fetch.
// A provider "not found" returns (nil, nil); every other failure propagates.
func (s *Service) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	provider, nativeID, err := models.SplitProductID(id)
	if err != nil {
		return nil, err
	}

	switch provider {
	case models.ProviderGumroad:
		if s.gumroad == nil {
			return nil, fmt.Errorf("provider %s is not enabled", provider)
		}
		raw, err := s.gumroad.GetProduct(ctx, nativeID)
		if err != nil {
			if errors.Is(err, providers.ErrProductNotFound) {
				return nil, nil
			}
			return nil, err
		}
		product, err := NormalizeGumroad(*raw)
		if err != nil {
			return nil, err
		}
		return &product, nil

	case models.ProviderPrintify:
		if s.printify == nil {
			return nil, fmt.Errorf("provider %s is not enabled", provider)
		}
		raw, err := s.printify.GetProduct(ctx, nativeID)
		if err != nil {
			if errors.Is(err, providers.ErrProductNotFound) {
				return nil, nil
			}
			return nil, err
		}
		product, err := NormalizePrintify(*raw)
		if err != nil {
			return nil, err
		}
		return &product, nil
	}

	return nil, fmt.Errorf("provider %s is not enabled", provider)
}

func (s *Service) fromCache() *Result {
	if s.cacheTTL <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil || time.Since(s.cachedAt) > s.cacheTTL {
		return nil
	}
	return s.cached
}

func (s *Service) storeCache(result *Result) {
	if s.cacheTTL <= 0 || len(result.Errors) > 0 {
		// Never cache a degraded fetch; the next read retries the provider.
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = result
	s.cachedAt = time.Now()
}

// InvalidateCache drops the cached catalog so the next read refetches.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}

func applyFilter(in *Result, filter *Filter) *Result {
	out := &Result{
		Products: make([]models.Product, 0, len(in.Products)),
		Errors:   in.Errors,
	}
	query := strings.ToLower(strings.TrimSpace(filter.Query))
	for _, p := range in.Products {
		if filter.Source != "" && p.Source != filter.Source {
			continue
		}
		if filter.AvailableOnly && !p.Available {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		out.Products = append(out.Products, p)
	}
	return out
}

func sortProducts(products []models.Product) {
	// Products arrive already ordered within a provider, so a stable sort by
	// source gives a deterministic cross-provider order.
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Source < products[j].Source
	})
}

func copyResult(in *Result) *Result {
	out := &Result{
		Products: make([]models.Product, len(in.Products)),
		Errors:   make(map[models.Provider]string, len(in.Errors)),
	}
	copy(out.Products, in.Products)
	for k, v := range in.Errors {
		out.Errors[k] = v
	}
	return out
}
