// internal/bundle/service.go
package bundle

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/providers"
)

// DefaultTTL is the offer validity window; the provider enforces it, this
// system only reports it.
const DefaultTTL = 24 * time.Hour

// GumroadCreator is the slice of the Gumroad client the bundle service uses
// to synthesize combined offers.
type GumroadCreator interface {
	CreateProduct(ctx context.Context, req providers.CreateGumroadProductRequest) (*providers.GumroadProduct, error)
	PublishProduct(ctx context.Context, nativeID string) error
}

// Service synthesizes an ad-hoc combined purchasable product for a set of
// cart items from one provider, working around the lack of multi-item
// server-side checkout.
type Service struct {
	gumroad GumroadCreator
	ttl     time.Duration
	log     *logrus.Entry
	now     func() time.Time
}

func NewService(gumroad GumroadCreator, ttl time.Duration, log *logrus.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{
		gumroad: gumroad,
		ttl:     ttl,
		log:     log.WithField("component", "bundle"),
		now:     time.Now,
	}
}

// CreateBundle builds one combined offer covering all given items and returns
// the bundle plus its checkout URL. The discount is caller-supplied, never
// inferred.
func (s *Service) CreateBundle(ctx context.Context, items []models.CartItem, discountPercent float64) (*models.Bundle, string, error) {
	if s.gumroad == nil {
		return nil, "", fmt.Errorf("bundle provider is not enabled")
	}
	if len(items) == 0 {
		return nil, "", fmt.Errorf("cannot bundle an empty item list")
	}
	if discountPercent < 0 || discountPercent > 100 {
		return nil, "", fmt.Errorf("discount percent %v out of range", discountPercent)
	}
	for _, item := range items {
		if item.Product.Source != models.ProviderGumroad {
			return nil, "", fmt.Errorf("product %s is not a gumroad product", item.Product.ID)
		}
		if item.Quantity < 1 {
			return nil, "", fmt.Errorf("product %s has invalid quantity %d", item.Product.ID, item.Quantity)
		}
	}

	var total float64
	lines := make([]string, 0, len(items))
	names := make([]string, 0, len(items))
	for _, item := range items {
		total += item.Subtotal()
		lines = append(lines, fmt.Sprintf("%dx %s", item.Quantity, item.Product.Name))
		names = append(names, item.Product.Name)
	}
	if discountPercent > 0 {
		total = total * (1 - discountPercent/100)
	}
	total = math.Round(total*100) / 100

	now := s.now()
	bundle := &models.Bundle{
		ID:         uuid.New().String(),
		Name:       bundleName(names),
		Items:      items,
		TotalPrice: total,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	req := providers.CreateGumroadProductRequest{
		Name:        bundle.Name,
		Description: "Includes: " + strings.Join(lines, ", "),
		// The offer price goes back to the provider in minor units; this is
		// the one place the major-unit total converts back.
		Price:           int64(math.Round(total * 100)),
		CustomPermalink: "bundle-" + bundle.ID[:8],
	}

	created, err := s.gumroad.CreateProduct(ctx, req)
	if err != nil {
		return nil, "", fmt.Errorf("create bundle offer: %w", err)
	}
	if err := s.gumroad.PublishProduct(ctx, created.ID); err != nil {
		return nil, "", fmt.Errorf("publish bundle offer: %w", err)
	}
	if created.ShortURL == "" {
		return nil, "", fmt.Errorf("bundle offer %s has no checkout url", created.ID)
	}

	s.log.WithFields(logrus.Fields{
		"bundle_id": bundle.ID,
		"items":     len(items),
		"total":     total,
	}).Info("bundle offer created")

	return bundle, created.ShortURL, nil
}

func bundleName(names []string) string {
	joined := strings.Join(names, " + ")
	// Truncate on rune boundaries so multibyte product names stay valid.
	if runes := []rune(joined); len(runes) > 80 {
		joined = string(runes[:77]) + "..."
	}
	return "Bundle: " + joined
}
