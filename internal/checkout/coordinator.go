// internal/checkout/coordinator.go
package checkout

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-backend/internal/models"
)

// Mode selects the multi-item strategy for providers without native
// multi-item checkout.
type Mode string

const (
	// ModeQuick opens one navigation target per distinct product, staggered
	// to stay under browser popup-blocking heuristics.
	ModeQuick Mode = "quick"
	// ModeBundle synthesizes one combined offer and opens a single target,
	// falling back to quick when bundle creation fails.
	ModeBundle Mode = "bundle"
)

// Action is one outbound navigation the browser performs. DelayMillis is
// relative to the start of the plan; a non-empty Error marks an item that
// could not produce a checkout target.
type Action struct {
	Provider    models.Provider `json:"provider"`
	ProductID   string          `json:"product_id,omitempty"`
	ProductName string          `json:"product_name,omitempty"`
	Quantity    int             `json:"quantity,omitempty"`
	URL         string          `json:"url,omitempty"`
	DelayMillis int             `json:"delay_ms"`
	BundleID    string          `json:"bundle_id,omitempty"`
	Error       string          `json:"error,omitempty"`
}

// Plan is the full set of checkout actions for one attempt, one or more per
// provider present in the cart.
type Plan struct {
	Actions []Action `json:"actions"`
}

// CartView is the read-only slice of the cart the planner consumes. Planning
// never mutates cart state; clearing happens only on confirmed user action.
type CartView interface {
	Items() []models.CartItem
	Providers() []models.Provider
	ItemsByProvider(provider models.Provider) []models.CartItem
}

// BundleCreator synthesizes a combined purchasable offer for one provider's
// items and returns its checkout URL.
type BundleCreator interface {
	CreateBundle(ctx context.Context, items []models.CartItem, discountPercent float64) (*models.Bundle, string, error)
}

// Planner decides the per-provider checkout strategy. It is stateless across
// attempts; every call plans from the cart snapshot it is given.
type Planner struct {
	bundles BundleCreator
	stagger time.Duration
	log     *logrus.Entry
	now     func() time.Time
}

func NewPlanner(bundles BundleCreator, stagger time.Duration, log *logrus.Logger) *Planner {
	if stagger <= 0 {
		stagger = 800 * time.Millisecond
	}
	return &Planner{
		bundles: bundles,
		stagger: stagger,
		log:     log.WithField("component", "checkout"),
		now:     time.Now,
	}
}

// Plan produces checkout actions for every provider present in the cart.
// Single-product providers get one direct URL; multi-product providers get
// either a staggered quick plan or a bundle, with bundle failure degrading to
// the quick plan rather than blocking checkout.
func (p *Planner) Plan(ctx context.Context, cart CartView, mode Mode, discountPercent float64) (*Plan, error) {
	plan := &Plan{Actions: []Action{}}

	for _, provider := range cart.Providers() {
		entries := cart.ItemsByProvider(provider)
		if len(entries) == 0 {
			continue
		}

		if len(entries) == 1 {
			plan.Actions = append(plan.Actions, p.directAction(provider, entries[0], 0))
			continue
		}

		if mode == ModeBundle && p.bundleSupported(provider) {
			action, ok := p.bundleAction(ctx, provider, cart, discountPercent)
			if ok {
				plan.Actions = append(plan.Actions, action)
				continue
			}
			// Bundle creation is a convenience, not a dependency.
			p.log.WithField("provider", provider).Warn("bundle unavailable, falling back to quick checkout")
		}

		for idx, entry := range entries {
			delay := time.Duration(idx) * p.stagger
			plan.Actions = append(plan.Actions, p.directAction(provider, entry, delay))
		}
	}

	return plan, nil
}

func (p *Planner) bundleSupported(provider models.Provider) bool {
	return p.bundles != nil && provider == models.ProviderGumroad
}

func (p *Planner) directAction(provider models.Provider, entry models.CartItem, delay time.Duration) Action {
	action := Action{
		Provider:    provider,
		ProductID:   entry.Product.ID,
		ProductName: entry.Product.Name,
		Quantity:    entry.Quantity,
		DelayMillis: int(delay / time.Millisecond),
	}
	if entry.Product.PurchaseURL == "" {
		action.Error = fmt.Sprintf("no checkout url for product %s", entry.Product.ID)
		return action
	}
	u, err := DirectCheckoutURL(entry.Product.PurchaseURL, entry.Quantity, p.now())
	if err != nil {
		action.Error = err.Error()
		return action
	}
	action.URL = u
	return action
}

func (p *Planner) bundleAction(ctx context.Context, provider models.Provider, cart CartView, discountPercent float64) (Action, bool) {
	var items []models.CartItem
	for _, item := range cart.Items() {
		if item.Product.Source == provider {
			items = append(items, item)
		}
	}

	bundle, checkoutURL, err := p.bundles.CreateBundle(ctx, items, discountPercent)
	if err != nil {
		p.log.WithError(err).WithField("provider", provider).Warn("bundle creation failed")
		return Action{}, false
	}

	decorated, err := DirectCheckoutURL(checkoutURL, 1, p.now())
	if err != nil {
		p.log.WithError(err).Warn("bundle checkout url rejected")
		return Action{}, false
	}

	return Action{
		Provider:    provider,
		Quantity:    1,
		URL:         decorated,
		DelayMillis: 0,
		BundleID:    bundle.ID,
	}, true
}

// DirectCheckoutURL decorates a provider purchase URL with the straight-to-
// checkout flag, the quantity, and a cache-busting timestamp. Decoration is
// idempotent: applying it to an already-decorated URL replaces parameters
// instead of duplicating them.
func DirectCheckoutURL(rawURL string, quantity int, now time.Time) (string, error) {
	if rawURL == "" {
		return "", fmt.Errorf("empty checkout url")
	}
	if quantity < 1 {
		quantity = 1
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse checkout url: %w", err)
	}
	q := u.Query()
	q.Set("wanted", "true")
	q.Set("quantity", strconv.Itoa(quantity))
	q.Set("_t", strconv.FormatInt(now.Unix(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
