// internal/cart/store.go
package cart

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-backend/internal/models"
	"github.com/javajoker/storefront-backend/internal/storage"
)

// CartStorageKey is the fixed key the serialized cart lives under.
const CartStorageKey = "storefront_cart"

var (
	// ErrNotLoaded means a mutation was attempted before Load. Persisting in
	// that state would overwrite saved state with an empty collection, so the
	// loaded transition explicitly gates every write.
	ErrNotLoaded = errors.New("cart store not loaded")

	ErrInvalidQuantity = errors.New("quantity must be greater than 0")
	ErrInvalidProduct  = errors.New("product must have an id")
)

// AddOutcome distinguishes the two user-facing notifications addItem can
// produce.
type AddOutcome string

const (
	OutcomeAdded           AddOutcome = "added"
	OutcomeQuantityUpdated AddOutcome = "quantity_updated"
)

// Store holds cart state in memory and persists the whole collection on every
// mutation once loaded.
type Store struct {
	mu      sync.Mutex
	storage storage.Store
	key     string
	items   []models.CartItem
	loaded  bool
	log     *logrus.Entry
}

func NewStore(st storage.Store, key string, log *logrus.Logger) *Store {
	if key == "" {
		key = CartStorageKey
	}
	return &Store{
		storage: st,
		key:     key,
		log:     log.WithFields(logrus.Fields{"component": "cart", "key": key}),
	}
}

// Load reads the persisted cart once. Corrupted storage comes back as absent
// (the storage layer clears it), so the cart starts empty without failing.
// Entries that violate cart invariants are dropped rather than propagated.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}

	var persisted []models.CartItem
	if _, err := s.storage.Read(s.key, &persisted); err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	s.items = s.items[:0]
	for _, item := range persisted {
		if item.Product.ID == "" || item.Quantity < 1 {
			s.log.WithField("product_id", item.Product.ID).Warn("dropping invalid persisted cart entry")
			continue
		}
		s.items = append(s.items, item)
	}
	s.loaded = true
	return nil
}

// persist writes the whole collection. Callers hold the lock.
func (s *Store) persist() error {
	if !s.loaded {
		return ErrNotLoaded
	}
	if err := s.storage.Write(s.key, s.items); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}

// AddItem merges into an existing line item when the identity key matches
// (quantities add), otherwise appends a new line item. Two different variants
// of the same product are never collapsed.
func (s *Store) AddItem(product models.Product, quantity int, selectedVariantID string, selectedOptions map[string]string) (AddOutcome, error) {
	if product.ID == "" {
		return "", ErrInvalidProduct
	}
	if quantity < 1 {
		return "", ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return "", ErrNotLoaded
	}

	for idx := range s.items {
		if s.items[idx].SameLineItem(product.ID, selectedVariantID) {
			s.items[idx].Quantity += quantity
			if err := s.persist(); err != nil {
				return "", err
			}
			return OutcomeQuantityUpdated, nil
		}
	}

	s.items = append(s.items, models.CartItem{
		Product:           product,
		Quantity:          quantity,
		SelectedVariantID: selectedVariantID,
		SelectedOptions:   selectedOptions,
	})
	if err := s.persist(); err != nil {
		return "", err
	}
	return OutcomeAdded, nil
}

// RemoveItem deletes the line item matching the identity key. It reports
// whether a deletion actually occurred so callers avoid phantom
// notifications; a missing item is not an error.
func (s *Store) RemoveItem(productID, selectedVariantID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return false, ErrNotLoaded
	}

	for idx := range s.items {
		if s.items[idx].SameLineItem(productID, selectedVariantID) {
			s.items = append(s.items[:idx], s.items[idx+1:]...)
			if err := s.persist(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// UpdateQuantity sets the quantity exactly. A quantity of zero or less
// removes the line item. Absent items are a no-op.
func (s *Store) UpdateQuantity(productID, selectedVariantID string, quantity int) (bool, error) {
	if quantity <= 0 {
		return s.RemoveItem(productID, selectedVariantID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return false, ErrNotLoaded
	}

	for idx := range s.items {
		if s.items[idx].SameLineItem(productID, selectedVariantID) {
			s.items[idx].Quantity = quantity
			if err := s.persist(); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Clear empties the collection unconditionally.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		return ErrNotLoaded
	}
	s.items = s.items[:0]
	return s.persist()
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total sums line subtotals, using the variant-specific price when a matching
// variant detail exists and falling open to the base price otherwise.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for idx := range s.items {
		total += s.items[idx].Subtotal()
	}
	return total
}

// ItemCount is the sum of quantities, not the number of line items. This is
// the "N items" badge semantics.
func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for idx := range s.items {
		count += s.items[idx].Quantity
	}
	return count
}

// ItemsByProvider filters to one provider and re-aggregates by base product
// id, summing quantities across line items that share a product but were
// added as separate variants. Provider checkout needs per-product totals,
// which is a different grouping than cart line-item identity.
func (s *Store) ItemsByProvider(provider models.Provider) []models.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := make(map[string]int)
	out := make([]models.CartItem, 0)
	for _, item := range s.items {
		if item.Product.Source != provider {
			continue
		}
		if pos, ok := index[item.Product.ID]; ok {
			out[pos].Quantity += item.Quantity
			continue
		}
		aggregated := item
		aggregated.SelectedVariantID = ""
		aggregated.SelectedOptions = nil
		index[item.Product.ID] = len(out)
		out = append(out, aggregated)
	}
	return out
}

// Providers lists the providers present in the cart in first-appearance
// order.
func (s *Store) Providers() []models.Provider {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[models.Provider]bool)
	var out []models.Provider
	for _, item := range s.items {
		if !seen[item.Product.Source] {
			seen[item.Product.Source] = true
			out = append(out, item.Product.Source)
		}
	}
	return out
}
