// internal/cart/wishlist.go
package cart

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-backend/internal/storage"
)

// WishlistStorageKey is the fixed key the serialized wishlist lives under.
const WishlistStorageKey = "storefront_wishlist"

// Wishlist is a persisted set of product ids with the same load-then-persist
// gating and corrupt-value recovery as the cart.
type Wishlist struct {
	mu      sync.Mutex
	storage storage.Store
	key     string
	ids     []string
	loaded  bool
	log     *logrus.Entry
}

func NewWishlist(st storage.Store, key string, log *logrus.Logger) *Wishlist {
	if key == "" {
		key = WishlistStorageKey
	}
	return &Wishlist{
		storage: st,
		key:     key,
		log:     log.WithFields(logrus.Fields{"component": "wishlist", "key": key}),
	}
}

func (w *Wishlist) Load() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.loaded {
		return nil
	}

	var persisted []string
	if _, err := w.storage.Read(w.key, &persisted); err != nil {
		return fmt.Errorf("load wishlist: %w", err)
	}

	w.ids = w.ids[:0]
	seen := make(map[string]bool, len(persisted))
	for _, id := range persisted {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		w.ids = append(w.ids, id)
	}
	w.loaded = true
	return nil
}

func (w *Wishlist) persist() error {
	if !w.loaded {
		return ErrNotLoaded
	}
	if err := w.storage.Write(w.key, w.ids); err != nil {
		return fmt.Errorf("persist wishlist: %w", err)
	}
	return nil
}

// Add reports whether the id was newly added.
func (w *Wishlist) Add(productID string) (bool, error) {
	if productID == "" {
		return false, ErrInvalidProduct
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.loaded {
		return false, ErrNotLoaded
	}
	for _, id := range w.ids {
		if id == productID {
			return false, nil
		}
	}
	w.ids = append(w.ids, productID)
	return true, w.persist()
}

// Remove reports whether a deletion actually occurred.
func (w *Wishlist) Remove(productID string) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.loaded {
		return false, ErrNotLoaded
	}
	for idx, id := range w.ids {
		if id == productID {
			w.ids = append(w.ids[:idx], w.ids[idx+1:]...)
			return true, w.persist()
		}
	}
	return false, nil
}

func (w *Wishlist) Contains(productID string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, id := range w.ids {
		if id == productID {
			return true
		}
	}
	return false
}

func (w *Wishlist) IDs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, len(w.ids))
	copy(out, w.ids)
	return out
}
