// internal/cart/manager.go
package cart

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/storefront-backend/internal/storage"
)

// Manager hands out one cart and one wishlist per anonymous session. Each
// session gets its own storage namespace; within a namespace the fixed
// storage keys apply.
type Manager struct {
	mu        sync.Mutex
	storage   storage.Store
	log       *logrus.Logger
	carts     map[string]*Store
	wishlists map[string]*Wishlist
}

func NewManager(st storage.Store, log *logrus.Logger) *Manager {
	return &Manager{
		storage:   st,
		log:       log,
		carts:     make(map[string]*Store),
		wishlists: make(map[string]*Wishlist),
	}
}

// Cart returns the session's cart store, loaded and ready for mutation.
func (m *Manager) Cart(sessionID string) (*Store, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("empty session id")
	}

	m.mu.Lock()
	store, ok := m.carts[sessionID]
	if !ok {
		store = NewStore(m.storage, sessionID+"/"+CartStorageKey, m.log)
		m.carts[sessionID] = store
	}
	m.mu.Unlock()

	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}

// Wishlist returns the session's wishlist, loaded and ready for mutation.
func (m *Manager) Wishlist(sessionID string) (*Wishlist, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("empty session id")
	}

	m.mu.Lock()
	list, ok := m.wishlists[sessionID]
	if !ok {
		list = NewWishlist(m.storage, sessionID+"/"+WishlistStorageKey, m.log)
		m.wishlists[sessionID] = list
	}
	m.mu.Unlock()

	if err := list.Load(); err != nil {
		return nil, err
	}
	return list, nil
}
