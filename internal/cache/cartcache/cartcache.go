package cartcache

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/plateful/ordering-gateway/internal/dal/localstore"
	"github.com/plateful/ordering-gateway/internal/service/models/cartitem"
)

const storeKey = "cart"

// ErrNegativeQuantity is returned when a caller passes a negative
// quantity. Callers clamp; the cache never holds a negative line.
var ErrNegativeQuantity = errors.New("negative quantity")

// Cache is the local mirror of the cart: a last-known-good snapshot
// for instant rendering, never authoritative. Every mutation
// re-persists the full snapshot synchronously (write-through).
//
// Remote refresh results carry a generation taken from BeginRefresh;
// a result whose generation lapsed (a newer refresh or any local
// mutation happened since) is discarded so stale responses cannot
// overwrite current state.
type Cache struct {
	mu    sync.Mutex
	items []cartitem.CartItem
	gen   uint64
	store *localstore.Store
}

func NewCache(store *localstore.Store) *Cache {
	return &Cache{store: store}
}

// Load restores the snapshot persisted by a previous run. Malformed
// or missing data is not fatal: it is logged and the cache starts
// empty.
func (c *Cache) Load() {
	c.mu.Lock()
	defer c.mu.Unlock()

	var items []cartitem.CartItem
	if err := c.store.Get(storeKey, &items); err != nil {
		if !errors.Is(err, localstore.ErrKeyNotFound) {
			slog.Warn("Failed to restore cart snapshot, starting empty", "error", err)
		}
		c.items = nil

		return
	}

	c.items = items
}

// Add merges the item into the cart: an existing line with the same
// composite identity gains the quantity, otherwise the item is
// appended.
func (c *Cache) Add(item cartitem.CartItem) {
	item = item.WithID()

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].CartItemID == item.CartItemID {
			c.items[i].Quantity += item.Quantity
			c.bumpAndPersist()

			return
		}
	}

	c.items = append(c.items, item)
	c.bumpAndPersist()
}

// Remove drops the line with the given id. Removing an absent line is
// a no-op.
func (c *Cache) Remove(cartItemID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	kept := c.items[:0]
	for _, item := range c.items {
		if item.CartItemID != cartItemID {
			kept = append(kept, item)
		}
	}
	c.items = kept
	c.bumpAndPersist()
}

// UpdateQuantity sets the quantity of a line. Quantity zero removes
// the line; negative quantities are rejected.
func (c *Cache) UpdateQuantity(cartItemID string, quantity int) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity == 0 {
		kept := c.items[:0]
		for _, item := range c.items {
			if item.CartItemID != cartItemID {
				kept = append(kept, item)
			}
		}
		c.items = kept
		c.bumpAndPersist()

		return nil
	}

	for i := range c.items {
		if c.items[i].CartItemID == cartItemID {
			c.items[i].Quantity = quantity
			break
		}
	}
	c.bumpAndPersist()

	return nil
}

// Clear empties the cart.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.bumpAndPersist()
}

// Items returns a copy of the current snapshot.
func (c *Cache) Items() []cartitem.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]cartitem.CartItem(nil), c.items...)
}

// Len returns the number of cart lines.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.items)
}

// BeginRefresh marks the start of a remote refresh and returns its
// generation.
func (c *Cache) BeginRefresh() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++

	return c.gen
}

// ApplyRemote replaces the snapshot with a remote read, unless the
// generation has lapsed. Reports whether the result was applied.
func (c *Cache) ApplyRemote(gen uint64, items []cartitem.CartItem) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen {
		return false
	}

	c.items = append([]cartitem.CartItem(nil), items...)
	c.persist()

	return true
}

// bumpAndPersist invalidates in-flight refreshes and writes the
// snapshot through. Caller must hold the mutex.
func (c *Cache) bumpAndPersist() {
	c.gen++
	c.persist()
}

func (c *Cache) persist() {
	if err := c.store.Set(storeKey, c.items); err != nil {
		slog.Warn("Failed to persist cart snapshot", "error", err)
	}
}
