// Package store owns the mutable storefront state: the shopping cart, the
// wishlist, and the assistant action ledger. Stores publish to subscribers
// on every mutation and write a full snapshot to their persistence backend
// so state survives restarts.
package store

import (
	"encoding/json"
	"log/slog"
	"sync"

	"bookhaven/pkg/domain"
)

// CartStore holds the shopping cart. At most one entry exists per book id
// and quantities are always positive; setting a quantity to zero or below
// removes the entry.
type CartStore struct {
	mu       sync.RWMutex
	items    []domain.CartItem
	hydrated bool

	snaps Snapshots

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewCartStore builds an empty cart. snaps may be nil for a purely
// in-memory cart (tests); call Load before trusting reads.
func NewCartStore(snaps Snapshots) *CartStore {
	return &CartStore{snaps: snaps, subs: make(map[int]func())}
}

// Load restores the persisted snapshot and marks the store hydrated.
// A missing or unreadable snapshot hydrates to an empty cart; the flag
// still flips so callers can tell "loaded and empty" from "not yet loaded".
func (c *CartStore) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer func() { c.hydrated = true }()
	if c.snaps == nil {
		return nil
	}
	data, ok, err := c.snaps.Load(CartSnapshotKey)
	if err != nil {
		slog.Warn("cart snapshot load failed", "err", err)
		return err
	}
	if !ok {
		return nil
	}
	var items []domain.CartItem
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("cart snapshot corrupt, starting empty", "err", err)
		return nil
	}
	c.items = items
	return nil
}

// Hydrated reports whether persisted state has been restored.
func (c *CartStore) Hydrated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hydrated
}

// AddItem inserts the book or increments the existing entry's quantity.
// The store is deliberately permissive: out-of-stock books are the UI's
// concern, not enforced here.
func (c *CartStore) AddItem(book domain.Book, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}
	c.mu.Lock()
	found := false
	for i := range c.items {
		if c.items[i].Book.ID == book.ID {
			c.items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		c.items = append(c.items, domain.CartItem{Book: book, Quantity: quantity})
	}
	c.mu.Unlock()
	c.afterMutation()
}

// RemoveItem deletes the entry for bookID. Removing an absent book is a
// no-op, not an error.
func (c *CartStore) RemoveItem(bookID string) {
	c.mu.Lock()
	kept := c.items[:0]
	for _, item := range c.items {
		if item.Book.ID != bookID {
			kept = append(kept, item)
		}
	}
	removed := len(kept) != len(c.items)
	c.items = kept
	c.mu.Unlock()
	if !removed {
		return
	}
	c.afterMutation()
}

// UpdateQuantity sets the quantity for bookID exactly. A quantity of zero
// or below removes the entry instead.
func (c *CartStore) UpdateQuantity(bookID string, quantity int) {
	if quantity <= 0 {
		c.RemoveItem(bookID)
		return
	}
	c.mu.Lock()
	updated := false
	for i := range c.items {
		if c.items[i].Book.ID == bookID {
			c.items[i].Quantity = quantity
			updated = true
			break
		}
	}
	c.mu.Unlock()
	if !updated {
		return
	}
	c.afterMutation()
}

// Clear empties the cart.
func (c *CartStore) Clear() {
	c.mu.Lock()
	c.items = nil
	c.mu.Unlock()
	c.afterMutation()
}

// Items returns a copy of the cart entries in insertion order.
func (c *CartStore) Items() []domain.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the entry for bookID.
func (c *CartStore) Get(bookID string) (domain.CartItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, item := range c.items {
		if item.Book.ID == bookID {
			return item, true
		}
	}
	return domain.CartItem{}, false
}

// Total sums price times quantity over all entries. No rounding is applied
// until display.
func (c *CartStore) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total float64
	for _, item := range c.items {
		total += item.Book.Price * float64(item.Quantity)
	}
	return total
}

// ItemCount sums quantities, which differs from the number of entries.
func (c *CartStore) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// Len returns the number of distinct entries.
func (c *CartStore) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Subscribe registers fn to run after every mutation. The returned func
// cancels the subscription.
func (c *CartStore) Subscribe(fn func()) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *CartStore) afterMutation() {
	c.persist()
	c.publish()
}

func (c *CartStore) persist() {
	if c.snaps == nil {
		return
	}
	data, err := json.Marshal(c.Items())
	if err != nil {
		slog.Warn("cart snapshot marshal failed", "err", err)
		return
	}
	if err := c.snaps.Save(CartSnapshotKey, data); err != nil {
		slog.Warn("cart snapshot save failed", "err", err)
	}
}

func (c *CartStore) publish() {
	c.subMu.Lock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
