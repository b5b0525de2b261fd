package store

import (
	"encoding/json"
	"log/slog"
	"sync"

	"bookhaven/pkg/domain"
)

// WishlistStore holds the wishlist with set semantics: a book id appears
// at most once and adds are idempotent.
type WishlistStore struct {
	mu       sync.RWMutex
	items    []domain.Book
	hydrated bool

	snaps Snapshots

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewWishlistStore builds an empty wishlist. snaps may be nil.
func NewWishlistStore(snaps Snapshots) *WishlistStore {
	return &WishlistStore{snaps: snaps, subs: make(map[int]func())}
}

// Load restores the persisted snapshot and marks the store hydrated.
func (w *WishlistStore) Load() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	defer func() { w.hydrated = true }()
	if w.snaps == nil {
		return nil
	}
	data, ok, err := w.snaps.Load(WishlistSnapshotKey)
	if err != nil {
		slog.Warn("wishlist snapshot load failed", "err", err)
		return err
	}
	if !ok {
		return nil
	}
	var items []domain.Book
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("wishlist snapshot corrupt, starting empty", "err", err)
		return nil
	}
	w.items = items
	return nil
}

// Hydrated reports whether persisted state has been restored.
func (w *WishlistStore) Hydrated() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.hydrated
}

// Add appends the book unless it is already present. Duplicate adds are
// silent no-ops.
func (w *WishlistStore) Add(book domain.Book) {
	w.mu.Lock()
	for _, item := range w.items {
		if item.ID == book.ID {
			w.mu.Unlock()
			return
		}
	}
	w.items = append(w.items, book)
	w.mu.Unlock()
	w.afterMutation()
}

// Remove deletes the book if present; absent ids are a no-op.
func (w *WishlistStore) Remove(bookID string) {
	w.mu.Lock()
	kept := w.items[:0]
	for _, item := range w.items {
		if item.ID != bookID {
			kept = append(kept, item)
		}
	}
	removed := len(kept) != len(w.items)
	w.items = kept
	w.mu.Unlock()
	if !removed {
		return
	}
	w.afterMutation()
}

// Contains reports whether bookID is wishlisted.
func (w *WishlistStore) Contains(bookID string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, item := range w.items {
		if item.ID == bookID {
			return true
		}
	}
	return false
}

// Clear empties the wishlist.
func (w *WishlistStore) Clear() {
	w.mu.Lock()
	w.items = nil
	w.mu.Unlock()
	w.afterMutation()
}

// Items returns a copy of the wishlist in insertion order.
func (w *WishlistStore) Items() []domain.Book {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]domain.Book, len(w.items))
	copy(out, w.items)
	return out
}

// Len returns the number of wishlisted books.
func (w *WishlistStore) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.items)
}

// Subscribe registers fn to run after every mutation.
func (w *WishlistStore) Subscribe(fn func()) func() {
	w.subMu.Lock()
	defer w.subMu.Unlock()
	id := w.nextID
	w.nextID++
	w.subs[id] = fn
	return func() {
		w.subMu.Lock()
		defer w.subMu.Unlock()
		delete(w.subs, id)
	}
}

func (w *WishlistStore) afterMutation() {
	w.persist()
	w.publish()
}

func (w *WishlistStore) persist() {
	if w.snaps == nil {
		return
	}
	data, err := json.Marshal(w.Items())
	if err != nil {
		slog.Warn("wishlist snapshot marshal failed", "err", err)
		return
	}
	if err := w.snaps.Save(WishlistSnapshotKey, data); err != nil {
		slog.Warn("wishlist snapshot save failed", "err", err)
	}
}

func (w *WishlistStore) publish() {
	w.subMu.Lock()
	fns := make([]func(), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
