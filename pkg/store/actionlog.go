package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"bookhaven/pkg/domain"
)

// DefaultActionLogCap bounds how many ledger entries stay visible.
const DefaultActionLogCap = 200

// ActionLog is the append-only ledger of assistant activity: voice tool
// invocations and text-mode actions alike. Entries are appended pending
// and transition exactly once to completed or failed.
type ActionLog struct {
	mu      sync.RWMutex
	entries []domain.AIAction // chronological order
	cap     int

	subMu  sync.Mutex
	subs   map[int]func()
	nextID int
}

// NewActionLog builds a ledger capped at capacity entries; capacity <= 0
// uses DefaultActionLogCap.
func NewActionLog(capacity int) *ActionLog {
	if capacity <= 0 {
		capacity = DefaultActionLogCap
	}
	return &ActionLog{cap: capacity, subs: make(map[int]func())}
}

// Append records a new pending entry and returns its id.
func (l *ActionLog) Append(actionType domain.AIActionType, description string, data map[string]any) string {
	entry := domain.AIAction{
		ID:          uuid.NewString(),
		Type:        actionType,
		Description: description,
		Status:      domain.StatusPending,
		Data:        data,
		CreatedAt:   time.Now().UTC(),
	}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.cap {
		l.entries = l.entries[len(l.entries)-l.cap:]
	}
	l.mu.Unlock()
	l.publish()
	return entry.ID
}

// Resolve transitions the entry to a terminal status with an optional
// result string. Entries already terminal are left untouched; a resolved
// action is never resurrected.
func (l *ActionLog) Resolve(id string, status domain.ActionStatus, result string) bool {
	if status != domain.StatusCompleted && status != domain.StatusFailed {
		return false
	}
	l.mu.Lock()
	resolved := false
	for i := range l.entries {
		if l.entries[i].ID == id {
			if l.entries[i].Status == domain.StatusPending {
				l.entries[i].Status = status
				l.entries[i].Result = result
				resolved = true
			}
			break
		}
	}
	l.mu.Unlock()
	if resolved {
		l.publish()
	}
	return resolved
}

// Get returns the entry with the given id.
func (l *ActionLog) Get(id string) (domain.AIAction, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if e.ID == id {
			return e, true
		}
	}
	return domain.AIAction{}, false
}

// Recent returns up to n entries, newest first. n <= 0 returns everything
// still within the cap.
func (l *ActionLog) Recent(n int) []domain.AIAction {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]domain.AIAction, 0, n)
	for i := len(l.entries) - 1; i >= len(l.entries)-n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// Len returns the number of visible entries.
func (l *ActionLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Clear empties the ledger.
func (l *ActionLog) Clear() {
	l.mu.Lock()
	l.entries = nil
	l.mu.Unlock()
	l.publish()
}

// Subscribe registers fn to run after every append or resolve.
func (l *ActionLog) Subscribe(fn func()) func() {
	l.subMu.Lock()
	defer l.subMu.Unlock()
	id := l.nextID
	l.nextID++
	l.subs[id] = fn
	return func() {
		l.subMu.Lock()
		defer l.subMu.Unlock()
		delete(l.subs, id)
	}
}

func (l *ActionLog) publish() {
	l.subMu.Lock()
	fns := make([]func(), 0, len(l.subs))
	for _, fn := range l.subs {
		fns = append(fns, fn)
	}
	l.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
