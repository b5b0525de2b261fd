package store

// Snapshot key names. Cart and wishlist are persisted independently so a
// corrupt or missing snapshot in one never affects the other.
const (
	CartSnapshotKey     = "bookhaven:cart"
	WishlistSnapshotKey = "bookhaven:wishlist"
)

// Snapshots persists the full serialized state of a store under a named
// key. Every mutation writes the complete current snapshot; Load restores
// it at startup before the first mutation is trusted.
type Snapshots interface {
	// Save writes the snapshot for name, replacing any previous one.
	Save(name string, data []byte) error
	// Load reads the snapshot for name. The boolean reports whether a
	// snapshot exists; a missing snapshot is not an error.
	Load(name string) ([]byte, bool, error)
}
