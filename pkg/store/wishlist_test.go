package store

import (
	"testing"
)

func TestWishlistAddIsIdempotent(t *testing.T) {
	wl := NewWishlistStore(nil)
	circe := book(t, "26")

	wl.Add(circe)
	wl.Add(circe)

	if wl.Len() != 1 {
		t.Fatalf("duplicate add created %d entries", wl.Len())
	}
	if !wl.Contains("26") {
		t.Fatalf("wishlist should contain 26")
	}
}

func TestWishlistRemoveAndClear(t *testing.T) {
	wl := NewWishlistStore(nil)
	wl.Add(book(t, "1"))
	wl.Add(book(t, "2"))

	wl.Remove("1")
	if wl.Contains("1") || !wl.Contains("2") {
		t.Fatalf("remove affected wrong entry")
	}
	fired := 0
	wl.Subscribe(func() { fired++ })
	wl.Remove("999")
	if fired != 0 {
		t.Fatalf("removing an absent entry notified subscribers")
	}

	wl.Clear()
	if wl.Len() != 0 {
		t.Fatalf("clear left %d entries", wl.Len())
	}
}

func TestWishlistPersistenceReload(t *testing.T) {
	snaps, err := NewFileSnapshots(t.TempDir())
	if err != nil {
		t.Fatalf("file snapshots: %v", err)
	}

	wl := NewWishlistStore(snaps)
	if err := wl.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	wl.Add(book(t, "13"))
	wl.Add(book(t, "29"))

	reloaded := NewWishlistStore(snaps)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Len() != 2 || !reloaded.Contains("13") || !reloaded.Contains("29") {
		t.Fatalf("wishlist not restored: %+v", reloaded.Items())
	}

	// Idempotence must hold across the persistence boundary too.
	reloaded.Add(book(t, "13"))
	if reloaded.Len() != 2 {
		t.Fatalf("duplicate add after reload created entry")
	}
}
