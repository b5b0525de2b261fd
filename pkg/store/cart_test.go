package store

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"bookhaven/pkg/catalog"
	"bookhaven/pkg/domain"
)

func book(t *testing.T, id string) domain.Book {
	t.Helper()
	b, ok := catalog.New(nil).ByID(id)
	if !ok {
		t.Fatalf("catalog book %s missing", id)
	}
	return b
}

func TestCartAddMergesByBookID(t *testing.T) {
	cart := NewCartStore(nil)
	dune := book(t, "8")

	cart.AddItem(dune, 1)
	cart.AddItem(dune, 2)

	if cart.Len() != 1 {
		t.Fatalf("expected one entry, got %d", cart.Len())
	}
	item, ok := cart.Get("8")
	if !ok || item.Quantity != 3 {
		t.Fatalf("expected merged quantity 3, got %+v ok=%v", item, ok)
	}
	if cart.ItemCount() != 3 {
		t.Fatalf("item count should sum quantities, got %d", cart.ItemCount())
	}
}

func TestCartInvariants(t *testing.T) {
	cart := NewCartStore(nil)
	b1, b2 := book(t, "1"), book(t, "2")

	cart.AddItem(b1, 2)
	cart.AddItem(b2, 1)
	cart.AddItem(b1, 1)
	cart.UpdateQuantity("2", 5)
	cart.UpdateQuantity("1", 0) // zero removes, never a zero-quantity entry
	cart.RemoveItem("missing") // no-op
	cart.AddItem(b1, 0)        // non-positive add defaults to 1

	if cart.Len() > 2 {
		t.Fatalf("entry count exceeds distinct books added: %d", cart.Len())
	}
	for _, item := range cart.Items() {
		if item.Quantity <= 0 {
			t.Fatalf("entry with non-positive quantity: %+v", item)
		}
	}
	if _, ok := cart.Get("2"); !ok {
		t.Fatalf("book 2 should remain")
	}
}

func TestCartTotal(t *testing.T) {
	cart := NewCartStore(nil)
	b1, b2 := book(t, "1"), book(t, "27")

	cart.AddItem(b1, 2)
	cart.AddItem(b2, 3)

	want := b1.Price*2 + b2.Price*3
	if got := cart.Total(); got != want {
		t.Fatalf("total = %v, want %v", got, want)
	}

	cart.Clear()
	if cart.Total() != 0 || cart.ItemCount() != 0 {
		t.Fatalf("cleared cart should be empty")
	}
}

func TestCartPersistenceReload(t *testing.T) {
	snaps, err := NewFileSnapshots(t.TempDir())
	if err != nil {
		t.Fatalf("file snapshots: %v", err)
	}

	cart := NewCartStore(snaps)
	if err := cart.Load(); err != nil {
		t.Fatalf("load empty: %v", err)
	}
	cart.AddItem(book(t, "8"), 2)
	cart.AddItem(book(t, "16"), 1)
	wantTotal := cart.Total()

	reloaded := NewCartStore(snaps)
	if reloaded.Hydrated() {
		t.Fatalf("store should not report hydrated before Load")
	}
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !reloaded.Hydrated() {
		t.Fatalf("store should report hydrated after Load")
	}
	if got := reloaded.Total(); got != wantTotal {
		t.Fatalf("total after reload = %v, want %v", got, wantTotal)
	}
	if reloaded.Len() != 2 {
		t.Fatalf("expected 2 entries after reload, got %d", reloaded.Len())
	}
}

func TestCartRedisSnapshots(t *testing.T) {
	mr := miniredis.RunT(t)
	snaps := NewRedisSnapshots(mr.Addr(), "")

	cart := NewCartStore(snaps)
	if err := cart.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	cart.AddItem(book(t, "7"), 4)

	reloaded := NewCartStore(snaps)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	item, ok := reloaded.Get("7")
	if !ok || item.Quantity != 4 {
		t.Fatalf("expected quantity 4 after redis reload, got %+v ok=%v", item, ok)
	}
}

func TestCartSubscribers(t *testing.T) {
	cart := NewCartStore(nil)
	fired := 0
	cancel := cart.Subscribe(func() { fired++ })

	cart.AddItem(book(t, "1"), 1)
	cart.RemoveItem("1")
	if fired != 2 {
		t.Fatalf("expected 2 notifications, got %d", fired)
	}

	cancel()
	cart.Clear()
	if fired != 2 {
		t.Fatalf("cancelled subscriber still notified")
	}
}

func TestCartNoOpMutationsDoNotNotify(t *testing.T) {
	cart := NewCartStore(nil)
	cart.AddItem(book(t, "1"), 1)

	fired := 0
	cart.Subscribe(func() { fired++ })

	cart.UpdateQuantity("404", 3)
	cart.RemoveItem("404")
	if fired != 0 {
		t.Fatalf("no-op mutations notified subscribers %d times", fired)
	}

	cart.UpdateQuantity("1", 3)
	if fired != 1 {
		t.Fatalf("real update fired %d notifications, want 1", fired)
	}
	if line, _ := cart.Get("1"); line.Quantity != 3 {
		t.Fatalf("quantity = %d, want 3", line.Quantity)
	}
}
