package assistant

import (
	"testing"

	"bookhaven/pkg/domain"
)

func TestExecutorRunsActionsInOrder(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(deps)

	deps.Cart.AddItem(mustBook(t, deps, "5"), 1)

	exec.Execute([]Action{
		{Type: domain.ActionClearCart},
		{Type: domain.ActionAddToCart, Data: map[string]any{"bookId": "1", "quantity": float64(2)}},
	})

	items := deps.Cart.Items()
	if len(items) != 1 {
		t.Fatalf("cart lines = %d, want 1", len(items))
	}
	if items[0].Book.ID != "1" || items[0].Quantity != 2 {
		t.Fatalf("cart line = %s x%d, want 1 x2", items[0].Book.ID, items[0].Quantity)
	}
}

func TestExecutorFailureDoesNotStopRun(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(deps)

	exec.Execute([]Action{
		{Type: domain.ActionAddToCart, Data: map[string]any{"bookId": "999"}},
		{Type: domain.ActionAddToCart, Data: map[string]any{"bookId": "2"}},
	})

	if deps.Cart.Len() != 1 {
		t.Fatalf("cart len = %d, want 1 despite earlier failure", deps.Cart.Len())
	}
	recent := deps.Log.Recent(2)
	if recent[1].Status != domain.StatusFailed {
		t.Fatalf("first action status = %s, want failed", recent[1].Status)
	}
	if recent[0].Status != domain.StatusCompleted {
		t.Fatalf("second action status = %s, want completed", recent[0].Status)
	}
}

func TestExecutorUnknownTypeIsNoOp(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(deps)

	exec.Execute([]Action{{Type: "dance"}})

	recent := deps.Log.Recent(1)
	if len(recent) != 1 || recent[0].Status != domain.StatusCompleted {
		t.Fatalf("unknown action entry = %+v, want completed no-op", recent)
	}
	if deps.Cart.Len() != 0 || deps.Wishlist.Len() != 0 {
		t.Fatal("unknown action mutated state")
	}
}

func TestExecutorNavigateAndFilter(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(deps)

	exec.Execute([]Action{
		{Type: domain.ActionFilter, Data: map[string]any{"genre": "sci-fi"}},
	})
	if path, query := deps.Surface.Location(); path != "/browse" || query != "genre=sci-fi" {
		t.Fatalf("location = %s?%s, want /browse?genre=sci-fi", path, query)
	}

	exec.Execute([]Action{
		{Type: domain.ActionViewDetails, Data: map[string]any{"title": "dune"}},
	})
	if path, _ := deps.Surface.Location(); path != "/book/8" {
		t.Fatalf("location = %s, want /book/8", path)
	}
}

func TestExecutorCheckoutRequiresItems(t *testing.T) {
	deps := newTestDeps(t)
	exec := NewExecutor(deps)

	exec.Execute([]Action{{Type: domain.ActionCheckout}})
	if recent := deps.Log.Recent(1); recent[0].Status != domain.StatusFailed {
		t.Fatalf("checkout on empty cart = %s, want failed", recent[0].Status)
	}

	deps.Cart.AddItem(mustBook(t, deps, "1"), 1)
	exec.Execute([]Action{{Type: domain.ActionCheckout}})
	if path, _ := deps.Surface.Location(); path != "/checkout" {
		t.Fatalf("location = %s, want /checkout", path)
	}
}

func mustBook(t *testing.T, deps Deps, id string) domain.Book {
	t.Helper()
	book, ok := deps.Catalog.ByID(id)
	if !ok {
		t.Fatalf("catalog missing book %s", id)
	}
	return book
}
