package mcp

import (
	"testing"

	"bookhaven/pkg/assistant"
	"bookhaven/pkg/catalog"
	"bookhaven/pkg/store"
)

func TestNewServerRegistersAllTools(t *testing.T) {
	registry := assistant.NewRegistry(assistant.Deps{
		Catalog:  catalog.New(nil),
		Cart:     store.NewCartStore(nil),
		Wishlist: store.NewWishlistStore(nil),
		Log:      store.NewActionLog(store.DefaultActionLogCap),
		Surface:  assistant.NewMemorySurface(4000),
	})

	srv, err := NewServer(registry)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	if srv == nil {
		t.Fatal("nil server")
	}
	if len(registry.Tools()) == 0 {
		t.Fatal("registry exposes no tools")
	}
}
