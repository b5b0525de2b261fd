package pagectx

import (
	"testing"

	"bookhaven/pkg/catalog"
	"bookhaven/pkg/domain"
)

func TestResolveStaticPages(t *testing.T) {
	books := catalog.New(nil)
	cases := []struct {
		path string
		kind domain.PageKind
	}{
		{"/", domain.PageHome},
		{"", domain.PageHome},
		{"/cart", domain.PageCart},
		{"/checkout", domain.PageCheckout},
		{"/wishlist", domain.PageWishlist},
		{"/browse", domain.PageBrowse},
		{"/cart/", domain.PageCart},
	}
	for _, tc := range cases {
		if got := Resolve(tc.path, "", books); got.Kind != tc.kind {
			t.Errorf("Resolve(%q) = %s, want %s", tc.path, got.Kind, tc.kind)
		}
	}
}

func TestResolveBrowseQuery(t *testing.T) {
	books := catalog.New(nil)

	ctx := Resolve("/browse", "genre=sci-fi&search=mars", books)
	if ctx.Kind != domain.PageBrowse {
		t.Fatalf("wrong kind %s", ctx.Kind)
	}
	if ctx.Genre != domain.GenreSciFi || ctx.Search != "mars" {
		t.Fatalf("unexpected filters: %+v", ctx)
	}

	// Unknown genre values are dropped, not carried through.
	ctx = Resolve("/browse", "genre=cookbooks", books)
	if ctx.Genre != "" {
		t.Fatalf("invalid genre should be dropped, got %q", ctx.Genre)
	}
}

func TestResolveBookDetail(t *testing.T) {
	books := catalog.New(nil)

	ctx := Resolve("/book/7", "", books)
	if ctx.Kind != domain.PageBook {
		t.Fatalf("expected book context, got %s", ctx.Kind)
	}
	want, _ := books.ByID("7")
	if ctx.BookTitle != want.Title || ctx.BookAuthor != want.Author || ctx.BookPrice != want.Price {
		t.Fatalf("book fields not re-derived from catalog: %+v", ctx)
	}

	// Nonexistent id must not claim a book-detail page.
	ctx = Resolve("/book/999", "", books)
	if ctx.Kind == domain.PageBook {
		t.Fatalf("missing book should not resolve to a book context")
	}
	if ctx.Kind != domain.PageUnknown {
		t.Fatalf("expected unknown, got %s", ctx.Kind)
	}
}

func TestResolveUnknownPath(t *testing.T) {
	books := catalog.New(nil)
	ctx := Resolve("/admin/secret", "", books)
	if ctx.Kind != domain.PageUnknown || ctx.Path != "/admin/secret" {
		t.Fatalf("unexpected context %+v", ctx)
	}
}
