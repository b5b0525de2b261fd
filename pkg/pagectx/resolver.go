// Package pagectx derives a structured description of the page the user is
// looking at from the live location. Resolution is pure: it never mutates
// state and is safe to call repeatedly, so tool handlers can re-resolve at
// call time instead of trusting a value captured when the session began.
package pagectx

import (
	"net/url"
	"strings"

	"bookhaven/pkg/catalog"
	"bookhaven/pkg/domain"
)

// Resolve maps a path and raw query string to a PageContext. Book pages
// re-derive title/author/price/genre from the catalog; an id that does not
// resolve falls through to the unknown variant rather than erroring.
func Resolve(path, rawQuery string, books *catalog.Catalog) domain.PageContext {
	path = normalize(path)

	switch path {
	case "/", "":
		return domain.PageContext{Kind: domain.PageHome}
	case "/cart":
		return domain.PageContext{Kind: domain.PageCart}
	case "/checkout":
		return domain.PageContext{Kind: domain.PageCheckout}
	case "/wishlist":
		return domain.PageContext{Kind: domain.PageWishlist}
	case "/browse":
		ctx := domain.PageContext{Kind: domain.PageBrowse}
		query, err := url.ParseQuery(rawQuery)
		if err != nil {
			return ctx
		}
		if genre := domain.Genre(query.Get("genre")); domain.ValidGenre(genre) {
			ctx.Genre = genre
		}
		ctx.Search = strings.TrimSpace(query.Get("search"))
		return ctx
	}

	if id, ok := strings.CutPrefix(path, "/book/"); ok && !strings.Contains(id, "/") {
		if book, found := books.ByID(id); found {
			return domain.PageContext{
				Kind:       domain.PageBook,
				BookID:     book.ID,
				BookTitle:  book.Title,
				BookAuthor: book.Author,
				BookPrice:  book.Price,
				BookGenre:  book.Genre,
			}
		}
	}

	return domain.PageContext{Kind: domain.PageUnknown, Path: path}
}

func normalize(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// Describe renders a context as a short sentence for the conversational
// agent.
func Describe(ctx domain.PageContext) string {
	switch ctx.Kind {
	case domain.PageHome:
		return "The user is on the home page."
	case domain.PageBrowse:
		var parts []string
		if ctx.Genre != "" {
			parts = append(parts, "filtered to "+domain.GenreLabels[ctx.Genre])
		}
		if ctx.Search != "" {
			parts = append(parts, "searching for \""+ctx.Search+"\"")
		}
		if len(parts) == 0 {
			return "The user is browsing the full catalog."
		}
		return "The user is browsing the catalog, " + strings.Join(parts, ", ") + "."
	case domain.PageBook:
		return "The user is viewing \"" + ctx.BookTitle + "\" by " + ctx.BookAuthor + "."
	case domain.PageCart:
		return "The user is viewing their shopping cart."
	case domain.PageCheckout:
		return "The user is on the checkout page."
	case domain.PageWishlist:
		return "The user is viewing their wishlist."
	default:
		return "The user is on an unrecognized page (" + ctx.Path + ")."
	}
}
