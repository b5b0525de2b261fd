package assistant

import (
	"fmt"

	"bookhaven/pkg/domain"
	"bookhaven/pkg/pagectx"
)

func (r *Registry) contextTools() []Tool {
	return []Tool{
		{
			Name:        "getCurrentContext",
			Description: "Describe the page the user is currently looking at. Call this before acting on 'this book' or 'this page'.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				return pagectx.Describe(r.currentPage()), nil
			},
		},
		{
			Name:        "addCurrentBookToCart",
			Description: "Add the book on the currently open details page to the cart.",
			Parameters: objectSchema(nil, map[string]any{
				"quantity": numberParam("How many copies to add, default 1"),
			}),
			Handler: func(args map[string]any) (string, error) {
				book, miss := r.currentBook()
				if miss != "" {
					return miss, nil
				}
				return r.addCopies(book, argInt(args, "quantity", 1)), nil
			},
		},
		{
			Name:        "addCurrentBookToWishlist",
			Description: "Save the book on the currently open details page to the wishlist.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				book, miss := r.currentBook()
				if miss != "" {
					return miss, nil
				}
				if r.deps.Wishlist.Contains(book.ID) {
					return fmt.Sprintf("%q is already on the wishlist.", book.Title), nil
				}
				r.deps.Wishlist.Add(book)
				return fmt.Sprintf("Saved %q to the wishlist. It now has %d books.", book.Title, r.deps.Wishlist.Len()), nil
			},
		},
	}
}

// currentPage re-resolves the surface location on every call; page context
// is never cached across tool invocations.
func (r *Registry) currentPage() domain.PageContext {
	path, rawQuery := r.deps.Surface.Location()
	return pagectx.Resolve(path, rawQuery, r.deps.Catalog)
}

// currentBook resolves the book on the open details page. Like the
// catalog lookups, a miss is a reply string, not an error.
func (r *Registry) currentBook() (domain.Book, string) {
	page := r.currentPage()
	if page.Kind != domain.PageBook {
		return domain.Book{}, fmt.Sprintf("This isn't a book page (currently on %s), so there is no current book.", page.Kind)
	}
	book, ok := r.deps.Catalog.ByID(page.BookID)
	if !ok {
		return domain.Book{}, fmt.Sprintf("No book with id %q was found.", page.BookID)
	}
	return book, ""
}
