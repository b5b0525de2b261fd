package assistant

import (
	"fmt"
	"strings"

	"bookhaven/pkg/domain"
)

func (r *Registry) lookupTools() []Tool {
	return []Tool{
		{
			Name:        "viewBook",
			Description: "Open the details page for a book, found by id or by (part of) its title.",
			Parameters: objectSchema(nil, map[string]any{
				"bookId": stringParam("Catalog id of the book"),
				"title":  stringParam("Full or partial title, used when no id is given"),
			}),
			Handler: func(args map[string]any) (string, error) {
				book, miss, err := r.findBook(args)
				if err != nil {
					return "", err
				}
				if miss != "" {
					return miss, nil
				}
				if _, err := r.goTo("/book/"+book.ID, ""); err != nil {
					return "", err
				}
				return fmt.Sprintf("Showing %q by %s.", book.Title, book.Author), nil
			},
		},
		{
			Name:        "getBookDetails",
			Description: "Read out the full details of a book without leaving the current page.",
			Parameters: objectSchema(nil, map[string]any{
				"bookId": stringParam("Catalog id of the book"),
				"title":  stringParam("Full or partial title, used when no id is given"),
			}),
			Handler: func(args map[string]any) (string, error) {
				book, miss, err := r.findBook(args)
				if err != nil {
					return "", err
				}
				if miss != "" {
					return miss, nil
				}
				return describeBook(book), nil
			},
		},
	}
}

func (r *Registry) queryTools() []Tool {
	return []Tool{
		{
			Name:        "getCartInfo",
			Description: "Describe the current contents of the cart.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				items := r.deps.Cart.Items()
				if len(items) == 0 {
					return "The cart is empty.", nil
				}
				var b strings.Builder
				fmt.Fprintf(&b, "The cart has %d items totaling $%.2f:\n", r.deps.Cart.ItemCount(), r.deps.Cart.Total())
				for _, item := range items {
					fmt.Fprintf(&b, "- %q by %s, %d x $%.2f\n", item.Book.Title, item.Book.Author, item.Quantity, item.Book.Price)
				}
				return strings.TrimRight(b.String(), "\n"), nil
			},
		},
		{
			Name:        "getWishlistInfo",
			Description: "Describe the current contents of the wishlist.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				books := r.deps.Wishlist.Items()
				if len(books) == 0 {
					return "The wishlist is empty.", nil
				}
				var b strings.Builder
				fmt.Fprintf(&b, "The wishlist has %d books:\n", len(books))
				for _, book := range books {
					fmt.Fprintf(&b, "- %q by %s, $%.2f\n", book.Title, book.Author, book.Price)
				}
				return strings.TrimRight(b.String(), "\n"), nil
			},
		},
		{
			Name:        "getAvailableBooks",
			Description: "List catalog books, optionally filtered by genre or a search term.",
			Parameters: objectSchema(nil, map[string]any{
				"genre":  stringParam("Genre filter, e.g. sci-fi, fantasy, mystery"),
				"search": stringParam("Free-text search over title, author and genre"),
			}),
			Handler: func(args map[string]any) (string, error) {
				books := r.deps.Catalog.All()
				label := "the catalog"
				if genre := argString(args, "genre"); genre != "" {
					if !domain.ValidGenre(domain.Genre(genre)) {
						return fmt.Sprintf("I don't know the genre %q. Try one of: %s.", genre, genreList()), nil
					}
					books = r.deps.Catalog.ByGenre(domain.Genre(genre))
					label = domain.GenreLabels[domain.Genre(genre)]
				}
				if search := argString(args, "search"); search != "" {
					books = filterBooks(books, search)
					label += fmt.Sprintf(" matching %q", search)
				}
				if len(books) == 0 {
					return fmt.Sprintf("No books found in %s.", label), nil
				}
				var b strings.Builder
				fmt.Fprintf(&b, "%d books in %s:\n", len(books), label)
				for _, book := range books {
					fmt.Fprintf(&b, "- %q by %s (%s, $%.2f, rated %.1f)\n",
						book.Title, book.Author, domain.GenreLabels[book.Genre], book.Price, book.Rating)
				}
				return strings.TrimRight(b.String(), "\n"), nil
			},
		},
	}
}

// findBook resolves a book by id first, falling back to fuzzy title match.
// A catalog miss is reported in the middle return as a reply string.
func (r *Registry) findBook(args map[string]any) (domain.Book, string, error) {
	if id := argString(args, "bookId"); id != "" {
		return r.bookByID(id)
	}
	if title := argString(args, "title"); title != "" {
		return r.bookByTitle(title)
	}
	return domain.Book{}, "", fmt.Errorf("either bookId or title is required")
}

func describeBook(book domain.Book) string {
	stock := "in stock"
	if !book.InStock {
		stock = "currently out of stock"
	}
	return fmt.Sprintf("%q by %s (%s, %d). $%.2f, rated %.1f from %d reviews, %d pages, %s. %s",
		book.Title, book.Author, domain.GenreLabels[book.Genre], book.PublishedYear,
		book.Price, book.Rating, book.ReviewCount, book.Pages, stock, book.Description)
}

func filterBooks(books []domain.Book, query string) []domain.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return books
	}
	var out []domain.Book
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(string(b.Genre)), q) {
			out = append(out, b)
		}
	}
	return out
}
