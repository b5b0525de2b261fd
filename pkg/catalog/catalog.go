package catalog

import (
	"strings"

	"bookhaven/pkg/domain"
)

// Catalog is the read-only book inventory. Lookup order follows catalog
// order, which makes fuzzy matches deterministic.
type Catalog struct {
	books []domain.Book
	byID  map[string]int
}

// New builds a catalog over the given books. Pass nil for the built-in
// storefront inventory.
func New(books []domain.Book) *Catalog {
	if books == nil {
		books = defaultBooks
	}
	byID := make(map[string]int, len(books))
	for i, b := range books {
		byID[b.ID] = i
	}
	return &Catalog{books: books, byID: byID}
}

// All returns every book in catalog order.
func (c *Catalog) All() []domain.Book {
	out := make([]domain.Book, len(c.books))
	copy(out, c.books)
	return out
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.books)
}

// ByID looks up a book by id.
func (c *Catalog) ByID(id string) (domain.Book, bool) {
	idx, ok := c.byID[strings.TrimSpace(id)]
	if !ok {
		return domain.Book{}, false
	}
	return c.books[idx], true
}

// ByTitle finds the first book whose title fuzzily matches the query.
// Matching is case-insensitive and bidirectional: the candidate title may
// contain the query or the query may contain the candidate title. With
// several plausible matches the first in catalog order wins; conversational
// callers rely on that leniency, so this is deliberate behavior.
func (c *Catalog) ByTitle(query string) (domain.Book, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return domain.Book{}, false
	}
	for _, b := range c.books {
		title := strings.ToLower(b.Title)
		if strings.Contains(title, q) || strings.Contains(q, title) {
			return b, true
		}
	}
	return domain.Book{}, false
}

// Search returns books whose title, author, or genre contains the query,
// case-insensitively, in catalog order.
func (c *Catalog) Search(query string) []domain.Book {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []domain.Book
	for _, b := range c.books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(string(b.Genre), q) {
			out = append(out, b)
		}
	}
	return out
}

// ByGenre returns all books of the given genre in catalog order.
func (c *Catalog) ByGenre(genre domain.Genre) []domain.Book {
	var out []domain.Book
	for _, b := range c.books {
		if b.Genre == genre {
			out = append(out, b)
		}
	}
	return out
}

// Featured returns the featured books.
func (c *Catalog) Featured() []domain.Book {
	var out []domain.Book
	for _, b := range c.books {
		if b.Featured {
			out = append(out, b)
		}
	}
	return out
}

// Bestsellers returns the bestseller books.
func (c *Catalog) Bestsellers() []domain.Book {
	var out []domain.Book
	for _, b := range c.books {
		if b.Bestseller {
			out = append(out, b)
		}
	}
	return out
}
