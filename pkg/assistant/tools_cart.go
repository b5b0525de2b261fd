package assistant

import (
	"fmt"

	"bookhaven/pkg/domain"
)

func (r *Registry) cartTools() []Tool {
	return []Tool{
		{
			Name:        "addToCart",
			Description: "Add a book to the cart by its id, optionally with a quantity (default 1).",
			Parameters: objectSchema([]string{"bookId"}, map[string]any{
				"bookId":   stringParam("Catalog id of the book"),
				"quantity": numberParam("How many copies to add, default 1"),
			}),
			Handler: func(args map[string]any) (string, error) {
				book, miss, err := r.bookByID(argString(args, "bookId"))
				if err != nil {
					return "", err
				}
				if miss != "" {
					return miss, nil
				}
				return r.addCopies(book, argInt(args, "quantity", 1)), nil
			},
		},
		{
			Name:        "addToCartByTitle",
			Description: "Add a book to the cart by (part of) its title, optionally with a quantity.",
			Parameters: objectSchema([]string{"title"}, map[string]any{
				"title":    stringParam("Full or partial title"),
				"quantity": numberParam("How many copies to add, default 1"),
			}),
			Handler: func(args map[string]any) (string, error) {
				book, miss, err := r.bookByTitle(argString(args, "title"))
				if err != nil {
					return "", err
				}
				if miss != "" {
					return miss, nil
				}
				return r.addCopies(book, argInt(args, "quantity", 1)), nil
			},
		},
		{
			Name:        "removeFromCart",
			Description: "Remove a book from the cart entirely by its id.",
			Parameters: objectSchema([]string{"bookId"}, map[string]any{
				"bookId": stringParam("Catalog id of the book"),
			}),
			Handler: func(args map[string]any) (string, error) {
				book, miss, err := r.bookByID(argString(args, "bookId"))
				if err != nil {
					return "", err
				}
				if miss != "" {
					return miss, nil
				}
				return r.removeLine(book), nil
			},
		},
		{
			Name:        "removeFromCartByTitle",
			Description: "Remove a book from the cart entirely by (part of) its title.",
			Parameters: objectSchema([]string{"title"}, map[string]any{
				"title": stringParam("Full or partial title"),
			}),
			Handler: func(args map[string]any) (string, error) {
				book, miss, err := r.bookByTitle(argString(args, "title"))
				if err != nil {
					return "", err
				}
				if miss != "" {
					return miss, nil
				}
				return r.removeLine(book), nil
			},
		},
		{
			Name:        "updateCartQuantity",
			Description: "Set the quantity of a cart line by book id. Zero removes the line.",
			Parameters: objectSchema([]string{"bookId", "quantity"}, map[string]any{
				"bookId":   stringParam("Catalog id of the book"),
				"quantity": numberParam("New quantity; 0 removes the book"),
			}),
			Handler: func(args map[string]any) (string, error) {
				book, miss, err := r.bookByID(argString(args, "bookId"))
				if err != nil {
					return "", err
				}
				if miss != "" {
					return miss, nil
				}
				if !hasArg(args, "quantity") {
					return "", fmt.Errorf("updateCartQuantity: quantity is required")
				}
				return r.setQuantity(book, argInt(args, "quantity", 0)), nil
			},
		},
		{
			Name:        "updateCartQuantityByTitle",
			Description: "Set the quantity of a cart line by (part of) the book title. Zero removes the line.",
			Parameters: objectSchema([]string{"title", "quantity"}, map[string]any{
				"title":    stringParam("Full or partial title"),
				"quantity": numberParam("New quantity; 0 removes the book"),
			}),
			Handler: func(args map[string]any) (string, error) {
				book, miss, err := r.bookByTitle(argString(args, "title"))
				if err != nil {
					return "", err
				}
				if miss != "" {
					return miss, nil
				}
				if !hasArg(args, "quantity") {
					return "", fmt.Errorf("updateCartQuantityByTitle: quantity is required")
				}
				return r.setQuantity(book, argInt(args, "quantity", 0)), nil
			},
		},
		{
			Name:        "clearCart",
			Description: "Remove everything from the cart.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				if r.deps.Cart.Len() == 0 {
					return "The cart is already empty.", nil
				}
				r.deps.Cart.Clear()
				return "Cleared the cart.", nil
			},
		},
	}
}

// Catalog misses come back as conversational negative-result strings the
// agent can read out, never as errors; the error path is reserved for
// malformed calls such as a missing required argument.

func (r *Registry) bookByID(id string) (domain.Book, string, error) {
	if id == "" {
		return domain.Book{}, "", fmt.Errorf("bookId is required")
	}
	book, ok := r.deps.Catalog.ByID(id)
	if !ok {
		return domain.Book{}, fmt.Sprintf("No book with id %q was found.", id), nil
	}
	return book, "", nil
}

func (r *Registry) bookByTitle(title string) (domain.Book, string, error) {
	if title == "" {
		return domain.Book{}, "", fmt.Errorf("title is required")
	}
	book, ok := r.deps.Catalog.ByTitle(title)
	if !ok {
		return domain.Book{}, fmt.Sprintf("No book matching %q was found in the catalog.", title), nil
	}
	return book, "", nil
}

// Confirmations restate resulting state so the agent can read back exactly
// what the cart now holds.

func (r *Registry) addCopies(book domain.Book, quantity int) string {
	r.deps.Cart.AddItem(book, quantity)
	line, _ := r.deps.Cart.Get(book.ID)
	return fmt.Sprintf("Added %q to the cart; you now have %d cop%s. Cart total is $%.2f across %d items.",
		book.Title, line.Quantity, plural(line.Quantity, "y", "ies"), r.deps.Cart.Total(), r.deps.Cart.ItemCount())
}

func (r *Registry) removeLine(book domain.Book) string {
	if _, ok := r.deps.Cart.Get(book.ID); !ok {
		return fmt.Sprintf("%q isn't in the cart.", book.Title)
	}
	r.deps.Cart.RemoveItem(book.ID)
	return fmt.Sprintf("Removed %q from the cart. %d items remain, total $%.2f.",
		book.Title, r.deps.Cart.ItemCount(), r.deps.Cart.Total())
}

func (r *Registry) setQuantity(book domain.Book, quantity int) string {
	if quantity <= 0 {
		return r.removeLine(book)
	}
	if _, ok := r.deps.Cart.Get(book.ID); !ok {
		return fmt.Sprintf("%q isn't in the cart; add it first if you want %d copies.", book.Title, quantity)
	}
	r.deps.Cart.UpdateQuantity(book.ID, quantity)
	return fmt.Sprintf("Set %q to %d cop%s. Cart total is $%.2f.",
		book.Title, quantity, plural(quantity, "y", "ies"), r.deps.Cart.Total())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
