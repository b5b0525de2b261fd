package assistant

import "fmt"

func (r *Registry) wishlistTools() []Tool {
	return []Tool{
		{
			Name:        "addToWishlist",
			Description: "Save a book to the wishlist by its id. Adding a book twice is harmless.",
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
				if r.deps.Wishlist.Contains(book.ID) {
					return fmt.Sprintf("%q is already on the wishlist.", book.Title), nil
				}
				r.deps.Wishlist.Add(book)
				return fmt.Sprintf("Saved %q to the wishlist. It now has %d books.", book.Title, r.deps.Wishlist.Len()), nil
			},
		},
		{
			Name:        "addToWishlistByTitle",
			Description: "Save a book to the wishlist by (part of) its title.",
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
				if r.deps.Wishlist.Contains(book.ID) {
					return fmt.Sprintf("%q is already on the wishlist.", book.Title), nil
				}
				r.deps.Wishlist.Add(book)
				return fmt.Sprintf("Saved %q to the wishlist. It now has %d books.", book.Title, r.deps.Wishlist.Len()), nil
			},
		},
		{
			Name:        "removeFromWishlist",
			Description: "Remove a book from the wishlist by its id.",
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
				if !r.deps.Wishlist.Contains(book.ID) {
					return fmt.Sprintf("%q isn't on the wishlist.", book.Title), nil
				}
				r.deps.Wishlist.Remove(book.ID)
				return fmt.Sprintf("Removed %q from the wishlist. %d books remain.", book.Title, r.deps.Wishlist.Len()), nil
			},
		},
		{
			Name:        "removeFromWishlistByTitle",
			Description: "Remove a book from the wishlist by (part of) its title.",
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
				if !r.deps.Wishlist.Contains(book.ID) {
					return fmt.Sprintf("%q isn't on the wishlist.", book.Title), nil
				}
				r.deps.Wishlist.Remove(book.ID)
				return fmt.Sprintf("Removed %q from the wishlist. %d books remain.", book.Title, r.deps.Wishlist.Len()), nil
			},
		},
		{
			Name:        "clearWishlist",
			Description: "Remove everything from the wishlist.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				if r.deps.Wishlist.Len() == 0 {
					return "The wishlist is already empty.", nil
				}
				r.deps.Wishlist.Clear()
				return "Cleared the wishlist.", nil
			},
		},
		{
			Name:        "addAllWishlistToCart",
			Description: "Move every wishlist book into the cart (one copy each), then clear the wishlist.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				books := r.deps.Wishlist.Items()
				if len(books) == 0 {
					return "The wishlist is empty; nothing to move.", nil
				}
				for _, book := range books {
					r.deps.Cart.AddItem(book, 1)
				}
				r.deps.Wishlist.Clear()
				return fmt.Sprintf("Moved %d wishlist books to the cart. Cart total is $%.2f across %d items.",
					len(books), r.deps.Cart.Total(), r.deps.Cart.ItemCount()), nil
			},
		},
	}
}
