package assistant

import (
	"fmt"
	"net/url"

	"bookhaven/pkg/domain"
)

func (r *Registry) navigationTools() []Tool {
	return []Tool{
		{
			Name:        "navigate",
			Description: "Navigate to a page by path, e.g. /, /browse, /cart, /checkout, /wishlist or /book/<id>.",
			Parameters: objectSchema([]string{"path"}, map[string]any{
				"path": stringParam("Destination path"),
			}),
			Handler: func(args map[string]any) (string, error) {
				path := argString(args, "path")
				if path == "" {
					return "", fmt.Errorf("navigate: path is required")
				}
				return r.goTo(path, "Navigated to "+path+".")
			},
		},
		{
			Name:        "goHome",
			Description: "Go to the storefront home page.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				return r.goTo("/", "You're on the home page now.")
			},
		},
		{
			Name:        "goToCart",
			Description: "Open the shopping cart page.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				return r.goTo("/cart", fmt.Sprintf("Opened the cart. It has %d items totaling $%.2f.", r.deps.Cart.ItemCount(), r.deps.Cart.Total()))
			},
		},
		{
			Name:        "goToCheckout",
			Description: "Open the checkout page.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				if r.deps.Cart.Len() == 0 {
					return "The cart is empty, so there's nothing to check out yet.", nil
				}
				return r.goTo("/checkout", fmt.Sprintf("Opened checkout with %d items, total $%.2f.", r.deps.Cart.ItemCount(), r.deps.Cart.Total()))
			},
		},
		{
			Name:        "goToWishlist",
			Description: "Open the wishlist page.",
			Parameters:  objectSchema(nil, map[string]any{}),
			Handler: func(args map[string]any) (string, error) {
				return r.goTo("/wishlist", fmt.Sprintf("Opened the wishlist. It has %d books.", r.deps.Wishlist.Len()))
			},
		},
		{
			Name:        "browseCatalog",
			Description: "Open the browse page, optionally filtered by genre and a search term.",
			Parameters: objectSchema(nil, map[string]any{
				"genre":  stringParam("Genre filter, e.g. sci-fi, fantasy, mystery"),
				"search": stringParam("Free-text search filter"),
			}),
			Handler: func(args map[string]any) (string, error) {
				q := url.Values{}
				note := "Browsing the full catalog."
				if genre := argString(args, "genre"); genre != "" {
					if !domain.ValidGenre(domain.Genre(genre)) {
						return fmt.Sprintf("I don't know the genre %q. Try one of: %s.", genre, genreList()), nil
					}
					q.Set("genre", genre)
					note = "Browsing " + domain.GenreLabels[domain.Genre(genre)] + " books."
				}
				if search := argString(args, "search"); search != "" {
					q.Set("search", search)
					note += " Filtered by " + fmt.Sprintf("%q.", search)
				}
				path := "/browse"
				if enc := q.Encode(); enc != "" {
					path += "?" + enc
				}
				return r.goTo(path, note)
			},
		},
	}
}

// goTo navigates the surface and reports ok on success. Unknown paths are
// allowed through; the resolver classifies them as unknown pages later.
func (r *Registry) goTo(path, ok string) (string, error) {
	if err := r.deps.Surface.Navigate(path); err != nil {
		return "", fmt.Errorf("navigate %s: %w", path, err)
	}
	return ok, nil
}

func genreList() string {
	out := ""
	for i, g := range domain.Genres {
		if i > 0 {
			out += ", "
		}
		out += string(g)
	}
	return out
}
