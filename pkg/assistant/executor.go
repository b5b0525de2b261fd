package assistant

import (
	"fmt"
	"log/slog"
	"net/url"

	"bookhaven/pkg/domain"
)

// Action is one structured instruction emitted by the text chat model
// alongside its reply. Data carries the action's parameters as decoded
// JSON.
type Action struct {
	Type domain.AIActionType `json:"type"`
	Data map[string]any      `json:"data,omitempty"`
}

// Executor applies chat actions against the same stores and surface the
// voice tools use. Actions run sequentially in the order the model
// produced them; each is recorded in the ledger as pending and resolved
// before the next one starts.
type Executor struct {
	deps   Deps
	logger *slog.Logger
}

func NewExecutor(deps Deps) *Executor {
	return &Executor{
		deps:   deps,
		logger: slog.Default().With("component", "assistant.executor"),
	}
}

// Execute applies the actions in order. A failing action is marked failed
// and logged; the remaining actions still run.
func (e *Executor) Execute(actions []Action) {
	for _, action := range actions {
		e.executeOne(action)
	}
}

func (e *Executor) executeOne(action Action) {
	entryID := e.deps.Log.Append(action.Type, "Chat action: "+string(action.Type), action.Data)
	result, err := e.apply(action)
	if err != nil {
		e.logger.Warn("chat action failed", "type", action.Type, "err", err)
		e.deps.Log.Resolve(entryID, domain.StatusFailed, err.Error())
		return
	}
	e.deps.Log.Resolve(entryID, domain.StatusCompleted, result)
}

func (e *Executor) apply(action Action) (string, error) {
	data := action.Data
	if data == nil {
		data = map[string]any{}
	}
	switch action.Type {
	case domain.ActionNavigate:
		path := argString(data, "path")
		if path == "" {
			path = argString(data, "url")
		}
		if path == "" {
			return "", fmt.Errorf("navigate: missing path")
		}
		if err := e.deps.Surface.Navigate(path); err != nil {
			return "", fmt.Errorf("navigate %s: %w", path, err)
		}
		return "navigated to " + path, nil

	case domain.ActionSearch:
		query := argString(data, "query")
		if query == "" {
			return "", fmt.Errorf("search: missing query")
		}
		q := url.Values{}
		q.Set("search", query)
		if err := e.deps.Surface.Navigate("/browse?" + q.Encode()); err != nil {
			return "", err
		}
		return "searching for " + query, nil

	case domain.ActionFilter:
		q := url.Values{}
		if genre := argString(data, "genre"); genre != "" && domain.ValidGenre(domain.Genre(genre)) {
			q.Set("genre", genre)
		}
		if search := argString(data, "search"); search != "" {
			q.Set("search", search)
		}
		path := "/browse"
		if enc := q.Encode(); enc != "" {
			path += "?" + enc
		}
		if err := e.deps.Surface.Navigate(path); err != nil {
			return "", err
		}
		return "filtered catalog", nil

	case domain.ActionViewDetails:
		book, err := e.resolveBook(data)
		if err != nil {
			return "", err
		}
		if err := e.deps.Surface.Navigate("/book/" + book.ID); err != nil {
			return "", err
		}
		return "viewing " + book.Title, nil

	case domain.ActionAddToCart:
		book, err := e.resolveBook(data)
		if err != nil {
			return "", err
		}
		e.deps.Cart.AddItem(book, argInt(data, "quantity", 1))
		return "added " + book.Title + " to cart", nil

	case domain.ActionRemoveFromCart:
		book, err := e.resolveBook(data)
		if err != nil {
			return "", err
		}
		e.deps.Cart.RemoveItem(book.ID)
		return "removed " + book.Title + " from cart", nil

	case domain.ActionClearCart:
		e.deps.Cart.Clear()
		return "cleared cart", nil

	case domain.ActionCheckout:
		if e.deps.Cart.Len() == 0 {
			return "", fmt.Errorf("checkout: cart is empty")
		}
		if err := e.deps.Surface.Navigate("/checkout"); err != nil {
			return "", err
		}
		return "opened checkout", nil

	case domain.ActionAddToWishlist:
		book, err := e.resolveBook(data)
		if err != nil {
			return "", err
		}
		e.deps.Wishlist.Add(book)
		return "saved " + book.Title + " to wishlist", nil

	case domain.ActionRemoveFromWishlist:
		book, err := e.resolveBook(data)
		if err != nil {
			return "", err
		}
		e.deps.Wishlist.Remove(book.ID)
		return "removed " + book.Title + " from wishlist", nil

	case domain.ActionClearWishlist:
		e.deps.Wishlist.Clear()
		return "cleared wishlist", nil

	case domain.ActionAddWishlistToCart:
		books := e.deps.Wishlist.Items()
		for _, book := range books {
			e.deps.Cart.AddItem(book, 1)
		}
		e.deps.Wishlist.Clear()
		return fmt.Sprintf("moved %d wishlist books to cart", len(books)), nil

	case domain.ActionRecommend, domain.ActionThinking, domain.ActionVoiceInput, domain.ActionVoiceOutput:
		// Informational tags carried for the ledger; no state change.
		return string(action.Type), nil

	default:
		// Unknown types are tolerated so newer model outputs don't break
		// older executors.
		return "ignored unknown action " + string(action.Type), nil
	}
}

func (e *Executor) resolveBook(data map[string]any) (domain.Book, error) {
	if id := argString(data, "bookId"); id != "" {
		book, ok := e.deps.Catalog.ByID(id)
		if !ok {
			return domain.Book{}, fmt.Errorf("no book with id %q", id)
		}
		return book, nil
	}
	if title := argString(data, "title"); title != "" {
		book, ok := e.deps.Catalog.ByTitle(title)
		if !ok {
			return domain.Book{}, fmt.Errorf("no book matching title %q", title)
		}
		return book, nil
	}
	return domain.Book{}, fmt.Errorf("missing bookId or title")
}
