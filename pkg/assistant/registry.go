// Package assistant implements the shopping assistant core: the callable
// tool surface handed to the conversational voice agent, and the executor
// that applies structured text-chat actions. Both drive the same stores
// and navigation, and both record their work in the action ledger.
package assistant

import (
	"fmt"
	"log/slog"
	"strings"

	"bookhaven/pkg/catalog"
	"bookhaven/pkg/domain"
	"bookhaven/pkg/scroll"
	"bookhaven/pkg/store"
)

// Tool is a named function the voice agent can invoke. The string result
// is read back to the agent as part of the conversational turn, so
// handlers phrase it as the outcome of the action, restating resulting
// state where a confirmation needs it.
type Tool struct {
	Name        string
	Description string
	// Parameters is the JSON schema for the tool's arguments.
	Parameters map[string]any
	Handler    func(args map[string]any) (string, error)
}

// Deps are the live handles the tool handlers operate on. Handlers must
// re-read these at call time; nothing is memoized at registration.
type Deps struct {
	Catalog  *catalog.Catalog
	Cart     *store.CartStore
	Wishlist *store.WishlistStore
	Log      *store.ActionLog
	Surface  Surface
}

// Registry is the fixed tool set built once per session.
type Registry struct {
	deps     Deps
	animator *scroll.Animator
	tools    []Tool
	byName   map[string]*Tool
	logger   *slog.Logger
}

// NewRegistry wires the full tool surface against the given dependencies.
func NewRegistry(deps Deps) *Registry {
	r := &Registry{
		deps:     deps,
		animator: scroll.NewAnimator(deps.Surface.Viewport()),
		byName:   make(map[string]*Tool),
		logger:   slog.Default().With("component", "assistant.registry"),
	}
	r.register(r.navigationTools()...)
	r.register(r.lookupTools()...)
	r.register(r.cartTools()...)
	r.register(r.wishlistTools()...)
	r.register(r.queryTools()...)
	r.register(r.contextTools()...)
	r.register(r.scrollTool())
	return r
}

func (r *Registry) register(tools ...Tool) {
	for _, t := range tools {
		r.tools = append(r.tools, t)
		r.byName[t.Name] = &r.tools[len(r.tools)-1]
	}
}

// Tools returns the registered tool set in registration order.
func (r *Registry) Tools() []Tool {
	out := make([]Tool, len(r.tools))
	copy(out, r.tools)
	return out
}

// Lookup returns the named tool.
func (r *Registry) Lookup(name string) (Tool, bool) {
	t, ok := r.byName[name]
	if !ok {
		return Tool{}, false
	}
	return *t, ok
}

// Call invokes the named tool with args. Every invocation is recorded in
// the action ledger as pending and resolved to completed or failed; a
// panicking or erroring handler is caught and logged so one bad call never
// takes the session down, then reported back as an error.
func (r *Registry) Call(name string, args map[string]any) (result string, err error) {
	tool, ok := r.byName[name]
	if !ok {
		return fmt.Sprintf("Unknown tool %q.", name), nil
	}

	entryID := r.deps.Log.Append(actionTypeFor(name), describeCall(name, args), args)
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("tool %s panicked: %v", name, rec)
		}
		if err != nil {
			r.logger.Error("tool call failed", "tool", name, "err", err)
			r.deps.Log.Resolve(entryID, domain.StatusFailed, err.Error())
			return
		}
		r.deps.Log.Resolve(entryID, domain.StatusCompleted, result)
	}()

	result, err = tool.Handler(args)
	return result, err
}

// actionTypeFor maps a tool name onto the shared action-type enumeration
// used by the ledger and the text-chat executor.
func actionTypeFor(tool string) domain.AIActionType {
	switch tool {
	case "addToCart", "addToCartByTitle", "addCurrentBookToCart", "updateCartQuantity", "updateCartQuantityByTitle":
		return domain.ActionAddToCart
	case "removeFromCart", "removeFromCartByTitle":
		return domain.ActionRemoveFromCart
	case "clearCart":
		return domain.ActionClearCart
	case "addToWishlist", "addToWishlistByTitle", "addCurrentBookToWishlist":
		return domain.ActionAddToWishlist
	case "removeFromWishlist", "removeFromWishlistByTitle":
		return domain.ActionRemoveFromWishlist
	case "clearWishlist":
		return domain.ActionClearWishlist
	case "addAllWishlistToCart":
		return domain.ActionAddWishlistToCart
	case "viewBook", "getBookDetails":
		return domain.ActionViewDetails
	case "navigate", "goHome", "goToCart", "goToCheckout", "goToWishlist", "scroll":
		return domain.ActionNavigate
	case "browseCatalog":
		return domain.ActionFilter
	case "getAvailableBooks":
		return domain.ActionSearch
	default:
		return domain.ActionThinking
	}
}

func describeCall(tool string, args map[string]any) string {
	if len(args) == 0 {
		return "Voice tool: " + tool
	}
	parts := make([]string, 0, len(args))
	for _, key := range []string{"bookId", "title", "quantity", "path", "genre", "search", "direction", "amount"} {
		if v, ok := args[key]; ok {
			parts = append(parts, fmt.Sprintf("%s=%v", key, v))
		}
	}
	if len(parts) == 0 {
		return "Voice tool: " + tool
	}
	return "Voice tool: " + tool + " (" + strings.Join(parts, ", ") + ")"
}

// Argument helpers. Tool arguments arrive as decoded JSON, so numbers are
// float64 and everything is optional until proven otherwise.

func argString(args map[string]any, key string) string {
	v, _ := args[key].(string)
	return strings.TrimSpace(v)
}

func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		if _, err := fmt.Sscanf(strings.TrimSpace(v), "%d", &n); err == nil {
			return n
		}
	}
	return fallback
}

// hasArg reports whether the key was supplied at all, which matters for
// quantity updates where zero is meaningful.
func hasArg(args map[string]any, key string) bool {
	_, ok := args[key]
	return ok
}

func stringParam(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

func numberParam(desc string) map[string]any {
	return map[string]any{"type": "number", "description": desc}
}

func objectSchema(required []string, props map[string]any) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
