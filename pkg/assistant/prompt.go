package assistant

import (
	"fmt"
	"strings"

	"bookhaven/pkg/domain"
	"bookhaven/pkg/pagectx"
)

// systemPrompt renders the instruction block for the chat model: the
// catalog inventory, the live cart, the page the user is on, and the JSON
// reply contract with the action vocabulary the executor understands.
func (s *ChatService) systemPrompt() string {
	var b strings.Builder

	b.WriteString(`You are the shopping assistant for BookHaven, an online bookstore.
Help the user find, compare and buy books. Be concise and friendly.

Always reply with a single JSON object, nothing else:
{"message": "<what you say to the user>", "actions": [{"type": "<action>", "data": {...}}]}

Available action types and their data fields:
- "search": {"query": string}
- "navigate": {"path": string} — paths: /, /browse, /cart, /checkout, /wishlist, /book/<id>
- "filter": {"genre": string, "search": string}
- "view_details": {"bookId": string} or {"title": string}
- "add_to_cart": {"bookId": string, "quantity": number} or {"title": string}
- "remove_from_cart": {"bookId": string} or {"title": string}
- "clear_cart": {}
- "checkout": {}
- "add_to_wishlist" / "remove_from_wishlist": {"bookId": string} or {"title": string}
- "clear_wishlist": {}
- "add_wishlist_to_cart": {}
- "recommend": {} — purely informational, put the picks in the message

Only use book ids that appear in the catalog below. When the user asks
for something not in the catalog, say so instead of inventing a book.
Emit an empty actions array when no action is needed.

`)

	b.WriteString("Catalog:\n")
	for _, book := range s.deps.Catalog.All() {
		fmt.Fprintf(&b, "- id=%s %q by %s (%s, $%.2f, rated %.1f",
			book.ID, book.Title, book.Author, book.Genre, book.Price, book.Rating)
		if !book.InStock {
			b.WriteString(", out of stock")
		}
		b.WriteString(")\n")
	}

	b.WriteString("\n" + s.cartContext() + "\n")

	path, rawQuery := s.deps.Surface.Location()
	b.WriteString("Current page: " + pagectx.Describe(pagectx.Resolve(path, rawQuery, s.deps.Catalog)) + "\n")

	return b.String()
}

func (s *ChatService) cartContext() string {
	items := s.deps.Cart.Items()
	if len(items) == 0 {
		return "Cart: empty."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Cart (%d items, $%.2f):\n", s.deps.Cart.ItemCount(), s.deps.Cart.Total())
	for _, item := range items {
		fmt.Fprintf(&b, "- id=%s %q x%d\n", item.Book.ID, item.Book.Title, item.Quantity)
	}
	wish := s.deps.Wishlist.Items()
	if len(wish) > 0 {
		fmt.Fprintf(&b, "Wishlist (%d books):\n", len(wish))
		for _, book := range wish {
			fmt.Fprintf(&b, "- id=%s %q\n", book.ID, book.Title)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// userPrompt flattens the running conversation into a transcript ending
// with the newest user message.
func userPrompt(history []domain.ChatMessage, message string) string {
	var b strings.Builder
	for _, m := range history {
		role := "User"
		if m.Role == "assistant" {
			role = "Assistant"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, m.Content)
	}
	fmt.Fprintf(&b, "User: %s", message)
	return b.String()
}
