package domain

import "time"

// Genre is the closed set of catalog genres.
type Genre string

const (
	GenreFiction    Genre = "fiction"
	GenreMystery    Genre = "mystery"
	GenreSciFi      Genre = "sci-fi"
	GenreRomance    Genre = "romance"
	GenreFantasy    Genre = "fantasy"
	GenreNonFiction Genre = "non-fiction"
	GenreThriller   Genre = "thriller"
	GenreBiography  Genre = "biography"
)

// Genres lists the known genres in display order.
var Genres = []Genre{
	GenreFiction, GenreMystery, GenreSciFi, GenreRomance,
	GenreFantasy, GenreNonFiction, GenreThriller, GenreBiography,
}

// GenreLabels maps genres to their display names.
var GenreLabels = map[Genre]string{
	GenreFiction:    "Fiction",
	GenreMystery:    "Mystery",
	GenreSciFi:      "Science Fiction",
	GenreRomance:    "Romance",
	GenreFantasy:    "Fantasy",
	GenreNonFiction: "Non-Fiction",
	GenreThriller:   "Thriller",
	GenreBiography:  "Biography",
}

// ValidGenre reports whether g is one of the known genres.
func ValidGenre(g Genre) bool {
	_, ok := GenreLabels[g]
	return ok
}

// Book is immutable catalog reference data. Books are never created or
// destroyed at runtime.
type Book struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Author        string  `json:"author"`
	Price         float64 `json:"price"`
	OriginalPrice float64 `json:"originalPrice,omitempty"`
	Description   string  `json:"description"`
	CoverImage    string  `json:"coverImage"`
	Genre         Genre   `json:"genre"`
	Rating        float64 `json:"rating"`
	ReviewCount   int     `json:"reviewCount"`
	PublishedYear int     `json:"publishedYear"`
	Pages         int     `json:"pages"`
	ISBN          string  `json:"isbn"`
	InStock       bool    `json:"inStock"`
	Featured      bool    `json:"featured,omitempty"`
	Bestseller    bool    `json:"bestseller,omitempty"`
}

// CartItem pairs a book with a positive quantity. At most one CartItem
// exists per book id; a quantity that would drop to zero removes the entry
// instead.
type CartItem struct {
	Book     Book `json:"book"`
	Quantity int  `json:"quantity"`
}

// ChatMessage is one turn of the assistant conversation. Messages are
// immutable once created and held in memory only.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // "user" or "assistant"
	Content   string    `json:"content"`
	IsVoice   bool      `json:"isVoice,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AIActionType is the closed set of assistant action tags shared by the
// text-chat executor and the voice tool surface.
type AIActionType string

const (
	ActionSearch             AIActionType = "search"
	ActionNavigate           AIActionType = "navigate"
	ActionAddToCart          AIActionType = "add_to_cart"
	ActionRemoveFromCart     AIActionType = "remove_from_cart"
	ActionFilter             AIActionType = "filter"
	ActionRecommend          AIActionType = "recommend"
	ActionViewDetails        AIActionType = "view_details"
	ActionClearCart          AIActionType = "clear_cart"
	ActionCheckout           AIActionType = "checkout"
	ActionVoiceInput         AIActionType = "voice_input"
	ActionVoiceOutput        AIActionType = "voice_output"
	ActionThinking           AIActionType = "thinking"
	ActionAddToWishlist      AIActionType = "add_to_wishlist"
	ActionRemoveFromWishlist AIActionType = "remove_from_wishlist"
	ActionClearWishlist      AIActionType = "clear_wishlist"
	ActionAddWishlistToCart  AIActionType = "add_wishlist_to_cart"
)

// ActionTypeLabels maps action types to display names for the action log.
var ActionTypeLabels = map[AIActionType]string{
	ActionSearch:             "Search",
	ActionNavigate:           "Navigate",
	ActionAddToCart:          "Add to Cart",
	ActionRemoveFromCart:     "Remove from Cart",
	ActionFilter:             "Filter Products",
	ActionRecommend:          "Get Recommendations",
	ActionViewDetails:        "View Details",
	ActionClearCart:          "Clear Cart",
	ActionCheckout:           "Checkout",
	ActionVoiceInput:         "Voice Input",
	ActionVoiceOutput:        "Voice Output",
	ActionThinking:           "Thinking",
	ActionAddToWishlist:      "Add to Wishlist",
	ActionRemoveFromWishlist: "Remove from Wishlist",
	ActionClearWishlist:      "Clear Wishlist",
	ActionAddWishlistToCart:  "Add Wishlist to Cart",
}

// ActionStatus tracks an action through its lifecycle. Pending transitions
// exactly once to completed or failed and is never resurrected.
type ActionStatus string

const (
	StatusPending   ActionStatus = "pending"
	StatusCompleted ActionStatus = "completed"
	StatusFailed    ActionStatus = "failed"
)

// AIAction is one entry of the observable action ledger, covering both
// voice tool invocations and text-mode actions.
type AIAction struct {
	ID          string         `json:"id"`
	Type        AIActionType   `json:"type"`
	Description string         `json:"description"`
	Status      ActionStatus   `json:"status"`
	Result      string         `json:"result,omitempty"`
	Data        map[string]any `json:"data,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}

// PageKind tags a PageContext variant.
type PageKind string

const (
	PageHome     PageKind = "home"
	PageBrowse   PageKind = "browse"
	PageBook     PageKind = "book"
	PageCart     PageKind = "cart"
	PageCheckout PageKind = "checkout"
	PageWishlist PageKind = "wishlist"
	PageUnknown  PageKind = "unknown"
)

// PageContext describes the screen the user is currently looking at.
// It is derived from the live location on demand and never cached.
type PageContext struct {
	Kind PageKind `json:"kind"`

	// Browse filters, set when Kind is PageBrowse.
	Genre  Genre  `json:"genre,omitempty"`
	Search string `json:"search,omitempty"`

	// Book details, set when Kind is PageBook.
	BookID     string  `json:"bookId,omitempty"`
	BookTitle  string  `json:"bookTitle,omitempty"`
	BookAuthor string  `json:"bookAuthor,omitempty"`
	BookPrice  float64 `json:"bookPrice,omitempty"`
	BookGenre  Genre   `json:"bookGenre,omitempty"`

	// Raw path, set when Kind is PageUnknown.
	Path string `json:"path,omitempty"`
}
