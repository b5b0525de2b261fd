// Package server exposes the storefront HTTP API: catalog and cart
// endpoints, the assistant chat endpoint, voice session plumbing, and the
// websocket bridge the browser surface attaches to.
package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"bookhaven/internal/ratelimit"
	"bookhaven/internal/sessiontoken"
	"bookhaven/internal/util"
	"bookhaven/pkg/assistant"
	"bookhaven/pkg/catalog"
	"bookhaven/pkg/domain"
	"bookhaven/pkg/enrich"
	"bookhaven/pkg/pagectx"
	"bookhaven/pkg/store"
	"bookhaven/pkg/tts"
	"bookhaven/pkg/voice"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	Catalog  *catalog.Catalog
	Cart     *store.CartStore
	Wishlist *store.WishlistStore
	Actions  *store.ActionLog

	Chat    *assistant.ChatService
	Bridge  *Bridge
	Voice   *voice.Controller
	Enrich  *enrich.Client
	TTS     *tts.Client
	// TTSVoice is the voice used when a synthesis request names none.
	TTSVoice string
	Limiter *ratelimit.FixedWindowLimiter

	TrustedProxies *util.TrustedProxies
	AllowedOrigins []string

	// Voice signed-url settings. Relay mode mints a local bridge token;
	// otherwise the upstream agent platform is proxied.
	RelayMode     bool
	TokenMinter   *sessiontoken.Minter
	PublicBaseURL string
	AgentID       string
	UpstreamBase  string
	UpstreamKey   string
}

// Server exposes the storefront HTTP endpoints.
type Server struct {
	cfg Config
	mux *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	s := &Server{cfg: cfg, mux: http.NewServeMux()}
	s.routes()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("bookhaven", util.WithSecurityHeaders(util.WithCORS(s.cfg.AllowedOrigins, s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)

	s.mux.HandleFunc("/api/chat", s.handleChat)
	s.mux.HandleFunc("/api/voice/signed-url", s.handleSignedURL)
	s.mux.HandleFunc("/api/voice/session", s.handleVoiceSession)
	s.mux.HandleFunc("/api/tts", s.handleTTS)

	s.mux.HandleFunc("/api/books", s.handleBooks)
	s.mux.HandleFunc("/api/books/", s.handleBookByID)
	s.mux.HandleFunc("/api/cart", s.handleCart)
	s.mux.HandleFunc("/api/cart/items", s.handleCartItems)
	s.mux.HandleFunc("/api/cart/items/", s.handleCartItemByID)
	s.mux.HandleFunc("/api/cart/clear", s.handleCartClear)
	s.mux.HandleFunc("/api/wishlist", s.handleWishlist)
	s.mux.HandleFunc("/api/wishlist/items", s.handleWishlistItems)
	s.mux.HandleFunc("/api/wishlist/items/", s.handleWishlistItemByID)
	s.mux.HandleFunc("/api/wishlist/clear", s.handleWishlistClear)
	s.mux.HandleFunc("/api/wishlist/move-to-cart", s.handleWishlistMoveToCart)
	s.mux.HandleFunc("/api/actions", s.handleActions)
	s.mux.HandleFunc("/api/page-context", s.handlePageContext)

	if s.cfg.Bridge != nil {
		s.mux.HandleFunc("/ws/voice", s.cfg.Bridge.HandleWS)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// chat

type chatTranscriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatRequest accepts both payload shapes clients send: a bare message,
// or a transcript-shaped {messages, cartContext} body. The server-held
// history stays authoritative, so only the newest user entry is read
// and cartContext is derived server-side rather than trusted.
type chatRequest struct {
	Message     string                  `json:"message"`
	Messages    []chatTranscriptMessage `json:"messages"`
	CartContext json.RawMessage         `json:"cartContext"`
}

func (req chatRequest) latestUserMessage() string {
	if m := strings.TrimSpace(req.Message); m != "" {
		return m
	}
	for i := len(req.Messages) - 1; i >= 0; i-- {
		if req.Messages[i].Role == "user" {
			return strings.TrimSpace(req.Messages[i].Content)
		}
	}
	return ""
}

type chatResponse struct {
	Message string             `json:"message"`
	Actions []assistant.Action `json:"actions"`
	Error   string             `json:"error,omitempty"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if !s.allowRate(w, r, "too many chat requests") {
		return
	}
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	message := req.latestUserMessage()
	if message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}
	reply, err := s.cfg.Chat.Send(r.Context(), message)
	if err != nil {
		util.LoggerFromContext(r.Context()).Error("chat turn failed", "err", err)
		writeJSON(w, http.StatusBadGateway, chatResponse{
			Actions: []assistant.Action{},
			Error:   "assistant is unavailable right now",
		})
		return
	}
	if reply.Actions == nil {
		reply.Actions = []assistant.Action{}
	}
	writeJSON(w, http.StatusOK, chatResponse{Message: reply.Message, Actions: reply.Actions})
}

// books

func (s *Server) handleBooks(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	books := s.cfg.Catalog.All()
	if genre := strings.TrimSpace(r.URL.Query().Get("genre")); genre != "" {
		if !domain.ValidGenre(domain.Genre(genre)) {
			writeError(w, http.StatusBadRequest, "unknown genre")
			return
		}
		books = s.cfg.Catalog.ByGenre(domain.Genre(genre))
	}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		books = searchWithin(books, search)
	}
	writeJSON(w, http.StatusOK, map[string]any{"books": books, "total": len(books)})
}

func searchWithin(books []domain.Book, query string) []domain.Book {
	q := strings.ToLower(query)
	out := make([]domain.Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(string(b.Genre)), q) {
			out = append(out, b)
		}
	}
	return out
}

type bookDetail struct {
	domain.Book
	CoverURL        string `json:"coverUrl,omitempty"`
	FullDescription string `json:"fullDescription,omitempty"`
}

func (s *Server) handleBookByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/books/")
	book, ok := s.cfg.Catalog.ByID(id)
	if !ok {
		notFound(w, "book not found")
		return
	}
	detail := bookDetail{Book: book}
	if s.cfg.Enrich != nil {
		e := s.cfg.Enrich.FetchByISBN(r.Context(), book.ISBN)
		detail.CoverURL = e.CoverURL
		detail.FullDescription = e.Description
	}
	writeJSON(w, http.StatusOK, detail)
}

// cart

type cartResponse struct {
	Items     []domain.CartItem `json:"items"`
	Total     float64           `json:"total"`
	ItemCount int               `json:"itemCount"`
	Hydrated  bool              `json:"hydrated"`
}

func (s *Server) cartState() cartResponse {
	return cartResponse{
		Items:     s.cfg.Cart.Items(),
		Total:     s.cfg.Cart.Total(),
		ItemCount: s.cfg.Cart.ItemCount(),
		Hydrated:  s.cfg.Cart.Hydrated(),
	}
}

func (s *Server) handleCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.cartState())
}

type cartItemRequest struct {
	BookID   string `json:"bookId"`
	Quantity int    `json:"quantity"`
}

func (s *Server) handleCartItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req cartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	book, ok := s.cfg.Catalog.ByID(strings.TrimSpace(req.BookID))
	if !ok {
		notFound(w, "book not found")
		return
	}
	s.cfg.Cart.AddItem(book, req.Quantity)
	writeJSON(w, http.StatusOK, s.cartState())
}

func (s *Server) handleCartItemByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/cart/items/")
	if id == "" {
		notFound(w, "not found")
		return
	}
	switch r.Method {
	case http.MethodPatch:
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid json body")
			return
		}
		s.cfg.Cart.UpdateQuantity(id, req.Quantity)
		writeJSON(w, http.StatusOK, s.cartState())
	case http.MethodDelete:
		s.cfg.Cart.RemoveItem(id)
		writeJSON(w, http.StatusOK, s.cartState())
	default:
		methodNotAllowed(w)
	}
}

func (s *Server) handleCartClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.cfg.Cart.Clear()
	writeJSON(w, http.StatusOK, s.cartState())
}

// wishlist

type wishlistResponse struct {
	Items    []domain.Book `json:"items"`
	Hydrated bool          `json:"hydrated"`
}

func (s *Server) wishlistState() wishlistResponse {
	return wishlistResponse{
		Items:    s.cfg.Wishlist.Items(),
		Hydrated: s.cfg.Wishlist.Hydrated(),
	}
}

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	writeJSON(w, http.StatusOK, s.wishlistState())
}

func (s *Server) handleWishlistItems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	var req struct {
		BookID string `json:"bookId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	book, ok := s.cfg.Catalog.ByID(strings.TrimSpace(req.BookID))
	if !ok {
		notFound(w, "book not found")
		return
	}
	s.cfg.Wishlist.Add(book)
	writeJSON(w, http.StatusOK, s.wishlistState())
}

func (s *Server) handleWishlistItemByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/api/wishlist/items/")
	if id == "" {
		notFound(w, "not found")
		return
	}
	s.cfg.Wishlist.Remove(id)
	writeJSON(w, http.StatusOK, s.wishlistState())
}

func (s *Server) handleWishlistClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	s.cfg.Wishlist.Clear()
	writeJSON(w, http.StatusOK, s.wishlistState())
}

func (s *Server) handleWishlistMoveToCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	books := s.cfg.Wishlist.Items()
	for _, book := range books {
		s.cfg.Cart.AddItem(book, 1)
	}
	s.cfg.Wishlist.Clear()
	writeJSON(w, http.StatusOK, map[string]any{
		"moved": len(books),
		"cart":  s.cartState(),
	})
}

// actions

func (s *Server) handleActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	limit := 50
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		if n, err := parsePositiveInt(raw); err == nil {
			limit = n
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"actions": s.cfg.Actions.Recent(limit)})
}

func (s *Server) handlePageContext(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	path := r.URL.Query().Get("path")
	query := r.URL.Query().Get("query")
	ctx := pagectx.Resolve(path, query, s.cfg.Catalog)
	writeJSON(w, http.StatusOK, map[string]any{
		"context":     ctx,
		"description": pagectx.Describe(ctx),
	})
}

// helpers

func (s *Server) allowRate(w http.ResponseWriter, r *http.Request, msg string) bool {
	if s.cfg.Limiter == nil {
		return true
	}
	key := r.URL.Path + "|" + util.ClientIP(r, s.cfg.TrustedProxies)
	if s.cfg.Limiter.Allow(r.Context(), key) {
		return true
	}
	retryAfter := int(s.cfg.Limiter.RetryAfter().Seconds()) + 1
	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	writeError(w, http.StatusTooManyRequests, msg)
	return false
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func notFound(w http.ResponseWriter, msg string) {
	writeError(w, http.StatusNotFound, msg)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{
		Error:     msg,
		RequestID: strings.TrimSpace(w.Header().Get("X-Request-Id")),
	})
}
