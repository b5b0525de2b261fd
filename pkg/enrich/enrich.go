// Package enrich augments catalog books with cover art and extended
// descriptions from public book APIs. Enrichment is best effort: every
// upstream or cache failure degrades to a zero-value result, never an
// error the storefront user sees.
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	cacheKeyPrefix = "bookhaven:enrich:"
	cacheTTL       = 7 * 24 * time.Hour

	defaultCoverBaseURL = "https://covers.openlibrary.org"
	defaultBooksBaseURL = "https://www.googleapis.com"
)

// Enrichment is what the public APIs contribute for one ISBN. Either
// field may be empty when the upstream had nothing.
type Enrichment struct {
	CoverURL    string `json:"coverUrl,omitempty"`
	Description string `json:"description,omitempty"`
}

// Client fetches and caches enrichments. rdb may be nil to disable
// caching.
type Client struct {
	httpClient   *http.Client
	rdb          *redis.Client
	logger       *slog.Logger
	coverBaseURL string
	booksBaseURL string
}

func NewClient(rdb *redis.Client) *Client {
	return &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		rdb:          rdb,
		logger:       slog.Default().With("component", "enrich"),
		coverBaseURL: defaultCoverBaseURL,
		booksBaseURL: defaultBooksBaseURL,
	}
}

// FetchByISBN returns the enrichment for the given ISBN, serving from the
// cache when a fresh entry exists. The cover and description fetches run
// in parallel.
func (c *Client) FetchByISBN(ctx context.Context, isbn string) Enrichment {
	isbn = CleanISBN(isbn)
	if isbn == "" {
		return Enrichment{}
	}

	if cached, ok := c.cacheGet(ctx, isbn); ok {
		return cached
	}

	var result Enrichment
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.CoverURL = c.fetchCover(gctx, isbn)
		return nil
	})
	g.Go(func() error {
		result.Description = c.fetchDescription(gctx, isbn)
		return nil
	})
	_ = g.Wait()

	c.cacheSet(ctx, isbn, result)
	return result
}

// CleanISBN strips separators and whitespace, keeping digits and a
// trailing X check digit.
func CleanISBN(isbn string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(isbn)) {
		if (r >= '0' && r <= '9') || r == 'X' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// fetchCover probes Open Library for a cover image and returns its URL.
// Open Library serves a tiny placeholder instead of a 404 for unknown
// ISBNs, so a HEAD with default=false is used to tell them apart.
func (c *Client) fetchCover(ctx context.Context, isbn string) string {
	coverURL := fmt.Sprintf("%s/b/isbn/%s-L.jpg", c.coverBaseURL, isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, coverURL+"?default=false", nil)
	if err != nil {
		return ""
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("cover probe failed", "isbn", isbn, "err", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	return coverURL
}

func (c *Client) fetchDescription(ctx context.Context, isbn string) string {
	q := url.Values{}
	q.Set("q", "isbn:"+isbn)
	q.Set("maxResults", "1")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.booksBaseURL+"/books/v1/volumes?"+q.Encode(), nil)
	if err != nil {
		return ""
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("description fetch failed", "isbn", isbn, "err", err)
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload struct {
		Items []struct {
			VolumeInfo struct {
				Description string `json:"description"`
			} `json:"volumeInfo"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logger.Debug("description decode failed", "isbn", isbn, "err", err)
		return ""
	}
	if len(payload.Items) == 0 {
		return ""
	}
	return strings.TrimSpace(payload.Items[0].VolumeInfo.Description)
}

func (c *Client) cacheGet(ctx context.Context, isbn string) (Enrichment, bool) {
	if c.rdb == nil {
		return Enrichment{}, false
	}
	data, err := c.rdb.Get(ctx, cacheKeyPrefix+isbn).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("enrichment cache read failed", "err", err)
		}
		return Enrichment{}, false
	}
	var e Enrichment
	if err := json.Unmarshal(data, &e); err != nil {
		return Enrichment{}, false
	}
	return e, true
}

func (c *Client) cacheSet(ctx context.Context, isbn string, e Enrichment) {
	if c.rdb == nil {
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKeyPrefix+isbn, data, cacheTTL).Err(); err != nil {
		c.logger.Warn("enrichment cache write failed", "err", err)
	}
}
