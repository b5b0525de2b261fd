package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestCleanISBN(t *testing.T) {
	cases := []struct{ in, want string }{
		{"978-0-441-17271-9", "9780441172719"},
		{" 0 19 852663 6 ", "0198526636"},
		{"043942089x", "043942089X"},
		{"not an isbn", ""},
	}
	for _, tc := range cases {
		if got := CleanISBN(tc.in); got != tc.want {
			t.Errorf("CleanISBN(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func testClient(t *testing.T, coverStatus int, description string) (*Client, *atomic.Int64) {
	t.Helper()
	var upstreamHits atomic.Int64

	covers := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamHits.Add(1)
		w.WriteHeader(coverStatus)
	}))
	t.Cleanup(covers.Close)

	books := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamHits.Add(1)
		if description == "" {
			json.NewEncoder(w).Encode(map[string]any{"items": []any{}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]any{
				{"volumeInfo": map[string]any{"description": description}},
			},
		})
	}))
	t.Cleanup(books.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	c := NewClient(rdb)
	c.coverBaseURL = covers.URL
	c.booksBaseURL = books.URL
	return c, &upstreamHits
}

func TestFetchByISBNCombinesSources(t *testing.T) {
	c, _ := testClient(t, http.StatusOK, "A sweeping desert epic.")

	e := c.FetchByISBN(context.Background(), "978-0-441-17271-9")
	if e.CoverURL == "" {
		t.Fatal("missing cover url")
	}
	if e.Description != "A sweeping desert epic." {
		t.Fatalf("description = %q", e.Description)
	}
}

func TestFetchByISBNCachesResult(t *testing.T) {
	c, hits := testClient(t, http.StatusOK, "cached")

	c.FetchByISBN(context.Background(), "9780441172719")
	first := hits.Load()
	c.FetchByISBN(context.Background(), "978-0-441-17271-9")
	if hits.Load() != first {
		t.Fatalf("upstream hits grew from %d to %d; cache miss on same cleaned ISBN", first, hits.Load())
	}
}

func TestFetchByISBNDegradesSilently(t *testing.T) {
	c, _ := testClient(t, http.StatusNotFound, "")

	e := c.FetchByISBN(context.Background(), "9780441172719")
	if e != (Enrichment{}) {
		t.Fatalf("e = %+v, want zero value", e)
	}
}

func TestFetchByISBNEmptyInput(t *testing.T) {
	c := NewClient(nil)
	if e := c.FetchByISBN(context.Background(), "---"); e != (Enrichment{}) {
		t.Fatalf("e = %+v, want zero value", e)
	}
}
