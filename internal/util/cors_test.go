package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func corsRequest(t *testing.T, allowed []string, origin, method string) *httptest.ResponseRecorder {
	t.Helper()
	h := WithCORS(allowed, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(method, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestWithCORSPermissiveByDefault(t *testing.T) {
	rec := corsRequest(t, nil, "http://localhost:5173", http.MethodGet)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("allow-origin = %q, want *", got)
	}
}

func TestWithCORSEchoesAllowedOrigin(t *testing.T) {
	allowed := []string{"https://shop.example.com"}

	rec := corsRequest(t, allowed, "https://shop.example.com", http.MethodGet)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.example.com" {
		t.Fatalf("allow-origin = %q", got)
	}
	if got := rec.Header().Get("Vary"); got != "Origin" {
		t.Fatalf("vary = %q", got)
	}

	rec = corsRequest(t, allowed, "https://evil.example.com", http.MethodGet)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow-origin %q for unlisted origin", got)
	}
}

func TestWithCORSPreflightShortCircuits(t *testing.T) {
	rec := corsRequest(t, nil, "http://localhost:5173", http.MethodOptions)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
}
