package util

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func secHeaders(t *testing.T, mutate func(*http.Request)) http.Header {
	t.Helper()
	h := WithSecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if mutate != nil {
		mutate(req)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Header()
}

func TestWithSecurityHeaders(t *testing.T) {
	headers := secHeaders(t, nil)

	for name, want := range map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "no-referrer",
	} {
		if got := headers.Get(name); got != want {
			t.Fatalf("%s = %q, want %q", name, got, want)
		}
	}
	if headers.Get("Content-Security-Policy") == "" {
		t.Fatal("expected CSP header")
	}
	if got := headers.Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("did not expect HSTS for non-https request, got %q", got)
	}
}

func TestWithSecurityHeadersAllowsPageMicrophone(t *testing.T) {
	policy := secHeaders(t, nil).Get("Permissions-Policy")
	if !strings.Contains(policy, "microphone=(self)") {
		t.Fatalf("Permissions-Policy %q blocks the microphone needed for voice sessions", policy)
	}
	if !strings.Contains(policy, "camera=()") {
		t.Fatalf("Permissions-Policy %q should still deny the camera", policy)
	}
}

func TestWithSecurityHeadersSetsHSTSOnForwardedHTTPS(t *testing.T) {
	headers := secHeaders(t, func(req *http.Request) {
		req.Header.Set("X-Forwarded-Proto", "https")
	})
	if headers.Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS header on forwarded https request")
	}
}
