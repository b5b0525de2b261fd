package util

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	trusted, err := NewTrustedProxies([]string{"10.0.0.0/8", "192.168.1.5"})
	if err != nil {
		t.Fatalf("new trusted proxies: %v", err)
	}

	cases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		realIP     string
		trusted    *TrustedProxies
		want       string
	}{
		{
			name:       "direct peer when no proxies trusted",
			remoteAddr: "203.0.113.9:51000",
			forwarded:  "198.51.100.1",
			trusted:    nil,
			want:       "203.0.113.9",
		},
		{
			name:       "untrusted peer ignores forwarded header",
			remoteAddr: "203.0.113.9:51000",
			forwarded:  "198.51.100.1",
			trusted:    trusted,
			want:       "203.0.113.9",
		},
		{
			name:       "trusted peer uses forwarded chain",
			remoteAddr: "10.1.2.3:443",
			forwarded:  "198.51.100.1",
			trusted:    trusted,
			want:       "198.51.100.1",
		},
		{
			name:       "chain walked right to left past trusted hops",
			remoteAddr: "10.1.2.3:443",
			forwarded:  "198.51.100.1, 10.9.9.9",
			trusted:    trusted,
			want:       "198.51.100.1",
		},
		{
			name:       "x-real-ip fallback when no forwarded header",
			remoteAddr: "192.168.1.5:8443",
			realIP:     "198.51.100.7",
			trusted:    trusted,
			want:       "198.51.100.7",
		},
		{
			name:       "all hops trusted falls back to leftmost",
			remoteAddr: "10.1.2.3:443",
			forwarded:  "10.0.0.1, 10.0.0.2",
			trusted:    trusted,
			want:       "10.0.0.1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tc.remoteAddr
			if tc.forwarded != "" {
				req.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if tc.realIP != "" {
				req.Header.Set("X-Real-IP", tc.realIP)
			}
			if got := ClientIP(req, tc.trusted); got != tc.want {
				t.Fatalf("client ip = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewTrustedProxies(t *testing.T) {
	if tp, err := NewTrustedProxies(nil); err != nil || tp != nil {
		t.Fatalf("empty input: tp=%v err=%v", tp, err)
	}
	if _, err := NewTrustedProxies([]string{"not-an-ip"}); err == nil {
		t.Fatal("expected error for malformed entry")
	}
	if _, err := NewTrustedProxies([]string{"10.0.0.0/33"}); err == nil {
		t.Fatal("expected error for malformed cidr")
	}
}
