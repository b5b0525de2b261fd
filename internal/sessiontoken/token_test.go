package sessiontoken

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestMintAndVerify(t *testing.T) {
	minter, err := NewMinter("test-secret", time.Minute)
	if err != nil {
		t.Fatalf("new minter: %v", err)
	}
	verifier, err := NewVerifier("test-secret", 0)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := minter.Mint("agent-42")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	agentID, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if agentID != "agent-42" {
		t.Fatalf("agent id = %q, want agent-42", agentID)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	minter, _ := NewMinter("secret-a", time.Minute)
	verifier, _ := NewVerifier("secret-b", 0)

	token, err := minter.Mint("agent-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected verification failure with wrong secret")
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	minter, _ := NewMinter("secret", -time.Minute)
	verifier, _ := NewVerifier("secret", time.Millisecond)

	// Negative ttl falls back to the default, so mint with a tiny minter
	// instead.
	minter.ttl = -time.Hour
	token, err := minter.Mint("agent-1")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := verifier.Verify(token); err == nil {
		t.Fatal("expected verification failure for expired token")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	verifier, _ := NewVerifier("secret", 0)
	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := verifier.Verify(token); err == nil {
			t.Fatalf("token %q accepted", token)
		}
	}
}

func TestMinterRequiresSecretAndAgent(t *testing.T) {
	if _, err := NewMinter("  ", 0); err == nil {
		t.Fatal("expected error for empty secret")
	}
	minter, _ := NewMinter("secret", 0)
	if _, err := minter.Mint(""); err == nil {
		t.Fatal("expected error for empty agent id")
	}
}

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if _, ok := BearerToken(r); ok {
		t.Fatal("no header should yield no token")
	}
	r.Header.Set("Authorization", "Bearer abc123")
	token, ok := BearerToken(r)
	if !ok || token != "abc123" {
		t.Fatalf("token = %q ok=%v", token, ok)
	}
}
