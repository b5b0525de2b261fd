package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, limit int) (*FixedWindowLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter, err := NewFixedWindowLimiter(rdb, "test:ratelimit", limit, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}
	return limiter, mr
}

func TestAllowWithinQuota(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2)
	ctx := context.Background()

	if !limiter.Allow(ctx, "client-a") {
		t.Fatal("first request denied")
	}
	if !limiter.Allow(ctx, "client-a") {
		t.Fatal("second request denied")
	}
	if limiter.Allow(ctx, "client-a") {
		t.Fatal("third request allowed over quota")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if !limiter.Allow(ctx, "client-a") {
		t.Fatal("client-a denied")
	}
	if !limiter.Allow(ctx, "client-b") {
		t.Fatal("client-b should have its own window")
	}
}

func TestEmptyKeyCollapsesToUnknown(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)
	ctx := context.Background()

	if !limiter.Allow(ctx, "") {
		t.Fatal("first unidentified request denied")
	}
	if limiter.Allow(ctx, "  ") {
		t.Fatal("unidentified requests should share a single bucket")
	}
}

func TestFailsClosedWhenRedisDown(t *testing.T) {
	limiter, mr := newTestLimiter(t, 5)
	mr.Close()

	if limiter.Allow(context.Background(), "client-a") {
		t.Fatal("expected deny when redis is unreachable")
	}
}

func TestRetryAfterWithinWindow(t *testing.T) {
	limiter, _ := newTestLimiter(t, 1)

	retry := limiter.RetryAfter()
	if retry <= 0 || retry > time.Minute {
		t.Fatalf("retry after = %v, want within (0, 1m]", retry)
	}
}

func TestConstructorValidation(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:6379"})
	if _, err := NewFixedWindowLimiter(nil, "", 1, time.Minute); err == nil {
		t.Fatal("expected error for nil client")
	}
	if _, err := NewFixedWindowLimiter(rdb, "", 0, time.Minute); err == nil {
		t.Fatal("expected error for zero limit")
	}
	if _, err := NewFixedWindowLimiter(rdb, "", 1, 0); err == nil {
		t.Fatal("expected error for zero window")
	}
}
