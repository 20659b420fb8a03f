package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	current := time.Unix(0, 0)
	limiter := NewRateLimiter(func() time.Time { return current })
	rule := RateLimitRule{Rate: 1, Burst: 2}

	for i := 0; i < 2; i++ {
		if ok, _ := limiter.Allow("1.2.3.4", rule); !ok {
			t.Fatalf("request %d within burst should pass", i+1)
		}
	}
	ok, retry := limiter.Allow("1.2.3.4", rule)
	if ok {
		t.Fatal("third request should be limited")
	}
	if retry <= 0 {
		t.Fatalf("expected positive retry hint, got %v", retry)
	}

	// A different client is unaffected.
	if ok, _ := limiter.Allow("5.6.7.8", rule); !ok {
		t.Fatal("other client should pass")
	}

	// Tokens refill over time.
	current = current.Add(1500 * time.Millisecond)
	if ok, _ := limiter.Allow("1.2.3.4", rule); !ok {
		t.Fatal("request after refill should pass")
	}
}

func TestRateLimiterDisabledRule(t *testing.T) {
	limiter := NewRateLimiter(nil)
	if ok, _ := limiter.Allow("x", RateLimitRule{}); !ok {
		t.Fatal("zero rule should allow everything")
	}
}
