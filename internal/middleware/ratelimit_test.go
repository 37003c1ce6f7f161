package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)

	if !rl.Allow("1.2.3.4") || !rl.Allow("1.2.3.4") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("third request inside the window should be rejected")
	}
	if !rl.Allow("5.6.7.8") {
		t.Fatal("another IP must have its own budget")
	}
}

func TestRateLimiterWindowSlides(t *testing.T) {
	rl := NewRateLimiter(1, 30*time.Millisecond)

	if !rl.Allow("1.2.3.4") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("second request inside the window should be rejected")
	}

	time.Sleep(40 * time.Millisecond)
	if !rl.Allow("1.2.3.4") {
		t.Fatal("request after the window slides should pass")
	}
}
