package ratelimit

import (
	"testing"
	"time"
)

func TestTokenBucket_Allow(t *testing.T) {
	bucket := NewTokenBucket(5, 1) // 5 capacity, 1 refill per second

	for i := 0; i < 5; i++ {
		if !bucket.Allow() {
			t.Errorf("Request %d should be allowed", i+1)
		}
	}

	if bucket.Allow() {
		t.Error("6th request should be denied")
	}

	time.Sleep(1100 * time.Millisecond)

	if !bucket.Allow() {
		t.Error("Request after refill should be allowed")
	}
}

func TestTokenBucket_AllowN(t *testing.T) {
	bucket := NewTokenBucket(10, 2)

	if !bucket.AllowN(10) {
		t.Error("AllowN(10) should be allowed")
	}

	if bucket.AllowN(1) {
		t.Error("AllowN(1) should be denied after consuming all tokens")
	}

	time.Sleep(1100 * time.Millisecond)

	if !bucket.AllowN(2) {
		t.Error("AllowN(2) should be allowed after refill")
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(3, 1)

	for i := 0; i < 3; i++ {
		if !limiter.Allow("player1") {
			t.Errorf("Request %d for player1 should be allowed", i+1)
		}
	}

	if limiter.Allow("player1") {
		t.Error("4th request for player1 should be denied")
	}

	// Different key should have a separate bucket
	if !limiter.Allow("player2") {
		t.Error("First request for player2 should be allowed")
	}
}

func TestLimiter_Reset(t *testing.T) {
	limiter := NewLimiter(2, 1)

	limiter.Allow("player1")
	limiter.Allow("player1")

	if limiter.Allow("player1") {
		t.Error("Request should be denied")
	}

	limiter.Reset("player1")

	if !limiter.Allow("player1") {
		t.Error("Request should be allowed after reset")
	}
}
