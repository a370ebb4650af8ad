package ratelimit

import (
	"fmt"
	"testing"
	"time"
)

func newTestLimiter(maxKeys int) (*Limiter, *time.Time) {
	l := New(maxKeys)
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return current }
	return l, &current
}

func TestFirstRequestAllowed(t *testing.T) {
	l, _ := newTestLimiter(100)
	if !l.Allow("1.2.3.4", 30, 30) {
		t.Error("first request should be allowed")
	}
}

func TestExhaustionRejects(t *testing.T) {
	l, _ := newTestLimiter(100)
	for i := 0; i < 30; i++ {
		if !l.Allow("1.2.3.4", 30, 30) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4", 30, 30) {
		t.Error("request beyond the bucket size should be rejected")
	}
}

func TestRefillAfterElapsedTime(t *testing.T) {
	l, now := newTestLimiter(100)
	for i := 0; i < 30; i++ {
		l.Allow("1.2.3.4", 30, 30)
	}
	if l.Allow("1.2.3.4", 30, 30) {
		t.Fatal("bucket should be exhausted")
	}

	// 30 tokens/minute: a full minute restores the whole bucket.
	*now = now.Add(time.Minute)
	if !l.Allow("1.2.3.4", 30, 30) {
		t.Error("bucket should refill after a minute")
	}
}

func TestPartialRefill(t *testing.T) {
	l, now := newTestLimiter(100)
	for i := 0; i < 30; i++ {
		l.Allow("1.2.3.4", 30, 1)
	}

	// One minute at 1 token/minute refills a single token.
	*now = now.Add(time.Minute)
	if !l.Allow("1.2.3.4", 30, 1) {
		t.Error("one token should have refilled")
	}
	if l.Allow("1.2.3.4", 30, 1) {
		t.Error("only one token should have refilled")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(100)
	for i := 0; i < 30; i++ {
		l.Allow("1.2.3.4", 30, 30)
	}
	if !l.Allow("5.6.7.8", 30, 30) {
		t.Error("a fresh key should not be affected by another key's bucket")
	}
}

func TestSweepEvictsIdleBuckets(t *testing.T) {
	l, now := newTestLimiter(100)
	for i := 0; i < 50; i++ {
		l.Allow(fmt.Sprintf("10.0.0.%d", i), 30, 30)
	}
	if l.Len() != 50 {
		t.Fatalf("tracked keys = %d, want 50", l.Len())
	}

	// All 50 buckets idle past the TTL; the next request sweeps them.
	*now = now.Add(bucketTTL + time.Minute)
	l.Allow("fresh", 30, 30)
	if l.Len() != 1 {
		t.Errorf("tracked keys after sweep = %d, want 1", l.Len())
	}
}

func TestHardCapBoundsMemory(t *testing.T) {
	l, _ := newTestLimiter(10)

	// Rotating identifiers, all active (TTL eviction cannot help).
	for i := 0; i < 1000; i++ {
		l.Allow(fmt.Sprintf("spoofed-%d", i), 30, 30)
	}
	// The sweep runs before the current key is inserted, so the
	// registry may briefly hold cap+1 entries.
	if l.Len() > 11 {
		t.Errorf("tracked keys = %d, want at most %d", l.Len(), 11)
	}
}
