package ratelimit

import (
	"sync"
	"time"
)

const (
	// bucketTTL is how long an untouched bucket survives a sweep.
	bucketTTL = 10 * time.Minute
	// sweepInterval is the minimum gap between opportunistic sweeps.
	sweepInterval = time.Minute
)

type bucket struct {
	tokens     float64
	lastRefill time.Time
}

// Limiter is an in-memory token-bucket registry keyed by client
// identifier. Buckets for idle clients are swept inline with normal
// request handling, so memory stays bounded even under rotating keys.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	maxKeys   int
	lastSweep time.Time

	now func() time.Time
}

// New creates a limiter that tracks at most maxKeys client buckets.
func New(maxKeys int) *Limiter {
	return &Limiter{
		buckets: make(map[string]*bucket),
		maxKeys: maxKeys,
		now:     time.Now,
	}
}

// Allow reports whether the client identified by key may proceed, and
// consumes one token if so. The bucket refills at refillPerMinute up to
// maxTokens.
func (l *Limiter) Allow(key string, maxTokens, refillPerMinute float64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	b, exists := l.buckets[key]
	if !exists {
		// First request consumes one token of a full bucket.
		l.buckets[key] = &bucket{tokens: maxTokens - 1, lastRefill: now}
		return true
	}

	elapsedMinutes := now.Sub(b.lastRefill).Minutes()
	b.tokens = min(maxTokens, b.tokens+elapsedMinutes*refillPerMinute)
	b.lastRefill = now

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Len returns the number of tracked client buckets.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// sweep drops idle buckets when the registry is over its cap or the
// sweep interval has elapsed. If TTL eviction is not enough to get
// under the cap, arbitrary buckets are dropped. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	over := len(l.buckets) > l.maxKeys
	if !over && now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now

	for key, b := range l.buckets {
		if now.Sub(b.lastRefill) > bucketTTL {
			delete(l.buckets, key)
		}
	}
	if len(l.buckets) <= l.maxKeys {
		return
	}
	for key := range l.buckets {
		if len(l.buckets) <= l.maxKeys {
			break
		}
		delete(l.buckets, key)
	}
}
