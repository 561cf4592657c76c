// Package ratelimit provides a per-source token-bucket limiter. Each source
// name gets its own bucket, so exhausting one source's quota never throttles
// another. Limiters are injected into scrapers at construction; there is no
// package-level singleton.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const secondsPerHour = 3600

// bucket holds the token state for one source. Refill is continuous and
// proportional: refillRate tokens per second up to capacity, with fractional
// accruals floored away.
type bucket struct {
	capacity   int
	tokens     int
	lastRefill time.Time
	refillRate float64 // tokens per second
}

// refill adds the tokens accrued since lastRefill. lastRefill only advances
// when at least one whole token was added, so fractions keep accruing.
func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill).Seconds()
	added := int(elapsed * b.refillRate)
	if added <= 0 {
		return
	}
	b.tokens += added
	if b.tokens > b.capacity {
		b.tokens = b.capacity
	}
	b.lastRefill = now
}

// tokenInterval is how long one token takes to accrue.
func (b *bucket) tokenInterval() time.Duration {
	return time.Duration(float64(time.Second) / b.refillRate)
}

// Limiter is a concurrency-safe map of source name to token bucket. Bucket
// bookkeeping is serialized under one mutex; the mutex is never held while
// sleeping, so sources only contend on the arithmetic, not on each other's
// waits.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

// NewLimiter creates an empty limiter. Buckets are created lazily at full
// capacity on first use.
func NewLimiter() *Limiter {
	return &Limiter{buckets: make(map[string]*bucket)}
}

// bucketLocked returns the bucket for name, creating it full if absent.
// Caller holds l.mu.
func (l *Limiter) bucketLocked(name string, hourlyQuota int) *bucket {
	if hourlyQuota < 1 {
		hourlyQuota = 1
	}
	b, ok := l.buckets[name]
	if !ok {
		b = &bucket{
			capacity:   hourlyQuota,
			tokens:     hourlyQuota,
			lastRefill: time.Now(),
			refillRate: float64(hourlyQuota) / secondsPerHour,
		}
		l.buckets[name] = b
	}
	return b
}

// Wait blocks until a token is available for the named source, then consumes
// it. While no token is available it sleeps one token-interval at a time with
// the lock released, so concurrent callers for other sources proceed freely.
// Returns an error only when ctx is cancelled while waiting.
func (l *Limiter) Wait(ctx context.Context, name string, hourlyQuota int) error {
	for {
		l.mu.Lock()
		b := l.bucketLocked(name, hourlyQuota)
		b.refill(time.Now())
		if b.tokens > 0 {
			b.tokens--
			l.mu.Unlock()
			return nil
		}
		interval := b.tokenInterval()
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return fmt.Errorf("rate limiter wait for %s: %w", name, ctx.Err())
		case <-time.After(interval):
		}
	}
}

// Allowed reports whether a token is currently available for the named
// source, without consuming one. This is a peek: a caller that checks
// Allowed and then calls Wait races with concurrent consumers and may still
// block. No current caller needs reservation semantics.
func (l *Limiter) Allowed(name string, hourlyQuota int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	b := l.bucketLocked(name, hourlyQuota)
	b.refill(time.Now())
	return b.tokens > 0
}

// Reset drops the named bucket; the next access recreates it at full
// capacity.
func (l *Limiter) Reset(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, name)
}
