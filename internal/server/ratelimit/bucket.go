package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// tokenBucket is one client's rate.Limiter plus the bookkeeping the limiter
// needs for headers and idle cleanup. Every request takes one token.
type tokenBucket struct {
	limiter  *rate.Limiter
	capacity float64

	mu       sync.Mutex
	lastUsed time.Time
}

func newTokenBucket(capacity int, refillRate float64, now time.Time) *tokenBucket {
	return &tokenBucket{
		limiter:  rate.NewLimiter(rate.Limit(refillRate), capacity),
		capacity: float64(capacity),
		lastUsed: now,
	}
}

// take consumes a token if one is available and reports the bucket state after
// the attempt. resetAt is when the bucket will be full again.
func (b *tokenBucket) take(now time.Time) (allowed bool, remaining int, resetAt time.Time) {
	b.mu.Lock()
	b.lastUsed = now
	b.mu.Unlock()

	allowed = b.limiter.AllowN(now, 1)
	tokens := b.limiter.TokensAt(now)
	return allowed, max(0, int(tokens)), b.fullAt(now, tokens)
}

// nextToken is how long until one token is available
func (b *tokenBucket) nextToken(now time.Time) time.Duration {
	tokens := b.limiter.TokensAt(now)
	limit := float64(b.limiter.Limit())
	if tokens >= 1 || limit <= 0 {
		return 0
	}
	return time.Duration((1 - tokens) / limit * float64(time.Second))
}

func (b *tokenBucket) fullAt(now time.Time, tokens float64) time.Time {
	limit := float64(b.limiter.Limit())
	if tokens >= b.capacity || limit <= 0 {
		return now
	}
	return now.Add(time.Duration((b.capacity - tokens) / limit * float64(time.Second)))
}

func (b *tokenBucket) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed
}
