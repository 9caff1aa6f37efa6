// Package cache provides two-tier caching of analysis results and fetched pages:
// L1 in process memory and an optional L2 in Redis that survives restarts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

// Defaults used when Options leaves a field zero
const (
	DefaultTTL             = 15 * time.Minute
	DefaultMaxEntries      = 1000
	DefaultCleanupInterval = 5 * time.Minute
)

// Store is the interface consumers depend on
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
}

// Options configures a Tiered cache. An empty RedisURL disables L2.
type Options struct {
	RedisURL        string
	TTL             time.Duration
	MaxEntries      int
	CleanupInterval time.Duration
}

// Tiered implements L1 (memory) + L2 (Redis) caching
type Tiered struct {
	l1              sync.Map      // key → *entry
	rdb             *redis.Client // nil if Redis unavailable
	ttl             time.Duration
	maxEntries      int
	cleanupInterval time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

type entry struct {
	data      []byte
	expiresAt time.Time
}

// New sets up the cache. An unreachable or invalid Redis only disables L2.
func New(ctx context.Context, opts Options) *Tiered {
	c := newTiered(opts)

	if opts.RedisURL != "" {
		redisOpts, err := redis.ParseURL(opts.RedisURL)
		if err != nil {
			slog.Warn("cache: invalid redis URL, L2 disabled", slog.Any("error", err))
		} else {
			rdb := redis.NewClient(redisOpts)
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := rdb.Ping(pingCtx).Err(); err != nil {
				slog.Warn("cache: redis unreachable, L2 disabled", slog.Any("error", err))
				_ = rdb.Close()
			} else {
				c.rdb = rdb
				slog.Info("cache: L2 redis connected", slog.String("addr", redisOpts.Addr))
			}
		}
	}

	slog.Info("cache: initialized", slog.Duration("ttl", c.ttl), slog.Bool("redis", c.rdb != nil), slog.Int("max_entries", c.maxEntries))
	return c
}

// NewMemory returns a cache with L1 only
func NewMemory(opts Options) *Tiered {
	return newTiered(opts)
}

func newTiered(opts Options) *Tiered {
	c := &Tiered{ttl: opts.TTL, maxEntries: opts.MaxEntries, cleanupInterval: opts.CleanupInterval}
	if c.ttl <= 0 {
		c.ttl = DefaultTTL
	}
	if c.maxEntries == 0 {
		c.maxEntries = DefaultMaxEntries
	}
	if c.cleanupInterval <= 0 {
		c.cleanupInterval = DefaultCleanupInterval
	}
	return c
}

// Key builds a deterministic cache key from parts
func Key(namespace string, parts ...string) string {
	joined := strings.Join(parts, "|")
	hash := sha256.Sum256([]byte(joined))
	return fmt.Sprintf("%s:%x", namespace, hash[:12]) // 24-char hex suffix
}

// Get tries L1, then L2. On L2 hit, populates L1.
func (c *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if val, ok := c.l1.Load(key); ok {
		e := val.(*entry)
		if time.Now().Before(e.expiresAt) {
			slog.Debug("cache: L1 hit", slog.String("key", key))
			c.hits.Add(1)
			return e.data, true
		}
		c.l1.Delete(key) // expired
	}

	if c.rdb != nil {
		data, err := c.rdb.Get(ctx, key).Bytes()
		if err == nil {
			slog.Debug("cache: L2 hit", slog.String("key", key))
			c.hits.Add(1)
			c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(c.ttl)})
			return data, true
		}
	}

	c.misses.Add(1)
	return nil, false
}

// Set stores data in both L1 and L2
func (c *Tiered) Set(ctx context.Context, key string, data []byte) {
	c.evictIfNeeded()

	c.l1.Store(key, &entry{data: data, expiresAt: time.Now().Add(c.ttl)})

	if c.rdb != nil {
		if err := c.rdb.Set(ctx, key, data, c.ttl).Err(); err != nil {
			slog.Debug("cache: L2 set failed", slog.Any("error", err))
		}
	}
}

// Stats returns current hit/miss counters
func (c *Tiered) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// HasRedis reports whether L2 is connected
func (c *Tiered) HasRedis() bool {
	return c.rdb != nil
}

// Close releases the Redis connection, if any
func (c *Tiered) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// evictIfNeeded removes entries when L1 exceeds maxEntries.
// Removes expired entries first, then oldest entries if still over limit.
func (c *Tiered) evictIfNeeded() {
	if c.maxEntries <= 0 {
		return
	}

	count := 0
	c.l1.Range(func(_, _ any) bool {
		count++
		return true
	})
	if count < c.maxEntries {
		return
	}

	// Phase 1: remove expired
	now := time.Now()
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
			c.l1.Delete(key)
			count--
		}
		return count >= c.maxEntries
	})

	// Phase 2: remove oldest entries until under limit.
	// Earlier expiry means an older entry since expiry = createdAt + ttl.
	for count >= c.maxEntries {
		var oldestKey any
		oldestAt := time.Now().Add(c.ttl + time.Hour)
		c.l1.Range(func(key, val any) bool {
			if e, ok := val.(*entry); ok && e.expiresAt.Before(oldestAt) {
				oldestKey = key
				oldestAt = e.expiresAt
			}
			return true
		})
		if oldestKey == nil {
			break
		}
		c.l1.Delete(oldestKey)
		count--
	}
}

// StartCleanup periodically removes expired L1 entries until ctx is done
func (c *Tiered) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(c.cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.removeExpired(time.Now())
			}
		}
	}()
}

func (c *Tiered) removeExpired(now time.Time) {
	c.l1.Range(func(key, val any) bool {
		if e, ok := val.(*entry); ok && now.After(e.expiresAt) {
			c.l1.Delete(key)
		}
		return true
	})
}

// GetJSON loads a cached value of type T. A decode failure counts as a miss.
func GetJSON[T any](ctx context.Context, s Store, key string) (T, bool) {
	var out T
	data, ok := s.Get(ctx, key)
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, false
	}
	return out, true
}

// SetJSON marshals v and stores it
func SetJSON[T any](ctx context.Context, s Store, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	s.Set(ctx, key, data)
}
