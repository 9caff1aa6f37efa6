// Package ratelimit limits requests per client and endpoint with token buckets.
package ratelimit

import (
	"sync"
	"time"
)

// Defaults used when no configuration is supplied
const (
	DefaultLimit           = 1000
	DefaultWindow          = time.Minute
	DefaultCleanupInterval = 5 * time.Minute
	// IdleTimeout is how long an unused bucket survives cleanup
	IdleTimeout = time.Hour
)

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// Info contains information about rate limit status. A zero Limit means the
// request was not subject to a limit.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Limiter tracks one bucket per client, path and method
type Limiter struct {
	config  *Config
	now     func() time.Time
	buckets sync.Map // key -> *tokenBucket

	stopOnce sync.Once
	stop     chan struct{}
}

// NewLimiter creates a new rate limiter with the given configuration. A nil config
// enables limiting with the defaults.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = &Config{
			Enabled:         true,
			DefaultLimit:    DefaultLimit,
			DefaultWindow:   DefaultWindow,
			CleanupInterval: DefaultCleanupInterval,
		}
	}
	if config.DefaultWindow <= 0 {
		config.DefaultWindow = DefaultWindow
	}

	l := &Limiter{config: config, now: time.Now, stop: make(chan struct{})}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanupLoop(config.CleanupInterval)
	}
	return l
}

// Allow takes a token for the client on the given endpoint
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{}
	}

	endpoint := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if endpoint == nil {
		endpoint = &EndpointConfig{
			Path:   path,
			Method: method,
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
		}
	}
	if endpoint.Limit <= 0 {
		return true, Info{Allowed: true}
	}

	now := l.now()
	bucket := l.bucket(clientID+":"+method+":"+endpoint.key(path), endpoint, now)
	allowed, remaining, resetAt := bucket.take(now)

	info := Info{
		Allowed:   allowed,
		Limit:     endpoint.Limit,
		Remaining: remaining,
		ResetTime: resetAt,
	}
	if !allowed {
		info.RetryAfter = bucket.nextToken(now)
	}
	return allowed, info
}

func (l *Limiter) bucket(key string, endpoint *EndpointConfig, now time.Time) *tokenBucket {
	if b, ok := l.buckets.Load(key); ok {
		return b.(*tokenBucket)
	}
	window := endpoint.Window
	if window <= 0 {
		window = l.config.DefaultWindow
	}
	fresh := newTokenBucket(endpoint.capacity(), float64(endpoint.Limit)/window.Seconds(), now)
	actual, _ := l.buckets.LoadOrStore(key, fresh)
	return actual.(*tokenBucket)
}

func (l *Limiter) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.removeIdle(l.now().Add(-IdleTimeout))
		case <-l.stop:
			return
		}
	}
}

// removeIdle drops buckets unused since cutoff
func (l *Limiter) removeIdle(cutoff time.Time) int {
	removed := 0
	l.buckets.Range(func(key, value any) bool {
		if value.(*tokenBucket).idleSince().Before(cutoff) {
			l.buckets.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// Stop ends the cleanup goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}
