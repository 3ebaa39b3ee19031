// Package ratelimit provides token-bucket rate limiting keyed by client
// IP and endpoint. The generate endpoint gets a tighter budget than plain
// CRUD because it can trigger outbound page fetches.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// TokenBucket implements a token bucket rate limiter for a single client
// and endpoint pair.
type TokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	capacity   float64
	refillRate float64 // tokens per second
	lastRefill time.Time
}

// NewTokenBucket creates a bucket that allows limit requests per window,
// with an initial burst of capacity tokens.
func NewTokenBucket(limit int, window time.Duration, capacity int) *TokenBucket {
	if capacity <= 0 {
		capacity = limit
	}
	return &TokenBucket{
		tokens:     float64(capacity),
		capacity:   float64(capacity),
		refillRate: float64(limit) / window.Seconds(),
		lastRefill: time.Now(),
	}
}

// Allow reports whether a request may proceed, consuming a token if so.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens += elapsed * tb.refillRate
	if tb.tokens > tb.capacity {
		tb.tokens = tb.capacity
	}
	tb.lastRefill = now
}

// Remaining returns the number of whole tokens currently available.
func (tb *TokenBucket) Remaining() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.refill()
	return int(tb.tokens)
}

// Info describes the rate limit state for a request, used to populate
// X-RateLimit response headers.
type Info struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

// Limiter tracks token buckets per client and endpoint.
type Limiter struct {
	mu      sync.RWMutex
	buckets map[string]*TokenBucket
	config  *Config
	stop    chan struct{}
	stopped bool
}

// NewLimiter creates a limiter and starts its idle-bucket cleanup loop.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = LoadConfig()
	}
	l := &Limiter{
		buckets: make(map[string]*TokenBucket),
		config:  config,
		stop:    make(chan struct{}),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		go l.cleanup()
	}
	return l
}

// Allow decides whether the request identified by client IP, method and
// path may proceed. The second return carries header info.
func (l *Limiter) Allow(clientIP, method, path string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{Limit: -1, Remaining: -1}
	}
	if l.config.Blacklist[clientIP] {
		return false, Info{Limit: 0, Remaining: 0, Reset: time.Now().Add(l.config.DefaultWindow)}
	}
	if l.config.Whitelist[clientIP] {
		return true, Info{Limit: -1, Remaining: -1}
	}

	ec := MatchEndpoint(method, path, l.config.EndpointConfigs)
	limit := l.config.DefaultLimit
	window := l.config.DefaultWindow
	burst := 0
	if ec != nil {
		if ec.Limit < 0 {
			// Unlimited endpoint, e.g. health checks.
			return true, Info{Limit: -1, Remaining: -1}
		}
		limit = ec.Limit
		window = ec.Window
		burst = ec.Burst
	}

	key := fmt.Sprintf("%s|%s|%s", clientIP, method, matchedPath(ec, path))
	bucket := l.getBucket(key, limit, window, burst)
	allowed := bucket.Allow()
	return allowed, Info{
		Limit:     limit,
		Remaining: bucket.Remaining(),
		Reset:     time.Now().Add(window),
	}
}

func matchedPath(ec *EndpointConfig, path string) string {
	if ec != nil {
		return ec.Path
	}
	return path
}

func (l *Limiter) getBucket(key string, limit int, window time.Duration, burst int) *TokenBucket {
	l.mu.RLock()
	bucket, ok := l.buckets[key]
	l.mu.RUnlock()
	if ok {
		return bucket
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if bucket, ok := l.buckets[key]; ok {
		return bucket
	}
	bucket = NewTokenBucket(limit, window, burst)
	l.buckets[key] = bucket
	return bucket
}

func (l *Limiter) cleanup() {
	ticker := time.NewTicker(l.config.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.cleanupBuckets()
		case <-l.stop:
			return
		}
	}
}

// cleanupBuckets drops buckets that have refilled to capacity, which
// means their client has been idle for at least a full window.
func (l *Limiter) cleanupBuckets() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, bucket := range l.buckets {
		bucket.mu.Lock()
		bucket.refill()
		full := bucket.tokens >= bucket.capacity
		bucket.mu.Unlock()
		if full {
			delete(l.buckets, key)
		}
	}
}

// Stop terminates the cleanup goroutine. Safe to call more than once.
func (l *Limiter) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.stopped {
		close(l.stop)
		l.stopped = true
	}
}
