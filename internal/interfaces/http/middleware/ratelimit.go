package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civicconnect/backend/internal/interfaces/http/dto"
)

// RateLimiter tracks per-key request counts over a fixed window, in memory.
// Counts are not shared between instances, so behind a load balancer each
// replica enforces the limit independently.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

type bucket struct {
	remaining int
	resetAt   time.Time
}

// NewRateLimiter allows up to limit requests per key per window. It starts a
// background sweep that drops idle keys so the map does not grow unbounded.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go rl.sweep()
	return rl
}

func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window * 2)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, b := range rl.buckets {
			if now.Sub(b.resetAt) > rl.window {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow consumes one request slot for key, reporting whether it was available.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b := rl.freshBucket(key, time.Now())
	if b.remaining <= 0 {
		return false
	}
	b.remaining--
	return true
}

// Remaining reports how many request slots key has left in the current window.
func (rl *RateLimiter) Remaining(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return rl.freshBucket(key, time.Now()).remaining
}

// freshBucket returns key's bucket, rolling it over to a full one when the
// window has elapsed. Callers must hold rl.mu.
func (rl *RateLimiter) freshBucket(key string, now time.Time) *bucket {
	b, ok := rl.buckets[key]
	if !ok || now.Sub(b.resetAt) >= rl.window {
		b = &bucket{remaining: rl.limit, resetAt: now}
		rl.buckets[key] = b
	}
	return b
}

// RateLimit limits requests per client IP and reports the quota through
// X-RateLimit headers.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			rejectRateLimited(c)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(limiter.Remaining(key)))

		c.Next()
	}
}

// RateLimitByKey limits requests grouped by whatever keyFunc extracts,
// such as a user ID or an API token.
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(keyFunc(c)) {
			rejectRateLimited(c)
			return
		}
		c.Next()
	}
}

func rejectRateLimited(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
		dto.ErrCodeRateLimited,
		"Too many requests. Please try again later.",
	))
}
