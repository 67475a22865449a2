package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// sweepAfter is how many tracked keys trigger a pass that drops expired windows.
const sweepAfter = 1024

// RateLimiter is a fixed window counter held in process memory, so each
// replica counts on its own.
type RateLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	now     func() time.Time
	buckets map[string]*window
}

type window struct {
	count int
	ends  time.Time
}

func NewRateLimiter(limit int, per time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  per,
		now:     time.Now,
		buckets: make(map[string]*window),
	}
}

// take counts one hit for key and reports what is left in its window.
func (rl *RateLimiter) take(key string) (allowed bool, remaining int, resetIn time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if len(rl.buckets) >= sweepAfter {
		rl.sweep(now)
	}

	w, ok := rl.buckets[key]
	if !ok || !now.Before(w.ends) {
		w = &window{ends: now.Add(rl.window)}
		rl.buckets[key] = w
	}

	if w.count >= rl.limit {
		return false, 0, w.ends.Sub(now)
	}
	w.count++
	return true, rl.limit - w.count, w.ends.Sub(now)
}

func (rl *RateLimiter) sweep(now time.Time) {
	for k, w := range rl.buckets {
		if !now.Before(w.ends) {
			delete(rl.buckets, k)
		}
	}
}

// Tracked is the number of keys currently holding a window.
func (rl *RateLimiter) Tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}

// RateLimiterMiddleware limits requests per key; an empty key falls back to the client IP.
func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keyFn(c)
		if key == "" {
			key = clientIP(c)
		}

		allowed, remaining, resetIn := rl.take(key)

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			secs := int((resetIn + time.Second - 1) / time.Second)
			c.Header("Retry-After", strconv.Itoa(secs))
			abortJSON(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again shortly.")
			return
		}

		c.Next()
	}
}

func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	ip := c.ClientIP()
	if host, _, err := net.SplitHostPort(ip); err == nil && host != "" {
		return host
	}
	return ip
}
