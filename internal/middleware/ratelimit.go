package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bbyte-app/backend/internal/metrics"
	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds configuration for the in-memory rate limiter.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
}

// DefaultRateLimitConfig returns sensible defaults for API endpoints.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 100, Window: time.Minute}
}

// AuthRateLimitConfig returns stricter limits for auth endpoints.
func AuthRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 10, Window: time.Minute}
}

// UploadRateLimitConfig returns limits for post and report uploads.
func UploadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{Limit: 20, Window: time.Minute}
}

// tokenBucket refills at a steady rate and spends one token per request.
type tokenBucket struct {
	tokens     float64
	maxTokens  float64
	refillRate float64 // tokens per second
	lastRefill time.Time
	mu         sync.Mutex
}

func newTokenBucket(maxTokens, refillRate float64) *tokenBucket {
	return &tokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

func (tb *tokenBucket) allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(tb.lastRefill).Seconds()
	tb.tokens = minFloat(tb.maxTokens, tb.tokens+elapsed*tb.refillRate)
	tb.lastRefill = now

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *tokenBucket) retryAfter() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.tokens < 1 {
		return int((1-tb.tokens)/tb.refillRate) + 1
	}
	return 0
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// rateLimiter keeps one token bucket per client IP.
type rateLimiter struct {
	buckets map[string]*tokenBucket
	config  RateLimitConfig
	mu      sync.Mutex
}

// NewRateLimiter creates an in-memory per-IP rate limiting middleware. Used
// when Redis is not configured; the Redis limiter is preferred for
// multi-instance deployments.
func NewRateLimiter(config RateLimitConfig) gin.HandlerFunc {
	rl := &rateLimiter{
		buckets: make(map[string]*tokenBucket),
		config:  config,
	}

	// Drop idle buckets so the map doesn't grow unbounded.
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			rl.mu.Lock()
			for ip, bucket := range rl.buckets {
				bucket.mu.Lock()
				idle := time.Since(bucket.lastRefill) > 30*time.Minute
				bucket.mu.Unlock()
				if idle {
					delete(rl.buckets, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()

	refillRate := float64(config.Limit) / config.Window.Seconds()

	return func(c *gin.Context) {
		clientIP := c.ClientIP()

		rl.mu.Lock()
		bucket, ok := rl.buckets[clientIP]
		if !ok {
			bucket = newTokenBucket(float64(config.Limit), refillRate)
			rl.buckets[clientIP] = bucket
		}
		rl.mu.Unlock()

		if !bucket.allow() {
			metrics.Get().RateLimitExceededTotal.WithLabelValues(c.FullPath(), c.Request.Method).Inc()
			c.Header("Retry-After", strconv.Itoa(bucket.retryAfter()))
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}

		c.Next()
	}
}
