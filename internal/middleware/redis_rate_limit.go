package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bbyte-app/backend/internal/cache"
	"github.com/bbyte-app/backend/internal/logger"
	"github.com/bbyte-app/backend/internal/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RedisRateLimitMiddleware creates a distributed fixed-window rate limiter
// keyed on client IP. It works across multiple instances; when no Redis
// client is configured the request passes through (the in-memory limiter
// in ratelimit.go is the single-instance fallback).
func RedisRateLimitMiddleware(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		redisClient := cache.GetRedisClient()
		if redisClient == nil {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		key := fmt.Sprintf("rate_limit:%s:%s", c.FullPath(), clientIP)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		val, err := redisClient.GetInt(ctx, key)
		if err != nil {
			// Redis failure rejects the request instead of failing open.
			logger.Log.Error("Rate limit check failed, rejecting request",
				logger.WithIP(clientIP),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
			c.Abort()
			return
		}

		if val >= int64(maxRequests) {
			logger.Log.Warn("Rate limit exceeded",
				logger.WithIP(clientIP),
				zap.Int("max_requests", maxRequests),
				zap.Int64("current_requests", val),
			)
			metrics.Get().RateLimitExceededTotal.WithLabelValues(c.FullPath(), c.Request.Method).Inc()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			c.Abort()
			return
		}

		newVal, err := redisClient.IncrBy(ctx, key, 1)
		if err != nil {
			logger.Log.Error("Rate limit increment failed, rejecting request",
				logger.WithIP(clientIP),
				zap.Error(err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
			c.Abort()
			return
		}

		// First request in this window starts the clock.
		if newVal == 1 {
			if err := redisClient.Expire(ctx, key, window); err != nil {
				logger.Warn("Failed to set rate limit expiration", err)
			}
		}

		c.Next()
	}
}
