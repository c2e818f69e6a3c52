package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per key in fixed windows.
type RateLimiter interface {
	// Allow records one request for key and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
}

type redisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
	logger *slog.Logger
}

// NewRateLimiter creates a Redis-based rate limiter allowing limit requests per window.
func NewRateLimiter(client *redis.Client, limit int64, window time.Duration, logger *slog.Logger) RateLimiter {
	logger.Info("✅ [RateLimiter] Using Redis rate limiter",
		"limit", limit,
		"window", window,
	)
	return &redisRateLimiter{
		client: client,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

// windowKey buckets requests by window start.
// Format: rate:{key}:{unix window start}
func (r *redisRateLimiter) windowKey(key string) string {
	start := time.Now().Truncate(r.window).Unix()
	return fmt.Sprintf("rate:%s:%d", key, start)
}

func (r *redisRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if r.limit <= 0 {
		return true, nil
	}

	redisKey := r.windowKey(key)

	pipe := r.client.Pipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, r.window)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("❌ [RateLimiter] Failed to increment counter", "error", err, "key", key)
		return true, err
	}

	return incr.Val() <= r.limit, nil
}

// NoOpRateLimiter is a rate limiter that always allows requests
// Used when Redis is not available
type NoOpRateLimiter struct{}

// NewNoOpRateLimiter creates a no-op rate limiter
func NewNoOpRateLimiter(logger *slog.Logger) RateLimiter {
	logger.Warn("⚠️ [RateLimiter] Using no-op rate limiter - rate limiting is disabled")
	return &NoOpRateLimiter{}
}

func (r *NoOpRateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	return true, nil
}

// RateLimit rejects requests over the limit with 429. Limiter errors let the request through.
func RateLimit(limiter RateLimiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.FullPath() + ":" + c.ClientIP()

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.Warn("⚠️ [RateLimiter] Limiter unavailable, allowing request", "error", err)
		}
		if !allowed {
			logger.Warn("🚫 [RateLimiter] Rate limit exceeded", "key", key)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"erro": "Muitas requisições, tente novamente mais tarde"})
			return
		}

		c.Next()
	}
}
