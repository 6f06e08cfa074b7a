package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter is a fixed-window request counter kept in Redis
type RateLimiter struct {
	redis  *redis.Client
	prefix string
	limit  int
	window time.Duration
	logger *zap.Logger
}

// NewRateLimiter creates a limiter allowing limit requests per window for each key
func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{redis: client, prefix: prefix, limit: limit, window: window, logger: logger}
}

// ByClientIP limits requests per client IP
func (r *RateLimiter) ByClientIP() gin.HandlerFunc {
	return r.ByKey(func(c *gin.Context) string { return c.ClientIP() })
}

// ByKey limits requests per key. A nil client or non-positive limit disables limiting.
// Redis failures let the request through.
func (r *RateLimiter) ByKey(keyFunc func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if r.redis == nil || r.limit <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := fmt.Sprintf("%s:%s", r.prefix, keyFunc(c))
		// EXPIRE NX also repairs a counter that somehow lost its TTL
		pipe := r.redis.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, r.window)
		ttl := pipe.TTL(ctx, key)
		if _, err := pipe.Exec(ctx); err != nil {
			r.logger.Warn("rate limiter unavailable", zap.String("key", key), zap.Error(err))
			c.Next()
			return
		}
		count := incr.Val()

		remaining := int64(r.limit) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(r.limit))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(r.limit) {
			if wait := ttl.Val(); wait > 0 {
				c.Header("Retry-After", strconv.Itoa(int(wait.Round(time.Second)/time.Second)))
			}
			abort(c, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
