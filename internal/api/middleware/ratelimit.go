package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/buckutt/buckutt-api/internal/api/handler/v1/response"
)

var errTooManyAttempts = errors.New("too many attempts, try again later")

// Counter increments key and returns its value within the current window.
type Counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type RedisCounter struct {
	client *redis.Client
}

func NewRedisCounter(client *redis.Client) *RedisCounter {
	return &RedisCounter{
		client: client,
	}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("pipe.Exec -> %w", err)
	}

	return incr.Val(), nil
}

// RateLimiter allows limit requests per client IP per fixed window.
type RateLimiter struct {
	counter Counter
	prefix  string
	limit   int
	window  time.Duration
}

func NewRateLimiter(counter Counter, prefix string, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counter: counter,
		prefix:  prefix,
		limit:   limit,
		window:  window,
	}
}

// Limit lets requests through when the counter store is unreachable.
func (l *RateLimiter) Limit() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if l.counter == nil {
			ctx.Next()
			return
		}

		key := l.prefix + ":" + ctx.ClientIP()
		count, err := l.counter.Incr(ctx.Request.Context(), key, l.window)
		if err != nil {
			zap.L().Warn("rate limiter unavailable", zap.Error(err))
			ctx.Next()
			return
		}

		if count > int64(l.limit) {
			ctx.Header("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			response.RenderErr(ctx, response.ErrTooManyRequests(errTooManyAttempts))
			return
		}

		ctx.Next()
	}
}
