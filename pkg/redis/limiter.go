package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/ikkim/shopadmin-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of one rate limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// FixedWindowLimiter counts requests per key in windows of a fixed length.
type FixedWindowLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewFixedWindowLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *FixedWindowLimiter {
	return &FixedWindowLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

func (l *FixedWindowLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", l.prefix, key, bucket)

	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireNX(ctx, redisKey, l.window)
		ttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		logger.Error("Failed to evaluate rate limit", err, map[string]interface{}{
			"prefix": l.prefix,
		})
		return Decision{}, err
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}
	decision := Decision{Allowed: count <= l.limit, Limit: l.limit, Remaining: remaining}
	if !decision.Allowed {
		decision.RetryAfter = ttl.Val()
		if decision.RetryAfter <= 0 {
			decision.RetryAfter = l.window
		}
	}
	return decision, nil
}

// NoopLimiter allows everything. It stands in when Redis is not configured.
type NoopLimiter struct{}

func (NoopLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true}, nil
}
