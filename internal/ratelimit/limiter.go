package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

var ErrInvalidLimit = errors.New("rate limit must be positive")

// Limiter gates outbound backend calls.
type Limiter interface {
	Allow(ctx context.Context) (bool, error)
}

// Unlimited allows every call.
type Unlimited struct{}

func (Unlimited) Allow(context.Context) (bool, error) {
	return true, nil
}

// LocalLimiter is an in-process token bucket.
type LocalLimiter struct {
	limiter *rate.Limiter
}

func NewLocalLimiter(rps float64, burst int) (*LocalLimiter, error) {
	if rps <= 0 {
		return nil, ErrInvalidLimit
	}
	if burst <= 0 {
		burst = 1
	}

	return &LocalLimiter{limiter: rate.NewLimiter(rate.Limit(rps), burst)}, nil
}

func (l *LocalLimiter) Allow(context.Context) (bool, error) {
	return l.limiter.Allow(), nil
}

// RedisLimiter counts calls per one-second window in Redis so that every replica
// shares the same limit.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	limit  int64
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, prefix string, limit int) (*RedisLimiter, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}

	return &RedisLimiter{
		client: client,
		prefix: prefix,
		limit:  int64(limit),
		now:    time.Now,
	}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context) (bool, error) {
	key := l.windowKey()

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, 2*time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to update rate limit window: %w", err)
	}

	return incr.Val() <= l.limit, nil
}

func (l *RedisLimiter) windowKey() string {
	return strings.TrimSuffix(l.prefix, ":") + ":" + strconv.FormatInt(l.now().Unix(), 10)
}
