package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a fixed-window limiter with counters in Redis, shared
// across API processes. Each key gets one counter per window bucket,
// expiring with the window.
type RedisLimiter struct {
	client *redis.Client
	config Config
	now    func() time.Time
}

var _ Limiter = (*RedisLimiter)(nil)

// NewRedisLimiter creates a limiter on an existing client.
func NewRedisLimiter(client *redis.Client, config Config) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		config: config,
		now:    time.Now,
	}
}

// NewRedisLimiterFromURL connects to Redis at url (redis://...) and
// returns a limiter on it.
func NewRedisLimiterFromURL(url string, config Config) (*RedisLimiter, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return NewRedisLimiter(redis.NewClient(opts), config), nil
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := l.now().Unix() / int64(l.config.Window/time.Second)
	counterKey := fmt.Sprintf("ratelimit:%s:%d", key, window)

	count, err := l.client.Incr(ctx, counterKey).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := l.client.Expire(ctx, counterKey, l.config.Window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(l.config.Requests), nil
}

// Close closes the underlying client.
func (l *RedisLimiter) Close() error {
	return l.client.Close()
}
