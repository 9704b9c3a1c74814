package rates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// RedisRateCache stores rates in Redis with a fixed TTL.
type RedisRateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRateCache wraps an existing Redis client as a rate cache.
func NewRedisRateCache(client *redis.Client, ttl time.Duration) *RedisRateCache {
	return &RedisRateCache{client: client, ttl: ttl}
}

func rateKey(base, target string) string {
	return fmt.Sprintf("rates:%s:%s", base, target)
}

// Get returns a cached rate, or found=false on a miss.
func (c *RedisRateCache) Get(ctx context.Context, base, target string) (decimal.Decimal, bool, error) {
	val, err := c.client.Get(ctx, rateKey(base, target)).Result()
	if errors.Is(err, redis.Nil) {
		return decimal.Zero, false, nil
	}
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("reading rate cache: %w", err)
	}
	rate, err := decimal.NewFromString(val)
	if err != nil {
		// Treat a corrupt entry as a miss so it gets overwritten.
		return decimal.Zero, false, nil
	}
	return rate, true, nil
}

// Set stores a rate with the cache's configured TTL.
func (c *RedisRateCache) Set(ctx context.Context, base, target string, rate decimal.Decimal) error {
	if err := c.client.Set(ctx, rateKey(base, target), rate.String(), c.ttl).Err(); err != nil {
		return fmt.Errorf("writing rate cache: %w", err)
	}
	return nil
}
