package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares quotes between processes via redis, with the TTL enforced
// by key expiry. Lookups that fail (network, parse) are treated as misses so
// the oracle falls back to the exchange.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: "price:",
	}
}

func (c *RedisCache) Get(ctx context.Context, symbol string) (float64, bool) {
	val, err := c.client.Get(ctx, c.prefix+symbol).Result()
	if err != nil {
		return 0, false
	}
	price, err := strconv.ParseFloat(val, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}

func (c *RedisCache) Set(ctx context.Context, symbol string, price float64) {
	c.client.Set(ctx, c.prefix+symbol, strconv.FormatFloat(price, 'f', -1, 64), c.ttl)
}
