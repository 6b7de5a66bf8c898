package cache

import (
	"context"
	"sync"
	"time"
)

// DefaultTTL bounds how long a cached quote may be reused.
const DefaultTTL = 60 * time.Second

type entry struct {
	price     float64
	fetchedAt time.Time
}

// MemoryCache is an in-process price cache with lazy TTL eviction: expired
// entries are dropped on the next lookup, never proactively. Safe for
// concurrent use.
type MemoryCache struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]entry),
	}
}

func (c *MemoryCache) Get(ctx context.Context, symbol string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[symbol]
	if !ok {
		return 0, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		delete(c.entries, symbol)
		return 0, false
	}
	return e.price, true
}

func (c *MemoryCache) Set(ctx context.Context, symbol string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = entry{price: price, fetchedAt: c.now()}
}
