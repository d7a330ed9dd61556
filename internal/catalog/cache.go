// internal/catalog/cache.go
package catalog

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const statsCachePrefix = "assistant:catalog:"

// CachedStore wraps a Store and caches the aggregate lookups in Redis.
// Listing searches are never cached. Cache failures fall through to
// the inner store, so a dead Redis only costs latency.
type CachedStore struct {
	inner Store
	redis *redis.Client
	ttl   time.Duration
}

func NewCachedStore(inner Store, redisClient *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, redis: redisClient, ttl: ttl}
}

func (c *CachedStore) FindListings(ctx context.Context, query ListingQuery) ([]Listing, error) {
	return c.inner.FindListings(ctx, query)
}

func (c *CachedStore) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	var cached PlatformStats
	if c.getCached(ctx, statsCachePrefix+"platform", &cached) {
		return &cached, nil
	}

	stats, err := c.inner.PlatformStats(ctx)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, statsCachePrefix+"platform", stats)
	return stats, nil
}

func (c *CachedStore) CategoryStats(ctx context.Context, slug string) (*CategoryStats, error) {
	key := statsCachePrefix + "category:" + slug
	var cached CategoryStats
	if c.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := c.inner.CategoryStats(ctx, slug)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, key, stats)
	return stats, nil
}

func (c *CachedStore) CityStats(ctx context.Context, city string) (*CityStats, error) {
	key := statsCachePrefix + "city:" + city
	var cached CityStats
	if c.getCached(ctx, key, &cached) {
		return &cached, nil
	}

	stats, err := c.inner.CityStats(ctx, city)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, key, stats)
	return stats, nil
}

func (c *CachedStore) Categories(ctx context.Context) ([]Category, error) {
	var cached []Category
	if c.getCached(ctx, statsCachePrefix+"categories", &cached) {
		return cached, nil
	}

	categories, err := c.inner.Categories(ctx)
	if err != nil {
		return nil, err
	}
	c.setCached(ctx, statsCachePrefix+"categories", categories)
	return categories, nil
}

func (c *CachedStore) getCached(ctx context.Context, key string, dest interface{}) bool {
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

func (c *CachedStore) setCached(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.redis.Set(ctx, key, data, c.ttl)
}
