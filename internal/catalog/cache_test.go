// internal/catalog/cache_test.go
package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore records calls so tests can tell cache hits from
// fall-throughs.
type countingStore struct {
	findCalls     int
	platformCalls int
	categoryCalls int
	cityCalls     int
	listCalls     int
}

func (s *countingStore) FindListings(ctx context.Context, query ListingQuery) ([]Listing, error) {
	s.findCalls++
	return []Listing{{ID: "lst-1", Name: "Grand Palace"}}, nil
}

func (s *countingStore) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	s.platformCalls++
	return &PlatformStats{ListingCount: 500, VendorCount: 120, CategoryCount: 11}, nil
}

func (s *countingStore) CategoryStats(ctx context.Context, slug string) (*CategoryStats, error) {
	s.categoryCalls++
	return &CategoryStats{Category: slug, ListingCount: 42, AvgRating: 4.3}, nil
}

func (s *countingStore) CityStats(ctx context.Context, city string) (*CityStats, error) {
	s.cityCalls++
	return &CityStats{City: city, ListingCount: 67, Categories: []string{"venues"}}, nil
}

func (s *countingStore) Categories(ctx context.Context) ([]Category, error) {
	s.listCalls++
	return Taxonomy, nil
}

func setupCache(t *testing.T) (*CachedStore, *countingStore) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	inner := &countingStore{}
	return NewCachedStore(inner, client, 5*time.Minute), inner
}

func TestCachedStore_StatsCachedAcrossCalls(t *testing.T) {
	cache, inner := setupCache(t)
	ctx := context.Background()

	first, err := cache.PlatformStats(ctx)
	require.NoError(t, err)
	second, err := cache.PlatformStats(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.platformCalls)
}

func TestCachedStore_KeysAreScoped(t *testing.T) {
	cache, inner := setupCache(t)
	ctx := context.Background()

	_, err := cache.CategoryStats(ctx, "venues")
	require.NoError(t, err)
	_, err = cache.CategoryStats(ctx, "catering")
	require.NoError(t, err)
	_, err = cache.CategoryStats(ctx, "venues")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.categoryCalls)
}

func TestCachedStore_CityStatsRoundTrip(t *testing.T) {
	cache, inner := setupCache(t)
	ctx := context.Background()

	first, err := cache.CityStats(ctx, "hyderabad")
	require.NoError(t, err)
	second, err := cache.CityStats(ctx, "hyderabad")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, []string{"venues"}, second.Categories)
	assert.Equal(t, 1, inner.cityCalls)
}

func TestCachedStore_ListingsNeverCached(t *testing.T) {
	cache, inner := setupCache(t)
	ctx := context.Background()

	_, err := cache.FindListings(ctx, ListingQuery{Limit: 8})
	require.NoError(t, err)
	_, err = cache.FindListings(ctx, ListingQuery{Limit: 8})
	require.NoError(t, err)

	assert.Equal(t, 2, inner.findCalls)
}

func TestCachedStore_RedisErrorFallsThrough(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectGet(statsCachePrefix + "platform").SetErr(assert.AnError)
	mock.Regexp().ExpectSet(statsCachePrefix+"platform", `.*`, 5*time.Minute).SetVal("OK")

	inner := &countingStore{}
	cache := NewCachedStore(inner, client, 5*time.Minute)

	stats, err := cache.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 500, stats.ListingCount)
	assert.Equal(t, 1, inner.platformCalls)
}

func TestCachedStore_CategoriesCached(t *testing.T) {
	cache, inner := setupCache(t)
	ctx := context.Background()

	first, err := cache.Categories(ctx)
	require.NoError(t, err)
	second, err := cache.Categories(ctx)
	require.NoError(t, err)

	assert.Equal(t, len(first), len(second))
	assert.Equal(t, 1, inner.listCalls)
}
