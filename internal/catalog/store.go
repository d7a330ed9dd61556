// internal/catalog/store.go
package catalog

import (
	"context"
	"errors"
)

var (
	ErrStoreUnavailable = errors.New("CATALOG_UNAVAILABLE")
	ErrInvalidQuery     = errors.New("invalid listing query")
)

// Store is the read interface over the listings catalog. Both the
// PostgreSQL and Elasticsearch backends implement it; callers never
// see which one is configured.
type Store interface {
	// FindListings runs a structured search and returns at most
	// query.Limit visible listings, best rated first.
	FindListings(ctx context.Context, query ListingQuery) ([]Listing, error)

	// PlatformStats returns whole-catalog counts.
	PlatformStats(ctx context.Context) (*PlatformStats, error)

	// CategoryStats returns per-category aggregates for one slug.
	CategoryStats(ctx context.Context, slug string) (*CategoryStats, error)

	// CityStats returns per-city aggregates for one canonical city.
	CityStats(ctx context.Context, city string) (*CityStats, error)

	// Categories returns the service taxonomy with live listing counts.
	Categories(ctx context.Context) ([]Category, error)
}
