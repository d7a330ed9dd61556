// internal/workers/assistant/build-context/handler_test.go
package buildcontext

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shubharambh-workers/internal/catalog"
	"shubharambh-workers/internal/models"
)

// TestLogger implements the Logger interface for testing
type TestLogger struct {
	t *testing.T
}

func NewTestLogger(t *testing.T) *TestLogger {
	return &TestLogger{t: t}
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	return l
}

// statsStore serves canned stats; individual calls can be failed to
// exercise degradation.
type statsStore struct {
	failPlatform bool
	failCity     bool
	failCategory bool
}

func (s *statsStore) FindListings(context.Context, catalog.ListingQuery) ([]catalog.Listing, error) {
	return nil, nil
}

func (s *statsStore) PlatformStats(context.Context) (*catalog.PlatformStats, error) {
	if s.failPlatform {
		return nil, catalog.ErrStoreUnavailable
	}
	return &catalog.PlatformStats{ListingCount: 120, VendorCount: 45, CategoryCount: 11}, nil
}

func (s *statsStore) CategoryStats(_ context.Context, slug string) (*catalog.CategoryStats, error) {
	if s.failCategory {
		return nil, catalog.ErrStoreUnavailable
	}
	return &catalog.CategoryStats{
		Category:     slug,
		ListingCount: 23,
		AvgRating:    4.3,
		AvgPriceMin:  150000,
		AvgPriceMax:  400000,
	}, nil
}

func (s *statsStore) CityStats(_ context.Context, city string) (*catalog.CityStats, error) {
	if s.failCity {
		return nil, catalog.ErrStoreUnavailable
	}
	return &catalog.CityStats{
		City:         city,
		ListingCount: 34,
		Categories:   []string{"venues", "catering", "photography"},
	}, nil
}

func (s *statsStore) Categories(context.Context) ([]catalog.Category, error) {
	if s.failPlatform {
		return nil, catalog.ErrStoreUnavailable
	}
	return catalog.Taxonomy, nil
}

func sampleListing() catalog.Listing {
	return catalog.Listing{
		ID:          "v1",
		Name:        "Grand Palace",
		Category:    "venues",
		Location:    "Gachibowli",
		City:        "Hyderabad",
		Capacity:    models.Range{Min: 100, Max: 500},
		PriceRange:  models.Range{Min: 200000, Max: 450000},
		Rating:      4.6,
		ReviewCount: 38,
	}
}

func newHandler(t *testing.T, store catalog.Store) *Handler {
	return NewHandler(LoadConfig(), store, NewTestLogger(t))
}

func TestExecute_SectionOrder(t *testing.T) {
	h := newHandler(t, &statsStore{})

	output, err := h.Execute(context.Background(), &Input{
		Intents: []models.IntentTag{
			models.IntentVenueSearch, models.IntentLocation, models.IntentCategory,
		},
		Entities: models.ExtractedEntities{City: "hyderabad", Category: "venues"},
		Listings: []catalog.Listing{sampleListing()},
		Tier:     "exact",
	})

	require.NoError(t, err)
	assert.False(t, output.Degraded)

	platform := strings.Index(output.Context, "Shubharambh catalog: 120 listings from 45 vendors")
	results := strings.Index(output.Context, "Matching listings (exact):")
	city := strings.Index(output.Context, "In Hyderabad: 34 listings")
	category := strings.Index(output.Context, "Venues overall: 23 listings")

	require.GreaterOrEqual(t, platform, 0)
	require.Greater(t, results, platform)
	require.Greater(t, city, results)
	require.Greater(t, category, city)
	assert.Contains(t, output.Context, "🏛️ Venues")
	assert.Contains(t, output.Context, "average rating 4.3")
	assert.Contains(t, output.Context, "₹1.5L-4L")
}

func TestExecute_ResultsSectionGated(t *testing.T) {
	h := newHandler(t, &statsStore{})

	output, err := h.Execute(context.Background(), &Input{
		Intents:  []models.IntentTag{models.IntentGeneral},
		Listings: []catalog.Listing{sampleListing()},
		Tier:     "exact",
	})

	require.NoError(t, err)
	assert.NotContains(t, output.Context, "Matching listings")
	assert.NotContains(t, output.Context, "Grand Palace")
}

func TestExecute_RelatedTierLabel(t *testing.T) {
	h := newHandler(t, &statsStore{})

	output, err := h.Execute(context.Background(), &Input{
		Intents:  []models.IntentTag{models.IntentVenueSearch},
		Listings: []catalog.Listing{sampleListing()},
		Tier:     "related",
	})

	require.NoError(t, err)
	assert.Contains(t, output.Context, "Related listings:")
	assert.NotContains(t, output.Context, "(exact)")
}

func TestExecute_NoMatchesNotice(t *testing.T) {
	h := newHandler(t, &statsStore{})

	output, err := h.Execute(context.Background(), &Input{
		Intents: []models.IntentTag{models.IntentVenueSearch},
		Tier:    "related",
	})

	require.NoError(t, err)
	assert.Contains(t, output.Context, "No matching listings found")
}

func TestExecute_ExplainerForAboutIntent(t *testing.T) {
	h := newHandler(t, &statsStore{})

	output, err := h.Execute(context.Background(), &Input{
		Intents: []models.IntentTag{models.IntentAbout},
	})

	require.NoError(t, err)
	assert.Contains(t, output.Context, "About Shubharambh")
	assert.NotContains(t, output.Context, "listings found")
}

func TestExecute_DegradedInputSkipsLiveData(t *testing.T) {
	h := newHandler(t, &statsStore{})

	output, err := h.Execute(context.Background(), &Input{
		Intents:  []models.IntentTag{models.IntentVenueSearch, models.IntentBooking},
		Entities: models.ExtractedEntities{Category: "venues"},
		Degraded: true,
	})

	require.NoError(t, err)
	assert.True(t, output.Degraded)
	assert.True(t, strings.HasPrefix(output.Context, DegradedNotice))
	assert.NotContains(t, output.Context, "Shubharambh catalog:")
	assert.NotContains(t, output.Context, "No matching listings")
	assert.Contains(t, output.Context, "About Shubharambh", "static explainer survives degradation")
}

func TestExecute_StatsFailureDegrades(t *testing.T) {
	h := newHandler(t, &statsStore{failPlatform: true})

	output, err := h.Execute(context.Background(), &Input{
		Intents:  []models.IntentTag{models.IntentVenueSearch},
		Listings: []catalog.Listing{sampleListing()},
		Tier:     "exact",
	})

	require.NoError(t, err, "stats failures never abort the response")
	assert.True(t, output.Degraded)
	assert.Contains(t, output.Context, DegradedNotice)
	assert.Contains(t, output.Context, "Grand Palace", "retrieved rows still rendered")
}

func TestExecute_CityStatsFailureDegrades(t *testing.T) {
	h := newHandler(t, &statsStore{failCity: true})

	output, err := h.Execute(context.Background(), &Input{
		Intents:  []models.IntentTag{models.IntentLocation},
		Entities: models.ExtractedEntities{City: "hyderabad"},
	})

	require.NoError(t, err)
	assert.True(t, output.Degraded)
	assert.Contains(t, output.Context, "Shubharambh catalog:", "earlier sections kept")
	assert.NotContains(t, output.Context, "In Hyderabad:")
}

func TestExecute_BlockNeverEmpty(t *testing.T) {
	h := newHandler(t, &statsStore{failPlatform: true, failCity: true, failCategory: true})

	output, err := h.Execute(context.Background(), &Input{
		Intents: []models.IntentTag{models.IntentGeneral},
	})

	require.NoError(t, err)
	assert.Equal(t, DegradedNotice, output.Context)
}
