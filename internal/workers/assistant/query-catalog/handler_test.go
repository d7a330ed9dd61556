// internal/workers/assistant/query-catalog/handler_test.go
package querycatalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shubharambh-workers/internal/catalog"
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

// stubStore answers FindListings from a script of per-call results and
// records every query it received.
type stubStore struct {
	results [][]catalog.Listing
	errs    []error
	queries []catalog.ListingQuery
}

func (s *stubStore) FindListings(_ context.Context, q catalog.ListingQuery) ([]catalog.Listing, error) {
	call := len(s.queries)
	s.queries = append(s.queries, q)
	var err error
	if call < len(s.errs) {
		err = s.errs[call]
	}
	var rows []catalog.Listing
	if call < len(s.results) {
		rows = s.results[call]
	}
	return rows, err
}

func (s *stubStore) PlatformStats(context.Context) (*catalog.PlatformStats, error) {
	return &catalog.PlatformStats{}, nil
}

func (s *stubStore) CategoryStats(context.Context, string) (*catalog.CategoryStats, error) {
	return &catalog.CategoryStats{}, nil
}

func (s *stubStore) CityStats(context.Context, string) (*catalog.CityStats, error) {
	return &catalog.CityStats{}, nil
}

func (s *stubStore) Categories(context.Context) ([]catalog.Category, error) {
	return nil, nil
}

func testInput() *Input {
	return &Input{
		Primary:   catalog.ListingQuery{Category: "venues", City: "hyderabad", Limit: 8},
		Broadened: catalog.ListingQuery{Category: "venues", Limit: 5},
	}
}

func TestExecute_PrimaryHitIsTerminal(t *testing.T) {
	store := &stubStore{
		results: [][]catalog.Listing{
			{{ID: "v1", Name: "Grand Palace"}},
		},
	}
	h := NewHandler(LoadConfig(), store, NewTestLogger(t))

	output, err := h.Execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, TierExact, output.Tier)
	assert.Len(t, output.Listings, 1)
	require.Len(t, store.queries, 1, "broadened query must not run after a primary hit")
	assert.Equal(t, "hyderabad", store.queries[0].City)
}

func TestExecute_EmptyPrimaryBroadensOnce(t *testing.T) {
	store := &stubStore{
		results: [][]catalog.Listing{
			nil,
			{{ID: "v2", Name: "Lotus Lawns"}, {ID: "v3", Name: "Pearl Banquets"}},
		},
	}
	h := NewHandler(LoadConfig(), store, NewTestLogger(t))

	output, err := h.Execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, TierRelated, output.Tier)
	assert.Len(t, output.Listings, 2)
	require.Len(t, store.queries, 2)
	assert.Empty(t, store.queries[1].City, "broadened query drops the city filter")
	assert.Equal(t, 5, store.queries[1].Limit)
}

func TestExecute_BothTiersEmpty(t *testing.T) {
	store := &stubStore{results: [][]catalog.Listing{nil, nil}}
	h := NewHandler(LoadConfig(), store, NewTestLogger(t))

	output, err := h.Execute(context.Background(), testInput())

	require.NoError(t, err)
	assert.Equal(t, TierRelated, output.Tier)
	assert.Empty(t, output.Listings)
	assert.Len(t, store.queries, 2, "broadened runs exactly once even when empty")
}

func TestExecute_PrimaryStoreError(t *testing.T) {
	store := &stubStore{errs: []error{catalog.ErrStoreUnavailable}}
	h := NewHandler(LoadConfig(), store, NewTestLogger(t))

	_, err := h.Execute(context.Background(), testInput())

	assert.ErrorIs(t, err, catalog.ErrStoreUnavailable)
	assert.Len(t, store.queries, 1, "no broadened attempt after a store error")
}

func TestExecute_BroadenedStoreError(t *testing.T) {
	store := &stubStore{
		results: [][]catalog.Listing{nil},
		errs:    []error{nil, catalog.ErrStoreUnavailable},
	}
	h := NewHandler(LoadConfig(), store, NewTestLogger(t))

	_, err := h.Execute(context.Background(), testInput())

	assert.ErrorIs(t, err, catalog.ErrStoreUnavailable)
}
