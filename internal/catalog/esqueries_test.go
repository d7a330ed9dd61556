// internal/catalog/esqueries_test.go
package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func filtersOf(t *testing.T, body map[string]interface{}) []interface{} {
	t.Helper()
	query, ok := body["query"].(map[string]interface{})
	require.True(t, ok)
	boolQuery, ok := query["bool"].(map[string]interface{})
	require.True(t, ok)
	filters, ok := boolQuery["filter"].([]interface{})
	require.True(t, ok)
	return filters
}

func TestBuildListingSearchBody_VisibilityAlwaysFirst(t *testing.T) {
	body := BuildListingSearchBody(ListingQuery{Limit: 5})
	filters := filtersOf(t, body)

	require.Len(t, filters, 2)
	assert.Equal(t, map[string]interface{}{
		"term": map[string]interface{}{"status": "approved"},
	}, filters[0])
	assert.Equal(t, map[string]interface{}{
		"term": map[string]interface{}{"available": true},
	}, filters[1])
	assert.Equal(t, 5, body["size"])
}

func TestBuildListingSearchBody_AllConstraints(t *testing.T) {
	body := BuildListingSearchBody(ListingQuery{
		Category:    "venues",
		City:        "hyderabad",
		EventType:   "wedding",
		MinCapacity: 250,
		BudgetMin:   100000,
		BudgetMax:   500000,
		Limit:       8,
	})
	filters := filtersOf(t, body)
	require.Len(t, filters, 8)

	assert.Equal(t, map[string]interface{}{
		"term": map[string]interface{}{"category": "venues"},
	}, filters[2])
	assert.Equal(t, map[string]interface{}{
		"wildcard": map[string]interface{}{
			"city": map[string]interface{}{
				"value":            "*hyderabad*",
				"case_insensitive": true,
			},
		},
	}, filters[3])
	assert.Equal(t, map[string]interface{}{
		"term": map[string]interface{}{"event_types": "wedding"},
	}, filters[4])
	assert.Equal(t, map[string]interface{}{
		"range": map[string]interface{}{
			"capacity_max": map[string]interface{}{"gte": 250},
		},
	}, filters[5])
	assert.Equal(t, map[string]interface{}{
		"range": map[string]interface{}{
			"price_max": map[string]interface{}{"gte": 100000},
		},
	}, filters[6])
	assert.Equal(t, map[string]interface{}{
		"range": map[string]interface{}{
			"price_min": map[string]interface{}{"lte": 500000},
		},
	}, filters[7])
}

func TestBuildListingSearchBody_SortOrder(t *testing.T) {
	body := BuildListingSearchBody(ListingQuery{Limit: 8})

	sort, ok := body["sort"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, sort, 2)
	assert.Equal(t, "desc", sort[0]["rating"])
	assert.Equal(t, "desc", sort[1]["review_count"])
}

func TestBuildCategoryStatsBody(t *testing.T) {
	body := BuildCategoryStatsBody("catering")
	filters := filtersOf(t, body)

	require.Len(t, filters, 3)
	assert.Equal(t, map[string]interface{}{
		"term": map[string]interface{}{"category": "catering"},
	}, filters[2])
	assert.Equal(t, 0, body["size"])

	aggs, ok := body["aggs"].(map[string]interface{})
	require.True(t, ok)
	rated, ok := aggs["rated"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, rated, "filter")
	assert.Contains(t, aggs, "avg_price_min")
	assert.Contains(t, aggs, "avg_price_max")
}

func TestBuildCityStatsBody_UsesSubstringWildcard(t *testing.T) {
	body := BuildCityStatsBody("pune")
	filters := filtersOf(t, body)

	require.Len(t, filters, 3)
	wildcard := filters[2].(map[string]interface{})["wildcard"].(map[string]interface{})
	city := wildcard["city"].(map[string]interface{})
	assert.Equal(t, "*pune*", city["value"])
	assert.Equal(t, true, city["case_insensitive"])
}

func TestBuildPlatformStatsBody(t *testing.T) {
	body := BuildPlatformStatsBody()

	assert.Equal(t, 0, body["size"])
	assert.Equal(t, true, body["track_total_hits"])

	aggs, ok := body["aggs"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, aggs, "vendors")
	assert.Contains(t, aggs, "categories")
}
