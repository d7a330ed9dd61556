// internal/workers/assistant/build-context/format_test.go
package buildcontext

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shubharambh-workers/internal/catalog"
	"shubharambh-workers/internal/models"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		amount int
		want   string
	}{
		{450000, "4.5L"},
		{200000, "2L"},
		{100000, "1L"},
		{1250000, "12.5L"},
		{50000, "50K"},
		{1000, "1K"},
		{800, "800"},
		{0, "0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.amount), "amount %d", tt.amount)
	}
}

func TestFormatRating(t *testing.T) {
	assert.Equal(t, "4.6 ⭐ (38 reviews)", FormatRating(4.6, 38))
	assert.Equal(t, "5.0 ⭐ (1 reviews)", FormatRating(5, 1))
	assert.Equal(t, "New listing", FormatRating(0, 0))
}

func TestFormatListingLine(t *testing.T) {
	line := FormatListingLine(catalog.Listing{
		ID:          "v42",
		Name:        "Grand Palace",
		Category:    "venues",
		Location:    "Gachibowli",
		City:        "Hyderabad",
		Capacity:    models.Range{Min: 100, Max: 500},
		PriceRange:  models.Range{Min: 200000, Max: 450000},
		Rating:      4.6,
		ReviewCount: 38,
		Highlight:   "Poolside lawn",
	})

	assert.Equal(t,
		"[v42] Grand Palace — Gachibowli, Hyderabad | ₹2L-4.5L | 100-500 guests | 4.6 ⭐ (38 reviews) | venues | Poolside lawn",
		line)
}

func TestFormatListingLine_NewListingNoHighlight(t *testing.T) {
	line := FormatListingLine(catalog.Listing{
		ID:       "p7",
		Name:     "Lens & Light",
		Category: "photography",
		Location: "Bandra",
		City:     "Mumbai",
		Capacity: models.Range{Min: 1, Max: 1},
	})

	assert.Contains(t, line, "New listing")
	assert.Contains(t, line, "price on request")
	assert.NotContains(t, line, "⭐")
}
