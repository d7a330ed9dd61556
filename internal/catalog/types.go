// internal/catalog/types.go
package catalog

import "shubharambh-workers/internal/models"

const (
	StatusApproved = "approved"
)

// Listing is a vendor listing as stored in the catalog. Only rows with
// Status == StatusApproved and Available == true are ever surfaced to
// the assistant; the store implementations enforce that filter on every
// query.
type Listing struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    string       `json:"category"`
	Location    string       `json:"location"`
	City        string       `json:"city"`
	EventTypes  []string     `json:"eventTypes"`
	Capacity    models.Range `json:"capacity"`
	PriceRange  models.Range `json:"priceRange"`
	Rating      float64      `json:"rating"`
	ReviewCount int          `json:"reviewCount"`
	Status      string       `json:"status"`
	Available   bool         `json:"available"`
	Highlight   string       `json:"highlight,omitempty"`
}

// Category is one entry of the fixed service taxonomy.
type Category struct {
	Slug  string `json:"slug"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count,omitempty"`
}

// PlatformStats summarizes the visible catalog as a whole.
type PlatformStats struct {
	ListingCount  int `json:"listingCount"`
	VendorCount   int `json:"vendorCount"`
	CategoryCount int `json:"categoryCount"`
}

// CategoryStats summarizes the visible listings of one category.
// AvgRating is averaged over rated listings only (rating > 0).
type CategoryStats struct {
	Category     string  `json:"category"`
	ListingCount int     `json:"listingCount"`
	AvgRating    float64 `json:"avgRating"`
	AvgPriceMin  int     `json:"avgPriceMin"`
	AvgPriceMax  int     `json:"avgPriceMax"`
}

// CityStats summarizes the visible listings of one city.
type CityStats struct {
	City         string   `json:"city"`
	ListingCount int      `json:"listingCount"`
	Categories   []string `json:"categories"`
}
