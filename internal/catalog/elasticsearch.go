// internal/catalog/elasticsearch.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const DefaultListingsIndex = "listings"

// ElasticsearchStore implements Store against a listings index.
type ElasticsearchStore struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchStore(client *elasticsearch.Client, index string) *ElasticsearchStore {
	if index == "" {
		index = DefaultListingsIndex
	}
	return &ElasticsearchStore{client: client, index: index}
}

// esListing mirrors the index mapping, which uses snake_case fields.
type esListing struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	City        string   `json:"city"`
	EventTypes  []string `json:"event_types"`
	CapacityMin int      `json:"capacity_min"`
	CapacityMax int      `json:"capacity_max"`
	PriceMin    int      `json:"price_min"`
	PriceMax    int      `json:"price_max"`
	Rating      float64  `json:"rating"`
	ReviewCount int      `json:"review_count"`
	Status      string   `json:"status"`
	Available   bool     `json:"available"`
	Highlight   string   `json:"highlight"`
}

func (d esListing) toListing() Listing {
	l := Listing{
		ID:          d.ID,
		Name:        d.Name,
		Category:    d.Category,
		Location:    d.Location,
		City:        d.City,
		EventTypes:  d.EventTypes,
		Rating:      d.Rating,
		ReviewCount: d.ReviewCount,
		Status:      d.Status,
		Available:   d.Available,
		Highlight:   d.Highlight,
	}
	l.Capacity.Min = d.CapacityMin
	l.Capacity.Max = d.CapacityMax
	l.PriceRange.Min = d.PriceMin
	l.PriceRange.Max = d.PriceMax
	return l
}

type esSearchResponse struct {
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			Source esListing `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations struct {
		Vendors struct {
			Value float64 `json:"value"`
		} `json:"vendors"`
		Categories struct {
			Value   float64 `json:"value"`
			Buckets []struct {
				Key      string `json:"key"`
				DocCount int    `json:"doc_count"`
			} `json:"buckets"`
		} `json:"categories"`
		Rated struct {
			AvgRating struct {
				Value *float64 `json:"value"`
			} `json:"avg_rating"`
		} `json:"rated"`
		AvgPriceMin struct {
			Value *float64 `json:"value"`
		} `json:"avg_price_min"`
		AvgPriceMax struct {
			Value *float64 `json:"value"`
		} `json:"avg_price_max"`
	} `json:"aggregations"`
}

func (s *ElasticsearchStore) search(ctx context.Context, body map[string]interface{}) (*esSearchResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal query: %v", ErrStoreUnavailable, err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  strings.NewReader(string(payload)),
	}
	res, err := req.Do(ctx, s.client)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", ErrStoreUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: search failed: %s", ErrStoreUnavailable, res.Status())
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrStoreUnavailable, err)
	}
	return &parsed, nil
}

func (s *ElasticsearchStore) FindListings(ctx context.Context, query ListingQuery) ([]Listing, error) {
	if query.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidQuery)
	}

	res, err := s.search(ctx, BuildListingSearchBody(query))
	if err != nil {
		return nil, err
	}

	var listings []Listing
	for _, hit := range res.Hits.Hits {
		listings = append(listings, hit.Source.toListing())
	}
	return listings, nil
}

func (s *ElasticsearchStore) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	res, err := s.search(ctx, BuildPlatformStatsBody())
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		ListingCount:  res.Hits.Total.Value,
		VendorCount:   int(res.Aggregations.Vendors.Value),
		CategoryCount: int(res.Aggregations.Categories.Value),
	}, nil
}

func (s *ElasticsearchStore) CategoryStats(ctx context.Context, slug string) (*CategoryStats, error) {
	res, err := s.search(ctx, BuildCategoryStatsBody(slug))
	if err != nil {
		return nil, err
	}

	stats := &CategoryStats{
		Category:     slug,
		ListingCount: res.Hits.Total.Value,
	}
	if v := res.Aggregations.Rated.AvgRating.Value; v != nil {
		stats.AvgRating = *v
	}
	if v := res.Aggregations.AvgPriceMin.Value; v != nil {
		stats.AvgPriceMin = int(*v)
	}
	if v := res.Aggregations.AvgPriceMax.Value; v != nil {
		stats.AvgPriceMax = int(*v)
	}
	return stats, nil
}

func (s *ElasticsearchStore) CityStats(ctx context.Context, city string) (*CityStats, error) {
	res, err := s.search(ctx, BuildCityStatsBody(city))
	if err != nil {
		return nil, err
	}

	stats := &CityStats{
		City:         city,
		ListingCount: res.Hits.Total.Value,
	}
	for _, bucket := range res.Aggregations.Categories.Buckets {
		stats.Categories = append(stats.Categories, bucket.Key)
	}
	return stats, nil
}

func (s *ElasticsearchStore) Categories(ctx context.Context) ([]Category, error) {
	res, err := s.search(ctx, BuildCategoriesBody())
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, bucket := range res.Aggregations.Categories.Buckets {
		counts[bucket.Key] = bucket.DocCount
	}

	categories := make([]Category, len(Taxonomy))
	for i, c := range Taxonomy {
		c.Count = counts[c.Slug]
		categories[i] = c
	}
	return categories, nil
}
