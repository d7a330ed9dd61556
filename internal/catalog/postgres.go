// internal/catalog/postgres.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

const listingColumns = `id, name, category, location, city, event_types,
	       capacity_min, capacity_max, price_min, price_max,
	       rating, review_count, status, available, highlight`

// PostgresStore implements Store on top of the listings table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindListings(ctx context.Context, query ListingQuery) ([]Listing, error) {
	if query.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidQuery)
	}

	// Visibility filter first, then the optional constraints in a
	// fixed order so the generated SQL is deterministic.
	conditions := []string{"status = 'approved'", "available = TRUE"}
	args := []interface{}{}

	if query.Category != "" {
		args = append(args, query.Category)
		conditions = append(conditions, "category = $"+strconv.Itoa(len(args)))
	}
	if query.City != "" {
		args = append(args, "%"+query.City+"%")
		conditions = append(conditions, "city ILIKE $"+strconv.Itoa(len(args)))
	}
	if query.EventType != "" {
		args = append(args, query.EventType)
		conditions = append(conditions, "$"+strconv.Itoa(len(args))+" = ANY(event_types)")
	}
	if query.MinCapacity > 0 {
		args = append(args, query.MinCapacity)
		conditions = append(conditions, "capacity_max >= $"+strconv.Itoa(len(args)))
	}
	if query.BudgetMin > 0 {
		args = append(args, query.BudgetMin)
		conditions = append(conditions, "price_max >= $"+strconv.Itoa(len(args)))
	}
	if query.BudgetMax > 0 {
		args = append(args, query.BudgetMax)
		conditions = append(conditions, "price_min <= $"+strconv.Itoa(len(args)))
	}

	args = append(args, query.Limit)
	sqlQuery := `SELECT ` + listingColumns + `
	FROM listings
	WHERE ` + strings.Join(conditions, " AND ") + `
	ORDER BY rating DESC, review_count DESC
	LIMIT $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: find listings: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var listings []Listing
	for rows.Next() {
		var l Listing
		var highlight sql.NullString
		err := rows.Scan(
			&l.ID, &l.Name, &l.Category, &l.Location, &l.City,
			pq.Array(&l.EventTypes),
			&l.Capacity.Min, &l.Capacity.Max,
			&l.PriceRange.Min, &l.PriceRange.Max,
			&l.Rating, &l.ReviewCount, &l.Status, &l.Available,
			&highlight,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scan listing: %v", ErrStoreUnavailable, err)
		}
		l.Highlight = highlight.String
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: find listings: %v", ErrStoreUnavailable, err)
	}

	return listings, nil
}

func (s *PostgresStore) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	query := `SELECT COUNT(*), COUNT(DISTINCT vendor_id), COUNT(DISTINCT category)
	FROM listings
	WHERE status = 'approved' AND available = TRUE`

	var stats PlatformStats
	err := s.db.QueryRowContext(ctx, query).Scan(
		&stats.ListingCount, &stats.VendorCount, &stats.CategoryCount,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: platform stats: %v", ErrStoreUnavailable, err)
	}
	return &stats, nil
}

func (s *PostgresStore) CategoryStats(ctx context.Context, slug string) (*CategoryStats, error) {
	// Rating averages exclude unrated rows; price averages cover all
	// visible rows of the category.
	query := `SELECT COUNT(*),
	       COALESCE(AVG(rating) FILTER (WHERE rating > 0), 0),
	       COALESCE(AVG(price_min), 0),
	       COALESCE(AVG(price_max), 0)
	FROM listings
	WHERE status = 'approved' AND available = TRUE AND category = $1`

	stats := CategoryStats{Category: slug}
	var avgMin, avgMax float64
	err := s.db.QueryRowContext(ctx, query, slug).Scan(
		&stats.ListingCount, &stats.AvgRating, &avgMin, &avgMax,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: category stats: %v", ErrStoreUnavailable, err)
	}
	stats.AvgPriceMin = int(avgMin)
	stats.AvgPriceMax = int(avgMax)
	return &stats, nil
}

func (s *PostgresStore) CityStats(ctx context.Context, city string) (*CityStats, error) {
	query := `SELECT COUNT(*),
	       COALESCE(ARRAY_AGG(DISTINCT category) FILTER (WHERE category IS NOT NULL), '{}')
	FROM listings
	WHERE status = 'approved' AND available = TRUE AND city ILIKE $1`

	stats := CityStats{City: city}
	err := s.db.QueryRowContext(ctx, query, "%"+city+"%").Scan(
		&stats.ListingCount, pq.Array(&stats.Categories),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: city stats: %v", ErrStoreUnavailable, err)
	}
	return &stats, nil
}

func (s *PostgresStore) Categories(ctx context.Context) ([]Category, error) {
	query := `SELECT category, COUNT(*)
	FROM listings
	WHERE status = 'approved' AND available = TRUE
	GROUP BY category`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: categories: %v", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var slug string
		var count int
		if err := rows.Scan(&slug, &count); err != nil {
			return nil, fmt.Errorf("%w: categories: %v", ErrStoreUnavailable, err)
		}
		counts[slug] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: categories: %v", ErrStoreUnavailable, err)
	}

	// The fixed taxonomy drives order and display fields; the table
	// only contributes live counts.
	categories := make([]Category, len(Taxonomy))
	for i, c := range Taxonomy {
		c.Count = counts[c.Slug]
		categories[i] = c
	}
	return categories, nil
}
