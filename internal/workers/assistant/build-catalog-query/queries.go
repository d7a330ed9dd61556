// internal/workers/assistant/build-catalog-query/queries.go
package buildcatalogquery

import (
	"shubharambh-workers/internal/catalog"
	"shubharambh-workers/internal/models"
)

// BuildPrimaryQuery maps every extracted entity onto a catalog filter.
// A capacity hint of [250,400] means "at least 250 seats", so only the
// lower bound becomes a constraint; venues that hold more are still a
// match. Budget bounds translate directly.
func BuildPrimaryQuery(entities models.ExtractedEntities, limit int) catalog.ListingQuery {
	q := catalog.ListingQuery{
		Category:  entities.Category,
		City:      entities.City,
		EventType: entities.EventType,
		Limit:     limit,
	}
	if entities.CapacityHint != nil {
		q.MinCapacity = entities.CapacityHint.Min
	}
	if entities.BudgetHint != nil {
		q.BudgetMin = entities.BudgetHint.Min
		q.BudgetMax = entities.BudgetHint.Max
	}
	return q
}

// BuildBroadenedQuery keeps the single strongest signal and drops the
// rest: category if present, otherwise city, otherwise no filter at
// all. It never carries capacity or budget bounds, so it can only
// return a superset of what the primary query matched.
func BuildBroadenedQuery(entities models.ExtractedEntities, limit int) catalog.ListingQuery {
	q := catalog.ListingQuery{Limit: limit}
	switch {
	case entities.Category != "":
		q.Category = entities.Category
	case entities.City != "":
		q.City = entities.City
	}
	return q
}
