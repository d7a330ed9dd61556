// internal/catalog/esqueries.go
package catalog

import "fmt"

// The search-body builders are pure functions so the clause layout can
// be tested without a live cluster.

// visibilityClauses are prepended to every query body.
func visibilityClauses() []interface{} {
	return []interface{}{
		map[string]interface{}{
			"term": map[string]interface{}{"status": StatusApproved},
		},
		map[string]interface{}{
			"term": map[string]interface{}{"available": true},
		},
	}
}

// BuildListingSearchBody translates a ListingQuery into an
// Elasticsearch search body. Clause order mirrors the SQL backend:
// visibility, category, city, event type, capacity, budget.
func BuildListingSearchBody(query ListingQuery) map[string]interface{} {
	filterClauses := visibilityClauses()

	if query.Category != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"category": query.Category},
		})
	}
	if query.City != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"wildcard": map[string]interface{}{
				"city": map[string]interface{}{
					"value":            fmt.Sprintf("*%s*", query.City),
					"case_insensitive": true,
				},
			},
		})
	}
	if query.EventType != "" {
		filterClauses = append(filterClauses, map[string]interface{}{
			"term": map[string]interface{}{"event_types": query.EventType},
		})
	}
	if query.MinCapacity > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"capacity_max": map[string]interface{}{"gte": query.MinCapacity},
			},
		})
	}
	if query.BudgetMin > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"price_max": map[string]interface{}{"gte": query.BudgetMin},
			},
		})
	}
	if query.BudgetMax > 0 {
		filterClauses = append(filterClauses, map[string]interface{}{
			"range": map[string]interface{}{
				"price_min": map[string]interface{}{"lte": query.BudgetMax},
			},
		})
	}

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
		"sort": []map[string]interface{}{
			{"rating": "desc"},
			{"review_count": "desc"},
		},
		"size": query.Limit,
	}
}

// BuildPlatformStatsBody counts visible listings and distinct vendors
// and categories.
func BuildPlatformStatsBody() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": visibilityClauses(),
			},
		},
		"size":             0,
		"track_total_hits": true,
		"aggs": map[string]interface{}{
			"vendors": map[string]interface{}{
				"cardinality": map[string]interface{}{"field": "vendor_id"},
			},
			"categories": map[string]interface{}{
				"cardinality": map[string]interface{}{"field": "category"},
			},
		},
	}
}

// BuildCategoryStatsBody aggregates one category. Rating averages run
// over rated listings only.
func BuildCategoryStatsBody(slug string) map[string]interface{} {
	filterClauses := append(visibilityClauses(), map[string]interface{}{
		"term": map[string]interface{}{"category": slug},
	})

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
		"size":             0,
		"track_total_hits": true,
		"aggs": map[string]interface{}{
			"rated": map[string]interface{}{
				"filter": map[string]interface{}{
					"range": map[string]interface{}{
						"rating": map[string]interface{}{"gt": 0},
					},
				},
				"aggs": map[string]interface{}{
					"avg_rating": map[string]interface{}{
						"avg": map[string]interface{}{"field": "rating"},
					},
				},
			},
			"avg_price_min": map[string]interface{}{
				"avg": map[string]interface{}{"field": "price_min"},
			},
			"avg_price_max": map[string]interface{}{
				"avg": map[string]interface{}{"field": "price_max"},
			},
		},
	}
}

// BuildCityStatsBody aggregates one city with the same substring
// semantics as the SQL backend's ILIKE.
func BuildCityStatsBody(city string) map[string]interface{} {
	filterClauses := append(visibilityClauses(), map[string]interface{}{
		"wildcard": map[string]interface{}{
			"city": map[string]interface{}{
				"value":            fmt.Sprintf("*%s*", city),
				"case_insensitive": true,
			},
		},
	})

	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filterClauses,
			},
		},
		"size":             0,
		"track_total_hits": true,
		"aggs": map[string]interface{}{
			"categories": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "category",
					"size":  len(Taxonomy),
				},
			},
		},
	}
}

// BuildCategoriesBody counts visible listings per category.
func BuildCategoriesBody() map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": visibilityClauses(),
			},
		},
		"size": 0,
		"aggs": map[string]interface{}{
			"categories": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "category",
					"size":  len(Taxonomy),
				},
			},
		},
	}
}
