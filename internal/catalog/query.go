// internal/catalog/query.go
package catalog

// ListingQuery is a structured catalog search. Zero values mean "no
// constraint". All implementations add the visibility filter
// (status approved, available true) and sort by rating then review
// count, both descending, regardless of the fields set here.
type ListingQuery struct {
	// Category is an exact slug match.
	Category string `json:"category,omitempty"`
	// City is a case-insensitive substring match so that a canonical
	// city name also matches rows stored with a locality suffix.
	City string `json:"city,omitempty"`
	// EventType must be a member of the listing's event type list.
	EventType string `json:"eventType,omitempty"`
	// MinCapacity keeps listings whose capacity ceiling reaches it.
	MinCapacity int `json:"minCapacity,omitempty"`
	// BudgetMin keeps listings whose price ceiling reaches it.
	BudgetMin int `json:"budgetMin,omitempty"`
	// BudgetMax keeps listings whose price floor does not exceed it.
	BudgetMax int `json:"budgetMax,omitempty"`
	// Limit caps the result rows; implementations require it > 0.
	Limit int `json:"limit"`
}

// IsBare reports whether the query carries no field constraints, i.e.
// it is the visibility-only fallback.
func (q ListingQuery) IsBare() bool {
	return q.Category == "" && q.City == "" && q.EventType == "" &&
		q.MinCapacity == 0 && q.BudgetMin == 0 && q.BudgetMax == 0
}
