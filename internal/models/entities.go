// internal/models/entities.go
package models

// Range is an inclusive numeric window (guest counts, rupee amounts).
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// ExtractedEntities holds the structured fields pulled from a single
// user message. Every field is independently optional: an empty string
// or nil pointer means the signal was absent, never that extraction
// failed.
type ExtractedEntities struct {
	City         string `json:"city,omitempty"`
	Category     string `json:"category,omitempty"`
	EventType    string `json:"eventType,omitempty"`
	CapacityHint *Range `json:"capacityHint,omitempty"`
	BudgetHint   *Range `json:"budgetHint,omitempty"`
}

// IsEmpty reports whether no entity was extracted at all.
func (e ExtractedEntities) IsEmpty() bool {
	return e.City == "" && e.Category == "" && e.EventType == "" &&
		e.CapacityHint == nil && e.BudgetHint == nil
}
