// internal/models/intent.go
package models

// IntentTag is one label from the fixed intent taxonomy. A message may
// carry several tags; a message matching nothing carries exactly
// IntentGeneral.
type IntentTag string

const (
	IntentVenueSearch IntentTag = "venue_search"
	IntentPricing     IntentTag = "pricing"
	IntentLocation    IntentTag = "location"
	IntentCategory    IntentTag = "category"
	IntentEventType   IntentTag = "event_type"
	IntentCapacity    IntentTag = "capacity"
	IntentBooking     IntentTag = "booking"
	IntentComparison  IntentTag = "comparison"
	IntentAmenities   IntentTag = "amenities"
	IntentAbout       IntentTag = "about"
	IntentGeneral     IntentTag = "general"
)

// HasIntent reports whether tag is present in tags.
func HasIntent(tags []IntentTag, tag IntentTag) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
