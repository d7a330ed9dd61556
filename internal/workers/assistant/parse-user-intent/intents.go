// internal/workers/assistant/parse-user-intent/intents.go
package parseuserintent

import (
	"strings"

	"shubharambh-workers/internal/models"
)

type intentRule struct {
	tag      models.IntentTag
	keywords []string
}

// intentRules is evaluated in order and every matching tag is kept, so
// a message can carry several intents at once. Keywords are substring
// matches on the lower-cased text; lists deliberately avoid words that
// hide inside unrelated ones ("rate" inside "decorate").
var intentRules = []intentRule{
	{models.IntentVenueSearch, []string{
		"venue", "hall", "banquet", "lawn", "resort",
		"looking for", "find", "search", "show me", "options",
	}},
	{models.IntentPricing, []string{
		"price", "cost", "budget", "charge", "fee", "lakh",
		"expensive", "cheap", "afford",
	}},
	{models.IntentLocation, []string{
		"location", "near", "nearby", "area", "where",
	}},
	{models.IntentCapacity, []string{
		"guest", "people", "capacity", "accommodate", "pax", "seat",
	}},
	{models.IntentBooking, []string{
		"book", "reserve", "reservation", "appointment",
		"enquiry", "inquiry", "contact",
	}},
	{models.IntentComparison, []string{
		"best", "top", "compare", "vs", "versus",
		"recommend", "suggest", "better",
	}},
	{models.IntentAmenities, []string{
		"parking", "amenities", "facilities", "wifi", "rooms", "stage",
	}},
	{models.IntentAbout, []string{
		"how does", "shubharambh", "about", "platform", "how it works",
	}},
}

// DetectIntents returns every intent whose keyword list hits the text.
// The category, event_type and location tags reuse the extraction
// tables so the classifier and extractor cannot drift apart. An empty
// result collapses to exactly {general}.
func DetectIntents(text string) []models.IntentTag {
	lower := strings.ToLower(text)
	var tags []models.IntentTag

	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				tags = append(tags, rule.tag)
				break
			}
		}
	}

	if extractCategory(lower) != "" {
		tags = append(tags, models.IntentCategory)
	}
	if extractEventType(lower) != "" {
		tags = append(tags, models.IntentEventType)
	}
	if !models.HasIntent(tags, models.IntentLocation) && extractCity(lower) != "" {
		tags = append(tags, models.IntentLocation)
	}

	if len(tags) == 0 {
		return []models.IntentTag{models.IntentGeneral}
	}
	return tags
}
