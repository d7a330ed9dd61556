// internal/workers/assistant/parse-user-intent/entities.go
package parseuserintent

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"shubharambh-workers/internal/models"
)

// All extraction tables are ordered slices, never maps: the first
// matching entry wins, and that ordering is part of the contract.
// Changing it changes observable behavior.

type cityEntry struct {
	keyword string
	city    string
}

// majorCities is scanned before subAreas; within each table the first
// substring hit wins.
var majorCities = []cityEntry{
	{"hyderabad", "hyderabad"},
	{"mumbai", "mumbai"},
	{"delhi", "delhi"},
	{"bangalore", "bangalore"},
	{"bengaluru", "bangalore"},
	{"chennai", "chennai"},
	{"pune", "pune"},
	{"kolkata", "kolkata"},
	{"jaipur", "jaipur"},
	{"goa", "goa"},
	{"ahmedabad", "ahmedabad"},
}

// subAreas maps well-known localities to their parent city. Checked
// only when no major city name matched.
var subAreas = []cityEntry{
	{"gachibowli", "hyderabad"},
	{"jubilee hills", "hyderabad"},
	{"banjara hills", "hyderabad"},
	{"hitech city", "hyderabad"},
	{"madhapur", "hyderabad"},
	{"kukatpally", "hyderabad"},
	{"kondapur", "hyderabad"},
	{"secunderabad", "hyderabad"},
	{"andheri", "mumbai"},
	{"bandra", "mumbai"},
	{"juhu", "mumbai"},
	{"powai", "mumbai"},
	{"whitefield", "bangalore"},
	{"koramangala", "bangalore"},
	{"indiranagar", "bangalore"},
	{"electronic city", "bangalore"},
	{"dwarka", "delhi"},
	{"rohini", "delhi"},
	{"velachery", "chennai"},
	{"salt lake", "kolkata"},
	{"hinjewadi", "pune"},
	{"koregaon park", "pune"},
}

type keywordMapping struct {
	keyword string
	slug    string
}

// categoryTable resolves keyword overlap by position: "dance" (row for
// choreographers) sits before "music", which sits before "video".
var categoryTable = []keywordMapping{
	{"venue", "venues"},
	{"hall", "venues"},
	{"banquet", "venues"},
	{"lawn", "venues"},
	{"resort", "venues"},
	{"farmhouse", "venues"},
	{"photograph", "photography"},
	{"photo", "photography"},
	{"dj", "djs"},
	{"cater", "catering"},
	{"decor", "decorators"},
	{"makeup", "makeup"},
	{"mehendi", "mehendi"},
	{"mehndi", "mehendi"},
	{"henna", "mehendi"},
	{"choreograph", "choreographers"},
	{"dance", "choreographers"},
	{"band", "music"},
	{"orchestra", "music"},
	{"music", "music"},
	{"invitation", "invitations"},
	{"invite", "invitations"},
	{"card", "invitations"},
	{"video", "videography"},
	{"film", "videography"},
	{"cinemat", "videography"},
}

var eventTypeTable = []keywordMapping{
	{"wedding", "wedding"},
	{"marriage", "wedding"},
	{"shaadi", "wedding"},
	{"reception", "reception"},
	{"engagement", "engagement"},
	{"sangeet", "sangeet"},
	{"haldi", "haldi"},
	{"birthday", "birthday"},
	{"anniversary", "anniversary"},
	{"corporate", "corporate"},
	{"conference", "corporate"},
}

var (
	capacityPattern    = regexp.MustCompile(`(\d+)\s*(?:guests?|people|persons?|pax|seats?)`)
	budgetCeilPattern  = regexp.MustCompile(`(?:under|below|within|max|upto|up to)\s*(?:rs\.?\s*)?(\d+(?:\.\d+)?)\s*(?:lakhs?|lacs?)`)
	budgetRangePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:to|-)\s*(\d+(?:\.\d+)?)\s*(?:lakhs?|lacs?)`)
)

const lakh = 100000

// ExtractEntities maps a raw message to structured optional fields. It
// never fails: a missing signal is an absent field, not an error, and
// the function is pure so repeated calls return identical results.
func ExtractEntities(text string) models.ExtractedEntities {
	lower := strings.ToLower(text)
	return models.ExtractedEntities{
		City:         extractCity(lower),
		Category:     extractCategory(lower),
		EventType:    extractEventType(lower),
		CapacityHint: extractCapacityHint(lower),
		BudgetHint:   extractBudgetHint(lower),
	}
}

func extractCity(lower string) string {
	for _, entry := range majorCities {
		if strings.Contains(lower, entry.keyword) {
			return entry.city
		}
	}
	for _, entry := range subAreas {
		if strings.Contains(lower, entry.keyword) {
			return entry.city
		}
	}
	return ""
}

func extractCategory(lower string) string {
	for _, entry := range categoryTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.slug
		}
	}
	return ""
}

func extractEventType(lower string) string {
	for _, entry := range eventTypeTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.slug
		}
	}
	return ""
}

// extractCapacityHint converts "300 guests" into the window
// [n-50, n+100] floored at 1. Qualitative sizes map to fixed buckets
// and only apply when no explicit number was given.
func extractCapacityHint(lower string) *models.Range {
	if m := capacityPattern.FindStringSubmatch(lower); m != nil {
		n, err := strconv.Atoi(m[1])
		if err == nil && n > 0 {
			min := n - 50
			if min < 1 {
				min = 1
			}
			return &models.Range{Min: min, Max: n + 100}
		}
	}

	switch {
	case strings.Contains(lower, "small") || strings.Contains(lower, "intimate"):
		return &models.Range{Min: 1, Max: 100}
	case strings.Contains(lower, "medium"):
		return &models.Range{Min: 100, Max: 300}
	case strings.Contains(lower, "large") || strings.Contains(lower, "grand") || strings.Contains(lower, "big"):
		return &models.Range{Min: 300, Max: 2000}
	}
	return nil
}

// extractBudgetHint recognizes "under 5 lakh" and "2 to 4 lakh" style
// amounts. Numeric patterns always win over qualitative words.
func extractBudgetHint(lower string) *models.Range {
	if m := budgetCeilPattern.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.ParseFloat(m[1], 64); err == nil && n > 0 {
			return &models.Range{Min: 0, Max: lakhs(n)}
		}
	}
	if m := budgetRangePattern.FindStringSubmatch(lower); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo == nil && errHi == nil && lo > 0 && hi >= lo {
			return &models.Range{Min: lakhs(lo), Max: lakhs(hi)}
		}
	}

	switch {
	case strings.Contains(lower, "cheap") || strings.Contains(lower, "affordable") || strings.Contains(lower, "budget"):
		return &models.Range{Min: 0, Max: 300000}
	case strings.Contains(lower, "premium") || strings.Contains(lower, "luxury") || strings.Contains(lower, "expensive"):
		return &models.Range{Min: 500000, Max: 10000000}
	}
	return nil
}

// lakhs converts a lakh amount to rupees. Rounded, not truncated:
// 1.3 lakh is 130000, even though 1.3*100000 is not exactly
// representable in a float64.
func lakhs(n float64) int {
	return int(math.Round(n * lakh))
}
