// internal/workers/assistant/build-context/format.go
package buildcontext

import (
	"fmt"
	"strings"

	"shubharambh-workers/internal/catalog"
)

// FormatAmount renders a rupee amount in lakh or thousand units:
// 450000 -> "4.5L", 200000 -> "2L", 50000 -> "50K", 800 -> "800".
func FormatAmount(amount int) string {
	switch {
	case amount >= 100000:
		v := float64(amount) / 100000
		s := fmt.Sprintf("%.1f", v)
		s = strings.TrimSuffix(s, ".0")
		return s + "L"
	case amount >= 1000:
		return fmt.Sprintf("%dK", amount/1000)
	default:
		return fmt.Sprintf("%d", amount)
	}
}

// FormatPriceRange renders "₹2L-4.5L" style ranges; a zero range
// renders as "price on request".
func FormatPriceRange(r catalog.Listing) string {
	min, max := r.PriceRange.Min, r.PriceRange.Max
	if min == 0 && max == 0 {
		return "price on request"
	}
	return fmt.Sprintf("₹%s-%s", FormatAmount(min), FormatAmount(max))
}

// FormatRating renders "4.6 ⭐ (38 reviews)", with "New listing" as the
// sentinel for listings that have never been rated.
func FormatRating(rating float64, reviews int) string {
	if rating == 0 {
		return "New listing"
	}
	return fmt.Sprintf("%.1f ⭐ (%d reviews)", rating, reviews)
}

// FormatListingLine renders one catalog row in the fixed field order
// the generator is prompted to rely on.
func FormatListingLine(l catalog.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s — %s, %s", l.ID, l.Name, l.Location, l.City)
	fmt.Fprintf(&b, " | %s", FormatPriceRange(l))
	fmt.Fprintf(&b, " | %d-%d guests", l.Capacity.Min, l.Capacity.Max)
	fmt.Fprintf(&b, " | %s", FormatRating(l.Rating, l.ReviewCount))
	fmt.Fprintf(&b, " | %s", l.Category)
	if l.Highlight != "" {
		fmt.Fprintf(&b, " | %s", l.Highlight)
	}
	return b.String()
}
