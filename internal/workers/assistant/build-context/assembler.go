// internal/workers/assistant/build-context/assembler.go
package buildcontext

import (
	"context"
	"fmt"
	"strings"

	"shubharambh-workers/internal/catalog"
	"shubharambh-workers/internal/models"
)

// DegradedNotice is the sentinel the generator sees instead of live
// catalog data. The assembled block is never empty: in the worst case
// it consists of this line alone.
const DegradedNotice = "Live catalog data is unavailable right now. Answer from general Shubharambh platform knowledge."

// platformExplainer is static text appended for booking/about intents.
// It carries no data-dependent content so it survives degradation.
const platformExplainer = `About Shubharambh: an event-services marketplace connecting customers with verified vendors for weddings and celebrations. Browse listings by category and city, compare prices and ratings, and send a booking enquiry directly from a listing page. Vendors respond with availability and a quote; there is no upfront payment on the platform.`

// Assembler builds the grounding context block handed to the
// generator. Every section that needs live data goes through the stats
// store; a failing call degrades that section instead of failing the
// request.
type Assembler struct {
	store  catalog.Store
	logger Logger
}

func NewAssembler(store catalog.Store, log Logger) *Assembler {
	return &Assembler{store: store, logger: log}
}

// Assemble renders the ordered context block: platform counts,
// category taxonomy, the results section when search-like intents or
// entities are present, then the optional city stats, category stats
// and static explainer sections. The returned degraded flag is true
// when any live-data section had to be dropped.
func (a *Assembler) Assemble(ctx context.Context, input *Input) (string, bool) {
	var sections []string
	degraded := input.Degraded

	if !degraded {
		if s, ok := a.platformSection(ctx); ok {
			sections = append(sections, s)
		} else {
			degraded = true
		}
	}

	if !input.Degraded && showResults(input) {
		sections = append(sections, resultsSection(input))
	}

	if !degraded && models.HasIntent(input.Intents, models.IntentLocation) && input.Entities.City != "" {
		if s, ok := a.citySection(ctx, input.Entities.City); ok {
			sections = append(sections, s)
		} else {
			degraded = true
		}
	}

	if !degraded && input.Entities.Category != "" {
		if s, ok := a.categorySection(ctx, input.Entities.Category); ok {
			sections = append(sections, s)
		} else {
			degraded = true
		}
	}

	if models.HasIntent(input.Intents, models.IntentBooking) || models.HasIntent(input.Intents, models.IntentAbout) {
		sections = append(sections, platformExplainer)
	}

	if degraded {
		sections = append([]string{DegradedNotice}, sections...)
	}

	return strings.Join(sections, "\n\n"), degraded
}

// platformSection leads the block with platform-wide counts and the
// category taxonomy with icons.
func (a *Assembler) platformSection(ctx context.Context) (string, bool) {
	stats, err := a.store.PlatformStats(ctx)
	if err != nil {
		a.logger.Error("platform stats unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false
	}
	cats, err := a.store.Categories(ctx)
	if err != nil {
		a.logger.Error("categories unavailable", map[string]interface{}{
			"error": err.Error(),
		})
		return "", false
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Shubharambh catalog: %d listings from %d vendors across %d categories.\n",
		stats.ListingCount, stats.VendorCount, stats.CategoryCount)
	b.WriteString("Categories: ")
	parts := make([]string, 0, len(cats))
	for _, c := range cats {
		parts = append(parts, fmt.Sprintf("%s %s", c.Icon, c.Name))
	}
	b.WriteString(strings.Join(parts, ", "))
	return b.String(), true
}

// showResults gates the results section on search-like intents or any
// extracted catalog entity.
func showResults(input *Input) bool {
	for _, tag := range []models.IntentTag{
		models.IntentVenueSearch, models.IntentPricing,
		models.IntentComparison, models.IntentAmenities,
	} {
		if models.HasIntent(input.Intents, tag) {
			return true
		}
	}
	e := input.Entities
	return e.Category != "" || e.City != "" || e.EventType != ""
}

func resultsSection(input *Input) string {
	if len(input.Listings) == 0 {
		return "No matching listings found in the catalog for this request."
	}

	header := "Related listings:"
	if input.Tier == "exact" {
		header = "Matching listings (exact):"
	}

	lines := make([]string, 0, len(input.Listings)+1)
	lines = append(lines, header)
	for _, l := range input.Listings {
		lines = append(lines, FormatListingLine(l))
	}
	return strings.Join(lines, "\n")
}

func (a *Assembler) citySection(ctx context.Context, city string) (string, bool) {
	stats, err := a.store.CityStats(ctx, city)
	if err != nil {
		a.logger.Error("city stats unavailable", map[string]interface{}{
			"city":  city,
			"error": err.Error(),
		})
		return "", false
	}
	return fmt.Sprintf("In %s: %d listings across these categories: %s.",
		titleCase(stats.City), stats.ListingCount, strings.Join(stats.Categories, ", ")), true
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (a *Assembler) categorySection(ctx context.Context, slug string) (string, bool) {
	stats, err := a.store.CategoryStats(ctx, slug)
	if err != nil {
		a.logger.Error("category stats unavailable", map[string]interface{}{
			"category": slug,
			"error":    err.Error(),
		})
		return "", false
	}
	name := slug
	if c := catalog.CategoryBySlug(slug); c != nil {
		name = c.Name
	}
	return fmt.Sprintf("%s overall: %d listings, average rating %.1f, typical price ₹%s-%s.",
		name, stats.ListingCount, stats.AvgRating,
		FormatAmount(stats.AvgPriceMin), FormatAmount(stats.AvgPriceMax)), true
}
