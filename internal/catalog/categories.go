// internal/catalog/categories.go
package catalog

// Taxonomy is the fixed set of service categories offered on the
// platform, in display order. Slugs are the canonical values used by
// extraction, queries and storage.
var Taxonomy = []Category{
	{Slug: "venues", Name: "Venues", Icon: "🏛️"},
	{Slug: "photography", Name: "Photography", Icon: "📸"},
	{Slug: "djs", Name: "DJs", Icon: "🎧"},
	{Slug: "catering", Name: "Catering", Icon: "🍽️"},
	{Slug: "decorators", Name: "Decorators", Icon: "🎀"},
	{Slug: "makeup", Name: "Makeup Artists", Icon: "💄"},
	{Slug: "mehendi", Name: "Mehendi Artists", Icon: "🌿"},
	{Slug: "choreographers", Name: "Choreographers", Icon: "💃"},
	{Slug: "music", Name: "Live Music", Icon: "🎶"},
	{Slug: "invitations", Name: "Invitations", Icon: "💌"},
	{Slug: "videography", Name: "Videography", Icon: "🎥"},
}

// CategoryBySlug returns the taxonomy entry for slug, or nil when the
// slug is not part of the taxonomy.
func CategoryBySlug(slug string) *Category {
	for i := range Taxonomy {
		if Taxonomy[i].Slug == slug {
			c := Taxonomy[i]
			return &c
		}
	}
	return nil
}
