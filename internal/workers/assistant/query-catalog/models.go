// internal/workers/assistant/query-catalog/models.go
package querycatalog

import (
	"shubharambh-workers/internal/catalog"
)

const (
	TierExact   = "exact"
	TierRelated = "related"
)

type Input struct {
	Primary   catalog.ListingQuery `json:"primaryQuery"`
	Broadened catalog.ListingQuery `json:"broadenedQuery"`
}

type Output struct {
	Listings []catalog.Listing `json:"listings"`
	Tier     string            `json:"tier"`
}
