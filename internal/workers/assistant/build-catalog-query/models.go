// internal/workers/assistant/build-catalog-query/models.go
package buildcatalogquery

import (
	"shubharambh-workers/internal/catalog"
	"shubharambh-workers/internal/models"
)

type Input struct {
	Question string                   `json:"question"`
	Intents  []models.IntentTag       `json:"intents"`
	Entities models.ExtractedEntities `json:"entities"`
}

type Output struct {
	Primary   catalog.ListingQuery `json:"primaryQuery"`
	Broadened catalog.ListingQuery `json:"broadenedQuery"`
}
