// internal/workers/assistant/build-context/models.go
package buildcontext

import (
	"shubharambh-workers/internal/catalog"
	"shubharambh-workers/internal/models"
)

type Input struct {
	Question string                   `json:"question"`
	Intents  []models.IntentTag       `json:"intents"`
	Entities models.ExtractedEntities `json:"entities"`
	Listings []catalog.Listing        `json:"listings"`
	Tier     string                   `json:"tier"`
	// Degraded marks a request whose retrieval stage already failed;
	// the assembler then skips every live-data section up front.
	Degraded bool `json:"degraded"`
}

type Output struct {
	Context  string `json:"context"`
	Degraded bool   `json:"degraded"`
}
