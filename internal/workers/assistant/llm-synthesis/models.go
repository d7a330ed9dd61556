// internal/workers/assistant/llm-synthesis/models.go
package llmsynthesis

import (
	"shubharambh-workers/internal/models"
)

type Input struct {
	Question string            `json:"question"`
	Context  string            `json:"context"`
	History  []models.ChatTurn `json:"history,omitempty"`
}

type Output struct {
	Reply string `json:"reply"`
}
