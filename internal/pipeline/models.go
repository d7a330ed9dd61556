// internal/pipeline/models.go
package pipeline

import (
	"shubharambh-workers/internal/models"
)

type Input struct {
	ConversationID string            `json:"conversationId,omitempty"`
	Messages       []models.ChatTurn `json:"messages"`
}

type Output struct {
	Reply          string `json:"reply"`
	ConversationID string `json:"conversationId,omitempty"`
	Degraded       bool   `json:"degraded"`
}
