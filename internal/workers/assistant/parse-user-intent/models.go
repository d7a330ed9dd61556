// internal/workers/assistant/parse-user-intent/models.go
package parseuserintent

import "shubharambh-workers/internal/models"

type Input struct {
	ConversationID string            `json:"conversationId"`
	Messages       []models.ChatTurn `json:"messages"`
}

type Output struct {
	Question string                   `json:"question"`
	Intents  []models.IntentTag       `json:"intents"`
	Entities models.ExtractedEntities `json:"entities"`
}
