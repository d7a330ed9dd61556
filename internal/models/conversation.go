// internal/models/conversation.go
package models

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryWindow is the number of recent turns handed to the generation
// step. Older turns are dropped, not summarized.
const HistoryWindow = 10

// ChatTurn is a single message in a conversation.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the inbound payload for the generate-reply task.
type ChatRequest struct {
	ConversationID string     `json:"conversationId"`
	Messages       []ChatTurn `json:"messages"`
}

// LatestUserTurn returns the content of the most recent user message.
// Only this turn feeds extraction and classification; everything else
// is passed through to the generator untouched.
func (r ChatRequest) LatestUserTurn() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == RoleUser {
			return r.Messages[i].Content
		}
	}
	return ""
}

// RecentHistory returns at most the last HistoryWindow turns.
func (r ChatRequest) RecentHistory() []ChatTurn {
	if len(r.Messages) <= HistoryWindow {
		return r.Messages
	}
	return r.Messages[len(r.Messages)-HistoryWindow:]
}
