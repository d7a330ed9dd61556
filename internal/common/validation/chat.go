// internal/common/validation/chat.go
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// chatRequestSchema is the wire contract for the generate-reply task.
// Roles outside user/assistant and empty message lists are rejected
// before the pipeline runs.
const chatRequestSchema = `{
	"type": "object",
	"properties": {
		"conversationId": {
			"type": "string",
			"maxLength": 128
		},
		"messages": {
			"type": "array",
			"minItems": 1,
			"maxItems": 200,
			"items": {
				"type": "object",
				"properties": {
					"role": {
						"type": "string",
						"enum": ["user", "assistant"]
					},
					"content": {
						"type": "string",
						"minLength": 1,
						"maxLength": 8000
					}
				},
				"required": ["role", "content"],
				"additionalProperties": false
			}
		}
	},
	"required": ["messages"],
	"additionalProperties": true
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

var chatRequestLoader = gojsonschema.NewStringLoader(chatRequestSchema)

// ValidateChatRequest checks a raw request payload against the chat
// schema. Schema compilation errors surface as validation errors so
// callers have one failure path.
func ValidateChatRequest(payload []byte) *ValidationResult {
	result, err := gojsonschema.Validate(chatRequestLoader, gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{
				{Field: "(document)", Message: err.Error()},
			},
		}
	}

	if result.Valid() {
		return &ValidationResult{Valid: true}
	}

	out := &ValidationResult{Valid: false}
	for _, desc := range result.Errors() {
		out.Errors = append(out.Errors, ValidationError{
			Field:   desc.Field(),
			Message: desc.Description(),
		})
	}
	return out
}
