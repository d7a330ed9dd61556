// internal/workers/assistant/llm-synthesis/config.go
package llmsynthesis

import "time"

type Config struct {
	GenAIBaseURL string
	APIKey       string
	Timeout      time.Duration
	MaxTokens    int
	Temperature  float64
}

func LoadConfig() *Config {
	return &Config{
		Timeout:     30 * time.Second,
		MaxTokens:   1024,
		Temperature: 0.4,
	}
}
