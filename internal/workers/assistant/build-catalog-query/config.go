// internal/workers/assistant/build-catalog-query/config.go
package buildcatalogquery

import "time"

type Config struct {
	Timeout        time.Duration
	PrimaryLimit   int
	BroadenedLimit int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        5 * time.Second,
		PrimaryLimit:   8,
		BroadenedLimit: 5,
	}
}
