package openai

import "time"

// Config holds configuration for the OpenAI adapter.
type Config struct {
	// BaseURL is the backend URL (e.g., "https://api.openai.com").
	BaseURL string

	// APIKey for bearer authentication (optional for local backends).
	APIKey string

	// Timeout for individual non-streaming HTTP requests. Defaults to 120s.
	Timeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 120 * time.Second,
	}
}
