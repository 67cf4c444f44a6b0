package anthropic

import "time"

// apiVersion is sent as the anthropic-version header on every request.
const apiVersion = "2023-06-01"

// Config holds configuration for the Anthropic adapter.
type Config struct {
	// BaseURL is the backend URL (e.g., "https://api.anthropic.com").
	BaseURL string

	// APIKey is sent as the x-api-key header (optional for local backends).
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
