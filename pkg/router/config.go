package router

import "github.com/einklang-dev/einklang/pkg/api"

// Config holds configuration for the router.
type Config struct {
	// DefaultModel is used when the request omits the model field.
	// Empty string means a model is always required in the request.
	DefaultModel string

	// Validation bounds request size and content. Zero value means
	// api.DefaultValidationConfig().
	Validation api.ValidationConfig
}

// validation returns the effective validation config.
func (c Config) validation() api.ValidationConfig {
	if c.Validation == (api.ValidationConfig{}) {
		return api.DefaultValidationConfig()
	}
	return c.Validation
}
