package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	if !c.Vendors.OpenAI.Enabled && !c.Vendors.Anthropic.Enabled {
		errs = append(errs, fmt.Errorf("at least one vendor must be enabled"))
	}

	if c.Vendors.OpenAI.Enabled && c.Vendors.OpenAI.BaseURL == "" {
		errs = append(errs, fmt.Errorf("vendors.openai.base_url is required when enabled"))
	}
	if c.Vendors.Anthropic.Enabled && c.Vendors.Anthropic.BaseURL == "" {
		errs = append(errs, fmt.Errorf("vendors.anthropic.base_url is required when enabled"))
	}

	switch c.Vendors.Default {
	case "":
		// First enabled vendor wins.
	case "openai":
		if !c.Vendors.OpenAI.Enabled {
			errs = append(errs, fmt.Errorf("vendors.default names disabled vendor \"openai\""))
		}
	case "anthropic":
		if !c.Vendors.Anthropic.Enabled {
			errs = append(errs, fmt.Errorf("vendors.default names disabled vendor \"anthropic\""))
		}
	default:
		errs = append(errs, fmt.Errorf("vendors.default must be \"openai\" or \"anthropic\", got %q", c.Vendors.Default))
	}

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("server.port must be > 0, got %d", c.Server.Port))
	}

	switch c.Auth.Type {
	case "none", "apikey", "jwt":
		// valid
	default:
		errs = append(errs, fmt.Errorf("auth.type must be \"none\", \"apikey\", or \"jwt\", got %q", c.Auth.Type))
	}

	if c.Auth.Type == "apikey" && len(c.Auth.APIKeys) == 0 {
		errs = append(errs, fmt.Errorf("auth.api_keys must not be empty when auth.type is \"apikey\""))
	}
	if c.Auth.Type == "jwt" && c.Auth.JWT.JWKSURL == "" {
		errs = append(errs, fmt.Errorf("auth.jwt.jwks_url is required when auth.type is \"jwt\""))
	}

	return errors.Join(errs...)
}
