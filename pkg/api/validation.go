package api

import "fmt"

// ValidationConfig holds configurable limits for request validation.
type ValidationConfig struct {
	MaxMessages    int
	MaxContentSize int
	MaxTools       int
}

// DefaultValidationConfig returns a ValidationConfig with sensible defaults.
func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MaxMessages:    1000,
		MaxContentSize: 10 * 1024 * 1024, // 10MB
		MaxTools:       128,
	}
}

// validRoles lists the message roles the unified model accepts.
var validRoles = map[string]bool{
	RoleSystem:    true,
	RoleUser:      true,
	RoleAssistant: true,
	RoleTool:      true,
}

// ValidateRequest checks a GenerateRequest for validity. It returns an
// error describing the first validation failure, or nil if the request
// is valid.
func ValidateRequest(req *GenerateRequest, cfg ValidationConfig) error {
	if req.Model == "" {
		return fmt.Errorf("model is required")
	}

	if len(req.Messages) == 0 {
		return fmt.Errorf("messages must contain at least one entry")
	}

	if cfg.MaxMessages > 0 && len(req.Messages) > cfg.MaxMessages {
		return fmt.Errorf("messages exceeds maximum of %d entries", cfg.MaxMessages)
	}

	if cfg.MaxTools > 0 && len(req.Tools) > cfg.MaxTools {
		return fmt.Errorf("tools exceeds maximum of %d", cfg.MaxTools)
	}

	total := 0
	for i, msg := range req.Messages {
		if !validRoles[msg.Role] {
			return fmt.Errorf("messages[%d]: unknown role %q", i, msg.Role)
		}
		total += len(msg.Content)
	}
	if cfg.MaxContentSize > 0 && total > cfg.MaxContentSize {
		return fmt.Errorf("total message content exceeds %d bytes", cfg.MaxContentSize)
	}

	if req.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative")
	}

	if req.Temperature != nil && (*req.Temperature < 0.0 || *req.Temperature > 2.0) {
		return fmt.Errorf("temperature must be between 0.0 and 2.0")
	}

	if req.TopP != nil && (*req.TopP < 0.0 || *req.TopP > 1.0) {
		return fmt.Errorf("top_p must be between 0.0 and 1.0")
	}

	// A forced tool choice must reference a declared tool.
	if req.ToolChoice != nil && req.ToolChoice.Function != nil {
		name := req.ToolChoice.Function.Name
		found := false
		for _, tool := range req.Tools {
			if tool.Name == name {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("tool_choice references unknown tool %q", name)
		}
	}

	return nil
}
