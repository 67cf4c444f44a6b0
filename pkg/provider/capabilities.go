package provider

import (
	"fmt"

	"github.com/einklang-dev/einklang/pkg/api"
)

// Capabilities declares what features a vendor adapter supports.
// Used by the router for early request validation.
type Capabilities struct {
	// Streaming indicates whether the vendor supports streaming responses.
	Streaming bool

	// ToolCalling indicates whether the vendor supports function/tool calls.
	ToolCalling bool

	// MaxContextWindow is the maximum token count (0 = unknown/unlimited).
	MaxContextWindow int
}

// ValidateCapabilities checks whether the given request is compatible
// with the vendor's declared capabilities. Returns an error identifying
// the specific unsupported feature, or nil if the request is compatible.
func ValidateCapabilities(caps Capabilities, req *api.GenerateRequest) error {
	if req.Stream && !caps.Streaming {
		return fmt.Errorf("the selected vendor does not support streaming responses")
	}

	if len(req.Tools) > 0 && !caps.ToolCalling {
		return fmt.Errorf("the selected vendor does not support tool calling")
	}

	return nil
}
