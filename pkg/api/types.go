package api

import "encoding/json"

// ---------------------------------------------------------------------------
// Request types
// ---------------------------------------------------------------------------

// GenerateRequest is the vendor-neutral inference request. The router
// translates it into whichever wire format the selected vendor expects.
type GenerateRequest struct {
	// Vendor selects the adapter serving this request (e.g. "openai",
	// "anthropic"). Empty means the configured default vendor.
	Vendor string `json:"vendor,omitempty"`

	// Model is the vendor-side model identifier.
	Model string `json:"model"`

	// Messages is the ordered conversation history.
	Messages []Message `json:"messages"`

	// System is an optional system prompt. Vendors that carry the system
	// prompt out-of-band (Anthropic) receive it there; vendors that model
	// it as a leading message (OpenAI) receive it prepended.
	System string `json:"system,omitempty"`

	// MaxTokens caps the completion length. Zero means DefaultMaxTokens.
	MaxTokens int `json:"max_tokens,omitempty"`

	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`

	// Tools the model may invoke.
	Tools []Tool `json:"tools,omitempty"`

	// ToolChoice constrains tool selection.
	ToolChoice *ToolChoice `json:"tool_choice,omitempty"`

	// Stream requests incremental delivery. The final Response is
	// identical either way; streaming only adds per-delta observation.
	Stream bool `json:"stream,omitempty"`

	// ProviderMeta carries vendor-keyed request metadata. The gateway
	// reads only the conversation ID for the selected vendor, to tag
	// delta notifications for external observers.
	ProviderMeta map[string]RequestMeta `json:"provider_meta,omitempty"`
}

// DefaultMaxTokens is applied when GenerateRequest.MaxTokens is zero.
const DefaultMaxTokens = 2048

// RequestMeta holds per-vendor request metadata.
type RequestMeta struct {
	// ConversationID identifies the conversation for delta observers.
	ConversationID string `json:"conversation_id,omitempty"`
}

// ConversationID returns the conversation ID recorded for the given
// vendor, or empty string when none is present.
func (r *GenerateRequest) ConversationID(vendor string) string {
	if r.ProviderMeta == nil {
		return ""
	}
	return r.ProviderMeta[vendor].ConversationID
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one turn in the conversation.
type Message struct {
	// Role is one of "system", "user", "assistant", or "tool".
	Role string `json:"role"`

	// Content is the text content of the message.
	Content string `json:"content,omitempty"`

	// ToolCalls carries tool invocations on assistant messages.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID links a tool-result message to the call it answers.
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// Tool is a vendor-neutral tool definition.
type Tool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// ToolChoice constrains how the model selects tools. Exactly one of
// Mode or Function is set.
type ToolChoice struct {
	// Mode is "auto", "none", or "required".
	Mode string `json:"mode,omitempty"`

	// Function forces a call to the named tool.
	Function *ToolFunctionChoice `json:"function,omitempty"`
}

// ToolFunctionChoice names a specific tool the model must call.
type ToolFunctionChoice struct {
	Name string `json:"name"`
}

// ---------------------------------------------------------------------------
// Response types
// ---------------------------------------------------------------------------

// FinishReason is the canonical classification of why generation stopped.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool_calls"
	FinishReasonContentFilter FinishReason = "content_filter"
	FinishReasonUnknown       FinishReason = "unknown"
)

// ToolCall is a finalized tool invocation emitted by the model.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// Usage holds token counts. During streaming the latest reported value
// wins; monotonicity is not enforced.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Response is the unified result of one inference request. It is
// constructed once per request and never mutated after return.
type Response struct {
	// ID is the gateway-assigned response identifier.
	ID string `json:"id"`

	// Text is the accumulated assistant text.
	Text string `json:"text"`

	// ToolCalls lists tool invocations in vendor order.
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// Usage is the final token accounting.
	Usage Usage `json:"usage"`

	// FinishReason is the canonical stop classification.
	FinishReason FinishReason `json:"finish_reason"`

	// ProviderMeta echoes vendor-supplied response attributes,
	// conventionally "id" and "model".
	ProviderMeta map[string]string `json:"provider_meta,omitempty"`
}
