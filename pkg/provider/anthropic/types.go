package anthropic

import "encoding/json"

// Messages API wire types, internal to this adapter.

// messagesRequest is the request body for /v1/messages.
type messagesRequest struct {
	Model       string        `json:"model"`
	MaxTokens   int           `json:"max_tokens"`
	System      string        `json:"system,omitempty"`
	Messages    []wireMessage `json:"messages"`
	Tools       []wireTool    `json:"tools,omitempty"`
	ToolChoice  *toolChoice   `json:"tool_choice,omitempty"`
	Temperature *float64      `json:"temperature,omitempty"`
	TopP        *float64      `json:"top_p,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// wireMessage is one conversation turn. Content is always a block list;
// the string shorthand the API also accepts is not used on the way out.
type wireMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

// contentBlock is a polymorphic content element discriminated by Type:
// "text", "tool_use", or "tool_result".
type contentBlock struct {
	Type string `json:"type"`

	// Text payload for "text" blocks.
	Text string `json:"text,omitempty"`

	// Tool invocation fields for "tool_use" blocks.
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// Tool result fields for "tool_result" blocks.
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// wireTool is a tool definition in Messages format.
type wireTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

// toolChoice constrains tool selection: type "auto", "any", "none",
// or "tool" with a name.
type toolChoice struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// messagesResponse is the non-streaming response body. Type is
// "message" for success and "error" for the error sentinel.
type messagesResponse struct {
	Type       string         `json:"type"`
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      *wireUsage     `json:"usage,omitempty"`
	Error      *errorDetail   `json:"error,omitempty"`
}

// wireUsage holds token usage in Messages format.
type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// streamUsage is the usage shape inside stream events. Pointer fields
// distinguish a counter the record omits (message_delta usage carries
// no input_tokens) from an explicit zero, which later snapshots must
// overwrite with.
type streamUsage struct {
	InputTokens  *int `json:"input_tokens"`
	OutputTokens *int `json:"output_tokens"`
}

// errorDetail is the vendor's structured error object.
type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// streamEvent is one typed SSE payload, discriminated by Type:
// message_start, content_block_start, content_block_delta,
// content_block_stop, message_delta, message_stop (message_end on some
// compatible backends), ping, error.
type streamEvent struct {
	Type string `json:"type"`

	// Message is populated on message_start and carries initial usage.
	Message *struct {
		Usage *streamUsage `json:"usage,omitempty"`
	} `json:"message,omitempty"`

	// Delta is populated on content_block_delta and message_delta.
	Delta *struct {
		Type string `json:"type,omitempty"`
		Text string `json:"text,omitempty"`
	} `json:"delta,omitempty"`

	// Usage accompanies message_delta with running output tokens.
	Usage *streamUsage `json:"usage,omitempty"`

	// Error is populated on error events.
	Error *errorDetail `json:"error,omitempty"`

	// ErrMessage catches compatible backends that put the error
	// message at the top level instead of nesting it.
	ErrMessage string `json:"message,omitempty"`
}

// modelsResponse is the response from /v1/models.
type modelsResponse struct {
	Data []modelEntry `json:"data"`
}

// modelEntry represents a model in the /v1/models response.
type modelEntry struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
}
