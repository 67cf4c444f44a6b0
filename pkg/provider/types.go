package provider

// EventType classifies a normalized streaming event from a vendor backend.
type EventType int

const (
	EventTextDelta     EventType = iota // Incremental text content
	EventToolCallDelta                  // Tool call data (whole or fragment)
	EventUsageUpdate                    // Token usage snapshot
	EventError                          // Fatal in-band vendor error
	EventDone                           // Stream finished normally
)

// String returns the event type name for logging.
func (t EventType) String() string {
	switch t {
	case EventTextDelta:
		return "text_delta"
	case EventToolCallDelta:
		return "tool_call_delta"
	case EventUsageUpdate:
		return "usage_update"
	case EventError:
		return "error"
	case EventDone:
		return "done"
	default:
		return "unknown"
	}
}

// Event is a single normalized streaming event. Exactly one decoded
// record produces at most one Event; irrelevant or malformed records
// produce none.
type Event struct {
	// Type indicates what kind of event this is.
	Type EventType

	// Text contains the incremental text for EventTextDelta.
	Text string

	// ToolCallID identifies the tool call for EventToolCallDelta.
	// Non-empty on the first event of a call.
	ToolCallID string

	// ToolCallName is the function name (populated with ToolCallID).
	ToolCallName string

	// ToolCallArguments is a JSON argument fragment for the current call.
	ToolCallArguments string

	// Usage is populated for EventUsageUpdate. Nil fields inside mean
	// "not reported by this event".
	Usage *UsageUpdate

	// Err is populated for EventError.
	Err error
}

// UsageUpdate is a partial usage snapshot. Later updates overwrite the
// fields they carry; absent fields leave earlier values untouched.
type UsageUpdate struct {
	PromptTokens     *int
	CompletionTokens *int
}

// DeltaObserver is notified synchronously with the cumulative text after
// each text delta. Implementations run inline with decoding and must not
// block indefinitely, since they stall the decode loop.
type DeltaObserver interface {
	OnDelta(text string)
}

// DeltaObserverFunc adapts an ordinary function to a DeltaObserver.
type DeltaObserverFunc func(text string)

// OnDelta calls f(text).
func (f DeltaObserverFunc) OnDelta(text string) {
	f(text)
}

// ModelInfo holds information about a model served by a vendor.
type ModelInfo struct {
	ID      string `json:"id"`
	OwnedBy string `json:"owned_by,omitempty"`
}
