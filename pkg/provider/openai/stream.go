package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/provider"
	"github.com/einklang-dev/einklang/pkg/provider/sse"
)

// doneSentinel terminates a Chat Completions stream. Decoding stops
// immediately when it is seen; buffered records after it are discarded.
const doneSentinel = "[DONE]"

// parseStream reads Chat Completions SSE records from body, decodes each
// into a normalized Event, and sends them on ch. The channel is NOT
// closed by this function; the caller is responsible for closing it.
//
// Malformed records are logged and skipped. Context cancellation stops
// reading without emitting an error event.
func parseStream(ctx context.Context, model string, body io.Reader, ch chan<- provider.Event) {
	err := sse.Scan(ctx, body, func(payload string) (bool, error) {
		if payload == doneSentinel {
			ch <- provider.Event{Type: provider.EventDone}
			return true, nil
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
			perr := &api.MalformedPayloadError{Payload: truncate(payload, 200), Err: err}
			slog.Warn("skipping malformed stream record",
				"vendor", vendorName,
				"error", perr.Error(),
				"data", perr.Payload,
			)
			return false, nil
		}

		if ev, ok := decodeChunk(&chunk); ok {
			ch <- ev
		}
		return false, nil
	})

	// Read failure (e.g., connection dropped). Cancellation is not an
	// error from our perspective.
	if err != nil && ctx.Err() == nil {
		ch <- provider.Event{
			Type: provider.EventError,
			Err:  api.NewRequestError(model, err),
		}
	}
}

// decodeChunk converts one parsed chunk into at most one Event.
//
// Only choices[0].delta.content is surfaced. Tool-call chunks are not
// reconstructed on this path and usage is never reported in-band; both
// are documented limitations of this adapter's streaming mode.
func decodeChunk(chunk *chatCompletionChunk) (provider.Event, bool) {
	if len(chunk.Choices) == 0 {
		return provider.Event{}, false
	}

	delta := chunk.Choices[0].Delta

	if len(delta.ToolCalls) > 0 {
		slog.Warn("dropping streamed tool call chunks",
			"vendor", vendorName,
			"tool_call_count", len(delta.ToolCalls),
		)
		return provider.Event{}, false
	}

	if delta.Content != nil && *delta.Content != "" {
		return provider.Event{
			Type: provider.EventTextDelta,
			Text: *delta.Content,
		}, true
	}

	return provider.Event{}, false
}

// truncate limits a string to maxLen characters for log output.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
