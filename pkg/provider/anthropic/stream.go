package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/provider"
	"github.com/einklang-dev/einklang/pkg/provider/sse"
)

// parseStream reads typed Messages SSE records from body, decodes each
// into a normalized Event, and sends them on ch. The channel is NOT
// closed by this function; the caller is responsible for closing it.
//
// Event dispatch follows the "type" discriminator. An error event is
// fatal: it is surfaced as a ResponseError and decoding stops, leaving
// any buffered records undecoded. Malformed records are logged and
// skipped without failing the stream.
func parseStream(ctx context.Context, model string, body io.Reader, ch chan<- provider.Event) {
	err := sse.Scan(ctx, body, func(payload string) (bool, error) {
		var ev streamEvent
		if err := json.Unmarshal([]byte(payload), &ev); err != nil {
			perr := &api.MalformedPayloadError{Payload: truncate(payload, 200), Err: err}
			slog.Warn("skipping malformed stream record",
				"vendor", vendorName,
				"error", perr.Error(),
				"data", perr.Payload,
			)
			return false, nil
		}

		out, ok, stop := decodeEvent(&ev)
		if ok {
			ch <- out
		}
		return stop, nil
	})

	if err != nil && ctx.Err() == nil {
		ch <- provider.Event{
			Type: provider.EventError,
			Err:  api.NewRequestError(model, err),
		}
	}
}

// decodeEvent converts one typed payload into at most one Event and
// reports whether decoding must stop.
func decodeEvent(ev *streamEvent) (provider.Event, bool, bool) {
	switch ev.Type {
	case "message_start":
		if ev.Message != nil && ev.Message.Usage != nil {
			return usageEvent(ev.Message.Usage), true, false
		}
		return provider.Event{}, false, false

	case "content_block_delta":
		if ev.Delta != nil && ev.Delta.Text != "" {
			return provider.Event{
				Type: provider.EventTextDelta,
				Text: ev.Delta.Text,
			}, true, false
		}
		return provider.Event{}, false, false

	case "message_delta":
		if ev.Usage != nil {
			return usageEvent(ev.Usage), true, false
		}
		return provider.Event{}, false, false

	case "message_stop", "message_end":
		return provider.Event{Type: provider.EventDone}, true, true

	case "error":
		errType, message := "", ev.ErrMessage
		if ev.Error != nil {
			errType, message = ev.Error.Type, ev.Error.Message
		}
		return provider.Event{
			Type: provider.EventError,
			Err:  api.NewResponseError(vendorName, errType, message),
		}, true, true

	default:
		// ping, content_block_start, content_block_stop, and any
		// unrecognized discriminator carry nothing to normalize.
		return provider.Event{}, false, false
	}
}

// usageEvent builds a usage snapshot carrying exactly the counters the
// record holds: a counter the record omits stays nil and never clobbers
// an earlier snapshot, while an explicit zero is reported and wins.
func usageEvent(u *streamUsage) provider.Event {
	return provider.Event{
		Type: provider.EventUsageUpdate,
		Usage: &provider.UsageUpdate{
			PromptTokens:     u.InputTokens,
			CompletionTokens: u.OutputTokens,
		},
	}
}

// truncate limits a string to maxLen characters for log output.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
