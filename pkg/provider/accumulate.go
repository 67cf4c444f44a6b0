package provider

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/einklang-dev/einklang/pkg/api"
)

// draft is the in-progress accumulation state, owned exclusively by one
// Accumulate call for the duration of one request.
type draft struct {
	text      strings.Builder
	toolCalls []draftToolCall
	usage     api.Usage
	done      bool
}

// draftToolCall buffers a tool call whose arguments may arrive in
// fragments. Fragment assembly across records is not performed by the
// vendor decoders (see the package docs of each adapter); the merge
// here concatenates whatever fragments do arrive for the same call.
type draftToolCall struct {
	id   string
	name string
	args string
}

// Accumulate folds the ordered Event sequence into one api.Response.
// The observer, when non-nil, is invoked synchronously with the
// cumulative text after each text delta.
//
// An EventError aborts accumulation and its error is returned; no
// partial response escapes. A closed channel without EventDone is
// finalized as a normal stop: the terminal boundary of an SSE stream
// is a sentinel record, and some backends drop the connection right
// after it.
func Accumulate(ctx context.Context, events <-chan Event, obs DeltaObserver) (*api.Response, error) {
	var d draft

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev, ok := <-events:
			if !ok {
				if !d.done {
					slog.Debug("stream ended without terminal event, finalizing as stop")
				}
				return finalize(&d), nil
			}

			if err := applyEvent(&d, ev, obs); err != nil {
				return nil, err
			}
			if d.done {
				return finalize(&d), nil
			}
		}
	}
}

// applyEvent folds one event into the draft. It returns an error only
// when the event is terminal and fatal.
func applyEvent(d *draft, ev Event, obs DeltaObserver) error {
	switch ev.Type {
	case EventTextDelta:
		d.text.WriteString(ev.Text)
		if obs != nil {
			obs.OnDelta(d.text.String())
		}

	case EventToolCallDelta:
		if ev.ToolCallID != "" {
			d.toolCalls = append(d.toolCalls, draftToolCall{
				id:   ev.ToolCallID,
				name: ev.ToolCallName,
			})
		}
		if ev.ToolCallArguments != "" && len(d.toolCalls) > 0 {
			d.toolCalls[len(d.toolCalls)-1].args += ev.ToolCallArguments
		}

	case EventUsageUpdate:
		if ev.Usage != nil {
			if ev.Usage.PromptTokens != nil {
				d.usage.PromptTokens = *ev.Usage.PromptTokens
			}
			if ev.Usage.CompletionTokens != nil {
				d.usage.CompletionTokens = *ev.Usage.CompletionTokens
			}
		}

	case EventError:
		return ev.Err

	case EventDone:
		d.done = true
	}

	return nil
}

// finalize freezes the draft into an immutable api.Response. Streams
// end normally on their sentinel record and vendors supply no distinct
// terminal finish-reason code in-band, so the finish reason is Stop.
// The gateway response ID is assigned by the router: folding the same
// event sequence always yields an identical response.
func finalize(d *draft) *api.Response {
	resp := &api.Response{
		Text:         d.text.String(),
		Usage:        d.usage,
		FinishReason: api.FinishReasonStop,
	}

	for _, tc := range d.toolCalls {
		call := api.ToolCall{ID: tc.id, Name: tc.name}
		if tc.args != "" {
			call.Arguments = json.RawMessage(tc.args)
		}
		resp.ToolCalls = append(resp.ToolCalls, call)
	}

	return resp
}
