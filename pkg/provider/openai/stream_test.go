package openai

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/provider"
)

// collectEvents runs parseStream over raw SSE data and returns all events.
func collectEvents(t *testing.T, sseData string) []provider.Event {
	t.Helper()
	ch := make(chan provider.Event, 64)

	go func() {
		defer close(ch)
		parseStream(context.Background(), "test-model", strings.NewReader(sseData), ch)
	}()

	var events []provider.Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestParseStream_TextDeltas(t *testing.T) {
	sseData := `data: {"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{"role":"assistant"},"finish_reason":null}]}

data: {"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{"content":"Hel"},"finish_reason":null}]}

data: {"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":null}]}

data: {"id":"chatcmpl-1","object":"chat.completion.chunk","model":"gpt-4","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}

data: [DONE]
`
	events := collectEvents(t, sseData)

	// Role chunk and finish chunk carry no content: two deltas plus done.
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %+v", len(events), events)
	}
	if events[0].Type != provider.EventTextDelta || events[0].Text != "Hel" {
		t.Errorf("events[0] = %+v, want text delta %q", events[0], "Hel")
	}
	if events[1].Type != provider.EventTextDelta || events[1].Text != "lo" {
		t.Errorf("events[1] = %+v, want text delta %q", events[1], "lo")
	}
	if events[2].Type != provider.EventDone {
		t.Errorf("events[2] = %+v, want done", events[2])
	}
}

func TestParseStream_RecordSplitAcrossReads(t *testing.T) {
	// The decode path runs on a single reader, so chunk boundaries inside
	// a record are exercised through a reader that returns tiny reads.
	sseData := `data: {"choices":[{"index":0,"delta":{"content":"Hello"}}]}

data: [DONE]
`
	ch := make(chan provider.Event, 8)
	go func() {
		defer close(ch)
		parseStream(context.Background(), "m", &trickleReader{data: sseData, n: 7}, ch)
	}()

	var text string
	for ev := range ch {
		if ev.Type == provider.EventTextDelta {
			text += ev.Text
		}
	}
	if text != "Hello" {
		t.Errorf("accumulated text = %q, want %q", text, "Hello")
	}
}

// trickleReader returns at most n bytes per Read.
type trickleReader struct {
	data string
	n    int
	pos  int
}

func (r *trickleReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	end := r.pos + r.n
	if end > len(r.data) {
		end = len(r.data)
	}
	n := copy(p, r.data[r.pos:end])
	r.pos += n
	return n, nil
}

func TestParseStream_MalformedRecordSkipped(t *testing.T) {
	sseData := `data: {"choices":[{"index":0,"delta":{"content":"Hi"}}]}

data: {this is not valid json}

data: {"choices":[{"index":0,"delta":{"content":"!"}}]}

data: [DONE]
`
	events := collectEvents(t, sseData)

	var deltas []string
	for _, ev := range events {
		if ev.Type == provider.EventTextDelta {
			deltas = append(deltas, ev.Text)
		}
	}
	if len(deltas) != 2 || deltas[0] != "Hi" || deltas[1] != "!" {
		t.Errorf("deltas = %v, want [Hi !]", deltas)
	}
	if events[len(events)-1].Type != provider.EventDone {
		t.Error("stream must still terminate normally after a malformed record")
	}
}

func TestParseStream_DoneStopsDecoding(t *testing.T) {
	// Records after the sentinel are buffered but never decoded.
	sseData := `data: {"choices":[{"index":0,"delta":{"content":"a"}}]}

data: [DONE]

data: {"choices":[{"index":0,"delta":{"content":"never"}}]}
`
	events := collectEvents(t, sseData)

	for _, ev := range events {
		if ev.Type == provider.EventTextDelta && ev.Text == "never" {
			t.Fatal("record after [DONE] must not be decoded")
		}
	}
	if events[len(events)-1].Type != provider.EventDone {
		t.Errorf("last event = %+v, want done", events[len(events)-1])
	}
}

func TestParseStream_StreamedToolCallsDropped(t *testing.T) {
	sseData := `data: {"choices":[{"index":0,"delta":{"tool_calls":[{"id":"call_1","type":"function","function":{"name":"f","arguments":"{}"}}]}}]}

data: {"choices":[{"index":0,"delta":{"content":"text"}}]}

data: [DONE]
`
	events := collectEvents(t, sseData)

	for _, ev := range events {
		if ev.Type == provider.EventToolCallDelta {
			t.Fatal("streamed tool calls are not surfaced on this path")
		}
	}

	var deltas int
	for _, ev := range events {
		if ev.Type == provider.EventTextDelta {
			deltas++
		}
	}
	if deltas != 1 {
		t.Errorf("expected 1 text delta, got %d", deltas)
	}
}

func TestParseStream_EOFWithoutDone(t *testing.T) {
	// Connection drops before [DONE]: the decode loop just ends. The
	// accumulator finalizes this case; no error event is emitted.
	sseData := `data: {"choices":[{"index":0,"delta":{"content":"cut"}}]}
`
	events := collectEvents(t, sseData)

	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	if events[0].Type != provider.EventTextDelta || events[0].Text != "cut" {
		t.Errorf("events[0] = %+v", events[0])
	}
}

func TestParseStream_ReadErrorYieldsRequestError(t *testing.T) {
	ch := make(chan provider.Event, 8)
	go func() {
		defer close(ch)
		parseStream(context.Background(), "gpt-4", &failingReader{}, ch)
	}()

	var last provider.Event
	for ev := range ch {
		last = ev
	}

	if last.Type != provider.EventError {
		t.Fatalf("last event = %+v, want error event", last)
	}
	var reqErr *api.RequestError
	if !errors.As(last.Err, &reqErr) {
		t.Fatalf("error = %v, want *api.RequestError", last.Err)
	}
	if reqErr.Model != "gpt-4" {
		t.Errorf("RequestError.Model = %q, want %q", reqErr.Model, "gpt-4")
	}
}

type failingReader struct{ done bool }

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.done {
		r.done = true
		return copy(p, "data: {\"choices\":[{\"index\":0,\"delta\":{\"content\":\"x\"}}]}\n"), nil
	}
	return 0, errors.New("connection reset by peer")
}
