package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/einklang-dev/einklang/pkg/api"
	"github.com/einklang-dev/einklang/pkg/transport"
)

// writerState tracks the state of a ResponseWriter.
type writerState int

const (
	writerIdle      writerState = iota // Initial state, no writes yet
	writerStreaming                    // at least one SSE event written
	writerCompleted                    // final response sent
)

// responseWriter implements transport.ResponseWriter for HTTP responses.
// In streaming mode it emits SSE events; otherwise a single JSON document.
//
// The SSE stream carries three event types:
//
//	event: delta     data: {"text":"<cumulative text so far>"}
//	event: response  data: {<final unified response>}
//	event: error     data: {"error":{"type":...,"message":...}}
//
// The stream ends with "data: [DONE]" after the response or error event.
type responseWriter struct {
	w         http.ResponseWriter
	rc        *http.ResponseController
	streaming bool

	mu    sync.Mutex
	state writerState
}

var _ transport.ResponseWriter = (*responseWriter)(nil)

// newResponseWriter creates a ResponseWriter wrapping an http.ResponseWriter.
// When streaming is true, output is SSE; otherwise a single JSON body.
func newResponseWriter(w http.ResponseWriter, streaming bool) *responseWriter {
	return &responseWriter{
		w:         w,
		rc:        http.NewResponseController(w),
		streaming: streaming,
	}
}

// deltaPayload is the wire shape of one delta event.
type deltaPayload struct {
	Text string `json:"text"`
}

// WriteDelta sends one SSE delta event carrying the cumulative text.
// On non-streaming writers this is a no-op.
func (s *responseWriter) WriteDelta(_ context.Context, text string) error {
	if !s.streaming {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerCompleted {
		return errors.New("cannot write delta: writer is completed")
	}

	if err := s.beginStreamLocked(); err != nil {
		return err
	}

	return s.writeEventLocked("delta", deltaPayload{Text: text})
}

// WriteResponse sends the complete response. In streaming mode this is the
// terminal "response" event followed by [DONE]; otherwise a JSON body.
func (s *responseWriter) WriteResponse(_ context.Context, resp *api.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerCompleted {
		return errors.New("cannot write response: writer is completed")
	}

	if s.streaming {
		if err := s.beginStreamLocked(); err != nil {
			return err
		}
		if err := s.writeEventLocked("response", resp); err != nil {
			return err
		}
		return s.finishStreamLocked()
	}

	s.w.Header().Set("Content-Type", "application/json")
	s.state = writerCompleted

	if err := json.NewEncoder(s.w).Encode(resp); err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}

	return nil
}

// Flush ensures buffered data is sent to the client.
func (s *responseWriter) Flush() error {
	return s.rc.Flush()
}

// hasStartedStreaming returns true if at least one SSE event has been written.
func (s *responseWriter) hasStartedStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state != writerIdle && s.streaming
}

// writeErrorEvent sends a terminal error event on an already-open stream.
func (s *responseWriter) writeErrorEvent(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == writerCompleted {
		return errors.New("cannot write error: writer is completed")
	}

	_, body := transport.ClassifyError(err)
	if werr := s.writeEventLocked("error", transport.ErrorEnvelope{Error: body}); werr != nil {
		return werr
	}
	return s.finishStreamLocked()
}

// beginStreamLocked sets the SSE headers on the first event.
// Must be called with the mutex held.
func (s *responseWriter) beginStreamLocked() error {
	if s.state != writerIdle {
		return nil
	}
	s.w.Header().Set("Content-Type", "text/event-stream")
	s.w.Header().Set("Cache-Control", "no-cache")
	s.w.Header().Set("Connection", "keep-alive")
	s.state = writerStreaming
	return nil
}

// writeEventLocked serializes and writes one SSE event and flushes.
// Must be called with the mutex held.
func (s *responseWriter) writeEventLocked(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush: %w", err)
	}

	return nil
}

// finishStreamLocked writes the [DONE] marker and marks the writer completed.
// Must be called with the mutex held.
func (s *responseWriter) finishStreamLocked() error {
	if _, err := fmt.Fprint(s.w, "data: [DONE]\n\n"); err != nil {
		return fmt.Errorf("failed to write [DONE]: %w", err)
	}
	if err := s.rc.Flush(); err != nil {
		return fmt.Errorf("failed to flush [DONE]: %w", err)
	}
	s.state = writerCompleted
	return nil
}
