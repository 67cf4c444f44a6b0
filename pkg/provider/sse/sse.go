// Package sse reconstructs line-delimited event records from
// arbitrarily-chunked network reads. It provides the byte-oriented
// Framer shared by every vendor stream decoder, and a Scan loop that
// drives bounded reads against a transport body.
//
// The framing convention: each logical record is one newline-terminated
// line. Lines may be empty, comment or event-name lines (ignored by
// the payload filter), or "data:"-prefixed payload lines.
package sse

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
)

// chunkSize bounds each transport read.
const chunkSize = 8 * 1024

// Framer accumulates raw byte chunks and yields complete
// newline-terminated records, retaining any trailing partial record
// across calls. A Framer is owned by a single decode loop and is not
// safe for concurrent use.
type Framer struct {
	buf []byte
}

// Feed appends chunk to the internal accumulator and returns every
// complete record it now contains, in order. Records are trimmed of
// surrounding whitespace (including the "\r" of CRLF framing) and may
// be empty. Bytes after the last newline stay buffered for the next
// call, so a logical line split across reads is reconstructed intact.
func (f *Framer) Feed(chunk []byte) []string {
	f.buf = append(f.buf, chunk...)

	var records []string
	for {
		idx := bytes.IndexByte(f.buf, '\n')
		if idx < 0 {
			return records
		}
		line := strings.TrimSpace(string(f.buf[:idx]))
		f.buf = f.buf[idx+1:]
		records = append(records, line)
	}
}

// Pending reports whether un-terminated bytes remain buffered. At
// end-of-stream such bytes are discarded, never force-emitted: the
// closing boundary of a vendor stream is itself a sentinel record,
// not end-of-stream.
func (f *Framer) Pending() bool {
	return len(f.buf) > 0
}

// Data strips the "data:" marker from a record and returns the trimmed
// payload. The second result is false for records that carry no data
// payload (empty lines, comments, event-name lines).
func Data(record string) (string, bool) {
	if !strings.HasPrefix(record, "data:") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(record, "data:")), true
}

// RecordHandler decodes one data payload. Returning stop=true ceases
// processing immediately: the current feed cycle's remaining buffered
// records are discarded and Scan returns. Returning an error aborts
// the scan and propagates the error to the caller.
type RecordHandler func(payload string) (stop bool, err error)

// Scan drives a synchronous, blocking pull loop over body: it reads a
// bounded chunk, feeds the Framer, and hands each resulting data
// payload to fn in arrival order. It returns nil on end-of-stream or
// handler stop, the handler's error when one is returned, the context
// error on cancellation, and the read error otherwise.
func Scan(ctx context.Context, body io.Reader, fn RecordHandler) error {
	var framer Framer
	chunk := make([]byte, chunkSize)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, readErr := body.Read(chunk)
		if n > 0 {
			for _, record := range framer.Feed(chunk[:n]) {
				payload, ok := Data(record)
				if !ok {
					continue
				}
				stop, err := fn(payload)
				if err != nil {
					return err
				}
				if stop {
					return nil
				}
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return readErr
		}
	}
}
