package api

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRequestError_WrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewRequestError("gpt-4", cause)

	if !errors.Is(err, cause) {
		t.Error("RequestError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "gpt-4") || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q", err.Error())
	}

	var reqErr *RequestError
	wrapped := fmt.Errorf("dispatch: %w", err)
	if !errors.As(wrapped, &reqErr) {
		t.Error("errors.As must find RequestError through wrapping")
	}
}

func TestResponseError_Format(t *testing.T) {
	withType := NewResponseError("openai", "rate_limit_error", "slow down")
	if got := withType.Error(); got != "openai: slow down (rate_limit_error)" {
		t.Errorf("Error() = %q", got)
	}

	noType := NewResponseError("anthropic", "", "boom")
	if got := noType.Error(); got != "anthropic: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestMalformedPayloadError_WrapsCause(t *testing.T) {
	cause := errors.New("unexpected end of JSON input")
	err := &MalformedPayloadError{Payload: "{truncated", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("MalformedPayloadError must unwrap to its cause")
	}
	if !strings.Contains(err.Error(), "malformed payload") {
		t.Errorf("Error() = %q", err.Error())
	}
}
