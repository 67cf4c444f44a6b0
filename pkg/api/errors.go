package api

import "fmt"

// RequestError reports a failure to deliver a request to the vendor:
// connection errors, timeouts, or any unexpected failure while sending.
// It is fatal to the request and is never retried by this layer.
type RequestError struct {
	// Model names the model the request targeted, for context.
	Model string

	// Err is the underlying transport failure.
	Err error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("provider request for model %q failed: %s", e.Model, e.Err)
}

// Unwrap returns the underlying cause.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// NewRequestError wraps a transport failure with the model name.
func NewRequestError(model string, err error) *RequestError {
	return &RequestError{Model: model, Err: err}
}

// ResponseError reports a structured error returned by the vendor,
// either as a non-stream top-level error object, a non-2xx HTTP error
// body, or an in-band stream error event. It is fatal to the request.
type ResponseError struct {
	// Vendor identifies the adapter that produced the error.
	Vendor string

	// Type is the vendor's error classification, when supplied.
	Type string

	// Message is the vendor's error message.
	Message string
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Vendor, e.Message, e.Type)
	}
	return fmt.Sprintf("%s: %s", e.Vendor, e.Message)
}

// NewResponseError creates a ResponseError carrying the vendor's
// error type and message.
func NewResponseError(vendor, errType, message string) *ResponseError {
	return &ResponseError{Vendor: vendor, Type: errType, Message: message}
}

// MalformedPayloadError reports a single stream record that failed to
// parse. It never aborts a stream: decoders log it and continue.
type MalformedPayloadError struct {
	// Payload is the offending record, possibly truncated for logging.
	Payload string

	// Err is the parse failure.
	Err error
}

// Error implements the error interface.
func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("malformed payload: %s", e.Err)
}

// Unwrap returns the underlying parse error.
func (e *MalformedPayloadError) Unwrap() error {
	return e.Err
}
