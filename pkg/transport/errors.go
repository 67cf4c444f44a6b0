package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/einklang-dev/einklang/pkg/api"
)

// ErrorBody is the wire shape of one error.
type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorEnvelope wraps an error for JSON responses.
type ErrorEnvelope struct {
	Error ErrorBody `json:"error"`
}

// ClassifyError maps a handler error to an HTTP status code and a wire
// error type.
//
// Provider-side failures carry one of the typed errors from pkg/api and
// map to 502 Bad Gateway: the request was fine, the upstream vendor was
// not. Panics recovered by the Recovery middleware map to 500. Anything
// else left is a request the router rejected before dispatch (validation,
// unknown vendor, capability mismatch) and maps to 400.
func ClassifyError(err error) (int, ErrorBody) {
	var malformed *api.MalformedPayloadError
	var respErr *api.ResponseError
	var reqErr *api.RequestError
	var internal *internalError

	switch {
	case errors.As(err, &malformed):
		return http.StatusBadGateway, ErrorBody{Type: "malformed_payload", Message: err.Error()}
	case errors.As(err, &respErr):
		return http.StatusBadGateway, ErrorBody{Type: "vendor_error", Message: err.Error()}
	case errors.As(err, &reqErr):
		return http.StatusBadGateway, ErrorBody{Type: "request_error", Message: err.Error()}
	case errors.As(err, &internal):
		return http.StatusInternalServerError, ErrorBody{Type: "server_error", Message: err.Error()}
	default:
		return http.StatusBadRequest, ErrorBody{Type: "invalid_request", Message: err.Error()}
	}
}

// WriteError writes a JSON error response, deriving the HTTP status code
// and wire type from the error.
func WriteError(w http.ResponseWriter, err error) {
	status, body := ClassifyError(err)
	WriteErrorResponse(w, body, status)
}

// WriteErrorResponse writes a JSON error response with an explicit status.
func WriteErrorResponse(w http.ResponseWriter, body ErrorBody, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorEnvelope{Error: body})
}
