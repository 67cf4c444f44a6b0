package anthropic

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/einklang-dev/einklang/pkg/api"
)

// mapHTTPError converts a non-2xx HTTP response into a ResponseError,
// extracting the vendor's structured error from the body when present.
func mapHTTPError(resp *http.Response) error {
	errType, message := extractError(resp.Body)
	if message == "" {
		message = fmt.Sprintf("backend error (HTTP %d)", resp.StatusCode)
	}
	return api.NewResponseError(vendorName, errType, message)
}

// extractError tries to parse the body as an error envelope and returns
// the vendor error type and message if found.
func extractError(body io.Reader) (string, string) {
	if body == nil {
		return "", ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "", ""
	}

	var envelope struct {
		Error *errorDetail `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && envelope.Error != nil {
		return envelope.Error.Type, envelope.Error.Message
	}
	return "", ""
}
