package openai

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

// extractError tries to parse the body as a chatErrorResponse and
// returns the vendor error type and message if found.
func extractError(body io.Reader) (string, string) {
	if body == nil {
		return "", ""
	}

	data, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(data) == 0 {
		return "", ""
	}

	var errResp chatErrorResponse
	if err := json.Unmarshal(data, &errResp); err == nil && errResp.Error != nil {
		return errResp.Error.Type, errResp.Error.Message
	}
	return "", ""
}
