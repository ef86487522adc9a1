package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response converted to an error. Message holds the
// most specific text available: the body's "error" field, then its "message"
// field, then "<status> <statusText>".
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string { return e.Message }

// errorBody is the shape error responses are probed for. Both fields are
// optional and the body may not be JSON at all.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(resp *http.Response, raw []byte) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var body errorBody
	if len(raw) > 0 {
		// Invalid JSON is tolerated; the status line is the fallback.
		_ = json.Unmarshal(raw, &body)
	}

	switch {
	case body.Error != "":
		apiErr.Message = body.Error
	case body.Message != "":
		apiErr.Message = body.Message
	default:
		apiErr.Message = fmt.Sprintf("API Error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	return apiErr
}
