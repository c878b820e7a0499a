package scheduleapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the backend
type APIError struct {
	StatusCode int
	Details    string
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("schedule service returned %d: %s", e.StatusCode, e.Details)
	}
	return fmt.Sprintf("schedule service returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// TransportError wraps a failure to reach the backend or read its reply
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "failed to reach schedule service: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// errorBody is the backend's error envelope
type errorBody struct {
	Details string `json:"details"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status}

	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		switch {
		case eb.Details != "":
			apiErr.Details = eb.Details
		case eb.Message != "":
			apiErr.Details = eb.Message
		case eb.Error != "":
			apiErr.Details = eb.Error
		}
	}
	return apiErr
}

// UserMessage returns the text shown to staff for a backend failure:
// the server's details when present, otherwise the transport message.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && strings.TrimSpace(apiErr.Details) != "" {
		return apiErr.Details
	}

	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Err.Error()
	}

	return err.Error()
}
