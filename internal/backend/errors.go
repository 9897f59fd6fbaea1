package backend

import (
	"errors"
	"fmt"
)

// ErrUnavailable wraps transport failures: connection refused, timeouts and
// responses that are not JSON.
var ErrUnavailable = errors.New("backend: unavailable")

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

// Error returns the server's message verbatim.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: unexpected status %d", e.Status)
	}
	return e.Message
}

// StatusCode returns the HTTP status of err if it is an *APIError, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
