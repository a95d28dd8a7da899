package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned when a request exceeds its deadline. It is
	// never retried automatically; callers may offer a manual retry.
	ErrTimeout = errors.New("request timed out")

	// ErrUnreachable is returned when the server cannot be reached at all
	// (connection refused, DNS failure, no route).
	ErrUnreachable = errors.New("server unreachable, check your connection")
)

// APIError is a non-2xx response from the server. Message carries the body's
// error text when present, else a generic "HTTP {status}".
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (HTTP %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: HTTP %d", e.Status)
}
