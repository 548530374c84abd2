package campus

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	// ErrValidation indicates a request failed validation.
	ErrValidation = errors.New("validation error")

	// ErrStreamUnavailable indicates the chat response exposed no readable body.
	ErrStreamUnavailable = errors.New("stream unavailable: response has no body")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")

	// ErrUnauthorized indicates the API rejected the credentials or token.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNotLoggedIn indicates an operation needs an identity that is not present.
	ErrNotLoggedIn = errors.New("not logged in")
)

// UpstreamError is an error reported in-band by the backend while streaming.
// By the time it is returned the handler's OnError has already been called.
type UpstreamError struct {
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream error: %s", e.Message)
}
