// Package apperr defines the error taxonomy shared by services and handlers.
//
// ValidationError never reaches the network and blocks submission locally.
// AuthError and NotAuthenticated gate access to protected resources.
// NetworkUnreachable means a collaborator request got no response at all;
// ServerRejected means a response arrived with an error status and carries
// the collaborator's message for verbatim display.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated signals that a required identifier is absent from the
// session. Callers must surface an explicit error state, never an empty view.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrAuth signals rejected credentials or a missing/mismatched role.
var ErrAuth = errors.New("authentication failed")

// ValidationError carries field-level messages for a failed local check.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// NewValidation builds a ValidationError over a field→message map.
func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// NetworkUnreachableError means the request never got a response.
type NetworkUnreachableError struct {
	Op  string
	Err error
}

func (e *NetworkUnreachableError) Error() string {
	return fmt.Sprintf("%s: upstream unreachable: %v", e.Op, e.Err)
}

func (e *NetworkUnreachableError) Unwrap() error { return e.Err }

// ServerRejectedError means the collaborator answered with an error status.
// Message is the server-supplied text, surfaced verbatim to the user.
type ServerRejectedError struct {
	Op      string
	Status  int
	Message string
}

func (e *ServerRejectedError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: upstream rejected (%d): %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: upstream rejected (%d)", e.Op, e.Status)
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// IsNetworkUnreachable reports whether err wraps a NetworkUnreachableError.
func IsNetworkUnreachable(err error) bool {
	var ne *NetworkUnreachableError
	return errors.As(err, &ne)
}

// IsServerRejected reports whether err wraps a ServerRejectedError and
// returns it.
func IsServerRejected(err error) (*ServerRejectedError, bool) {
	var se *ServerRejectedError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
