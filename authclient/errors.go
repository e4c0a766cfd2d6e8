package authclient

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// SessionInvalidErr signals that a call requiring authentication failed
	// and the persisted session must be discarded.
	SessionInvalidErr = errors.New("session invalid, please log in again")
)

// ServiceError is reported when the remote service responds with a
// non-success status. The message is taken from the response body's "detail"
// field when present, otherwise a generic status-code message.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

// TransportError is reported when a request could not complete at all:
// network unreachable, connection reset, or an unreadable response. The
// controller treats it the same as a ServiceError since no retry policy
// exists in this client.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
