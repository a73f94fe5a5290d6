package bus

import (
	"github.com/pkg/errors"
)

// Error is the single failure kind of the transport: a pin or transfer
// operation that did not complete. The composite operation that hit it has
// been aborted; nothing is retried.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return "bus: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.Err }

// Cause implements the github.com/pkg/errors causer interface.
func (e *Error) Cause() error { return e.Err }

// IsTransportError reports whether err was raised by a Transport.
func IsTransportError(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
