package game

import (
	"errors"
	"fmt"
)

// ErrValidationRejected marks a client-originable event that failed
// Validate. It is non-fatal: the event is discarded, the connection
// stays open, and state is untouched.
var ErrValidationRejected = errors.New("event rejected by validation")

// ErrDecodeFailure marks an inbound message that matched neither the
// control nor the game schema. Non-fatal, discarded.
var ErrDecodeFailure = errors.New("message decode failure")

// InternalError reports an invariant violation inside Consume or the
// rule cascade: a lookup failed against data prior validation was
// supposed to guarantee. This is a defect in the reduction engine (or
// a server-only event whose assumed invariants were false), never a
// user-input error, and callers must abort the session rather than
// continue on corrupt state.
type InternalError struct {
	Op     string
	Detail string
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("internal consistency error in %s: %s", e.Op, e.Detail)
}

func internalErrorf(op, format string, args ...any) error {
	return &InternalError{Op: op, Detail: fmt.Sprintf(format, args...)}
}

// IsInternal reports whether err is an internal-consistency error.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
