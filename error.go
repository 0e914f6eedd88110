package linkz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Runtime dispatch errors. They always reach the driver wrapped in *Error.
var (
	ErrNoConsumer = errors.New("producer has no consumer")
	ErrPanic      = errors.New("handler panicked")
)

// Error provides rich context about a failed dispatch.
// Path lists node names from the node the driver called down to the node
// that failed, so a failure three stages deep reads "head -> mid -> tail".
type Error struct {
	Timestamp time.Time
	Err       error
	Values    Tuple
	Path      []Name
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, providing a detailed error message.
func (e *Error) Error() string {
	path := strings.Join(e.Path, " -> ")

	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", path, e.Duration, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", path, e.Duration, e.Err)
	}
	return fmt.Sprintf("%s failed after %v: %v", path, e.Duration, e.Err)
}

// Unwrap returns the underlying error, supporting errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *Error) IsTimeout() bool {
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error) IsCanceled() bool {
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// prefixed returns a copy of err with name prepended to its path. Errors
// that did not come from a node are wrapped first. The original *Error is
// never modified; consumers may hand back a shared value.
func prefixed(name Name, err error, values Tuple, ts time.Time) *Error {
	var nodeErr *Error
	if errors.As(err, &nodeErr) {
		path := make([]Name, 0, len(nodeErr.Path)+1)
		path = append(path, name)
		path = append(path, nodeErr.Path...)
		return &Error{
			Timestamp: nodeErr.Timestamp,
			Err:       nodeErr.Err,
			Values:    nodeErr.Values,
			Path:      path,
			Duration:  nodeErr.Duration,
			Timeout:   nodeErr.Timeout,
			Canceled:  nodeErr.Canceled,
		}
	}
	return &Error{
		Timestamp: ts,
		Values:    values,
		Err:       err,
		Path:      []Name{name},
	}
}

// recoverFromPanic converts a handler panic into an *Error.
func recoverFromPanic(err *error, name Name, values Tuple, ts time.Time) {
	if r := recover(); r != nil {
		*err = &Error{
			Timestamp: ts,
			Values:    values,
			Err:       fmt.Errorf("%w: %v", ErrPanic, r),
			Path:      []Name{name},
		}
	}
}
