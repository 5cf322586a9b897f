package eventstream

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig is returned when a manager or stream configuration is
	// rejected. Nothing is registered when it is returned.
	ErrInvalidConfig = errors.New("eventstream: invalid configuration")

	// ErrInvalidMatcher is returned for malformed target matchers.
	ErrInvalidMatcher = errors.New("eventstream: invalid matcher")

	// ErrInvalidSnapshot is returned when snapshot entries are malformed.
	ErrInvalidSnapshot = errors.New("eventstream: invalid snapshot")

	// ErrReentrantDispatch is returned when a handler calls Deliver on the
	// manager that is currently invoking it.
	ErrReentrantDispatch = errors.New("eventstream: dispatch re-entered from handler")

	// ErrInvalidScript is returned when an input script cannot be parsed.
	ErrInvalidScript = errors.New("eventstream: invalid script")
)

// HandlerError records a failure returned by one stream's handler.
type HandlerError struct {
	Stream string
	ID     StreamID
	Event  EventType
	Err    error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("eventstream: stream %q handling %s: %v", e.Stream, e.Event, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }
