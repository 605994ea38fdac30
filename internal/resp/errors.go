package resp

import (
	"errors"
	"fmt"
)

var (
	// ErrProtocol is wrapped by every DecodeError
	ErrProtocol = errors.New("resp: protocol error")

	// ErrLimitExceeded is returned when an opt-in decoder limit is hit
	ErrLimitExceeded = errors.New("resp: limit exceeded")
)

// DecodeError reports a malformed value. The connection it was read from is
// no longer usable.
type DecodeError struct {
	Msg string
	Err error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", ErrProtocol, e.Msg, e.Err)
	}

	return fmt.Sprintf("%s: %s", ErrProtocol, e.Msg)
}

// Unwrap exposes both ErrProtocol and the underlying cause.
func (e *DecodeError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrProtocol, e.Err}
	}

	return []error{ErrProtocol}
}

func decodeErrorf(format string, args ...any) *DecodeError {
	return &DecodeError{Msg: fmt.Sprintf(format, args...)}
}
