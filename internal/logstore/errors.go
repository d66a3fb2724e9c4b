package logstore

import (
	"errors"
	"fmt"
)

// ErrCorrelationReadUnsupported is returned by ReadLogForCorrelation when the
// active addressing scheme does not group files by correlation.
var ErrCorrelationReadUnsupported = errors.New("correlation reads require nested addressing")

// LineError reports a line of a log file that could not be decoded.
// It unwraps to the codec error.
type LineError struct {
	Path string
	Line int // 1-based
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// AddressError reports an identifier that cannot be used as a path segment.
type AddressError struct {
	Field  string
	Value  string
	Reason string
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}
