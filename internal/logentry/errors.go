package logentry

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes codec errors.
type ErrorCode string

const (
	// ErrCodeMalformedTimestamp indicates a timestamp field that is not a
	// recognizable date/time string.
	ErrCodeMalformedTimestamp ErrorCode = "MALFORMED_TIMESTAMP"

	// ErrCodeUnknownLogLevel indicates a level name outside the enumeration.
	ErrCodeUnknownLogLevel ErrorCode = "UNKNOWN_LOG_LEVEL"

	// ErrCodeUnencodableField indicates a value that would corrupt a line in
	// a revision without escaping.
	ErrCodeUnencodableField ErrorCode = "UNENCODABLE_FIELD"

	// ErrCodeUnknownFormat indicates a format name with no codec.
	ErrCodeUnknownFormat ErrorCode = "UNKNOWN_FORMAT"
)

// CodecError is returned when a record cannot be encoded or decoded.
type CodecError struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Field names the offending record field, if any.
	Field string

	// Value is the offending raw value.
	Value string

	// Err is the underlying cause (e.g. a time.ParseError).
	Err error
}

// Error implements the error interface.
func (e *CodecError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Field != "" {
		msg = fmt.Sprintf("%s (field=%s, value=%q)", msg, e.Field, e.Value)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *CodecError) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ce *CodecError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}

// IsMalformedTimestamp reports whether err is a MALFORMED_TIMESTAMP error.
func IsMalformedTimestamp(err error) bool {
	return hasCode(err, ErrCodeMalformedTimestamp)
}

// IsUnknownLogLevel reports whether err is an UNKNOWN_LOG_LEVEL error.
func IsUnknownLogLevel(err error) bool {
	return hasCode(err, ErrCodeUnknownLogLevel)
}

// IsUnencodableField reports whether err is an UNENCODABLE_FIELD error.
func IsUnencodableField(err error) bool {
	return hasCode(err, ErrCodeUnencodableField)
}
