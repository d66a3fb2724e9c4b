package logentry

import (
	"time"
)

// millisLayout matches the ISO-8601 strings written by the legacy revisions.
const millisLayout = "2006-01-02T15:04:05.000Z07:00"

// Accepted timestamp layouts, tried in order. Fractional seconds are accepted
// after the seconds field by every layout. Layouts without a zone yield UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 timestamp field. The empty string
// decodes to the zero time.
func ParseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	var firstErr error
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, &CodecError{
		Code:    ErrCodeMalformedTimestamp,
		Message: "not a recognizable date/time",
		Field:   "timestamp",
		Value:   s,
		Err:     firstErr,
	}
}

func formatTimestamp(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(layout)
}
