package logentry

import (
	"golang.org/x/text/cases"
)

// Level is a log severity, stored on disk by its textual name.
// The empty Level means the field was absent from a decoded line.
type Level string

const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Levels lists the known severities in ascending order.
var Levels = []Level{LevelDebug, LevelInfo, LevelWarning, LevelError}

var levelAliases = map[string]Level{
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warning": LevelWarning,
	"warn":    LevelWarning,
	"error":   LevelError,
}

// ParseLevel looks a level up by name. Matching ignores case and accepts
// "warn" for LevelWarning. A Caser is stateful, so one is built per call.
func ParseLevel(name string) (Level, error) {
	if lvl, ok := levelAliases[cases.Fold().String(name)]; ok {
		return lvl, nil
	}
	return "", &CodecError{
		Code:    ErrCodeUnknownLogLevel,
		Field:   "log_level",
		Value:   name,
		Message: "no such log level",
	}
}

// String returns the on-disk name of the level.
func (l Level) String() string {
	return string(l)
}
