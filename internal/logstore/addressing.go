package logstore

import (
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Scheme selects how identifiers map to file paths.
type Scheme string

const (
	// SchemeFlat stores one file per process model: {root}/{processModelId}.log
	SchemeFlat Scheme = "flat"

	// SchemeNested stores one file per correlation and process model:
	// {root}/{correlationId}/{processModelId}
	SchemeNested Scheme = "nested"
)

// flatExtension is appended to process model ids under SchemeFlat.
const flatExtension = ".log"

// ParseScheme validates a scheme name.
func ParseScheme(name string) (Scheme, error) {
	switch s := Scheme(name); s {
	case SchemeFlat, SchemeNested:
		return s, nil
	}
	return "", fmt.Errorf("unknown addressing scheme %q (want %q or %q)", name, SchemeFlat, SchemeNested)
}

// Addressing resolves identifiers to paths below Root.
type Addressing struct {
	Scheme Scheme
	Root   string
}

// ProcessModelPath returns the file that holds the entries of a process
// model. SchemeFlat ignores correlationID.
func (a Addressing) ProcessModelPath(correlationID, processModelID string) (string, error) {
	model, err := pathSegment("process model id", processModelID)
	if err != nil {
		return "", err
	}

	switch a.Scheme {
	case SchemeFlat:
		return filepath.Join(a.Root, model+flatExtension), nil
	case SchemeNested:
		dir, err := a.CorrelationDir(correlationID)
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, model), nil
	}
	return "", fmt.Errorf("unknown addressing scheme %q", a.Scheme)
}

// CorrelationDir returns the directory holding every file of a correlation.
// Only SchemeNested has one.
func (a Addressing) CorrelationDir(correlationID string) (string, error) {
	if a.Scheme != SchemeNested {
		return "", ErrCorrelationReadUnsupported
	}
	corr, err := pathSegment("correlation id", correlationID)
	if err != nil {
		return "", err
	}
	return filepath.Join(a.Root, corr), nil
}

// pathSegment NFC-normalizes an identifier and rejects values that would
// escape or alias the intended directory.
func pathSegment(field, id string) (string, error) {
	seg := norm.NFC.String(id)
	switch {
	case seg == "":
		return "", &AddressError{Field: field, Value: id, Reason: "must not be empty"}
	case seg == "." || seg == "..":
		return "", &AddressError{Field: field, Value: id, Reason: "must not be a relative path element"}
	case strings.ContainsAny(seg, `/\`):
		return "", &AddressError{Field: field, Value: id, Reason: "must not contain a path separator"}
	case strings.ContainsRune(seg, 0):
		return "", &AddressError{Field: field, Value: id, Reason: "must not contain NUL"}
	}
	return seg, nil
}
