package harness

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/process-engine/logrepo/internal/logentry"
	"github.com/process-engine/logrepo/internal/logstore"
)

// AssertionContext gives assertions access to the repository under test.
type AssertionContext struct {
	Repo *logstore.Repository
	FS   logstore.FileSystem
	Root string
	Ctx  context.Context
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		switch {
		case event.Error != "":
			fmt.Fprintf(&buf, "  [%d] %s %s: %s\n", event.Step, event.Op, event.Target, event.Error)
		case event.Op == OpWrite:
			fmt.Fprintf(&buf, "  [%d] write %s\n", event.Step, event.Path)
		default:
			fmt.Fprintf(&buf, "  [%d] read %s (%d entries)\n", event.Step, event.Target, len(event.Entries))
		}
	}

	return buf.String()
}

// EvaluateAssertions runs all assertions and returns failure messages.
// Every assertion is evaluated, so one run reports all failures.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var failures []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a, actx); err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

func evaluateAssertion(result *Result, a Assertion, actx *AssertionContext) error {
	switch a.Type {
	case AssertEntryCount:
		return assertEntryCount(result.Trace, a, actx)
	case AssertMessageOrder:
		return assertMessageOrder(result.Trace, a, actx)
	case AssertFileLines:
		return assertFileLines(result.Trace, a, actx)
	case AssertWriteCount:
		return assertWriteCount(result, a)
	}
	return fmt.Errorf("unknown assertion type %q", a.Type)
}

// assertEntryCount reads the selected entries and checks their number.
func assertEntryCount(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	entries, err := readFor(actx, a)
	if err != nil {
		return &AssertionError{
			Type:     AssertEntryCount,
			Expected: fmt.Sprintf("%d entries for %s", a.Count, readTarget(a.Correlation, a.ProcessModel)),
			Actual:   fmt.Sprintf("read failed: %v", err),
			Trace:    trace,
		}
	}
	if len(entries) != a.Count {
		return &AssertionError{
			Type:     AssertEntryCount,
			Expected: fmt.Sprintf("%d entries for %s", a.Count, readTarget(a.Correlation, a.ProcessModel)),
			Actual:   fmt.Sprintf("%d entries", len(entries)),
			Trace:    trace,
		}
	}
	return nil
}

// assertMessageOrder reads the selected entries and compares their
// messages with the expected sequence.
func assertMessageOrder(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	entries, err := readFor(actx, a)
	if err != nil {
		return &AssertionError{
			Type:     AssertMessageOrder,
			Expected: fmt.Sprintf("messages %q", a.Messages),
			Actual:   fmt.Sprintf("read failed: %v", err),
			Trace:    trace,
		}
	}

	messages := make([]string, len(entries))
	for i, e := range entries {
		messages[i] = e.Message
	}
	if !slices.Equal(messages, a.Messages) {
		return &AssertionError{
			Type:     AssertMessageOrder,
			Expected: fmt.Sprintf("messages %q", a.Messages),
			Actual:   fmt.Sprintf("messages %q", messages),
			Trace:    trace,
		}
	}
	return nil
}

// assertFileLines counts the non-empty lines of a file below the root.
func assertFileLines(trace []TraceEvent, a Assertion, actx *AssertionContext) error {
	path := filepath.Join(actx.Root, filepath.FromSlash(a.Path))
	content, err := actx.FS.ReadFile(actx.Ctx, path)
	if err != nil {
		return &AssertionError{
			Type:     AssertFileLines,
			Expected: fmt.Sprintf("%d lines in %s", a.Count, a.Path),
			Actual:   fmt.Sprintf("read failed: %v", err),
			Trace:    trace,
		}
	}

	lines := 0
	for _, line := range strings.Split(content, "\n") {
		if line != "" {
			lines++
		}
	}
	if lines != a.Count {
		return &AssertionError{
			Type:     AssertFileLines,
			Expected: fmt.Sprintf("%d lines in %s", a.Count, a.Path),
			Actual:   fmt.Sprintf("%d lines", lines),
			Trace:    trace,
		}
	}
	return nil
}

// assertWriteCount checks how many writes succeeded.
func assertWriteCount(result *Result, a Assertion) error {
	if n := len(result.Writes()); n != a.Count {
		return &AssertionError{
			Type:     AssertWriteCount,
			Expected: fmt.Sprintf("%d successful writes", a.Count),
			Actual:   fmt.Sprintf("%d successful writes", n),
			Trace:    result.Trace,
		}
	}
	return nil
}

func readFor(actx *AssertionContext, a Assertion) ([]logentry.LogEntry, error) {
	if a.ProcessModel != "" {
		return actx.Repo.ReadLogForProcessModel(actx.Ctx, a.Correlation, a.ProcessModel)
	}
	return actx.Repo.ReadLogForCorrelation(actx.Ctx, a.Correlation)
}
