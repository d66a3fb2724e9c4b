package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RenderTrace renders a trace as stable text for golden comparison.
// Encoded lines are quoted so tabs and escapes stay visible.
func RenderTrace(scenarioName string, trace []TraceEvent) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", scenarioName)
	for _, ev := range trace {
		switch {
		case ev.Error != "":
			fmt.Fprintf(&b, "[%d] %s %s: error %s\n", ev.Step, ev.Op, ev.Target, ev.Error)
		case ev.Op == OpWrite:
			fmt.Fprintf(&b, "[%d] write %s\n", ev.Step, ev.Path)
			fmt.Fprintf(&b, "    %q\n", ev.Line)
		default:
			fmt.Fprintf(&b, "[%d] read %s (%d entries)\n", ev.Step, ev.Target, len(ev.Entries))
			for _, e := range ev.Entries {
				fmt.Fprintf(&b, "    %s\n", e)
			}
		}
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares the trace against a golden file.
// The golden file is stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass and Errors.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares the given result's trace against a golden file.
// This is useful when you've already run a scenario and want to compare
// the result against a golden file without re-running.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, RenderTrace(scenarioName, result.Trace))
}
