package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/process-engine/logrepo/internal/config"
	"github.com/process-engine/logrepo/internal/logentry"
	"github.com/process-engine/logrepo/internal/logstore"
	"github.com/process-engine/logrepo/internal/osfs"
	"github.com/process-engine/logrepo/internal/store"
	"github.com/process-engine/logrepo/internal/testutil"
)

// ClockStart is the first timestamp the step clock hands out.
var ClockStart = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// ClockStep is the distance between consecutive clock readings.
const ClockStep = time.Second

// sqliteRoot is the virtual output root used with the sqlite backend.
const sqliteRoot = "/logs"

// Harness is the test execution engine.
// It runs scenarios with a deterministic clock and correlation ids.
type Harness struct {
	repo   *logstore.Repository
	fs     logstore.FileSystem
	codec  *logentry.Codec
	root   string
	clock  *testutil.StepClock
	ids    *testutil.FixedIDGenerator
	logger *slog.Logger
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs against a fresh backend for isolation.
//
// Execution flow:
// 1. Create a temporary directory (os) or in-memory database (sqlite)
// 2. Build the repository from the scenario settings
// 3. Execute steps, checking expected errors
// 4. Evaluate assertions
// 5. Return result with pass/fail, trace, and errors
func Run(scenario *Scenario) (*Result, error) {
	scenario.applyDefaults()
	if err := validateScenario(scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	var (
		fsys logstore.FileSystem
		root string
	)
	switch scenario.Backend {
	case config.BackendSQLite:
		st, err := store.Open(":memory:")
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory store: %w", err)
		}
		defer st.Close()
		fsys, root = st, sqliteRoot
	default:
		dir, err := os.MkdirTemp("", "logrepo-scenario-")
		if err != nil {
			return nil, fmt.Errorf("failed to create scenario root: %w", err)
		}
		defer os.RemoveAll(dir)
		fsys, root = osfs.New(), filepath.Join(dir, "logs")
	}

	codec, err := logentry.NewCodec(scenario.Format)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil)) // Suppress logs in tests
	opts := []logstore.Option{logstore.WithLogger(logger)}
	if scenario.SortByTimestamp {
		opts = append(opts, logstore.WithTimestampOrdering())
	}

	h := &Harness{
		repo:   logstore.New(fsys, codec, logstore.Addressing{Scheme: scenario.Addressing, Root: root}, opts...),
		fs:     fsys,
		codec:  codec,
		root:   root,
		clock:  testutil.NewStepClock(ClockStart, ClockStep),
		ids:    testutil.NewFixedIDGenerator(scenario.CorrelationID),
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()

	for i, step := range scenario.Steps {
		switch {
		case step.Write != nil:
			h.executeWrite(ctx, i+1, step.Write, result)
		case step.Read != nil:
			h.executeRead(ctx, i+1, step.Read, result)
		}
	}

	actx := &AssertionContext{
		Repo: h.repo,
		FS:   h.fs,
		Root: h.root,
		Ctx:  ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeWrite appends one entry and records it in the trace.
func (h *Harness) executeWrite(ctx context.Context, n int, step *WriteStep, result *Result) {
	entry, err := h.buildEntry(step)
	if err == nil {
		if entry.IsFlowNode() {
			err = h.repo.WriteLogForFlowNode(ctx, entry.CorrelationID, entry.ProcessModelID, entry.ProcessInstanceID,
				entry.FlowNodeInstanceID, entry.FlowNodeID, entry.LogLevel, entry.Message, entry.Timestamp)
		} else {
			err = h.repo.WriteLogForProcessModel(ctx, entry.CorrelationID, entry.ProcessModelID, entry.ProcessInstanceID,
				entry.LogLevel, entry.Message, entry.Timestamp)
		}
	}

	if !h.checkError(n, OpWrite, step.ProcessModel, step.ExpectError, err, result) {
		return
	}

	path, err := h.repo.Addressing().ProcessModelPath(entry.CorrelationID, entry.ProcessModelID)
	if err != nil {
		result.AddError(fmt.Sprintf("step %d: resolve path: %v", n, err))
		return
	}
	line, err := h.codec.Encode(entry)
	if err != nil {
		result.AddError(fmt.Sprintf("step %d: encode: %v", n, err))
		return
	}

	result.AddWriteTrace(n, h.relative(path), line)
	h.logger.Info("write step completed", "step", n, "path", path)
}

// executeRead reads entries and records them in the trace.
func (h *Harness) executeRead(ctx context.Context, n int, step *ReadStep, result *Result) {
	target := readTarget(step.Correlation, step.ProcessModel)
	entries, err := h.read(ctx, step.Correlation, step.ProcessModel)
	if !h.checkError(n, OpRead, target, step.ExpectError, err, result) {
		return
	}

	rendered := make([]string, len(entries))
	for i, e := range entries {
		rendered[i] = describeEntry(e)
	}
	result.AddReadTrace(n, target, rendered)
	h.logger.Info("read step completed", "step", n, "target", target, "entries", len(entries))
}

// checkError compares err against the expected error code and reports
// whether the step succeeded.
func (h *Harness) checkError(n int, op, target, expect string, err error, result *Result) bool {
	if err == nil {
		if expect != "" {
			result.AddError(fmt.Sprintf("step %d: %s succeeded, want error %s", n, op, expect))
		}
		return true
	}

	code := errorCode(err)
	result.AddErrorTrace(n, op, target, code)
	switch {
	case expect == "":
		result.AddError(fmt.Sprintf("step %d: %s failed: %v", n, op, err))
	case expect != code:
		result.AddError(fmt.Sprintf("step %d: %s failed with %s, want %s: %v", n, op, code, expect, err))
	}
	return false
}

func (h *Harness) buildEntry(step *WriteStep) (logentry.LogEntry, error) {
	level := logentry.LevelInfo
	if step.Level != "" {
		var err error
		if level, err = logentry.ParseLevel(step.Level); err != nil {
			return logentry.LogEntry{}, err
		}
	}

	var ts time.Time
	if step.Timestamp != "" {
		var err error
		if ts, err = logentry.ParseTimestamp(step.Timestamp); err != nil {
			return logentry.LogEntry{}, err
		}
	} else {
		ts = h.clock.Now()
	}

	correlation := step.Correlation
	if correlation == "" {
		correlation = h.ids.Generate()
	}

	if step.FlowNodeInstance != "" || step.FlowNode != "" {
		return logentry.NewFlowNodeEntry(correlation, step.ProcessModel, step.ProcessInstance,
			step.FlowNodeInstance, step.FlowNode, level, step.Message, ts), nil
	}
	return logentry.NewProcessModelEntry(correlation, step.ProcessModel, step.ProcessInstance,
		level, step.Message, ts), nil
}

// read selects a process model read when processModel is set.
func (h *Harness) read(ctx context.Context, correlation, processModel string) ([]logentry.LogEntry, error) {
	if processModel != "" {
		return h.repo.ReadLogForProcessModel(ctx, correlation, processModel)
	}
	return h.repo.ReadLogForCorrelation(ctx, correlation)
}

// relative returns path relative to the scenario root, slash separated.
func (h *Harness) relative(path string) string {
	rel, err := filepath.Rel(h.root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

func readTarget(correlation, processModel string) string {
	var parts []string
	if correlation != "" {
		parts = append(parts, "correlation="+correlation)
	}
	if processModel != "" {
		parts = append(parts, "process_model="+processModel)
	}
	return strings.Join(parts, " ")
}

// describeEntry renders every field of an entry on one line.
func describeEntry(e logentry.LogEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %s %s/%s", e.Kind, e.Timestamp.UTC().Format(time.RFC3339Nano), e.LogLevel, e.CorrelationID, e.ProcessModelID)
	if e.ProcessInstanceID != "" {
		fmt.Fprintf(&sb, "#%s", e.ProcessInstanceID)
	}
	if e.IsFlowNode() {
		fmt.Fprintf(&sb, " [%s %s]", e.FlowNodeID, e.FlowNodeInstanceID)
	}
	fmt.Fprintf(&sb, " %q", e.Message)
	return sb.String()
}

// errorCode classifies a repository error.
func errorCode(err error) string {
	var codecErr *logentry.CodecError
	var addrErr *logstore.AddressError
	switch {
	case errors.As(err, &codecErr):
		return string(codecErr.Code)
	case errors.As(err, &addrErr):
		return "INVALID_ADDRESS"
	case errors.Is(err, logstore.ErrCorrelationReadUnsupported):
		return "UNSUPPORTED"
	case errors.Is(err, fs.ErrNotExist):
		return "NOT_FOUND"
	}
	return "IO_ERROR"
}
