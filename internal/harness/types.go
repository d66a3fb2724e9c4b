package harness

// Trace operations.
const (
	OpWrite = "write"
	OpRead  = "read"
)

// TraceEvent records the outcome of one scenario step.
type TraceEvent struct {
	Step int    `json:"step"` // 1-based
	Op   string `json:"op"`   // OpWrite or OpRead

	// Path is the written file relative to the scenario root (writes).
	Path string `json:"path,omitempty"`

	// Line is the encoded line that was appended (writes).
	Line string `json:"line,omitempty"`

	// Target describes the read selector (reads).
	Target string `json:"target,omitempty"`

	// Entries are the rendered entries returned (reads).
	Entries []string `json:"entries,omitempty"`

	// Error is the error code of a failed step.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every step behaved as expected and
	// every assertion held.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddWriteTrace records a successful append.
func (r *Result) AddWriteTrace(step int, path, line string) {
	r.Trace = append(r.Trace, TraceEvent{Step: step, Op: OpWrite, Path: path, Line: line})
}

// AddReadTrace records a successful read.
func (r *Result) AddReadTrace(step int, target string, entries []string) {
	if entries == nil {
		entries = []string{}
	}
	r.Trace = append(r.Trace, TraceEvent{Step: step, Op: OpRead, Target: target, Entries: entries})
}

// AddErrorTrace records a failed step.
func (r *Result) AddErrorTrace(step int, op, target, code string) {
	r.Trace = append(r.Trace, TraceEvent{Step: step, Op: op, Target: target, Error: code})
}

// Writes returns the write events of the trace that succeeded.
func (r *Result) Writes() []TraceEvent {
	var out []TraceEvent
	for _, ev := range r.Trace {
		if ev.Op == OpWrite && ev.Error == "" {
			out = append(out, ev)
		}
	}
	return out
}
