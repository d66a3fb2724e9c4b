package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/process-engine/logrepo/internal/config"
	"github.com/process-engine/logrepo/internal/logentry"
	"github.com/process-engine/logrepo/internal/logstore"
)

// Scenario defines a conformance test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Addressing is the path scheme. Default: flat.
	Addressing logstore.Scheme `yaml:"addressing,omitempty"`

	// Format is the line format revision. Default: semicolon.
	Format logentry.Format `yaml:"format,omitempty"`

	// Backend selects the filesystem. Default: os.
	Backend config.Backend `yaml:"backend,omitempty"`

	// SortByTimestamp orders correlation reads chronologically.
	SortByTimestamp bool `yaml:"sort_by_timestamp,omitempty"`

	// CorrelationID is used by writes that don't name a correlation.
	// If empty, defaults to "test-correlation-default".
	CorrelationID string `yaml:"correlation_id,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the repository state after all steps.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is either a write or a read.
type Step struct {
	Write *WriteStep `yaml:"write,omitempty"`
	Read  *ReadStep  `yaml:"read,omitempty"`
}

// WriteStep appends one entry. The entry is a flow node entry when
// FlowNodeInstance or FlowNode is set.
type WriteStep struct {
	Correlation      string `yaml:"correlation,omitempty"`
	ProcessModel     string `yaml:"process_model"`
	ProcessInstance  string `yaml:"process_instance,omitempty"`
	FlowNodeInstance string `yaml:"flow_node_instance,omitempty"`
	FlowNode         string `yaml:"flow_node,omitempty"`
	Level            string `yaml:"level,omitempty"` // default info
	Message          string `yaml:"message"`

	// Timestamp in RFC 3339. If empty, the step clock supplies one.
	Timestamp string `yaml:"timestamp,omitempty"`

	// ExpectError is the error code the write must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// ReadStep reads a process model when ProcessModel is set, otherwise a
// whole correlation.
type ReadStep struct {
	Correlation  string `yaml:"correlation,omitempty"`
	ProcessModel string `yaml:"process_model,omitempty"`

	// ExpectError is the error code the read must fail with.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Assertion validates the repository state after the steps ran.
type Assertion struct {
	// Type specifies the assertion type:
	// - "entry_count": a read returns exactly Count entries
	// - "message_order": a read returns exactly Messages, in order
	// - "file_lines": the file at Path holds exactly Count lines
	// - "write_count": exactly Count writes succeeded
	Type string `yaml:"type"`

	// Correlation and ProcessModel select the read (entry_count, message_order).
	Correlation  string `yaml:"correlation,omitempty"`
	ProcessModel string `yaml:"process_model,omitempty"`

	// Path is relative to the scenario root (file_lines).
	Path string `yaml:"path,omitempty"`

	// Count is the expected number of entries, lines or writes.
	Count int `yaml:"count,omitempty"`

	// Messages is the expected message sequence (message_order).
	Messages []string `yaml:"messages,omitempty"`
}

// Assertion type constants.
const (
	AssertEntryCount   = "entry_count"
	AssertMessageOrder = "message_order"
	AssertFileLines    = "file_lines"
	AssertWriteCount   = "write_count"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	scenario.applyDefaults()
	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// applyDefaults fills in the repository settings a scenario left out.
func (s *Scenario) applyDefaults() {
	if s.Addressing == "" {
		s.Addressing = logstore.SchemeFlat
	}
	if s.Format == "" {
		s.Format = logentry.FormatSemicolon
	}
	if s.Backend == "" {
		s.Backend = config.BackendOS
	}
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if _, err := logstore.ParseScheme(string(s.Addressing)); err != nil {
		return err
	}

	if _, err := logentry.NewCodec(s.Format); err != nil {
		return err
	}

	if s.Backend != config.BackendOS && s.Backend != config.BackendSQLite {
		return fmt.Errorf("unknown backend %q", s.Backend)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		switch {
		case step.Write != nil && step.Read != nil:
			return fmt.Errorf("steps[%d]: write and read are mutually exclusive", i)
		case step.Write != nil:
			if step.Write.ProcessModel == "" {
				return fmt.Errorf("steps[%d].write: process_model is required", i)
			}
		case step.Read != nil:
			if step.Read.ProcessModel == "" && step.Read.Correlation == "" {
				return fmt.Errorf("steps[%d].read: process_model or correlation is required", i)
			}
		default:
			return fmt.Errorf("steps[%d]: write or read is required", i)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertEntryCount, AssertMessageOrder:
		if a.ProcessModel == "" && a.Correlation == "" {
			return fmt.Errorf("assertions[%d]: process_model or correlation is required for %s", index, a.Type)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for %s", index, a.Type)
		}
	case AssertFileLines:
		if a.Path == "" {
			return fmt.Errorf("assertions[%d]: path is required for file_lines", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for file_lines", index)
		}
	case AssertWriteCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for write_count", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
