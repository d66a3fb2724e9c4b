package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/process-engine/logrepo/internal/logentry"
)

type writeResponse struct {
	Status string      `json:"status"`
	Data   WriteResult `json:"data"`
}

func TestWrite_ProcessModelFlat(t *testing.T) {
	cfgPath, root := writeTestConfig(t, "")

	out, err := runCLI(t, newTestOptions(), "--config", cfgPath,
		"write", "--correlation", "c1", "--process-model", "model-A", "process", "started")
	require.NoError(t, err)

	path := filepath.Join(root, "model-A.log")
	assert.Contains(t, out, "Appended ProcessModel entry to "+path)
	assert.Contains(t, out, "Correlation: c1")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ProcessModel;2024-05-01T10:00:00Z;c1;model-A;;;;info;process started\n", string(data))
}

func TestWrite_FlowNode(t *testing.T) {
	cfgPath, root := writeTestConfig(t, "")

	_, err := runCLI(t, newTestOptions(), "--config", cfgPath,
		"write", "--correlation", "c1", "--process-model", "model-A", "--process-instance", "inst-1",
		"--flow-node-instance", "fni-7", "--flow-node", "task-1", "--level", "WARN", "retrying; attempt 2")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "model-A.log"))
	require.NoError(t, err)
	assert.Equal(t,
		"FlowNodeInstance;2024-05-01T10:00:00Z;c1;model-A;inst-1;fni-7;task-1;warning;retrying\\; attempt 2\n",
		string(data))
}

func TestWrite_AppendsInOrder(t *testing.T) {
	cfgPath, root := writeTestConfig(t, "")
	opts := newTestOptions()

	for _, msg := range []string{"one", "two", "three"} {
		_, err := runCLI(t, opts, "--config", cfgPath, "write", "--process-model", "model-A", msg)
		require.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(root, "model-A.log"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], ";one"))
	assert.True(t, strings.HasSuffix(lines[1], ";two"))
	assert.True(t, strings.HasSuffix(lines[2], ";three"))
	assert.Contains(t, lines[2], "2024-05-01T10:00:02Z", "step clock advances per write")
}

func TestWrite_DefaultCorrelation(t *testing.T) {
	cfgPath, root := writeTestConfig(t, "addressing: nested\n")

	out, err := runCLI(t, newTestOptions(), "--config", cfgPath, "write", "--process-model", "model-A", "hello")
	require.NoError(t, err)
	assert.Contains(t, out, "Correlation: corr-1")
	assert.FileExists(t, filepath.Join(root, "corr-1", "model-A"))
}

func TestWrite_JSON(t *testing.T) {
	cfgPath, root := writeTestConfig(t, "")

	out, err := runCLI(t, newTestOptions(), "--config", cfgPath, "--format", "json",
		"write", "--correlation", "c1", "--process-model", "model-A", "--timestamp", "2024-06-01T08:30:00.5+02:00", "hello")
	require.NoError(t, err)

	var resp writeResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, filepath.Join(root, "model-A.log"), resp.Data.Path)
	assert.Equal(t, logentry.KindProcessModel, resp.Data.Entry.Kind)
	assert.Equal(t, "c1", resp.Data.Entry.CorrelationID)
	assert.Equal(t, logentry.LevelInfo, resp.Data.Entry.LogLevel)
	assert.True(t, resp.Data.Entry.Timestamp.Equal(time.Date(2024, 6, 1, 6, 30, 0, 500_000_000, time.UTC)))
}

func TestWrite_LegacyFormat(t *testing.T) {
	cfgPath, root := writeTestConfig(t, "format: tab\n")

	_, err := runCLI(t, newTestOptions(), "--config", cfgPath,
		"write", "--correlation", "c1", "--process-model", "model-A", "done")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(root, "model-A.log"))
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00.000Z\tc1\tmodel-A\t\t\t\tinfo\tdone\n", string(data))
}

func TestWrite_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		wantErr  string
	}{
		{
			name:    "missing process model",
			args:    []string{"write", "hello"},
			wantErr: `required flag(s) "process-model" not set`,
		},
		{
			name:    "missing message",
			args:    []string{"write", "--process-model", "model-A"},
			wantErr: "requires at least 1 arg(s)",
		},
		{
			name:    "flow node flags apart",
			args:    []string{"write", "--process-model", "model-A", "--flow-node-instance", "fni-7", "hello"},
			wantErr: "flow-node-instance",
		},
		{
			name:     "unknown level",
			args:     []string{"write", "--process-model", "model-A", "--level", "loud", "hello"},
			wantCode: ExitCommandError,
			wantErr:  "UNKNOWN_LOG_LEVEL",
		},
		{
			name:     "malformed timestamp",
			args:     []string{"write", "--process-model", "model-A", "--timestamp", "yesterday", "hello"},
			wantCode: ExitCommandError,
			wantErr:  "MALFORMED_TIMESTAMP",
		},
		{
			name:     "path escaping id",
			args:     []string{"write", "--process-model", "../model-A", "hello"},
			wantCode: ExitFailure,
			wantErr:  "invalid process model id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfgPath, _ := writeTestConfig(t, "")
			_, err := runCLI(t, newTestOptions(), append([]string{"--config", cfgPath}, tt.args...)...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, GetExitCode(err))
			}
		})
	}
}

func TestWrite_UnencodableInLegacyFormat(t *testing.T) {
	cfgPath, root := writeTestConfig(t, "format: semicolon-v1\n")

	_, err := runCLI(t, newTestOptions(), "--config", cfgPath,
		"write", "--correlation", "c;1", "--process-model", "model-A", "hello")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, logentry.IsUnencodableField(err))
	assert.NoFileExists(t, filepath.Join(root, "model-A.log"))
}

func TestFormatEntry(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 123_000_000, time.UTC)

	pm := logentry.NewProcessModelEntry("c1", "model-A", "inst-1", logentry.LevelInfo, "started", ts)
	assert.Equal(t, "2024-05-01T10:00:00.123Z info    c1/model-A#inst-1 started", formatEntry(pm))

	fn := logentry.NewFlowNodeEntry("c1", "model-A", "", "fni-7", "task-1", logentry.LevelError, "failed", ts)
	assert.Equal(t, "2024-05-01T10:00:00.123Z error   c1/model-A [task-1 fni-7] failed", formatEntry(fn))

	assert.Equal(t, "- -       / ", formatEntry(logentry.LogEntry{}))
}
