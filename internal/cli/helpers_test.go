package cli

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/process-engine/logrepo/internal/testutil"
)

var testStart = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

// writeTestConfig writes a config file whose output root lives in a temp
// directory. extra is appended verbatim.
func writeTestConfig(t *testing.T, extra string) (cfgPath, root string) {
	t.Helper()
	dir := t.TempDir()
	root = filepath.Join(dir, "logs")
	cfgPath = filepath.Join(dir, "logrepo.yaml")
	content := fmt.Sprintf("output_root: %s\n%s", root, extra)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))
	return cfgPath, root
}

// newTestOptions returns root options with a fixed correlation id, a
// one-second step clock and a discarding logger.
func newTestOptions() *RootOptions {
	return &RootOptions{
		IDs:    testutil.NewFixedIDGenerator("corr-1"),
		Now:    testutil.NewStepClock(testStart, time.Second).Now,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// runCLI executes the root command with args and returns stdout.
func runCLI(t *testing.T, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommandWithOptions(opts)
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

// appendRaw appends text to path without going through the codec.
func appendRaw(t *testing.T, path, text string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	require.NoError(t, err)
	defer f.Close()
	_, err = f.WriteString(text)
	require.NoError(t, err)
}
