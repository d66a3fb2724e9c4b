package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/process-engine/logrepo/internal/logentry"
)

// WriteOptions holds flags for the write command.
type WriteOptions struct {
	*RootOptions
	CorrelationID      string
	ProcessModelID     string
	ProcessInstanceID  string
	FlowNodeInstanceID string
	FlowNodeID         string
	Level              string
	Timestamp          string
}

// WriteResult describes an appended entry.
type WriteResult struct {
	Path  string            `json:"path"`
	Entry logentry.LogEntry `json:"entry"`
}

// NewWriteCommand creates the write command.
func NewWriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "write MESSAGE...",
		Short: "Append a log entry",
		Long: `Append one entry to the log file of a process model.

The entry is written for the flow node when --flow-node-instance and
--flow-node are given, and for the process model otherwise. Without
--correlation a new UUIDv7 correlation id is generated and printed.

Exit codes:
  0 - Entry appended
  1 - Entry could not be encoded or written
  2 - Command error (invalid flags, invalid config, etc.)

Examples:
  logrepo write --process-model order-flow "process started"
  logrepo write --correlation c1 --process-model order-flow \
    --flow-node-instance fni-7 --flow-node ship --level warning "retrying"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWrite(cmd.Context(), opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.ProcessModelID, "process-model", "", "process model id (required)")
	_ = cmd.MarkFlagRequired("process-model")
	cmd.Flags().StringVar(&opts.CorrelationID, "correlation", "", "correlation id (default: new UUIDv7)")
	cmd.Flags().StringVar(&opts.ProcessInstanceID, "process-instance", "", "process instance id")
	cmd.Flags().StringVar(&opts.FlowNodeInstanceID, "flow-node-instance", "", "flow node instance id")
	cmd.Flags().StringVar(&opts.FlowNodeID, "flow-node", "", "flow node id")
	cmd.MarkFlagsRequiredTogether("flow-node-instance", "flow-node")
	cmd.Flags().StringVar(&opts.Level, "level", string(logentry.LevelInfo), "log level (debug|info|warning|error)")
	cmd.Flags().StringVar(&opts.Timestamp, "timestamp", "", "entry timestamp, RFC 3339 (default: now)")

	return cmd
}

func runWrite(ctx context.Context, opts *WriteOptions, message string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	level, err := logentry.ParseLevel(opts.Level)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --level", err)
	}

	ts := opts.now()
	if opts.Timestamp != "" {
		ts, err = logentry.ParseTimestamp(opts.Timestamp)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --timestamp", err)
		}
	}
	ts = ts.UTC()

	correlationID := opts.CorrelationID
	if correlationID == "" {
		correlationID = opts.ids().Generate()
	}

	cfg, err := loadConfig(opts.RootOptions)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	logger := opts.logger()
	repo, closeRepo, err := openRepository(cfg, logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open repository", err)
	}
	defer func() {
		if closeErr := closeRepo(); closeErr != nil {
			logger.Error("error closing repository", "error", closeErr)
		}
	}()

	var entry logentry.LogEntry
	if opts.FlowNodeInstanceID != "" || opts.FlowNodeID != "" {
		entry = logentry.NewFlowNodeEntry(correlationID, opts.ProcessModelID, opts.ProcessInstanceID,
			opts.FlowNodeInstanceID, opts.FlowNodeID, level, message, ts)
		err = repo.WriteLogForFlowNode(ctx, correlationID, opts.ProcessModelID, opts.ProcessInstanceID,
			opts.FlowNodeInstanceID, opts.FlowNodeID, level, message, ts)
	} else {
		entry = logentry.NewProcessModelEntry(correlationID, opts.ProcessModelID, opts.ProcessInstanceID,
			level, message, ts)
		err = repo.WriteLogForProcessModel(ctx, correlationID, opts.ProcessModelID, opts.ProcessInstanceID,
			level, message, ts)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to write log entry", err)
	}

	path, err := repo.Addressing().ProcessModelPath(correlationID, opts.ProcessModelID)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to resolve log path", err)
	}

	result := WriteResult{Path: path, Entry: entry}
	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(result)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Appended %s entry to %s\n", entry.Kind, path)
	fmt.Fprintf(out, "Correlation: %s\n", correlationID)
	return nil
}

// formatEntry renders an entry as one human-readable line.
func formatEntry(e logentry.LogEntry) string {
	ts := "-"
	if !e.Timestamp.IsZero() {
		ts = e.Timestamp.UTC().Format(time.RFC3339Nano)
	}
	level := string(e.LogLevel)
	if level == "" {
		level = "-"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %-7s %s/%s", ts, level, e.CorrelationID, e.ProcessModelID)
	if e.ProcessInstanceID != "" {
		fmt.Fprintf(&sb, "#%s", e.ProcessInstanceID)
	}
	if e.IsFlowNode() {
		fmt.Fprintf(&sb, " [%s %s]", e.FlowNodeID, e.FlowNodeInstanceID)
	}
	fmt.Fprintf(&sb, " %s", e.Message)
	return sb.String()
}
