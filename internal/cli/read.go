package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/process-engine/logrepo/internal/logentry"
)

// ReadOptions holds flags for the read command.
type ReadOptions struct {
	*RootOptions
	CorrelationID  string
	ProcessModelID string
}

// ReadResult holds the entries returned by a read.
type ReadResult struct {
	Entries []logentry.LogEntry `json:"entries"`
	Count   int                 `json:"count"`
}

// NewReadCommand creates the read command.
func NewReadCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReadOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read log entries",
		Long: `Read the entries of one process model, or of a whole correlation.

With --process-model the file of that process model is read; a process
model without entries yields an empty result. Without it, every file of
the correlation is read, which requires nested addressing.

Exit codes:
  0 - Entries read (possibly none)
  1 - A log file could not be read or parsed
  2 - Command error (invalid flags, invalid config, etc.)

Examples:
  logrepo read --process-model order-flow
  logrepo read --correlation c1 --process-model order-flow
  logrepo read --correlation c1 --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRead(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.CorrelationID, "correlation", "", "correlation id")
	cmd.Flags().StringVar(&opts.ProcessModelID, "process-model", "", "process model id")

	return cmd
}

func runRead(ctx context.Context, opts *ReadOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.CorrelationID == "" && opts.ProcessModelID == "" {
		return NewExitError(ExitCommandError, "one of --correlation or --process-model is required")
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

	var entries []logentry.LogEntry
	if opts.ProcessModelID != "" {
		entries, err = repo.ReadLogForProcessModel(ctx, opts.CorrelationID, opts.ProcessModelID)
	} else {
		entries, err = repo.ReadLogForCorrelation(ctx, opts.CorrelationID)
	}
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read logs", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(ReadResult{Entries: entries, Count: len(entries)})
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No log entries found.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(out, formatEntry(e))
	}
	return nil
}
