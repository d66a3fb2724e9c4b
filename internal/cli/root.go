package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string // empty: $LOGREPO_CONFIG or ./logrepo.yaml

	// IDs generates correlation ids for writes that don't name one.
	// Default: UUIDv7Generator.
	IDs IDGenerator

	// Now supplies the timestamp of writes without --timestamp.
	// Default: time.Now.
	Now func() time.Time

	// Logger receives diagnostics. Set from --verbose when nil.
	Logger *slog.Logger
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the logrepo CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts.
// Tests use it to inject clocks, id generators and loggers.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logrepo",
		Short: "logrepo - process engine log repository",
		Long: `Write and read the execution logs of a workflow engine.

Entries are appended as delimited text lines to one file per process model,
either flat below the output root or grouped in one directory per correlation.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Logger == nil {
				opts.Logger = newLogger(cmd.ErrOrStderr(), opts.Verbose)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to config file (default $LOGREPO_CONFIG or ./logrepo.yaml)")

	cmd.AddCommand(NewWriteCommand(opts))
	cmd.AddCommand(NewReadCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// newLogger builds the text logger used by all commands.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// logger returns the configured logger, or the process default when a
// command runs without the root pre-run.
func (o *RootOptions) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o *RootOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *RootOptions) ids() IDGenerator {
	if o.IDs != nil {
		return o.IDs
	}
	return UUIDv7Generator{}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
