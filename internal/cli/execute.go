package cli

import (
	"errors"
	"io"
)

// Execute runs the root command with args and reports a failure through
// the output formatter. It returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	opts := &RootOptions{}
	cmd := NewRootCommandWithOptions(opts)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}

	format := opts.Format
	if !isValidFormat(format) {
		format = "text"
	}
	formatter := &OutputFormatter{
		Format:    format,
		Writer:    stdout,
		ErrWriter: stderr,
		Verbose:   opts.Verbose,
	}

	// Commands return *ExitError; anything else comes from cobra's flag
	// and argument parsing.
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		err = WrapExitError(ExitCommandError, "invalid usage", err)
	}

	var details any
	if cause := errors.Unwrap(err); cause != nil {
		details = cause.Error()
	}
	_ = formatter.Error(ErrorCode(err), err.Error(), details)

	return GetExitCode(err)
}
