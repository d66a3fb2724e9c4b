package cli

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCommand creates the config command.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Load, validate and print the effective configuration.

Relative paths are shown resolved against the working directory.

Examples:
  logrepo config
  logrepo config --config ./deploy/logrepo.yaml --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootOpts)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load config", err)
			}

			if rootOpts.Format == "json" {
				formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return formatter.Success(cfg)
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to encode config", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
