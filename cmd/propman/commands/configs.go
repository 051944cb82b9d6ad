package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/output"
)

type configsOptions struct {
	format string
}

// NewConfigsCommand creates the "configs" command
func NewConfigsCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	opts := &configsOptions{}

	cmd := &cobra.Command{
		Use:   "configs",
		Short: "List the build configurations of the project",
		Long: `List the configurations declared in the project's ProjectConfigurations item group.

Examples:
  propman configs
  propman configs --project App.vcxproj --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigs(cmd, console, flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", "console", "Output format: console or json")

	return cmd
}

func runConfigs(cmd *cobra.Command, console *output.Console, flags *config.Settings, opts *configsOptions) error {
	start := time.Now()
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	s, err := openSession(cmd.Context(), console, flags, "")
	if err != nil {
		return err
	}
	if err := s.requireProject(); err != nil {
		return err
	}

	if opts.format == "json" {
		return output.WriteJSON(console.Out(), output.NewConfigurationsOutput(s.state.ProjectPath, s.state.Configurations, start))
	}

	if len(s.state.Configurations) == 0 {
		console.Info("No configurations declared.")
		return nil
	}
	for _, c := range s.state.Configurations {
		console.Println(c)
	}
	return nil
}
