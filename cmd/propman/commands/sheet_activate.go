package commands

import (
	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/manager"
	"github.com/willibrandon/propman/cmd/propman/output"
)

// NewSheetActivateCommand creates the "sheet activate" command
func NewSheetActivateCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	var configuration string

	cmd := &cobra.Command{
		Use:   "activate NAME",
		Short: "Import a property sheet into a configuration",
		Long: `Import SHEETDIR/NAME.props into the PropertySheets import group of the
configuration. A group is created when the configuration has none.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSheetNames(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheetIntent(cmd, console, flags, configuration, manager.Activate{Name: args[0]})
		},
	}

	cmd.Flags().StringVarP(&configuration, "configuration", "c", "", "Configuration to change (defaults to the first)")

	return cmd
}

// NewSheetDeactivateCommand creates the "sheet deactivate" command
func NewSheetDeactivateCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	var configuration string

	cmd := &cobra.Command{
		Use:   "deactivate NAME",
		Short: "Remove a property sheet import from a configuration",
		Long: `Remove every import whose path contains NAME from the configuration's
PropertySheets import groups. Matching is textual, so "zlib" also removes an
import of zlibstatic.props.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSheetNames(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheetIntent(cmd, console, flags, configuration, manager.Deactivate{Name: args[0]})
		},
	}

	cmd.Flags().StringVarP(&configuration, "configuration", "c", "", "Configuration to change (defaults to the first)")

	return cmd
}

func runSheetIntent(cmd *cobra.Command, console *output.Console, flags *config.Settings, configuration string, intent manager.Intent) error {
	s, err := openSession(cmd.Context(), console, flags, configuration)
	if err != nil {
		return err
	}
	if err := s.requireProject(); err != nil {
		return err
	}
	return s.execute(cmd.Context(), console, intent)
}
