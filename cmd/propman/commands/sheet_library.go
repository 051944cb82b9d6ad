package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/manager"
	"github.com/willibrandon/propman/cmd/propman/output"
)

// NewSheetNewCommand creates the "sheet new" command
func NewSheetNewCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create an empty property sheet",
		Long: `Create SHEETDIR/NAME.props with empty include directory, library directory,
dependency and preprocessor definition fields. Fails if the sheet exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLibraryIntent(cmd, console, flags, manager.CreateSheet{Name: args[0]})
		},
	}

	return cmd
}

// NewSheetCopyCommand creates the "sheet copy" command
func NewSheetCopyCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "copy SOURCE [TARGET]",
		Short: "Copy a property sheet",
		Long: `Copy SHEETDIR/SOURCE.props to SHEETDIR/TARGET.props.
TARGET defaults to SOURCE_copy. Fails if the target exists.`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeSheetNames(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0] + "_copy"
			if len(args) == 2 {
				target = args[1]
			}
			return runLibraryIntent(cmd, console, flags, manager.CopySheet{Source: args[0], Target: target})
		},
	}

	return cmd
}

// NewSheetDeleteCommand creates the "sheet delete" command
func NewSheetDeleteCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a property sheet file",
		Long: `Delete SHEETDIR/NAME.props. Projects that still import the sheet are not
changed. Asks for confirmation unless --yes is given.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeSheetNames(flags),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if !yes {
				question := fmt.Sprintf("Delete property sheet %s? Other projects using it may break.", name)
				if !confirm(cmd.InOrStdin(), console.Err(), question) {
					console.Info("Nothing deleted.")
					return nil
				}
			}
			return runLibraryIntent(cmd, console, flags, manager.DeleteSheet{Name: name})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Delete without asking for confirmation")

	return cmd
}

func runLibraryIntent(cmd *cobra.Command, console *output.Console, flags *config.Settings, intent manager.Intent) error {
	s, err := openSession(cmd.Context(), console, flags, "")
	if err != nil {
		return err
	}
	return s.execute(cmd.Context(), console, intent)
}
