package commands

import (
	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/output"
)

// NewSheetCommand creates the parent "sheet" command with its subcommands
func NewSheetCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheet",
		Short: "Manage property sheets",
		Long: `Manage the property sheets in the sheet directory and their use by the project.

A property sheet is a .props file in the sheet directory (--prop-dir); its name is
the file name without the extension. Activating a sheet imports it into the
PropertySheets import group of the selected configuration.`,
		Example: `  # List sheets for the Release configuration
  propman sheet list -c "Release|Win32"

  # Activate and deactivate a sheet
  propman sheet activate zlib
  propman sheet deactivate zlib

  # Create, copy and delete sheets
  propman sheet new openssl
  propman sheet copy openssl openssl_static
  propman sheet delete openssl_static --yes

  # Edit sheet fields
  propman sheet field add zlib include C:\zlib\include
  propman sheet field remove zlib libdep zlib.lib`,
	}

	cmd.AddCommand(NewSheetListCommand(console, flags))
	cmd.AddCommand(NewSheetActivateCommand(console, flags))
	cmd.AddCommand(NewSheetDeactivateCommand(console, flags))
	cmd.AddCommand(NewSheetNewCommand(console, flags))
	cmd.AddCommand(NewSheetCopyCommand(console, flags))
	cmd.AddCommand(NewSheetDeleteCommand(console, flags))
	cmd.AddCommand(NewSheetShowCommand(console, flags))
	cmd.AddCommand(NewFieldCommand(console, flags))

	return cmd
}

// completeSheetNames completes sheet names from the sheet directory
func completeSheetNames(flags *config.Settings) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		s, err := openSession(cmd.Context(), output.NewConsole(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.VerbosityQuiet), flags, "")
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		names := make([]string, 0, len(s.state.Sheets))
		for _, sheet := range s.state.Sheets {
			names = append(names, sheet.Name)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	}
}
