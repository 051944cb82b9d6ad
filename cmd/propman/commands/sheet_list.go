package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/output"
)

type sheetListOptions struct {
	configuration string
	format        string
}

// NewSheetListCommand creates the "sheet list" command
func NewSheetListCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	opts := &sheetListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List property sheets as active or inactive",
		Long: `List the property sheets in the sheet directory, split into those active for
the selected configuration and those that are not. Without a project every
sheet is inactive.

Examples:
  propman sheet list
  propman sheet list -c "Release|Win32"
  propman sheet list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSheetList(cmd, console, flags, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configuration, "configuration", "c", "", "Configuration to classify against (defaults to the first)")
	cmd.Flags().StringVar(&opts.format, "format", "console", "Output format: console or json")

	return cmd
}

func runSheetList(cmd *cobra.Command, console *output.Console, flags *config.Settings, opts *sheetListOptions) error {
	start := time.Now()
	if err := validateFormat(opts.format); err != nil {
		return err
	}

	s, err := openSession(cmd.Context(), console, flags, opts.configuration)
	if err != nil {
		return err
	}
	state := s.state

	if opts.format == "json" {
		result := output.NewSheetListOutput(state.ProjectPath, state.Configuration, state.SheetDir, start)
		for _, sheet := range state.Sheets {
			result.Sheets = append(result.Sheets, output.SheetEntry{Name: sheet.Name, Path: sheet.Path, Active: sheet.Active})
		}
		w := output.NewJSONOutputWriter(console.Out(), console.Err())
		if !state.HasProject() {
			w.WriteWarning("%s", state.Status)
		}
		return w.WriteJSON(result)
	}

	if !state.HasProject() {
		console.Warning("%s", state.Status)
	}

	console.Header("Active (%s)", displayOr(state.Configuration, "no configuration"))
	for _, sheet := range state.ActiveSheets() {
		console.Sheet(sheet.Name, true)
	}
	console.Header("Inactive")
	for _, sheet := range state.InactiveSheets() {
		console.Sheet(sheet.Name, false)
	}
	return nil
}
