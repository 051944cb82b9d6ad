package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/manager"
	"github.com/willibrandon/propman/cmd/propman/output"
)

// NewStatusCommand creates the "status" command
func NewStatusCommand(console *output.Console, flags *config.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the active property sheets of every configuration",
		Long: `Show a tree of the project's configurations with the property sheets
imported for each of them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd.Context(), console, flags, "")
			if err != nil {
				return err
			}
			if err := s.requireProject(); err != nil {
				return err
			}
			console.Print(renderStatus(s.state))
			console.Detail("Property sheet directory: %s (%d sheets)", s.state.SheetDir, len(s.state.Sheets))
			return nil
		},
	}

	return cmd
}

// renderStatus draws every configuration with its active sheets. Sheets
// imported from outside the sheet directory are listed as well.
func renderStatus(state manager.State) string {
	tree := output.NewSheetTree(filepath.Base(state.ProjectPath))
	for _, c := range state.Configurations {
		tree.AddConfiguration(c)
		for _, name := range state.Project.ActiveSheets(c) {
			tree.AddSheet(c, name)
		}
	}
	return tree.Render()
}
