package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/output"
)

// NewRootRun returns the action of a bare "propman [PROJECT]": an interactive
// session on PROJECT, or on the project found by the usual resolution.
func NewRootRun(console *output.Console, flags *config.Settings) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) > 1 {
			return HandleUnknownCommand(cmd, args)
		}
		if len(args) == 1 {
			if _, err := os.Stat(args[0]); err != nil && detectVerbFirstPattern(cmd, args) != "" {
				return HandleUnknownCommand(cmd, args)
			}
			if flags.ProjectPath == "" {
				flags.ProjectPath = args[0]
			}
		}
		return RunShell(cmd, console, flags, "")
	}
}
