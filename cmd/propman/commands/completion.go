package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCompletionCommand creates the completion command for generating shell completion scripts
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for propman.

Sheet names are completed from the property sheet directory.

Examples:
  # Generate bash completion script
  propman completion bash > /etc/bash_completion.d/propman

  # Generate zsh completion script
  propman completion zsh > "${fpath[1]}/_propman"

  # Generate PowerShell completion script
  propman completion powershell > propman.ps1
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch shell := args[0]; shell {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			default:
				return fmt.Errorf("unsupported shell: %s (supported: bash, zsh, powershell)", shell)
			}
		},
	}

	return cmd
}
