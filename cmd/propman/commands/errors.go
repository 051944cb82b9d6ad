package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// Verb-first patterns that should be detected and rejected
var verbFirstPatterns = map[string]string{
	"list sheet":   "propman sheet list",
	"new sheet":    "propman sheet new",
	"copy sheet":   "propman sheet copy",
	"delete sheet": "propman sheet delete",
	"show sheet":   "propman sheet show",

	// Top-level verbs that belong under sheet
	"activate":   "propman sheet activate",
	"deactivate": "propman sheet deactivate",
	"add":        "propman sheet field add",
	"remove":     "propman sheet field remove",
}

// SetupCustomErrorHandler configures verb-first pattern detection
func SetupCustomErrorHandler(rootCmd *cobra.Command) {
	rootCmd.SilenceErrors = true

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		if err == nil {
			return nil
		}

		if suggestion := detectVerbFirstPattern(cmd, nil); suggestion != "" {
			return fmt.Errorf("the verb-first form is not supported. Try: %s", suggestion)
		}

		return err
	})
}

// detectVerbFirstPattern checks if the command path plus args looks like
// verb-first usage and suggests the supported form
func detectVerbFirstPattern(cmd *cobra.Command, args []string) string {
	parts := []string{}
	for c := cmd; c != nil && c.Parent() != nil; c = c.Parent() {
		parts = append([]string{c.Name()}, parts...)
	}
	parts = append(parts, args...)
	if len(parts) == 0 {
		return ""
	}

	commandPath := strings.ToLower(strings.Join(parts, " "))
	for pattern, suggestion := range verbFirstPatterns {
		if strings.Contains(pattern, " ") && strings.HasPrefix(commandPath, pattern) {
			return suggestion
		}
	}

	if suggestion, found := verbFirstPatterns[strings.ToLower(parts[0])]; found {
		return suggestion
	}

	return ""
}

// HandleUnknownCommand provides suggestions for unknown commands. Root
// arguments that name a verb get a hint instead of being opened as a project.
func HandleUnknownCommand(cmd *cobra.Command, args []string) error {
	if suggestion := detectVerbFirstPattern(cmd, args); suggestion != "" {
		return fmt.Errorf("the verb-first form is not supported. Try: %s", suggestion)
	}

	return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
}
