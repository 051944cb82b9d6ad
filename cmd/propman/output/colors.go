// Package output provides console output formatting and colorization.
package output

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color schemes
var (
	ColorSuccess  = color.New(color.FgGreen)
	ColorError    = color.New(color.FgRed)
	ColorWarning  = color.New(color.FgYellow)
	ColorInfo     = color.New(color.FgCyan)
	ColorDebug    = color.New(color.FgWhite)
	ColorHeader   = color.New(color.Bold, color.FgWhite)
	ColorActive   = color.New(color.FgGreen, color.Bold)
	ColorInactive = color.New(color.Faint)
)

// IsColorEnabled checks if color output should be enabled
func IsColorEnabled() bool {
	if !IsTerminal(os.Stdout) {
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	t := os.Getenv("TERM")
	if t == "dumb" || t == "" {
		return false
	}

	return true
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// DisableColors disables all color output
func DisableColors() {
	color.NoColor = true
}

// EnableColors enables color output
func EnableColors() {
	color.NoColor = false
}
