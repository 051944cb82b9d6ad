package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/willibrandon/propman/cmd/propman/cli"
	"github.com/willibrandon/propman/cmd/propman/commands"
)

// Version information (set via ldflags during build)
var (
	version = "0.0.0-dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	cli.Version = version
	cli.Commit = commit
	cli.Date = date
	cli.BuiltBy = builtBy

	cli.SetupVersion()

	console, flags := cli.Console, cli.Flags

	cli.SetDefaultRun(commands.NewRootRun(console, flags))
	cli.AddCommand(commands.NewVersionCommand(console))
	cli.AddCommand(commands.NewConfigsCommand(console, flags))
	cli.AddCommand(commands.NewStatusCommand(console, flags))
	cli.AddCommand(commands.NewSheetCommand(console, flags))
	cli.AddCommand(commands.NewShellCommand(console, flags))
	cli.AddCommand(commands.NewCompletionCommand())
	commands.SetupCustomErrorHandler(cli.Root())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		// Print error to stderr since SilenceErrors is true in rootCmd
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
