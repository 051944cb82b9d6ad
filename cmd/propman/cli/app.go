// Package cli holds the propman root command, its global flags and the
// setup shared by every subcommand.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/output"
	"github.com/willibrandon/propman/observability"
)

var rootCmd = &cobra.Command{
	Use:   "propman [PROJECT]",
	Short: "Visual Studio property sheet manager",
	Long: `propman activates and deactivates Visual Studio property sheets (.props) in a
C++ project (.vcxproj) per build configuration, and edits the include
directories, library directories, dependencies and preprocessor definitions
the sheets carry.

Run without a command to start an interactive session on PROJECT, or on the
single .vcxproj in the current directory.`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return shutdown(cmd.Context())
	},
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// Console is the global console for CLI commands
var Console *output.Console

// Flags holds the values of the global flags. Empty fields are resolved from
// the environment and defaults by config.Resolve.
var Flags = &config.Settings{}

var tracerProvider *sdktrace.TracerProvider

// ExecuteContext runs the root command with ctx
func ExecuteContext(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		// PersistentPostRunE is skipped when a command fails.
		_ = shutdown(ctx)
	}
	return err
}

func init() {
	Console = output.DefaultConsole()

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&Flags.ProjectPath, "project", "", "Project file (.vcxproj) to edit (env "+config.EnvProject+")")
	pf.StringVarP(&Flags.PropsDir, "prop-dir", "p", "", "Directory holding the property sheets (env "+config.EnvPropsDir+", default: the propman executable's directory)")
	pf.StringVar(&Flags.Verbosity, "verbosity", "", "Display verbosity ("+strings.Join(config.Verbosities, ", ")+")")
	pf.StringVar(&Flags.TraceExporter, "trace", "", "Trace exporter (none, stdout, otlp) (env "+config.EnvTrace+")")
	pf.StringVar(&Flags.OTLPEndpoint, "otlp-endpoint", "", "OTLP gRPC collector address (env "+config.EnvOTLPEndpoint+")")
}

// setup applies the verbosity and starts tracing before any command runs.
func setup(cmd *cobra.Command, args []string) error {
	settings, err := config.Resolve(*Flags, os.Getenv, "")
	if err != nil {
		return err
	}

	verbosity, err := output.ParseVerbosity(settings.Verbosity)
	if err != nil {
		return err
	}
	Console.SetVerbosity(verbosity)

	if settings.TraceExporter == "none" || tracerProvider != nil {
		return nil
	}

	tc := observability.DefaultTracerConfig()
	tc.ServiceVersion = Version
	tc.ExporterType = settings.TraceExporter
	tc.OTLPEndpoint = settings.OTLPEndpoint
	tc.Output = Console.Err()

	tp, err := observability.SetupTracing(cmd.Context(), tc)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	tracerProvider = tp
	return nil
}

// shutdown flushes pending spans.
func shutdown(ctx context.Context) error {
	if tracerProvider == nil {
		return nil
	}
	tp := tracerProvider
	tracerProvider = nil
	if ctx == nil {
		ctx = context.Background()
	}
	return observability.ShutdownTracing(ctx, tp)
}

// SetupVersion configures version information after variables are set
func SetupVersion() {
	rootCmd.SetVersionTemplate(GetFullVersion() + "\n")
	rootCmd.Version = GetVersion()
}

// SetDefaultRun sets what the root command does when no subcommand is given
func SetDefaultRun(run func(cmd *cobra.Command, args []string) error) {
	rootCmd.Run = nil
	rootCmd.RunE = run
}

// AddCommand adds a command to the root command
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// Root returns the root command
func Root() *cobra.Command {
	return rootCmd
}
