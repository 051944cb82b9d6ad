package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/willibrandon/propman/cmd/propman/output"
)

func TestGetVersion(t *testing.T) {
	if got := GetVersion(); got != Version {
		t.Errorf("GetVersion() = %v, want %v", got, Version)
	}
}

func TestGetFullVersion(t *testing.T) {
	got := GetFullVersion()
	if !strings.HasPrefix(got, "propman version "+Version) {
		t.Errorf("GetFullVersion() = %q", got)
	}
	if !strings.Contains(got, "commit: "+Commit) {
		t.Errorf("GetFullVersion() missing commit, got %q", got)
	}
}

func TestRootFlags(t *testing.T) {
	for _, name := range []string{"project", "prop-dir", "verbosity", "trace", "otlp-endpoint"} {
		if Root().PersistentFlags().Lookup(name) == nil {
			t.Errorf("missing persistent flag --%s", name)
		}
	}
	if Root().PersistentFlags().ShorthandLookup("p") == nil {
		t.Error("missing -p shorthand for --prop-dir")
	}
}

func TestSetup_AppliesVerbosity(t *testing.T) {
	saved := *Flags
	savedConsole := Console
	t.Cleanup(func() {
		*Flags = saved
		Console = savedConsole
	})

	var out bytes.Buffer
	Console = output.NewConsole(&out, &out, output.VerbosityNormal)
	Flags.Verbosity = "quiet"
	Flags.PropsDir = t.TempDir()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := setup(cmd, nil); err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	if Console.GetVerbosity() != output.VerbosityQuiet {
		t.Errorf("verbosity = %v, want quiet", Console.GetVerbosity())
	}
}

func TestSetup_RejectsUnknownTraceExporter(t *testing.T) {
	saved := *Flags
	t.Cleanup(func() { *Flags = saved })

	Flags.TraceExporter = "zipkin"
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := setup(cmd, nil); err == nil {
		t.Error("setup() expected error for unknown exporter")
	}
}

func TestSetup_StdoutTracing(t *testing.T) {
	saved := *Flags
	savedConsole := Console
	t.Cleanup(func() {
		*Flags = saved
		Console = savedConsole
	})

	var out bytes.Buffer
	Console = output.NewConsole(&out, &out, output.VerbosityNormal)
	Flags.TraceExporter = "stdout"

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := setup(cmd, nil); err != nil {
		t.Fatalf("setup() error = %v", err)
	}
	if tracerProvider == nil {
		t.Fatal("tracer provider not created")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
	if tracerProvider != nil {
		t.Error("shutdown() should clear the tracer provider")
	}
}
