// Package config resolves propman settings from flags, environment variables, and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/willibrandon/propman/cmd/propman/project"
)

// Environment variables consulted when a flag is not given.
const (
	EnvProject      = "PROPMAN_PROJECT"
	EnvPropsDir     = "PROPMAN_PROPS_DIR"
	EnvVerbosity    = "PROPMAN_VERBOSITY"
	EnvTrace        = "PROPMAN_TRACE"
	EnvOTLPEndpoint = "PROPMAN_OTLP_ENDPOINT"
)

// Verbosities lists the accepted --verbosity values.
var Verbosities = []string{"quiet", "normal", "detailed", "diagnostic"}

// Settings holds the resolved entry parameters of a propman invocation.
type Settings struct {
	// ProjectPath is the .vcxproj to edit. Empty means no project is loaded.
	ProjectPath string

	// PropsDir is the directory holding the property sheets.
	PropsDir string

	// Verbosity is one of Verbosities.
	Verbosity string

	// TraceExporter is none, stdout or otlp.
	TraceExporter string

	// OTLPEndpoint is the collector address used by the otlp exporter.
	OTLPEndpoint string
}

// Defaults returns the settings used when neither flags nor environment say otherwise.
func Defaults() Settings {
	return Settings{
		PropsDir:      DefaultPropsDir(),
		Verbosity:     "normal",
		TraceExporter: "none",
		OTLPEndpoint:  "localhost:4317",
	}
}

// DefaultPropsDir returns the directory containing the propman executable,
// falling back to the working directory.
func DefaultPropsDir() string {
	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		return filepath.Dir(exe)
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}

// Resolve fills every empty field of flags from getenv, then from Defaults.
// The project path falls back to the single .vcxproj in workDir when one exists.
func Resolve(flags Settings, getenv func(string) string, workDir string) (Settings, error) {
	defaults := Defaults()
	s := Settings{
		ProjectPath:   firstNonEmpty(flags.ProjectPath, getenv(EnvProject)),
		PropsDir:      firstNonEmpty(flags.PropsDir, getenv(EnvPropsDir), defaults.PropsDir),
		Verbosity:     strings.ToLower(firstNonEmpty(flags.Verbosity, getenv(EnvVerbosity), defaults.Verbosity)),
		TraceExporter: strings.ToLower(firstNonEmpty(flags.TraceExporter, getenv(EnvTrace), defaults.TraceExporter)),
		OTLPEndpoint:  firstNonEmpty(flags.OTLPEndpoint, getenv(EnvOTLPEndpoint), defaults.OTLPEndpoint),
	}

	if s.ProjectPath == "" && workDir != "" {
		if found, err := project.FindProjectFile(workDir); err == nil {
			s.ProjectPath = found
		}
	}

	if !slices.Contains(Verbosities, s.Verbosity) {
		return s, fmt.Errorf("invalid verbosity %q (expected one of %s)", s.Verbosity, strings.Join(Verbosities, ", "))
	}
	if !slices.Contains([]string{"none", "stdout", "otlp"}, s.TraceExporter) {
		return s, fmt.Errorf("invalid trace exporter %q (expected none, stdout or otlp)", s.TraceExporter)
	}

	if abs, err := filepath.Abs(s.PropsDir); err == nil {
		s.PropsDir = abs
	}
	return s, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
