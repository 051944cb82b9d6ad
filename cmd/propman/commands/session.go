package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/manager"
	"github.com/willibrandon/propman/cmd/propman/output"
	"github.com/willibrandon/propman/observability"
)

// session is an opened manager state plus the manager that advances it.
type session struct {
	settings config.Settings
	mgr      *manager.Manager
	state    manager.State
}

// openSession resolves settings from the root flags, opens the project and
// selects configuration when one is given.
func openSession(ctx context.Context, console *output.Console, flags *config.Settings, configuration string) (*session, error) {
	var given config.Settings
	if flags != nil {
		given = *flags
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	settings, err := config.Resolve(given, os.Getenv, cwd)
	if err != nil {
		return nil, err
	}

	logger := observability.NewLogger(console.Err(), observability.LevelForVerbosity(settings.Verbosity))
	mgr := manager.New(logger)
	state := mgr.Open(ctx, settings.ProjectPath, settings.PropsDir)

	console.Debug("Session %s", state.SessionID)
	console.Detail("Project: %s", displayOr(settings.ProjectPath, "(none)"))
	console.Detail("Property sheet directory: %s", settings.PropsDir)

	if configuration != "" {
		state, err = mgr.SelectConfiguration(ctx, state, configuration)
		if err != nil {
			return nil, err
		}
	}

	return &session{settings: settings, mgr: mgr, state: state}, nil
}

// requireProject reports the session status as an error when no project is loaded.
func (s *session) requireProject() error {
	if s.state.HasProject() {
		return nil
	}
	if s.settings.ProjectPath == "" {
		return fmt.Errorf("%w: no .vcxproj found in the current directory, use --project", manager.ErrNoProject)
	}
	return fmt.Errorf("%w: %s (%s)", manager.ErrNoProject, s.settings.ProjectPath, s.state.Status)
}

func (s *session) execute(ctx context.Context, console *output.Console, intent manager.Intent) error {
	next, err := s.mgr.Execute(ctx, s.state, intent)
	s.state = next
	if err != nil {
		return err
	}
	console.Success("%s", next.Status)
	return nil
}

func displayOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func validateFormat(format string) error {
	if format != "console" && format != "json" {
		return fmt.Errorf("invalid format %q (expected console or json)", format)
	}
	return nil
}
