package manager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/willibrandon/propman/cmd/propman/project"
	"github.com/willibrandon/propman/observability"
)

var (
	// ErrNoProject is returned by project-dependent operations when no project is loaded.
	ErrNoProject = errors.New("no project loaded")
	// ErrUnknownConfiguration is returned when a configuration is not declared by the project.
	ErrUnknownConfiguration = errors.New("unknown configuration")
	// ErrSheetNotFound is returned when a sheet is not in the sheet directory.
	ErrSheetNotFound = errors.New("property sheet not found")
	// ErrSheetActive is returned when activating a sheet that is already active.
	ErrSheetActive = errors.New("property sheet is already active")
	// ErrSheetInactive is returned when deactivating a sheet that is not active.
	ErrSheetInactive = errors.New("property sheet is not active")
	// ErrEmptyValue is returned when editing a field with a blank value.
	ErrEmptyValue = errors.New("field value is empty")
)

// rejections are precondition failures; they leave every document untouched.
var rejections = []error{
	ErrNoProject,
	ErrUnknownConfiguration,
	ErrSheetNotFound,
	ErrSheetActive,
	ErrSheetInactive,
	ErrEmptyValue,
	project.ErrInvalidSheetName,
	project.ErrSheetExists,
	project.ErrUnknownField,
}

// Manager applies intents to a State, keeping documents on disk in sync.
type Manager struct {
	logger observability.Logger
}

// New creates a Manager. A nil logger discards all output.
func New(logger observability.Logger) *Manager {
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &Manager{logger: logger}
}

func (m *Manager) log(state State) observability.Logger {
	return m.logger.ForContext("SessionId", state.SessionID)
}

// Open starts a session. A missing or unparsable project is not an error: the
// returned state has no project and every sheet is listed as inactive.
func (m *Manager) Open(ctx context.Context, projectPath, sheetDir string) State {
	state := State{
		SessionID:      uuid.NewString(),
		ProjectPath:    projectPath,
		Configurations: []string{},
		SheetDir:       sheetDir,
		Sheets:         []Sheet{},
	}
	log := m.log(state)

	if projectPath != "" {
		proj, err := m.loadProject(ctx, projectPath)
		if err != nil {
			log.WarnContext(ctx, "Could not open project {ProjectPath}: {Error}", projectPath, err)
		} else {
			state.Project = proj
			state.Configurations = proj.Configurations()
			if len(state.Configurations) > 0 {
				state.Configuration = state.Configurations[0]
			}
			log.InfoContext(ctx, "Opened project {ProjectPath} with {ConfigurationCount} configurations",
				projectPath, len(state.Configurations))
		}
	}

	state, err := m.Refresh(ctx, state)
	if err != nil {
		log.WarnContext(ctx, "Could not list property sheets in {SheetDir}: {Error}", sheetDir, err)
	}
	return state
}

func (m *Manager) loadProject(ctx context.Context, path string) (*project.Project, error) {
	var proj *project.Project
	err := m.document(ctx, "project", "load", path, func() error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("failed to read project file: %w", err)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("failed to read project file: %s is not a regular file", path)
		}
		proj, err = project.LoadProject(path)
		return err
	})
	return proj, err
}

// SelectConfiguration makes name the configuration sheets are classified against.
func (m *Manager) SelectConfiguration(ctx context.Context, state State, name string) (State, error) {
	if !state.HasProject() {
		return state, ErrNoProject
	}
	if !slices.Contains(state.Configurations, name) {
		return state, fmt.Errorf("%w: %s", ErrUnknownConfiguration, name)
	}
	state.Configuration = name
	m.log(state).DebugContext(ctx, "Selected configuration {Configuration}", name)
	return m.Refresh(ctx, state)
}

// SetSheetDir points the session at another property sheet directory.
func (m *Manager) SetSheetDir(ctx context.Context, state State, dir string) (State, error) {
	state.SheetDir = dir
	m.log(state).DebugContext(ctx, "Using property sheet directory {SheetDir}", dir)
	return m.Refresh(ctx, state)
}

// Refresh rescans the sheet directory and classifies every sheet as active or
// inactive for the selected configuration.
func (m *Manager) Refresh(ctx context.Context, state State) (State, error) {
	ctx, span := observability.StartSheetScanSpan(ctx, state.SheetDir)

	names, err := state.library().Names()
	if err != nil {
		state.Sheets = []Sheet{}
		state.Status = StatusNoSheetDir
		observability.EndSpanWithError(span, err)
		return state, err
	}

	var active []string
	if state.HasProject() {
		active = state.Project.ActiveSheets(state.Configuration)
	}

	lib := state.library()
	log := m.log(state)
	sheets := make([]Sheet, 0, len(names))
	activeCount := 0
	for _, name := range names {
		isActive := slices.Contains(active, name)
		if isActive {
			activeCount++
		}
		log.Verbose("Sheet {Sheet} active={Active} for {Configuration}", name, isActive, state.Configuration)
		sheets = append(sheets, Sheet{Name: name, Path: lib.Path(name), Active: isActive})
	}
	state.Sheets = sheets

	switch {
	case state.HasProject():
		state.Status = StatusReady
	case state.ProjectPath == "":
		state.Status = StatusNoProject
	default:
		state.Status = StatusInvalidProject
	}

	inactiveCount := len(sheets) - activeCount
	observability.SheetsGauge.WithLabelValues("active").Set(float64(activeCount))
	observability.SheetsGauge.WithLabelValues("inactive").Set(float64(inactiveCount))
	observability.RecordSheetCounts(ctx, activeCount, inactiveCount)
	observability.EndSpanWithError(span, nil)
	return state, nil
}

// Execute applies intent and returns the refreshed state. On failure the
// returned state carries the error text as its status.
func (m *Manager) Execute(ctx context.Context, state State, intent Intent) (State, error) {
	ctx, span := observability.StartIntentSpan(ctx, intent.Kind(), state.Configuration)
	log := m.log(state)

	// Project intents edit a copy of the tree. A failed save leaves the
	// session on the project as it was last read or written.
	working := state
	if state.HasProject() && mutatesProject(intent) {
		working.Project = state.Project.Clone()
	}

	status, err := m.apply(ctx, working, intent)
	if err == nil {
		state = working
	}
	result := outcome(err)
	observability.RecordIntentOutcome(ctx, result)
	observability.EndSpanWithError(span, err)
	observability.IntentsTotal.WithLabelValues(intent.Kind(), result).Inc()

	next, refreshErr := m.Refresh(ctx, state)
	if err != nil {
		log.WarnContext(ctx, "Intent {Intent} failed: {Error}", intent.Kind(), err)
		next.Status = err.Error()
		return next, err
	}
	if refreshErr != nil {
		return next, refreshErr
	}

	log.InfoContext(ctx, "{Status}", status)
	next.Status = status
	return next, nil
}

func mutatesProject(intent Intent) bool {
	switch intent.(type) {
	case Activate, Deactivate:
		return true
	}
	return false
}

func outcome(err error) string {
	if err == nil {
		return "applied"
	}
	for _, target := range rejections {
		if errors.Is(err, target) {
			return "rejected"
		}
	}
	return "failed"
}

func (m *Manager) apply(ctx context.Context, state State, intent Intent) (string, error) {
	switch in := intent.(type) {
	case Activate:
		return m.activate(ctx, state, in)
	case Deactivate:
		return m.deactivate(ctx, state, in)
	case CreateSheet:
		return m.createSheet(ctx, state, in)
	case CopySheet:
		return m.copySheet(ctx, state, in)
	case DeleteSheet:
		return m.deleteSheet(ctx, state, in)
	case EditField:
		return m.editField(ctx, state, in)
	default:
		return "", fmt.Errorf("unsupported intent %T", intent)
	}
}

func requireConfiguration(state State) error {
	if !state.HasProject() {
		return ErrNoProject
	}
	if state.Configuration == "" {
		return fmt.Errorf("%w: project declares no configurations", ErrUnknownConfiguration)
	}
	return nil
}

func (m *Manager) activate(ctx context.Context, state State, in Activate) (string, error) {
	if err := requireConfiguration(state); err != nil {
		return "", err
	}
	sheet, ok := state.Sheet(in.Name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSheetNotFound, in.Name)
	}
	if sheet.Active {
		return "", fmt.Errorf("%w: %s for %s", ErrSheetActive, in.Name, state.Configuration)
	}

	err := m.document(ctx, "project", "add_sheet", state.ProjectPath, func() error {
		return state.Project.AddSheet(state.Configuration, sheet.Path)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Activated %s for %s", in.Name, state.Configuration), nil
}

func (m *Manager) deactivate(ctx context.Context, state State, in Deactivate) (string, error) {
	if err := requireConfiguration(state); err != nil {
		return "", err
	}
	if !state.Project.HasActiveSheet(state.Configuration, in.Name) {
		return "", fmt.Errorf("%w: %s for %s", ErrSheetInactive, in.Name, state.Configuration)
	}

	var removed int
	err := m.document(ctx, "project", "remove_sheet", state.ProjectPath, func() error {
		var err error
		removed, err = state.Project.RemoveSheet(state.Configuration, in.Name)
		return err
	})
	if err != nil {
		return "", err
	}
	m.log(state).DebugContext(ctx, "Removed {ImportCount} imports matching {Sheet}", removed, in.Name)
	return fmt.Sprintf("Deactivated %s for %s", in.Name, state.Configuration), nil
}

func (m *Manager) createSheet(ctx context.Context, state State, in CreateSheet) (string, error) {
	lib := state.library()
	err := m.document(ctx, "sheet", "create", lib.Path(in.Name), func() error {
		_, err := lib.Create(in.Name)
		return err
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Created %s", in.Name), nil
}

func (m *Manager) copySheet(ctx context.Context, state State, in CopySheet) (string, error) {
	if _, ok := state.Sheet(in.Source); !ok {
		return "", fmt.Errorf("%w: %s", ErrSheetNotFound, in.Source)
	}

	lib := state.library()
	err := m.document(ctx, "sheet", "copy", lib.Path(in.Target), func() error {
		_, err := lib.Copy(in.Source, in.Target)
		return err
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Copied %s to %s", in.Source, in.Target), nil
}

func (m *Manager) deleteSheet(ctx context.Context, state State, in DeleteSheet) (string, error) {
	sheet, ok := state.Sheet(in.Name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrSheetNotFound, in.Name)
	}
	if sheet.Active {
		m.log(state).WarnContext(ctx, "Deleting {Sheet} while it is active for {Configuration}", in.Name, state.Configuration)
	}

	err := m.document(ctx, "sheet", "delete", sheet.Path, func() error {
		return state.library().Delete(in.Name)
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Deleted %s", in.Name), nil
}

func (m *Manager) editField(ctx context.Context, state State, in EditField) (string, error) {
	if strings.TrimSpace(in.Value) == "" {
		return "", ErrEmptyValue
	}

	sheet, err := m.LoadSheet(ctx, state, in.Sheet)
	if err != nil {
		return "", err
	}

	err = m.document(ctx, "sheet", in.Op.String(), sheet.Path, func() error {
		if in.Op == Remove {
			return sheet.Remove(in.Field, in.Value)
		}
		return sheet.Insert(in.Field, in.Value)
	})
	if err != nil {
		return "", err
	}

	if in.Op == Remove {
		return fmt.Sprintf("Removed %s from %s of %s", in.Value, in.Field.Title(), in.Sheet), nil
	}
	return fmt.Sprintf("Added %s to %s of %s", in.Value, in.Field.Title(), in.Sheet), nil
}

// LoadSheet opens a listed property sheet for reading or editing.
func (m *Manager) LoadSheet(ctx context.Context, state State, name string) (*project.PropertySheet, error) {
	listed, ok := state.Sheet(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, name)
	}

	var sheet *project.PropertySheet
	err := m.document(ctx, "sheet", "load", listed.Path, func() error {
		var err error
		sheet, err = project.LoadPropertySheet(listed.Path)
		return err
	})
	return sheet, err
}

// document wraps one read-parse-mutate-write cycle in a span and records its metrics.
func (m *Manager) document(ctx context.Context, kind, operation, path string, fn func() error) error {
	_, span := observability.StartDocumentSpan(ctx, kind, operation, path)
	start := time.Now()

	err := fn()

	observability.RecordDocumentOperation(kind, operation, start, err)
	observability.EndSpanWithError(span, err)
	return err
}
