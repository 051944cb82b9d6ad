package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// JSON output types for --format json

// ConfigurationsOutput represents the JSON output for the configs command
type ConfigurationsOutput struct {
	SchemaVersion  string   `json:"schemaVersion"`
	Project        string   `json:"project"`
	Configurations []string `json:"configurations"`
	ElapsedMs      int64    `json:"elapsedMs"`
}

// SheetListOutput represents the JSON output for the sheet list command
type SheetListOutput struct {
	SchemaVersion string       `json:"schemaVersion"`
	Project       string       `json:"project,omitempty"`
	Configuration string       `json:"configuration,omitempty"`
	SheetDir      string       `json:"sheetDir"`
	Sheets        []SheetEntry `json:"sheets"`
	ElapsedMs     int64        `json:"elapsedMs"`
}

// SheetEntry is one property sheet in JSON output
type SheetEntry struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// SheetFieldsOutput represents the JSON output for sheet show and sheet field list
type SheetFieldsOutput struct {
	SchemaVersion string       `json:"schemaVersion"`
	Name          string       `json:"name"`
	Path          string       `json:"path"`
	Fields        []FieldEntry `json:"fields"`
	ElapsedMs     int64        `json:"elapsedMs"`
}

// FieldEntry holds the entries of one sheet field in JSON output
type FieldEntry struct {
	Name    string   `json:"name"`
	Element string   `json:"element"`
	Values  []string `json:"values"`
}

// WriteJSON writes a JSON object to the specified writer (typically stdout)
// When --format json is used, ALL JSON goes to stdout and ALL messages go to stderr
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// MeasureElapsed returns elapsed time in milliseconds since start
func MeasureElapsed(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

// CurrentSchemaVersion is the schema version for all JSON outputs
const CurrentSchemaVersion = "1.0.0"

// NewConfigurationsOutput creates a ConfigurationsOutput with schema version and start time
func NewConfigurationsOutput(project string, configurations []string, start time.Time) *ConfigurationsOutput {
	if configurations == nil {
		configurations = []string{}
	}
	return &ConfigurationsOutput{
		SchemaVersion:  CurrentSchemaVersion,
		Project:        project,
		Configurations: configurations,
		ElapsedMs:      MeasureElapsed(start),
	}
}

// NewSheetListOutput creates a SheetListOutput with schema version
func NewSheetListOutput(project, configuration, sheetDir string, start time.Time) *SheetListOutput {
	return &SheetListOutput{
		SchemaVersion: CurrentSchemaVersion,
		Project:       project,
		Configuration: configuration,
		SheetDir:      sheetDir,
		Sheets:        []SheetEntry{},
		ElapsedMs:     MeasureElapsed(start),
	}
}

// NewSheetFieldsOutput creates a SheetFieldsOutput with schema version
func NewSheetFieldsOutput(name, path string, start time.Time) *SheetFieldsOutput {
	return &SheetFieldsOutput{
		SchemaVersion: CurrentSchemaVersion,
		Name:          name,
		Path:          path,
		Fields:        []FieldEntry{},
		ElapsedMs:     MeasureElapsed(start),
	}
}

// JSONOutputWriter writes JSON to stdout and messages to stderr
type JSONOutputWriter struct {
	stdout io.Writer
	stderr io.Writer
}

// NewJSONOutputWriter creates a new JSON output writer
func NewJSONOutputWriter(stdout, stderr io.Writer) *JSONOutputWriter {
	return &JSONOutputWriter{
		stdout: stdout,
		stderr: stderr,
	}
}

// WriteJSON writes JSON to stdout
func (w *JSONOutputWriter) WriteJSON(v any) error {
	return WriteJSON(w.stdout, v)
}

// WriteWarning writes a warning message to stderr
func (w *JSONOutputWriter) WriteWarning(format string, args ...any) {
	_, _ = fmt.Fprintf(w.stderr, "Warning: "+format+"\n", args...)
}
