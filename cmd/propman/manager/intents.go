package manager

import (
	"github.com/willibrandon/propman/cmd/propman/project"
)

// Intent is a user request applied by Manager.Execute.
type Intent interface {
	// Kind names the intent in logs, metrics and spans.
	Kind() string
}

// Activate adds a sheet from the sheet directory to the selected configuration.
type Activate struct {
	Name string
}

// Deactivate removes a sheet from the selected configuration.
type Deactivate struct {
	Name string
}

// CreateSheet writes a new empty property sheet into the sheet directory.
type CreateSheet struct {
	Name string
}

// CopySheet duplicates an existing sheet under a new name.
type CopySheet struct {
	Source string
	Target string
}

// DeleteSheet removes a sheet file from the sheet directory.
type DeleteSheet struct {
	Name string
}

// FieldOp selects whether EditField inserts or removes a value.
type FieldOp int

const (
	// Insert prepends the value to the field.
	Insert FieldOp = iota
	// Remove deletes the first textual occurrence of the value.
	Remove
)

func (op FieldOp) String() string {
	if op == Remove {
		return "remove"
	}
	return "insert"
}

// EditField inserts into or removes from one field of a property sheet.
type EditField struct {
	Sheet string
	Field project.Field
	Op    FieldOp
	Value string
}

func (Activate) Kind() string    { return "activate" }
func (Deactivate) Kind() string  { return "deactivate" }
func (CreateSheet) Kind() string { return "create" }
func (CopySheet) Kind() string   { return "copy" }
func (DeleteSheet) Kind() string { return "delete" }
func (EditField) Kind() string   { return "edit" }
