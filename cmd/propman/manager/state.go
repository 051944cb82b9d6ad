// Package manager holds the application state of a propman session and applies
// intents (activate, deactivate, create, copy, delete, edit) to it.
package manager

import (
	"github.com/willibrandon/propman/cmd/propman/project"
)

// Status messages shown after each state transition.
const (
	StatusReady          = "Ready"
	StatusNoProject      = "No project loaded"
	StatusInvalidProject = "Project file is invalid"
	StatusNoSheetDir     = "Property sheet directory is unreadable"
)

// Sheet is a property sheet found in the sheet directory.
type Sheet struct {
	Name   string `json:"name"`
	Path   string `json:"path"`
	Active bool   `json:"active"`
}

// State is everything a front end needs to render a session.
// Operations take a State and return the next one.
type State struct {
	SessionID   string
	ProjectPath string

	// Project is nil when no valid project is loaded.
	Project *project.Project

	Configurations []string
	Configuration  string

	SheetDir string
	Sheets   []Sheet

	Status string
}

// HasProject reports whether a project document is loaded.
func (s State) HasProject() bool {
	return s.Project != nil
}

// Sheet returns the listed sheet with the given name.
func (s State) Sheet(name string) (Sheet, bool) {
	for _, sheet := range s.Sheets {
		if sheet.Name == name {
			return sheet, true
		}
	}
	return Sheet{}, false
}

// ActiveSheets returns the listed sheets active for the selected configuration.
func (s State) ActiveSheets() []Sheet {
	return s.filter(true)
}

// InactiveSheets returns the listed sheets not active for the selected configuration.
func (s State) InactiveSheets() []Sheet {
	return s.filter(false)
}

func (s State) filter(active bool) []Sheet {
	sheets := []Sheet{}
	for _, sheet := range s.Sheets {
		if sheet.Active == active {
			sheets = append(sheets, sheet)
		}
	}
	return sheets
}

func (s State) library() *project.Library {
	return project.NewLibrary(s.SheetDir)
}
