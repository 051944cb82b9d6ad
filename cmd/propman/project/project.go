// Package project provides abstractions for loading, editing, and saving Visual Studio
// C++ project files (.vcxproj) and the MSBuild property sheets (.props) they import.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
)

const projectKind = "project file"

// Project represents a .vcxproj file.
type Project struct {
	Path string
	doc  *document
}

// LoadProject loads and parses a project file from the given path.
func LoadProject(path string) (*Project, error) {
	doc, err := readDocument(path, projectKind)
	if err != nil {
		return nil, err
	}

	return &Project{
		Path: path,
		doc:  doc,
	}, nil
}

// Save writes the project back to Path.
func (p *Project) Save() error {
	return p.doc.save(projectKind)
}

// Clone returns an independent copy of the project. Edits to the copy leave p
// untouched until one of them is saved.
func (p *Project) Clone() *Project {
	return &Project{Path: p.Path, doc: p.doc.clone()}
}

// Configurations returns the configuration identifiers (e.g. "Debug|Win32") declared
// in the ProjectConfigurations item group, in document order.
func (p *Project) Configurations() []string {
	configs := []string{}
	for _, group := range labeledChildren(p.doc.root(), elemItemGroup, labelProjectConfigurations) {
		for _, item := range group.ChildElements() {
			if attr := item.SelectAttr(attrInclude); attr != nil {
				configs = append(configs, attr.Value)
			}
		}
	}
	return configs
}

// sheetGroups returns the PropertySheets import groups whose Condition contains
// configuration. Matching is substring containment, not condition evaluation.
func (p *Project) sheetGroups(configuration string) []*etree.Element {
	var groups []*etree.Element
	for _, group := range labeledChildren(p.doc.root(), elemImportGroup, labelPropertySheets) {
		if strings.Contains(group.SelectAttrValue(attrCondition, ""), configuration) {
			groups = append(groups, group)
		}
	}
	return groups
}

// ActiveSheets returns the names of property sheets imported unconditionally by
// configuration. Names appear once each, in document order.
func (p *Project) ActiveSheets(configuration string) []string {
	sheets := []string{}
	seen := make(map[string]bool)
	for _, group := range p.sheetGroups(configuration) {
		for _, imp := range group.ChildElements() {
			if hasAttr(imp, attrCondition) {
				continue
			}
			path := imp.SelectAttr(attrProject)
			if path == nil {
				continue
			}
			name := SheetName(path.Value)
			if !seen[name] {
				seen[name] = true
				sheets = append(sheets, name)
			}
		}
	}
	return sheets
}

// HasActiveSheet reports whether name is among ActiveSheets(configuration).
func (p *Project) HasActiveSheet(configuration, name string) bool {
	for _, sheet := range p.ActiveSheets(configuration) {
		if sheet == name {
			return true
		}
	}
	return false
}

// AddSheet imports sheetPath into every PropertySheets group matching configuration
// and saves the project. Existing imports are not checked, so adding twice yields
// two imports. When no group matches, a new group conditioned on configuration is
// created to hold the import.
func (p *Project) AddSheet(configuration, sheetPath string) error {
	groups := p.sheetGroups(configuration)
	if len(groups) == 0 {
		groups = []*etree.Element{p.createSheetGroup(configuration)}
	}

	for _, group := range groups {
		imp := group.CreateElement(elemImport)
		imp.CreateAttr(attrProject, sheetPath)
	}

	return p.Save()
}

// createSheetGroup inserts an empty PropertySheets import group for configuration
// after the last existing ImportGroup, or at the end of the project.
func (p *Project) createSheetGroup(configuration string) *etree.Element {
	root := p.doc.root()

	group := etree.NewElement(elemImportGroup)
	group.CreateAttr(attrLabel, labelPropertySheets)
	group.CreateAttr(attrCondition, fmt.Sprintf("'$(Configuration)|$(Platform)'=='%s'", configuration))

	existing := root.SelectElements(elemImportGroup)
	if len(existing) == 0 {
		root.AddChild(group)
		return group
	}

	root.InsertChildAt(existing[len(existing)-1].Index()+1, group)
	return group
}

// RemoveSheet removes every unconditioned import whose Project attribute contains
// sheetName from the groups matching configuration, then saves the project.
// Containment is textual: removing "zlib" also removes "zlibstatic.props".
// It returns the number of imports removed.
func (p *Project) RemoveSheet(configuration, sheetName string) (int, error) {
	removed := 0
	for _, group := range p.sheetGroups(configuration) {
		var doomed []*etree.Element
		for _, imp := range group.ChildElements() {
			if hasAttr(imp, attrCondition) {
				continue
			}
			if strings.Contains(imp.SelectAttrValue(attrProject, ""), sheetName) {
				doomed = append(doomed, imp)
			}
		}
		for _, imp := range doomed {
			group.RemoveChild(imp)
			removed++
		}
	}

	return removed, p.Save()
}

// FindProjectFile finds a single .vcxproj file in the directory.
// Returns error if 0 or >1 project files are found.
func FindProjectFile(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.vcxproj"))
	if err != nil {
		return "", err
	}

	if len(matches) == 0 {
		return "", fmt.Errorf("no project file found in directory: %s", dir)
	}

	if len(matches) > 1 {
		return "", fmt.Errorf("multiple project files found in directory: %s. Specify which project to use", dir)
	}

	return matches[0], nil
}
