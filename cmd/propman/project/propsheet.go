package project

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beevik/etree"
)

const sheetKind = "property sheet"

// ErrUnknownField is returned for a Field outside Fields or an unrecognized field name.
var ErrUnknownField = errors.New("unknown field")

// Field identifies one of the semicolon-delimited settings a property sheet edits.
type Field int

const (
	// IncludeDirectories is ClCompile/AdditionalIncludeDirectories.
	IncludeDirectories Field = iota
	// LibraryDirectories is Link/AdditionalLibraryDirectories.
	LibraryDirectories
	// LibraryDependencies is Link/AdditionalDependencies.
	LibraryDependencies
	// PreprocessorDefinitions is ClCompile/PreprocessorDefinitions.
	PreprocessorDefinitions
)

// Fields lists every Field in display order.
var Fields = []Field{IncludeDirectories, LibraryDirectories, LibraryDependencies, PreprocessorDefinitions}

type fieldInfo struct {
	tool    string
	element string
	short   string
	title   string
}

var fieldInfos = map[Field]fieldInfo{
	IncludeDirectories:      {"ClCompile", "AdditionalIncludeDirectories", "include", "Include Directories"},
	LibraryDirectories:      {"Link", "AdditionalLibraryDirectories", "libdir", "Library Directories"},
	LibraryDependencies:     {"Link", "AdditionalDependencies", "libdep", "Dependencies"},
	PreprocessorDefinitions: {"ClCompile", "PreprocessorDefinitions", "define", "Preprocessor Definitions"},
}

// String returns the short name used on the command line.
func (f Field) String() string {
	if info, ok := fieldInfos[f]; ok {
		return info.short
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Title returns the human-readable heading for the field.
func (f Field) Title() string {
	if info, ok := fieldInfos[f]; ok {
		return info.title
	}
	return f.String()
}

// ElementPath returns the element path below ItemDefinitionGroup, e.g. "ClCompile/PreprocessorDefinitions".
func (f Field) ElementPath() string {
	info, ok := fieldInfos[f]
	if !ok {
		return ""
	}
	return info.tool + "/" + info.element
}

func (f Field) info() (fieldInfo, error) {
	info, ok := fieldInfos[f]
	if !ok {
		return fieldInfo{}, fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	return info, nil
}

// ParseField resolves a short name ("include"), an element name
// ("AdditionalIncludeDirectories") or a few common aliases to a Field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "include", "includes", "inc", "additionalincludedirectories":
		return IncludeDirectories, nil
	case "libdir", "libdirs", "additionallibrarydirectories":
		return LibraryDirectories, nil
	case "libdep", "libdeps", "lib", "dependencies", "additionaldependencies":
		return LibraryDependencies, nil
	case "define", "defines", "preproc", "preprocessordefinitions":
		return PreprocessorDefinitions, nil
	}
	return 0, fmt.Errorf("%w %q (expected include, libdir, libdep or define)", ErrUnknownField, s)
}

// PropertySheet represents a .props file.
type PropertySheet struct {
	Path string
	doc  *document
}

// LoadPropertySheet loads and parses a property sheet from the given path.
func LoadPropertySheet(path string) (*PropertySheet, error) {
	doc, err := readDocument(path, sheetKind)
	if err != nil {
		return nil, err
	}

	return &PropertySheet{
		Path: path,
		doc:  doc,
	}, nil
}

// Name returns the sheet identifier derived from its file name.
func (s *PropertySheet) Name() string {
	return SheetName(s.Path)
}

// Save writes the property sheet back to Path.
func (s *PropertySheet) Save() error {
	return s.doc.save(sheetKind)
}

// element finds the element backing f, or nil when the sheet lacks it or f is unknown.
func (s *PropertySheet) element(f Field) *etree.Element {
	info, err := f.info()
	if err != nil {
		return nil
	}
	group := s.doc.root().SelectElement(elemItemDefinitionGroup)
	if group == nil {
		return nil
	}
	tool := group.SelectElement(info.tool)
	if tool == nil {
		return nil
	}
	return tool.SelectElement(info.element)
}

// ensureElement finds or creates the element backing a known field.
func (s *PropertySheet) ensureElement(info fieldInfo) *etree.Element {
	parent := s.doc.root()
	for _, tag := range []string{elemItemDefinitionGroup, info.tool, info.element} {
		child := parent.SelectElement(tag)
		if child == nil {
			child = parent.CreateElement(tag)
		}
		parent = child
	}
	return parent
}

// List returns the trimmed entries of f in order, or an empty slice when the
// field is missing or blank.
func (s *PropertySheet) List(f Field) []string {
	el := s.element(f)
	if el == nil {
		return []string{}
	}
	return splitList(el.Text())
}

// Insert prepends value to f and saves the sheet. Duplicates are allowed.
func (s *PropertySheet) Insert(f Field, value string) error {
	info, err := f.info()
	if err != nil {
		return err
	}
	el := s.ensureElement(info)
	el.SetText(prependEntry(el.Text(), value))
	return s.Save()
}

// Remove strips value from f and saves the sheet. See removeEntry for the
// textual matching rules.
func (s *PropertySheet) Remove(f Field, value string) error {
	if _, err := f.info(); err != nil {
		return err
	}
	if el := s.element(f); el != nil {
		el.SetText(removeEntry(el.Text(), value))
	}
	return s.Save()
}

// IncludeDirectories lists AdditionalIncludeDirectories.
func (s *PropertySheet) IncludeDirectories() []string { return s.List(IncludeDirectories) }

// InsertIncludeDirectory prepends dir to AdditionalIncludeDirectories.
func (s *PropertySheet) InsertIncludeDirectory(dir string) error {
	return s.Insert(IncludeDirectories, dir)
}

// RemoveIncludeDirectory removes dir from AdditionalIncludeDirectories.
func (s *PropertySheet) RemoveIncludeDirectory(dir string) error {
	return s.Remove(IncludeDirectories, dir)
}

// LibraryDirectories lists AdditionalLibraryDirectories.
func (s *PropertySheet) LibraryDirectories() []string { return s.List(LibraryDirectories) }

// InsertLibraryDirectory prepends dir to AdditionalLibraryDirectories.
func (s *PropertySheet) InsertLibraryDirectory(dir string) error {
	return s.Insert(LibraryDirectories, dir)
}

// RemoveLibraryDirectory removes dir from AdditionalLibraryDirectories.
func (s *PropertySheet) RemoveLibraryDirectory(dir string) error {
	return s.Remove(LibraryDirectories, dir)
}

// LibraryDependencies lists AdditionalDependencies.
func (s *PropertySheet) LibraryDependencies() []string { return s.List(LibraryDependencies) }

// InsertLibraryDependency prepends lib to AdditionalDependencies.
func (s *PropertySheet) InsertLibraryDependency(lib string) error {
	return s.Insert(LibraryDependencies, lib)
}

// RemoveLibraryDependency removes lib from AdditionalDependencies.
func (s *PropertySheet) RemoveLibraryDependency(lib string) error {
	return s.Remove(LibraryDependencies, lib)
}

// PreprocessorDefinitions lists PreprocessorDefinitions.
func (s *PropertySheet) PreprocessorDefinitions() []string { return s.List(PreprocessorDefinitions) }

// InsertPreprocessorDefinition prepends def to PreprocessorDefinitions.
func (s *PropertySheet) InsertPreprocessorDefinition(def string) error {
	return s.Insert(PreprocessorDefinitions, def)
}

// RemovePreprocessorDefinition removes def from PreprocessorDefinitions.
func (s *PropertySheet) RemovePreprocessorDefinition(def string) error {
	return s.Remove(PreprocessorDefinitions, def)
}
