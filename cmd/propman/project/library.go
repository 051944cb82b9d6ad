package project

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SheetExt is the file extension of property sheets.
const SheetExt = ".props"

var (
	// ErrInvalidSheetName is returned for empty names or names containing path separators.
	ErrInvalidSheetName = errors.New("invalid property sheet name")
	// ErrSheetExists is returned when creating or copying onto an existing sheet.
	ErrSheetExists = errors.New("property sheet already exists")
)

// emptySheetXML is the skeleton written for new property sheets.
const emptySheetXML = `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="4.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ImportGroup Label="PropertySheets" />
  <PropertyGroup Label="UserMacros" />
  <ItemDefinitionGroup>
    <ClCompile>
      <AdditionalIncludeDirectories></AdditionalIncludeDirectories>
      <PreprocessorDefinitions></PreprocessorDefinitions>
    </ClCompile>
    <Link>
      <AdditionalLibraryDirectories></AdditionalLibraryDirectories>
      <AdditionalDependencies></AdditionalDependencies>
    </Link>
  </ItemDefinitionGroup>
  <ItemGroup />
</Project>
`

// Library is a directory of property sheets. A sheet is identified by its file
// name without the .props extension.
type Library struct {
	Dir string
}

// NewLibrary returns a Library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{Dir: dir}
}

// Names returns the sorted names of the .props files in the directory.
func (l *Library) Names() ([]string, error) {
	entries, err := os.ReadDir(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read property sheet directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), SheetExt) {
			continue
		}
		names = append(names, SheetName(entry.Name()))
	}
	sort.Strings(names)
	return names, nil
}

// Path returns the file path of the named sheet.
func (l *Library) Path(name string) string {
	return filepath.Join(l.Dir, name+SheetExt)
}

// Create writes an empty property sheet and returns its path.
func (l *Library) Create(name string) (string, error) {
	if err := validateSheetName(name); err != nil {
		return "", err
	}

	path := l.Path(name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrSheetExists, name)
		}
		return "", fmt.Errorf("failed to create property sheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteString(emptySheetXML); err != nil {
		return "", fmt.Errorf("failed to write property sheet: %w", err)
	}
	return path, nil
}

// Copy duplicates the source sheet under the target name and returns the new path.
func (l *Library) Copy(source, target string) (string, error) {
	if err := validateSheetName(source); err != nil {
		return "", err
	}
	if err := validateSheetName(target); err != nil {
		return "", err
	}

	in, err := os.Open(l.Path(source))
	if err != nil {
		return "", fmt.Errorf("failed to open property sheet: %w", err)
	}
	defer func() { _ = in.Close() }()

	path := l.Path(target)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrSheetExists, target)
		}
		return "", fmt.Errorf("failed to create property sheet: %w", err)
	}

	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return "", fmt.Errorf("failed to copy property sheet: %w", err)
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("failed to copy property sheet: %w", err)
	}
	return path, nil
}

// Delete removes the named sheet file.
func (l *Library) Delete(name string) error {
	if err := validateSheetName(name); err != nil {
		return err
	}
	if err := os.Remove(l.Path(name)); err != nil {
		return fmt.Errorf("failed to delete property sheet: %w", err)
	}
	return nil
}

func validateSheetName(name string) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidSheetName, name)
	}
	return nil
}
