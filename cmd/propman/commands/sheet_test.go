package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/propman/cmd/propman/manager"
	"github.com/willibrandon/propman/cmd/propman/output"
	"github.com/willibrandon/propman/cmd/propman/project"
)

func TestSheetList(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "list"))
	assert.Equal(t, "Active (Debug|Win32)\n* zlib\nInactive\n  boost\n", env.stdout.String())
}

func TestSheetList_Configuration(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "list", "-c", "Release|Win32"))
	assert.Equal(t, "Active (Release|Win32)\nInactive\n  boost\n  zlib\n", env.stdout.String())

	err := env.run(t, NewSheetCommand(env.console, env.flags), "", "list", "-c", "Debug|x64")
	assert.ErrorIs(t, err, manager.ErrUnknownConfiguration)
}

func TestSheetList_JSON(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "list", "--format", "json"))

	var result output.SheetListOutput
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &result))
	assert.Equal(t, "Debug|Win32", result.Configuration)
	require.Len(t, result.Sheets, 2)
	assert.Equal(t, output.SheetEntry{Name: "boost", Path: filepath.Join(env.flags.PropsDir, "boost.props")}, result.Sheets[0])
	assert.True(t, result.Sheets[1].Active)
}

func TestSheetList_WithoutProject(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")
	env.flags.ProjectPath = filepath.Join(env.flags.PropsDir, "missing.vcxproj")

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "list"))
	assert.Contains(t, env.stdout.String(), "Warning: "+manager.StatusInvalidProject)
	assert.Contains(t, env.stdout.String(), "Inactive\n  boost\n  zlib\n")
}

func TestSheetActivateDeactivate(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")
	sheet := NewSheetCommand(env.console, env.flags)

	require.NoError(t, env.run(t, sheet, "", "activate", "boost"))
	assert.Equal(t, "Activated boost for Debug|Win32\n", env.stdout.String())
	assert.Equal(t, []string{"zlib", "boost"}, env.project(t).ActiveSheets("Debug|Win32"))

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "activate", "boost", "-c", "Release|Win32"))
	assert.Equal(t, []string{"boost"}, env.project(t).ActiveSheets("Release|Win32"))

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "deactivate", "zlib"))
	assert.Equal(t, []string{"boost"}, env.project(t).ActiveSheets("Debug|Win32"))

	err := env.run(t, NewSheetCommand(env.console, env.flags), "", "deactivate", "zlib")
	assert.ErrorIs(t, err, manager.ErrSheetInactive)
}

func TestSheetActivate_WithoutProject(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")
	env.flags.ProjectPath = filepath.Join(env.flags.PropsDir, "missing.vcxproj")

	err := env.run(t, NewSheetCommand(env.console, env.flags), "", "activate", "boost")
	assert.ErrorIs(t, err, manager.ErrNoProject)
}

func TestSheetNewCopyDelete(t *testing.T) {
	env := newTestEnv(t, "zlib")

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "new", "openssl"))
	assert.FileExists(t, filepath.Join(env.flags.PropsDir, "openssl.props"))

	err := env.run(t, NewSheetCommand(env.console, env.flags), "", "new", "openssl")
	assert.ErrorIs(t, err, project.ErrSheetExists)

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "copy", "zlib"))
	assert.FileExists(t, filepath.Join(env.flags.PropsDir, "zlib_copy.props"))

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "copy", "zlib", "zlib_static"))
	data, err := os.ReadFile(filepath.Join(env.flags.PropsDir, "zlib_static.props"))
	require.NoError(t, err)
	assert.Equal(t, testSheetXML, string(data))

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "delete", "zlib_copy", "--yes"))
	assert.NoFileExists(t, filepath.Join(env.flags.PropsDir, "zlib_copy.props"))
}

func TestSheetDelete_Confirmation(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")
	path := filepath.Join(env.flags.PropsDir, "boost.props")

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "n\n", "delete", "boost"))
	assert.FileExists(t, path)
	assert.Contains(t, env.stderr.String(), "Delete property sheet boost?")
	assert.Contains(t, env.stdout.String(), "Nothing deleted.")

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "delete", "boost"))
	assert.FileExists(t, path)

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "yes\n", "delete", "boost"))
	assert.NoFileExists(t, path)
}

func TestSheetShow(t *testing.T) {
	env := newTestEnv(t, "zlib")

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "show", "zlib"))
	got := env.stdout.String()
	assert.Contains(t, got, "Include Directories (include)\n  C:\\inc1\n  C:\\inc2\n")
	assert.Contains(t, got, "Preprocessor Definitions (define)\n  USE_ZLIB\n")

	err := env.run(t, NewSheetCommand(env.console, env.flags), "", "show", "openssl")
	assert.ErrorIs(t, err, manager.ErrSheetNotFound)
}

func TestSheetField(t *testing.T) {
	env := newTestEnv(t, "zlib")

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "field", "add", "zlib", "libdep", "zlib.lib", "ws2_32.lib"))
	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "field", "remove", "zlib", "include", `C:\inc1`))

	sheet, err := project.LoadPropertySheet(filepath.Join(env.flags.PropsDir, "zlib.props"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ws2_32.lib", "zlib.lib"}, sheet.LibraryDependencies())
	assert.Equal(t, []string{`C:\inc2`}, sheet.IncludeDirectories())

	require.NoError(t, env.run(t, NewSheetCommand(env.console, env.flags), "", "field", "list", "zlib", "libdep", "--format", "json"))
	var result output.SheetFieldsOutput
	require.NoError(t, json.Unmarshal(env.stdout.Bytes(), &result))
	require.Len(t, result.Fields, 1)
	assert.Equal(t, "Link/AdditionalDependencies", result.Fields[0].Element)
	assert.Equal(t, []string{"ws2_32.lib", "zlib.lib"}, result.Fields[0].Values)

	err = env.run(t, NewSheetCommand(env.console, env.flags), "", "field", "add", "zlib", "linker", "x")
	assert.Error(t, err)
}
