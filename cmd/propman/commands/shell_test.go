package commands

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/c-bata/go-prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/propman/cmd/propman/project"
	"github.com/willibrandon/propman/observability"
)

func newTestShell(t *testing.T, env *testEnv) *shell {
	t.Helper()
	s, err := openSession(context.Background(), env.console, env.flags, "")
	require.NoError(t, err)
	return newShell(context.Background(), env.console, s)
}

func suggestionTexts(suggestions []prompt.Suggest) []string {
	texts := []string{}
	for _, s := range suggestions {
		texts = append(texts, s.Text)
	}
	return texts
}

func TestShellCommand_Script(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")

	script := strings.Join([]string{
		"activate boost",
		"config Release|Win32",
		"activate zlib",
		"add zlib define ZLIB_DLL",
		"exit",
		"activate never-reached",
	}, "\n")
	require.NoError(t, env.run(t, NewShellCommand(env.console, env.flags), script))

	proj := env.project(t)
	assert.Equal(t, []string{"zlib", "boost"}, proj.ActiveSheets("Debug|Win32"))
	assert.Equal(t, []string{"zlib"}, proj.ActiveSheets("Release|Win32"))

	sheet, err := project.LoadPropertySheet(filepath.Join(env.flags.PropsDir, "zlib.props"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ZLIB_DLL", "USE_ZLIB"}, sheet.PreprocessorDefinitions())

	assert.Contains(t, env.stdout.String(), "Activated boost for Debug|Win32")
	assert.Contains(t, env.stdout.String(), "Active (Release|Win32)")
	assert.NotContains(t, env.stderr.String(), "never-reached")
}

func TestShell_ErrorsAreReportedNotFatal(t *testing.T) {
	env := newTestEnv(t, "zlib")
	sh := newTestShell(t, env)

	sh.executor("activate zlib")
	sh.executor("frobnicate")
	sh.executor("config")
	sh.executor("add zlib linker x")

	errs := env.stderr.String()
	assert.Contains(t, errs, "Error: property sheet is already active")
	assert.Contains(t, errs, `Error: unknown command "frobnicate"`)
	assert.Contains(t, errs, "Error: usage: config NAME")
	assert.Contains(t, errs, `Error: unknown field "linker"`)
	assert.False(t, sh.exited)
}

func TestShell_DeleteAsks(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")
	sh := newTestShell(t, env)
	path := filepath.Join(env.flags.PropsDir, "boost.props")

	sh.ask = func(string) bool { return false }
	sh.executor("delete boost")
	assert.FileExists(t, path)

	var asked string
	sh.ask = func(q string) bool { asked = q; return true }
	sh.executor("delete boost")
	assert.NoFileExists(t, path)
	assert.Contains(t, asked, "boost")
	_, listed := sh.session.state.Sheet("boost")
	assert.False(t, listed)
}

func TestShell_CopyShowAndDir(t *testing.T) {
	env := newTestEnv(t, "zlib")
	sh := newTestShell(t, env)

	sh.executor("copy zlib")
	_, ok := sh.session.state.Sheet("zlib_copy")
	assert.True(t, ok)

	env.stdout.Reset()
	sh.executor("show zlib_copy")
	assert.Contains(t, env.stdout.String(), `C:\inc2`)

	other := t.TempDir()
	sh.executor("dir " + other)
	assert.Equal(t, other, sh.session.state.SheetDir)
	assert.Empty(t, sh.session.state.Sheets)
}

func TestShell_LivePrefix(t *testing.T) {
	env := newTestEnv(t, "zlib")
	sh := newTestShell(t, env)

	prefix, ok := sh.livePrefix()
	assert.True(t, ok)
	assert.Equal(t, "propman [Debug|Win32]> ", prefix)
}

func TestShell_Suggest(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")
	sh := newTestShell(t, env)

	assert.Equal(t, []string{"activate", "add"}, suggestionTexts(sh.suggest("a")))
	assert.Equal(t, []string{"boost"}, suggestionTexts(sh.suggest("activate ")))
	assert.Equal(t, []string{"zlib"}, suggestionTexts(sh.suggest("deactivate ")))
	assert.Equal(t, []string{"Debug|Win32", "Release|Win32"}, suggestionTexts(sh.suggest("config ")))
	assert.Equal(t, []string{"Release|Win32"}, suggestionTexts(sh.suggest("config r")))
	assert.Equal(t, []string{"libdir", "libdep"}, suggestionTexts(sh.suggest("add zlib lib")))
	assert.Equal(t, []string{`C:\inc1`, `C:\inc2`}, suggestionTexts(sh.suggest("remove zlib include ")))
	assert.Empty(t, sh.suggest("exit "))
}

func TestShell_Help(t *testing.T) {
	env := newTestEnv(t)
	sh := newTestShell(t, env)

	sh.executor("help")
	got := env.stdout.String()
	for _, c := range shellCommands {
		assert.Contains(t, got, c.short)
	}
	assert.Contains(t, got, "ClCompile/PreprocessorDefinitions")
}

func TestShell_HealthFollowsSession(t *testing.T) {
	env := newTestEnv(t, "zlib", "boost")
	sh := newTestShell(t, env)
	health := sh.healthChecker()

	results := health.Check(context.Background())
	assert.Equal(t, observability.HealthStatusHealthy, results["project"].Status)
	assert.Equal(t, "2", results["sheets"].Details["sheets"])

	missing := filepath.Join(t.TempDir(), "missing")
	sh.executor("dir " + missing)

	// A new checker skips the cached directory result.
	results = sh.healthChecker().Check(context.Background())
	assert.Equal(t, observability.HealthStatusUnhealthy, results["sheets"].Status)
	assert.Equal(t, missing, results["sheets"].Details["dir"])
}

func TestShell_QuotedSheetNames(t *testing.T) {
	env := newTestEnv(t, "my lib", "zlib")
	sh := newTestShell(t, env)

	sh.executor(`activate "my lib"`)
	assert.NotContains(t, env.stderr.String(), "Error:")
	assert.Equal(t, []string{"zlib", "my lib"}, env.project(t).ActiveSheets("Debug|Win32"))

	sh.executor(`add 'my lib' include "C:\Program Files\zlib\include"`)
	sheet, err := project.LoadPropertySheet(filepath.Join(env.flags.PropsDir, "my lib.props"))
	require.NoError(t, err)
	assert.Equal(t, `C:\Program Files\zlib\include`, sheet.IncludeDirectories()[0])

	assert.Contains(t, suggestionTexts(sh.suggest("deactivate ")), `"my lib"`)
}

func TestShell_UnterminatedQuote(t *testing.T) {
	env := newTestEnv(t, "zlib")
	sh := newTestShell(t, env)

	sh.executor(`deactivate "zlib`)
	assert.Contains(t, env.stderr.String(), "Error: unterminated \" quote")
	assert.Equal(t, []string{"zlib"}, env.project(t).ActiveSheets("Debug|Win32"))
}

func TestSplitWords(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"", nil},
		{"  list  ", []string{"list"}},
		{`config Debug|Win32`, []string{"config", "Debug|Win32"}},
		{`add zlib include C:\zlib\include`, []string{"add", "zlib", "include", `C:\zlib\include`}},
		{`add zlib libdep a.lib;b.lib`, []string{"add", "zlib", "libdep", "a.lib;b.lib"}},
		{`activate "my lib"`, []string{"activate", "my lib"}},
		{`copy 'a b' c`, []string{"copy", "a b", "c"}},
		{`show ""`, []string{"show", ""}},
		{`add x define "it's"`, []string{"add", "x", "define", "it's"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitWords(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := splitWords(`activate 'zlib`)
	assert.EqualError(t, err, "unterminated ' quote")
}

func TestShell_HealthCommand(t *testing.T) {
	env := newTestEnv(t, "zlib")
	sh := newTestShell(t, env)

	sh.executor("health")
	got := env.stdout.String()
	assert.Contains(t, got, "Overall: healthy")
	assert.Contains(t, got, "project file present")
	assert.Contains(t, got, "sheet directory readable")
	assert.Less(t, strings.Index(got, "project "), strings.Index(got, "sheets "))
}
