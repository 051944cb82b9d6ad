package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/willibrandon/propman/cmd/propman/config"
	"github.com/willibrandon/propman/cmd/propman/output"
	"github.com/willibrandon/propman/cmd/propman/project"
)

const testProjectXML = `<?xml version="1.0" encoding="utf-8"?>
<Project DefaultTargets="Build" ToolsVersion="15.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ItemGroup Label="ProjectConfigurations">
    <ProjectConfiguration Include="Debug|Win32" />
    <ProjectConfiguration Include="Release|Win32" />
  </ItemGroup>
  <ImportGroup Label="PropertySheets" Condition="'$(Configuration)|$(Platform)'=='Debug|Win32'">
    <Import Project="..\props\zlib.props" />
  </ImportGroup>
  <ImportGroup Label="PropertySheets" Condition="'$(Configuration)|$(Platform)'=='Release|Win32'">
  </ImportGroup>
</Project>`

const testSheetXML = `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="4.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ItemDefinitionGroup>
    <ClCompile>
      <AdditionalIncludeDirectories>C:\inc1;C:\inc2</AdditionalIncludeDirectories>
      <PreprocessorDefinitions>USE_ZLIB</PreprocessorDefinitions>
    </ClCompile>
  </ItemDefinitionGroup>
</Project>`

type testEnv struct {
	flags   *config.Settings
	console *output.Console
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

// newTestEnv writes a project with zlib active for Debug|Win32 and the given
// sheets in a sibling props directory.
func newTestEnv(t *testing.T, sheets ...string) *testEnv {
	t.Helper()
	root := t.TempDir()

	projectPath := filepath.Join(root, "App.vcxproj")
	require.NoError(t, os.WriteFile(projectPath, []byte(testProjectXML), 0644))

	propsDir := filepath.Join(root, "props")
	require.NoError(t, os.Mkdir(propsDir, 0755))
	for _, name := range sheets {
		require.NoError(t, os.WriteFile(filepath.Join(propsDir, name+".props"), []byte(testSheetXML), 0644))
	}

	var stdout, stderr bytes.Buffer
	console := output.NewConsole(&stdout, &stderr, output.VerbosityNormal)
	console.SetColors(false)

	return &testEnv{
		flags:   &config.Settings{ProjectPath: projectPath, PropsDir: propsDir},
		console: console,
		stdout:  &stdout,
		stderr:  &stderr,
	}
}

func (e *testEnv) run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) error {
	t.Helper()
	e.stdout.Reset()
	e.stderr.Reset()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)
	return cmd.Execute()
}

func (e *testEnv) project(t *testing.T) *project.Project {
	t.Helper()
	proj, err := project.LoadProject(e.flags.ProjectPath)
	require.NoError(t, err)
	return proj
}
