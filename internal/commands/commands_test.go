package commands

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simonhull/firebird-suite/hatch"
	"github.com/simonhull/firebird-suite/hatch/internal/config"
	"github.com/simonhull/firebird-suite/hatch/internal/logger"
	"github.com/simonhull/firebird-suite/hatch/internal/testutil"
	"github.com/simonhull/firebird-suite/hatch/output"
	"github.com/simonhull/firebird-suite/hatch/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the CLI with args and returns everything it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var buf bytes.Buffer
	prevWriter := output.SetWriter(&buf)
	prevLogger := logger.Default()
	t.Cleanup(func() {
		output.SetWriter(prevWriter)
		output.SetVerbose(false)
		logger.SetDefault(prevLogger)
	})

	root := RootCmd()
	root.AddCommand(Commands()...)
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)

	err := root.Execute()
	return buf.String(), err
}

func TestNewPlugin(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	out, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root)
	require.NoError(t, err)

	assert.Contains(t, out, "Created plugin: foo-bar")
	assert.Contains(t, out, "Next steps:")
	assert.Contains(t, out, "src/foo_bar/plugins.rs")

	assert.Equal(t, "pub mod plugins;\n", proj.ReadFile("src/foo_bar/mod.rs"))
	assert.Equal(t, "x = 3\n", proj.ReadFile("resources/test/fixtures/foo_bar/TODO.py"))
	assert.Contains(t, proj.ReadFile("src/lib.rs"), "mod foo_bar;\nmod flake8_print;")
	assert.Equal(t, 3, strings.Count(proj.ReadFile("src/checks.rs"), "// foo-bar\n"))
	assert.Contains(t, proj.ReadFile("LICENSE"), "- foo-bar, licensed as follows:")
}

func TestNewPlugin_DryRun(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	out, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root, "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "[DRY RUN]")
	assert.Contains(t, out, "+mod foo_bar;")
	assert.Contains(t, out, "Dry run: no files were changed")
	assert.NotContains(t, out, "Created plugin")

	assert.False(t, proj.FileExists("src/foo_bar"))
	assert.False(t, proj.FileExists("resources/test/fixtures/foo_bar"))
	assert.Equal(t, testutil.LibRS, proj.ReadFile("src/lib.rs"))
	assert.Equal(t, testutil.ChecksRS, proj.ReadFile("src/checks.rs"))
	assert.Equal(t, testutil.License, proj.ReadFile("LICENSE"))
}

func TestNewPlugin_ReviewWithoutTerminalAppliesEverything(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	_, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root, "--review")
	require.NoError(t, err)

	assert.Contains(t, proj.ReadFile("src/lib.rs"), "mod foo_bar;")
}

func TestNewPlugin_AnchorMissWarns(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	proj.WriteFile("LICENSE", "MIT License\n")

	out, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root)
	require.NoError(t, err)

	assert.Contains(t, out, "Anchor not found in LICENSE")
	assert.Contains(t, out, "Created plugin: foo-bar")
	assert.Equal(t, "MIT License\n", proj.ReadFile("LICENSE"))
}

func TestNewPlugin_Strict(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	proj.WriteFile("LICENSE", "MIT License\n")

	_, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root, "--strict")
	require.Error(t, err)
	assert.ErrorIs(t, err, patch.ErrAnchorNotFound)
	assert.Contains(t, err.Error(), "Updating LICENSE")
}

func TestNewPlugin_StrictDryRunFailsLikeRealRun(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	proj.WriteFile("LICENSE", "MIT License\n")

	out, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root, "--strict", "--dry-run")
	require.Error(t, err)
	assert.ErrorIs(t, err, patch.ErrAnchorNotFound)
	assert.Contains(t, err.Error(), "Updating LICENSE")
	assert.NotContains(t, out, "Dry run: no files were changed")

	assert.False(t, proj.FileExists("src/foo_bar"))
	assert.Equal(t, testutil.LibRS, proj.ReadFile("src/lib.rs"))
}

func TestNewPlugin_ExistingPluginFails(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	_, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root)
	require.NoError(t, err)

	_, err = run(t, "new-plugin", "foo-bar", "--root", proj.Root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, 1, strings.Count(proj.ReadFile("src/lib.rs"), "mod foo_bar;"))
}

func TestNewPlugin_InvalidName(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	_, err := run(t, "new-plugin", "foo bar", "--root", proj.Root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid identifier")
	assert.Equal(t, testutil.LibRS, proj.ReadFile("src/lib.rs"))
}

func TestNewPlugin_RequiresName(t *testing.T) {
	_, err := run(t, "new-plugin")
	assert.Error(t, err)
}

func TestNewPlugin_UsesProjectConfig(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	proj.WriteFile(config.FileName, `fixture:
  file: example.py
  content: "import os\n"
`)

	_, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root)
	require.NoError(t, err)

	assert.Equal(t, "import os\n", proj.ReadFile("resources/test/fixtures/foo_bar/example.py"))
	assert.False(t, proj.FileExists("resources/test/fixtures/foo_bar/TODO.py"))
}

func TestNewPlugin_ExplicitConfigFile(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	cfgPath := filepath.Join(t.TempDir(), "custom.yml")

	cfg := config.Default()
	cfg.Strict = true
	require.NoError(t, config.Save(cfgPath, cfg, false))

	proj.WriteFile("LICENSE", "MIT License\n")

	_, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root, "--config", cfgPath)
	require.Error(t, err)
	assert.ErrorIs(t, err, patch.ErrAnchorNotFound)
}

func TestInit(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	out, err := run(t, "init", "--root", proj.Root)
	require.NoError(t, err)
	assert.Contains(t, out, config.FileName)

	cfg, err := config.Load(config.LoadOptions{File: proj.Path(config.FileName)})
	require.NoError(t, err)
	assert.Equal(t, config.Default().Anchors, cfg.Anchors)
	assert.Equal(t, config.Default().Fixture, cfg.Fixture)

	_, err = run(t, "init", "--root", proj.Root)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = run(t, "init", "--root", proj.Root, "--force")
	assert.NoError(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "hatch "+hatch.Version+"\n", out)
}

func TestVerboseEnablesDebugLogging(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	out, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root, "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "Scaffolding foo-bar as foo_bar")
	assert.Contains(t, out, "resolved project")
	assert.Contains(t, out, "patched file")
}

func TestNewPlugin_HelpMentionsNameValidation(t *testing.T) {
	out, err := run(t, "new-plugin", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "flake8_bandit")
	assert.Contains(t, out, "rejected before anything is written")
}

func TestLoadProject_LogsUnavailableExecutable(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	prev := executable
	executable = func() (string, error) { return "", errors.New("no /proc") }
	t.Cleanup(func() { executable = prev })

	out, err := run(t, "new-plugin", "foo-bar", "--root", proj.Root, "--verbose")
	require.NoError(t, err)

	assert.Contains(t, out, "executable path unavailable")
	assert.Contains(t, out, "no /proc")
}

func TestLoadProject_FallsBackToWorkingDirectory(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(proj.Path("src")))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	prev := executable
	executable = func() (string, error) { return "", errors.New("no /proc") }
	t.Cleanup(func() { executable = prev })

	_, err = run(t, "new-plugin", "foo-bar")
	require.NoError(t, err)
	assert.True(t, proj.FileExists("src/foo_bar/mod.rs"))
}
