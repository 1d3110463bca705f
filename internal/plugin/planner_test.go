package plugin_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/simonhull/firebird-suite/hatch/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/config"
	"github.com/simonhull/firebird-suite/hatch/internal/logger"
	"github.com/simonhull/firebird-suite/hatch/internal/plugin"
	"github.com/simonhull/firebird-suite/hatch/internal/testutil"
	"github.com/simonhull/firebird-suite/hatch/patch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scaffold(t *testing.T, proj *testutil.Project, cfg *config.Config, name string) (*generator.Report, error) {
	t.Helper()

	pl, err := plugin.New(name)
	require.NoError(t, err)

	planner := plugin.NewPlanner(proj.Root, cfg)

	var buf bytes.Buffer
	return generator.Execute(context.Background(), planner.Plan(pl), generator.ExecuteOptions{
		Writer: &buf,
		Logger: logger.Discard(),
	})
}

func TestPlan_FooBar(t *testing.T) {
	proj := testutil.NewFixtureProject(t)

	report, err := scaffold(t, proj, config.Default(), "foo-bar")
	require.NoError(t, err)
	assert.Empty(t, report.Missed)

	// Source directory with two files
	assert.ElementsMatch(t, []string{"mod.rs", "plugins.rs"}, proj.ListDir("src/foo_bar"))
	assert.Equal(t, "pub mod plugins;\n", proj.ReadFile("src/foo_bar/mod.rs"))
	assert.Empty(t, proj.ReadFile("src/foo_bar/plugins.rs"))

	// Fixture directory with one file
	assert.Equal(t, []string{"TODO.py"}, proj.ListDir("resources/test/fixtures/foo_bar"))
	assert.Equal(t, "x = 3\n", proj.ReadFile("resources/test/fixtures/foo_bar/TODO.py"))

	// Module registry
	lib := proj.ReadFile("src/lib.rs")
	assert.Contains(t, lib, "mod flake8_builtins;\nmod foo_bar;\nmod flake8_print;\n")
	assert.Equal(t, strings.Replace(testutil.LibRS, "mod flake8_print;", "mod foo_bar;\nmod flake8_print;", 1), lib)

	// Category registry: a comment before each of the three arms, one variant
	checks := proj.ReadFile("src/checks.rs")
	assert.Equal(t, 3, strings.Count(checks, "            // foo-bar\n            // flake8-print\n"))
	assert.Contains(t, checks,
		"    Flake8Builtins,\n"+
			"    // TODO: Adjust name and complete impl of CheckCategory\n"+
			"    foo_bar,\n"+
			"    Flake8Print,\n")
	assert.Equal(t, 1, strings.Count(checks, "foo_bar,"))

	// License
	license := proj.ReadFile("LICENSE")
	assert.Contains(t, license,
		"- foo-bar, licensed as follows:\n"+
			"  \"\"\"\n"+
			"    TODO\n"+
			"  \"\"\"\n"+
			"\n"+
			"- flake8-print, licensed as follows:\n")
}

func TestPlan_StepOrderAndLabels(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	pl, err := plugin.New("foo-bar")
	require.NoError(t, err)

	var steps []string
	for _, op := range plugin.NewPlanner(proj.Root, config.Default()).Plan(pl) {
		steps = append(steps, op.Step())
	}

	assert.Equal(t, []string{
		"Creating plugin directory",
		"Creating mod.rs",
		"Creating plugins.rs",
		"Creating test fixture directory",
		"Creating example test file",
		"Updating src/lib.rs",
		"Updating src/checks.rs",
		"Updating src/checks.rs",
		"Updating LICENSE",
	}, steps)
}

func TestPlan_ExistingPluginDirectoryFails(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	proj.MkdirAll("src/foo_bar")

	_, err := scaffold(t, proj, config.Default(), "foo-bar")
	require.Error(t, err)
	assert.True(t, errors.Is(err, generator.ErrAlreadyExists))
	assert.Contains(t, err.Error(), "Creating plugin directory")

	assert.Equal(t, testutil.LibRS, proj.ReadFile("src/lib.rs"), "nothing is patched when validation fails")
}

func TestPlan_MissingFixtureRootFails(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	cfg := config.Default()

	pl, err := plugin.New("foo-bar")
	require.NoError(t, err)
	ops := plugin.NewPlanner(proj.Root+"/elsewhere", cfg).Plan(pl)

	_, err = generator.Execute(context.Background(), ops, generator.ExecuteOptions{Writer: &bytes.Buffer{}, Logger: logger.Discard()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Creating plugin directory")
}

func TestPlan_AnchorMissIsSilentByDefault(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	proj.WriteFile("src/checks.rs", "pub enum CheckCategory {}\n")

	report, err := scaffold(t, proj, config.Default(), "foo-bar")
	require.NoError(t, err)

	assert.Len(t, report.Missed, 2)
	assert.Equal(t, "pub enum CheckCategory {}\n", proj.ReadFile("src/checks.rs"))
	assert.Contains(t, proj.ReadFile("LICENSE"), "- foo-bar, licensed as follows:")
}

func TestPlan_StrictAnchorMissFails(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	proj.WriteFile("LICENSE", "MIT License\n")

	cfg := config.Default()
	cfg.Strict = true

	_, err := scaffold(t, proj, cfg, "foo-bar")
	require.Error(t, err)
	assert.True(t, errors.Is(err, patch.ErrAnchorNotFound))
	assert.Contains(t, err.Error(), "Updating LICENSE")

	// Steps before the failure stay applied
	assert.True(t, proj.FileExists("src/foo_bar/mod.rs"))
	assert.Contains(t, proj.ReadFile("src/lib.rs"), "mod foo_bar;")
	assert.Equal(t, "MIT License\n", proj.ReadFile("LICENSE"))
}

func TestPlan_CustomAnchors(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	proj.WriteFile("src/registry.rs", "mod a;\nmod last;\n")

	cfg := config.Default()
	cfg.Anchors.ModuleRegistry = config.Anchor{Path: "src/registry.rs", Needle: "mod last;"}
	cfg.Fixture = config.Fixture{File: "example.py", Content: "import os\n"}

	_, err := scaffold(t, proj, cfg, "Pep8-Naming")
	require.NoError(t, err)

	assert.Equal(t, "mod a;\nmod pep8_naming;\nmod last;\n", proj.ReadFile("src/registry.rs"))
	assert.Equal(t, testutil.LibRS, proj.ReadFile("src/lib.rs"))
	assert.Equal(t, "import os\n", proj.ReadFile("resources/test/fixtures/pep8_naming/example.py"))
	assert.Contains(t, proj.ReadFile("src/checks.rs"), "// Pep8-Naming\n")
}

func TestRules_ReRunAfterManualCleanup(t *testing.T) {
	proj := testutil.NewFixtureProject(t)
	_, err := scaffold(t, proj, config.Default(), "foo-bar")
	require.NoError(t, err)

	patched := map[string]string{
		"src/lib.rs":    proj.ReadFile("src/lib.rs"),
		"src/checks.rs": proj.ReadFile("src/checks.rs"),
		"LICENSE":       proj.ReadFile("LICENSE"),
	}

	// Simulate the user removing the created directories and re-running.
	require.NoError(t, os.RemoveAll(proj.Path("src/foo_bar")))
	require.NoError(t, os.RemoveAll(proj.Path("resources/test/fixtures/foo_bar")))

	_, err = scaffold(t, proj, config.Default(), "foo-bar")
	require.NoError(t, err)

	for rel, want := range patched {
		assert.Equal(t, want, proj.ReadFile(rel), "%s changed on re-run", rel)
	}
}

func TestNextSteps(t *testing.T) {
	pl, err := plugin.New("foo-bar")
	require.NoError(t, err)

	steps := plugin.NewPlanner("/project", config.Default()).NextSteps(pl)

	require.Len(t, steps, 4)
	assert.Contains(t, steps[0], "src/foo_bar/plugins.rs")
	assert.Contains(t, steps[1], "resources/test/fixtures/foo_bar")
}
