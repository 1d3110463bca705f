package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/hatch/internal/config"
	"github.com/simonhull/firebird-suite/hatch/internal/logger"
	"github.com/simonhull/firebird-suite/hatch/internal/project"
	"github.com/spf13/cobra"
)

// executable locates the running binary; the root search falls back to its directory.
var executable = os.Executable

// loadProject resolves the configuration and project root for cmd.
//
// hatch.yml is searched in --root (when given) and the working directory.
// If none is found there but the root turns out to be elsewhere, the root
// is searched too.
func loadProject(cmd *cobra.Command) (*config.Config, string, error) {
	configFile, _ := cmd.Flags().GetString("config")
	rootFlag, _ := cmd.Flags().GetString("root")

	wd, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("getting working directory: %w", err)
	}

	var search []string
	if rootFlag != "" {
		search = append(search, rootFlag)
	}
	search = append(search, wd)

	cfg, err := config.Load(config.LoadOptions{File: configFile, SearchPaths: search})
	if err != nil {
		return nil, "", err
	}

	explicit := rootFlag
	if explicit == "" {
		explicit = cfg.Root
	}

	exe, err := executable()
	if err != nil {
		logger.Default().Debug("executable path unavailable, not searching next to it", "error", err)
	}
	root, err := project.Resolve(project.ResolveOptions{
		Explicit:   explicit,
		WorkDir:    wd,
		Executable: exe,
		Markers:    markers(cfg),
	})
	if err != nil {
		return nil, "", err
	}

	if cfg.Source == "" && configFile == "" && !sameDir(root, wd) {
		if cfg, err = config.Load(config.LoadOptions{SearchPaths: []string{root}}); err != nil {
			return nil, "", err
		}
	}

	configureLogger(cmd, cfg)
	logger.Default().Debug("resolved project", "root", root, "config", cfg.Source, "strict", cfg.Strict)

	return cfg, root, nil
}

// markers are the files every anchor points into; a project root holds all of them.
func markers(cfg *config.Config) []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range []config.Anchor{
		cfg.Anchors.ModuleRegistry,
		cfg.Anchors.CategoryMarker,
		cfg.Anchors.CategoryVariant,
		cfg.Anchors.License,
	} {
		if !seen[a.Path] {
			seen[a.Path] = true
			out = append(out, filepath.FromSlash(a.Path))
		}
	}
	return out
}

// configureLogger applies the configured log level unless --verbose already
// turned debug logging on.
func configureLogger(cmd *cobra.Command, cfg *config.Config) {
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		return
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return
	}
	logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// relTo shortens path for display when it lies under root.
func relTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return filepath.ToSlash(rel)
	}
	return path
}
