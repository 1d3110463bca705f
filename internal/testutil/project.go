// Package testutil builds throwaway projects shaped like the analysis tool
// hatch extends.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// LibRS is a module registry with the default sentinel.
const LibRS = `mod ast;
mod autofix;
pub mod checks;
mod flake8_bugbear;
mod flake8_builtins;
mod flake8_print;
mod pyflakes;
`

// ChecksRS is a category registry with the default sentinels. The per-arm
// marker occurs three times.
const ChecksRS = `#[derive(EnumIter, Debug, PartialEq, Eq)]
pub enum CheckCategory {
    Pyflakes,
    Flake8Bugbear,
    Flake8Builtins,
    Flake8Print,
}

impl CheckCategory {
    pub fn title(&self) -> &'static str {
        match self {
            CheckCategory::Pyflakes => "Pyflakes",
            CheckCategory::Flake8Bugbear => "flake8-bugbear",
            CheckCategory::Flake8Builtins => "flake8-builtins",
            // flake8-print
            CheckCategory::Flake8Print => "flake8-print",
        }
    }

    pub fn codes(&self) -> Vec<CheckCodePrefix> {
        match self {
            CheckCategory::Pyflakes => vec![CheckCodePrefix::F],
            CheckCategory::Flake8Bugbear => vec![CheckCodePrefix::B],
            CheckCategory::Flake8Builtins => vec![CheckCodePrefix::A],
            // flake8-print
            CheckCategory::Flake8Print => vec![CheckCodePrefix::T],
        }
    }

    pub fn url(&self) -> Option<&'static str> {
        match self {
            CheckCategory::Pyflakes => Some("https://pypi.org/project/pyflakes/"),
            CheckCategory::Flake8Bugbear => Some("https://pypi.org/project/flake8-bugbear/"),
            CheckCategory::Flake8Builtins => Some("https://pypi.org/project/flake8-builtins/"),
            // flake8-print
            CheckCategory::Flake8Print => Some("https://pypi.org/project/flake8-print/"),
        }
    }
}
`

// License is a license manifest with the default sentinel.
const License = `MIT License

Copyright (c) 2022 Charles Marsh

Portions of this software are derived from third-party code:

- flake8-bugbear, licensed as follows:
  """
    The MIT License (MIT)
  """

- flake8-print, licensed as follows:
  """
    MIT License
  """
`

// Project is a temporary project root.
type Project struct {
	Root string
	t    *testing.T
}

// NewFixtureProject creates a project holding src/lib.rs, src/checks.rs,
// LICENSE and an empty resources/test/fixtures directory.
func NewFixtureProject(t *testing.T) *Project {
	t.Helper()

	p := &Project{Root: t.TempDir(), t: t}
	p.WriteFile("src/lib.rs", LibRS)
	p.WriteFile("src/checks.rs", ChecksRS)
	p.WriteFile("LICENSE", License)
	p.MkdirAll("resources/test/fixtures")
	return p
}

// Path joins a slash-separated relative path onto the root.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// WriteFile writes content to rel, creating parent directories.
func (p *Project) WriteFile(rel, content string) {
	p.t.Helper()

	path := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		p.t.Fatalf("creating parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		p.t.Fatalf("writing %s: %v", rel, err)
	}
}

// MkdirAll creates rel and its parents.
func (p *Project) MkdirAll(rel string) {
	p.t.Helper()

	if err := os.MkdirAll(p.Path(rel), 0755); err != nil {
		p.t.Fatalf("creating %s: %v", rel, err)
	}
}

// ReadFile returns the content of rel, failing the test if it cannot be read.
func (p *Project) ReadFile(rel string) string {
	p.t.Helper()

	data, err := os.ReadFile(p.Path(rel))
	if err != nil {
		p.t.Fatalf("reading %s: %v", rel, err)
	}
	return string(data)
}

// FileExists reports whether rel exists.
func (p *Project) FileExists(rel string) bool {
	p.t.Helper()

	_, err := os.Stat(p.Path(rel))
	return err == nil
}

// ListDir returns the names of the entries in rel.
func (p *Project) ListDir(rel string) []string {
	p.t.Helper()

	entries, err := os.ReadDir(p.Path(rel))
	if err != nil {
		p.t.Fatalf("listing %s: %v", rel, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
