// Package project locates the root of the project new plugins are added to.
//
// A directory is the project root when it contains every marker file, which
// are the files hatch patches (src/lib.rs, src/checks.rs, LICENSE by
// default). Resolution order:
//
//  1. an explicit root (--root, HATCH_ROOT or root: in hatch.yml)
//  2. the nearest ancestor of the working directory holding all markers
//  3. the nearest ancestor of the hatch executable holding all markers
//
// The last step mirrors the tool being built from inside the project it
// extends.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrRootNotFound is returned when no candidate directory holds the marker files.
var ErrRootNotFound = errors.New("project root not found")

// IsProjectRoot reports whether dir contains every marker, given as paths
// relative to dir.
func IsProjectRoot(dir string, markers []string) bool {
	for _, m := range markers {
		if _, err := os.Stat(filepath.Join(dir, m)); err != nil {
			return false
		}
	}
	return true
}

// DetectRoot walks up from start and returns the first directory that
// contains every marker.
func DetectRoot(start string, markers []string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		if IsProjectRoot(dir, markers) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no ancestor of %s contains %v", ErrRootNotFound, start, markers)
		}
		dir = parent
	}
}

// ResolveOptions lists the candidates Resolve considers.
type ResolveOptions struct {
	Explicit   string   // Root given by flag, env or config
	WorkDir    string   // Usually os.Getwd()
	Executable string   // Usually os.Executable()
	Markers    []string // Files the root must contain
}

// Resolve returns the project root following the package resolution order.
func Resolve(opts ResolveOptions) (string, error) {
	if opts.Explicit != "" {
		root, err := filepath.Abs(opts.Explicit)
		if err != nil {
			return "", fmt.Errorf("resolving %s: %w", opts.Explicit, err)
		}
		info, err := os.Stat(root)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrRootNotFound, err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
		}
		return root, nil
	}

	var candidates []string
	if opts.WorkDir != "" {
		candidates = append(candidates, opts.WorkDir)
	}
	if opts.Executable != "" {
		exe := opts.Executable
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		candidates = append(candidates, filepath.Dir(exe))
	}

	for _, c := range candidates {
		if root, err := DetectRoot(c, opts.Markers); err == nil {
			return root, nil
		}
	}

	return "", fmt.Errorf("%w: searched from %v for %v", ErrRootNotFound, candidates, opts.Markers)
}
