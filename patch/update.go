package patch

import (
	"fmt"
	"io"
	"os"
)

// Transform maps a file's full text to its new full text.
type Transform func(string) string

// UpdateFile reads path, applies fn exactly once and rewrites the file in place.
//
// The new content is computed in memory before the file is opened for
// writing. The file must already exist: it is opened with O_TRUNC and never
// created. An interrupted write is not rolled back.
func UpdateFile(path string, fn Transform) error {
	existing, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	updated := fn(string(existing))

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0)
	if err != nil {
		return fmt.Errorf("opening %s for writing: %w", path, err)
	}

	if _, err := io.WriteString(f, updated); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}

	return nil
}

// Apply runs rule against the file at path through UpdateFile and returns
// the rule's Result.
func Apply(path string, rule Rule) (Result, error) {
	var res Result
	err := UpdateFile(path, func(s string) string {
		res = rule.Apply(s)
		return res.Content
	})
	return res, err
}

// Preview computes what Apply would write without touching the file.
// It returns the current content alongside the Result.
func Preview(path string, rule Rule) (string, Result, error) {
	existing, err := os.ReadFile(path)
	if err != nil {
		return "", Result{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return string(existing), rule.Apply(string(existing)), nil
}
