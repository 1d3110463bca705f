// Package patch rewrites hand-maintained source files by inserting generated
// text next to known anchor lines.
//
// # Overview
//
// A target file is treated as an opaque blob of text. Insertion points are
// located by matching a marker line (a literal needle, or a pattern that
// captures the marker's leading indentation) instead of line numbers, so the
// rules keep working while the surrounding file is edited by hand.
//
// Three rule shapes are provided:
//
//   - InsertBefore: literal needle, fragment inserted unindented before every occurrence
//   - IndentFirst: anchored marker line, fragment re-indented before the first match
//   - IndentAll: anchored marker line, fragment re-indented before every match
//
// # Usage
//
//	rule := patch.IndentAll(patch.MarkerAnchor("// flake8-print"), "// foo-bar")
//
//	res, err := patch.Apply("src/checks.rs", rule)
//	if err != nil {
//	    return err
//	}
//	if err := res.Require(1); err != nil {
//	    return err // anchor drifted upstream
//	}
//
// # Re-application
//
// A rule never inserts its fragment at an anchor whose preceding lines are
// exactly that fragment, so running a rule over its own output is a
// no-op. An anchor that does not occur leaves the content byte-identical;
// callers that care inspect Result.Matches.
package patch
