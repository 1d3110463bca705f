package patch

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAnchorNotFound is returned by Result.Require when fewer anchors than
// expected were found.
var ErrAnchorNotFound = errors.New("anchor not found")

// Result is the outcome of applying a Rule to some content.
type Result struct {
	Content string // Content after the rule ran
	Matches int    // Anchor occurrences considered
	// Inserted counts fragments actually written. It is lower than Matches
	// when an anchor was already preceded by the fragment.
	Inserted int
}

// Changed reports whether any fragment was inserted.
func (r Result) Changed() bool {
	return r.Inserted > 0
}

// Require returns ErrAnchorNotFound if fewer than min anchors were matched.
func (r Result) Require(min int) error {
	if r.Matches < min {
		return fmt.Errorf("%w: expected at least %d match(es), found %d", ErrAnchorNotFound, min, r.Matches)
	}
	return nil
}

// Rule is a pure transformation of a file's full text.
type Rule interface {
	Apply(content string) Result
}

// RuleFunc adapts an ordinary function to the Rule interface.
type RuleFunc func(content string) Result

// Apply calls f(content).
func (f RuleFunc) Apply(content string) Result {
	return f(content)
}

// literalRule inserts a fragment line before every occurrence of needle.
type literalRule struct {
	needle   string
	fragment string
}

// InsertBefore returns a rule that places fragment, followed by a newline,
// directly before every occurrence of needle. Nothing is indented: this is
// meant for flat files such as a module list or a license manifest.
func InsertBefore(needle, fragment string) Rule {
	return &literalRule{needle: needle, fragment: fragment}
}

func (r *literalRule) Apply(content string) Result {
	res := Result{Content: content}
	if r.needle == "" {
		return res
	}

	insert := r.fragment + "\n"

	var b strings.Builder
	rest := content
	for {
		i := strings.Index(rest, r.needle)
		if i < 0 {
			break
		}
		res.Matches++

		b.WriteString(rest[:i])
		if !precededBy(b.String(), insert) {
			b.WriteString(insert)
			res.Inserted++
		}
		b.WriteString(r.needle)

		rest = rest[i+len(r.needle):]
	}

	if res.Matches == 0 {
		return res
	}

	b.WriteString(rest)
	res.Content = b.String()
	return res
}

// anchorRule inserts a re-indented fragment before anchored marker lines.
type anchorRule struct {
	anchor   Anchor
	fragment string
	all      bool
}

// IndentFirst returns a rule that inserts fragment before the first line
// matched by anchor. Every line of fragment receives the indentation
// captured from the marker line; the marker line itself is kept verbatim.
func IndentFirst(anchor Anchor, fragment string) Rule {
	return &anchorRule{anchor: anchor, fragment: fragment}
}

// IndentAll is IndentFirst applied to every line matched by anchor.
func IndentAll(anchor Anchor, fragment string) Rule {
	return &anchorRule{anchor: anchor, fragment: fragment, all: true}
}

func (r *anchorRule) Apply(content string) Result {
	res := Result{Content: content}

	limit := 1
	if r.all {
		limit = -1
	}

	matches := r.anchor.find(content, limit)
	if len(matches) == 0 {
		return res
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		res.Matches++

		prefix := Indent(r.fragment, m.indent) + "\n"

		b.WriteString(content[last:m.start])
		if !precededBy(content[:m.start], prefix) {
			b.WriteString(prefix)
			res.Inserted++
		}
		b.WriteString(content[m.start:m.end])

		last = m.end
	}
	b.WriteString(content[last:])

	res.Content = b.String()
	return res
}

// precededBy reports whether text ends with the whole lines in block, i.e.
// block is a suffix of text that starts at the beginning of a line.
func precededBy(text, block string) bool {
	if !strings.HasSuffix(text, block) {
		return false
	}
	at := len(text) - len(block)
	return at == 0 || text[at-1] == '\n'
}

// Indent prefixes every non-blank line of text with prefix. Blank lines are
// left untouched and a trailing newline is preserved.
func Indent(text, prefix string) string {
	if prefix == "" {
		return text
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if strings.TrimSpace(line) != "" {
			b.WriteString(prefix)
		}
		b.WriteString(line)
	}
	return b.String()
}
