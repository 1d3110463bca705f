package patch

import (
	"fmt"
	"regexp"
)

// Anchor locates marker lines and captures their leading indentation.
//
// The underlying pattern runs in multiline mode and must define two named
// groups: "indent" (the whitespace before the marker) and "needle" (the
// marker itself).
type Anchor struct {
	re     *regexp.Regexp
	indent int
	needle int
}

// anchorMatch is one located marker line.
type anchorMatch struct {
	start, end int
	indent     string
}

// MarkerAnchor matches lines consisting of optional spaces or tabs followed
// by the literal marker and nothing else.
func MarkerAnchor(marker string) Anchor {
	a, err := CompileAnchor(`(?m)^(?P<indent>[ \t]*)(?P<needle>` + regexp.QuoteMeta(marker) + `)$`)
	if err != nil {
		// QuoteMeta output always compiles
		panic(err)
	}
	return a
}

// CompileAnchor builds an Anchor from a raw expression. The expression must
// contain the named groups "indent" and "needle".
func CompileAnchor(expr string) (Anchor, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Anchor{}, fmt.Errorf("compiling anchor %q: %w", expr, err)
	}

	a := Anchor{
		re:     re,
		indent: re.SubexpIndex("indent"),
		needle: re.SubexpIndex("needle"),
	}
	if a.indent < 0 || a.needle < 0 {
		return Anchor{}, fmt.Errorf("anchor %q must define the groups (?P<indent>...) and (?P<needle>...)", expr)
	}

	return a, nil
}

// String returns the anchor's pattern.
func (a Anchor) String() string {
	if a.re == nil {
		return ""
	}
	return a.re.String()
}

func (a Anchor) find(content string, limit int) []anchorMatch {
	if a.re == nil {
		return nil
	}

	locs := a.re.FindAllStringSubmatchIndex(content, limit)
	matches := make([]anchorMatch, 0, len(locs))
	for _, loc := range locs {
		m := anchorMatch{start: loc[0], end: loc[1]}
		if i := 2 * a.indent; loc[i] >= 0 {
			m.indent = content[loc[i]:loc[i+1]]
		}
		matches = append(matches, m)
	}
	return matches
}
