package generator

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pmezard/go-difflib/difflib"
)

// Lipgloss styles for diff output
var (
	diffHeaderStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	diffHunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	diffAddedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	diffRemovedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
)

// DiffGenerator renders unified diffs of file contents.
type DiffGenerator struct {
	// Context is the number of unchanged lines shown around each change. Default: 3
	Context int
	// Color styles the output with lipgloss.
	Color bool
}

// NewDiffGenerator returns a coloured generator with three lines of context.
func NewDiffGenerator() *DiffGenerator {
	return &DiffGenerator{Context: 3, Color: true}
}

// Unified returns a unified diff between before and after, or "" when they are equal.
func (g *DiffGenerator) Unified(path, before, after string) string {
	if before == after {
		return ""
	}

	context := g.Context
	if context <= 0 {
		context = 3
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        diffLines(before),
		B:        diffLines(after),
		FromFile: path,
		ToFile:   path,
		Context:  context,
	})
	if err != nil {
		return fmt.Sprintf("%s: cannot diff: %v\n", path, err)
	}

	if !g.Color {
		return diff
	}
	return g.colorize(diff)
}

// colorize styles each line of a unified diff by its kind.
func (g *DiffGenerator) colorize(diff string) string {
	var out strings.Builder
	for i, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")

		switch {
		case i < 2:
			text = diffHeaderStyle.Render(text)
		case strings.HasPrefix(text, "@@"):
			text = diffHunkStyle.Render(text)
		case strings.HasPrefix(text, "+"):
			text = diffAddedStyle.Render(text)
		case strings.HasPrefix(text, "-"):
			text = diffRemovedStyle.Render(text)
		}

		out.WriteString(text)
		if strings.HasSuffix(line, "\n") {
			out.WriteString("\n")
		}
	}
	return out.String()
}

// diffLines splits content into newline-terminated lines. A missing final
// newline is added so the last line does not run into the next diff line.
func diffLines(s string) []string {
	if s == "" {
		return nil
	}

	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if last := lines[len(lines)-1]; !strings.HasSuffix(last, "\n") {
		lines[len(lines)-1] = last + "\n"
	}
	return lines
}
