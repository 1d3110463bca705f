package generator

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Decision is the reviewer's answer for one pending patch.
type Decision int

const (
	Apply Decision = iota
	Skip
	Cancel
)

// Reviewer decides whether a pending patch is written.
type Reviewer interface {
	Review(path, before, after string) (Decision, error)
}

// ApproveAll applies every patch without asking.
type ApproveAll struct{}

// Review always returns Apply.
func (ApproveAll) Review(path, before, after string) (Decision, error) {
	return Apply, nil
}

// NewReviewer returns an interactive reviewer when asked for one and stdin is
// a terminal, and ApproveAll otherwise.
func NewReviewer(interactive bool) Reviewer {
	if !interactive || !term.IsTerminal(int(os.Stdin.Fd())) {
		return ApproveAll{}
	}
	return &InteractiveReviewer{diffGen: NewDiffGenerator(), out: os.Stdout}
}

// Lipgloss styles for the review prompt
var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// inlineDiffLines is the longest diff printed inline; longer ones open a pager.
const inlineDiffLines = 20

// InteractiveReviewer shows each diff and asks what to do with it.
type InteractiveReviewer struct {
	diffGen *DiffGenerator
	out     io.Writer
}

// Review shows the diff for path and returns the user's choice.
func (r *InteractiveReviewer) Review(path, before, after string) (Decision, error) {
	diff := r.diffGen.Unified(path, before, after)

	if strings.Count(diff, "\n") > inlineDiffLines {
		p := tea.NewProgram(newDiffViewerModel(path, diff), tea.WithAltScreen())
		final, err := p.Run()
		if err != nil {
			return Cancel, fmt.Errorf("failed to show diff: %w", err)
		}
		if final.(diffViewerModel).cancelled {
			return Cancel, nil
		}
	} else {
		fmt.Fprint(r.out, diff)
	}

	p := tea.NewProgram(newReviewMenuModel(path, strings.Count(diff, "\n+")))
	final, err := p.Run()
	if err != nil {
		return Cancel, fmt.Errorf("failed to show menu: %w", err)
	}

	result := final.(reviewMenuModel)
	if result.selected == nil {
		return Cancel, nil
	}
	return *result.selected, nil
}

// reviewMenuModel is the BubbleTea model for the apply/skip/cancel menu
type reviewMenuModel struct {
	path     string
	added    int
	choices  []string
	cursor   int
	selected *Decision
}

func newReviewMenuModel(path string, added int) reviewMenuModel {
	return reviewMenuModel{
		path:  path,
		added: added,
		choices: []string{
			"Apply change",
			"Skip this file",
			"Cancel remaining steps",
		},
	}
}

func (m reviewMenuModel) Init() tea.Cmd {
	return nil
}

func (m reviewMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.choices)-1 {
			m.cursor++
		}

	case "enter":
		d := choiceToDecision(m.cursor)
		m.selected = &d
		return m, tea.Quit
	}

	return m, nil
}

func (m reviewMenuModel) View() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render("Review patch: ") + titleStyle.Render(m.path) + "\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("    %d line(s) added", m.added)) + "\n\n")
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	for i, choice := range m.choices {
		if m.cursor == i {
			b.WriteString("    " + selectedStyle.Render("> "+choice) + "\n")
		} else {
			b.WriteString("      " + choice + "\n")
		}
	}

	return b.String()
}

func choiceToDecision(cursor int) Decision {
	switch cursor {
	case 0:
		return Apply
	case 1:
		return Skip
	default:
		return Cancel
	}
}

// diffViewerModel pages through a long diff
type diffViewerModel struct {
	path      string
	diff      string
	viewport  viewport.Model
	ready     bool
	cancelled bool
}

func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{path: path, diff: diff}
}

func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "q", "esc", "enter":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		// title line + footer line
		height := max(msg.Height-2, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m diffViewerModel) View() string {
	if !m.ready {
		return "Loading diff..."
	}

	title := titleStyle.Render("Diff: " + m.path)
	footer := borderStyle.Render(fmt.Sprintf("%3.f%%  [↑/↓/pgup/pgdn] Scroll    [q] Continue    [ctrl+c] Cancel", m.viewport.ScrollPercent()*100))
	return title + "\n" + m.viewport.View() + "\n" + footer
}
