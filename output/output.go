// Package output prints hatch's user-facing messages.
//
// Messages share the Firebird suite's look: lipgloss styles, one emoji per
// kind, next steps indented underneath. Callers never deal with styles.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var (
	mu          sync.Mutex
	out         io.Writer = os.Stdout
	verboseMode bool
)

// SetVerbose enables or disables Verbose messages.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// IsVerbose reports whether Verbose messages are printed.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verboseMode
}

// SetWriter redirects all messages, returning the previous writer.
func SetWriter(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// Writer returns the current destination.
func Writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return out
}

func emit(style lipgloss.Style, msg string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(out, style.Render(msg))
}

// Success prints a completed operation.
//
//	output.Success("Created plugin: flake8-bandit")
func Success(msg string) {
	emit(successStyle, "🐣 "+msg)
}

// Error prints a failure that needs the user's attention.
func Error(msg string) {
	emit(errorStyle, "❌ "+msg)
}

// Warn prints something that did not fail but probably needs a look,
// such as an anchor that was not found.
func Warn(msg string) {
	emit(warnStyle, "⚠️  "+msg)
}

// Info prints a status line or heading.
func Info(msg string) {
	emit(infoStyle, "ℹ️  "+msg)
}

// Step prints an indented follow-up item.
//
//	output.Info("Next steps:")
//	output.Step("implement src/flake8_bandit/plugins.rs")
func Step(msg string) {
	emit(stepStyle, "   "+msg)
}

// Verbose prints a debug line when verbose mode is on.
func Verbose(msg string) {
	if !IsVerbose() {
		return
	}
	emit(stepStyle, "🔍 "+msg)
}
