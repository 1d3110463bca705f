// Package plugin plans the filesystem steps that scaffold a new plugin:
// its source directory, its fixture directory, and the registry, category
// and license entries that wire it into the build.
package plugin

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// identPattern is what a plugin identifier must look like to be usable as a
// module name and an enum variant.
var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Plugin is a plugin to scaffold.
type Plugin struct {
	Name  string // As typed by the user, e.g. "flake8-bandit"
	Ident string // Derived identifier, e.g. "flake8_bandit"
}

// Ident lowercases name and joins its dash-separated words with underscores.
func Ident(name string) string {
	lower := cases.Lower(language.Und).String(strings.TrimSpace(name))
	return strings.ReplaceAll(lower, "-", "_")
}

// New validates name and derives the plugin's identifier.
func New(name string) (Plugin, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Plugin{}, fmt.Errorf("plugin name is required")
	}

	ident := Ident(name)
	if !identPattern.MatchString(ident) {
		return Plugin{}, fmt.Errorf("plugin name %q gives identifier %q, which is not a valid identifier (want lowercase letters, digits, '-' or '_', not starting with a digit)", name, ident)
	}

	return Plugin{Name: name, Ident: ident}, nil
}
