package plugin

import (
	"fmt"
	"path/filepath"

	"github.com/simonhull/firebird-suite/hatch/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/config"
	"github.com/simonhull/firebird-suite/hatch/patch"
)

const (
	modRS       = "pub mod plugins;\n"
	variantTODO = "// TODO: Adjust name and complete impl of CheckCategory"
)

// Planner turns a Plugin into generator operations against a project root.
type Planner struct {
	Root   string
	Config *config.Config
	// Strict makes every patch fail when its anchor is missing.
	Strict bool
}

// NewPlanner creates a planner for the project at root.
func NewPlanner(root string, cfg *config.Config) *Planner {
	return &Planner{Root: root, Config: cfg, Strict: cfg.Strict}
}

// SourceDir is where the plugin's code lives.
func (p *Planner) SourceDir(pl Plugin) string {
	return filepath.Join(p.Root, "src", pl.Ident)
}

// FixtureDir is where the plugin's test fixtures live.
func (p *Planner) FixtureDir(pl Plugin) string {
	return filepath.Join(p.Root, "resources", "test", "fixtures", pl.Ident)
}

// Plan returns the operations that scaffold pl, in execution order.
func (p *Planner) Plan(pl Plugin) []generator.Operation {
	anchors := p.Config.Anchors
	srcDir := p.SourceDir(pl)
	fixtureDir := p.FixtureDir(pl)

	return []generator.Operation{
		&generator.CreateDirOp{Path: srcDir, Label: "Creating plugin directory"},
		&generator.CreateFileOp{
			Path:    filepath.Join(srcDir, "mod.rs"),
			Content: []byte(modRS),
			Mode:    0644,
			Label:   "Creating mod.rs",
		},
		&generator.CreateFileOp{
			Path:    filepath.Join(srcDir, "plugins.rs"),
			Content: []byte{},
			Mode:    0644,
			Label:   "Creating plugins.rs",
		},

		&generator.CreateDirOp{Path: fixtureDir, Label: "Creating test fixture directory"},
		&generator.CreateFileOp{
			Path:    filepath.Join(fixtureDir, p.Config.Fixture.File),
			Content: []byte(p.Config.Fixture.Content),
			Mode:    0644,
			Label:   "Creating example test file",
		},

		p.patchOp(anchors.ModuleRegistry, RegistryRule(pl, anchors.ModuleRegistry.Needle)),
		p.patchOp(anchors.CategoryMarker, CategoryMarkerRule(pl, anchors.CategoryMarker.Needle)),
		p.patchOp(anchors.CategoryVariant, CategoryVariantRule(pl, anchors.CategoryVariant.Needle)),
		p.patchOp(anchors.License, LicenseRule(pl, anchors.License.Needle)),
	}
}

func (p *Planner) patchOp(a config.Anchor, rule patch.Rule) *generator.PatchFileOp {
	op := &generator.PatchFileOp{
		Path:  filepath.Join(p.Root, filepath.FromSlash(a.Path)),
		Rule:  rule,
		Label: "Updating " + a.Path,
	}
	if p.Strict {
		op.MinMatches = 1
	}
	return op
}

// RegistryRule declares the plugin's module right before the sentinel module.
func RegistryRule(pl Plugin, needle string) patch.Rule {
	return patch.InsertBefore(needle, fmt.Sprintf("mod %s;", pl.Ident))
}

// CategoryMarkerRule adds a comment naming the plugin before every
// per-arm marker comment, at the marker's indentation.
func CategoryMarkerRule(pl Plugin, marker string) patch.Rule {
	return patch.IndentAll(patch.MarkerAnchor(marker), "// "+pl.Name)
}

// CategoryVariantRule adds the plugin's category variant, with a reminder
// to finish it, before the sentinel variant.
func CategoryVariantRule(pl Plugin, marker string) patch.Rule {
	return patch.IndentFirst(patch.MarkerAnchor(marker), variantTODO+"\n"+pl.Ident+",")
}

// LicenseRule adds an attribution block with a placeholder body before the
// sentinel attribution.
func LicenseRule(pl Plugin, needle string) patch.Rule {
	block := fmt.Sprintf("- %s, licensed as follows:\n  \"\"\"\n    TODO\n  \"\"\"\n", pl.Name)
	return patch.InsertBefore(needle, block)
}

// NextSteps lists what is left for the developer after scaffolding.
func (p *Planner) NextSteps(pl Plugin) []string {
	rel := func(path string) string {
		if r, err := filepath.Rel(p.Root, path); err == nil {
			return filepath.ToSlash(r)
		}
		return path
	}

	return []string{
		fmt.Sprintf("Implement checks in %s", rel(filepath.Join(p.SourceDir(pl), "plugins.rs"))),
		fmt.Sprintf("Replace the placeholder fixture in %s", rel(p.FixtureDir(pl))),
		fmt.Sprintf("Finish the %s category in %s (search for TODO)", pl.Ident, p.Config.Anchors.CategoryVariant.Path),
		fmt.Sprintf("Fill in the %s license text in %s", pl.Name, p.Config.Anchors.License.Path),
	}
}
