package commands

import (
	"errors"
	"fmt"

	"github.com/simonhull/firebird-suite/hatch/generator"
	"github.com/simonhull/firebird-suite/hatch/internal/logger"
	"github.com/simonhull/firebird-suite/hatch/internal/plugin"
	"github.com/simonhull/firebird-suite/hatch/output"
	"github.com/spf13/cobra"
)

// NewPluginCmd returns the new-plugin command
func NewPluginCmd() *cobra.Command {
	var dryRun bool
	var review bool
	var strict bool

	cmd := &cobra.Command{
		Use:   "new-plugin [name]",
		Short: "Scaffold a new plugin",
		Long: `Scaffold a new plugin in the current project.

The plugin identifier is the name lowercased with dashes replaced by
underscores: "flake8-bandit" becomes flake8_bandit. Names whose
identifier would not be a valid module name (spaces, dots, a leading
digit, non-ASCII letters) are rejected before anything is written.

Files are created with the identifier, and the name is used in comments
and the license attribution. Existing plugin directories are never
overwritten.

Example:
  hatch new-plugin flake8-bandit
  hatch new-plugin flake8-bandit --dry-run
  hatch new-plugin flake8-bandit --review --strict`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pl, err := plugin.New(args[0])
			if err != nil {
				return err
			}

			cfg, root, err := loadProject(cmd)
			if err != nil {
				return err
			}
			if strict {
				cfg.Strict = true
			}

			output.Verbose(fmt.Sprintf("Scaffolding %s as %s in %s", pl.Name, pl.Ident, root))

			planner := plugin.NewPlanner(root, cfg)
			report, err := generator.Execute(cmd.Context(), planner.Plan(pl), generator.ExecuteOptions{
				DryRun:   dryRun,
				Reviewer: generator.NewReviewer(review),
				Writer:   output.Writer(),
				Logger:   logger.Default(),
			})
			if err != nil {
				if errors.Is(err, generator.ErrCancelled) {
					output.Warn("Cancelled. Steps already applied were kept.")
				}
				return fmt.Errorf("scaffolding %s: %w", pl.Name, err)
			}

			for _, path := range report.Missed {
				output.Warn(fmt.Sprintf("Anchor not found in %s, nothing was inserted there", relTo(root, path)))
			}
			for _, path := range report.Skipped {
				output.Warn(fmt.Sprintf("Skipped %s, update it by hand", relTo(root, path)))
			}

			if dryRun {
				output.Info("Dry run: no files were changed")
				return nil
			}

			output.Success(fmt.Sprintf("Created plugin: %s", pl.Name))
			output.Info("Next steps:")
			for _, step := range planner.NextSteps(pl) {
				output.Step(step)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would change without writing anything")
	cmd.Flags().BoolVar(&review, "review", false, "Review each file update before it is written")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when an anchor is not found")

	return cmd
}
