package commands

import (
	"github.com/simonhull/firebird-suite/hatch"
	"github.com/simonhull/firebird-suite/hatch/internal/logger"
	"github.com/simonhull/firebird-suite/hatch/output"
	"github.com/spf13/cobra"
)

// RootCmd creates and returns the root command for the hatch CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "hatch",
		Short: "Scaffold new lint plugins",
		Long: `Hatch adds a new plugin to the analysis tool source tree.

For a plugin named flake8-bandit it will:
• Create src/flake8_bandit/ with mod.rs and plugins.rs
• Create a placeholder fixture under resources/test/fixtures/flake8_bandit/
• Register the module in src/lib.rs
• Add the category to src/checks.rs
• Add a license attribution to LICENSE`,
		Version:       hatch.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
			if verbose {
				logger.SetDefault(logger.New(logger.LevelDebug, cmd.ErrOrStderr()))
			}
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().String("config", "", "Path to hatch.yml (default: search the project root)")
	cmd.PersistentFlags().String("root", "", "Project root (default: detected from the working directory)")

	return cmd
}

// Commands returns every subcommand, in help order.
func Commands() []*cobra.Command {
	return []*cobra.Command{
		NewPluginCmd(),
		InitCmd(),
		VersionCmd(),
	}
}
