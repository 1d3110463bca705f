package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/hatch/internal/config"
	"github.com/simonhull/firebird-suite/hatch/output"
	"github.com/spf13/cobra"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a hatch.yml with the default anchors",
		Long: `Write hatch.yml to the project root (or the working directory) with
every setting at its default, ready to be edited when the sentinel lines
of your project differ.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("root")
			if dir == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("getting working directory: %w", err)
				}
				dir = wd
			}

			path := filepath.Join(dir, config.FileName)
			if err := config.Save(path, config.Default(), force); err != nil {
				return err
			}

			output.Success(fmt.Sprintf("Wrote %s", path))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing hatch.yml")

	return cmd
}
