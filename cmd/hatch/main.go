package main

import (
	"os"

	"github.com/simonhull/firebird-suite/hatch/internal/commands"
	"github.com/simonhull/firebird-suite/hatch/output"
)

func main() {
	rootCmd := commands.RootCmd()
	rootCmd.AddCommand(commands.Commands()...)

	if err := rootCmd.Execute(); err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
