package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roxlang/rox/internal/config"
	"github.com/roxlang/rox/pkg/cli"
)

var exitCode int

var rootCmd = &cobra.Command{
	Use:   "rox [file]",
	Short: "The rox scripting language",
	Long: `rox is a tree-walk interpreter for the rox scripting language:
dynamically evaluated, lexically scoped, with first-class functions,
classes with inheritance, modules and structured exception handling.

With no arguments rox starts a REPL; with a file argument it runs the
script.`,
	Version: config.Version,
	Args:    cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if len(args) == 1 {
			exitCode = cli.RunFile(args[0], os.Stdout, os.Stderr)
			return
		}
		exitCode = cli.RunREPL(os.Stdin, os.Stdout, os.Stderr)
	},
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}
