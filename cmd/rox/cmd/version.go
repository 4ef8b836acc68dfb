package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roxlang/rox/internal/config"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the rox version",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Printf("rox version %s\n", config.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
