package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the agentdeck version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("agentdeck", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
