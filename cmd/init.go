package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  `Writes a commented default config to the standard location unless one already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			path = config.Path()
		}
		if err := config.WriteDefault(path); err != nil {
			return err
		}
		fmt.Println("wrote", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
