package cmd

import (
	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/config"
)

var (
	flagConfig string
	flagAPI    string
)

var rootCmd = &cobra.Command{
	Use:   "agentdeck",
	Short: "Operator console for AI agent teams",
	Long:  `agentdeck supervises agent teams over their REST control plane: live chat, skill install status, and team management from the terminal.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file path (default "+config.Path()+")")
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "", "API base URL (overrides config)")
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if flagAPI != "" {
		cfg.Monitor.APIBaseURL = flagAPI
	}
	return cfg, nil
}
