package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/api"
)

var teamsCmd = &cobra.Command{
	Use:   "teams",
	Short: "List teams known to the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := api.NewClient(cfg.Monitor.APIBaseURL, api.WithTimeout(cfg.Monitor.TimeoutDuration()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Monitor.TimeoutDuration())
		defer cancel()

		teams, err := client.ListTeams(ctx)
		if err != nil {
			return err
		}
		if len(teams) == 0 {
			fmt.Println("no teams")
			return nil
		}

		fmt.Printf("%-38s %-20s %-10s %s\n", "ID", "NAME", "STATUS", "AGENTS")
		for _, t := range teams {
			fmt.Printf("%-38s %-20s %-10s %d\n", t.ID, t.Name, t.Status, len(t.Agents))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(teamsCmd)
}
