package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/poller"
	"github.com/agentdeck/agentdeck/internal/ui"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor <team-id>",
	Short: "Open the live monitor for a team",
	Long:  `Opens the interactive monitor: live transcript with chat, per-agent skill install status, and failure notifications. Polls the team API on a fixed cadence.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		teamID := args[0]

		if os.Getenv("AGENTDECK_DEBUG") != "" {
			f, err := os.OpenFile("agentdeck.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err == nil {
				defer f.Close()
				slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		} else {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
		}

		client := api.NewClient(cfg.Monitor.APIBaseURL, api.WithTimeout(cfg.Monitor.TimeoutDuration()))

		// Verify the team exists before taking over the terminal.
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if _, err := client.GetTeam(ctx, teamID); err != nil {
			return fmt.Errorf("team %q: %w", teamID, err)
		}

		styles := ui.NewStyles(cfg.Colors)
		app := ui.NewApp(styles, client, teamID, cfg.Monitor.TimeoutDuration())
		p := tea.NewProgram(app, tea.WithAltScreen())

		poll := poller.New(client, teamID, cfg.Monitor.PollDuration(), p.Send)
		go poll.Run(ctx)

		_, err = p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(monitorCmd)
}
