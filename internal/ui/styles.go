package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agentdeck/agentdeck/internal/config"
)

// Styles holds every lipgloss style used by the monitor, built once from the
// configured colors.
type Styles struct {
	Title        lipgloss.Style
	Header       lipgloss.Style
	Selected     lipgloss.Style
	UserMessage  lipgloss.Style
	AgentMessage lipgloss.Style
	PendingSend  lipgloss.Style
	Installed    lipgloss.Style
	Pending      lipgloss.Style
	Failed       lipgloss.Style
	Notification lipgloss.Style
	Success      lipgloss.Style
	Help         lipgloss.Style
	Border       lipgloss.Style
	Separator    lipgloss.Style
	FormTitle    lipgloss.Style
	FormActive   lipgloss.Style
	FormDim      lipgloss.Style
	Error        lipgloss.Style
	Logo         lipgloss.Style
	Team         lipgloss.Style
}

func NewStyles(c config.Colors) Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Title)).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.Header)),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(c.SelectedBG)).
			Foreground(lipgloss.Color(c.SelectedFG)),
		UserMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.UserMessage)),
		AgentMessage: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.AgentMessage)),
		PendingSend: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.PendingSend)).
			Italic(true),
		Installed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Installed)),
		Pending: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Pending)),
		Failed: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Failed)).
			Bold(true),
		Notification: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Notification)).
			Italic(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Success)),
		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Help)),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(c.Border)).
			Padding(1, 2),
		Separator: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Separator)),
		FormTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(c.FormTitle)).
			MarginBottom(1),
		FormActive: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.FormActive)),
		FormDim: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.FormDim)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Error)).
			Bold(true),
		Logo: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Logo)),
		Team: lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Team)),
	}
}
