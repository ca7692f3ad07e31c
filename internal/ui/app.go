package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentdeck/agentdeck/internal/notify"
	"github.com/agentdeck/agentdeck/internal/poller"

	"github.com/agentdeck/agentdeck/internal/api"
)

type view int

const (
	viewMonitor view = iota
	viewInstall
)

// AppModel is the top-level bubbletea model: the monitor view plus the
// skill-install side panel.
type AppModel struct {
	client     api.Client
	activeView view

	monitor monitorModel
	install installModel

	timeout time.Duration
	styles  Styles
	width   int
	height  int
}

func NewApp(styles Styles, client api.Client, teamID string, timeout time.Duration) AppModel {
	return AppModel{
		client:     client,
		activeView: viewMonitor,
		monitor:    newMonitor(styles, client, teamID, timeout),
		timeout:    timeout,
		styles:     styles,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.monitor.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.monitor.setSize(msg.Width, msg.Height)
		m.install.width = msg.Width
		return m, nil

	// Background events always reach the monitor, whatever view is open:
	// the canonical snapshot keeps flowing while the install form is up.
	case poller.SnapshotMsg, poller.ErrorMsg, chatSentMsg, chatFailedMsg:
		var cmd tea.Cmd
		m.monitor, cmd = m.monitor.Update(msg)
		return m, cmd

	case startInstallMsg:
		m.activeView = viewInstall
		m.install = newInstall(m.styles, m.client, msg.agent, m.timeout, m.width)
		return m, m.install.Init()

	case installDoneMsg:
		m.activeView = viewMonitor
		m.monitor.ring.Push(notify.Notification{
			Kind:    notify.KindSuccess,
			Message: "Skill install queued: " + msg.skillName + " on " + msg.agentName,
		})
		return m, nil

	case installFailedMsg:
		m.activeView = viewMonitor
		m.monitor.ring.Push(notify.Notification{
			Kind:    notify.KindError,
			Message: "Skill install failed for " + msg.agentName + ": " + msg.err.Error(),
		})
		return m, nil

	case installCancelMsg:
		m.activeView = viewMonitor
		return m, nil
	}

	switch m.activeView {
	case viewInstall:
		var cmd tea.Cmd
		m.install, cmd = m.install.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.monitor, cmd = m.monitor.Update(msg)
		return m, cmd
	}
}

func (m AppModel) View() string {
	if m.activeView == viewInstall {
		return m.viewSideBySide(m.install.ViewContent())
	}
	return m.monitor.View()
}

func (m AppModel) viewSideBySide(rightPanel string) string {
	maxWidth := m.width - 4
	if maxWidth < 40 {
		maxWidth = 80
	}

	// 55% for monitor, 45% for right panel, minus 1 for separator
	monWidth := maxWidth * 55 / 100
	panelWidth := maxWidth - monWidth - 1

	monContent := lipgloss.NewStyle().Width(monWidth).Render(m.monitor.ViewContent())
	panelContent := lipgloss.NewStyle().Width(panelWidth).Render(rightPanel)

	// Build a vertical separator matching the height of the taller panel
	monHeight := lipgloss.Height(monContent)
	panelHeight := lipgloss.Height(panelContent)
	sepHeight := monHeight
	if panelHeight > sepHeight {
		sepHeight = panelHeight
	}
	sepLines := make([]string, sepHeight)
	for i := range sepLines {
		sepLines[i] = "│"
	}
	sep := m.styles.Separator.Render(strings.Join(sepLines, "\n"))

	joined := lipgloss.JoinHorizontal(lipgloss.Top, monContent, sep, panelContent)

	return m.styles.Border.Width(maxWidth).Render(joined)
}
