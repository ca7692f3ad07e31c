package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/notify"
	"github.com/agentdeck/agentdeck/internal/poller"
	"github.com/agentdeck/agentdeck/internal/skill"
	"github.com/agentdeck/agentdeck/internal/transcript"
)

const logo = `  █████╗  ██████╗ ███████╗███╗   ██╗████████╗██████╗ ███████╗ ██████╗██╗  ██╗
 ██╔══██╗██╔════╝ ██╔════╝████╗  ██║╚══██╔══╝██╔══██╗██╔════╝██╔════╝██║ ██╔╝
 ███████║██║  ███╗█████╗  ██╔██╗ ██║   ██║   ██║  ██║█████╗  ██║     █████╔╝
 ██╔══██║██║   ██║██╔══╝  ██║╚██╗██║   ██║   ██║  ██║██╔══╝  ██║     ██╔═██╗
 ██║  ██║╚██████╔╝███████╗██║ ╚████║   ██║   ██████╔╝███████╗╚██████╗██║  ██╗
 ╚═╝  ╚═╝ ╚═════╝ ╚══════╝╚═╝  ╚═══╝   ╚═╝   ╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝`

type focusArea int

const (
	focusComposer focusArea = iota
	focusAgents
)

// chatSentMsg resolves one in-flight send; the optimistic entry stays pending
// until the next canonical snapshot supersedes it.
type chatSentMsg struct {
	clientID string
}

// chatFailedMsg resolves one in-flight send that was rejected.
type chatFailedMsg struct {
	clientID string
	err      error
}

// startInstallMsg asks the app to open the skill-install form for an agent.
type startInstallMsg struct {
	agent api.Agent
}

type monitorModel struct {
	client  api.Client
	store   *transcript.Store
	tracker *notify.FailureTracker
	ring    *notify.Ring
	teamID  string
	timeout time.Duration

	team    *api.Team
	summary skill.Summary

	input    textinput.Model
	vp       viewport.Model
	spin     spinner.Model
	inflight int
	focus    focusArea
	cursor   int

	width  int
	height int
	err    string
	styles Styles
}

func newMonitor(s Styles, client api.Client, teamID string, timeout time.Duration) monitorModel {
	ti := textinput.New()
	ti.Placeholder = "message the team"
	ti.CharLimit = 2000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.PendingSend

	return monitorModel{
		client:  client,
		store:   transcript.NewStore(teamID),
		tracker: notify.NewFailureTracker(),
		ring:    notify.NewRing(10),
		teamID:  teamID,
		timeout: timeout,
		input:   ti,
		vp:      viewport.New(80, 12),
		spin:    sp,
		styles:  s,
	}
}

func (m monitorModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *monitorModel) setSize(width, height int) {
	m.width = width
	m.height = height
	vpWidth := width - 8
	if vpWidth < 40 {
		vpWidth = 40
	}
	vpHeight := height - 24
	if vpHeight < 6 {
		vpHeight = 6
	}
	m.vp.Width = vpWidth
	m.vp.Height = vpHeight
	m.refreshTranscript()
}

func (m monitorModel) Update(msg tea.Msg) (monitorModel, tea.Cmd) {
	switch msg := msg.(type) {
	case poller.SnapshotMsg:
		return m.applySnapshot(msg), nil

	case poller.ErrorMsg:
		m.err = "poll failed: " + msg.Err.Error()
		return m, nil

	case chatSentMsg:
		m.inflight--
		return m, nil

	case chatFailedMsg:
		m.inflight--
		if text, ok := m.store.Fail(msg.clientID); ok {
			m.input.SetValue(text)
			m.input.CursorEnd()
		}
		m.ring.Push(notify.Notification{
			Kind:    notify.KindError,
			Message: "Failed to send message: " + msg.err.Error(),
		})
		m.refreshTranscript()
		return m, nil

	case spinner.TickMsg:
		if m.inflight <= 0 {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m monitorModel) updateKeys(msg tea.KeyMsg) (monitorModel, tea.Cmd) {
	m.err = ""

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "tab":
		if m.focus == focusComposer {
			m.focus = focusAgents
			m.input.Blur()
		} else {
			m.focus = focusComposer
			if m.composerEnabled() {
				m.input.Focus()
			}
		}
		return m, nil
	}

	if m.focus == focusAgents {
		switch msg.String() {
		case "j", "down":
			if m.cursor < len(m.summary.Agents)-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
		case "i", "enter":
			if a, ok := m.selectedAgent(); ok {
				return m, func() tea.Msg { return startInstallMsg{agent: a} }
			}
		}
		return m, nil
	}

	if msg.String() == "enter" {
		return m.submit()
	}

	if !m.composerEnabled() {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit runs the optimistic half of the send lifecycle: append the local
// echo and clear the input before the network call is even issued.
func (m monitorModel) submit() (monitorModel, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	if !m.composerEnabled() {
		m.err = "team is not running — chat is disabled"
		return m, nil
	}

	echo := m.store.Append(text)
	m.input.SetValue("")
	m.refreshTranscript()

	m.inflight++
	cmds := []tea.Cmd{m.sendChat(echo)}
	if m.inflight == 1 {
		cmds = append(cmds, m.spin.Tick)
	}
	return m, tea.Batch(cmds...)
}

// sendChat performs the network half. Each command carries its own clientID,
// so interleaved sends resolve independently. No retry on failure.
func (m monitorModel) sendChat(echo api.Message) tea.Cmd {
	client := m.client
	teamID := m.teamID
	timeout := m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_, err := client.SendChat(ctx, teamID, api.ChatRequest{
			Content:         echo.Content,
			ClientMessageID: echo.MessageID,
		})
		if err != nil {
			return chatFailedMsg{clientID: echo.ID, err: err}
		}
		return chatSentMsg{clientID: echo.ID}
	}
}

func (m monitorModel) applySnapshot(msg poller.SnapshotMsg) monitorModel {
	m.team = msg.Team
	m.summary = skill.Aggregate(msg.Team.Agents)
	m.store.ApplySnapshot(msg.Messages)

	for _, n := range m.tracker.Observe(msg.Messages) {
		m.ring.Push(n)
	}

	if m.cursor >= len(m.summary.Agents) && m.cursor > 0 {
		m.cursor = len(m.summary.Agents) - 1
	}

	if !m.composerEnabled() {
		m.input.Blur()
	} else if m.focus == focusComposer && !m.input.Focused() {
		m.input.Focus()
	}

	m.refreshTranscript()
	return m
}

func (m monitorModel) composerEnabled() bool {
	return m.team != nil && m.team.Status == api.TeamStatusRunning
}

func (m monitorModel) selectedAgent() (api.Agent, bool) {
	if m.team == nil || len(m.team.Agents) == 0 {
		return api.Agent{}, false
	}
	// The cursor runs over the aggregated rows; map back to the team agent.
	if m.cursor < len(m.summary.Agents) {
		id := m.summary.Agents[m.cursor].AgentID
		for _, a := range m.team.Agents {
			if a.ID == id {
				return a, true
			}
		}
	}
	return m.team.Agents[0], true
}

func (m *monitorModel) refreshTranscript() {
	var b strings.Builder
	for _, e := range m.store.Entries() {
		line := m.renderEntry(e)
		if line == "" {
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	m.vp.SetContent(b.String())
	m.vp.GotoBottom()
}

func (m monitorModel) renderEntry(e transcript.Entry) string {
	ts := e.CreatedAt.Format("15:04")

	switch e.MessageType {
	case api.MessageUser:
		line := fmt.Sprintf("%s you: %s", ts, e.Text())
		if e.ClientStatus == transcript.StatusPending {
			return m.styles.PendingSend.Render(line + " …")
		}
		return m.styles.UserMessage.Render(line)

	case api.MessageSkillStatus:
		report := skill.Extract(e.Message)
		if report == nil {
			return ""
		}
		text := report.Summary
		if text == "" {
			text = fmt.Sprintf("%d skill update(s)", len(report.Skills))
		}
		line := fmt.Sprintf("%s %s ▸ %s", ts, report.AgentName, text)
		for _, s := range report.Skills {
			if s.Status == skill.StatusFailed {
				return m.styles.Failed.Render(line)
			}
		}
		return m.styles.Notification.Render(line)

	case api.MessageError:
		return m.styles.Error.Render(fmt.Sprintf("%s %s: %s", ts, e.FromAgent, e.Text()))

	default:
		return m.styles.AgentMessage.Render(fmt.Sprintf("%s %s: %s", ts, e.FromAgent, e.Text()))
	}
}

func (m monitorModel) viewSkills() string {
	var b strings.Builder

	header := "  ── Skills ──"
	if m.summary.Total > 0 {
		header = fmt.Sprintf("  ── Skills — %d/%d installed ──", m.summary.Installed, m.summary.Total)
	}
	b.WriteString(m.stateStyle(m.summary.State()).Render(header))
	b.WriteString("\n")

	if len(m.summary.Agents) == 0 {
		b.WriteString(m.styles.FormDim.Render("  No skills reported yet."))
		b.WriteString("\n")
		return b.String()
	}

	for i, counts := range m.summary.Agents {
		marker := "  "
		if m.focus == focusAgents && i == m.cursor {
			marker = "> "
		}

		frags := make([]string, 0, 3)
		for _, f := range counts.Fragments() {
			switch {
			case strings.HasSuffix(f, "failed"):
				frags = append(frags, m.styles.Failed.Render(f))
			case strings.HasSuffix(f, "pending"):
				frags = append(frags, m.styles.Pending.Render(f))
			default:
				frags = append(frags, m.stateStyle(counts.State()).Render(f))
			}
		}

		row := fmt.Sprintf("  %s%-18s %s", marker, truncate(counts.AgentName, 18), strings.Join(frags, " · "))
		if m.focus == focusAgents && i == m.cursor {
			row = m.styles.Selected.Render(row)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	return b.String()
}

func (m monitorModel) stateStyle(s skill.State) lipgloss.Style {
	switch s {
	case skill.StateFailed:
		return m.styles.Failed
	case skill.StatePending:
		return m.styles.Pending
	case skill.StateInstalled:
		return m.styles.Installed
	default:
		return m.styles.FormDim
	}
}

func (m monitorModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.Logo.Render(logo))
	b.WriteString("\n\n")

	teamName := m.teamID
	teamStatus := "connecting…"
	if m.team != nil {
		if m.team.Name != "" {
			teamName = m.team.Name
		}
		teamStatus = m.team.Status
	}
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("team: %s — %s", teamName, teamStatus)))
	b.WriteString("\n\n")

	b.WriteString(m.vp.View())
	b.WriteString("\n")

	// Composer line
	if m.composerEnabled() {
		b.WriteString("  " + m.input.View())
		if m.inflight > 0 {
			b.WriteString("  " + m.spin.View() + m.styles.PendingSend.Render(fmt.Sprintf("sending %d", m.inflight)))
		}
	} else {
		b.WriteString(m.styles.FormDim.Render("  chat disabled — team is not running"))
	}
	b.WriteString("\n\n")

	b.WriteString(m.viewSkills())

	if notifications := m.ring.Items(); len(notifications) > 0 {
		b.WriteString("\n")
		b.WriteString(m.styles.Header.Render("  ── Notifications ──"))
		b.WriteString("\n")
		for i := len(notifications) - 1; i >= 0; i-- {
			n := notifications[i]
			line := fmt.Sprintf("  %s %s", n.Time.Format("15:04"), n.Message)
			if n.Kind == notify.KindError {
				b.WriteString(m.styles.Failed.Render(line))
			} else {
				b.WriteString(m.styles.Success.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("  Error: " + m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("  enter: send │ tab: focus skills │ i: install skill │ esc: quit"))

	return b.String()
}

func (m monitorModel) View() string {
	content := m.ViewContent()

	maxWidth := m.width - 4
	if maxWidth < 40 {
		maxWidth = 80
	}

	return m.styles.Border.Width(maxWidth).Render(content)
}

func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
