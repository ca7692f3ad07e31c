package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/skill"
)

type installStep int

const (
	stepRepoURL installStep = iota
	stepSkillName
	stepConfirm
)

// installDoneMsg reports a dispatched install request.
type installDoneMsg struct {
	agentName string
	skillName string
}

// installFailedMsg reports a rejected install dispatch.
type installFailedMsg struct {
	agentName string
	err       error
}

type installCancelMsg struct{}

// installModel is the skill-install form for one agent. Validation happens
// entirely client-side before any network call; a validation failure never
// dispatches.
type installModel struct {
	client  api.Client
	agent   api.Agent
	timeout time.Duration
	step    installStep
	err     string
	width   int
	styles  Styles

	repoInput textinput.Model
	nameInput textinput.Model

	dispatched bool
}

func newInstall(s Styles, client api.Client, agent api.Agent, timeout time.Duration, width int) installModel {
	ri := textinput.New()
	ri.Placeholder = "https://github.com/org/skills-repo"
	ri.CharLimit = 500
	ri.Focus()

	ni := textinput.New()
	ni.Placeholder = "skill name (e.g. @tools/web-search)"
	ni.CharLimit = 200

	return installModel{
		client:    client,
		agent:     agent,
		timeout:   timeout,
		step:      stepRepoURL,
		repoInput: ri,
		nameInput: ni,
		styles:    s,
		width:     width,
	}
}

func (m installModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m installModel) Update(msg tea.Msg) (installModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		switch m.step {
		case stepRepoURL:
			m.repoInput, cmd = m.repoInput.Update(msg)
		case stepSkillName:
			m.nameInput, cmd = m.nameInput.Update(msg)
		}
		return m, cmd
	}

	m.err = ""

	if keyMsg.String() == "esc" {
		if m.step == stepRepoURL {
			return m, func() tea.Msg { return installCancelMsg{} }
		}
		// Go back one step
		if m.step == stepSkillName {
			m.step = stepRepoURL
			m.nameInput.Blur()
			m.repoInput.Focus()
		} else {
			m.step = stepSkillName
			m.nameInput.Focus()
		}
		return m, nil
	}

	switch m.step {
	case stepRepoURL:
		if keyMsg.String() == "enter" {
			if strings.TrimSpace(m.repoInput.Value()) == "" {
				m.err = "repo URL is required"
				return m, nil
			}
			m.step = stepSkillName
			m.repoInput.Blur()
			m.nameInput.Focus()
			return m, textinput.Blink
		}
		var cmd tea.Cmd
		m.repoInput, cmd = m.repoInput.Update(keyMsg)
		return m, cmd

	case stepSkillName:
		if keyMsg.String() == "enter" {
			if strings.TrimSpace(m.nameInput.Value()) == "" {
				m.err = "skill name is required"
				return m, nil
			}
			m.step = stepConfirm
			m.nameInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(keyMsg)
		return m, cmd

	case stepConfirm:
		switch keyMsg.String() {
		case "y", "enter":
			return m.dispatch()
		case "n":
			m.step = stepSkillName
			m.nameInput.Focus()
			return m, nil
		}
	}

	return m, nil
}

func (m installModel) dispatch() (installModel, tea.Cmd) {
	repoURL := strings.TrimSpace(m.repoInput.Value())
	skillName := strings.TrimSpace(m.nameInput.Value())

	if err := skill.ValidateInstall(m.agent, repoURL, skillName); err != nil {
		m.err = err.Error()
		return m, nil
	}
	if m.dispatched {
		return m, nil
	}
	m.dispatched = true

	client := m.client
	agent := m.agent
	timeout := m.timeout
	update := skill.BuildUpdate(agent, repoURL, skillName)
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := client.UpdateAgent(ctx, agent.ID, update); err != nil {
			return installFailedMsg{agentName: agent.Name, err: err}
		}
		return installDoneMsg{agentName: agent.Name, skillName: skillName}
	}
}

func (m installModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.FormTitle.Render(fmt.Sprintf("Install Skill — %s", m.agent.Name)))
	b.WriteString("\n\n")

	switch m.step {
	case stepRepoURL:
		b.WriteString(m.styles.FormActive.Render("Skill repository URL (https only)"))
		b.WriteString("\n\n")
		b.WriteString("  " + m.repoInput.View())
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("  enter: continue │ esc: cancel"))

	case stepSkillName:
		b.WriteString(m.styles.FormDim.Render("Repo: " + m.repoInput.Value()))
		b.WriteString("\n")
		b.WriteString(m.styles.FormActive.Render("Skill name"))
		b.WriteString("\n\n")
		b.WriteString("  " + m.nameInput.View())
		b.WriteString("\n\n")
		b.WriteString(m.styles.Help.Render("  enter: continue │ esc: back"))

	case stepConfirm:
		b.WriteString(m.styles.FormActive.Render("Confirm"))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Agent:  %s\n", m.agent.Name))
		b.WriteString(fmt.Sprintf("  Repo:   %s\n", strings.TrimSpace(m.repoInput.Value())))
		b.WriteString(fmt.Sprintf("  Skill:  %s\n", strings.TrimSpace(m.nameInput.Value())))
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("  y/enter: install │ n: go back │ esc: back"))
	}

	if m.err != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render("  Error: " + m.err))
	}

	return b.String()
}

func (m installModel) View() string {
	return m.styles.Border.Render(m.ViewContent())
}
