package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/agentdeck/agentdeck/internal/api"
)

func installAgent() api.Agent {
	return api.Agent{
		ID:   "a1",
		Name: "coder",
		SubAgentSkills: []api.SubAgentSkill{
			{RepoURL: "https://github.com/org/skills", SkillName: "existing"},
		},
	}
}

func newTestInstall(client api.Client) installModel {
	return newInstall(testStyles(), client, installAgent(), time.Second, 100)
}

func TestInstallStepFlow(t *testing.T) {
	client := &fakeClient{}
	m := newTestInstall(client)

	if m.step != stepRepoURL {
		t.Fatal("form does not start at the repo URL step")
	}

	// Empty repo does not advance.
	m, _ = m.Update(keyMsg("enter"))
	if m.step != stepRepoURL || m.err == "" {
		t.Errorf("step = %v err = %q, want inline error on same step", m.step, m.err)
	}

	m.repoInput.SetValue("https://github.com/org/other")
	m, _ = m.Update(keyMsg("enter"))
	if m.step != stepSkillName {
		t.Fatalf("step = %v after repo, want skill name step", m.step)
	}

	m.nameInput.SetValue("@tools/fmt")
	m, _ = m.Update(keyMsg("enter"))
	if m.step != stepConfirm {
		t.Fatalf("step = %v after name, want confirm step", m.step)
	}

	m, cmd := m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("confirm produced no dispatch command")
	}
	done, ok := cmd().(installDoneMsg)
	if !ok {
		t.Fatalf("dispatch produced %T, want installDoneMsg", cmd())
	}
	if done.agentName != "coder" || done.skillName != "@tools/fmt" {
		t.Errorf("done = %+v", done)
	}

	if client.updatedID != "a1" {
		t.Errorf("UpdateAgent called for %q, want a1", client.updatedID)
	}
	if len(client.agentReqs) != 1 {
		t.Fatalf("UpdateAgent called %d times, want 1", len(client.agentReqs))
	}
	skills := client.agentReqs[0].SubAgentSkills
	if len(skills) != 2 || skills[1].SkillName != "@tools/fmt" {
		t.Errorf("update carried %+v, want the existing pair plus the new one", skills)
	}
}

func TestInstallValidationBlocksDispatch(t *testing.T) {
	tests := []struct {
		name    string
		repoURL string
		skill   string
		wantErr string
	}{
		{"http rejected", "http://github.com/org/skills", "fmt", "https"},
		{"bad skill name", "https://github.com/org/skills", "rm -rf", "may only contain"},
		{"duplicate", "https://github.com/org/skills", "existing", "already configured"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{}
			m := newTestInstall(client)
			m.repoInput.SetValue(tt.repoURL)
			m.nameInput.SetValue(tt.skill)
			m.step = stepConfirm

			m, cmd := m.Update(keyMsg("enter"))
			if cmd != nil {
				t.Error("invalid request still dispatched")
			}
			if !strings.Contains(m.err, tt.wantErr) {
				t.Errorf("err = %q, want it to contain %q", m.err, tt.wantErr)
			}
			if len(client.agentReqs) != 0 {
				t.Error("UpdateAgent reached the network on invalid input")
			}
			if !strings.Contains(m.ViewContent(), "Error:") {
				t.Error("view does not surface the validation error")
			}
		})
	}
}

func TestInstallEscNavigation(t *testing.T) {
	m := newTestInstall(&fakeClient{})
	m.repoInput.SetValue("https://github.com/org/other")
	m, _ = m.Update(keyMsg("enter"))
	m.nameInput.SetValue("fmt")
	m, _ = m.Update(keyMsg("enter"))

	// Confirm → name → repo, then cancel.
	m, _ = m.Update(keyMsg("esc"))
	if m.step != stepSkillName {
		t.Fatalf("step = %v, want back at skill name", m.step)
	}
	m, _ = m.Update(keyMsg("esc"))
	if m.step != stepRepoURL {
		t.Fatalf("step = %v, want back at repo URL", m.step)
	}

	m, cmd := m.Update(keyMsg("esc"))
	if cmd == nil {
		t.Fatal("esc at first step produced no command")
	}
	if _, ok := cmd().(installCancelMsg); !ok {
		t.Errorf("esc produced %T, want installCancelMsg", cmd())
	}
}

func TestInstallConfirmRejectGoesBack(t *testing.T) {
	m := newTestInstall(&fakeClient{})
	m.step = stepConfirm
	m, _ = m.Update(keyMsg("n"))
	if m.step != stepSkillName {
		t.Errorf("step = %v after n, want skill name", m.step)
	}
}
