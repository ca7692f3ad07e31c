package ui

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/config"
	"github.com/agentdeck/agentdeck/internal/notify"
	"github.com/agentdeck/agentdeck/internal/poller"
)

// fakeClient records calls and returns canned results.
type fakeClient struct {
	mu          sync.Mutex
	chatReqs    []api.ChatRequest
	chatErr     error
	agentReqs   []api.AgentUpdate
	agentErr    error
	updatedID   string
}

func (f *fakeClient) ListTeams(ctx context.Context) ([]api.Team, error) { return nil, nil }

func (f *fakeClient) GetTeam(ctx context.Context, teamID string) (*api.Team, error) {
	return &api.Team{ID: teamID, Status: api.TeamStatusRunning}, nil
}

func (f *fakeClient) GetMessages(ctx context.Context, teamID string) ([]api.Message, error) {
	return nil, nil
}

func (f *fakeClient) SendChat(ctx context.Context, teamID string, req api.ChatRequest) (*api.ChatResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatReqs = append(f.chatReqs, req)
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &api.ChatResponse{Status: "queued"}, nil
}

func (f *fakeClient) UpdateAgent(ctx context.Context, agentID string, req api.AgentUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updatedID = agentID
	f.agentReqs = append(f.agentReqs, req)
	return f.agentErr
}

func testStyles() Styles {
	return NewStyles(config.Default().Colors)
}

func runningTeam() *api.Team {
	return &api.Team{
		ID:     "t1",
		Name:   "alpha",
		Status: api.TeamStatusRunning,
		Agents: []api.Agent{
			{
				ID:   "a1",
				Name: "leader",
				Role: api.RoleLeader,
				SkillStatuses: []api.SkillStatus{
					{Name: "read", Status: "installed"},
				},
			},
		},
	}
}

func newTestMonitor(client api.Client) monitorModel {
	return newMonitor(testStyles(), client, "t1", time.Second)
}

func snapshot(m monitorModel, team *api.Team, msgs ...api.Message) monitorModel {
	m, _ = m.Update(poller.SnapshotMsg{Team: team, Messages: msgs})
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestSubmitAppendsBeforeNetwork(t *testing.T) {
	client := &fakeClient{}
	m := snapshot(newTestMonitor(client), runningTeam())
	m.input.SetValue("hello team")

	m, cmd := m.Update(keyMsg("enter"))

	// The optimistic entry and the cleared input exist before any network
	// result has resolved.
	if got := m.store.PendingCount(); got != 1 {
		t.Fatalf("PendingCount = %d right after enter, want 1", got)
	}
	if m.input.Value() != "" {
		t.Errorf("input = %q after enter, want cleared", m.input.Value())
	}
	if m.inflight != 1 {
		t.Errorf("inflight = %d, want 1", m.inflight)
	}
	if cmd == nil {
		t.Error("no command returned, want the send command")
	}

	entries := m.store.Entries()
	if len(entries) != 1 || entries[0].Content != "hello team" {
		t.Errorf("entries = %+v, want one pending echo", entries)
	}
	if client.chatReqs != nil {
		t.Error("network call happened synchronously in Update")
	}
}

func TestSubmitIgnoresBlankInput(t *testing.T) {
	m := snapshot(newTestMonitor(&fakeClient{}), runningTeam())
	m.input.SetValue("   ")

	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil || m.store.PendingCount() != 0 {
		t.Error("blank input must not produce a send")
	}
}

func TestComposerDisabledWhenTeamNotRunning(t *testing.T) {
	stopped := runningTeam()
	stopped.Status = "stopped"
	m := snapshot(newTestMonitor(&fakeClient{}), stopped)

	if m.composerEnabled() {
		t.Fatal("composer enabled for a stopped team")
	}

	m.input.SetValue("hello")
	m, cmd := m.Update(keyMsg("enter"))
	if cmd != nil {
		t.Error("enter produced a command while chat is disabled")
	}
	if m.store.PendingCount() != 0 {
		t.Error("an optimistic entry was appended while chat is disabled")
	}
	if m.err == "" {
		t.Error("no inline error set")
	}
	if !strings.Contains(m.View(), "chat disabled") {
		t.Error("view does not show the disabled-composer notice")
	}
}

func TestChatFailureRollsBackAndRestoresInput(t *testing.T) {
	m := snapshot(newTestMonitor(&fakeClient{}), runningTeam())
	m.input.SetValue("doomed message")
	m, _ = m.Update(keyMsg("enter"))

	clientID := m.store.Entries()[0].ID
	m, _ = m.Update(chatFailedMsg{clientID: clientID, err: errors.New("server returned 502")})

	if got := m.store.PendingCount(); got != 0 {
		t.Errorf("PendingCount = %d after failure, want 0", got)
	}
	if m.input.Value() != "doomed message" {
		t.Errorf("input = %q, want the failed text restored", m.input.Value())
	}
	if m.inflight != 0 {
		t.Errorf("inflight = %d, want 0", m.inflight)
	}

	items := m.ring.Items()
	if len(items) != 1 || items[0].Kind != notify.KindError {
		t.Fatalf("notifications = %+v, want one error", items)
	}
	if !strings.Contains(items[0].Message, "Failed to send message") {
		t.Errorf("notification = %q", items[0].Message)
	}
}

func TestChatSentKeepsEntryPendingUntilSnapshot(t *testing.T) {
	m := snapshot(newTestMonitor(&fakeClient{}), runningTeam())
	m.input.SetValue("hello")
	m, _ = m.Update(keyMsg("enter"))

	clientID := m.store.Entries()[0].ID
	m, _ = m.Update(chatSentMsg{clientID: clientID})

	// Acknowledgment alone does not confirm; only the canonical snapshot does.
	if got := m.store.PendingCount(); got != 1 {
		t.Errorf("PendingCount = %d after ack, want 1", got)
	}
	if m.inflight != 0 {
		t.Errorf("inflight = %d, want 0", m.inflight)
	}

	echoed := m.store.Entries()[0]
	m = snapshot(m, runningTeam(), api.Message{
		ID:          "srv-1",
		MessageID:   echoed.MessageID,
		FromAgent:   api.FromUser,
		MessageType: api.MessageUser,
		Content:     "hello",
		CreatedAt:   echoed.CreatedAt,
	})
	if got := m.store.PendingCount(); got != 0 {
		t.Errorf("PendingCount = %d after snapshot, want 0", got)
	}
}

func TestInterleavedSendsResolveIndependently(t *testing.T) {
	m := snapshot(newTestMonitor(&fakeClient{}), runningTeam())

	m.input.SetValue("first message")
	m, _ = m.Update(keyMsg("enter"))
	m.input.SetValue("second message")
	m, _ = m.Update(keyMsg("enter"))

	if m.inflight != 2 || m.store.PendingCount() != 2 {
		t.Fatalf("inflight=%d pending=%d, want 2/2", m.inflight, m.store.PendingCount())
	}

	entries := m.store.Entries()
	firstID, secondID := entries[0].ID, entries[1].ID

	// First send fails, second is acknowledged; only the first rolls back.
	m, _ = m.Update(chatFailedMsg{clientID: firstID, err: errors.New("server returned 500")})
	m, _ = m.Update(chatSentMsg{clientID: secondID})

	if m.inflight != 0 {
		t.Errorf("inflight = %d, want 0", m.inflight)
	}
	if m.input.Value() != "first message" {
		t.Errorf("input = %q, want the failed text restored", m.input.Value())
	}
	remaining := m.store.Entries()
	if len(remaining) != 1 || remaining[0].Content != "second message" {
		t.Errorf("entries = %+v, want only the second send still pending", remaining)
	}
}

func TestSequentialSendsKeepOrder(t *testing.T) {
	m := snapshot(newTestMonitor(&fakeClient{}), runningTeam())

	m.input.SetValue("First message")
	m, _ = m.Update(keyMsg("enter"))
	m.input.SetValue("Second message")
	m, _ = m.Update(keyMsg("enter"))

	entries := m.store.Entries()
	if entries[0].Content != "First message" || entries[1].Content != "Second message" {
		t.Errorf("order = [%q, %q], want send order", entries[0].Content, entries[1].Content)
	}
}

func TestSnapshotRaisesFailureNotificationOnce(t *testing.T) {
	failLog := api.Message{
		ID:          "log-1",
		FromAgent:   "leader",
		MessageType: api.MessageSkillStatus,
		Payload: json.RawMessage(`{
			"agent_name": "leader",
			"skills": [{"package": "bad-skill", "status": "failed", "error": "npm ERR! 404"}]
		}`),
	}

	m := snapshot(newTestMonitor(&fakeClient{}), runningTeam(), failLog)
	items := m.ring.Items()
	if len(items) != 1 {
		t.Fatalf("notifications = %d, want 1", len(items))
	}
	if want := "leader: Failed to install bad-skill"; items[0].Message != want {
		t.Errorf("notification = %q, want %q", items[0].Message, want)
	}

	// Same history next poll: no repeat.
	m = snapshot(m, runningTeam(), failLog)
	if got := len(m.ring.Items()); got != 1 {
		t.Errorf("notifications after repeat poll = %d, want 1", got)
	}
}

func TestPollErrorShownInline(t *testing.T) {
	m := newTestMonitor(&fakeClient{})
	m, _ = m.Update(poller.ErrorMsg{Err: errors.New("connection refused")})
	if !strings.Contains(m.err, "connection refused") {
		t.Errorf("err = %q", m.err)
	}
	// Any keypress clears it.
	m, _ = m.Update(keyMsg("tab"))
	if m.err != "" {
		t.Errorf("err = %q after keypress, want cleared", m.err)
	}
}

func TestAgentFocusAndInstallTrigger(t *testing.T) {
	m := snapshot(newTestMonitor(&fakeClient{}), runningTeam())

	m, _ = m.Update(keyMsg("tab"))
	if m.focus != focusAgents {
		t.Fatal("tab did not move focus to the agent list")
	}

	m, cmd := m.Update(keyMsg("i"))
	if cmd == nil {
		t.Fatal("no command from install key")
	}
	msg, ok := cmd().(startInstallMsg)
	if !ok {
		t.Fatalf("command produced %T, want startInstallMsg", cmd())
	}
	if msg.agent.ID != "a1" {
		t.Errorf("agent = %q, want a1", msg.agent.ID)
	}
}

func TestTypingGatedWhileChatDisabled(t *testing.T) {
	stopped := runningTeam()
	stopped.Status = "stopped"
	m := snapshot(newTestMonitor(&fakeClient{}), stopped)

	m, _ = m.Update(keyMsg("x"))
	if m.input.Value() != "" {
		t.Errorf("input = %q, want typing ignored while disabled", m.input.Value())
	}
}

func TestViewShowsSkillSummary(t *testing.T) {
	team := runningTeam()
	team.Agents[0].SkillStatuses = []api.SkillStatus{
		{Name: "a", Status: "installed"},
		{Name: "b", Status: "failed", Error: "boom"},
		{Name: "c", Status: "pending"},
	}
	m := snapshot(newTestMonitor(&fakeClient{}), team)

	view := m.View()
	for _, want := range []string{"1/3 installed", "1 failed", "1 pending", "leader"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
