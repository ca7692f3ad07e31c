package api

import (
	"encoding/json"
	"time"
)

// MessageType classifies a log entry in a team's message history.
type MessageType string

const (
	MessageUser        MessageType = "user_message"
	MessageAgent       MessageType = "agent_response"
	MessageTaskResult  MessageType = "task_result"
	MessageSkillStatus MessageType = "skill_status"
	MessageError       MessageType = "error"
)

// FromUser is the from_agent value the server records for operator messages.
const FromUser = "user"

// TeamStatusRunning is the only operational state in which the chat composer
// accepts input.
const TeamStatusRunning = "running"

// AgentRole distinguishes the team leader from worker agents.
type AgentRole string

const (
	RoleLeader AgentRole = "leader"
	RoleWorker AgentRole = "worker"
)

// SkillStatus is one installable capability on an agent as reported by the
// server. Status values outside {pending, installed} are treated as failures
// downstream.
type SkillStatus struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// SubAgentSkill is one configured (repo, skill) pair on an agent.
type SubAgentSkill struct {
	RepoURL   string `json:"repo_url"`
	SkillName string `json:"skill_name"`
}

// Agent is a single member of a team. The monitor only reads agents; they are
// owned by the team entity on the server.
type Agent struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Role           AgentRole       `json:"role"`
	SkillStatuses  []SkillStatus   `json:"skill_statuses,omitempty"`
	SubAgentSkills []SubAgentSkill `json:"sub_agent_skills,omitempty"`
}

// Team is the top-level entity returned by GET /teams/{id}.
type Team struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Status string  `json:"status"`
	Agents []Agent `json:"agents,omitempty"`
}

// Message is one entry of a team's message log. The payload shape depends on
// message_type: chat messages carry text, skill_status entries carry an event
// object (possibly wrapped in an envelope).
type Message struct {
	ID          string          `json:"id"`
	TeamID      string          `json:"team_id"`
	MessageID   string          `json:"message_id,omitempty"`
	FromAgent   string          `json:"from_agent"`
	ToAgent     string          `json:"to_agent,omitempty"`
	MessageType MessageType     `json:"message_type"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	Content     string          `json:"content,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Text returns the displayable body of a chat-style message. Servers are
// inconsistent about where the text lives: some set content, some store the
// payload as a bare JSON string, some as {"content": "..."}.
func (m Message) Text() string {
	if m.Content != "" {
		return m.Content
	}
	if len(m.Payload) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(m.Payload, &s); err == nil {
		return s
	}
	var obj struct {
		Content string `json:"content"`
		Text    string `json:"text"`
	}
	if err := json.Unmarshal(m.Payload, &obj); err == nil {
		if obj.Content != "" {
			return obj.Content
		}
		return obj.Text
	}
	return ""
}

// ChatRequest is the body of POST /teams/{id}/chat. ClientMessageID is a
// client-generated idempotency key; servers that support it echo it back as
// message_id on the canonical log entry, which makes optimistic
// reconciliation exact instead of heuristic.
type ChatRequest struct {
	Content         string `json:"content"`
	ClientMessageID string `json:"client_message_id,omitempty"`
}

// ChatResponse is the acknowledgment for a queued chat message.
type ChatResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AgentUpdate is the body of POST /agents/{id}. The skill list is replaced
// wholesale, so callers send the full desired set.
type AgentUpdate struct {
	SubAgentSkills []SubAgentSkill `json:"sub_agent_skills"`
}
