package skill

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/agentdeck/agentdeck/internal/api"
)

// Status is the canonical install state of one skill.
type Status string

const (
	StatusPending   Status = "pending"
	StatusInstalled Status = "installed"
	StatusFailed    Status = "failed"
)

// Classify maps a raw status string to a canonical Status. The mapping is
// closed and fail-safe: anything that is not exactly "installed" or "pending"
// counts as failed, so unknown states stay visible instead of looking like
// work in progress.
func Classify(raw string) Status {
	switch raw {
	case "installed":
		return StatusInstalled
	case "pending":
		return StatusPending
	default:
		return StatusFailed
	}
}

// Skill is one extracted skill record.
type Skill struct {
	Name   string
	Status Status
	Error  string
}

// Report is the canonical form of a skill_status log entry.
type Report struct {
	AgentName string
	Skills    []Skill
	Summary   string
}

// The wire payload comes in two shapes. Flat: the payload object itself is
// the event and carries a string agent_name. Enveloped: the payload wraps the
// event in a nested object field, one unwrap deep. Both decode into rawEvent.
type rawEvent struct {
	AgentName string          `json:"agent_name"`
	Skills    []rawSkillEntry `json:"skills"`
	Summary   string          `json:"summary"`
}

type rawSkillEntry struct {
	Package json.RawMessage `json:"package"`
	Name    json.RawMessage `json:"name"`
	Status  string          `json:"status"`
	Error   string          `json:"error"`
}

// Extract classifies one log entry into a canonical Report, or nil when the
// entry is not a recognizable skill_status event. It is pure: same input,
// same output, no side effects.
func Extract(msg api.Message) *Report {
	if msg.MessageType != api.MessageSkillStatus || len(msg.Payload) == 0 {
		return nil
	}

	src, ok := resolveEvent(msg.Payload)
	if !ok {
		return nil
	}

	agentName := src.AgentName
	if agentName == "" {
		agentName = msg.FromAgent
	}

	report := &Report{
		AgentName: agentName,
		Skills:    make([]Skill, 0, len(src.Skills)),
		Summary:   src.Summary,
	}
	for _, entry := range src.Skills {
		report.Skills = append(report.Skills, Skill{
			Name:   skillName(entry),
			Status: Classify(entry.Status),
			Error:  entry.Error,
		})
	}
	return report
}

// resolveEvent dispatches on payload shape: flat when the top-level object
// carries a string agent_name, enveloped when a nested object field holds the
// real event (identified by its skills array). Any other shape is rejected.
func resolveEvent(payload json.RawMessage) (rawEvent, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return rawEvent{}, false
	}

	if raw, ok := fields["agent_name"]; ok {
		var name string
		if err := json.Unmarshal(raw, &name); err == nil {
			var event rawEvent
			if err := json.Unmarshal(payload, &event); err != nil {
				return rawEvent{}, false
			}
			return event, true
		}
	}

	// Envelope: scan nested object fields in key order for one that looks
	// like the event.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		var event rawEvent
		if err := json.Unmarshal(fields[k], &event); err != nil {
			continue
		}
		if event.Skills != nil {
			return event, true
		}
	}
	return rawEvent{}, false
}

// skillName resolves the display name of one raw entry: string package field
// first, then string name field, then a literal placeholder.
func skillName(entry rawSkillEntry) string {
	if s, ok := asString(entry.Package); ok {
		return s
	}
	if s, ok := asString(entry.Name); ok {
		return s
	}
	return "unknown"
}

func asString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// HasFailedSkills reports whether the log entry extracts successfully and
// carries at least one failed skill.
func HasFailedSkills(msg api.Message) bool {
	report := Extract(msg)
	if report == nil {
		return false
	}
	for _, s := range report.Skills {
		if s.Status == StatusFailed {
			return true
		}
	}
	return false
}

// FailureMessage renders the operator-facing text for a failed install log:
// "{agent}: Failed to install {names}", names in original array order.
// Returns "" when there is nothing to report.
func FailureMessage(msg api.Message) string {
	report := Extract(msg)
	if report == nil {
		return ""
	}
	var failed []string
	for _, s := range report.Skills {
		if s.Status == StatusFailed {
			failed = append(failed, s.Name)
		}
	}
	if len(failed) == 0 {
		return ""
	}
	return report.AgentName + ": Failed to install " + strings.Join(failed, ", ")
}
