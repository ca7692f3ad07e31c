package skill

import (
	"fmt"

	"github.com/agentdeck/agentdeck/internal/api"
)

// State is the display state of a skill panel section. Precedence when
// deriving it from counts: failed beats pending beats fully-installed.
type State int

const (
	StateNone State = iota
	StateInstalled
	StatePending
	StateFailed
)

// AgentCounts partitions one agent's skill list.
type AgentCounts struct {
	AgentID   string
	AgentName string
	Installed int
	Pending   int
	Failed    int
	Total     int
}

// State derives the agent's display state from its own counts.
func (c AgentCounts) State() State {
	return deriveState(c.Installed, c.Pending, c.Failed, c.Total)
}

// Fragments returns the display fragments for an agent row, e.g.
// ["1/3 installed", "1 failed", "1 pending"]. The installed fragment is
// always present; the others only when non-zero.
func (c AgentCounts) Fragments() []string {
	frags := []string{fmt.Sprintf("%d/%d installed", c.Installed, c.Total)}
	if c.Failed > 0 {
		frags = append(frags, fmt.Sprintf("%d failed", c.Failed))
	}
	if c.Pending > 0 {
		frags = append(frags, fmt.Sprintf("%d pending", c.Pending))
	}
	return frags
}

// Summary aggregates skill counts across a team. Team-level counts sum only
// agents that carry at least one skill.
type Summary struct {
	Agents    []AgentCounts
	Installed int
	Pending   int
	Failed    int
	Total     int
}

// State derives the team-level display state from the team counts.
func (s Summary) State() State {
	return deriveState(s.Installed, s.Pending, s.Failed, s.Total)
}

func deriveState(installed, pending, failed, total int) State {
	switch {
	case failed > 0:
		return StateFailed
	case pending > 0:
		return StatePending
	case total > 0 && installed == total:
		return StateInstalled
	default:
		return StateNone
	}
}

// Aggregate recomputes per-agent and team-wide counts from the latest team
// snapshot. Agents with empty skill lists do not participate. The result is
// derived state only, rebuilt on every poll cycle.
func Aggregate(agents []api.Agent) Summary {
	var summary Summary
	for _, a := range agents {
		if len(a.SkillStatuses) == 0 {
			continue
		}
		counts := AgentCounts{
			AgentID:   a.ID,
			AgentName: a.Name,
			Total:     len(a.SkillStatuses),
		}
		for _, s := range a.SkillStatuses {
			switch Classify(s.Status) {
			case StatusInstalled:
				counts.Installed++
			case StatusPending:
				counts.Pending++
			default:
				counts.Failed++
			}
		}
		summary.Agents = append(summary.Agents, counts)
		summary.Installed += counts.Installed
		summary.Pending += counts.Pending
		summary.Failed += counts.Failed
		summary.Total += counts.Total
	}
	return summary
}
