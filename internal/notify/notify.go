package notify

import (
	"time"

	"github.com/agentdeck/agentdeck/internal/api"
	"github.com/agentdeck/agentdeck/internal/skill"
)

// Kind is the severity of a notification.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Notification is one operator-facing event.
type Notification struct {
	Kind    Kind
	Message string
	Time    time.Time
}

// Func is the injected notification sink: fire-and-forget, no return value.
type Func func(kind Kind, message string)

// Ring keeps the most recent notifications, newest last, capped.
type Ring struct {
	items []Notification
	cap   int
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 10
	}
	return &Ring{cap: capacity}
}

func (r *Ring) Push(n Notification) {
	if n.Time.IsZero() {
		n.Time = time.Now()
	}
	r.items = append(r.items, n)
	if len(r.items) > r.cap {
		r.items = r.items[len(r.items)-r.cap:]
	}
}

// Items returns the retained notifications, oldest first.
func (r *Ring) Items() []Notification {
	return r.items
}

// FailureTracker emits at most one failure notification per skill_status log
// entry, keyed by log identity, so repeated polls over the same history stay
// quiet.
type FailureTracker struct {
	seen map[string]struct{}
}

func NewFailureTracker() *FailureTracker {
	return &FailureTracker{seen: make(map[string]struct{})}
}

// Observe scans a polled message log and returns the failure notifications
// that have not been raised before. Idempotent: observing the same snapshot
// twice yields nothing the second time.
func (t *FailureTracker) Observe(msgs []api.Message) []Notification {
	var out []Notification
	for _, m := range msgs {
		if !skill.HasFailedSkills(m) {
			continue
		}
		key := logKey(m)
		if _, ok := t.seen[key]; ok {
			continue
		}
		t.seen[key] = struct{}{}
		out = append(out, Notification{
			Kind:    KindError,
			Message: skill.FailureMessage(m),
			Time:    time.Now(),
		})
	}
	return out
}

func logKey(m api.Message) string {
	if m.ID != "" {
		return m.ID
	}
	if m.MessageID != "" {
		return m.MessageID
	}
	return m.FromAgent + "/" + m.CreatedAt.UTC().Format(time.RFC3339Nano)
}
