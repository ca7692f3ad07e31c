package transcript

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentdeck/agentdeck/internal/api"
)

// ClientStatus is the client-side lifecycle of a transcript entry.
type ClientStatus string

const (
	StatusPending   ClientStatus = "pending"
	StatusConfirmed ClientStatus = "confirmed"
)

// Entry is one row of the rendered transcript: a message plus its client-side
// status. Canonical entries are always confirmed; locally-echoed sends stay
// pending until the poll snapshot supersedes them or the send fails.
type Entry struct {
	api.Message
	ClientStatus ClientStatus
}

// DefaultMatchWindow bounds how far apart the client and server timestamps of
// the same logical message may be for the heuristic fallback match.
const DefaultMatchWindow = 2 * time.Minute

// Store merges the canonical message log with optimistic local sends into one
// ordered, de-duplicated transcript. Each poll replaces the canonical portion
// wholesale; optimistic entries survive until reconciled or failed.
type Store struct {
	mu        sync.Mutex
	teamID    string
	canonical []api.Message
	pending   []pendingSend
	window    time.Duration
	now       func() time.Time
}

type pendingSend struct {
	msg  api.Message
	text string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithClock overrides the time source (for testing).
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithMatchWindow overrides the heuristic match tolerance.
func WithMatchWindow(d time.Duration) StoreOption {
	return func(s *Store) { s.window = d }
}

func NewStore(teamID string, opts ...StoreOption) *Store {
	s := &Store{
		teamID: teamID,
		window: DefaultMatchWindow,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds an optimistic user message and returns it. The entry renders
// immediately; no network round trip happens here. The generated ID doubles
// as the idempotency key sent with the chat request.
func (s *Store) Append(text string) api.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	msg := api.Message{
		ID:          id,
		TeamID:      s.teamID,
		MessageID:   id,
		FromAgent:   api.FromUser,
		MessageType: api.MessageUser,
		Content:     text,
		CreatedAt:   s.now(),
	}
	s.pending = append(s.pending, pendingSend{msg: msg, text: text})
	return msg
}

// Fail removes a pending entry after its send was rejected and returns the
// original text so the composer can restore it verbatim.
func (s *Store) Fail(clientID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.pending {
		if p.msg.ID == clientID {
			text := p.text
			s.pending = append(s.pending[:i], s.pending[i+1:]...)
			return text, true
		}
	}
	return "", false
}

// ApplySnapshot replaces the canonical log with the latest poll result and
// reconciles pending sends against it. A canonical user message supersedes a
// pending entry when it echoes the client message id, or — fallback for
// servers that don't echo it — when origin and trimmed content match and the
// timestamps are within the match window. Each canonical entry consumes at
// most one pending entry, oldest first, so two identical texts sent in quick
// succession resolve one at a time.
func (s *Store) ApplySnapshot(msgs []api.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.canonical = make([]api.Message, len(msgs))
	copy(s.canonical, msgs)

	if len(s.pending) == 0 {
		return
	}

	used := make([]bool, len(s.pending))
	for _, m := range msgs {
		if m.MessageType != api.MessageUser {
			continue
		}
		if i := s.matchPending(m, used); i >= 0 {
			used[i] = true
		}
	}

	kept := s.pending[:0]
	for i, p := range s.pending {
		if !used[i] {
			kept = append(kept, p)
		}
	}
	s.pending = kept
}

func (s *Store) matchPending(m api.Message, used []bool) int {
	if m.MessageID != "" {
		for i, p := range s.pending {
			if !used[i] && p.msg.MessageID == m.MessageID {
				return i
			}
		}
	}
	text := strings.TrimSpace(m.Text())
	for i, p := range s.pending {
		if used[i] {
			continue
		}
		if m.FromAgent != p.msg.FromAgent {
			continue
		}
		if strings.TrimSpace(p.text) != text {
			continue
		}
		if absDuration(m.CreatedAt.Sub(p.msg.CreatedAt)) <= s.window {
			return i
		}
	}
	return -1
}

// Entries returns the visible transcript: canonical and pending entries in
// one list ordered by creation time. The sort is stable over canonical
// entries in server order followed by pending entries in send order, so ties
// keep insertion order and rapid sequential sends never swap on screen.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, 0, len(s.canonical)+len(s.pending))
	for _, m := range s.canonical {
		out = append(out, Entry{Message: m, ClientStatus: StatusConfirmed})
	}
	for _, p := range s.pending {
		out = append(out, Entry{Message: p.msg, ClientStatus: StatusPending})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// PendingCount reports how many optimistic entries await confirmation.
func (s *Store) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
