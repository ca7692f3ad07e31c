package poller

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agentdeck/agentdeck/internal/api"
)

// SnapshotMsg carries one complete poll result: the team (agents with their
// skill statuses) and the full, authoritative message history.
type SnapshotMsg struct {
	Team     *api.Team
	Messages []api.Message
}

// ErrorMsg reports a failed poll cycle. Polling continues afterwards.
type ErrorMsg struct {
	Err error
}

// Scheduler abstracts the poll cadence so tests can drive ticks manually
// instead of waiting on wall-clock time.
type Scheduler interface {
	C() <-chan time.Time
	Stop()
}

type tickerScheduler struct {
	t *time.Ticker
}

// NewTicker returns the real Scheduler backed by a time.Ticker.
func NewTicker(interval time.Duration) Scheduler {
	return &tickerScheduler{t: time.NewTicker(interval)}
}

func (s *tickerScheduler) C() <-chan time.Time { return s.t.C }
func (s *tickerScheduler) Stop()               { s.t.Stop() }

// Poller fetches the canonical team snapshot while the monitor view is open
// and posts results into the program, the same way the rest of the UI
// receives background events.
type Poller struct {
	client api.Client
	teamID string
	send   func(tea.Msg)
	sched  Scheduler
}

// Option configures a Poller.
type Option func(*Poller)

// WithScheduler overrides the tick source (for testing).
func WithScheduler(s Scheduler) Option {
	return func(p *Poller) { p.sched = s }
}

func New(client api.Client, teamID string, interval time.Duration, send func(tea.Msg), opts ...Option) *Poller {
	p := &Poller{
		client: client,
		teamID: teamID,
		send:   send,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.sched == nil {
		p.sched = NewTicker(interval)
	}
	return p
}

// Run fetches immediately, then once per tick until the context is cancelled.
// It is the sole owner of the fetch cadence; callers cancel the context when
// the monitor view is torn down.
func (p *Poller) Run(ctx context.Context) {
	defer p.sched.Stop()

	p.fetch(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("poller stopped", "team", p.teamID)
			return
		case <-p.sched.C():
			p.fetch(ctx)
		}
	}
}

func (p *Poller) fetch(ctx context.Context) {
	team, err := p.client.GetTeam(ctx, p.teamID)
	if err != nil {
		p.deliver(ctx, ErrorMsg{Err: err})
		return
	}
	msgs, err := p.client.GetMessages(ctx, p.teamID)
	if err != nil {
		p.deliver(ctx, ErrorMsg{Err: err})
		return
	}
	p.deliver(ctx, SnapshotMsg{Team: team, Messages: msgs})
}

// deliver gates on the context so a response that resolves after cancellation
// never reaches the torn-down view.
func (p *Poller) deliver(ctx context.Context, msg tea.Msg) {
	if ctx.Err() != nil {
		return
	}
	p.send(msg)
}
