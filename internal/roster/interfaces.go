package roster

import (
	"context"
	"time"
)

// Fetcher retrieves the live roster of an in-game guild. Failures should be
// *FetchError values so callers can tell configuration problems apart from
// transient ones.
type Fetcher interface {
	FetchRoster(ctx context.Context, id Identity) ([]Entry, error)
}

// Store persists per guild configuration and the last reconciled roster.
// SetSnapshot replaces the whole roster at once.
type Store interface {
	Snapshot(ctx context.Context, guildID string) (Roster, error)
	SetSnapshot(ctx context.Context, guildID string, r Roster) error
	RankLabel(ctx context.Context, guildID string, rank int) (string, error)
	Tracking(ctx context.Context, guildID string) (Tracking, error)
}

// Emitter delivers a batch of change events for a guild.
type Emitter interface {
	Send(ctx context.Context, guildID string, batch []ChangeEvent) error
}

// MembersSource lists the Discord members of a guild at call time.
type MembersSource interface {
	ListMembers(ctx context.Context, guildID string) ([]Member, error)
}

// GuildLister returns the Discord guilds the scheduler should visit.
type GuildLister interface {
	Guilds(ctx context.Context) ([]string, error)
}

// Metrics records reconciliation outcomes.
type Metrics interface {
	PassCompleted(outcome Outcome, duration time.Duration)
	EventsEmitted(kind ChangeKind, n int)
	BatchFailed()
	TickSkipped()
}

type noopMetrics struct{}

func (noopMetrics) PassCompleted(Outcome, time.Duration) {}
func (noopMetrics) EventsEmitted(ChangeKind, int)        {}
func (noopMetrics) BatchFailed()                         {}
func (noopMetrics) TickSkipped()                         {}

// NoopMetrics discards everything.
var NoopMetrics Metrics = noopMetrics{}
