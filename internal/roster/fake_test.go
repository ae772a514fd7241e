package roster

import (
	"context"
	"sync"
)

// ------------------------
// Fakes
// ------------------------

// FakeFetcher returns programmed entries or errors.
type FakeFetcher struct {
	mu    sync.Mutex
	calls int

	FetchRosterFunc func(ctx context.Context, id Identity) ([]Entry, error)
}

func (f *FakeFetcher) FetchRoster(ctx context.Context, id Identity) ([]Entry, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.FetchRosterFunc != nil {
		return f.FetchRosterFunc(ctx, id)
	}
	return nil, nil
}

func (f *FakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func fetchEntries(entries ...Entry) *FakeFetcher {
	return &FakeFetcher{FetchRosterFunc: func(context.Context, Identity) ([]Entry, error) {
		return entries, nil
	}}
}

// FakeStore keeps everything in maps and records the calls it receives.
type FakeStore struct {
	mu        sync.Mutex
	trace     []string
	snapshots map[string]Roster
	tracking  map[string]Tracking
	labels    map[string]map[int]string

	SetSnapshotFunc func(ctx context.Context, guildID string, r Roster) error
	SnapshotFunc    func(ctx context.Context, guildID string) (Roster, error)
}

func NewFakeStore() *FakeStore {
	return &FakeStore{
		snapshots: map[string]Roster{},
		tracking:  map[string]Tracking{},
		labels:    map[string]map[int]string{},
	}
}

func (f *FakeStore) record(step string) {
	f.trace = append(f.trace, step)
}

// Trace returns the sequence of method calls made to the fake.
func (f *FakeStore) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeStore) track(guildID string) {
	f.tracking[guildID] = Tracking{
		Identity:     Identity{Region: "eu", Realm: "draenor", Guild: "method"},
		LogChannelID: "log-" + guildID,
	}
}

func (f *FakeStore) Snapshot(ctx context.Context, guildID string) (Roster, error) {
	f.mu.Lock()
	f.record("Snapshot")
	fn := f.SnapshotFunc
	r := f.snapshots[guildID].Clone()
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, guildID)
	}
	return r, nil
}

func (f *FakeStore) SetSnapshot(ctx context.Context, guildID string, r Roster) error {
	f.mu.Lock()
	f.record("SetSnapshot")
	fn := f.SetSnapshotFunc
	f.mu.Unlock()
	if fn != nil {
		if err := fn(ctx, guildID, r); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshots[guildID] = r.Clone()
	return nil
}

func (f *FakeStore) RankLabel(ctx context.Context, guildID string, rank int) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("RankLabel")
	if label, ok := f.labels[guildID][rank]; ok {
		return label, nil
	}
	return DefaultRankLabel(rank), nil
}

func (f *FakeStore) Tracking(ctx context.Context, guildID string) (Tracking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Tracking")
	return f.tracking[guildID], nil
}

// FakeEmitter collects the batches it is given.
type FakeEmitter struct {
	mu      sync.Mutex
	batches [][]ChangeEvent

	SendFunc func(ctx context.Context, guildID string, batch []ChangeEvent) error
}

func (f *FakeEmitter) Send(ctx context.Context, guildID string, batch []ChangeEvent) error {
	if f.SendFunc != nil {
		if err := f.SendFunc(ctx, guildID, batch); err != nil {
			return err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, append([]ChangeEvent(nil), batch...))
	return nil
}

func (f *FakeEmitter) Events() []ChangeEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []ChangeEvent
	for _, b := range f.batches {
		events = append(events, b...)
	}
	return events
}

type FakeMembers []Member

func (f FakeMembers) ListMembers(context.Context, string) ([]Member, error) {
	return f, nil
}

type FakeGuilds []string

func (f FakeGuilds) Guilds(context.Context) ([]string, error) {
	return f, nil
}
