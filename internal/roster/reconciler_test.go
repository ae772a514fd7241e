package roster

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileEndToEnd(t *testing.T) {
	store := NewFakeStore()
	store.track("g1")
	store.snapshots["g1"] = Roster{"Anna:draenor": 3, "Bob:draenor": 5}
	fetcher := fetchEntries(
		Entry{Name: "Anna", Realm: "draenor", Rank: 3},
		Entry{Name: "Bob", Realm: "draenor", Rank: 3},
		Entry{Name: "Cara", Realm: "draenor", Rank: 7},
	)
	emitter := &FakeEmitter{}

	result, err := NewReconciler(fetcher, store, emitter).Reconcile(context.Background(), "g1")
	require.NoError(t, err)

	assert.Equal(t, OutcomeNotified, result.Outcome)
	assert.True(t, result.Persisted)
	assert.Equal(t, []ChangeEvent{
		{Kind: Added, Name: "Cara", NewRank: 7},
		{Kind: Changed, Name: "Bob", OldRank: 5, NewRank: 3},
	}, emitter.Events())
	assert.True(t, emitter.Events()[1].Promoted())
	assert.Equal(t, Roster{"Anna:draenor": 3, "Bob:draenor": 3, "Cara:draenor": 7}, store.snapshots["g1"])
	assert.Equal(t, []string{"Tracking", "Snapshot", "SetSnapshot"}, store.Trace())
}

func TestReconcileFetchErrorKeepsSnapshot(t *testing.T) {
	for _, kind := range []FetchErrorKind{NotConfigured, Transient, AuthInvalid} {
		t.Run(fmt.Sprint(kind), func(t *testing.T) {
			store := NewFakeStore()
			store.track("g1")
			before := Roster{"Anna:draenor": 3}
			store.snapshots["g1"] = before.Clone()
			fetcher := &FakeFetcher{FetchRosterFunc: func(context.Context, Identity) ([]Entry, error) {
				return nil, NewFetchError(kind, errors.New("boom"))
			}}
			emitter := &FakeEmitter{}

			result, err := NewReconciler(fetcher, store, emitter).Reconcile(context.Background(), "g1")
			require.Error(t, err)
			var fetchErr *FetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, kind, fetchErr.Kind)
			assert.Equal(t, OutcomeFetchError, result.Outcome)
			assert.False(t, result.Persisted)
			assert.Equal(t, before, store.snapshots["g1"])
			assert.Empty(t, emitter.Events())
			assert.NotContains(t, store.Trace(), "SetSnapshot")
		})
	}
}

func TestReconcileNotTracked(t *testing.T) {
	store := NewFakeStore()
	fetcher := fetchEntries(Entry{Name: "Anna", Realm: "draenor", Rank: 1})

	result, err := NewReconciler(fetcher, store, &FakeEmitter{}).Reconcile(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIdle, result.Outcome)
	assert.Zero(t, fetcher.Calls())
}

func TestReconcileUnchanged(t *testing.T) {
	store := NewFakeStore()
	store.track("g1")
	store.snapshots["g1"] = Roster{"Anna:draenor": 3}
	// A realm rename does not count as a change when keyed by name.
	fetcher := fetchEntries(Entry{Name: "Anna", Realm: "silvermoon", Rank: 3})
	emitter := &FakeEmitter{}

	result, err := NewReconciler(fetcher, store, emitter).Reconcile(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnchanged, result.Outcome)
	assert.False(t, result.Persisted)
	assert.Empty(t, emitter.Events())
	assert.Equal(t, Roster{"Anna:draenor": 3}, store.snapshots["g1"])
}

func TestReconcileNameRealmMode(t *testing.T) {
	store := NewFakeStore()
	store.track("g1")
	store.snapshots["g1"] = Roster{"Anna:draenor": 3}
	fetcher := fetchEntries(
		Entry{Name: "Anna", Realm: "draenor", Rank: 3},
		Entry{Name: "Anna", Realm: "silvermoon", Rank: 6},
	)
	emitter := &FakeEmitter{}

	r := NewReconciler(fetcher, store, emitter, WithKeyMode(KeyByNameRealm))
	_, err := r.Reconcile(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, []ChangeEvent{{Kind: Added, Name: "Anna:silvermoon", NewRank: 6}}, emitter.Events())
}

func TestReconcileBatchesAndFailedBatch(t *testing.T) {
	store := NewFakeStore()
	store.track("g1")
	var entries []Entry
	for i := 0; i < 25; i++ {
		entries = append(entries, Entry{Name: fmt.Sprintf("char%02d", i), Realm: "draenor", Rank: 5})
	}
	sends := 0
	emitter := &FakeEmitter{SendFunc: func(_ context.Context, _ string, batch []ChangeEvent) error {
		sends++
		assert.LessOrEqual(t, len(batch), DefaultBatchSize)
		if sends == 2 {
			return errors.New("discord unavailable")
		}
		return nil
	}}

	result, err := NewReconciler(fetchEntries(entries...), store, emitter).Reconcile(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, 3, sends)
	assert.Equal(t, 2, result.BatchesSent)
	assert.Equal(t, 1, result.BatchesFailed)
	assert.True(t, result.Persisted)
	assert.Len(t, store.snapshots["g1"], 25)
}

func TestReconcilePersistsAfterNotify(t *testing.T) {
	store := NewFakeStore()
	store.track("g1")
	var order []string
	emitter := &FakeEmitter{SendFunc: func(context.Context, string, []ChangeEvent) error {
		order = append(order, "send")
		return nil
	}}
	store.SetSnapshotFunc = func(context.Context, string, Roster) error {
		order = append(order, "persist")
		return nil
	}

	_, err := NewReconciler(fetchEntries(Entry{Name: "Anna", Realm: "draenor", Rank: 1}), store, emitter).
		Reconcile(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"send", "persist"}, order)
}

func TestReconcilePersistsWhenCancelledDuringNotify(t *testing.T) {
	store := NewFakeStore()
	store.track("g1")
	ctx, cancel := context.WithCancel(context.Background())
	emitter := &FakeEmitter{SendFunc: func(ctx context.Context, _ string, _ []ChangeEvent) error {
		cancel()
		return ctx.Err()
	}}
	store.SetSnapshotFunc = func(ctx context.Context, _ string, _ Roster) error {
		return ctx.Err()
	}

	result, err := NewReconciler(fetchEntries(Entry{Name: "Anna", Realm: "draenor", Rank: 1}), store, emitter).
		Reconcile(ctx, "g1")
	require.NoError(t, err)
	assert.True(t, result.Persisted)
	assert.Equal(t, 1, result.BatchesFailed)
}

func TestReconcileSnapshotReadError(t *testing.T) {
	store := NewFakeStore()
	store.track("g1")
	store.SnapshotFunc = func(context.Context, string) (Roster, error) {
		return nil, errors.New("db down")
	}
	emitter := &FakeEmitter{}

	result, err := NewReconciler(fetchEntries(Entry{Name: "Anna", Realm: "draenor", Rank: 1}), store, emitter).
		Reconcile(context.Background(), "g1")
	require.Error(t, err)
	assert.Equal(t, OutcomeStoreError, result.Outcome)
	assert.Empty(t, emitter.Events())
}

func TestSeed(t *testing.T) {
	store := NewFakeStore()
	fetcher := fetchEntries(Entry{Name: "Anna", Realm: "draenor", Rank: 2})

	r, err := NewReconciler(fetcher, store, &FakeEmitter{}).Seed(context.Background(), "g1", Identity{Realm: "draenor", Guild: "method"})
	require.NoError(t, err)
	assert.Equal(t, Roster{"Anna:draenor": 2}, r)
	assert.Equal(t, r, store.snapshots["g1"])
}

func TestOperatorMessage(t *testing.T) {
	assert.Contains(t, OperatorMessage(NewFetchError(NotConfigured, nil)), "Configure the integration first")
	assert.Contains(t, OperatorMessage(NewFetchError(AuthInvalid, nil)), "develop.battle.net")
	assert.Contains(t, OperatorMessage(errors.New("other")), "try again later")
	assert.ErrorIs(t, NewFetchError(Transient, errors.New("timeout")), ErrTransient)
}
