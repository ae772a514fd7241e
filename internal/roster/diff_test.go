package roster

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(events []ChangeEvent) map[string]bool {
	keys := map[string]bool{}
	for _, e := range events {
		keys[e.Name] = true
	}
	return keys
}

func TestCompareAccountsForEveryKey(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		prev, curr := Snapshot{}, Snapshot{}
		for i := 0; i < 30; i++ {
			name := fmt.Sprintf("char%d", i)
			if rng.Intn(3) > 0 {
				prev[name] = 1 + rng.Intn(10)
			}
			if rng.Intn(3) > 0 {
				curr[name] = 1 + rng.Intn(10)
			}
		}

		d := Compare(prev, curr)
		added, changed, removed := keysOf(d.Added), keysOf(d.Changed), keysOf(d.Removed)
		for name := range curr {
			_, inPrev := prev[name]
			assert.Equal(t, !inPrev, added[name], name)
			assert.Equal(t, inPrev && prev[name] != curr[name], changed[name], name)
		}
		for name := range prev {
			_, inCurr := curr[name]
			assert.Equal(t, !inCurr, removed[name], name)
		}
		assert.Len(t, d.Added, len(added))
		assert.Len(t, d.Changed, len(changed))
		assert.Len(t, d.Removed, len(removed))
	}
}

func TestCompareSelfIsEmpty(t *testing.T) {
	s := Snapshot{"Anna": 3, "Bob": 5}
	d := Compare(s, s)
	assert.True(t, d.Empty())
	assert.Empty(t, d.Events())
	assert.True(t, Compare(nil, Snapshot{}).Empty())
}

func TestPromotionDirection(t *testing.T) {
	d := Compare(Snapshot{"Bob": 5}, Snapshot{"Bob": 3})
	require.Len(t, d.Changed, 1)
	assert.True(t, d.Changed[0].Promoted())
	assert.Equal(t, "promoted", d.Changed[0].Direction())

	d = Compare(Snapshot{"Bob": 3}, Snapshot{"Bob": 5})
	require.Len(t, d.Changed, 1)
	assert.False(t, d.Changed[0].Promoted())
	assert.Equal(t, "demoted", d.Changed[0].Direction())
}

func TestEventsOrder(t *testing.T) {
	d := Compare(
		Snapshot{"Zed": 2, "Bob": 5, "Old": 9},
		Snapshot{"Zed": 1, "Bob": 5, "New": 8, "Amy": 8},
	)
	kinds := []ChangeKind{}
	names := []string{}
	for _, e := range d.Events() {
		kinds = append(kinds, e.Kind)
		names = append(names, e.Name)
	}
	assert.Equal(t, []ChangeKind{Added, Added, Changed, Removed}, kinds)
	assert.Equal(t, []string{"Amy", "New", "Zed", "Old"}, names)
	assert.Equal(t, 9, d.Removed[0].Rank())
	assert.Equal(t, 8, d.Added[0].Rank())
}

func TestRekey(t *testing.T) {
	r := Roster{"Anna:draenor": 3, "Bob:silvermoon": 5}
	assert.Equal(t, Snapshot{"Anna": 3, "Bob": 5}, Rekey(r, KeyByName))
	assert.Equal(t, Snapshot{"Anna:draenor": 3, "Bob:silvermoon": 5}, Rekey(r, KeyByNameRealm))

	// Same name on two realms collapses to one key when realms are dropped.
	collide := Roster{"Anna:draenor": 3, "Anna:silvermoon": 3}
	assert.Len(t, Rekey(collide, KeyByName), 1)
	assert.Len(t, Rekey(collide, KeyByNameRealm), 2)

	for i := 0; i < 20; i++ {
		assert.Equal(t, Snapshot{"Anna": 2}, Rekey(Roster{"Anna:draenor": 6, "Anna:silvermoon": 2}, KeyByName))
	}
}

func TestParseKeyMode(t *testing.T) {
	mode, err := ParseKeyMode("")
	require.NoError(t, err)
	assert.Equal(t, KeyByName, mode)

	mode, err = ParseKeyMode("name_realm")
	require.NoError(t, err)
	assert.Equal(t, KeyByNameRealm, mode)

	_, err = ParseKeyMode("realm")
	assert.Error(t, err)
}

func TestBatches(t *testing.T) {
	events := make([]ChangeEvent, 23)
	batches := Batches(events, 10)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 10)
	assert.Len(t, batches[2], 3)

	assert.Empty(t, Batches(nil, 10))
	assert.Len(t, Batches(events, 0), 1)
}
