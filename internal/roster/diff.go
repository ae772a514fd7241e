package roster

import "sort"

// ChangeKind tags a ChangeEvent.
type ChangeKind int

const (
	Added ChangeKind = iota
	Changed
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Changed:
		return "changed"
	case Removed:
		return "removed"
	}
	return "unknown"
}

// ChangeEvent is one difference between two snapshots. OldRank is zero for
// Added events and NewRank is zero for Removed events.
type ChangeEvent struct {
	Kind    ChangeKind
	Name    string
	OldRank int
	NewRank int
}

// Rank is the rank the event is about: the new rank, or the old one for
// a character that left.
func (e ChangeEvent) Rank() int {
	if e.Kind == Removed {
		return e.OldRank
	}
	return e.NewRank
}

// Promoted reports whether a Changed event moved the character to a more
// senior (numerically lower) rank.
func (e ChangeEvent) Promoted() bool {
	return e.Kind == Changed && e.NewRank < e.OldRank
}

// Direction is "promoted" or "demoted" for Changed events.
func (e ChangeEvent) Direction() string {
	if e.Promoted() {
		return "promoted"
	}
	return "demoted"
}

// Diff partitions the differences between two snapshots.
type Diff struct {
	Added   []ChangeEvent
	Changed []ChangeEvent
	Removed []ChangeEvent
}

// Empty reports whether both snapshots were equal.
func (d Diff) Empty() bool {
	return len(d.Added) == 0 && len(d.Changed) == 0 && len(d.Removed) == 0
}

// Len is the total number of events.
func (d Diff) Len() int {
	return len(d.Added) + len(d.Changed) + len(d.Removed)
}

// Events returns the events in emission order: Added, Changed, Removed.
func (d Diff) Events() []ChangeEvent {
	events := make([]ChangeEvent, 0, d.Len())
	events = append(events, d.Added...)
	events = append(events, d.Changed...)
	return append(events, d.Removed...)
}

// Compare computes the Diff from prev to curr. Events inside each class
// are sorted by name.
func Compare(prev, curr Snapshot) Diff {
	var d Diff
	for name, rank := range curr {
		old, ok := prev[name]
		switch {
		case !ok:
			d.Added = append(d.Added, ChangeEvent{Kind: Added, Name: name, NewRank: rank})
		case old != rank:
			d.Changed = append(d.Changed, ChangeEvent{Kind: Changed, Name: name, OldRank: old, NewRank: rank})
		}
	}
	for name, rank := range prev {
		if _, ok := curr[name]; !ok {
			d.Removed = append(d.Removed, ChangeEvent{Kind: Removed, Name: name, OldRank: rank})
		}
	}
	for _, events := range [][]ChangeEvent{d.Added, d.Changed, d.Removed} {
		sort.Slice(events, func(i, j int) bool { return events[i].Name < events[j].Name })
	}
	return d
}

// Batches splits events into consecutive slices of at most size events.
func Batches(events []ChangeEvent, size int) [][]ChangeEvent {
	if size <= 0 {
		size = len(events)
	}
	var batches [][]ChangeEvent
	for len(events) > 0 {
		n := min(size, len(events))
		batches = append(batches, events[:n])
		events = events[n:]
	}
	return batches
}
