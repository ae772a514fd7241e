// Package roster keeps a Discord server informed about its in-game guild:
// it reconciles the live guild roster against the last stored snapshot and
// matches character names to Discord members.
package roster

import (
	"fmt"
	"strings"
)

// Entry is one character of the in-game guild roster.
type Entry struct {
	Name  string
	Realm string
	Rank  int
}

// Key returns the stored form "name:realm".
func (e Entry) Key() string {
	return e.Name + ":" + e.Realm
}

// Roster maps "name:realm" to rank. It is what gets persisted per guild.
type Roster map[string]int

// NewRoster builds a Roster from fetched entries.
func NewRoster(entries []Entry) Roster {
	r := make(Roster, len(entries))
	for _, e := range entries {
		r[e.Key()] = e.Rank
	}
	return r
}

// Clone returns an independent copy.
func (r Roster) Clone() Roster {
	out := make(Roster, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// SplitKey splits a "name:realm" key. Keys without a realm return an empty realm.
func SplitKey(key string) (name, realm string) {
	name, realm, _ = strings.Cut(key, ":")
	return name, realm
}

// Snapshot is the diffable view of a Roster, keyed according to a KeyMode.
type Snapshot map[string]int

// KeyMode selects how roster keys are collapsed before diffing.
type KeyMode int

const (
	// KeyByName drops the realm. Two characters sharing a name on different
	// realms collapse into a single key holding the most senior rank.
	KeyByName KeyMode = iota
	// KeyByNameRealm keeps the full "name:realm" key.
	KeyByNameRealm
)

// ParseKeyMode reads the configuration spelling of a KeyMode.
func ParseKeyMode(s string) (KeyMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "name":
		return KeyByName, nil
	case "name_realm", "name:realm":
		return KeyByNameRealm, nil
	default:
		return KeyByName, fmt.Errorf("unknown roster key mode %q", s)
	}
}

func (m KeyMode) String() string {
	if m == KeyByNameRealm {
		return "name_realm"
	}
	return "name"
}

// Rekey collapses a Roster into a Snapshot.
func Rekey(r Roster, mode KeyMode) Snapshot {
	s := make(Snapshot, len(r))
	for key, rank := range r {
		if mode == KeyByName {
			key, _ = SplitKey(key)
			// Same name on two realms: keep the most senior rank.
			if prev, ok := s[key]; ok && prev < rank {
				continue
			}
		}
		s[key] = rank
	}
	return s
}

// RankBinding attaches a label and optionally a Discord role to a rank.
type RankBinding struct {
	Rank   int
	Label  string
	RoleID string
}

// DefaultRankLabel is used when no label is bound to rank.
func DefaultRankLabel(rank int) string {
	return fmt.Sprintf("Rank %d", rank)
}

const (
	MinRank = 1
	MaxRank = 10
)

// ValidRank reports whether rank can be bound to a label or role.
func ValidRank(rank int) bool {
	return rank >= MinRank && rank <= MaxRank
}

// Identity locates an in-game guild.
type Identity struct {
	Region string
	Realm  string
	Guild  string
}

// Complete reports whether every field is set.
func (id Identity) Complete() bool {
	return id.Region != "" && id.Realm != "" && id.Guild != ""
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s/%s", id.Region, id.Realm, id.Guild)
}

// Tracking is the roster tracking configuration of one Discord guild.
type Tracking struct {
	Identity
	LogChannelID     string
	WelcomeChannelID string
}

// Enabled reports whether the guild wants change notifications.
func (t Tracking) Enabled() bool {
	return t.LogChannelID != "" && t.Guild != "" && t.Realm != ""
}

// Member is the Discord side of a guild member.
type Member struct {
	ID          string
	DisplayName string
	Username    string
	Nickname    string
}

// Names returns the distinct non-empty names of the member.
func (m Member) Names() []string {
	names := make([]string, 0, 3)
	for _, n := range []string{m.DisplayName, m.Username, m.Nickname} {
		if n == "" {
			continue
		}
		dup := false
		for _, seen := range names {
			if seen == n {
				dup = true
				break
			}
		}
		if !dup {
			names = append(names, n)
		}
	}
	return names
}

// Mention formats the member as a Discord user mention.
func (m Member) Mention() string {
	return "<@" + m.ID + ">"
}
