package roster

import (
	"context"
	"fmt"
	"slices"

	"rosterbot/internal/fuzzy"
)

// ResolveDiscordMembers ranks members by how well their best name matches
// characterName, most likely first.
func ResolveDiscordMembers(characterName string, members []Member) []Member {
	choices := make([]string, len(members))
	for i, m := range members {
		if best, ok := fuzzy.Best(characterName, m.Names()); ok {
			choices[i] = best.Key
		}
	}
	matches := fuzzy.RankCandidates(characterName, choices, fuzzy.DefaultLimit, fuzzy.DefaultCutoff)
	out := make([]Member, 0, len(matches))
	for _, match := range matches {
		out = append(out, members[match.Index])
	}
	return out
}

// ResolveCharacter ranks the characters of r by similarity to displayName.
// It returns the matching "name:realm" keys, most likely first, and the
// most senior rank among them. ok is false when nothing matched.
func ResolveCharacter(displayName string, r Roster) (keys []string, rank int, ok bool) {
	// Iterate keys in a fixed order so ties are reproducible.
	full := make([]string, 0, len(r))
	for key := range r {
		full = append(full, key)
	}
	slices.Sort(full)

	names := make([]string, 0, len(full))
	byName := make(map[string]string, len(full))
	for _, key := range full {
		name, _ := SplitKey(key)
		if _, dup := byName[name]; dup {
			continue
		}
		byName[name] = key
		names = append(names, name)
	}

	matches := fuzzy.RankCandidates(displayName, names, fuzzy.DefaultLimit, fuzzy.DefaultCutoff)
	if len(matches) == 0 {
		return nil, 0, false
	}
	keys = make([]string, 0, len(matches))
	for i, match := range matches {
		key := byName[match.Key]
		keys = append(keys, key)
		if i == 0 || r[key] < rank {
			rank = r[key]
		}
	}
	return keys, rank, true
}

// CharacterMatch is the result of looking up a Discord name in the roster.
type CharacterMatch struct {
	Keys      []string
	Rank      int
	RankLabel string
}

// Found reports whether any character matched.
func (m CharacterMatch) Found() bool {
	return len(m.Keys) > 0
}

// Resolver wires the matching functions to their data sources.
type Resolver struct {
	fetcher Fetcher
	store   Store
	members MembersSource
}

func NewResolver(fetcher Fetcher, store Store, members MembersSource) *Resolver {
	return &Resolver{fetcher: fetcher, store: store, members: members}
}

// FindMembers returns the Discord members likely to own characterName.
func (r *Resolver) FindMembers(ctx context.Context, guildID, characterName string) ([]Member, error) {
	members, err := r.members.ListMembers(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return ResolveDiscordMembers(characterName, members), nil
}

// FindCharacter looks displayName up in the live roster of the guild.
func (r *Resolver) FindCharacter(ctx context.Context, guildID, displayName string) (CharacterMatch, error) {
	tracking, err := r.store.Tracking(ctx, guildID)
	if err != nil {
		return CharacterMatch{}, fmt.Errorf("read tracking config: %w", err)
	}
	if tracking.Guild == "" || tracking.Realm == "" {
		return CharacterMatch{}, NewFetchError(NotConfigured, fmt.Errorf("guild name or realm missing"))
	}
	entries, err := r.fetcher.FetchRoster(ctx, tracking.Identity)
	if err != nil {
		return CharacterMatch{}, err
	}

	keys, rank, ok := ResolveCharacter(displayName, NewRoster(entries))
	if !ok {
		return CharacterMatch{}, nil
	}
	label, err := r.store.RankLabel(ctx, guildID, rank)
	if err != nil {
		return CharacterMatch{}, fmt.Errorf("read rank label: %w", err)
	}
	return CharacterMatch{Keys: keys, Rank: rank, RankLabel: label}, nil
}
