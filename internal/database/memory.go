package database

import (
	"context"
	"sort"
	"sync"

	"rosterbot/internal/roster"
)

// MemoryStore keeps everything in process. Snapshots are copied in and
// out, so readers never observe a roster that is being replaced.
type MemoryStore struct {
	mu            sync.RWMutex
	defaultRegion string
	settings      map[string]GuildSettings
	bindings      map[string]map[int]roster.RankBinding
	snapshots     map[string]roster.Roster
}

func NewMemoryStore(defaultRegion string) *MemoryStore {
	return &MemoryStore{
		defaultRegion: defaultRegion,
		settings:      map[string]GuildSettings{},
		bindings:      map[string]map[int]roster.RankBinding{},
		snapshots:     map[string]roster.Roster{},
	}
}

func (m *MemoryStore) Snapshot(_ context.Context, guildID string) (roster.Roster, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshots[guildID].Clone(), nil
}

func (m *MemoryStore) SetSnapshot(_ context.Context, guildID string, r roster.Roster) error {
	replacement := r.Clone()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[guildID] = replacement
	return nil
}

func (m *MemoryStore) RankLabel(_ context.Context, guildID string, rank int) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.bindings[guildID][rank]; ok && b.Label != "" {
		return b.Label, nil
	}
	return roster.DefaultRankLabel(rank), nil
}

func (m *MemoryStore) Tracking(_ context.Context, guildID string) (roster.Tracking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return trackingFrom(m.settings[guildID], m.defaultRegion), nil
}

func (m *MemoryStore) update(guildID string, fn func(*GuildSettings)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings[guildID]
	s.GuildID = guildID
	fn(&s)
	m.settings[guildID] = s
	return nil
}

func (m *MemoryStore) SetGuildName(_ context.Context, guildID, name string) error {
	return m.update(guildID, func(s *GuildSettings) { s.GuildName = name })
}

func (m *MemoryStore) SetRealm(_ context.Context, guildID, realm string) error {
	return m.update(guildID, func(s *GuildSettings) { s.Realm = realm })
}

func (m *MemoryStore) SetRegion(_ context.Context, guildID, region string) error {
	return m.update(guildID, func(s *GuildSettings) { s.Region = region })
}

func (m *MemoryStore) SetLogChannel(_ context.Context, guildID, channelID string) error {
	return m.update(guildID, func(s *GuildSettings) { s.LogChannelID = channelID })
}

func (m *MemoryStore) SetWelcomeChannel(_ context.Context, guildID, channelID string) error {
	return m.update(guildID, func(s *GuildSettings) { s.WelcomeChannelID = channelID })
}

func (m *MemoryStore) binding(guildID string, rank int, fn func(*roster.RankBinding)) error {
	if !roster.ValidRank(rank) {
		return ErrInvalidRank
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.bindings[guildID] == nil {
		m.bindings[guildID] = map[int]roster.RankBinding{}
	}
	b := m.bindings[guildID][rank]
	b.Rank = rank
	fn(&b)
	m.bindings[guildID][rank] = b
	return nil
}

func (m *MemoryStore) SetRankLabel(_ context.Context, guildID string, rank int, label string) error {
	return m.binding(guildID, rank, func(b *roster.RankBinding) { b.Label = label })
}

func (m *MemoryStore) SetRankRole(_ context.Context, guildID string, rank int, roleID string) error {
	return m.binding(guildID, rank, func(b *roster.RankBinding) { b.RoleID = roleID })
}

func (m *MemoryStore) RankBindings(_ context.Context, guildID string) ([]roster.RankBinding, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	bindings := make([]roster.RankBinding, 0, len(m.bindings[guildID]))
	for _, b := range m.bindings[guildID] {
		bindings = append(bindings, b)
	}
	sort.Slice(bindings, func(i, j int) bool { return bindings[i].Rank < bindings[j].Rank })
	return bindings, nil
}
