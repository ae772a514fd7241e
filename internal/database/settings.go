package database

import (
	"context"

	"rosterbot/internal/roster"
)

// Settings is implemented by Store and MemoryStore.
type Settings interface {
	roster.Store

	SetGuildName(ctx context.Context, guildID, name string) error
	SetRealm(ctx context.Context, guildID, realm string) error
	SetRegion(ctx context.Context, guildID, region string) error
	SetLogChannel(ctx context.Context, guildID, channelID string) error
	SetWelcomeChannel(ctx context.Context, guildID, channelID string) error
	SetRankLabel(ctx context.Context, guildID string, rank int, label string) error
	SetRankRole(ctx context.Context, guildID string, rank int, roleID string) error
	RankBindings(ctx context.Context, guildID string) ([]roster.RankBinding, error)
}

var (
	_ Settings = (*Store)(nil)
	_ Settings = (*MemoryStore)(nil)
)
