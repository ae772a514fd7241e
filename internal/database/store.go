package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rosterbot/internal/roster"
)

// Store is the gorm backed settings and snapshot store.
type Store struct {
	db            *gorm.DB
	defaultRegion string
}

// NewStore uses defaultRegion for guilds that never set a region.
func NewStore(db *gorm.DB, defaultRegion string) *Store {
	return &Store{db: db, defaultRegion: defaultRegion}
}

func (s *Store) Snapshot(ctx context.Context, guildID string) (roster.Roster, error) {
	var row RosterSnapshot
	err := s.db.WithContext(ctx).Where("guild_id = ?", guildID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return roster.Roster{}, nil
	}
	if err != nil {
		return nil, err
	}
	r := roster.Roster{}
	if err := json.Unmarshal([]byte(row.Members), &r); err != nil {
		return nil, fmt.Errorf("decode snapshot of guild %s: %w", guildID, err)
	}
	return r, nil
}

// SetSnapshot replaces the stored roster with a single upsert of one row.
func (s *Store) SetSnapshot(ctx context.Context, guildID string, r roster.Roster) error {
	if r == nil {
		r = roster.Roster{}
	}
	members, err := json.Marshal(r)
	if err != nil {
		return err
	}
	row := RosterSnapshot{GuildID: guildID, Members: string(members), UpdatedAt: time.Now().UTC()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}

func (s *Store) RankLabel(ctx context.Context, guildID string, rank int) (string, error) {
	var row RankBinding
	err := s.db.WithContext(ctx).Where("guild_id = ? AND `rank` = ?", guildID, rank).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && row.Label == "") {
		return roster.DefaultRankLabel(rank), nil
	}
	if err != nil {
		return "", err
	}
	return row.Label, nil
}

func (s *Store) Tracking(ctx context.Context, guildID string) (roster.Tracking, error) {
	var row GuildSettings
	err := s.db.WithContext(ctx).Where("guild_id = ?", guildID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return roster.Tracking{Identity: roster.Identity{Region: s.defaultRegion}}, nil
	}
	if err != nil {
		return roster.Tracking{}, err
	}
	return trackingFrom(row, s.defaultRegion), nil
}

func trackingFrom(row GuildSettings, defaultRegion string) roster.Tracking {
	region := row.Region
	if region == "" {
		region = defaultRegion
	}
	return roster.Tracking{
		Identity:         roster.Identity{Region: region, Realm: row.Realm, Guild: row.GuildName},
		LogChannelID:     row.LogChannelID,
		WelcomeChannelID: row.WelcomeChannelID,
	}
}

func (s *Store) SetGuildName(ctx context.Context, guildID, name string) error {
	return s.setField(ctx, guildID, "guild_name", name)
}

func (s *Store) SetRealm(ctx context.Context, guildID, realm string) error {
	return s.setField(ctx, guildID, "realm", realm)
}

func (s *Store) SetRegion(ctx context.Context, guildID, region string) error {
	return s.setField(ctx, guildID, "region", region)
}

func (s *Store) SetLogChannel(ctx context.Context, guildID, channelID string) error {
	return s.setField(ctx, guildID, "log_channel_id", channelID)
}

func (s *Store) SetWelcomeChannel(ctx context.Context, guildID, channelID string) error {
	return s.setField(ctx, guildID, "welcome_channel_id", channelID)
}

func (s *Store) setField(ctx context.Context, guildID, column, value string) error {
	return s.db.WithContext(ctx).Model(&GuildSettings{}).
		Clauses(clause.OnConflict{DoUpdates: clause.AssignmentColumns([]string{column, "updated_at"})}).
		Create(map[string]any{"guild_id": guildID, column: value, "updated_at": time.Now().UTC()}).Error
}

func (s *Store) SetRankLabel(ctx context.Context, guildID string, rank int, label string) error {
	return s.setBinding(ctx, RankBinding{GuildID: guildID, Rank: rank, Label: label}, "label")
}

func (s *Store) SetRankRole(ctx context.Context, guildID string, rank int, roleID string) error {
	return s.setBinding(ctx, RankBinding{GuildID: guildID, Rank: rank, RoleID: roleID}, "role_id")
}

func (s *Store) setBinding(ctx context.Context, binding RankBinding, column string) error {
	if !roster.ValidRank(binding.Rank) {
		return ErrInvalidRank
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoUpdates: clause.AssignmentColumns([]string{column})}).
		Create(&binding).Error
}

// RankBindings returns the bindings of a guild ordered by rank.
func (s *Store) RankBindings(ctx context.Context, guildID string) ([]roster.RankBinding, error) {
	var rows []RankBinding
	if err := s.db.WithContext(ctx).Where("guild_id = ?", guildID).Order("`rank`").Find(&rows).Error; err != nil {
		return nil, err
	}
	bindings := make([]roster.RankBinding, 0, len(rows))
	for _, row := range rows {
		bindings = append(bindings, roster.RankBinding{Rank: row.Rank, Label: row.Label, RoleID: row.RoleID})
	}
	return bindings, nil
}
