package database

import "time"

// GuildSettings is the roster tracking configuration of a Discord guild.
type GuildSettings struct {
	GuildID          string `gorm:"primaryKey;size:32"`
	GuildName        string `gorm:"size:128"`
	Realm            string `gorm:"size:128"`
	Region           string `gorm:"size:8"`
	LogChannelID     string `gorm:"size:32"`
	WelcomeChannelID string `gorm:"size:32"`
	UpdatedAt        time.Time
}

// RankBinding labels an in-game rank and optionally maps it to a role.
type RankBinding struct {
	GuildID string `gorm:"primaryKey;size:32"`
	Rank    int    `gorm:"primaryKey;autoIncrement:false"`
	Label   string `gorm:"size:128"`
	RoleID  string `gorm:"size:32"`
}

// RosterSnapshot holds the last reconciled roster of a guild as a JSON
// object of "name:realm" to rank. One row per guild, replaced as a whole.
type RosterSnapshot struct {
	GuildID   string `gorm:"primaryKey;size:32"`
	Members   string `gorm:"type:mediumtext"`
	UpdatedAt time.Time
}
