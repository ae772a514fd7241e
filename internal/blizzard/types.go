package blizzard

import (
	"fmt"
	"strings"
)

type CharacterRealm struct {
	Slug string `json:"slug"`
}

type Character struct {
	Name  string         `json:"name"`
	ID    int64          `json:"id"`
	Level int            `json:"level"`
	Realm CharacterRealm `json:"realm"`
}

type RosterMember struct {
	Character Character `json:"character"`
	// Rank as sent by the API, 0 is the guild master.
	Rank *int `json:"rank"`
}

type GuildRoster struct {
	Members []RosterMember `json:"members"`
}

// Slug turns a guild or realm name into the form used in API paths.
func Slug(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
}

var regions = map[string]struct{}{"us": {}, "eu": {}, "kr": {}, "tw": {}, "cn": {}}

// ValidRegion reports whether region is served by the API.
func ValidRegion(region string) bool {
	_, ok := regions[strings.ToLower(region)]
	return ok
}

func (m RosterMember) validate(i int) error {
	switch {
	case m.Character.Name == "":
		return fmt.Errorf("member %d has no character name", i)
	case m.Character.Realm.Slug == "":
		return fmt.Errorf("member %d (%s) has no realm", i, m.Character.Name)
	case m.Rank == nil:
		return fmt.Errorf("member %d (%s) has no rank", i, m.Character.Name)
	}
	return nil
}
