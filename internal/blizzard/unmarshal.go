package blizzard

import (
	"encoding/json"
	"fmt"

	"rosterbot/internal/roster"
)

// UnmarshalRoster decodes a guild roster response. Ranks are shifted so
// that the guild master is rank 1.
func UnmarshalRoster(data []byte) ([]roster.Entry, error) {

	var raw GuildRoster
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Members == nil {
		return nil, fmt.Errorf("roster response has no members field")
	}

	entries := make([]roster.Entry, 0, len(raw.Members))
	for i, member := range raw.Members {
		if err := member.validate(i); err != nil {
			return nil, err
		}
		entries = append(entries, roster.Entry{
			Name:  member.Character.Name,
			Realm: member.Character.Realm.Slug,
			Rank:  *member.Rank + 1,
		})
	}
	return entries, nil
}
