package bot

import (
	"context"

	"rosterbot/internal/roster"
)

// Discord returns at most this many members per request.
const membersPageSize = 1000

// Members lists guild members through the REST API, so results are never
// stale and do not depend on the member cache.
type Members struct {
	discord Session
}

func NewMembers(discord Session) *Members {
	return &Members{discord: discord}
}

func (m *Members) ListMembers(ctx context.Context, guildID string) ([]roster.Member, error) {
	var out []roster.Member
	after := ""
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page, err := m.discord.GuildMembers(guildID, after, membersPageSize)
		if err != nil {
			return nil, err
		}
		next := ""
		for _, member := range page {
			if member.User == nil {
				continue
			}
			next = member.User.ID
			if member.User.Bot {
				continue
			}
			out = append(out, roster.Member{
				ID:          member.User.ID,
				DisplayName: displayName(member.Nick, member.User.GlobalName, member.User.Username),
				Username:    member.User.Username,
				Nickname:    member.Nick,
			})
		}
		if len(page) < membersPageSize || next == "" {
			return out, nil
		}
		after = next
	}
}

// displayName follows Discord: server nickname, then global name, then username.
func displayName(nick, global, username string) string {
	switch {
	case nick != "":
		return nick
	case global != "":
		return global
	default:
		return username
	}
}
