package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rosterbot/internal/roster"
)

func TestChangeEmbed(t *testing.T) {
	added := ChangeEmbed(roster.ChangeEvent{Kind: roster.Added, Name: "Thrall", NewRank: 2}, "", "Officer", []string{"<@1>", "<@2>"})
	assert.Equal(t, "**Thrall** joined the guild as **Officer**", added.Title)
	assert.Equal(t, "<@1> or <@2>", added.Description)
	assert.Equal(t, colorJoined, added.Color)

	promoted := ChangeEmbed(roster.ChangeEvent{Kind: roster.Changed, Name: "Jaina", OldRank: 5, NewRank: 2}, "Rank 5", "Officer", nil)
	assert.Equal(t, "**Jaina** was promoted from **Rank 5** to **Officer**", promoted.Title)
	assert.Empty(t, promoted.Description)
	assert.Equal(t, colorChanged, promoted.Color)

	demoted := ChangeEmbed(roster.ChangeEvent{Kind: roster.Changed, Name: "Jaina", OldRank: 2, NewRank: 5}, "Officer", "Rank 5", nil)
	assert.Equal(t, "**Jaina** was demoted from **Officer** to **Rank 5**", demoted.Title)

	removed := ChangeEmbed(roster.ChangeEvent{Kind: roster.Removed, Name: "Arthas", OldRank: 9}, "Rank 9", "", []string{"<@1>", "<@2>", "<@3>"})
	assert.Equal(t, "**Arthas (Rank 9)** left the guild", removed.Title)
	assert.Equal(t, "<@1>, <@2>, or <@3>", removed.Description)
	assert.Equal(t, colorLeft, removed.Color)
}

func TestCharacterLinks(t *testing.T) {
	assert.Equal(t, "[Raider.io](https://raider.io/characters/eu/draenor/Thrall)", RaiderIOURL("EU", "Draenor", "Thrall"))
	assert.Equal(t, "[WarcraftLogs](https://www.warcraftlogs.com/character/us/area-52/Thrall)", WarcraftLogsURL("us", "area-52", "Thrall"))
}

func TestFindResult(t *testing.T) {
	empty := FindResult(nil, roster.CharacterMatch{}, "eu")
	require.Len(t, empty, 1)
	assert.Equal(t, "Nothing found.", empty[0].(ResponseEmbed).Description)

	match := roster.CharacterMatch{Keys: []string{"Thrall:draenor", "Thrallx:silvermoon"}, Rank: 2, RankLabel: "Officer"}
	found := FindResult([]string{"<@7>"}, match, "eu")
	assert.Equal(t,
		"Discord: <@7>\n"+
			"In-game: Thrall or Thrallx\n"+
			"Rank: Officer\n"+
			"[Raider.io](https://raider.io/characters/eu/draenor/Thrall) | [WarcraftLogs](https://www.warcraftlogs.com/character/eu/draenor/Thrall)",
		found[0].(ResponseEmbed).Description)

	onlyDiscord := FindResult([]string{"<@7>", "<@8>"}, roster.CharacterMatch{}, "eu")
	assert.Equal(t, "Discord: <@7> or <@8>\n", onlyDiscord[0].(ResponseEmbed).Description)
}

func TestWelcomeMessage(t *testing.T) {
	match := roster.CharacterMatch{Keys: []string{"Thrall:draenor"}, Rank: 1, RankLabel: "Warchief"}
	embed := WelcomeMessage("<@9>", match, "eu").(ResponseEmbed)
	assert.True(t, strings.HasPrefix(embed.Description, "Discord: <@9>\nIn-game: Thrall?\nRank: Warchief?\n"))
	assert.Equal(t, colorJoined, embed.Color)
}

func TestRankSettings(t *testing.T) {
	bindings := []roster.RankBinding{
		{Rank: 1, Label: "Guild Master", RoleID: "r1"},
		{Rank: 4, Label: "Raider"},
	}
	responses := RankSettings(bindings, func(id string) string { return "role-" + id })
	require.Len(t, responses, 1)
	embed := responses[0].(ResponseEmbed)
	assert.Equal(t, "Rank Settings", embed.Title)

	body := strings.TrimSuffix(strings.TrimPrefix(embed.Description, "```\n"), "\n```")
	lines := strings.Split(body, "\n")
	require.Len(t, lines, 11)
	assert.True(t, strings.HasPrefix(lines[0], "Rank"))
	assert.Contains(t, lines[1], "Guild Master")
	assert.Contains(t, lines[1], "@role-r1")
	assert.Contains(t, lines[4], "Raider")
	assert.NotContains(t, lines[4], "@")
	assert.True(t, strings.HasPrefix(lines[10], "10"))
}
