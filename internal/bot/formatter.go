package bot

import (
	"bytes"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize/english"

	"rosterbot/internal/roster"
)

// Use "teal" color for the bot
const color int = 0x008080

// Colors of roster change notifications
const (
	colorJoined  int = 0x2ecc71
	colorChanged int = 0x5865f2
	colorLeft    int = 0xe74c3c
)

func InputNotValid(errorMessage string) []Response {

	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func PrivateMessage() []Response {
	return []Response{ResponseString{"For the time being, I am ignoring private messages"}}
}

func NotAllowed() []Response {
	return []Response{ResponseString{"You need the Administrator or Manage Server permission to change these settings"}}
}

func HelpMessage(prefix string) []Response {

	embed := discordgo.MessageEmbed{Title: "Commands available", Color: color}
	add := func(name, value string) {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("`%s%s`", prefix, name),
			Value:  value,
			Inline: false,
		})
	}
	add("gm find <name>", "Find the Discord members and in-game characters matching a name")
	add("gmset guildname <name>", "Set the name of the in-game guild, leave empty to clear")
	add("gmset realm <realm>", "Set the realm of the in-game guild, leave empty to clear")
	add("gmset region <region>", "Set the region of the in-game guild (us, eu, kr, tw, cn)")
	add("gmset guildlog <#channel>", "Send a message to the channel when members join, leave, or change rank in the in-game guild")
	add("gmset welcome <#channel>", "Guess the character of new server members and post it to the channel")
	add("gmset rankstring <rank> <label>", "Bind a rank to a label")
	add("gmset rankrole <rank> <@role>", "Bind a rank to a role")
	add("gmset view", "Print the rank settings")
	return []Response{ResponseEmbed{embed}}
}

func SettingSaved(what string, value string) []Response {
	if value == "" {
		return []Response{ResponseString{fmt.Sprintf("%s cleared.", what)}}
	}
	return []Response{ResponseString{fmt.Sprintf("%s set to `%s`.", what, value)}}
}

func RankLabelBound(label string, rank int) []Response {
	return []Response{ResponseString{fmt.Sprintf("**%s** bound to **Rank %d**.", label, rank)}}
}

func RankRoleBound(roleName string, rank int) []Response {
	return []Response{ResponseString{fmt.Sprintf("**%s** bound to **Rank %d**.", roleName, rank)}}
}

func ChannelSet(what string, channelID string) []Response {
	return []Response{ResponseString{fmt.Sprintf("%s channel set to <#%s>.", what, channelID)}}
}

func GuildNotSet(prefix string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Please use `%sgmset guildname` and `%sgmset realm` to set the name and realm of your guild.", prefix, prefix)}}
}

func FetchFailed(err error) []Response {
	return []Response{ResponseString{roster.OperatorMessage(err)}}
}

func CommandFailed() []Response {
	return []Response{ResponseString{"Something went wrong, please try again."}}
}

// RankSettings renders ranks 1 to 10 with their label and role. roleName
// resolves a role id to a display name.
func RankSettings(bindings []roster.RankBinding, roleName func(string) string) []Response {

	byRank := make(map[int]roster.RankBinding, len(bindings))
	for _, b := range bindings {
		byRank[b.Rank] = b
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Rank\tRank String\tRank Role")
	for rank := roster.MinRank; rank <= roster.MaxRank; rank++ {
		b := byRank[rank]
		role := ""
		if b.RoleID != "" {
			role = "@" + roleName(b.RoleID)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", rank, b.Label, role)
	}
	w.Flush()

	table := strings.TrimRight(buf.String(), "\n")
	embed := discordgo.MessageEmbed{
		Title:       "Rank Settings",
		Description: fmt.Sprintf("```\n%s\n```", table),
		Color:       color,
	}
	return []Response{ResponseEmbed{embed}}
}

// ChangeEmbed describes one roster change. Labels are the display strings
// of the ranks involved, mentions the probable Discord owners.
func ChangeEmbed(event roster.ChangeEvent, oldLabel, newLabel string, mentions []string) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{Description: english.OxfordWordSeries(mentions, "or")}
	switch event.Kind {
	case roster.Added:
		embed.Title = fmt.Sprintf("**%s** joined the guild as **%s**", event.Name, newLabel)
		embed.Color = colorJoined
	case roster.Changed:
		embed.Title = fmt.Sprintf("**%s** was %s from **%s** to **%s**", event.Name, event.Direction(), oldLabel, newLabel)
		embed.Color = colorChanged
	case roster.Removed:
		embed.Title = fmt.Sprintf("**%s (%s)** left the guild", event.Name, oldLabel)
		embed.Color = colorLeft
	}
	return embed
}

func RaiderIOURL(region, realm, name string) string {
	return fmt.Sprintf("[Raider.io](https://raider.io/characters/%s/%s/%s)", strings.ToLower(region), strings.ToLower(realm), name)
}

func WarcraftLogsURL(region, realm, name string) string {
	return fmt.Sprintf("[WarcraftLogs](https://www.warcraftlogs.com/character/%s/%s/%s)", strings.ToLower(region), strings.ToLower(realm), name)
}

// characterLines lists the matched characters and links for the most
// likely one. suffix is appended to the guesses ("?" when unsure).
func characterLines(match roster.CharacterMatch, region string, suffix string) string {
	names := make([]string, len(match.Keys))
	for i, key := range match.Keys {
		names[i], _ = roster.SplitKey(key)
	}
	name, realm := roster.SplitKey(match.Keys[0])

	var b strings.Builder
	fmt.Fprintf(&b, "In-game: %s%s\n", english.OxfordWordSeries(names, "or"), suffix)
	fmt.Fprintf(&b, "Rank: %s%s\n", match.RankLabel, suffix)
	fmt.Fprintf(&b, "%s | %s", RaiderIOURL(region, realm, name), WarcraftLogsURL(region, realm, name))
	return b.String()
}

func FindResult(mentions []string, match roster.CharacterMatch, region string) []Response {

	var b strings.Builder
	if len(mentions) > 0 {
		fmt.Fprintf(&b, "Discord: %s\n", english.OxfordWordSeries(mentions, "or"))
	}
	if match.Found() {
		b.WriteString(characterLines(match, region, ""))
	}
	description := b.String()
	if description == "" {
		description = "Nothing found."
	}
	return []Response{ResponseEmbed{discordgo.MessageEmbed{Description: description, Color: color}}}
}

// WelcomeMessage guesses the character of a member who just joined the
// server. match must have found something.
func WelcomeMessage(mention string, match roster.CharacterMatch, region string) Response {
	description := fmt.Sprintf("Discord: %s\n%s", mention, characterLines(match, region, "?"))
	return ResponseEmbed{discordgo.MessageEmbed{Description: description, Color: colorJoined}}
}
