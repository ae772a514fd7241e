package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"rosterbot/internal/blizzard"
	"rosterbot/internal/roster"
)

const (
	COMMAND_RANK_STRING     = iota
	COMMAND_RANK_ROLE       = iota
	COMMAND_VIEW            = iota
	COMMAND_GUILD_NAME      = iota
	COMMAND_REALM           = iota
	COMMAND_REGION          = iota
	COMMAND_GUILD_LOG       = iota
	COMMAND_WELCOME_CHANNEL = iota
	COMMAND_FIND            = iota
	COMMAND_HELP            = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_NO_BOT_PREFIX          = iota
	PARSEID_NO_COMMAND             = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
	PARSEID_NO_INPUT               = iota
	PARSEID_NOT_A_RANK             = iota
	PARSEID_NOT_A_ROLE             = iota
	PARSEID_NOT_A_CHANNEL          = iota
	PARSEID_NOT_A_REGION           = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided, try `%shelp`",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires an argument",
	PARSEID_NOT_A_RANK:             "Rank must be between 1 and 10, got `%s`",
	PARSEID_NOT_A_ROLE:             "Input `%s` is not a role",
	PARSEID_NOT_A_CHANNEL:          "Input `%s` is not a channel",
	PARSEID_NOT_A_REGION:           "Region `%s` is not one of us, eu, kr, tw or cn",
}

// Top level command words, after the prefix.
const (
	settingsWord = "gmset"
	manageWord   = "gm"
)

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    interface{}
}

// RankArgument is a rank followed by a label or a role id.
type RankArgument struct {
	Rank  int
	Value string
}

func Parse(prefix string, message string) ParseResult {

	// The message has to start with the bot prefix and one of our words
	if !strings.HasPrefix(message, prefix) {
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}
	words := strings.Fields(message[len(prefix):])
	if len(words) == 0 || (words[0] != settingsWord && words[0] != manageWord) {
		log.Debug().Msg("Reject message not intended for the bot")
		return ParseResult{parseid: PARSEID_NO_BOT_PREFIX}
	}
	group := words[0]
	if len(words) == 1 {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], prefix+manageWord+" ")}
	}
	commandString := words[1]
	words = words[2:]

	noInput := func(command int) ParseResult {
		parseid := PARSEID_NO_INPUT
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], group+" "+commandString)}
	}
	rest := strings.Join(words, " ")

	switch group + " " + commandString {
	case "gmset rankstring":
		// gmset rankstring <rank> <label>
		if len(words) < 2 {
			return noInput(COMMAND_RANK_STRING)
		}
		return parseRank(COMMAND_RANK_STRING, words[0], strings.Join(words[1:], " "))
	case "gmset rankrole":
		// gmset rankrole <rank> <@role>
		if len(words) < 2 {
			return noInput(COMMAND_RANK_ROLE)
		}
		roleID, ok := parseMention(words[1], "<@&")
		if !ok {
			parseid := PARSEID_NOT_A_ROLE
			return ParseResult{command: COMMAND_RANK_ROLE, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[1])}
		}
		return parseRank(COMMAND_RANK_ROLE, words[0], roleID)
	case "gmset view":
		return ParseResult{command: COMMAND_VIEW, parseid: PARSEID_OK}
	case "gmset guildname":
		// gmset guildname [name], empty clears
		return ParseResult{command: COMMAND_GUILD_NAME, parseid: PARSEID_OK, arguments: blizzard.Slug(rest)}
	case "gmset realm":
		return ParseResult{command: COMMAND_REALM, parseid: PARSEID_OK, arguments: blizzard.Slug(rest)}
	case "gmset region":
		region := strings.ToLower(rest)
		if region != "" && !blizzard.ValidRegion(region) {
			parseid := PARSEID_NOT_A_REGION
			return ParseResult{command: COMMAND_REGION, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], rest)}
		}
		return ParseResult{command: COMMAND_REGION, parseid: PARSEID_OK, arguments: region}
	case "gmset guildlog":
		return parseChannel(COMMAND_GUILD_LOG, words, noInput)
	case "gmset welcome":
		return parseChannel(COMMAND_WELCOME_CHANNEL, words, noInput)
	case "gm find":
		// gm find <name>
		if rest == "" {
			return noInput(COMMAND_FIND)
		}
		return ParseResult{command: COMMAND_FIND, parseid: PARSEID_OK, arguments: rest}
	case "gm help", "gmset help":
		return ParseResult{command: COMMAND_HELP, parseid: PARSEID_OK}
	default:
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], group+" "+commandString)}
	}
}

func parseRank(command int, word string, value string) ParseResult {
	rank, err := strconv.Atoi(word)
	if err != nil || !roster.ValidRank(rank) {
		parseid := PARSEID_NOT_A_RANK
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], word)}
	}
	return ParseResult{command: command, parseid: PARSEID_OK, arguments: RankArgument{Rank: rank, Value: value}}
}

func parseChannel(command int, words []string, noInput func(int) ParseResult) ParseResult {
	if len(words) == 0 {
		return noInput(command)
	}
	channelID, ok := parseMention(words[0], "<#")
	if !ok {
		parseid := PARSEID_NOT_A_CHANNEL
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], words[0])}
	}
	return ParseResult{command: command, parseid: PARSEID_OK, arguments: channelID}
}

// parseMention accepts a mention with the given opening ("<#", "<@&") or a
// raw snowflake id.
func parseMention(word string, opening string) (string, bool) {
	id := word
	if strings.HasPrefix(word, opening) && strings.HasSuffix(word, ">") {
		id = word[len(opening) : len(word)-1]
	}
	if id == "" {
		return "", false
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", false
	}
	return id, true
}
