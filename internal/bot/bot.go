package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"rosterbot/internal/database"
	"rosterbot/internal/roster"
)

// Time allowed to answer a command, including roster fetches.
const commandTimeout = 30 * time.Second

type Bot struct {
	prefix     string
	session    *discordgo.Session
	discord    Session
	settings   database.Settings
	reconciler *roster.Reconciler
	resolver   *roster.Resolver

	permissions func(userID, channelID string) (int64, error)
	roleName    func(guildID, roleID string) string
}

func New(cfg Config, session *discordgo.Session, settings database.Settings, reconciler *roster.Reconciler, resolver *roster.Resolver) *Bot {
	bot := &Bot{
		prefix:     cfg.Prefix,
		session:    session,
		discord:    session,
		settings:   settings,
		reconciler: reconciler,
		resolver:   resolver,
		permissions: func(userID, channelID string) (int64, error) {
			return session.UserChannelPermissions(userID, channelID)
		},
		roleName: func(guildID, roleID string) string {
			if role, err := session.State.Role(guildID, roleID); err == nil {
				return role.Name
			}
			return roleID
		},
	}
	session.AddHandler(bot.Receive)
	session.AddHandler(bot.MemberJoined)
	return bot
}

// Open connects to the gateway. Handlers run until Close.
func (bot *Bot) Open() error {
	if err := bot.session.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	log.Info().Str("user", bot.session.State.User.Username).Msg("Connected to discord")
	return nil
}

func (bot *Bot) Close() error {
	return bot.session.Close()
}

// Guilds lists the guilds the bot is currently in.
func (bot *Bot) Guilds(ctx context.Context) ([]string, error) {
	state := bot.session.State
	state.RLock()
	defer state.RUnlock()
	ids := make([]string, 0, len(state.Guilds))
	for _, guild := range state.Guilds {
		ids = append(ids, guild.ID)
	}
	return ids, nil
}

func (bot *Bot) Receive(discord *discordgo.Session, message *discordgo.MessageCreate) {

	// Reject messages from bots, including myself
	if message.Author == nil || message.Author.Bot {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	bot.sendResponses(message.ChannelID, bot.handle(ctx, message.Message))
}

func (bot *Bot) handle(ctx context.Context, message *discordgo.Message) []Response {

	parseResult := Parse(bot.prefix, message.Content)
	switch parseResult.parseid {
	case PARSEID_NO_BOT_PREFIX:
		return nil
	case PARSEID_OK:
	default:
		// The command is invalid input, so it contains an error message
		log.Debug().Str("content", message.Content).Str("reason", parseResult.errorMessage).Msg("Wrong input")
		return InputNotValid(parseResult.errorMessage)
	}

	// Ignore messages from private channels
	if message.GuildID == "" {
		return PrivateMessage()
	}
	guildID := message.GuildID
	logger := log.With().Str("guild", guildID).Str("user", message.Author.ID).Logger()
	logger.Info().Str("content", message.Content).Msg("Command understood")

	if parseResult.command != COMMAND_FIND && parseResult.command != COMMAND_HELP && !bot.isAdmin(message) {
		return NotAllowed()
	}

	var responses []Response
	var err error
	switch parseResult.command {
	case COMMAND_RANK_STRING:
		arg := parseResult.arguments.(RankArgument)
		if err = bot.settings.SetRankLabel(ctx, guildID, arg.Rank, arg.Value); err == nil {
			responses = RankLabelBound(arg.Value, arg.Rank)
		}
	case COMMAND_RANK_ROLE:
		arg := parseResult.arguments.(RankArgument)
		if err = bot.settings.SetRankRole(ctx, guildID, arg.Rank, arg.Value); err == nil {
			responses = RankRoleBound(bot.roleName(guildID, arg.Value), arg.Rank)
		}
	case COMMAND_VIEW:
		var bindings []roster.RankBinding
		if bindings, err = bot.settings.RankBindings(ctx, guildID); err == nil {
			responses = RankSettings(bindings, func(roleID string) string { return bot.roleName(guildID, roleID) })
		}
	case COMMAND_GUILD_NAME:
		name := parseResult.arguments.(string)
		if err = bot.settings.SetGuildName(ctx, guildID, name); err == nil {
			responses = SettingSaved("Guild name", name)
		}
	case COMMAND_REALM:
		realm := parseResult.arguments.(string)
		if err = bot.settings.SetRealm(ctx, guildID, realm); err == nil {
			responses = SettingSaved("Guild realm", realm)
		}
	case COMMAND_REGION:
		region := parseResult.arguments.(string)
		if err = bot.settings.SetRegion(ctx, guildID, region); err == nil {
			responses = SettingSaved("Guild region", region)
		}
	case COMMAND_GUILD_LOG:
		responses, err = bot.guildLog(ctx, guildID, parseResult.arguments.(string))
	case COMMAND_WELCOME_CHANNEL:
		responses, err = bot.welcomeChannel(ctx, guildID, parseResult.arguments.(string))
	case COMMAND_FIND:
		responses, err = bot.find(ctx, guildID, parseResult.arguments.(string))
	case COMMAND_HELP:
		responses = HelpMessage(bot.prefix)
	default:
		panic(fmt.Sprintf("Command %d is not one of the possible ones", parseResult.command))
	}
	if err != nil {
		logger.Error().Err(err).Msg("Command failed")
		return CommandFailed()
	}
	return responses
}

func (bot *Bot) isAdmin(message *discordgo.Message) bool {
	perms, err := bot.permissions(message.Author.ID, message.ChannelID)
	if err != nil {
		log.Warn().Err(err).Str("user", message.Author.ID).Msg("Could not read permissions")
		return false
	}
	return perms&(discordgo.PermissionAdministrator|discordgo.PermissionManageServer) != 0
}

// guildLog seeds the snapshot before enabling the channel, so the first
// pass does not announce every member as new.
func (bot *Bot) guildLog(ctx context.Context, guildID, channelID string) ([]Response, error) {
	tracking, err := bot.settings.Tracking(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if tracking.Guild == "" || tracking.Realm == "" {
		return GuildNotSet(bot.prefix), nil
	}
	if _, err := bot.reconciler.Seed(ctx, guildID, tracking.Identity); err != nil {
		if fetchFailure(err) {
			return FetchFailed(err), nil
		}
		return nil, err
	}
	if err := bot.settings.SetLogChannel(ctx, guildID, channelID); err != nil {
		return nil, err
	}
	return ChannelSet("Guild log", channelID), nil
}

func (bot *Bot) welcomeChannel(ctx context.Context, guildID, channelID string) ([]Response, error) {
	if err := bot.settings.SetWelcomeChannel(ctx, guildID, channelID); err != nil {
		return nil, err
	}
	tracking, err := bot.settings.Tracking(ctx, guildID)
	if err != nil {
		return nil, err
	}
	if tracking.Guild == "" || tracking.Realm == "" {
		return append(ChannelSet("Welcome", channelID), GuildNotSet(bot.prefix)...), nil
	}
	if _, err := bot.reconciler.Seed(ctx, guildID, tracking.Identity); err != nil {
		if fetchFailure(err) {
			return FetchFailed(err), nil
		}
		return nil, err
	}
	return ChannelSet("Welcome", channelID), nil
}

func (bot *Bot) find(ctx context.Context, guildID, name string) ([]Response, error) {
	tracking, err := bot.settings.Tracking(ctx, guildID)
	if err != nil {
		return nil, err
	}

	members, err := bot.resolver.FindMembers(ctx, guildID, name)
	if err != nil {
		log.Warn().Err(err).Str("guild", guildID).Msg("Could not list members")
	}
	mentions := make([]string, len(members))
	for i, m := range members {
		mentions[i] = m.Mention()
	}

	match, err := bot.resolver.FindCharacter(ctx, guildID, cases.Title(language.Und).String(name))
	if err != nil {
		if tracking.Guild == "" || tracking.Realm == "" {
			return GuildNotSet(bot.prefix), nil
		}
		if fetchFailure(err) {
			return FetchFailed(err), nil
		}
		return nil, err
	}
	return FindResult(mentions, match, tracking.Region), nil
}

func (bot *Bot) MemberJoined(discord *discordgo.Session, event *discordgo.GuildMemberAdd) {
	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()
	bot.welcome(ctx, event.Member)
}

func (bot *Bot) welcome(ctx context.Context, member *discordgo.Member) {
	if member == nil || member.User == nil || member.User.Bot {
		return
	}
	logger := log.With().Str("guild", member.GuildID).Str("user", member.User.ID).Logger()

	tracking, err := bot.settings.Tracking(ctx, member.GuildID)
	if err != nil {
		logger.Error().Err(err).Msg("Could not read tracking config")
		return
	}
	if tracking.WelcomeChannelID == "" {
		return
	}

	name := displayName(member.Nick, member.User.GlobalName, member.User.Username)
	match, err := bot.resolver.FindCharacter(ctx, member.GuildID, name)
	if err != nil {
		logger.Warn().Err(err).Msg(roster.OperatorMessage(err))
		return
	}
	if !match.Found() {
		logger.Debug().Str("name", name).Msg("No character matches the new member")
		return
	}
	bot.sendResponses(tracking.WelcomeChannelID, []Response{WelcomeMessage(member.User.Mention(), match, tracking.Region)})
}

func (bot *Bot) sendResponses(channelId string, responses []Response) {
	for _, response := range responses {
		if err := response.Send(channelId, bot.discord); err != nil {
			log.Error().Err(err).Str("channel", channelId).Msg("Could not send response")
		}
	}
}

func fetchFailure(err error) bool {
	var fetchErr *roster.FetchError
	return errors.As(err, &fetchErr)
}
