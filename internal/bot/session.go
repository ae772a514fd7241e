package bot

import "github.com/bwmarrin/discordgo"

// Session is the part of *discordgo.Session the bot talks to.
type Session interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	GuildMembers(guildID string, after string, limit int, options ...discordgo.RequestOption) ([]*discordgo.Member, error)
}

var _ Session = (*discordgo.Session)(nil)

// NewSession creates a discord session with the intents the bot needs.
// The session is not opened.
func NewSession(cfg Config) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, err
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsMessageContent
	return session, nil
}
