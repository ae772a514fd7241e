package bot

// Config holds the Discord settings.
type Config struct {
	// Token is the bot token, without the "Bot " prefix.
	Token string `mapstructure:"token" default:""`
	// Prefix precedes every text command, e.g. "!gm find thrall".
	Prefix string `mapstructure:"prefix" default:"!"`
	// MessagesPerSecond paces notification messages across all channels.
	MessagesPerSecond float64 `mapstructure:"messages_per_second" default:"1"`
}
