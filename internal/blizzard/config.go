package blizzard

// Config holds the Blizzard API client settings.
type Config struct {
	// ClientID and ClientSecret come from https://develop.battle.net/.
	ClientID     string `mapstructure:"client_id" default:""`
	ClientSecret string `mapstructure:"client_secret" default:""`
	// Region is used for guilds that did not set one.
	Region string `mapstructure:"region" default:"eu"`
	// TokenURL is the OAuth2 client credentials endpoint.
	TokenURL string `mapstructure:"token_url" default:"https://oauth.battle.net/token"`
	// APIURL is formatted with the region, e.g. https://eu.api.blizzard.com.
	APIURL string `mapstructure:"api_url" default:"https://%s.api.blizzard.com"`
	Locale string `mapstructure:"locale" default:"en_US"`
	// Request budget of an API client.
	RequestsPerSecond int `mapstructure:"requests_per_second" default:"100"`
	RequestsPerHour   int `mapstructure:"requests_per_hour" default:"36000"`
}
