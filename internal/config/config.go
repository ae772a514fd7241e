// Package config loads the application configuration from the environment
// and an optional .env file.
package config

import (
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"rosterbot/internal/blizzard"
	"rosterbot/internal/bot"
	"rosterbot/internal/database"
	"rosterbot/internal/logging"
	"rosterbot/internal/metrics"
	"rosterbot/internal/roster"
)

// Config holds all configuration for the application.
type Config struct {
	Discord   bot.Config      `mapstructure:"discord"`
	Blizzard  blizzard.Config `mapstructure:"blizzard"`
	Database  database.Config `mapstructure:"database"`
	Reconcile roster.Config   `mapstructure:"reconcile"`
	Log       logging.Config  `mapstructure:"log"`
	Metrics   metrics.Config  `mapstructure:"metrics"`
}

// LoadConfig loads configuration from environment variables and the .env
// file in path. Variables are named after the nested keys, e.g.
// BLIZZARD_CLIENT_ID for blizzard.client_id.
func LoadConfig(path string) (*Config, error) {
	envPath := path + "/.env"
	if path == "." || path == "" {
		envPath = ".env"
	}
	// Missing .env is fine, production passes real variables.
	_ = godotenv.Overload(envPath)

	v := viper.New()
	bindValues(v, Config{}, "")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	return &config, nil
}

// bindValues registers every mapstructure key with its default tag so that
// AutomaticEnv can find it.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		v.SetDefault(key, field.Tag.Get("default"))
	}
}
