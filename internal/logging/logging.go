// Package logging configures the global zerolog logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds configuration for the logger.
type Config struct {
	// Level is one of trace, debug, info, warn, error.
	Level string `mapstructure:"level" default:"info"`
	// Format is console for humans, json otherwise.
	Format string `mapstructure:"format" default:"console"`
}

// Setup installs the global logger described by cfg.
func Setup(cfg Config) error {
	return setup(cfg, os.Stderr)
}

func setup(cfg Config, out io.Writer) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	switch strings.ToLower(cfg.Format) {
	case "", "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.DateTime}
	case "json":
	default:
		return fmt.Errorf("unknown log format %q", cfg.Format)
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
	return nil
}
