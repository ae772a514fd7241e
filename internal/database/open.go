package database

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Open returns the store selected by cfg.Driver.
func Open(cfg Config, defaultRegion string) (Settings, error) {
	switch cfg.Driver {
	case "", "memory":
		log.Warn().Msg("Using the in-memory store, settings and snapshots are lost on restart")
		return NewMemoryStore(defaultRegion), nil
	case "mysql":
		db, err := Connect(cfg)
		if err != nil {
			return nil, err
		}
		log.Info().Str("host", cfg.Host).Str("name", cfg.Name).Msg("Connected to database")
		return NewStore(db, defaultRegion), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
	}
}
