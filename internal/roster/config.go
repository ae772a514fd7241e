package roster

import "time"

// Config holds the reconciliation settings.
type Config struct {
	Interval  time.Duration `mapstructure:"interval" default:"5m"`
	BatchSize int           `mapstructure:"batch_size" default:"10"`
	// KeyMode is name (one entry per character name) or name_realm.
	KeyMode string `mapstructure:"key_mode" default:"name"`
}

// Options translates the config into reconciler options.
func (c Config) Options() ([]Option, error) {
	mode, err := ParseKeyMode(c.KeyMode)
	if err != nil {
		return nil, err
	}
	return []Option{WithKeyMode(mode), WithBatchSize(c.BatchSize)}, nil
}
