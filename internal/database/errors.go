package database

import (
	"errors"
	"fmt"

	"rosterbot/internal/roster"
)

var ErrInvalidRank = fmt.Errorf("rank must be between %d and %d", roster.MinRank, roster.MaxRank)

var ErrUnknownDriver = errors.New("unknown database driver")
