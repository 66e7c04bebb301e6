package session

import (
	"fmt"
	"strings"

	"github.com/abhisek/adaptiq/internal/attempt"
	"github.com/abhisek/adaptiq/internal/difficulty"
)

const (
	// DefaultRounds is used when no round count is given.
	DefaultRounds = 5

	// MaxRounds bounds a single session.
	MaxRounds = 100
)

// Config describes one session.
type Config struct {
	User        string
	Rounds      int
	InitialTier difficulty.Tier
	ExportDir   string

	// Strategy labels the decider in stored events, e.g. "rule".
	Strategy string
}

// Normalize fills defaults and rejects values a session cannot run with.
func (c *Config) Normalize() error {
	c.User = strings.TrimSpace(c.User)
	if c.User == "" {
		c.User = attempt.DefaultUser
	}
	if c.Rounds <= 0 {
		c.Rounds = DefaultRounds
	}
	if c.Rounds > MaxRounds {
		return fmt.Errorf("rounds %d exceeds maximum of %d", c.Rounds, MaxRounds)
	}
	if !c.InitialTier.Valid() {
		return fmt.Errorf("initial tier %d: %w", int(c.InitialTier), difficulty.ErrInvalidTier)
	}
	if c.ExportDir == "" {
		c.ExportDir = attempt.DefaultExportDir
	}
	if c.Strategy == "" {
		c.Strategy = "rule"
	}
	return nil
}
