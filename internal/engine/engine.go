package engine

import (
	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/undead-arena/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
)

// RollerFactory builds the dice roller used for one warrior's stats
type RollerFactory func(seed [32]byte) dice.Roller

// Config holds the engine dependencies
type Config struct {
	Clock clock.Clock
	// NewRoller defaults to a rpgtoolkit.HashRoller so stats are reproducible
	NewRoller RollerFactory
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

type engine struct {
	clock     clock.Clock
	newRoller RollerFactory
}

// New creates the arena engine
func New(cfg *Config) (Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	newRoller := cfg.NewRoller
	if newRoller == nil {
		newRoller = func(seed [32]byte) dice.Roller {
			return rpgtoolkit.NewHashRoller(seed)
		}
	}

	return &engine{
		clock:     cfg.Clock,
		newRoller: newRoller,
	}, nil
}

func (e *engine) now() int64 {
	return e.clock.Now().Unix()
}
