package main

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/KirkDiggler/undead-arena/internal/errors"
)

// Config is read from the environment, after an optional .env file
type Config struct {
	RedisAddr     string `env:"ARENA_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"ARENA_REDIS_PASSWORD"`
	RedisDB       int    `env:"ARENA_REDIS_DB" envDefault:"0"`

	// ArchivePath is the SQLite checkpoint database; unset disables archiving
	ArchivePath      string        `env:"ARENA_ARCHIVE_PATH"`
	ArchiveRetention time.Duration `env:"ARENA_ARCHIVE_RETENTION" envDefault:"720h"`

	Admin    string        `env:"ARENA_ADMIN"`
	Cooldown time.Duration `env:"ARENA_COOLDOWN" envDefault:"1h"`

	SweepInterval time.Duration `env:"ARENA_SWEEP_INTERVAL" envDefault:"30s"`
	SweepLimit    int           `env:"ARENA_SWEEP_LIMIT" envDefault:"100"`
	PruneInterval time.Duration `env:"ARENA_PRUNE_INTERVAL" envDefault:"1h"`

	LogLevel  string `env:"ARENA_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"ARENA_LOG_FORMAT" envDefault:"text"`
}

// Validate checks values env cannot express in tags
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("ARENA_REDIS_ADDR", c.RedisAddr, vb)
	errors.ValidateNonNegative("ARENA_COOLDOWN", c.Cooldown, vb)
	errors.ValidatePositive("ARENA_SWEEP_INTERVAL", c.SweepInterval, vb)
	errors.ValidateNonNegative("ARENA_SWEEP_LIMIT", c.SweepLimit, vb)
	if c.ArchivePath != "" {
		errors.ValidatePositive("ARENA_PRUNE_INTERVAL", c.PruneInterval, vb)
		errors.ValidatePositive("ARENA_ARCHIVE_RETENTION", c.ArchiveRetention, vb)
	}
	errors.ValidateEnum("ARENA_LOG_FORMAT", c.LogFormat, []string{"text", "json"}, vb)
	return vb.Build()
}

func loadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return c, nil
}

func setupLogging(c *Config) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("ARENA_LOG_LEVEL: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if c.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}
