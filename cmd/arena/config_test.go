package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/undead-arena/internal/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (s *ConfigTestSuite) TestDefaults() {
	c, err := loadConfig()
	s.Require().NoError(err)
	s.Equal("localhost:6379", c.RedisAddr)
	s.Empty(c.ArchivePath)
	s.Equal(time.Hour, c.Cooldown)
	s.Equal(30*time.Second, c.SweepInterval)
	s.Equal(100, c.SweepLimit)
	s.Equal(720*time.Hour, c.ArchiveRetention)
	s.Equal("text", c.LogFormat)
}

func (s *ConfigTestSuite) TestOverrides() {
	s.T().Setenv("ARENA_REDIS_ADDR", "redis:6380")
	s.T().Setenv("ARENA_ADMIN", "root")
	s.T().Setenv("ARENA_COOLDOWN", "90s")
	s.T().Setenv("ARENA_ARCHIVE_PATH", "/var/lib/arena/archive.db")
	s.T().Setenv("ARENA_LOG_FORMAT", " JSON ")

	c, err := loadConfig()
	s.Require().NoError(err)
	s.Equal("redis:6380", c.RedisAddr)
	s.Equal("root", c.Admin)
	s.Equal(90*time.Second, c.Cooldown)
	s.Equal("/var/lib/arena/archive.db", c.ArchivePath)
	s.Equal("json", c.LogFormat)
}

func (s *ConfigTestSuite) TestInvalid() {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "negative cooldown", key: "ARENA_COOLDOWN", value: "-1s"},
		{name: "zero sweep interval", key: "ARENA_SWEEP_INTERVAL", value: "0s"},
		{name: "negative sweep limit", key: "ARENA_SWEEP_LIMIT", value: "-3"},
		{name: "unknown log format", key: "ARENA_LOG_FORMAT", value: "xml"},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.T().Setenv(tc.key, tc.value)
			_, err := loadConfig()
			s.Require().Error(err)
			s.True(errors.IsInvalidArgument(err))
		})
	}
}

func (s *ConfigTestSuite) TestArchiveSettingsOnlyCheckedWhenArchiving() {
	s.T().Setenv("ARENA_ARCHIVE_RETENTION", "0s")
	_, err := loadConfig()
	s.Require().NoError(err)

	s.T().Setenv("ARENA_ARCHIVE_PATH", "archive.db")
	_, err = loadConfig()
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ConfigTestSuite) TestUnparseableDuration() {
	s.T().Setenv("ARENA_COOLDOWN", "soon")
	_, err := loadConfig()
	s.Require().Error(err)
	s.Contains(err.Error(), "parse env")
}

func (s *ConfigTestSuite) TestSetupLogging() {
	s.NoError(setupLogging(&Config{LogLevel: "debug", LogFormat: "json"}))
	s.NoError(setupLogging(&Config{LogLevel: "WARN", LogFormat: "text"}))
	s.Error(setupLogging(&Config{LogLevel: "chatty", LogFormat: "text"}))
}
