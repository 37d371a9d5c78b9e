// Package testutils holds the miniredis harness and record fixtures for
// warriors, players and battle rooms.
package testutils

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/undead-arena/internal/redis"
)

// CreateTestRedisClient is CreateTestRedis for tests that never look at raw keys
func CreateTestRedisClient(t *testing.T) (redis.Client, func()) {
	client, _, cleanup := CreateTestRedis(t)
	return client, cleanup
}

// CreateTestRedis starts a miniredis for t and connects to it. The server is
// also returned so tests can inspect or corrupt stored keys directly. Calling
// cleanup early is optional; t.Cleanup closes everything regardless.
func CreateTestRedis(t *testing.T) (redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()

	mr := miniredis.RunT(t)
	client, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err, "connect to miniredis")

	cleanup := func() {
		_ = client.Close()
		mr.Close()
	}
	t.Cleanup(cleanup)

	return client, mr, cleanup
}
