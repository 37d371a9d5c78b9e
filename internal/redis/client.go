// Package redis holds the connection setup shared by every arena repository.
// Repositories take the Client interface so tests can hand them miniredis.
package redis

import (
	"context"
	"crypto/tls"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/undead-arena/internal/errors"
)

// Options mirrors the ARENA_REDIS_* settings. The zero value talks plaintext
// to database 0 with go-redis pool defaults.
type Options struct {
	DB       int
	Password string
	PoolSize int
	UseTLS   bool
}

// NewClient builds a single-node client without touching the network
func NewClient(addr string, opts *Options) (Client, error) {
	if addr == "" {
		return nil, errors.InvalidArgument("redis: address is required")
	}
	if opts == nil {
		opts = &Options{}
	}

	ro := &redis.Options{
		Addr:     addr,
		DB:       opts.DB,
		Password: opts.Password,
		PoolSize: opts.PoolSize,
	}
	if opts.UseTLS {
		ro.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	return redis.NewClient(ro), nil
}

// Connect is NewClient followed by a ping. The client is closed again when
// the server does not answer.
func Connect(ctx context.Context, addr string, opts *Options) (Client, error) {
	client, err := NewClient(addr, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "redis: ping "+addr)
	}
	return client, nil
}

// Queue puts writes on pipe when the caller passed one, so they commit with
// the caller's other writes on its Exec. With a nil pipe the writes run in a
// MULTI of their own.
func Queue(ctx context.Context, client Client, pipe Pipeliner, writes func(Pipeliner)) error {
	if pipe != nil {
		writes(pipe)
		return nil
	}
	tx := client.TxPipeline()
	writes(tx)
	_, err := tx.Exec(ctx)
	return err
}
