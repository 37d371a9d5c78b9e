// Package idgen produces the opaque seeds that get hashed into warrior DNA
// and battle room ids.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

//go:generate mockgen -destination=mock/mock.go -package=idgenmock github.com/KirkDiggler/undead-arena/internal/pkg/idgen Generator

// Generator hands out a fresh seed on every call
type Generator interface {
	Generate() string
}

// Sequential counts up from 1. Deterministic, so tests and replays use it.
type Sequential struct {
	prefix string
	n      atomic.Uint64
}

func NewSequential(prefix string) *Sequential {
	return &Sequential{prefix: prefix}
}

func (g *Sequential) Generate() string {
	return withPrefix(g.prefix, strconv.FormatUint(g.n.Add(1), 10))
}

// UUID draws a random v4 uuid per call
type UUID struct {
	prefix string
}

func NewUUID(prefix string) *UUID {
	return &UUID{prefix: prefix}
}

func (g *UUID) Generate() string {
	return withPrefix(g.prefix, uuid.NewString())
}

func withPrefix(prefix, body string) string {
	if prefix == "" {
		return body
	}
	return prefix + "_" + body
}
