// Package rpgtoolkit binds the arena engine to rpg-toolkit: a deterministic
// dice.Roller, core.Entity wrappers for arena records, and the battle events
// published on the toolkit event bus.
package rpgtoolkit

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// HashRoller is a dice.Roller whose results are a pure function of its seed
// and the number of dice rolled so far. Two rollers built from the same seed
// produce the same sequence.
type HashRoller struct {
	mu      sync.Mutex
	seed    [32]byte
	counter uint64
}

var _ dice.Roller = (*HashRoller)(nil)

// NewHashRoller creates a roller for seed
func NewHashRoller(seed [32]byte) *HashRoller {
	return &HashRoller{seed: seed}
}

// Roll returns a value in [1, size]
func (r *HashRoller) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size: %d", size)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.next(size), nil
}

// RollN rolls count dice of the given size
func (r *HashRoller) RollN(count, size int) ([]int, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid die size: %d", size)
	}
	if count < 0 {
		return nil, fmt.Errorf("invalid die count: %d", count)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	results := make([]int, count)
	for i := range results {
		results[i] = r.next(size)
	}
	return results, nil
}

func (r *HashRoller) next(size int) int {
	buf := make([]byte, len(r.seed)+8)
	copy(buf, r.seed[:])
	binary.LittleEndian.PutUint64(buf[len(r.seed):], r.counter)
	r.counter++

	sum := sha256.Sum256(buf)
	return int(binary.LittleEndian.Uint32(sum[:4])%uint32(size)) + 1
}
