// Package checkpoint keeps a durable SQLite archive of finished battle rooms
// and the warriors that fought in them. The archive is advisory: the Redis
// records stay authoritative and nothing reads the archive back into play.
package checkpoint

//go:generate mockgen -destination=mock/mock_archive.go -package=checkpointmock github.com/KirkDiggler/undead-arena/internal/checkpoint Archive

import (
	"context"

	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// Archive stores room checkpoints
type Archive interface {
	// Record upserts a room and its warrior snapshots
	Record(ctx context.Context, input RecordInput) (*RecordOutput, error)

	// Get loads one checkpoint
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListRecent returns checkpoints, most recently archived first
	ListRecent(ctx context.Context, input ListRecentInput) (*ListRecentOutput, error)

	// Prune deletes checkpoints archived before a cutoff
	Prune(ctx context.Context, input PruneInput) (*PruneOutput, error)

	// Close releases the underlying database
	Close() error
}

// Checkpoint is one archived room
type Checkpoint struct {
	Room       *entities.BattleRoom
	Warriors   []*entities.Warrior
	ArchivedAt int64
}

// RecordInput defines the input for recording a checkpoint
type RecordInput struct {
	Room     *entities.BattleRoom
	Warriors []*entities.Warrior
}

// RecordOutput defines the output for recording a checkpoint
type RecordOutput struct {
	Checkpoint *Checkpoint
}

// GetInput defines the input for loading a checkpoint
type GetInput struct {
	RoomID entities.RoomID
}

// GetOutput defines the output for loading a checkpoint
type GetOutput struct {
	Checkpoint *Checkpoint
}

// ListRecentInput defines the input for listing checkpoints
type ListRecentInput struct {
	Limit int
}

// ListRecentOutput defines the output for listing checkpoints. Warrior
// snapshots are not loaded.
type ListRecentOutput struct {
	Checkpoints []*Checkpoint
}

// PruneInput deletes everything archived strictly before Before (unix seconds)
type PruneInput struct {
	Before int64
}

// PruneOutput reports how many rooms were deleted
type PruneOutput struct {
	Deleted int64
}
