// Package player provides persistence for per-player profiles and achievements
package player

//go:generate mockgen -destination=mock/mock_repository.go -package=playermock github.com/KirkDiggler/undead-arena/internal/repositories/player Repository

import (
	"context"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
)

// Repository stores a player's profile and achievements side by side
type Repository interface {
	// Get retrieves a player's records
	// Returns errors.NotFound if the player has no profile yet
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Save writes both records in one transaction
	// Returns errors.InvalidArgument if the records belong to different players
	Save(ctx context.Context, input SaveInput) (*SaveOutput, error)
}

// GetInput defines the input for getting a player's records
type GetInput struct {
	Owner string
}

// GetOutput defines the output for getting a player's records
type GetOutput struct {
	Profile      *entities.UserProfile
	Achievements *entities.UserAchievements
}

// SaveInput defines the input for saving a player's records
type SaveInput struct {
	Profile      *entities.UserProfile
	Achievements *entities.UserAchievements
	// Pipe, when set, receives the writes instead of running them
	Pipe redisclient.Pipeliner
}

// SaveOutput defines the output for saving a player's records
type SaveOutput struct{}
