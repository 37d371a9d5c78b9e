// Package game provides persistence for the process-wide game config and leaderboard
package game

//go:generate mockgen -destination=mock/mock_repository.go -package=gamemock github.com/KirkDiggler/undead-arena/internal/repositories/game Repository

import (
	"context"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
)

// Repository stores the singleton game records
type Repository interface {
	// CreateConfig stores the initial config
	// Returns errors.AlreadyExists if the game was already initialized
	CreateConfig(ctx context.Context, input CreateConfigInput) (*CreateConfigOutput, error)

	// GetConfig retrieves the config
	// Returns errors.NotFound if the game was never initialized
	GetConfig(ctx context.Context, input GetConfigInput) (*GetConfigOutput, error)

	// SaveConfig overwrites the config
	SaveConfig(ctx context.Context, input SaveConfigInput) (*SaveConfigOutput, error)

	// GetLeaderboard retrieves the leaderboard; an empty board is returned when none was saved
	GetLeaderboard(ctx context.Context, input GetLeaderboardInput) (*GetLeaderboardOutput, error)

	// SaveLeaderboard overwrites the leaderboard
	SaveLeaderboard(ctx context.Context, input SaveLeaderboardInput) (*SaveLeaderboardOutput, error)
}

// CreateConfigInput defines the input for creating the config
type CreateConfigInput struct {
	Config *entities.GameConfig
}

// CreateConfigOutput defines the output for creating the config
type CreateConfigOutput struct {
	Config *entities.GameConfig
}

// GetConfigInput defines the input for getting the config
type GetConfigInput struct{}

// GetConfigOutput defines the output for getting the config
type GetConfigOutput struct {
	Config *entities.GameConfig
}

// SaveConfigInput defines the input for saving the config
type SaveConfigInput struct {
	Config *entities.GameConfig
	// Pipe, when set, receives the write instead of running it
	Pipe redisclient.Pipeliner
}

// SaveConfigOutput defines the output for saving the config
type SaveConfigOutput struct{}

// GetLeaderboardInput defines the input for getting the leaderboard
type GetLeaderboardInput struct{}

// GetLeaderboardOutput defines the output for getting the leaderboard
type GetLeaderboardOutput struct {
	Leaderboard *entities.Leaderboard
}

// SaveLeaderboardInput defines the input for saving the leaderboard
type SaveLeaderboardInput struct {
	Leaderboard *entities.Leaderboard
	// Pipe, when set, receives the write instead of running it
	Pipe redisclient.Pipeliner
}

// SaveLeaderboardOutput defines the output for saving the leaderboard
type SaveLeaderboardOutput struct{}
