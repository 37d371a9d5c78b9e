package game

import (
	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// InitializeInput creates the game config. CooldownTime is in seconds.
type InitializeInput struct {
	Admin        string
	CooldownTime int64
}

// InitializeOutput returns the stored config
type InitializeOutput struct {
	Config *entities.GameConfig
}

// GetConfigInput loads the game config
type GetConfigInput struct{}

// GetConfigOutput returns the game config
type GetConfigOutput struct {
	Config *entities.GameConfig
}

// UpdateConfigInput changes admin settings. Nil fields are left unchanged.
type UpdateConfigInput struct {
	Actor        string
	IsPaused     *bool
	CooldownTime *int64
}

// UpdateConfigOutput returns the updated config
type UpdateConfigOutput struct {
	Config *entities.GameConfig
}

// GetLeaderboardInput reads the top of the board. Zero Limit means every
// occupied slot.
type GetLeaderboardInput struct {
	Limit int
}

// GetLeaderboardOutput lists occupied slots in rank order
type GetLeaderboardOutput struct {
	Entries     []entities.LeaderboardEntry
	LastUpdated int64
}

// GetPlayerInput loads a player's records
type GetPlayerInput struct {
	Owner string
}

// GetPlayerOutput returns a player's profile, achievements and board rank.
// Rank is 0 when the player is off the board.
type GetPlayerOutput struct {
	Profile      *entities.UserProfile
	Achievements *entities.UserAchievements
	Rank         int
}
