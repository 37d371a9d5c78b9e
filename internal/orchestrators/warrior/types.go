package warrior

import (
	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// CreateInput creates a warrior for Actor. A zero DNA is filled from the
// ID generator.
type CreateInput struct {
	Actor string
	Name  string
	Class entities.WarriorClass
	DNA   [8]byte
}

// CreateOutput returns the new warrior and its owner's updated records
type CreateOutput struct {
	Warrior      *entities.Warrior
	Profile      *entities.UserProfile
	Achievements *entities.UserAchievements
}

// GetInput loads a warrior
type GetInput struct {
	WarriorID string
}

// GetOutput returns a warrior and whether it can battle now
type GetOutput struct {
	Warrior   *entities.Warrior
	Readiness engine.WarriorReadiness
}

// ListByOwnerInput lists a player's warriors
type ListByOwnerInput struct {
	Owner string
}

// ListByOwnerOutput returns warriors sorted by name
type ListByOwnerOutput struct {
	Warriors []*entities.Warrior
}
