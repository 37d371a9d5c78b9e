// Package warrior provides persistence for warriors
package warrior

//go:generate mockgen -destination=mock/mock_repository.go -package=warriormock github.com/KirkDiggler/undead-arena/internal/repositories/warrior Repository

import (
	"context"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
)

// Repository defines the interface for warrior persistence
type Repository interface {
	// Create stores a new warrior
	// Returns errors.AlreadyExists if the owner already has a warrior with that name
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a warrior by id
	// Returns errors.NotFound if the warrior doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing warrior
	// Returns errors.NotFound if the warrior doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListByOwner retrieves all warriors of a player
	ListByOwner(ctx context.Context, input ListByOwnerInput) (*ListByOwnerOutput, error)
}

// CreateInput defines the input for creating a warrior
type CreateInput struct {
	Warrior *entities.Warrior
}

// CreateOutput defines the output for creating a warrior
type CreateOutput struct {
	Warrior *entities.Warrior
}

// GetInput defines the input for getting a warrior
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a warrior
type GetOutput struct {
	Warrior *entities.Warrior
}

// UpdateInput defines the input for updating a warrior
type UpdateInput struct {
	Warrior *entities.Warrior
	// Pipe, when set, receives the write instead of running it
	Pipe redisclient.Pipeliner
}

// UpdateOutput defines the output for updating a warrior
type UpdateOutput struct {
	Warrior *entities.Warrior
}

// ListByOwnerInput defines the input for listing a player's warriors
type ListByOwnerInput struct {
	Owner string
}

// ListByOwnerOutput defines the output for listing a player's warriors
type ListByOwnerOutput struct {
	Warriors []*entities.Warrior
}
