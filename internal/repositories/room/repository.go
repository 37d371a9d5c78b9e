// Package room provides persistence for battle rooms
package room

//go:generate mockgen -destination=mock/mock_repository.go -package=roommock github.com/KirkDiggler/undead-arena/internal/repositories/room Repository

import (
	"context"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
)

// Repository defines the interface for battle room persistence
type Repository interface {
	// Create stores a new room
	// Returns errors.InvalidArgument for a missing room or id
	// Returns errors.AlreadyExists if a room with the same id exists
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Get retrieves a room by id
	// Returns errors.NotFound if the room doesn't exist
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Update replaces an existing room and refreshes the unsettled index
	// Returns errors.NotFound if the room doesn't exist
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)

	// ListByPlayer returns every room a player created or joined
	ListByPlayer(ctx context.Context, input ListByPlayerInput) (*ListByPlayerOutput, error)

	// ListUnsettled returns completed rooms with a winner that have not been settled
	ListUnsettled(ctx context.Context, input ListUnsettledInput) (*ListUnsettledOutput, error)
}

// CreateInput defines the input for creating a room
type CreateInput struct {
	Room *entities.BattleRoom
}

// CreateOutput defines the output for creating a room
type CreateOutput struct {
	Room *entities.BattleRoom
}

// GetInput defines the input for getting a room
type GetInput struct {
	RoomID entities.RoomID
}

// GetOutput defines the output for getting a room
type GetOutput struct {
	Room *entities.BattleRoom
}

// UpdateInput defines the input for updating a room
type UpdateInput struct {
	Room *entities.BattleRoom
	// Pipe, when set, receives the writes instead of running them; the
	// caller commits them with its own Exec
	Pipe redisclient.Pipeliner
}

// UpdateOutput defines the output for updating a room
type UpdateOutput struct {
	Room *entities.BattleRoom
}

// ListByPlayerInput defines the input for listing a player's rooms
type ListByPlayerInput struct {
	Player string
}

// ListByPlayerOutput defines the output for listing a player's rooms
type ListByPlayerOutput struct {
	Rooms []*entities.BattleRoom
}

// ListUnsettledInput defines the input for listing unsettled rooms
type ListUnsettledInput struct {
	// Limit caps the number of rooms returned; 0 means no limit
	Limit int
}

// ListUnsettledOutput defines the output for listing unsettled rooms
type ListUnsettledOutput struct {
	Rooms []*entities.BattleRoom
}
