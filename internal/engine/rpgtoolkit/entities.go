package rpgtoolkit

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// Entity types reported through core.Entity
const (
	EntityTypeRoom    = "battle_room"
	EntityTypeWarrior = "warrior"
)

// RoomEntity wraps entities.BattleRoom to implement core.Entity
type RoomEntity struct {
	*entities.BattleRoom
}

// GetID returns the hex room id
func (r *RoomEntity) GetID() string {
	return r.RoomID.String()
}

// GetType returns the entity type for rpg-toolkit
func (r *RoomEntity) GetType() string {
	return EntityTypeRoom
}

// WarriorEntity wraps entities.Warrior to implement core.Entity
type WarriorEntity struct {
	*entities.Warrior
}

// GetID returns the warrior's ID
func (w *WarriorEntity) GetID() string {
	return w.ID
}

// GetType returns the entity type for rpg-toolkit
func (w *WarriorEntity) GetType() string {
	return EntityTypeWarrior
}

// WrapRoom converts a battle room to a RoomEntity
func WrapRoom(room *entities.BattleRoom) *RoomEntity {
	return &RoomEntity{BattleRoom: room}
}

// WrapWarrior converts a warrior to a WarriorEntity
func WrapWarrior(warrior *entities.Warrior) *WarriorEntity {
	return &WarriorEntity{Warrior: warrior}
}

var (
	_ core.Entity = (*RoomEntity)(nil)
	_ core.Entity = (*WarriorEntity)(nil)
)
