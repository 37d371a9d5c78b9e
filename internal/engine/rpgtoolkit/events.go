package rpgtoolkit

import (
	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// Event types published on the toolkit bus
const (
	// EventBattleCompleted fires once a room reaches the completed state,
	// by elimination, by the final question, or by emergency termination.
	EventBattleCompleted = "arena.battle.completed"

	// EventBattleSettled fires after settlement has been persisted
	EventBattleSettled = "arena.battle.settled"
)

// NewBattleEvent builds an event whose source is a snapshot of room, so
// subscribers never observe later mutations of the caller's copy.
func NewBattleEvent(eventType string, room *entities.BattleRoom) events.Event {
	snapshot := *room
	return events.NewGameEvent(eventType, WrapRoom(&snapshot), nil)
}

// RoomFromEvent extracts the room carried by a battle event
func RoomFromEvent(event events.Event) (*entities.BattleRoom, bool) {
	if event == nil {
		return nil, false
	}
	entity, ok := event.Source().(*RoomEntity)
	if !ok || entity == nil || entity.BattleRoom == nil {
		return nil, false
	}
	return entity.BattleRoom, true
}
