// Package orchestrators holds what the arena orchestrators share: the lock
// keys that serialize work on stored records.
//
// Locks are always taken in this order: the room, then one LockAll over
// every warrior, player and game key the operation needs. LockAll sorts its
// keys, so two operations can only ever wait on each other in one direction.
package orchestrators

import (
	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// GameLockKey guards the game config and the leaderboard
const GameLockKey = "game"

// RoomLockKey guards a battle room
func RoomLockKey(id entities.RoomID) string {
	return "room:" + id.String()
}

// WarriorLockKey guards a warrior. An empty id yields an empty key, which
// keylock ignores.
func WarriorLockKey(id string) string {
	if id == "" {
		return ""
	}
	return "warrior:" + id
}

// PlayerLockKey guards a player's profile and achievements
func PlayerLockKey(owner string) string {
	if owner == "" {
		return ""
	}
	return "player:" + owner
}
