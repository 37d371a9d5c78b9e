package battle

import (
	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// CreateRoomInput opens a room. RoomID may be left zero to have one generated.
type CreateRoomInput struct {
	Actor             string
	WarriorID         string
	RoomID            entities.RoomID
	SelectedConcepts  [entities.ConceptCount]uint8
	SelectedTopics    [entities.QuestionCount]uint8
	SelectedQuestions [entities.QuestionCount]uint16
	CorrectAnswers    [entities.QuestionCount]bool
}

// CreateRoomOutput returns the stored room
type CreateRoomOutput struct {
	Room *entities.BattleRoom
}

// JoinRoomInput joins Actor's warrior to a room
type JoinRoomInput struct {
	Actor     string
	RoomID    entities.RoomID
	WarriorID string
}

// JoinRoomOutput returns the joined room
type JoinRoomOutput struct {
	Room *entities.BattleRoom
}

// SignalReadyInput marks Actor ready in a room
type SignalReadyInput struct {
	Actor  string
	RoomID entities.RoomID
}

// SignalReadyOutput reports the room and whether both players are ready
type SignalReadyOutput struct {
	Room      *entities.BattleRoom
	BothReady bool
}

// StartBattleInput starts a prepared room
type StartBattleInput struct {
	Actor  string
	RoomID entities.RoomID
}

// StartBattleOutput returns the started room
type StartBattleOutput struct {
	Room *entities.BattleRoom
}

// AnswerQuestionInput submits an answer for the current question
type AnswerQuestionInput struct {
	Actor  string
	RoomID entities.RoomID
	Answer bool
	Seed   uint8
}

// AnswerQuestionOutput carries the updated records and the revealed round, if any
type AnswerQuestionOutput struct {
	Room     *entities.BattleRoom
	WarriorA *entities.Warrior
	WarriorB *entities.Warrior
	Round    *engine.RoundResult
}

// CancelRoomInput cancels a room that has not started
type CancelRoomInput struct {
	Actor  string
	RoomID entities.RoomID
}

// CancelRoomOutput returns the cancelled room
type CancelRoomOutput struct {
	Room *entities.BattleRoom
}

// EmergencyTerminateInput ends a room with no contest
type EmergencyTerminateInput struct {
	Actor  string
	RoomID entities.RoomID
}

// EmergencyTerminateOutput returns the terminated room
type EmergencyTerminateOutput struct {
	Room *entities.BattleRoom
}

// GetRoomInput loads a room
type GetRoomInput struct {
	RoomID entities.RoomID
}

// GetRoomOutput returns a room
type GetRoomOutput struct {
	Room *entities.BattleRoom
}

// ListRoomsInput lists the rooms a player created or joined
type ListRoomsInput struct {
	Player string
}

// ListRoomsOutput returns a player's rooms, oldest first
type ListRoomsOutput struct {
	Rooms []*entities.BattleRoom
}
