package engine

import (
	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// CreateWarriorInput creates a warrior for Actor. Profile and Achievements
// may be nil for a first-time player; fresh records are returned.
type CreateWarriorInput struct {
	Actor        string
	Name         string
	DNA          [8]byte
	Class        entities.WarriorClass
	Profile      *entities.UserProfile
	Achievements *entities.UserAchievements
	Config       *entities.GameConfig
}

// CreateWarriorOutput returns the new warrior and the updated aggregates
type CreateWarriorOutput struct {
	Warrior      *entities.Warrior
	Profile      *entities.UserProfile
	Achievements *entities.UserAchievements
	Config       *entities.GameConfig
}

// CreateRoomInput opens a room with a fixed question set
type CreateRoomInput struct {
	Actor             string
	RoomID            entities.RoomID
	Warrior           *entities.Warrior
	SelectedConcepts  [entities.ConceptCount]uint8
	SelectedTopics    [entities.QuestionCount]uint8
	SelectedQuestions [entities.QuestionCount]uint16
	CorrectAnswers    [entities.QuestionCount]bool
	// Config is optional; when set, a paused game rejects new rooms
	Config *entities.GameConfig
	// LiveRoom is another non-terminal room the warrior already sits in, zero when none
	LiveRoom entities.RoomID
}

// CreateRoomOutput returns the new room
type CreateRoomOutput struct {
	Room *entities.BattleRoom
}

// JoinRoomInput fills the second slot of a room
type JoinRoomInput struct {
	Actor   string
	RoomID  entities.RoomID
	Room    *entities.BattleRoom
	Warrior *entities.Warrior
	// LiveRoom is another non-terminal room the warrior already sits in, zero when none
	LiveRoom entities.RoomID
}

// JoinRoomOutput returns the joined room
type JoinRoomOutput struct {
	Room *entities.BattleRoom
}

// SignalReadyInput marks Actor ready
type SignalReadyInput struct {
	Actor    string
	RoomID   entities.RoomID
	Room     *entities.BattleRoom
	WarriorA *entities.Warrior
	WarriorB *entities.Warrior
}

// SignalReadyOutput reports whether both players are now ready
type SignalReadyOutput struct {
	Room      *entities.BattleRoom
	WarriorA  *entities.Warrior
	WarriorB  *entities.Warrior
	BothReady bool
}

// StartBattleInput moves a prepared room into play
type StartBattleInput struct {
	Actor    string
	RoomID   entities.RoomID
	Room     *entities.BattleRoom
	WarriorA *entities.Warrior
	WarriorB *entities.Warrior
}

// StartBattleOutput returns the started room
type StartBattleOutput struct {
	Room *entities.BattleRoom
}

// AnswerQuestionInput submits Actor's answer to the current question
type AnswerQuestionInput struct {
	Actor    string
	RoomID   entities.RoomID
	Room     *entities.BattleRoom
	WarriorA *entities.Warrior
	WarriorB *entities.Warrior
	Answer   bool
	Seed     uint8
}

// AnswerQuestionOutput reports the effect of an answer. Round is nil when
// the opponent has not answered yet.
type AnswerQuestionOutput struct {
	Room     *entities.BattleRoom
	WarriorA *entities.Warrior
	WarriorB *entities.Warrior
	Round    *RoundResult
}

// Revealed reports whether the answer completed the question
func (o *AnswerQuestionOutput) Revealed() bool {
	return o.Round != nil
}

// RoundResult describes one revealed question
type RoundResult struct {
	Question       uint8
	Phase          Phase
	PlayerACorrect bool
	PlayerBCorrect bool
	// DamageToB is set when player A answered correctly
	DamageToB *DamageResult
	// DamageToA is set when player B answered correctly and B was still standing
	DamageToA *DamageResult
	Completed bool
	// Elimination is true when the battle ended because a warrior hit 0 HP
	Elimination bool
	Winner      string
}

// CancelRoomInput cancels a room before it starts. WarriorB is nil when
// nobody has joined.
type CancelRoomInput struct {
	Actor    string
	RoomID   entities.RoomID
	Room     *entities.BattleRoom
	WarriorA *entities.Warrior
	WarriorB *entities.Warrior
}

// CancelRoomOutput returns the cancelled room
type CancelRoomOutput struct {
	Room     *entities.BattleRoom
	WarriorA *entities.Warrior
	WarriorB *entities.Warrior
}

// EmergencyTerminateInput ends a room with no contest. WarriorB is nil when
// nobody has joined.
type EmergencyTerminateInput struct {
	Actor    string
	RoomID   entities.RoomID
	Room     *entities.BattleRoom
	WarriorA *entities.Warrior
	WarriorB *entities.Warrior
	Config   *entities.GameConfig
}

// EmergencyTerminateOutput returns the terminated room
type EmergencyTerminateOutput struct {
	Room     *entities.BattleRoom
	WarriorA *entities.Warrior
	WarriorB *entities.Warrior
}

// SettleInput carries the finished room and every aggregate settlement touches
type SettleInput struct {
	RoomID        entities.RoomID
	Room          *entities.BattleRoom
	WarriorA      *entities.Warrior
	WarriorB      *entities.Warrior
	ProfileA      *entities.UserProfile
	ProfileB      *entities.UserProfile
	AchievementsA *entities.UserAchievements
	AchievementsB *entities.UserAchievements
	Config        *entities.GameConfig
	Leaderboard   *entities.Leaderboard
}

// SettleOutput summarizes a settlement
type SettleOutput struct {
	Room        *entities.BattleRoom
	Winner      string
	Loser       string
	WinnerXP    uint64
	LoserXP     uint64
	Elimination bool
	// WinnerRank and LoserRank are 1-based leaderboard positions, 0 when off the board
	WinnerRank int
	LoserRank  int
	WarriorA   WarriorReadiness
	WarriorB   WarriorReadiness
}

// WarriorReadiness reports whether a warrior can enter a new room
type WarriorReadiness struct {
	WarriorID         string
	CurrentHP         uint16
	MaxHP             uint16
	CooldownRemaining int64
	Ready             bool
}

// Readiness reports w's cooldown state at now (unix seconds)
func Readiness(w *entities.Warrior, now int64) WarriorReadiness {
	remaining := w.CooldownExpiresAt - now
	if remaining < 0 {
		remaining = 0
	}
	return WarriorReadiness{
		WarriorID:         w.ID,
		CurrentHP:         w.CurrentHP,
		MaxHP:             w.MaxHP,
		CooldownRemaining: remaining,
		Ready:             remaining == 0 && w.CurrentHP > 0,
	}
}
