// Package engine implements the arena's battle rules: warrior stat
// generation, the battle room state machine, deterministic damage and
// post-battle settlement.
//
// The engine works on records that the caller has already loaded. It checks
// every precondition before touching anything, so a failed call leaves the
// records unchanged. It never blocks and never persists; orchestrators own
// storage and serialization.
package engine

//go:generate mockgen -destination=mock/mock_engine.go -package=enginemock github.com/KirkDiggler/undead-arena/internal/engine Engine

import (
	"context"
)

// Engine provides the arena game rules
type Engine interface {
	// Warriors
	CreateWarrior(ctx context.Context, input *CreateWarriorInput) (*CreateWarriorOutput, error)

	// Battle room lifecycle
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)
	SignalReady(ctx context.Context, input *SignalReadyInput) (*SignalReadyOutput, error)
	StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error)
	AnswerQuestion(ctx context.Context, input *AnswerQuestionInput) (*AnswerQuestionOutput, error)
	CancelRoom(ctx context.Context, input *CancelRoomInput) (*CancelRoomOutput, error)
	EmergencyTerminate(ctx context.Context, input *EmergencyTerminateInput) (*EmergencyTerminateOutput, error)

	// Settlement
	Settle(ctx context.Context, input *SettleInput) (*SettleOutput, error)
}
