package settlement

import (
	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// SettleInput names the room to settle
type SettleInput struct {
	RoomID entities.RoomID
}

// SettleOutput carries the applied settlement
type SettleOutput struct {
	Settlement *engine.SettleOutput
}

// SettlePendingInput bounds one sweep over unsettled rooms. Zero Limit
// means every pending room.
type SettlePendingInput struct {
	Limit int
}

// SettlePendingOutput reports a sweep
type SettlePendingOutput struct {
	Settled []*engine.SettleOutput
	Failed  []FailedSettlement
}

// FailedSettlement is a room the sweep could not settle
type FailedSettlement struct {
	RoomID entities.RoomID
	Err    error
}
