package rpgtoolkit

import (
	"context"
	"testing"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/undead-arena/internal/entities"
)

func TestHashRollerIsDeterministic(t *testing.T) {
	seed := [32]byte{1, 2, 3}

	a, err := NewHashRoller(seed).RollN(50, 20)
	require.NoError(t, err)
	b, err := NewHashRoller(seed).RollN(50, 20)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	for _, v := range a {
		assert.GreaterOrEqual(t, v, 1)
		assert.LessOrEqual(t, v, 20)
	}

	other, err := NewHashRoller([32]byte{9}).RollN(50, 20)
	require.NoError(t, err)
	assert.NotEqual(t, a, other)
}

func TestHashRollerSequenceAdvances(t *testing.T) {
	r := NewHashRoller([32]byte{7})
	first, err := r.Roll(1000)
	require.NoError(t, err)

	replay := NewHashRoller([32]byte{7})
	all, err := replay.RollN(2, 1000)
	require.NoError(t, err)
	assert.Equal(t, first, all[0])

	second, err := r.Roll(1000)
	require.NoError(t, err)
	assert.Equal(t, all[1], second)
}

func TestHashRollerRejectsBadSizes(t *testing.T) {
	r := NewHashRoller([32]byte{})

	_, err := r.Roll(0)
	assert.Error(t, err)

	_, err = r.RollN(2, -1)
	assert.Error(t, err)

	_, err = r.RollN(-1, 6)
	assert.Error(t, err)
}

func TestEntityWrappers(t *testing.T) {
	room := &entities.BattleRoom{RoomID: entities.NewRoomID("room_1")}
	roomEntity := WrapRoom(room)
	assert.Equal(t, room.RoomID.String(), roomEntity.GetID())
	assert.Equal(t, EntityTypeRoom, roomEntity.GetType())

	warrior := &entities.Warrior{ID: entities.WarriorID("alice", "ghoul")}
	warriorEntity := WrapWarrior(warrior)
	assert.Equal(t, "alice:ghoul", warriorEntity.GetID())
	assert.Equal(t, EntityTypeWarrior, warriorEntity.GetType())
}

func TestBattleEventRoundTripOnBus(t *testing.T) {
	bus := events.NewBus()
	room := &entities.BattleRoom{
		RoomID: entities.NewRoomID("room_1"),
		State:  entities.BattleStateCompleted,
		Winner: "alice",
	}

	var received *entities.BattleRoom
	bus.SubscribeFunc(EventBattleCompleted, 0, func(_ context.Context, event events.Event) error {
		got, ok := RoomFromEvent(event)
		require.True(t, ok)
		received = got
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), NewBattleEvent(EventBattleCompleted, room)))
	room.Winner = "mutated"

	require.NotNil(t, received)
	assert.Equal(t, "alice", received.Winner)
	assert.Equal(t, room.RoomID, received.RoomID)
}

func TestRoomFromEventRejectsOtherSources(t *testing.T) {
	warrior := WrapWarrior(&entities.Warrior{ID: "alice:ghoul"})
	_, ok := RoomFromEvent(events.NewGameEvent(EventBattleCompleted, warrior, nil))
	assert.False(t, ok)

	_, ok = RoomFromEvent(nil)
	assert.False(t, ok)
}
