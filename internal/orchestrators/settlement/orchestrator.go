// Package settlement applies the results of finished battles to warriors,
// players, the game counters and the leaderboard.
package settlement

//go:generate mockgen -destination=mock/mock_service.go -package=settlementmock github.com/KirkDiggler/undead-arena/internal/orchestrators/settlement Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
	"github.com/KirkDiggler/undead-arena/internal/pkg/keylock"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
	gamerepo "github.com/KirkDiggler/undead-arena/internal/repositories/game"
	playerrepo "github.com/KirkDiggler/undead-arena/internal/repositories/player"
	roomrepo "github.com/KirkDiggler/undead-arena/internal/repositories/room"
	warriorrepo "github.com/KirkDiggler/undead-arena/internal/repositories/warrior"
)

// Service defines the interface for battle settlement
type Service interface {
	// Settle settles one completed room
	Settle(ctx context.Context, input *SettleInput) (*SettleOutput, error)

	// SettlePending settles rooms from the unsettled index, oldest first
	SettlePending(ctx context.Context, input *SettlePendingInput) (*SettlePendingOutput, error)
}

// Config holds the dependencies for the settlement orchestrator
type Config struct {
	Engine   engine.Engine
	Rooms    roomrepo.Repository
	Warriors warriorrepo.Repository
	Players  playerrepo.Repository
	Game     gamerepo.Repository
	EventBus events.EventBus
	// Client opens the MULTI each settlement commits in. It must be the
	// client behind the repositories.
	Client redisclient.Client
	// Clock stamps profiles created for players settling their first battle
	Clock clock.Clock
	// Locks must be the Locker the battle orchestrator uses
	Locks *keylock.Locker
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	if c == nil {
		return errors.InvalidArgument("config is required")
	}

	vb := errors.NewValidationBuilder()
	if c.Engine == nil {
		vb.RequiredField("Engine")
	}
	if c.Rooms == nil {
		vb.RequiredField("Rooms")
	}
	if c.Warriors == nil {
		vb.RequiredField("Warriors")
	}
	if c.Players == nil {
		vb.RequiredField("Players")
	}
	if c.Game == nil {
		vb.RequiredField("Game")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Locks == nil {
		vb.RequiredField("Locks")
	}
	return vb.Build()
}

type orchestrator struct {
	engine   engine.Engine
	rooms    roomrepo.Repository
	warriors warriorrepo.Repository
	players  playerrepo.Repository
	game     gamerepo.Repository
	bus      events.EventBus
	client   redisclient.Client
	clock    clock.Clock
	locks    *keylock.Locker
}

// NewOrchestrator creates a new settlement orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		engine:   cfg.Engine,
		rooms:    cfg.Rooms,
		warriors: cfg.Warriors,
		players:  cfg.Players,
		game:     cfg.Game,
		bus:      cfg.EventBus,
		client:   cfg.Client,
		clock:    cfg.Clock,
		locks:    cfg.Locks,
	}, nil
}

var _ Service = (*orchestrator)(nil)

func (o *orchestrator) Settle(ctx context.Context, input *SettleInput) (*SettleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.RoomID.IsZero() {
		return nil, errors.InvalidArgument("room ID is required")
	}

	unlockRoom := o.locks.Lock(orchestrators.RoomLockKey(input.RoomID))
	defer unlockRoom()

	roomOut, err := o.rooms.Get(ctx, roomrepo.GetInput{RoomID: input.RoomID})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load room")
	}
	room := roomOut.Room
	if !room.HasPlayerB() {
		return nil, errors.FailedPrecondition("battle room has no opponent").
			WithReason(engine.ReasonOpponentNotJoined)
	}

	unlockRecords := o.locks.LockAll(
		orchestrators.WarriorLockKey(room.WarriorA),
		orchestrators.WarriorLockKey(room.WarriorB),
		orchestrators.PlayerLockKey(room.PlayerA),
		orchestrators.PlayerLockKey(room.PlayerB),
		orchestrators.GameLockKey,
	)
	defer unlockRecords()

	settleInput, err := o.loadRecords(ctx, room)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.Settle(ctx, settleInput)
	if err != nil {
		return nil, err
	}

	if err := o.persist(ctx, settleInput); err != nil {
		slog.ErrorContext(ctx, "settlement not persisted",
			"room_id", input.RoomID.String(),
			"error", err.Error())
		return nil, err
	}

	slog.DebugContext(ctx, "settlement persisted",
		"room_id", input.RoomID.String(),
		"winner", result.Winner)

	event := rpgtoolkit.NewBattleEvent(rpgtoolkit.EventBattleSettled, result.Room)
	if err := o.bus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish settlement",
			"room_id", input.RoomID.String(),
			"error", err.Error())
	}

	return &SettleOutput{Settlement: result}, nil
}

// loadRecords gathers every aggregate a settlement touches. Players without
// stored records get fresh ones.
func (o *orchestrator) loadRecords(ctx context.Context, room *entities.BattleRoom) (*engine.SettleInput, error) {
	input := &engine.SettleInput{
		RoomID: room.RoomID,
		Room:   room,
	}

	var err error
	if input.WarriorA, err = o.getWarrior(ctx, room.WarriorA); err != nil {
		return nil, err
	}
	if input.WarriorB, err = o.getWarrior(ctx, room.WarriorB); err != nil {
		return nil, err
	}
	if input.ProfileA, input.AchievementsA, err = o.getPlayer(ctx, room.PlayerA); err != nil {
		return nil, err
	}
	if input.ProfileB, input.AchievementsB, err = o.getPlayer(ctx, room.PlayerB); err != nil {
		return nil, err
	}

	configOut, err := o.game.GetConfig(ctx, gamerepo.GetConfigInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load game config")
	}
	input.Config = configOut.Config

	boardOut, err := o.game.GetLeaderboard(ctx, gamerepo.GetLeaderboardInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load leaderboard")
	}
	input.Leaderboard = boardOut.Leaderboard

	return input, nil
}

func (o *orchestrator) getWarrior(ctx context.Context, id string) (*entities.Warrior, error) {
	out, err := o.warriors.Get(ctx, warriorrepo.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load warrior %s", id)
	}
	return out.Warrior, nil
}

func (o *orchestrator) getPlayer(
	ctx context.Context,
	owner string,
) (*entities.UserProfile, *entities.UserAchievements, error) {
	out, err := o.players.Get(ctx, playerrepo.GetInput{Owner: owner})
	if err != nil {
		if errors.IsNotFound(err) {
			return entities.NewUserProfile(owner, o.clock.Now().Unix()), entities.NewUserAchievements(owner), nil
		}
		return nil, nil, errors.Wrapf(err, "failed to load player %s", owner)
	}
	return out.Profile, out.Achievements, nil
}

// persist queues every updated aggregate on one MULTI. Either all of them
// land, the room's Settled flag included, or none do and a later sweep
// settles the room from the untouched records.
func (o *orchestrator) persist(ctx context.Context, in *engine.SettleInput) error {
	pipe := o.client.TxPipeline()

	for _, w := range []*entities.Warrior{in.WarriorA, in.WarriorB} {
		if _, err := o.warriors.Update(ctx, warriorrepo.UpdateInput{Warrior: w, Pipe: pipe}); err != nil {
			return errors.Wrapf(err, "failed to save warrior %s", w.ID)
		}
	}

	players := []playerrepo.SaveInput{
		{Profile: in.ProfileA, Achievements: in.AchievementsA, Pipe: pipe},
		{Profile: in.ProfileB, Achievements: in.AchievementsB, Pipe: pipe},
	}
	for _, p := range players {
		if _, err := o.players.Save(ctx, p); err != nil {
			return errors.Wrapf(err, "failed to save player %s", p.Profile.Owner)
		}
	}

	if _, err := o.game.SaveConfig(ctx, gamerepo.SaveConfigInput{Config: in.Config, Pipe: pipe}); err != nil {
		return errors.Wrap(err, "failed to save game config")
	}
	_, err := o.game.SaveLeaderboard(ctx, gamerepo.SaveLeaderboardInput{Leaderboard: in.Leaderboard, Pipe: pipe})
	if err != nil {
		return errors.Wrap(err, "failed to save leaderboard")
	}
	if _, err := o.rooms.Update(ctx, roomrepo.UpdateInput{Room: in.Room, Pipe: pipe}); err != nil {
		return errors.Wrap(err, "failed to save room")
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to commit settlement")
	}
	return nil
}

func (o *orchestrator) SettlePending(ctx context.Context, input *SettlePendingInput) (*SettlePendingOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Limit < 0 {
		return nil, errors.InvalidArgument("limit must not be negative")
	}

	pending, err := o.rooms.ListUnsettled(ctx, roomrepo.ListUnsettledInput{Limit: input.Limit})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list unsettled rooms")
	}

	output := &SettlePendingOutput{}
	for _, room := range pending.Rooms {
		if err := ctx.Err(); err != nil {
			return output, err
		}

		result, err := o.Settle(ctx, &SettleInput{RoomID: room.RoomID})
		if err != nil {
			// another caller settled it between the listing and our lock
			if errors.GetReason(err) == engine.ReasonAlreadySettled {
				continue
			}
			slog.WarnContext(ctx, "failed to settle room",
				"room_id", room.RoomID.String(),
				"error", err.Error())
			output.Failed = append(output.Failed, FailedSettlement{RoomID: room.RoomID, Err: err})
			continue
		}
		output.Settled = append(output.Settled, result.Settlement)
	}

	slog.DebugContext(ctx, "settlement sweep finished",
		"pending", len(pending.Rooms),
		"settled", len(output.Settled),
		"failed", len(output.Failed))

	return output, nil
}
