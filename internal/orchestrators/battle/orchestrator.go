// Package battle runs battle rooms: it loads records, serializes work per
// room, applies the engine's rules and persists the result.
package battle

//go:generate mockgen -destination=mock/mock_service.go -package=battlemock github.com/KirkDiggler/undead-arena/internal/orchestrators/battle Service

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/rpg-toolkit/events"

	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators"
	"github.com/KirkDiggler/undead-arena/internal/pkg/idgen"
	"github.com/KirkDiggler/undead-arena/internal/pkg/keylock"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
	gamerepo "github.com/KirkDiggler/undead-arena/internal/repositories/game"
	roomrepo "github.com/KirkDiggler/undead-arena/internal/repositories/room"
	warriorrepo "github.com/KirkDiggler/undead-arena/internal/repositories/warrior"
)

// Service defines the interface for battle room operations
type Service interface {
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)
	SignalReady(ctx context.Context, input *SignalReadyInput) (*SignalReadyOutput, error)
	StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error)
	AnswerQuestion(ctx context.Context, input *AnswerQuestionInput) (*AnswerQuestionOutput, error)
	CancelRoom(ctx context.Context, input *CancelRoomInput) (*CancelRoomOutput, error)
	EmergencyTerminate(ctx context.Context, input *EmergencyTerminateInput) (*EmergencyTerminateOutput, error)
	GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error)
	ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error)
}

// Config holds the dependencies for the battle orchestrator
type Config struct {
	Engine      engine.Engine
	Rooms       roomrepo.Repository
	Warriors    warriorrepo.Repository
	Game        gamerepo.Repository
	EventBus    events.EventBus
	IDGenerator idgen.Generator
	// Client opens the MULTI a room and its warriors are saved in. It must be
	// the client behind the repositories.
	Client redisclient.Client
	// Locks must be the Locker the settlement, game and warrior orchestrators use
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
	if c.Game == nil {
		vb.RequiredField("Game")
	}
	if c.EventBus == nil {
		vb.RequiredField("EventBus")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Client == nil {
		vb.RequiredField("Client")
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
	game     gamerepo.Repository
	bus      events.EventBus
	idGen    idgen.Generator
	client   redisclient.Client
	locks    *keylock.Locker
}

// NewOrchestrator creates a new battle orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		engine:   cfg.Engine,
		rooms:    cfg.Rooms,
		warriors: cfg.Warriors,
		game:     cfg.Game,
		bus:      cfg.EventBus,
		idGen:    cfg.IDGenerator,
		client:   cfg.Client,
		locks:    cfg.Locks,
	}, nil
}

var _ Service = (*orchestrator)(nil)

// roomState is a locked, loaded room with its warriors. WarriorB is nil
// until someone joins.
type roomState struct {
	room     *entities.BattleRoom
	warriorA *entities.Warrior
	warriorB *entities.Warrior
	unlock   func()
}

// loadRoom locks the room, then its warriors plus any extra warrior IDs in
// one sorted acquisition, and loads the room's warriors. The caller must
// call unlock.
func (o *orchestrator) loadRoom(ctx context.Context, id entities.RoomID, extraWarriors ...string) (*roomState, error) {
	if id.IsZero() {
		return nil, errors.InvalidArgument("room ID is required")
	}

	unlockRoom := o.locks.Lock(orchestrators.RoomLockKey(id))

	roomOut, err := o.rooms.Get(ctx, roomrepo.GetInput{RoomID: id})
	if err != nil {
		unlockRoom()
		return nil, errors.Wrap(err, "failed to load room")
	}
	room := roomOut.Room

	keys := []string{orchestrators.WarriorLockKey(room.WarriorA), orchestrators.WarriorLockKey(room.WarriorB)}
	for _, id := range extraWarriors {
		keys = append(keys, orchestrators.WarriorLockKey(id))
	}
	unlockWarriors := o.locks.LockAll(keys...)
	state := &roomState{
		room: room,
		unlock: func() {
			unlockWarriors()
			unlockRoom()
		},
	}

	state.warriorA, err = o.getWarrior(ctx, room.WarriorA)
	if err != nil {
		state.unlock()
		return nil, err
	}
	if room.WarriorB != "" {
		state.warriorB, err = o.getWarrior(ctx, room.WarriorB)
		if err != nil {
			state.unlock()
			return nil, err
		}
	}

	return state, nil
}

func (o *orchestrator) getWarrior(ctx context.Context, id string) (*entities.Warrior, error) {
	out, err := o.warriors.Get(ctx, warriorrepo.GetInput{ID: id})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load warrior %s", id)
	}
	return out.Warrior, nil
}

// optionalConfig returns the game config, or nil before the game is initialized
func (o *orchestrator) optionalConfig(ctx context.Context) (*entities.GameConfig, error) {
	out, err := o.game.GetConfig(ctx, gamerepo.GetConfigInput{})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to load game config")
	}
	return out.Config, nil
}

// save commits the room and any changed warriors in one MULTI, so damage or
// healing never lands without the room state that caused it.
func (o *orchestrator) save(ctx context.Context, room *entities.BattleRoom, warriors ...*entities.Warrior) error {
	pipe := o.client.TxPipeline()
	for _, w := range warriors {
		if w == nil {
			continue
		}
		if _, err := o.warriors.Update(ctx, warriorrepo.UpdateInput{Warrior: w, Pipe: pipe}); err != nil {
			return errors.Wrapf(err, "failed to save warrior %s", w.ID)
		}
	}
	if _, err := o.rooms.Update(ctx, roomrepo.UpdateInput{Room: room, Pipe: pipe}); err != nil {
		return errors.Wrap(err, "failed to save room")
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.WrapWithCode(err, errors.CodeUnavailable, "failed to commit room")
	}
	return nil
}

// liveRoom returns another non-terminal room of owner's that warriorID sits
// in, or the zero id. Callers hold the warrior's lock, which every room write
// involving that warrior also takes.
func (o *orchestrator) liveRoom(
	ctx context.Context,
	owner, warriorID string,
	except entities.RoomID,
) (entities.RoomID, error) {
	out, err := o.rooms.ListByPlayer(ctx, roomrepo.ListByPlayerInput{Player: owner})
	if err != nil {
		return entities.RoomID{}, errors.Wrapf(err, "failed to list rooms of %s", owner)
	}
	for _, r := range out.Rooms {
		if r.RoomID == except || r.State.IsTerminal() {
			continue
		}
		if r.WarriorA == warriorID || r.WarriorB == warriorID {
			return r.RoomID, nil
		}
	}
	return entities.RoomID{}, nil
}

// publishCompleted announces a finished room. Subscribers are advisory, so
// failures are logged and never fail the operation.
func (o *orchestrator) publishCompleted(ctx context.Context, room *entities.BattleRoom) {
	event := rpgtoolkit.NewBattleEvent(rpgtoolkit.EventBattleCompleted, room)
	if err := o.bus.Publish(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish battle completion",
			"room_id", room.RoomID.String(),
			"error", err.Error())
	}
}

func (o *orchestrator) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.WarriorID == "" {
		return nil, errors.InvalidArgument("warrior ID is required")
	}

	roomID := input.RoomID
	if roomID.IsZero() {
		roomID = entities.NewRoomID(o.idGen.Generate())
	}

	unlock := o.locks.LockAll(orchestrators.RoomLockKey(roomID), orchestrators.WarriorLockKey(input.WarriorID))
	defer unlock()

	warrior, err := o.getWarrior(ctx, input.WarriorID)
	if err != nil {
		return nil, err
	}
	config, err := o.optionalConfig(ctx)
	if err != nil {
		return nil, err
	}
	live, err := o.liveRoom(ctx, warrior.Owner, warrior.ID, roomID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.CreateRoom(ctx, &engine.CreateRoomInput{
		Actor:             input.Actor,
		RoomID:            roomID,
		Warrior:           warrior,
		SelectedConcepts:  input.SelectedConcepts,
		SelectedTopics:    input.SelectedTopics,
		SelectedQuestions: input.SelectedQuestions,
		CorrectAnswers:    input.CorrectAnswers,
		Config:            config,
		LiveRoom:          live,
	})
	if err != nil {
		return nil, err
	}

	if _, err := o.rooms.Create(ctx, roomrepo.CreateInput{Room: result.Room}); err != nil {
		return nil, errors.Wrap(err, "failed to store room")
	}

	slog.InfoContext(ctx, "room created",
		"room_id", roomID.String(),
		"player_a", input.Actor)

	return &CreateRoomOutput{Room: result.Room}, nil
}

func (o *orchestrator) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.WarriorID == "" {
		return nil, errors.InvalidArgument("warrior ID is required")
	}

	state, err := o.loadRoom(ctx, input.RoomID, input.WarriorID)
	if err != nil {
		return nil, err
	}
	defer state.unlock()

	joiner, err := o.getWarrior(ctx, input.WarriorID)
	if err != nil {
		return nil, err
	}
	live, err := o.liveRoom(ctx, joiner.Owner, joiner.ID, input.RoomID)
	if err != nil {
		return nil, err
	}

	result, err := o.engine.JoinRoom(ctx, &engine.JoinRoomInput{
		Actor:    input.Actor,
		RoomID:   input.RoomID,
		Room:     state.room,
		Warrior:  joiner,
		LiveRoom: live,
	})
	if err != nil {
		return nil, err
	}

	if err := o.save(ctx, result.Room); err != nil {
		return nil, err
	}

	return &JoinRoomOutput{Room: result.Room}, nil
}

func (o *orchestrator) SignalReady(ctx context.Context, input *SignalReadyInput) (*SignalReadyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	state, err := o.loadRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	defer state.unlock()

	result, err := o.engine.SignalReady(ctx, &engine.SignalReadyInput{
		Actor:    input.Actor,
		RoomID:   input.RoomID,
		Room:     state.room,
		WarriorA: state.warriorA,
		WarriorB: state.warriorB,
	})
	if err != nil {
		return nil, err
	}

	if result.BothReady {
		// the second signal heals both warriors
		err = o.save(ctx, result.Room, result.WarriorA, result.WarriorB)
	} else {
		err = o.save(ctx, result.Room)
	}
	if err != nil {
		return nil, err
	}

	return &SignalReadyOutput{
		Room:      result.Room,
		BothReady: result.BothReady,
	}, nil
}

func (o *orchestrator) StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	state, err := o.loadRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	defer state.unlock()

	result, err := o.engine.StartBattle(ctx, &engine.StartBattleInput{
		Actor:    input.Actor,
		RoomID:   input.RoomID,
		Room:     state.room,
		WarriorA: state.warriorA,
		WarriorB: state.warriorB,
	})
	if err != nil {
		return nil, err
	}

	if err := o.save(ctx, result.Room); err != nil {
		return nil, err
	}

	return &StartBattleOutput{Room: result.Room}, nil
}

func (o *orchestrator) AnswerQuestion(ctx context.Context, input *AnswerQuestionInput) (*AnswerQuestionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	state, err := o.loadRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	defer state.unlock()

	result, err := o.engine.AnswerQuestion(ctx, &engine.AnswerQuestionInput{
		Actor:    input.Actor,
		RoomID:   input.RoomID,
		Room:     state.room,
		WarriorA: state.warriorA,
		WarriorB: state.warriorB,
		Answer:   input.Answer,
		Seed:     input.Seed,
	})
	if err != nil {
		return nil, err
	}

	if result.Revealed() {
		// only a reveal changes hit points
		err = o.save(ctx, result.Room, result.WarriorA, result.WarriorB)
	} else {
		err = o.save(ctx, result.Room)
	}
	if err != nil {
		return nil, err
	}

	if result.Revealed() && result.Round.Completed {
		slog.InfoContext(ctx, "battle completed",
			"room_id", input.RoomID.String(),
			"winner", result.Round.Winner,
			"elimination", result.Round.Elimination)
		o.publishCompleted(ctx, result.Room)
	}

	return &AnswerQuestionOutput{
		Room:     result.Room,
		WarriorA: result.WarriorA,
		WarriorB: result.WarriorB,
		Round:    result.Round,
	}, nil
}

func (o *orchestrator) CancelRoom(ctx context.Context, input *CancelRoomInput) (*CancelRoomOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	state, err := o.loadRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	defer state.unlock()

	result, err := o.engine.CancelRoom(ctx, &engine.CancelRoomInput{
		Actor:    input.Actor,
		RoomID:   input.RoomID,
		Room:     state.room,
		WarriorA: state.warriorA,
		WarriorB: state.warriorB,
	})
	if err != nil {
		return nil, err
	}

	if err := o.save(ctx, result.Room, result.WarriorA, result.WarriorB); err != nil {
		return nil, err
	}

	return &CancelRoomOutput{Room: result.Room}, nil
}

func (o *orchestrator) EmergencyTerminate(ctx context.Context, input *EmergencyTerminateInput) (*EmergencyTerminateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	state, err := o.loadRoom(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}
	defer state.unlock()

	configOut, err := o.game.GetConfig(ctx, gamerepo.GetConfigInput{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to load game config")
	}

	result, err := o.engine.EmergencyTerminate(ctx, &engine.EmergencyTerminateInput{
		Actor:    input.Actor,
		RoomID:   input.RoomID,
		Room:     state.room,
		WarriorA: state.warriorA,
		WarriorB: state.warriorB,
		Config:   configOut.Config,
	})
	if err != nil {
		return nil, err
	}

	if err := o.save(ctx, result.Room, result.WarriorA, result.WarriorB); err != nil {
		return nil, err
	}

	o.publishCompleted(ctx, result.Room)

	return &EmergencyTerminateOutput{Room: result.Room}, nil
}

func (o *orchestrator) GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.RoomID.IsZero() {
		return nil, errors.InvalidArgument("room ID is required")
	}

	out, err := o.rooms.Get(ctx, roomrepo.GetInput{RoomID: input.RoomID})
	if err != nil {
		return nil, err
	}

	return &GetRoomOutput{Room: out.Room}, nil
}

func (o *orchestrator) ListRooms(ctx context.Context, input *ListRoomsInput) (*ListRoomsOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Player == "" {
		return nil, errors.InvalidArgument("player is required")
	}

	out, err := o.rooms.ListByPlayer(ctx, roomrepo.ListByPlayerInput{Player: input.Player})
	if err != nil {
		return nil, err
	}

	return &ListRoomsOutput{Rooms: out.Rooms}, nil
}
