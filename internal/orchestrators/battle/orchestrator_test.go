package battle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/undead-arena/internal/engine"
	enginemock "github.com/KirkDiggler/undead-arena/internal/engine/mock"
	"github.com/KirkDiggler/undead-arena/internal/engine/rpgtoolkit"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/battle"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
	"github.com/KirkDiggler/undead-arena/internal/pkg/idgen"
	"github.com/KirkDiggler/undead-arena/internal/pkg/keylock"
	gamerepo "github.com/KirkDiggler/undead-arena/internal/repositories/game"
	roomrepo "github.com/KirkDiggler/undead-arena/internal/repositories/room"
	warriorrepo "github.com/KirkDiggler/undead-arena/internal/repositories/warrior"
	"github.com/KirkDiggler/undead-arena/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx       context.Context
	cleanup   func()
	miniRedis *miniredis.Miniredis
	clock     *clock.Manual
	bus       events.EventBus
	rooms     roomrepo.Repository
	warriors  warriorrepo.Repository
	game      gamerepo.Repository
	cfg       *battle.Config
	svc       battle.Service

	mu        sync.Mutex
	completed []*entities.BattleRoom

	alice *entities.Warrior
	bob   *entities.Warrior
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, mr, cleanup := testutils.CreateTestRedis(s.T())
	s.miniRedis = mr
	s.cleanup = cleanup

	var err error
	s.rooms, err = roomrepo.NewRedis(&roomrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.warriors, err = warriorrepo.NewRedis(&warriorrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.game, err = gamerepo.NewRedis(&gamerepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.clock = clock.NewManual(time.Unix(testutils.TestCreatedAt, 0))
	eng, err := engine.New(&engine.Config{Clock: s.clock})
	s.Require().NoError(err)

	s.completed = nil
	s.bus = events.NewBus()
	s.bus.SubscribeFunc(rpgtoolkit.EventBattleCompleted, 0, func(_ context.Context, event events.Event) error {
		room, ok := rpgtoolkit.RoomFromEvent(event)
		s.Require().True(ok)
		s.mu.Lock()
		defer s.mu.Unlock()
		s.completed = append(s.completed, room)
		return nil
	})

	s.cfg = &battle.Config{
		Engine:      eng,
		Rooms:       s.rooms,
		Warriors:    s.warriors,
		Game:        s.game,
		EventBus:    s.bus,
		IDGenerator: idgen.NewSequential("room"),
		Client:      client,
		Locks:       keylock.New(),
	}
	s.svc, err = battle.NewOrchestrator(s.cfg)
	s.Require().NoError(err)

	s.alice = s.storeWarrior(testutils.NewWarrior("alice", "ghoul", entities.WarriorClassValidator))
	s.bob = s.storeWarrior(testutils.NewWarrior("bob", "wraith", entities.WarriorClassGuardian))
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *OrchestratorTestSuite) storeWarrior(w *entities.Warrior) *entities.Warrior {
	_, err := s.warriors.Create(s.ctx, warriorrepo.CreateInput{Warrior: w})
	s.Require().NoError(err)
	return w
}

func (s *OrchestratorTestSuite) initGame() {
	_, err := s.game.CreateConfig(s.ctx, gamerepo.CreateConfigInput{
		Config: &entities.GameConfig{Admin: "admin", CooldownTime: 3600},
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) loadRoom(id entities.RoomID) *entities.BattleRoom {
	out, err := s.rooms.Get(s.ctx, roomrepo.GetInput{RoomID: id})
	s.Require().NoError(err)
	return out.Room
}

func (s *OrchestratorTestSuite) loadWarrior(id string) *entities.Warrior {
	out, err := s.warriors.Get(s.ctx, warriorrepo.GetInput{ID: id})
	s.Require().NoError(err)
	return out.Warrior
}

func (s *OrchestratorTestSuite) createRoom() entities.RoomID {
	var answers [entities.QuestionCount]bool
	for i := range answers {
		answers[i] = i%2 == 0
	}
	out, err := s.svc.CreateRoom(s.ctx, &battle.CreateRoomInput{
		Actor:            "alice",
		WarriorID:        s.alice.ID,
		SelectedConcepts: [entities.ConceptCount]uint8{1, 2, 3, 4, 5},
		CorrectAnswers:   answers,
	})
	s.Require().NoError(err)
	return out.Room.RoomID
}

func (s *OrchestratorTestSuite) startedRoom() entities.RoomID {
	id := s.createRoom()
	_, err := s.svc.JoinRoom(s.ctx, &battle.JoinRoomInput{Actor: "bob", RoomID: id, WarriorID: s.bob.ID})
	s.Require().NoError(err)
	for _, player := range []string{"alice", "bob"} {
		_, err = s.svc.SignalReady(s.ctx, &battle.SignalReadyInput{Actor: player, RoomID: id})
		s.Require().NoError(err)
	}
	_, err = s.svc.StartBattle(s.ctx, &battle.StartBattleInput{Actor: "alice", RoomID: id})
	s.Require().NoError(err)
	return id
}

func (s *OrchestratorTestSuite) TestNewOrchestratorRequiresDependencies() {
	_, err := battle.NewOrchestrator(nil)
	s.Error(err)

	_, err = battle.NewOrchestrator(&battle.Config{})
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestCreateRoomGeneratesID() {
	id := s.createRoom()

	s.Equal(entities.NewRoomID("room_1"), id)
	room := s.loadRoom(id)
	s.Equal(entities.BattleStateQuestionsSelected, room.State)
	s.Equal("alice", room.PlayerA)
	s.Equal(s.alice.ID, room.WarriorA)
}

func (s *OrchestratorTestSuite) TestCreateRoomDuplicateID() {
	input := &battle.CreateRoomInput{
		Actor:            "alice",
		WarriorID:        s.alice.ID,
		RoomID:           entities.NewRoomID("fixed"),
		SelectedConcepts: [entities.ConceptCount]uint8{1, 2, 3, 4, 5},
	}
	_, err := s.svc.CreateRoom(s.ctx, input)
	s.Require().NoError(err)

	_, err = s.svc.CreateRoom(s.ctx, input)
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *OrchestratorTestSuite) TestCreateRoomUnknownWarrior() {
	_, err := s.svc.CreateRoom(s.ctx, &battle.CreateRoomInput{
		Actor:            "alice",
		WarriorID:        "alice:nobody",
		SelectedConcepts: [entities.ConceptCount]uint8{1, 2, 3, 4, 5},
	})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *OrchestratorTestSuite) TestCreateRoomWhilePaused() {
	_, err := s.game.CreateConfig(s.ctx, gamerepo.CreateConfigInput{
		Config: &entities.GameConfig{Admin: "admin", CooldownTime: 3600, IsPaused: true},
	})
	s.Require().NoError(err)

	_, err = s.svc.CreateRoom(s.ctx, &battle.CreateRoomInput{
		Actor:            "alice",
		WarriorID:        s.alice.ID,
		SelectedConcepts: [entities.ConceptCount]uint8{1, 2, 3, 4, 5},
	})
	s.Require().Error(err)
	s.Equal(engine.ReasonGamePaused, errors.GetReason(err))
}

func (s *OrchestratorTestSuite) TestRejectedJoinLeavesRoomUntouched() {
	id := s.createRoom()
	before := s.loadRoom(id)

	_, err := s.svc.JoinRoom(s.ctx, &battle.JoinRoomInput{Actor: "alice", RoomID: id, WarriorID: s.alice.ID})
	s.Require().Error(err)
	s.Equal(errors.CodePermissionDenied, errors.GetCode(err))

	s.Equal(before, s.loadRoom(id))
}

func (s *OrchestratorTestSuite) TestJoinAddsRoomToJoinerList() {
	id := s.createRoom()
	_, err := s.svc.JoinRoom(s.ctx, &battle.JoinRoomInput{Actor: "bob", RoomID: id, WarriorID: s.bob.ID})
	s.Require().NoError(err)

	out, err := s.svc.ListRooms(s.ctx, &battle.ListRoomsInput{Player: "bob"})
	s.Require().NoError(err)
	s.Require().Len(out.Rooms, 1)
	s.Equal(id, out.Rooms[0].RoomID)
}

func (s *OrchestratorTestSuite) TestSignalReadyHealsStoredWarriors() {
	hurt := s.loadWarrior(s.alice.ID)
	hurt.CurrentHP = 40
	_, err := s.warriors.Update(s.ctx, warriorrepo.UpdateInput{Warrior: hurt})
	s.Require().NoError(err)

	id := s.createRoom()
	_, err = s.svc.JoinRoom(s.ctx, &battle.JoinRoomInput{Actor: "bob", RoomID: id, WarriorID: s.bob.ID})
	s.Require().NoError(err)

	first, err := s.svc.SignalReady(s.ctx, &battle.SignalReadyInput{Actor: "alice", RoomID: id})
	s.Require().NoError(err)
	s.False(first.BothReady)
	s.Equal(uint16(40), s.loadWarrior(s.alice.ID).CurrentHP)

	second, err := s.svc.SignalReady(s.ctx, &battle.SignalReadyInput{Actor: "bob", RoomID: id})
	s.Require().NoError(err)
	s.True(second.BothReady)
	s.Equal(entities.MaxWarriorHP, s.loadWarrior(s.alice.ID).CurrentHP)
	s.Equal(entities.BattleStateReadyForDelegation, s.loadRoom(id).State)
}

func (s *OrchestratorTestSuite) TestFullBattlePersistsAndPublishes() {
	id := s.startedRoom()
	correct := s.loadRoom(id).CorrectAnswers

	var last *battle.AnswerQuestionOutput
	for q := 0; q < entities.QuestionCount; q++ {
		s.clock.Advance(3 * time.Second)
		_, err := s.svc.AnswerQuestion(s.ctx, &battle.AnswerQuestionInput{
			Actor: "alice", RoomID: id, Answer: correct[q], Seed: uint8(q),
		})
		s.Require().NoError(err)

		last, err = s.svc.AnswerQuestion(s.ctx, &battle.AnswerQuestionInput{
			Actor: "bob", RoomID: id, Answer: !correct[q], Seed: uint8(q),
		})
		s.Require().NoError(err)
		s.Require().NotNil(last.Round)
		if last.Round.Completed {
			break
		}
	}

	s.Require().True(last.Round.Completed)
	s.Equal("alice", last.Round.Winner)

	stored := s.loadRoom(id)
	s.Equal(entities.BattleStateCompleted, stored.State)
	s.Equal("alice", stored.Winner)
	s.Equal(last.Room.CurrentQuestion, stored.CurrentQuestion)
	s.Equal(last.WarriorB.CurrentHP, s.loadWarrior(s.bob.ID).CurrentHP)
	s.Equal(entities.MaxWarriorHP, s.loadWarrior(s.alice.ID).CurrentHP)

	s.Require().Len(s.completed, 1)
	s.Equal(id, s.completed[0].RoomID)
	s.Equal("alice", s.completed[0].Winner)

	unsettled, err := s.rooms.ListUnsettled(s.ctx, roomrepo.ListUnsettledInput{})
	s.Require().NoError(err)
	s.Require().Len(unsettled.Rooms, 1)
	s.Equal(id, unsettled.Rooms[0].RoomID)
}

func (s *OrchestratorTestSuite) TestPartialAnswerDoesNotTouchWarriors() {
	id := s.startedRoom()
	before := s.loadWarrior(s.bob.ID)

	out, err := s.svc.AnswerQuestion(s.ctx, &battle.AnswerQuestionInput{Actor: "alice", RoomID: id, Answer: true})
	s.Require().NoError(err)
	s.Nil(out.Round)

	s.Equal(before, s.loadWarrior(s.bob.ID))
	s.Require().NotNil(s.loadRoom(id).PlayerAAnswers[0])
	s.Empty(s.completed)
}

func (s *OrchestratorTestSuite) TestConcurrentAnswersRevealOnce() {
	id := s.startedRoom()

	var wg sync.WaitGroup
	results := make([]*battle.AnswerQuestionOutput, 2)
	errs := make([]error, 2)
	for i, player := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(i int, player string) {
			defer wg.Done()
			results[i], errs[i] = s.svc.AnswerQuestion(s.ctx, &battle.AnswerQuestionInput{
				Actor: player, RoomID: id, Answer: true, Seed: 7,
			})
		}(i, player)
	}
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])

	reveals := 0
	for _, r := range results {
		if r.Round != nil {
			reveals++
		}
	}
	s.Equal(1, reveals)

	room := s.loadRoom(id)
	s.Equal(uint8(1), room.CurrentQuestion)
	s.Equal(uint8(1), room.PlayerACorrect)
	s.Less(s.loadWarrior(s.bob.ID).CurrentHP, entities.MaxWarriorHP)
}

func (s *OrchestratorTestSuite) TestCancelRoom() {
	id := s.createRoom()

	_, err := s.svc.CancelRoom(s.ctx, &battle.CancelRoomInput{Actor: "bob", RoomID: id})
	s.Require().Error(err)
	s.Equal(engine.ReasonNotRoomCreator, errors.GetReason(err))

	out, err := s.svc.CancelRoom(s.ctx, &battle.CancelRoomInput{Actor: "alice", RoomID: id})
	s.Require().NoError(err)
	s.Equal(entities.BattleStateCancelled, out.Room.State)
	s.Equal(entities.BattleStateCancelled, s.loadRoom(id).State)
	s.Empty(s.completed)
}

func (s *OrchestratorTestSuite) TestEmergencyTerminate() {
	id := s.startedRoom()

	s.Run("requires an initialized game", func() {
		_, err := s.svc.EmergencyTerminate(s.ctx, &battle.EmergencyTerminateInput{Actor: "admin", RoomID: id})
		s.Require().Error(err)
		s.True(errors.IsNotFound(err))
	})

	s.initGame()

	s.Run("rejects non-admin", func() {
		_, err := s.svc.EmergencyTerminate(s.ctx, &battle.EmergencyTerminateInput{Actor: "alice", RoomID: id})
		s.Require().Error(err)
		s.Equal(engine.ReasonNotAdmin, errors.GetReason(err))
	})

	s.Run("terminates for admin", func() {
		out, err := s.svc.EmergencyTerminate(s.ctx, &battle.EmergencyTerminateInput{Actor: "admin", RoomID: id})
		s.Require().NoError(err)
		s.Equal(entities.BattleStateCompleted, out.Room.State)
		s.Empty(out.Room.Winner)

		now := s.clock.Now().Unix()
		for _, wid := range []string{s.alice.ID, s.bob.ID} {
			w := s.loadWarrior(wid)
			s.Equal(now+3600/8, w.CooldownExpiresAt)
			s.Equal(entities.MaxWarriorHP, w.CurrentHP)
		}

		s.Require().Len(s.completed, 1)
		s.Empty(s.completed[0].Winner)

		unsettled, err := s.rooms.ListUnsettled(s.ctx, roomrepo.ListUnsettledInput{})
		s.Require().NoError(err)
		s.Empty(unsettled.Rooms)
	})
}

func (s *OrchestratorTestSuite) TestGetRoom() {
	s.Run("zero id", func() {
		_, err := s.svc.GetRoom(s.ctx, &battle.GetRoomInput{})
		s.Require().Error(err)
		s.True(errors.IsInvalidArgument(err))
	})

	s.Run("missing room", func() {
		_, err := s.svc.GetRoom(s.ctx, &battle.GetRoomInput{RoomID: entities.NewRoomID("nope")})
		s.Require().Error(err)
		s.True(errors.IsNotFound(err))
	})

	s.Run("stored room", func() {
		id := s.createRoom()
		out, err := s.svc.GetRoom(s.ctx, &battle.GetRoomInput{RoomID: id})
		s.Require().NoError(err)
		s.Equal(id, out.Room.RoomID)
	})
}

func (s *OrchestratorTestSuite) TestEngineFailureIsReturnedUnwrapped() {
	id := s.startedRoom()
	before := s.loadRoom(id)

	ctrl := gomock.NewController(s.T())
	mockEngine := enginemock.NewMockEngine(ctrl)
	mockEngine.EXPECT().
		AnswerQuestion(gomock.Any(), gomock.Any()).
		Return(nil, errors.Internal("engine exploded"))

	cfg := *s.cfg
	cfg.Engine = mockEngine
	svc, err := battle.NewOrchestrator(&cfg)
	s.Require().NoError(err)

	_, err = svc.AnswerQuestion(s.ctx, &battle.AnswerQuestionInput{Actor: "alice", RoomID: id, Answer: true})
	s.Require().Error(err)
	s.True(errors.IsInternal(err))
	s.Equal(before, s.loadRoom(id))
}

func (s *OrchestratorTestSuite) TestNewOrchestratorRequiresSharedLocks() {
	cfg := *s.cfg
	cfg.Locks = nil
	_, err := battle.NewOrchestrator(&cfg)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))

	cfg = *s.cfg
	cfg.Client = nil
	_, err = battle.NewOrchestrator(&cfg)
	s.Require().Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *OrchestratorTestSuite) TestWarriorFightsInOneLiveRoom() {
	first := s.createRoom()
	concepts := [entities.ConceptCount]uint8{1, 2, 3, 4, 5}

	s.Run("second room for the same warrior", func() {
		second := entities.NewRoomID("second")
		_, err := s.svc.CreateRoom(s.ctx, &battle.CreateRoomInput{
			Actor: "alice", WarriorID: s.alice.ID, RoomID: second, SelectedConcepts: concepts,
		})
		s.Require().Error(err)
		s.True(errors.IsUnavailable(err))
		s.Equal(engine.ReasonWarriorInBattle, errors.GetReason(err))

		_, err = s.rooms.Get(s.ctx, roomrepo.GetInput{RoomID: second})
		s.True(errors.IsNotFound(err))
	})

	s.Run("joining while waiting in another room", func() {
		_, err := s.svc.CreateRoom(s.ctx, &battle.CreateRoomInput{
			Actor: "bob", WarriorID: s.bob.ID, RoomID: entities.NewRoomID("bobs"), SelectedConcepts: concepts,
		})
		s.Require().NoError(err)

		_, err = s.svc.JoinRoom(s.ctx, &battle.JoinRoomInput{Actor: "bob", RoomID: first, WarriorID: s.bob.ID})
		s.Require().Error(err)
		s.Equal(engine.ReasonWarriorInBattle, errors.GetReason(err))
		s.False(s.loadRoom(first).HasPlayerB())
	})

	s.Run("free again once the room is cancelled", func() {
		_, err := s.svc.CancelRoom(s.ctx, &battle.CancelRoomInput{Actor: "alice", RoomID: first})
		s.Require().NoError(err)

		_, err = s.svc.CreateRoom(s.ctx, &battle.CreateRoomInput{
			Actor: "alice", WarriorID: s.alice.ID, RoomID: entities.NewRoomID("third"), SelectedConcepts: concepts,
		})
		s.NoError(err)
	})
}

// failingRooms fails the next failures calls to Update
type failingRooms struct {
	roomrepo.Repository
	failures int
}

func (f *failingRooms) Update(ctx context.Context, input roomrepo.UpdateInput) (*roomrepo.UpdateOutput, error) {
	if f.failures > 0 {
		f.failures--
		return nil, errors.Unavailable("connection reset")
	}
	return f.Repository.Update(ctx, input)
}

func (s *OrchestratorTestSuite) TestFailedSaveKeepsWarriorsAndRoomTogether() {
	id := s.createRoom()
	_, err := s.svc.JoinRoom(s.ctx, &battle.JoinRoomInput{Actor: "bob", RoomID: id, WarriorID: s.bob.ID})
	s.Require().NoError(err)

	hurt := s.loadWarrior(s.alice.ID)
	hurt.CurrentHP = 10
	_, err = s.warriors.Update(s.ctx, warriorrepo.UpdateInput{Warrior: hurt})
	s.Require().NoError(err)

	_, err = s.svc.SignalReady(s.ctx, &battle.SignalReadyInput{Actor: "alice", RoomID: id})
	s.Require().NoError(err)

	cfg := *s.cfg
	cfg.Rooms = &failingRooms{Repository: s.rooms, failures: 1}
	svc, err := battle.NewOrchestrator(&cfg)
	s.Require().NoError(err)

	_, err = svc.SignalReady(s.ctx, &battle.SignalReadyInput{Actor: "bob", RoomID: id})
	s.Require().Error(err)
	s.True(errors.IsUnavailable(err))
	s.Equal(uint16(10), s.loadWarrior(s.alice.ID).CurrentHP)
	s.False(s.loadRoom(id).PlayerBReady)

	out, err := svc.SignalReady(s.ctx, &battle.SignalReadyInput{Actor: "bob", RoomID: id})
	s.Require().NoError(err)
	s.Equal(entities.BattleStateReadyForDelegation, out.Room.State)
	s.Equal(entities.MaxWarriorHP, s.loadWarrior(s.alice.ID).CurrentHP)
}
