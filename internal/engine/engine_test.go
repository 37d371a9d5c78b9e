package engine_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
)

var testStart = time.Unix(1_700_000_000, 0)

// arenaSuite holds the shared fixture for engine suites: two players with
// one warrior each, a game config and a manual clock.
type arenaSuite struct {
	suite.Suite
	ctx    context.Context
	clock  *clock.Manual
	engine engine.Engine
	config *entities.GameConfig
	alice  *entities.Warrior
	bob    *entities.Warrior
	roomID entities.RoomID
}

func (s *arenaSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clock.NewManual(testStart)

	eng, err := engine.New(&engine.Config{Clock: s.clock})
	s.Require().NoError(err)
	s.engine = eng

	s.config = &entities.GameConfig{Admin: "admin", CooldownTime: 3600}
	s.alice = newWarrior("alice", "ghoul", entities.WarriorClassValidator, 80, 35, 35)
	s.bob = newWarrior("bob", "wraith", entities.WarriorClassGuardian, 60, 60, 30)
	s.roomID = entities.NewRoomID("room-1")
}

func newWarrior(owner, name string, class entities.WarriorClass, atk, def, know uint16) *entities.Warrior {
	return &entities.Warrior{
		ID:            entities.WarriorID(owner, name),
		Owner:         owner,
		Name:          name,
		Class:         class,
		BaseAttack:    atk,
		BaseDefense:   def,
		BaseKnowledge: know,
		CurrentHP:     entities.MaxWarriorHP,
		MaxHP:         entities.MaxWarriorHP,
		Level:         1,
	}
}

func alternatingAnswers() [entities.QuestionCount]bool {
	var answers [entities.QuestionCount]bool
	for i := range answers {
		answers[i] = i%2 == 0
	}
	return answers
}

func (s *arenaSuite) now() int64 {
	return s.clock.Now().Unix()
}

func (s *arenaSuite) requireViolation(err error, code errors.Code, reason string) {
	s.Require().Error(err)
	s.Equal(code, errors.GetCode(err), err.Error())
	s.Equal(reason, errors.GetReason(err), err.Error())
}

func (s *arenaSuite) createRoom() *entities.BattleRoom {
	out, err := s.engine.CreateRoom(s.ctx, &engine.CreateRoomInput{
		Actor:            "alice",
		RoomID:           s.roomID,
		Warrior:          s.alice,
		SelectedConcepts: [entities.ConceptCount]uint8{3, 1, 4, 9, 5},
		CorrectAnswers:   alternatingAnswers(),
		Config:           s.config,
	})
	s.Require().NoError(err)
	return out.Room
}

func (s *arenaSuite) joinedRoom() *entities.BattleRoom {
	room := s.createRoom()
	_, err := s.engine.JoinRoom(s.ctx, &engine.JoinRoomInput{
		Actor:   "bob",
		RoomID:  s.roomID,
		Room:    room,
		Warrior: s.bob,
	})
	s.Require().NoError(err)
	return room
}

func (s *arenaSuite) signalReady(room *entities.BattleRoom, actor string) (*engine.SignalReadyOutput, error) {
	return s.engine.SignalReady(s.ctx, &engine.SignalReadyInput{
		Actor:    actor,
		RoomID:   s.roomID,
		Room:     room,
		WarriorA: s.alice,
		WarriorB: s.bob,
	})
}

func (s *arenaSuite) readyRoom() *entities.BattleRoom {
	room := s.joinedRoom()
	_, err := s.signalReady(room, "alice")
	s.Require().NoError(err)
	_, err = s.signalReady(room, "bob")
	s.Require().NoError(err)
	return room
}

func (s *arenaSuite) startedRoom() *entities.BattleRoom {
	room := s.readyRoom()
	s.clock.Advance(5 * time.Second)
	_, err := s.engine.StartBattle(s.ctx, &engine.StartBattleInput{
		Actor:    "bob",
		RoomID:   s.roomID,
		Room:     room,
		WarriorA: s.alice,
		WarriorB: s.bob,
	})
	s.Require().NoError(err)
	return room
}

func (s *arenaSuite) answer(room *entities.BattleRoom, actor string, answer bool, seed uint8) (*engine.AnswerQuestionOutput, error) {
	return s.engine.AnswerQuestion(s.ctx, &engine.AnswerQuestionInput{
		Actor:    actor,
		RoomID:   s.roomID,
		Room:     room,
		WarriorA: s.alice,
		WarriorB: s.bob,
		Answer:   answer,
		Seed:     seed,
	})
}

// requireAnswerInvariant checks that every question before the current one
// has both answers and nothing after it has been answered.
func (s *arenaSuite) requireAnswerInvariant(room *entities.BattleRoom) {
	s.Require().LessOrEqual(int(room.CurrentQuestion), entities.QuestionCount)
	for q := 0; q < entities.QuestionCount; q++ {
		switch {
		case q < int(room.CurrentQuestion):
			s.Require().NotNil(room.PlayerAAnswers[q], "question %d", q)
			s.Require().NotNil(room.PlayerBAnswers[q], "question %d", q)
		case q > int(room.CurrentQuestion):
			s.Require().Nil(room.PlayerAAnswers[q], "question %d", q)
			s.Require().Nil(room.PlayerBAnswers[q], "question %d", q)
		}
	}
}

// fastForward puts a started room at question q with both sides having
// answered everything before it.
func (s *arenaSuite) fastForward(room *entities.BattleRoom, q uint8) {
	yes := true
	for i := uint8(0); i < q; i++ {
		room.PlayerAAnswers[i] = &yes
		room.PlayerBAnswers[i] = &yes
	}
	room.CurrentQuestion = q
}
