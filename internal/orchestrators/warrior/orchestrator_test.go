package warrior_test

import (
	"context"
	"crypto/sha256"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/undead-arena/internal/engine"
	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators/warrior"
	"github.com/KirkDiggler/undead-arena/internal/pkg/clock"
	idgenmock "github.com/KirkDiggler/undead-arena/internal/pkg/idgen/mock"
	"github.com/KirkDiggler/undead-arena/internal/pkg/keylock"
	gamerepo "github.com/KirkDiggler/undead-arena/internal/repositories/game"
	playerrepo "github.com/KirkDiggler/undead-arena/internal/repositories/player"
	warriorrepo "github.com/KirkDiggler/undead-arena/internal/repositories/warrior"
	"github.com/KirkDiggler/undead-arena/internal/testutils"
)

type OrchestratorTestSuite struct {
	suite.Suite
	ctx      context.Context
	cleanup  func()
	ctrl     *gomock.Controller
	idGen    *idgenmock.MockGenerator
	clock    *clock.Manual
	warriors warriorrepo.Repository
	players  playerrepo.Repository
	game     gamerepo.Repository
	svc      warrior.Service
}

func TestOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(OrchestratorTestSuite))
}

func (s *OrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())
	s.idGen = idgenmock.NewMockGenerator(s.ctrl)

	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	var err error
	s.warriors, err = warriorrepo.NewRedis(&warriorrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.players, err = playerrepo.NewRedis(&playerrepo.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.game, err = gamerepo.NewRedis(&gamerepo.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.clock = clock.NewManual(time.Unix(testutils.TestCreatedAt, 0))
	eng, err := engine.New(&engine.Config{Clock: s.clock})
	s.Require().NoError(err)

	s.svc, err = warrior.NewOrchestrator(&warrior.Config{
		Engine:      eng,
		Warriors:    s.warriors,
		Players:     s.players,
		Game:        s.game,
		IDGenerator: s.idGen,
		Clock:       s.clock,
		Locks:       keylock.New(),
	})
	s.Require().NoError(err)

	_, err = s.game.CreateConfig(s.ctx, gamerepo.CreateConfigInput{
		Config: &entities.GameConfig{Admin: "admin", CooldownTime: 3600},
	})
	s.Require().NoError(err)
}

func (s *OrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
	s.cleanup()
}

func (s *OrchestratorTestSuite) totalWarriors() uint64 {
	out, err := s.game.GetConfig(s.ctx, gamerepo.GetConfigInput{})
	s.Require().NoError(err)
	return out.Config.TotalWarriors
}

func (s *OrchestratorTestSuite) TestCreateStoresEveryRecord() {
	dna := [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	out, err := s.svc.Create(s.ctx, &warrior.CreateInput{
		Actor: "alice",
		Name:  "ghoul",
		Class: entities.WarriorClassDaemon,
		DNA:   dna,
	})
	s.Require().NoError(err)
	s.Equal("alice:ghoul", out.Warrior.ID)
	s.Equal(dna, out.Warrior.DNA)

	stored, err := s.warriors.Get(s.ctx, warriorrepo.GetInput{ID: "alice:ghoul"})
	s.Require().NoError(err)
	s.Equal(out.Warrior, stored.Warrior)

	player, err := s.players.Get(s.ctx, playerrepo.GetInput{Owner: "alice"})
	s.Require().NoError(err)
	s.Equal(uint32(1), player.Profile.WarriorsCreated)
	s.Equal(testutils.TestCreatedAt, player.Profile.JoinDate)
	s.Equal(entities.AchievementBronze, player.Achievements.WarriorAchievement)

	s.Equal(uint64(1), s.totalWarriors())
}

func (s *OrchestratorTestSuite) TestCreateDerivesDNAWhenUnset() {
	s.idGen.EXPECT().Generate().Return("seed-1")

	out, err := s.svc.Create(s.ctx, &warrior.CreateInput{
		Actor: "alice",
		Name:  "ghoul",
		Class: entities.WarriorClassOracle,
	})
	s.Require().NoError(err)

	sum := sha256.Sum256([]byte("seed-1"))
	var expected [8]byte
	copy(expected[:], sum[:8])
	s.Equal(expected, out.Warrior.DNA)
}

func (s *OrchestratorTestSuite) TestCreateSecondWarriorKeepsProfile() {
	for _, name := range []string{"ghoul", "wraith"} {
		s.clock.Advance(time.Minute)
		_, err := s.svc.Create(s.ctx, &warrior.CreateInput{
			Actor: "alice",
			Name:  name,
			Class: entities.WarriorClassGuardian,
			DNA:   [8]byte{9},
		})
		s.Require().NoError(err)
	}

	player, err := s.players.Get(s.ctx, playerrepo.GetInput{Owner: "alice"})
	s.Require().NoError(err)
	s.Equal(uint32(2), player.Profile.WarriorsCreated)
	s.Equal(testutils.TestCreatedAt+60, player.Profile.JoinDate)
	s.Equal(testutils.TestCreatedAt+60, player.Achievements.FirstWarriorDate)
	s.Equal(uint64(2), s.totalWarriors())

	list, err := s.svc.ListByOwner(s.ctx, &warrior.ListByOwnerInput{Owner: "alice"})
	s.Require().NoError(err)
	s.Require().Len(list.Warriors, 2)
	s.Equal("ghoul", list.Warriors[0].Name)
	s.Equal("wraith", list.Warriors[1].Name)
}

func (s *OrchestratorTestSuite) TestCreateDuplicateLeavesCountersAlone() {
	input := &warrior.CreateInput{
		Actor: "alice",
		Name:  "ghoul",
		Class: entities.WarriorClassValidator,
		DNA:   [8]byte{7},
	}
	_, err := s.svc.Create(s.ctx, input)
	s.Require().NoError(err)

	_, err = s.svc.Create(s.ctx, input)
	s.Require().Error(err)
	s.True(errors.IsAlreadyExists(err))

	player, err := s.players.Get(s.ctx, playerrepo.GetInput{Owner: "alice"})
	s.Require().NoError(err)
	s.Equal(uint32(1), player.Profile.WarriorsCreated)
	s.Equal(uint64(1), s.totalWarriors())
}

func (s *OrchestratorTestSuite) TestCreateFailures() {
	testCases := []struct {
		name   string
		input  *warrior.CreateInput
		code   errors.Code
		reason string
	}{
		{
			name:  "nil input",
			input: nil,
			code:  errors.CodeInvalidArgument,
		},
		{
			name:  "missing actor",
			input: &warrior.CreateInput{Name: "ghoul", Class: entities.WarriorClassDaemon, DNA: [8]byte{1}},
			code:  errors.CodeInvalidArgument,
		},
		{
			name:   "empty name",
			input:  &warrior.CreateInput{Actor: "alice", Class: entities.WarriorClassDaemon, DNA: [8]byte{1}},
			code:   errors.CodeInvalidArgument,
			reason: engine.ReasonInvalidWarriorName,
		},
		{
			name:   "unknown class",
			input:  &warrior.CreateInput{Actor: "alice", Name: "ghoul", Class: "lich", DNA: [8]byte{1}},
			code:   errors.CodeInvalidArgument,
			reason: engine.ReasonInvalidWarriorClass,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.svc.Create(s.ctx, tc.input)
			s.Require().Error(err)
			s.Equal(tc.code, errors.GetCode(err))
			if tc.reason != "" {
				s.Equal(tc.reason, errors.GetReason(err))
			}
		})
	}

	s.Equal(uint64(0), s.totalWarriors())
}

func (s *OrchestratorTestSuite) TestCreateWhilePaused() {
	config, err := s.game.GetConfig(s.ctx, gamerepo.GetConfigInput{})
	s.Require().NoError(err)
	config.Config.IsPaused = true
	_, err = s.game.SaveConfig(s.ctx, gamerepo.SaveConfigInput{Config: config.Config})
	s.Require().NoError(err)

	_, err = s.svc.Create(s.ctx, &warrior.CreateInput{
		Actor: "alice", Name: "ghoul", Class: entities.WarriorClassDaemon, DNA: [8]byte{1},
	})
	s.Require().Error(err)
	s.Equal(engine.ReasonGamePaused, errors.GetReason(err))
}

func (s *OrchestratorTestSuite) TestGetReportsReadiness() {
	w := testutils.NewWarrior("bob", "wraith", entities.WarriorClassGuardian)
	w.CooldownExpiresAt = testutils.TestCreatedAt + 90
	_, err := s.warriors.Create(s.ctx, warriorrepo.CreateInput{Warrior: w})
	s.Require().NoError(err)

	out, err := s.svc.Get(s.ctx, &warrior.GetInput{WarriorID: w.ID})
	s.Require().NoError(err)
	s.Equal(w.ID, out.Warrior.ID)
	s.False(out.Readiness.Ready)
	s.Equal(int64(90), out.Readiness.CooldownRemaining)

	s.clock.Advance(90 * time.Second)
	out, err = s.svc.Get(s.ctx, &warrior.GetInput{WarriorID: w.ID})
	s.Require().NoError(err)
	s.True(out.Readiness.Ready)
}

func (s *OrchestratorTestSuite) TestGetUnknownWarrior() {
	_, err := s.svc.Get(s.ctx, &warrior.GetInput{WarriorID: "nobody:nothing"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}
