package player_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	"github.com/KirkDiggler/undead-arena/internal/repositories/player"
	"github.com/KirkDiggler/undead-arena/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	cleanup   func()
	repo      player.Repository
	ctx       context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr, cleanup := testutils.CreateTestRedis(s.T())
	s.miniRedis = mr
	s.cleanup = cleanup

	repo, err := player.NewRedis(&player.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestSaveAndGet() {
	profile := entities.NewUserProfile("alice", 1000)
	profile.TotalPoints = 540
	achievements := entities.NewUserAchievements("alice")
	achievements.OverallAchievement = entities.AchievementSilver

	_, err := s.repo.Save(s.ctx, player.SaveInput{Profile: profile, Achievements: achievements})
	s.Require().NoError(err)

	out, err := s.repo.Get(s.ctx, player.GetInput{Owner: "alice"})
	s.Require().NoError(err)
	s.Equal(profile, out.Profile)
	s.Equal(achievements, out.Achievements)

	raw, err := s.miniRedis.Get("player:achievements:alice")
	s.Require().NoError(err)
	s.Contains(raw, `"overall_achievement":"silver"`)
}

func (s *RedisRepositoryTestSuite) TestGetUnknownPlayer() {
	_, err := s.repo.Get(s.ctx, player.GetInput{Owner: "ghost"})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestMissingAchievementsAreRebuilt() {
	s.Require().NoError(s.miniRedis.Set("player:profile:alice", `{"owner":"alice","total_points":5}`))

	out, err := s.repo.Get(s.ctx, player.GetInput{Owner: "alice"})
	s.Require().NoError(err)
	s.Equal(uint64(5), out.Profile.TotalPoints)
	s.Equal(entities.NewUserAchievements("alice"), out.Achievements)
}

func (s *RedisRepositoryTestSuite) TestSaveRejectsMismatchedOwners() {
	_, err := s.repo.Save(s.ctx, player.SaveInput{
		Profile:      entities.NewUserProfile("alice", 0),
		Achievements: entities.NewUserAchievements("bob"),
	})
	s.True(errors.IsInvalidArgument(err))
	s.False(s.miniRedis.Exists("player:profile:alice"))
}
