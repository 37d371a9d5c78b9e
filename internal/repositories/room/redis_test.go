package room_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
	redisclient "github.com/KirkDiggler/undead-arena/internal/redis"
	"github.com/KirkDiggler/undead-arena/internal/repositories/room"
	"github.com/KirkDiggler/undead-arena/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	miniRedis *miniredis.Miniredis
	client    redisclient.Client
	cleanup   func()
	repo      room.Repository
	ctx       context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr, cleanup := testutils.CreateTestRedis(s.T())
	s.miniRedis = mr
	s.client = client
	s.cleanup = cleanup

	repo, err := room.NewRedis(&room.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRepositoryTestSuite) TearDownTest() {
	s.cleanup()
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	r := testutils.NewRoom("room-1", "alice", "alice:ghoul")
	yes := true
	r.PlayerAAnswers[0] = &yes

	_, err := s.repo.Create(s.ctx, room.CreateInput{Room: r})
	s.Require().NoError(err)
	s.True(s.miniRedis.Exists("battle_room:" + r.RoomID.String()))

	out, err := s.repo.Get(s.ctx, room.GetInput{RoomID: r.RoomID})
	s.Require().NoError(err)
	s.Equal(r, out.Room)
	s.Require().NotNil(out.Room.PlayerAAnswers[0])
	s.Nil(out.Room.PlayerAAnswers[1])
}

func (s *RedisRepositoryTestSuite) TestCreateDuplicate() {
	r := testutils.NewRoom("room-1", "alice", "alice:ghoul")
	_, err := s.repo.Create(s.ctx, room.CreateInput{Room: r})
	s.Require().NoError(err)

	_, err = s.repo.Create(s.ctx, room.CreateInput{Room: r})
	s.True(errors.IsAlreadyExists(err))
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, room.GetInput{RoomID: entities.NewRoomID("nope")})
	s.True(errors.IsNotFound(err))

	_, err = s.repo.Get(s.ctx, room.GetInput{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *RedisRepositoryTestSuite) TestUpdateMissing() {
	r := testutils.NewRoom("room-1", "alice", "alice:ghoul")
	_, err := s.repo.Update(s.ctx, room.UpdateInput{Room: r})
	s.True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestUnsettledIndexFollowsState() {
	r := testutils.NewRoom("room-1", "alice", "alice:ghoul")
	_, err := s.repo.Create(s.ctx, room.CreateInput{Room: r})
	s.Require().NoError(err)

	list, err := s.repo.ListUnsettled(s.ctx, room.ListUnsettledInput{})
	s.Require().NoError(err)
	s.Empty(list.Rooms)

	r.PlayerB = "bob"
	r.WarriorB = "bob:wraith"
	r.State = entities.BattleStateCompleted
	r.Winner = "bob"
	_, err = s.repo.Update(s.ctx, room.UpdateInput{Room: r})
	s.Require().NoError(err)

	list, err = s.repo.ListUnsettled(s.ctx, room.ListUnsettledInput{})
	s.Require().NoError(err)
	s.Require().Len(list.Rooms, 1)
	s.Equal(r.RoomID, list.Rooms[0].RoomID)

	r.Settled = true
	_, err = s.repo.Update(s.ctx, room.UpdateInput{Room: r})
	s.Require().NoError(err)

	list, err = s.repo.ListUnsettled(s.ctx, room.ListUnsettledInput{})
	s.Require().NoError(err)
	s.Empty(list.Rooms)
}

func (s *RedisRepositoryTestSuite) TestNoContestIsNeverUnsettled() {
	r := testutils.NewRoom("room-1", "alice", "alice:ghoul")
	_, err := s.repo.Create(s.ctx, room.CreateInput{Room: r})
	s.Require().NoError(err)

	r.State = entities.BattleStateCompleted
	_, err = s.repo.Update(s.ctx, room.UpdateInput{Room: r})
	s.Require().NoError(err)

	list, err := s.repo.ListUnsettled(s.ctx, room.ListUnsettledInput{})
	s.Require().NoError(err)
	s.Empty(list.Rooms)
}

func (s *RedisRepositoryTestSuite) TestListUnsettledOldestFirstWithLimit() {
	for i, name := range []string{"room-c", "room-a", "room-b"} {
		r := testutils.NewRoom(name, "alice", "alice:ghoul")
		r.CreatedAt = int64(100 - i)
		_, err := s.repo.Create(s.ctx, room.CreateInput{Room: r})
		s.Require().NoError(err)

		r.PlayerB = "bob"
		r.State = entities.BattleStateCompleted
		r.Winner = "alice"
		_, err = s.repo.Update(s.ctx, room.UpdateInput{Room: r})
		s.Require().NoError(err)
	}

	list, err := s.repo.ListUnsettled(s.ctx, room.ListUnsettledInput{Limit: 2})
	s.Require().NoError(err)
	s.Require().Len(list.Rooms, 2)
	s.Equal(entities.NewRoomID("room-b"), list.Rooms[0].RoomID)
	s.Equal(entities.NewRoomID("room-a"), list.Rooms[1].RoomID)
}

func (s *RedisRepositoryTestSuite) TestListByPlayer() {
	r := testutils.NewRoom("room-1", "alice", "alice:ghoul")
	_, err := s.repo.Create(s.ctx, room.CreateInput{Room: r})
	s.Require().NoError(err)

	r.PlayerB = "bob"
	r.WarriorB = "bob:wraith"
	_, err = s.repo.Update(s.ctx, room.UpdateInput{Room: r})
	s.Require().NoError(err)

	for _, player := range []string{"alice", "bob"} {
		out, err := s.repo.ListByPlayer(s.ctx, room.ListByPlayerInput{Player: player})
		s.Require().NoError(err)
		s.Require().Len(out.Rooms, 1, player)
		s.Equal(r.RoomID, out.Rooms[0].RoomID)
	}

	out, err := s.repo.ListByPlayer(s.ctx, room.ListByPlayerInput{Player: "carol"})
	s.Require().NoError(err)
	s.Empty(out.Rooms)
}

func (s *RedisRepositoryTestSuite) TestListCleansStaleIndexEntries() {
	r := testutils.NewRoom("room-1", "alice", "alice:ghoul")
	_, err := s.repo.Create(s.ctx, room.CreateInput{Room: r})
	s.Require().NoError(err)

	s.miniRedis.Del("battle_room:" + r.RoomID.String())
	_, err = s.miniRedis.SAdd("battle_room:player:alice", "not-hex")
	s.Require().NoError(err)

	out, err := s.repo.ListByPlayer(s.ctx, room.ListByPlayerInput{Player: "alice"})
	s.Require().NoError(err)
	s.Empty(out.Rooms)

	// the index empties out, so redis drops the key entirely
	s.False(s.miniRedis.Exists("battle_room:player:alice"))
}

func (s *RedisRepositoryTestSuite) TestUpdateOnSharedPipeline() {
	r := testutils.NewRoom("room-1", "alice", "alice:ghoul")
	_, err := s.repo.Create(s.ctx, room.CreateInput{Room: r})
	s.Require().NoError(err)

	r.PlayerB = "bob"
	r.WarriorB = "bob:wraith"
	pipe := s.client.TxPipeline()
	_, err = s.repo.Update(s.ctx, room.UpdateInput{Room: r, Pipe: pipe})
	s.Require().NoError(err)
	s.False(s.miniRedis.Exists("battle_room:player:bob"))

	before, err := s.repo.Get(s.ctx, room.GetInput{RoomID: r.RoomID})
	s.Require().NoError(err)
	s.False(before.Room.HasPlayerB())

	_, err = pipe.Exec(s.ctx)
	s.Require().NoError(err)

	after, err := s.repo.Get(s.ctx, room.GetInput{RoomID: r.RoomID})
	s.Require().NoError(err)
	s.Equal("bob", after.Room.PlayerB)
	members, err := s.miniRedis.Members("battle_room:player:bob")
	s.Require().NoError(err)
	s.Equal([]string{r.RoomID.String()}, members)
}
