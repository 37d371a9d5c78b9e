package orchestrators_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/orchestrators"
)

type LocksTestSuite struct {
	suite.Suite
}

func TestLocksSuite(t *testing.T) {
	suite.Run(t, new(LocksTestSuite))
}

func (s *LocksTestSuite) TestKeysAreNamespaced() {
	id := entities.NewRoomID("room-1")

	s.Equal("room:"+id.String(), orchestrators.RoomLockKey(id))
	s.Equal("warrior:alice:ghoul", orchestrators.WarriorLockKey("alice:ghoul"))
	s.Equal("player:alice", orchestrators.PlayerLockKey("alice"))
}

func (s *LocksTestSuite) TestEmptyIDsYieldEmptyKeys() {
	s.Empty(orchestrators.WarriorLockKey(""))
	s.Empty(orchestrators.PlayerLockKey(""))
}
