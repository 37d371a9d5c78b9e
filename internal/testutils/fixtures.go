package testutils

import (
	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// Room stages for testing
const (
	StageJoined     = "joined"
	StageReady      = "ready"
	StageInProgress = "in_progress"
	StageCompleted  = "completed"

	// TestCreatedAt is the creation time stamped on fixture records
	TestCreatedAt int64 = 1_700_000_000
)

// NewWarrior creates a full-HP warrior with fixed mid-range stats for class
func NewWarrior(owner, name string, class entities.WarriorClass) *entities.Warrior {
	stats := map[entities.WarriorClass]entities.Stats{
		entities.WarriorClassValidator: {Attack: 80, Defense: 38, Knowledge: 38},
		entities.WarriorClassOracle:    {Attack: 65, Defense: 33, Knowledge: 55},
		entities.WarriorClassGuardian:  {Attack: 60, Defense: 60, Knowledge: 33},
		entities.WarriorClassDaemon:    {Attack: 100, Defense: 28, Knowledge: 28},
	}[class]

	return &entities.Warrior{
		ID:            entities.WarriorID(owner, name),
		Owner:         owner,
		Name:          name,
		Class:         class,
		BaseAttack:    stats.Attack,
		BaseDefense:   stats.Defense,
		BaseKnowledge: stats.Knowledge,
		CurrentHP:     entities.MaxWarriorHP,
		MaxHP:         entities.MaxWarriorHP,
		Level:         1,
		CreatedAt:     TestCreatedAt,
	}
}

// NewRoom creates a room in QuestionsSelected owned by player. The room id
// is derived from seed and correct answers alternate true/false.
func NewRoom(seed, player, warriorID string) *entities.BattleRoom {
	room := &entities.BattleRoom{
		RoomID:           entities.NewRoomID(seed),
		CreatedAt:        TestCreatedAt,
		PlayerA:          player,
		WarriorA:         warriorID,
		SelectedConcepts: [entities.ConceptCount]uint8{1, 2, 3, 4, 5},
		State:            entities.BattleStateQuestionsSelected,
	}
	for i := range room.CorrectAnswers {
		room.CorrectAnswers[i] = i%2 == 0
		room.SelectedTopics[i] = uint8(i%5 + 1)
		room.SelectedQuestions[i] = uint16(100 + i)
	}
	return room
}

// NewRoomAtStage creates a two-player room advanced to stage. Answers are
// filled in so every question before CurrentQuestion has both sides.
func NewRoomAtStage(seed string, a, b *entities.Warrior, stage string) *entities.BattleRoom {
	room := NewRoom(seed, a.Owner, a.ID)
	room.PlayerB = b.Owner
	room.WarriorB = b.ID

	switch stage {
	case StageJoined:
		return room

	case StageReady:
		room.PlayerAReady = true
		room.PlayerBReady = true
		room.State = entities.BattleStateReadyForDelegation

	case StageInProgress:
		room.PlayerAReady = true
		room.PlayerBReady = true
		room.State = entities.BattleStateInProgress
		room.BattleStartTime = TestCreatedAt + 10

	case StageCompleted:
		room.PlayerAReady = true
		room.PlayerBReady = true
		room.State = entities.BattleStateCompleted
		room.BattleStartTime = TestCreatedAt + 10
		room.BattleDuration = 300
		room.CurrentQuestion = entities.QuestionCount
		for i := range room.PlayerAAnswers {
			right, wrong := room.CorrectAnswers[i], !room.CorrectAnswers[i]
			room.PlayerAAnswers[i] = &right
			room.PlayerBAnswers[i] = &wrong
		}
		room.PlayerACorrect = entities.QuestionCount
		room.Winner = room.PlayerA
	}

	return room
}
