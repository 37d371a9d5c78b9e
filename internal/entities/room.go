package entities

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/KirkDiggler/undead-arena/internal/errors"
)

const (
	// QuestionCount is the number of questions in every battle
	QuestionCount = 10

	// ConceptCount is the number of concepts chosen per room
	ConceptCount = 5

	// MinConceptID and MaxConceptID bound concept identifiers
	MinConceptID = 1
	MaxConceptID = 10
)

// BattleState is the lifecycle stage of a battle room
type BattleState string

// Battle states
const (
	BattleStateQuestionsSelected  BattleState = "questions_selected"
	BattleStateReadyForDelegation BattleState = "ready_for_delegation"
	BattleStateInProgress         BattleState = "in_progress"
	BattleStateCompleted          BattleState = "completed"
	BattleStateCancelled          BattleState = "cancelled"
)

// IsTerminal reports whether no further transitions are possible
func (s BattleState) IsTerminal() bool {
	return s == BattleStateCompleted || s == BattleStateCancelled
}

// RoomID is the 32 byte opaque room key
type RoomID [32]byte

// NewRoomID derives a room id from an arbitrary seed string
func NewRoomID(seed string) RoomID {
	return RoomID(sha256.Sum256([]byte(seed)))
}

// ParseRoomID parses the hex form produced by String. Malformed input is an
// InvalidArgument error.
func ParseRoomID(s string) (RoomID, error) {
	var id RoomID
	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, errors.WrapWithCode(err, errors.CodeInvalidArgument, "room id is not hex")
	}
	if len(raw) != len(id) {
		return id, errors.InvalidArgumentf("room id must be %d bytes, got %d", len(id), len(raw))
	}
	copy(id[:], raw)
	return id, nil
}

// String returns the hex encoding of the id
func (id RoomID) String() string {
	return hex.EncodeToString(id[:])
}

// IsZero reports whether the id is unset
func (id RoomID) IsZero() bool {
	return id == RoomID{}
}

// MarshalText encodes the id as hex
func (id RoomID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText decodes a hex id
func (id *RoomID) UnmarshalText(text []byte) error {
	parsed, err := ParseRoomID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// BattleRoom is one match between two players' warriors.
// Empty PlayerB/WarriorB/Winner mean "not set".
type BattleRoom struct {
	RoomID            RoomID                `json:"room_id"`
	CreatedAt         int64                 `json:"created_at"`
	PlayerA           string                `json:"player_a"`
	PlayerB           string                `json:"player_b,omitempty"`
	WarriorA          string                `json:"warrior_a"`
	WarriorB          string                `json:"warrior_b,omitempty"`
	SelectedConcepts  [ConceptCount]uint8   `json:"selected_concepts"`
	SelectedTopics    [QuestionCount]uint8  `json:"selected_topics"`
	SelectedQuestions [QuestionCount]uint16 `json:"selected_questions"`
	CorrectAnswers    [QuestionCount]bool   `json:"correct_answers"`
	State             BattleState           `json:"state"`
	PlayerAReady      bool                  `json:"player_a_ready"`
	PlayerBReady      bool                  `json:"player_b_ready"`
	CurrentQuestion   uint8                 `json:"current_question"`
	PlayerAAnswers    [QuestionCount]*bool  `json:"player_a_answers"`
	PlayerBAnswers    [QuestionCount]*bool  `json:"player_b_answers"`
	PlayerACorrect    uint8                 `json:"player_a_correct"`
	PlayerBCorrect    uint8                 `json:"player_b_correct"`
	Winner            string                `json:"winner,omitempty"`
	BattleDuration    int64                 `json:"battle_duration"`
	BattleStartTime   int64                 `json:"battle_start_time"`
	Settled           bool                  `json:"settled"`
}

// HasPlayerB reports whether the second slot is filled
func (r *BattleRoom) HasPlayerB() bool {
	return r.PlayerB != ""
}

// HasWinner reports whether a winner was declared
func (r *BattleRoom) HasWinner() bool {
	return r.Winner != ""
}

// IsParticipant reports whether player occupies either slot
func (r *BattleRoom) IsParticipant(player string) bool {
	return player != "" && (player == r.PlayerA || player == r.PlayerB)
}

// HasAnswered reports whether player has answered question q
func (r *BattleRoom) HasAnswered(player string, q uint8) bool {
	if int(q) >= QuestionCount {
		return false
	}
	switch player {
	case r.PlayerA:
		return r.PlayerAAnswers[q] != nil
	case r.PlayerB:
		return r.PlayerBAnswers[q] != nil
	default:
		return false
	}
}

// TotalCorrect is the combined correct answer count of both players
func (r *BattleRoom) TotalCorrect() uint8 {
	return r.PlayerACorrect + r.PlayerBCorrect
}

// ResetProgress clears answers, scores, duration and winner
func (r *BattleRoom) ResetProgress() {
	r.CurrentQuestion = 0
	r.PlayerAAnswers = [QuestionCount]*bool{}
	r.PlayerBAnswers = [QuestionCount]*bool{}
	r.PlayerACorrect = 0
	r.PlayerBCorrect = 0
	r.BattleDuration = 0
	r.Winner = ""
}
