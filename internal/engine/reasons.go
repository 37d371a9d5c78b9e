package engine

import (
	"github.com/KirkDiggler/undead-arena/internal/errors"
)

// Failure reasons attached to engine errors. Read them with errors.GetReason.
const (
	ReasonRoomIDMismatch       = "room_id_mismatch"
	ReasonInvalidRoomID        = "invalid_room_id"
	ReasonInvalidBattleState   = "invalid_battle_state"
	ReasonInvalidConcepts      = "invalid_concepts"
	ReasonInvalidWarriorName   = "invalid_warrior_name"
	ReasonInvalidOwner         = "invalid_owner"
	ReasonInvalidWarriorClass  = "invalid_warrior_class"
	ReasonWarriorMismatch      = "warrior_mismatch"
	ReasonSameWarrior          = "same_warrior"
	ReasonAlreadyReady         = "already_ready"
	ReasonAlreadyAnswered      = "already_answered"
	ReasonAllQuestionsAnswered = "all_questions_answered"
	ReasonOpponentNotJoined    = "opponent_not_joined"
	ReasonPlayersNotReady      = "players_not_ready"
	ReasonWinnerAlreadySet     = "winner_already_set"
	ReasonNoWinner             = "no_winner"
	ReasonAlreadySettled       = "battle_already_settled"
	ReasonGamePaused           = "game_paused"
	ReasonRecordMismatch       = "record_mismatch"
	ReasonNotWarriorOwner      = "not_warrior_owner"
	ReasonNotParticipant       = "not_room_participant"
	ReasonNotRoomCreator       = "not_room_creator"
	ReasonCannotJoinOwnRoom    = "cannot_join_own_room"
	ReasonNotAdmin             = "not_admin"
	ReasonWarriorOnCooldown    = "warrior_on_cooldown"
	ReasonWarriorDefeated      = "warrior_defeated"
	ReasonWarriorNotHealed     = "warrior_not_at_full_hp"
	ReasonRoomFull             = "room_full"
	ReasonWarriorInBattle      = "warrior_in_battle"
)

func stateViolation(reason, message string) *errors.Error {
	return errors.New(errors.StateViolation, message).WithReason(reason)
}

func authorizationViolation(reason, message string) *errors.Error {
	return errors.New(errors.AuthorizationViolation, message).WithReason(reason)
}

func validationViolation(reason, message string) *errors.Error {
	return errors.New(errors.ValidationViolation, message).WithReason(reason)
}

func resourceUnavailable(reason, message string) *errors.Error {
	return errors.New(errors.ResourceUnavailable, message).WithReason(reason)
}
