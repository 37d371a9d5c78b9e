package engine

import (
	"context"
	"log/slog"
	"slices"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
)

func checkRoom(room *entities.BattleRoom, roomID entities.RoomID) error {
	if room == nil {
		return errors.InvalidArgument("room is required")
	}
	if room.RoomID != roomID {
		return validationViolation(ReasonRoomIDMismatch, "room id does not match the room").
			WithMeta("room_id", roomID.String())
	}
	return nil
}

func checkState(room *entities.BattleRoom, allowed ...entities.BattleState) error {
	if slices.Contains(allowed, room.State) {
		return nil
	}
	return stateViolation(ReasonInvalidBattleState, "battle room is not in the required state").
		WithMeta("state", string(room.State))
}

// checkWarriors verifies the loaded warriors are the ones the room references.
// b may be nil only when allowMissingB is set and no second warrior joined.
func checkWarriors(room *entities.BattleRoom, a, b *entities.Warrior, allowMissingB bool) error {
	if a == nil || a.ID != room.WarriorA {
		return validationViolation(ReasonWarriorMismatch, "warrior A does not belong to this room")
	}
	if room.WarriorB == "" {
		if b != nil {
			return validationViolation(ReasonWarriorMismatch, "room has no warrior B")
		}
		if !allowMissingB {
			return stateViolation(ReasonOpponentNotJoined, "no opponent has joined the room")
		}
		return nil
	}
	if b == nil || b.ID != room.WarriorB {
		return validationViolation(ReasonWarriorMismatch, "warrior B does not belong to this room")
	}
	return nil
}

func validateConcepts(concepts [entities.ConceptCount]uint8) error {
	sorted := concepts
	slices.Sort(sorted[:])
	for i, c := range sorted {
		if c < entities.MinConceptID || c > entities.MaxConceptID {
			return validationViolation(ReasonInvalidConcepts, "concept id out of range").
				WithMeta("concept", c)
		}
		if i > 0 && sorted[i-1] == c {
			return validationViolation(ReasonInvalidConcepts, "duplicate concept id").
				WithMeta("concept", c)
		}
	}
	return nil
}

// CreateRoom opens a room in QuestionsSelected with the creator in slot A
func (e *engine) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.RoomID.IsZero() {
		return nil, validationViolation(ReasonInvalidRoomID, "room id is required")
	}
	if input.Warrior == nil {
		return nil, errors.InvalidArgument("warrior is required")
	}
	if input.Config != nil && input.Config.IsPaused {
		return nil, stateViolation(ReasonGamePaused, "game is paused")
	}
	if input.Actor == "" || input.Warrior.Owner != input.Actor {
		return nil, authorizationViolation(ReasonNotWarriorOwner, "warrior is not owned by the caller")
	}

	now := e.now()
	if !input.Warrior.IsReady(now) {
		return nil, resourceUnavailable(ReasonWarriorOnCooldown, "warrior is on cooldown").
			WithMeta("cooldown_expires_at", input.Warrior.CooldownExpiresAt)
	}
	if err := checkNotInBattle(input.LiveRoom); err != nil {
		return nil, err
	}
	if err := validateConcepts(input.SelectedConcepts); err != nil {
		return nil, err
	}

	room := &entities.BattleRoom{
		RoomID:            input.RoomID,
		CreatedAt:         now,
		PlayerA:           input.Actor,
		WarriorA:          input.Warrior.ID,
		SelectedConcepts:  input.SelectedConcepts,
		SelectedTopics:    input.SelectedTopics,
		SelectedQuestions: input.SelectedQuestions,
		CorrectAnswers:    input.CorrectAnswers,
		State:             entities.BattleStateQuestionsSelected,
	}

	slog.DebugContext(ctx, "battle room created",
		"room_id", room.RoomID.String(),
		"player_a", room.PlayerA,
		"warrior_a", room.WarriorA)

	return &CreateRoomOutput{Room: room}, nil
}

// JoinRoom puts the caller and their warrior into slot B
func (e *engine) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := checkRoom(input.Room, input.RoomID); err != nil {
		return nil, err
	}
	if input.Warrior == nil {
		return nil, errors.InvalidArgument("warrior is required")
	}

	room := input.Room
	if err := checkState(room, entities.BattleStateQuestionsSelected); err != nil {
		return nil, err
	}
	if room.HasPlayerB() {
		return nil, resourceUnavailable(ReasonRoomFull, "battle room already has two players")
	}
	if input.Actor == "" || input.Actor == room.PlayerA {
		return nil, authorizationViolation(ReasonCannotJoinOwnRoom, "cannot join your own room")
	}
	if input.Warrior.Owner != input.Actor {
		return nil, authorizationViolation(ReasonNotWarriorOwner, "warrior is not owned by the caller")
	}
	if !input.Warrior.IsReady(e.now()) {
		return nil, resourceUnavailable(ReasonWarriorOnCooldown, "warrior is on cooldown").
			WithMeta("cooldown_expires_at", input.Warrior.CooldownExpiresAt)
	}
	if input.Warrior.ID == room.WarriorA {
		return nil, validationViolation(ReasonSameWarrior, "a warrior cannot battle itself")
	}
	if err := checkNotInBattle(input.LiveRoom); err != nil {
		return nil, err
	}

	room.PlayerB = input.Actor
	room.WarriorB = input.Warrior.ID
	room.PlayerBReady = false

	slog.DebugContext(ctx, "battle room joined",
		"room_id", room.RoomID.String(),
		"player_b", room.PlayerB,
		"warrior_b", room.WarriorB)

	return &JoinRoomOutput{Room: room}, nil
}

// SignalReady marks the caller ready. The second signal heals both
// warriors, clears battle progress and moves the room to ReadyForDelegation.
func (e *engine) SignalReady(ctx context.Context, input *SignalReadyInput) (*SignalReadyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := checkRoom(input.Room, input.RoomID); err != nil {
		return nil, err
	}

	room := input.Room
	if err := checkState(room, entities.BattleStateQuestionsSelected); err != nil {
		return nil, err
	}
	if !room.IsParticipant(input.Actor) {
		return nil, authorizationViolation(ReasonNotParticipant, "caller is not in this room")
	}
	if err := checkWarriors(room, input.WarriorA, input.WarriorB, false); err != nil {
		return nil, err
	}

	isA := input.Actor == room.PlayerA
	if (isA && room.PlayerAReady) || (!isA && room.PlayerBReady) {
		return nil, stateViolation(ReasonAlreadyReady, "player already signalled ready").
			WithMeta("player", input.Actor)
	}

	if isA {
		room.PlayerAReady = true
	} else {
		room.PlayerBReady = true
	}

	bothReady := room.PlayerAReady && room.PlayerBReady
	if bothReady {
		input.WarriorA.Heal()
		input.WarriorB.Heal()
		room.ResetProgress()
		room.State = entities.BattleStateReadyForDelegation

		slog.InfoContext(ctx, "both players ready",
			"room_id", room.RoomID.String(),
			"warrior_a", room.WarriorA,
			"warrior_b", room.WarriorB)
	}

	return &SignalReadyOutput{
		Room:      room,
		WarriorA:  input.WarriorA,
		WarriorB:  input.WarriorB,
		BothReady: bothReady,
	}, nil
}

// StartBattle moves a prepared room to InProgress and starts the battle clock
func (e *engine) StartBattle(ctx context.Context, input *StartBattleInput) (*StartBattleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := checkRoom(input.Room, input.RoomID); err != nil {
		return nil, err
	}

	room := input.Room
	if err := checkState(room, entities.BattleStateReadyForDelegation); err != nil {
		return nil, err
	}
	if !room.IsParticipant(input.Actor) {
		return nil, authorizationViolation(ReasonNotParticipant, "caller is not in this room")
	}
	if !room.PlayerAReady || !room.PlayerBReady {
		return nil, stateViolation(ReasonPlayersNotReady, "both players must be ready")
	}
	if room.HasWinner() {
		return nil, stateViolation(ReasonWinnerAlreadySet, "battle already has a winner")
	}
	if err := checkWarriors(room, input.WarriorA, input.WarriorB, false); err != nil {
		return nil, err
	}
	for _, w := range []*entities.Warrior{input.WarriorA, input.WarriorB} {
		if w.IsDefeated() {
			return nil, resourceUnavailable(ReasonWarriorDefeated, "warrior has no hit points").
				WithMeta("warrior_id", w.ID)
		}
		if w.CurrentHP != w.MaxHP {
			return nil, resourceUnavailable(ReasonWarriorNotHealed, "warrior must start at full hit points").
				WithMeta("warrior_id", w.ID)
		}
	}

	room.ResetProgress()
	room.State = entities.BattleStateInProgress
	room.BattleStartTime = e.now()

	slog.InfoContext(ctx, "battle started",
		"room_id", room.RoomID.String(),
		"start_time", room.BattleStartTime)

	return &StartBattleOutput{Room: room}, nil
}

// AnswerQuestion records the caller's answer. When both answers for the
// current question are in, they are revealed, damage is applied, and the
// battle either advances or completes.
func (e *engine) AnswerQuestion(ctx context.Context, input *AnswerQuestionInput) (*AnswerQuestionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := checkRoom(input.Room, input.RoomID); err != nil {
		return nil, err
	}

	room := input.Room
	if err := checkState(room, entities.BattleStateInProgress); err != nil {
		return nil, err
	}
	q := room.CurrentQuestion
	if int(q) >= entities.QuestionCount {
		return nil, stateViolation(ReasonAllQuestionsAnswered, "all questions have been answered")
	}
	if !room.IsParticipant(input.Actor) {
		return nil, authorizationViolation(ReasonNotParticipant, "caller is not in this room")
	}
	if err := checkWarriors(room, input.WarriorA, input.WarriorB, false); err != nil {
		return nil, err
	}
	if room.HasAnswered(input.Actor, q) {
		return nil, validationViolation(ReasonAlreadyAnswered, "question already answered").
			WithMeta("question", q)
	}
	for _, w := range []*entities.Warrior{input.WarriorA, input.WarriorB} {
		if w.IsDefeated() {
			return nil, resourceUnavailable(ReasonWarriorDefeated, "warrior has no hit points").
				WithMeta("warrior_id", w.ID)
		}
	}

	answer := input.Answer
	if input.Actor == room.PlayerA {
		room.PlayerAAnswers[q] = &answer
	} else {
		room.PlayerBAnswers[q] = &answer
	}

	output := &AnswerQuestionOutput{
		Room:     room,
		WarriorA: input.WarriorA,
		WarriorB: input.WarriorB,
	}

	if room.PlayerAAnswers[q] == nil || room.PlayerBAnswers[q] == nil {
		slog.DebugContext(ctx, "waiting for opponent answer",
			"room_id", room.RoomID.String(),
			"question", q,
			"player", input.Actor)
		return output, nil
	}

	output.Round = e.revealQuestion(room, input.WarriorA, input.WarriorB, input.Seed)

	slog.InfoContext(ctx, "question revealed",
		"room_id", room.RoomID.String(),
		"question", q,
		"phase", output.Round.Phase,
		"player_a_correct", output.Round.PlayerACorrect,
		"player_b_correct", output.Round.PlayerBCorrect,
		"hp_a", input.WarriorA.CurrentHP,
		"hp_b", input.WarriorB.CurrentHP,
		"completed", output.Round.Completed,
		"winner", output.Round.Winner)

	return output, nil
}

func (e *engine) revealQuestion(room *entities.BattleRoom, a, b *entities.Warrior, seed uint8) *RoundResult {
	q := room.CurrentQuestion
	correct := room.CorrectAnswers[q]

	round := &RoundResult{
		Question:       q,
		Phase:          BandForQuestion(q).Phase,
		PlayerACorrect: *room.PlayerAAnswers[q] == correct,
		PlayerBCorrect: *room.PlayerBAnswers[q] == correct,
	}

	if round.PlayerACorrect {
		room.PlayerACorrect++
	}
	if round.PlayerBCorrect {
		room.PlayerBCorrect++
	}

	if round.PlayerACorrect {
		result := strike(room, a, b, q, seed)
		round.DamageToB = &result
		if b.IsDefeated() {
			room.Winner = room.PlayerA
			room.State = entities.BattleStateCompleted
			round.Elimination = true
		}
	}

	if round.PlayerBCorrect && room.State != entities.BattleStateCompleted {
		result := strike(room, b, a, q, seed+1)
		round.DamageToA = &result
		if a.IsDefeated() {
			room.Winner = room.PlayerB
			room.State = entities.BattleStateCompleted
			round.Elimination = true
		}
	}

	if room.State != entities.BattleStateCompleted && int(q) == entities.QuestionCount-1 {
		room.Winner = decideWinner(room, a, b)
		room.State = entities.BattleStateCompleted
	}

	// a revealed question is done even when the battle ended on it
	room.CurrentQuestion = q + 1
	room.BattleDuration = e.now() - room.BattleStartTime

	round.Completed = room.State == entities.BattleStateCompleted
	round.Winner = room.Winner
	return round
}

func strike(room *entities.BattleRoom, attacker, defender *entities.Warrior, q, seed uint8) DamageResult {
	result := ResolveDamage(DamageInput{
		Attacker:    attacker.Stats(),
		Defender:    defender.Stats(),
		AttackerKey: attacker.Key(),
		DefenderKey: defender.Key(),
		Question:    q,
		RoomID:      room.RoomID,
		Seed:        seed,
	})
	defender.TakeDamage(result.Damage)
	return result
}

// decideWinner applies the tiebreak ladder: higher HP, then more correct
// answers, then player A.
func decideWinner(room *entities.BattleRoom, a, b *entities.Warrior) string {
	switch {
	case a.CurrentHP > b.CurrentHP:
		return room.PlayerA
	case b.CurrentHP > a.CurrentHP:
		return room.PlayerB
	case room.PlayerACorrect > room.PlayerBCorrect:
		return room.PlayerA
	case room.PlayerBCorrect > room.PlayerACorrect:
		return room.PlayerB
	default:
		return room.PlayerA
	}
}

// CancelRoom lets the creator abandon a room that has not started
func (e *engine) CancelRoom(ctx context.Context, input *CancelRoomInput) (*CancelRoomOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := checkRoom(input.Room, input.RoomID); err != nil {
		return nil, err
	}

	room := input.Room
	if input.Actor == "" || input.Actor != room.PlayerA {
		return nil, authorizationViolation(ReasonNotRoomCreator, "only the room creator can cancel")
	}
	if err := checkState(room,
		entities.BattleStateQuestionsSelected,
		entities.BattleStateReadyForDelegation,
	); err != nil {
		return nil, err
	}
	if err := checkWarriors(room, input.WarriorA, input.WarriorB, true); err != nil {
		return nil, err
	}

	for _, w := range []*entities.Warrior{input.WarriorA, input.WarriorB} {
		if w == nil {
			continue
		}
		w.CooldownExpiresAt = 0
		w.LastBattleAt = 0
	}

	room.State = entities.BattleStateCancelled
	room.Winner = ""
	room.BattleDuration = e.now() - room.CreatedAt

	slog.InfoContext(ctx, "battle room cancelled",
		"room_id", room.RoomID.String(),
		"player_a", room.PlayerA)

	return &CancelRoomOutput{
		Room:     room,
		WarriorA: input.WarriorA,
		WarriorB: input.WarriorB,
	}, nil
}

// EmergencyTerminate ends a live room with no contest. Both warriors are
// healed and get an eighth of the normal cooldown. No settlement follows.
func (e *engine) EmergencyTerminate(
	ctx context.Context,
	input *EmergencyTerminateInput,
) (*EmergencyTerminateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Config == nil {
		return nil, errors.InvalidArgument("game config is required")
	}
	if err := checkRoom(input.Room, input.RoomID); err != nil {
		return nil, err
	}

	room := input.Room
	if !input.Config.IsAdmin(input.Actor) {
		return nil, authorizationViolation(ReasonNotAdmin, "only the game admin can terminate a battle")
	}
	if room.State.IsTerminal() {
		return nil, stateViolation(ReasonInvalidBattleState, "battle room has already ended").
			WithMeta("state", string(room.State))
	}
	if err := checkWarriors(room, input.WarriorA, input.WarriorB, true); err != nil {
		return nil, err
	}

	now := e.now()
	emergencyCooldown := input.Config.CooldownTime / 8
	for _, w := range []*entities.Warrior{input.WarriorA, input.WarriorB} {
		if w == nil {
			continue
		}
		w.Heal()
		w.LastBattleAt = now
		w.CooldownExpiresAt = now + emergencyCooldown
	}

	room.Winner = ""
	room.State = entities.BattleStateCompleted
	if room.BattleStartTime > 0 {
		room.BattleDuration = now - room.BattleStartTime
	} else {
		room.BattleDuration = 0
	}

	slog.WarnContext(ctx, "battle terminated by admin",
		"room_id", room.RoomID.String(),
		"admin", input.Actor,
		"emergency_cooldown", emergencyCooldown)

	return &EmergencyTerminateOutput{
		Room:     room,
		WarriorA: input.WarriorA,
		WarriorB: input.WarriorB,
	}, nil
}

// checkNotInBattle rejects a warrior that already fights in another live room
func checkNotInBattle(live entities.RoomID) error {
	if live.IsZero() {
		return nil
	}
	return resourceUnavailable(ReasonWarriorInBattle, "warrior is already in a live battle room").
		WithMeta("live_room_id", live.String())
}
