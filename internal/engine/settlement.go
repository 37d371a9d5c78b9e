package engine

import (
	"context"
	"log/slog"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
)

const (
	winnerBaseXP       = 40
	winnerXPPerCorrect = 4
	loserBaseXP        = 20
	loserXPPerCorrect  = 2
)

// SettlementXP returns the experience awarded to each side of a battle
func SettlementXP(winnerCorrect, loserCorrect uint8) (winnerXP, loserXP uint64) {
	winnerXP = winnerBaseXP + winnerXPPerCorrect*uint64(winnerCorrect)
	loserXP = loserBaseXP + loserXPPerCorrect*uint64(loserCorrect)
	return winnerXP, loserXP
}

func saturatingInc32(v uint32) uint32 {
	if v == ^uint32(0) {
		return v
	}
	return v + 1
}

func saturatingAdd64(v, d uint64) uint64 {
	if v > ^uint64(0)-d {
		return ^uint64(0)
	}
	return v + d
}

func validateSettleInput(input *SettleInput) error {
	vb := errors.NewValidationBuilder()
	if input.Room == nil {
		vb.RequiredField("Room")
	}
	if input.WarriorA == nil {
		vb.RequiredField("WarriorA")
	}
	if input.WarriorB == nil {
		vb.RequiredField("WarriorB")
	}
	if input.ProfileA == nil {
		vb.RequiredField("ProfileA")
	}
	if input.ProfileB == nil {
		vb.RequiredField("ProfileB")
	}
	if input.AchievementsA == nil {
		vb.RequiredField("AchievementsA")
	}
	if input.AchievementsB == nil {
		vb.RequiredField("AchievementsB")
	}
	if input.Config == nil {
		vb.RequiredField("Config")
	}
	if input.Leaderboard == nil {
		vb.RequiredField("Leaderboard")
	}
	return vb.Build()
}

// Settle applies the results of a completed battle with a winner: warrior
// records and experience, player profiles, achievement tiers, the global
// battle counter and the leaderboard. A room settles at most once.
func (e *engine) Settle(ctx context.Context, input *SettleInput) (*SettleOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateSettleInput(input); err != nil {
		return nil, err
	}
	if err := checkRoom(input.Room, input.RoomID); err != nil {
		return nil, err
	}

	room := input.Room
	if err := checkState(room, entities.BattleStateCompleted); err != nil {
		return nil, err
	}
	if !room.HasWinner() {
		return nil, stateViolation(ReasonNoWinner, "battle ended without a winner")
	}
	if room.Settled {
		return nil, stateViolation(ReasonAlreadySettled, "battle was already settled")
	}
	if err := checkWarriors(room, input.WarriorA, input.WarriorB, false); err != nil {
		return nil, err
	}
	if input.ProfileA.Owner != room.PlayerA || input.ProfileB.Owner != room.PlayerB ||
		input.AchievementsA.Owner != room.PlayerA || input.AchievementsB.Owner != room.PlayerB {
		return nil, validationViolation(ReasonRecordMismatch, "player records do not match the room")
	}

	now := e.now()
	aWon := room.Winner == room.PlayerA

	winnerWarrior, loserWarrior := input.WarriorA, input.WarriorB
	winnerProfile, loserProfile := input.ProfileA, input.ProfileB
	winnerAch, loserAch := input.AchievementsA, input.AchievementsB
	winnerCorrect := room.PlayerACorrect
	if !aWon {
		winnerWarrior, loserWarrior = loserWarrior, winnerWarrior
		winnerProfile, loserProfile = loserProfile, winnerProfile
		winnerAch, loserAch = loserAch, winnerAch
		winnerCorrect = room.PlayerBCorrect
	}
	loserCorrect := room.TotalCorrect() - winnerCorrect

	winnerXP, loserXP := SettlementXP(winnerCorrect, loserCorrect)

	winnerWarrior.BattlesWon = saturatingInc32(winnerWarrior.BattlesWon)
	loserWarrior.BattlesLost = saturatingInc32(loserWarrior.BattlesLost)
	winnerWarrior.AddExperience(winnerXP)
	loserWarrior.AddExperience(loserXP)

	for _, w := range []*entities.Warrior{input.WarriorA, input.WarriorB} {
		w.LastBattleAt = now
		w.CooldownExpiresAt = now + input.Config.CooldownTime
	}

	winnerProfile.TotalBattlesWon = saturatingInc32(winnerProfile.TotalBattlesWon)
	winnerProfile.TotalBattlesFought = saturatingInc32(winnerProfile.TotalBattlesFought)
	winnerProfile.TotalPoints = saturatingAdd64(winnerProfile.TotalPoints, winnerXP)

	loserProfile.TotalBattlesLost = saturatingInc32(loserProfile.TotalBattlesLost)
	loserProfile.TotalBattlesFought = saturatingInc32(loserProfile.TotalBattlesFought)
	loserProfile.TotalPoints = saturatingAdd64(loserProfile.TotalPoints, loserXP)

	winnerAch.WinnerAchievement = WinnerTier(winnerProfile.TotalBattlesWon)
	winnerAch.BattleAchievement = BattleTier(winnerProfile.TotalBattlesFought)
	winnerAch.OverallAchievement = OverallTier(winnerProfile.TotalPoints)
	if winnerAch.FirstVictoryDate == 0 {
		winnerAch.FirstVictoryDate = now
	}

	// the loser's winner tier only moves on a win
	loserAch.BattleAchievement = BattleTier(loserProfile.TotalBattlesFought)
	loserAch.OverallAchievement = OverallTier(loserProfile.TotalPoints)

	input.Config.TotalBattles = saturatingAdd64(input.Config.TotalBattles, 1)

	input.Leaderboard.UpdateScore(winnerProfile.Owner, winnerProfile.TotalPoints, now)
	input.Leaderboard.UpdateScore(loserProfile.Owner, loserProfile.TotalPoints, now)
	winnerRank, _ := input.Leaderboard.Rank(winnerProfile.Owner)
	loserRank, _ := input.Leaderboard.Rank(loserProfile.Owner)

	room.Settled = true

	output := &SettleOutput{
		Room:        room,
		Winner:      winnerProfile.Owner,
		Loser:       loserProfile.Owner,
		WinnerXP:    winnerXP,
		LoserXP:     loserXP,
		Elimination: loserWarrior.IsDefeated(),
		WinnerRank:  winnerRank,
		LoserRank:   loserRank,
		WarriorA:    Readiness(input.WarriorA, now),
		WarriorB:    Readiness(input.WarriorB, now),
	}

	slog.InfoContext(ctx, "battle settled",
		"room_id", room.RoomID.String(),
		"winner", output.Winner,
		"loser", output.Loser,
		"winner_xp", winnerXP,
		"loser_xp", loserXP,
		"elimination", output.Elimination,
		"winner_rank", winnerRank,
		"loser_rank", loserRank,
		"total_battles", input.Config.TotalBattles)

	return output, nil
}
