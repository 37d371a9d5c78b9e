package engine

import "github.com/KirkDiggler/undead-arena/internal/entities"

type tierBand struct {
	min   uint64
	level entities.AchievementLevel
}

// bands are listed highest first; the first band whose min is reached wins
var (
	warriorCountBands = []tierBand{
		{51, entities.AchievementDiamond},
		{21, entities.AchievementPlatinum},
		{12, entities.AchievementGold},
		{6, entities.AchievementSilver},
		{1, entities.AchievementBronze},
	}
	winBands = []tierBand{
		{50, entities.AchievementDiamond},
		{25, entities.AchievementPlatinum},
		{10, entities.AchievementGold},
		{3, entities.AchievementSilver},
		{1, entities.AchievementBronze},
	}
	battleBands = []tierBand{
		{200, entities.AchievementDiamond},
		{100, entities.AchievementPlatinum},
		{40, entities.AchievementGold},
		{15, entities.AchievementSilver},
		{5, entities.AchievementBronze},
	}
	pointBands = []tierBand{
		{15000, entities.AchievementDiamond},
		{5000, entities.AchievementPlatinum},
		{1500, entities.AchievementGold},
		{500, entities.AchievementSilver},
		{100, entities.AchievementBronze},
	}
)

func classify(value uint64, bands []tierBand) entities.AchievementLevel {
	for _, b := range bands {
		if value >= b.min {
			return b.level
		}
	}
	return entities.AchievementNone
}

// WarriorTier classifies the number of warriors a player has created
func WarriorTier(warriorsCreated uint32) entities.AchievementLevel {
	return classify(uint64(warriorsCreated), warriorCountBands)
}

// WinnerTier classifies a player's total wins
func WinnerTier(wins uint32) entities.AchievementLevel {
	return classify(uint64(wins), winBands)
}

// BattleTier classifies a player's total battles fought
func BattleTier(battles uint32) entities.AchievementLevel {
	return classify(uint64(battles), battleBands)
}

// OverallTier classifies a player's total points
func OverallTier(points uint64) entities.AchievementLevel {
	return classify(points, pointBands)
}
