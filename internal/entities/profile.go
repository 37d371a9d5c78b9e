package entities

import "fmt"

// AchievementLevel is an ordered achievement tier
type AchievementLevel uint8

// Achievement tiers, lowest first
const (
	AchievementNone AchievementLevel = iota
	AchievementBronze
	AchievementSilver
	AchievementGold
	AchievementPlatinum
	AchievementDiamond
)

var achievementNames = [...]string{"none", "bronze", "silver", "gold", "platinum", "diamond"}

// String returns the lower-case tier name
func (l AchievementLevel) String() string {
	if int(l) < len(achievementNames) {
		return achievementNames[l]
	}
	return fmt.Sprintf("achievement(%d)", uint8(l))
}

// MarshalText encodes the tier by name
func (l AchievementLevel) MarshalText() ([]byte, error) {
	if int(l) >= len(achievementNames) {
		return nil, fmt.Errorf("unknown achievement level %d", uint8(l))
	}
	return []byte(achievementNames[l]), nil
}

// UnmarshalText decodes a tier name
func (l *AchievementLevel) UnmarshalText(text []byte) error {
	for i, name := range achievementNames {
		if name == string(text) {
			*l = AchievementLevel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown achievement level %q", string(text))
}

// UserProfile holds a player's cumulative counters
type UserProfile struct {
	Owner              string `json:"owner"`
	WarriorsCreated    uint32 `json:"warriors_created"`
	TotalBattlesWon    uint32 `json:"total_battles_won"`
	TotalBattlesLost   uint32 `json:"total_battles_lost"`
	TotalBattlesFought uint32 `json:"total_battles_fought"`
	TotalPoints        uint64 `json:"total_points"`
	JoinDate           int64  `json:"join_date"`
}

// NewUserProfile returns an empty profile for owner
func NewUserProfile(owner string, now int64) *UserProfile {
	return &UserProfile{Owner: owner, JoinDate: now}
}

// UserAchievements holds a player's four independently computed tiers
type UserAchievements struct {
	Owner              string           `json:"owner"`
	WarriorAchievement AchievementLevel `json:"warrior_achievement"`
	WinnerAchievement  AchievementLevel `json:"winner_achievement"`
	BattleAchievement  AchievementLevel `json:"battle_achievement"`
	OverallAchievement AchievementLevel `json:"overall_achievement"`
	FirstWarriorDate   int64            `json:"first_warrior_date"`
	FirstVictoryDate   int64            `json:"first_victory_date"`
}

// NewUserAchievements returns an all-None record for owner
func NewUserAchievements(owner string) *UserAchievements {
	return &UserAchievements{Owner: owner}
}

// GameConfig is the process-wide game configuration and counters
type GameConfig struct {
	Admin         string `json:"admin"`
	TotalWarriors uint64 `json:"total_warriors"`
	CooldownTime  int64  `json:"cooldown_time"`
	TotalBattles  uint64 `json:"total_battles"`
	IsPaused      bool   `json:"is_paused"`
	CreatedAt     int64  `json:"created_at"`
}

// IsAdmin reports whether actor is the configured administrator
func (c *GameConfig) IsAdmin(actor string) bool {
	return actor != "" && actor == c.Admin
}
