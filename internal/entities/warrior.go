// Package entities provides the records the arena engine reads and writes:
// warriors, battle rooms, player profiles, the leaderboard and game config.
package entities

import (
	"crypto/sha256"
	"strings"
)

const (
	// MaxWarriorHP is the fixed hit point ceiling for every warrior
	MaxWarriorHP uint16 = 100

	// MaxWarriorNameLength is the longest accepted warrior name in bytes
	MaxWarriorNameLength = 32

	// XPPerLevel is the experience needed per level
	XPPerLevel uint64 = 100
)

// WarriorClass determines a warrior's stat profile
type WarriorClass string

// Warrior classes
const (
	WarriorClassValidator WarriorClass = "validator"
	WarriorClassOracle    WarriorClass = "oracle"
	WarriorClassGuardian  WarriorClass = "guardian"
	WarriorClassDaemon    WarriorClass = "daemon"
)

// WarriorClasses lists every class in declaration order
func WarriorClasses() []WarriorClass {
	return []WarriorClass{
		WarriorClassValidator,
		WarriorClassOracle,
		WarriorClassGuardian,
		WarriorClassDaemon,
	}
}

// IsValid reports whether c is a known class
func (c WarriorClass) IsValid() bool {
	for _, known := range WarriorClasses() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseWarriorClass parses a case-insensitive class name
func ParseWarriorClass(s string) (WarriorClass, bool) {
	c := WarriorClass(strings.ToLower(strings.TrimSpace(s)))
	return c, c.IsValid()
}

// Stats are the immutable combat stats rolled at creation
type Stats struct {
	Attack    uint16 `json:"attack"`
	Defense   uint16 `json:"defense"`
	Knowledge uint16 `json:"knowledge"`
}

// Warrior is a player-owned fighter
type Warrior struct {
	ID                string       `json:"id"`
	Owner             string       `json:"owner"`
	Name              string       `json:"name"`
	DNA               [8]byte      `json:"dna"`
	Class             WarriorClass `json:"class"`
	BaseAttack        uint16       `json:"base_attack"`
	BaseDefense       uint16       `json:"base_defense"`
	BaseKnowledge     uint16       `json:"base_knowledge"`
	CurrentHP         uint16       `json:"current_hp"`
	MaxHP             uint16       `json:"max_hp"`
	BattlesWon        uint32       `json:"battles_won"`
	BattlesLost       uint32       `json:"battles_lost"`
	ExperiencePoints  uint64       `json:"experience_points"`
	Level             uint16       `json:"level"`
	CooldownExpiresAt int64        `json:"cooldown_expires_at"`
	LastBattleAt      int64        `json:"last_battle_at"`
	CreatedAt         int64        `json:"created_at"`
}

// WarriorIDSeparator joins owner and name in a warrior id. Neither part may
// contain it, which keeps ids unambiguous.
const WarriorIDSeparator = ":"

// WarriorID derives the stable warrior identifier from owner and name
func WarriorID(owner, name string) string {
	return owner + WarriorIDSeparator + name
}

// SplitWarriorID is the inverse of WarriorID. ok is false unless id holds
// exactly one separator between two non-empty parts.
func SplitWarriorID(id string) (owner, name string, ok bool) {
	owner, name, found := strings.Cut(id, WarriorIDSeparator)
	if !found || owner == "" || name == "" || strings.Contains(name, WarriorIDSeparator) {
		return "", "", false
	}
	return owner, name, true
}

// Key is the 32 byte warrior key mixed into damage hashes
func (w *Warrior) Key() [32]byte {
	return sha256.Sum256([]byte(w.ID))
}

// Stats returns the warrior's base stats
func (w *Warrior) Stats() Stats {
	return Stats{
		Attack:    w.BaseAttack,
		Defense:   w.BaseDefense,
		Knowledge: w.BaseKnowledge,
	}
}

// IsReady reports whether the warrior is off cooldown at now (unix seconds)
func (w *Warrior) IsReady(now int64) bool {
	return now >= w.CooldownExpiresAt
}

// IsDefeated reports whether the warrior has no hit points left
func (w *Warrior) IsDefeated() bool {
	return w.CurrentHP == 0
}

// Heal restores the warrior to full hit points
func (w *Warrior) Heal() {
	w.CurrentHP = w.MaxHP
}

// TakeDamage lowers current HP, stopping at zero
func (w *Warrior) TakeDamage(damage uint16) {
	if damage >= w.CurrentHP {
		w.CurrentHP = 0
		return
	}
	w.CurrentHP -= damage
}

// AddExperience adds xp, saturating at the counter ceiling, and recomputes level
func (w *Warrior) AddExperience(xp uint64) {
	if w.ExperiencePoints > ^uint64(0)-xp {
		w.ExperiencePoints = ^uint64(0)
	} else {
		w.ExperiencePoints += xp
	}
	w.Level = LevelForExperience(w.ExperiencePoints)
}

// LevelForExperience maps cumulative experience to a level, starting at 1
func LevelForExperience(xp uint64) uint16 {
	level := 1 + xp/XPPerLevel
	if level > uint64(^uint16(0)) {
		return ^uint16(0)
	}
	return uint16(level)
}
