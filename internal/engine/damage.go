package engine

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// Phase is the damage band a question falls in
type Phase string

// Question phases
const (
	PhaseLearning Phase = "learning"
	PhasePressure Phase = "pressure"
	PhaseDeadly   Phase = "deadly"
	PhaseUnknown  Phase = "unknown"
)

// DamageBand is the inclusive base damage range of a phase
type DamageBand struct {
	Phase Phase
	Min   uint16
	Max   uint16
}

// BandForQuestion returns the damage band for a zero-based question index
func BandForQuestion(question uint8) DamageBand {
	switch {
	case question <= 2:
		return DamageBand{Phase: PhaseLearning, Min: 2, Max: 10}
	case question <= 6:
		return DamageBand{Phase: PhasePressure, Min: 6, Max: 15}
	case question <= 9:
		return DamageBand{Phase: PhaseDeadly, Min: 10, Max: 20}
	default:
		return DamageBand{Phase: PhaseUnknown, Min: 1, Max: 1}
	}
}

// DamageInput holds everything the damage roll depends on
type DamageInput struct {
	Attacker    entities.Stats
	Defender    entities.Stats
	AttackerKey [32]byte
	DefenderKey [32]byte
	Question    uint8
	RoomID      entities.RoomID
	Seed        uint8
}

// DamageResult explains a damage roll
type DamageResult struct {
	Band     DamageBand
	Roll     uint16
	Base     uint16
	Modifier int32
	Damage   uint16
}

// ResolveDamage computes the damage of one correct answer. The result
// depends only on the input: the same input always yields the same damage,
// and damage is never below 1.
func ResolveDamage(input DamageInput) DamageResult {
	buf := make([]byte, 0, len(input.RoomID)+1+32+32+1)
	buf = append(buf, input.RoomID[:]...)
	buf = append(buf, input.Question)
	buf = append(buf, input.AttackerKey[:]...)
	buf = append(buf, input.DefenderKey[:]...)
	buf = append(buf, input.Seed)

	sum := sha256.Sum256(buf)
	roll := binary.LittleEndian.Uint16(sum[:2])

	band := BandForQuestion(input.Question)
	base := band.Min + roll%(band.Max-band.Min+1)

	modifier := (int32(input.Attacker.Attack) -
		(int32(input.Defender.Defense) + int32(input.Defender.Knowledge))) / 10

	damage := int32(base) + modifier
	if damage < 1 {
		damage = 1
	}

	return DamageResult{
		Band:     band,
		Roll:     roll,
		Base:     base,
		Modifier: modifier,
		Damage:   uint16(damage),
	}
}
