package engine

import (
	"crypto/sha256"

	"github.com/KirkDiggler/rpg-toolkit/dice"

	"github.com/KirkDiggler/undead-arena/internal/entities"
	"github.com/KirkDiggler/undead-arena/internal/errors"
)

// classProfile is base + 1dN for each stat
type classProfile struct {
	attackBase, attackDie       int
	defenseBase, defenseDie     int
	knowledgeBase, knowledgeDie int
}

var classProfiles = map[entities.WarriorClass]classProfile{
	entities.WarriorClassValidator: {70, 20, 30, 15, 30, 15},
	entities.WarriorClassOracle:    {55, 20, 25, 15, 45, 20},
	entities.WarriorClassGuardian:  {50, 20, 50, 20, 25, 15},
	entities.WarriorClassDaemon:    {90, 20, 20, 15, 20, 15},
}

// StatSeed derives the roller seed for a new warrior
func StatSeed(owner, name string, dna [8]byte, class entities.WarriorClass) [32]byte {
	h := sha256.New()
	h.Write([]byte(owner))
	h.Write([]byte{0})
	h.Write([]byte(name))
	h.Write([]byte{0})
	h.Write(dna[:])
	h.Write([]byte(class))

	var seed [32]byte
	copy(seed[:], h.Sum(nil))
	return seed
}

// GenerateStats rolls class stats with roller
func GenerateStats(roller dice.Roller, class entities.WarriorClass) (entities.Stats, error) {
	profile, ok := classProfiles[class]
	if !ok {
		return entities.Stats{}, validationViolation(ReasonInvalidWarriorClass, "unknown warrior class").
			WithMeta("class", string(class))
	}

	rolls := []struct {
		base, die int
	}{
		{profile.attackBase, profile.attackDie},
		{profile.defenseBase, profile.defenseDie},
		{profile.knowledgeBase, profile.knowledgeDie},
	}

	values := make([]uint16, len(rolls))
	for i, r := range rolls {
		v, err := roller.Roll(r.die)
		if err != nil {
			return entities.Stats{}, errors.Wrap(err, "failed to roll warrior stats")
		}
		values[i] = uint16(r.base + v)
	}

	return entities.Stats{
		Attack:    values[0],
		Defense:   values[1],
		Knowledge: values[2],
	}, nil
}
