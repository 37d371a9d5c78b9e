package main

import (
	"crypto/sha256"
	"encoding/binary"
	"slices"
	"strconv"

	"github.com/KirkDiggler/undead-arena/internal/entities"
)

// questionSet is the room content a quiz frontend would normally choose
type questionSet struct {
	Concepts  [entities.ConceptCount]uint8
	Topics    [entities.QuestionCount]uint8
	Questions [entities.QuestionCount]uint16
	Answers   [entities.QuestionCount]bool
}

// newQuestionSet derives a reproducible question set from seed
func newQuestionSet(seed string) questionSet {
	sum := sha256.Sum256([]byte("questions:" + seed))

	pool := make([]uint8, 0, entities.MaxConceptID-entities.MinConceptID+1)
	for c := entities.MinConceptID; c <= entities.MaxConceptID; c++ {
		pool = append(pool, uint8(c))
	}
	for i := len(pool) - 1; i > 0; i-- {
		j := int(sum[i]) % (i + 1)
		pool[i], pool[j] = pool[j], pool[i]
	}

	var qs questionSet
	copy(qs.Concepts[:], pool[:entities.ConceptCount])
	slices.Sort(qs.Concepts[:])

	for q := 0; q < entities.QuestionCount; q++ {
		h := sha256.Sum256([]byte(seed + ":" + strconv.Itoa(q)))
		qs.Topics[q] = qs.Concepts[int(h[0])%entities.ConceptCount]
		qs.Questions[q] = binary.BigEndian.Uint16(h[1:3])
		qs.Answers[q] = h[3]&1 == 1
	}
	return qs
}

// simulatedAnswer picks player's answer to question q. skill is out of 10:
// the chance the player answers correctly.
func simulatedAnswer(qs questionSet, seed, player string, q uint8, skill int) (answer bool, damageSeed uint8) {
	h := sha256.Sum256([]byte(seed + ":" + player + ":" + strconv.Itoa(int(q))))
	correct := int(h[0])%10 < skill
	if correct {
		return qs.Answers[q], h[1]
	}
	return !qs.Answers[q], h[1]
}
