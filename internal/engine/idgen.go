package engine

import (
	"math/rand"

	"github.com/google/uuid"
)

// tradeIDGenerator produces trade ids. Grounded on the teacher's use of
// github.com/google/uuid for order ids (internal/net/messages.go), but
// seeded: §5 requires that, given the same seed and the same input
// sequence, the engine's trade ids are reproducible, which rules out
// uuid.New()'s unseedable crypto/rand source. A math/rand source seeded
// once at construction and read through uuid.NewRandomFromReader gives
// RFC 4122 version-4 ids that are still deterministic end to end.
type tradeIDGenerator struct {
	rng *rand.Rand
}

func newTradeIDGenerator(seed int64) *tradeIDGenerator {
	return &tradeIDGenerator{rng: rand.New(rand.NewSource(seed))}
}

func (g *tradeIDGenerator) next() string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// g.rng never returns a read error; this path is unreachable in
		// practice but a zero-value id keeps next() total.
		return uuid.Nil.String()
	}
	return id.String()
}
