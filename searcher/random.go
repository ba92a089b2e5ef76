package searcher

import (
	"time"

	"golang.org/x/exp/rand"

	"halma/game"
)

// Random plays a uniformly chosen legal move. It is the weakest baseline in the arena.
type Random struct {
	probe
	rng *rand.Rand
}

// NewRandom seeds the generator with seed, or with the clock when seed is zero.
func NewRandom(seed uint64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seedOrClock(seed)))}
}

func (r *Random) FindMove(s game.State, p game.Player, shape game.Shape) (game.Move, error) {
	r.collector().Start("random")
	moves := game.LegalMoves(s, p, shape)
	if len(moves) == 0 {
		return game.Move{}, noMove(p)
	}
	return moves[r.rng.Intn(len(moves))], nil
}

func seedOrClock(seed uint64) uint64 {
	if seed == 0 {
		return uint64(time.Now().UnixNano())
	}
	return seed
}
