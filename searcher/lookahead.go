package searcher

import "halma/game"

// Lookahead plays every legal move through one full turn cycle of greedy opponent
// replies and keeps the move with the widest race margin.
type Lookahead struct {
	probe
}

func NewLookahead() *Lookahead {
	return &Lookahead{}
}

func (l *Lookahead) FindMove(s game.State, p game.Player, shape game.Shape) (game.Move, error) {
	metrics := l.collector()
	metrics.Start("lookahead")

	moves := game.LegalMoves(s, p, shape)
	if len(moves) == 0 {
		return game.Move{}, noMove(p)
	}

	best := moves[0]
	bestScore := -1e18
	for _, m := range moves {
		metrics.AddBranch()
		after := replyCycle(s.MustApply(p, m), p, shape)
		own := after.HomeDistance(p)
		score := float64((leader(after, p)-own)*200 - own*20)
		if score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best, nil
}
