package searcher

import (
	"errors"
	"fmt"

	"halma/experiments/metrics"
	"halma/game"
)

var (
	ErrNoLegalMove   = errors.New("no legal move")
	ErrUnknownEngine = errors.New("unknown engine")
)

// Searcher picks a move for player p. Every engine reports ErrNoLegalMove when p cannot move.
type Searcher interface {
	FindMove(s game.State, p game.Player, shape game.Shape) (game.Move, error)
}

// Instrumented engines report per-decision statistics to a caller-owned Collector.
type Instrumented interface {
	Searcher
	Instrument(c metrics.Collector)
}

// probe is embedded by every engine to carry its metrics collector.
type probe struct {
	metrics metrics.Collector
}

func (p *probe) Instrument(c metrics.Collector) {
	p.metrics = c
}

func (p *probe) collector() metrics.Collector {
	if p.metrics == nil {
		return metrics.NewDummyCollector()
	}
	return p.metrics
}

func noMove(p game.Player) error {
	return fmt.Errorf("%w for %s", ErrNoLegalMove, p)
}

// jumpBonus is the capped number of extra cells a move covers beyond one step.
func jumpBonus(m game.Move, limit int) int {
	return min(limit, max(0, m.Length()-1))
}

// leader is the race distance of p's closest-to-finishing opponent.
func leader(s game.State, p game.Player) int {
	opp := p.Opponents()
	return min(s.RaceDistance(opp[0]), s.RaceDistance(opp[1]))
}

// improvement is how much m shortens p's total distance to HOME.
func improvement(p game.Player, m game.Move) int {
	home := game.Home(p)
	return game.DistToSet(m.From, home) - game.DistToSet(m.To, home)
}

// bestReply is the first move maximising p's distance improvement, or false when p cannot move.
func bestReply(s game.State, p game.Player, shape game.Shape) (game.Move, bool) {
	moves := game.LegalMoves(s, p, shape)
	if len(moves) == 0 {
		return game.Move{}, false
	}
	best := moves[0]
	bestImp := improvement(p, best)
	for _, m := range moves[1:] {
		if imp := improvement(p, m); imp > bestImp {
			bestImp = imp
			best = m
		}
	}
	return best, true
}

// replyCycle plays the greedy reply of each of p's opponents that still has pegs.
func replyCycle(s game.State, p game.Player, shape game.Shape) game.State {
	for _, o := range p.Opponents() {
		if s.PegCount(o) == 0 {
			continue
		}
		if m, ok := bestReply(s, o, shape); ok {
			s = s.MustApply(o, m)
		}
	}
	return s
}
