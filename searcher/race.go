package searcher

import (
	"sort"

	"halma/game"
	"halma/meta"
	"halma/utils"
)

type RaceOption func(r *Race)

// Race looks one reply ahead: the mover's best candidates are scored after the next
// opponent answers with its greediest move.
type Race struct {
	probe
	topK      int
	replyTopK int
}

func WithTopK(k int) RaceOption {
	return func(r *Race) {
		if k > 0 {
			r.topK = k
		}
	}
}

func WithReplyTopK(k int) RaceOption {
	return func(r *Race) {
		if k > 0 {
			r.replyTopK = k
		}
	}
}

func NewRace(options ...RaceOption) *Race {
	r := &Race{topK: meta.RACE_TOP_K, replyTopK: meta.RACE_TOP_K}
	for _, option := range options {
		option(r)
	}
	return r
}

type raceCandidate struct {
	move  game.Move
	gain  int
	after game.State
}

func (r *Race) FindMove(s game.State, p game.Player, shape game.Shape) (game.Move, error) {
	metrics := r.collector()
	metrics.Start("race")

	moves := game.LegalMoves(s, p, shape)
	if len(moves) == 0 {
		return game.Move{}, noMove(p)
	}

	cands := make([]raceCandidate, len(moves))
	for i, m := range moves {
		cands[i] = raceCandidate{move: m, gain: improvement(p, m), after: s.MustApply(p, m)}
	}
	sort.SliceStable(cands, func(i, j int) bool { return cands[i].gain > cands[j].gain })
	cands = cands[:min(r.topK, len(cands))]

	opp := p.Opponents()[0]
	best := cands[0].move
	bestOwn, bestOpp := float64(1e18), float64(-1e18)
	for _, c := range cands {
		metrics.AddBranch()
		reply := r.reply(c.after, opp, shape)
		own, other := float64(reply.HomeDistance(p)), float64(-reply.HomeDistance(opp))
		// Shorter own distance first, then the longer opponent distance.
		if own < bestOwn || (own == bestOwn && other < bestOpp) {
			bestOwn, bestOpp = own, other
			best = c.move
		}
	}
	return best, nil
}

// reply plays opp's greediest move, chosen from its replyTopK best-improving moves.
func (r *Race) reply(s game.State, opp game.Player, shape game.Shape) game.State {
	moves := game.LegalMoves(s, opp, shape)
	if len(moves) == 0 {
		return s
	}
	gains := make([]int, len(moves))
	for i, m := range moves {
		gains[i] = improvement(opp, m)
	}
	top := utils.TopK(moves, gains, r.replyTopK)
	best := top[0]
	for _, m := range top[1:] {
		if improvement(opp, m) > improvement(opp, best) {
			best = m
		}
	}
	return s.MustApply(opp, best)
}
