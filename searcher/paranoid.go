package searcher

import (
	"time"

	"github.com/rs/zerolog/log"

	"halma/game"
	"halma/meta"
	"halma/utils"
)

type ParanoidOption func(p *Paranoid)

// Paranoid searches one full turn cycle over beam-pruned candidates. Each opponent
// picks, among its best racing moves, the one that hurts the mover most.
type Paranoid struct {
	probe
	beams  [3]int // mover, first opponent, second opponent
	budget time.Duration
	margin int
}

func WithBeam(mover, first, second int) ParanoidOption {
	return func(p *Paranoid) {
		for i, k := range [3]int{mover, first, second} {
			if k > 0 {
				p.beams[i] = k
			}
		}
	}
}

func WithBudget(budget time.Duration) ParanoidOption {
	return func(p *Paranoid) {
		if budget > 0 {
			p.budget = budget
		}
	}
}

func NewParanoid(options ...ParanoidOption) *Paranoid {
	p := &Paranoid{
		beams:  [3]int{meta.BEAM_A, meta.BEAM_B, meta.BEAM_C},
		budget: meta.PARANOID_BUDGET,
		margin: meta.FALLBACK_MARGIN,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

func (pa *Paranoid) FindMove(s game.State, p game.Player, shape game.Shape) (game.Move, error) {
	start := time.Now()
	metrics := pa.collector()
	metrics.Start("paranoid")

	ranked := GreedyScores(s, p, shape)
	if len(ranked) == 0 {
		return game.Move{}, noMove(p)
	}
	fallback := ranked[0].Move

	moves := game.LegalMoves(s, p, shape)
	orders := make([]int, len(moves))
	for i, m := range moves {
		orders[i] = orderScore(p, m)
	}
	cands := utils.TopK(moves, orders, pa.beams[0])

	opp := p.Opponents()
	best := fallback
	bestVal := -1e18
	for i, m := range cands {
		if time.Since(start) > pa.budget {
			log.Debug().Msgf("paranoid budget of %v spent after %d of %d branches", pa.budget, i, len(cands))
			break
		}
		metrics.AddBranch()

		after := s.MustApply(p, m)
		for j, o := range opp {
			reply, ok := pa.hostileReply(after, p, o, shape, pa.beams[j+1], start)
			if !ok {
				break
			}
			after = after.MustApply(o, reply)
		}
		if val := paranoidEval(after, p); val > bestVal {
			bestVal = val
			best = m
		}
	}

	// The beam result is compared by static ordering score, not by its search value.
	if orderScore(p, best) < orderScore(p, fallback)-pa.margin {
		log.Debug().Msgf("paranoid pick %s ordered far below greedy %s, keeping greedy", best, fallback)
		metrics.SetFallback(true)
		return fallback, nil
	}
	return best, nil
}

// hostileReply picks, among o's k best racing moves, the one minimising the mover's
// evaluation. It reports false when o cannot move.
func (pa *Paranoid) hostileReply(s game.State, p, o game.Player, shape game.Shape, k int, start time.Time) (game.Move, bool) {
	moves := game.LegalMoves(s, o, shape)
	if len(moves) == 0 {
		return game.Move{}, false
	}
	scores := make([]int, len(moves))
	for i, m := range moves {
		scores[i] = raceScore(s, o, m)
	}
	cands := utils.TopK(moves, scores, k)

	best := cands[0]
	bestVal := 1e18
	for _, m := range cands {
		if time.Since(start) > pa.budget {
			break
		}
		if val := paranoidEval(s.MustApply(o, m), p); val < bestVal {
			bestVal = val
			best = m
		}
	}
	return best, true
}

// paranoidEval scores s for p: own progress and pegs home against the strongest opponent.
func paranoidEval(s game.State, p game.Player) float64 {
	opp := p.Opponents()
	nearest := min(s.RaceDistance(opp[0]), s.RaceDistance(opp[1]))
	mostHome := max(s.PegsInHome(opp[0]), s.PegsInHome(opp[1]))
	return float64(-s.RaceDistance(p)) + 150*float64(s.PegsInHome(p)) + 1.10*float64(nearest) - 120*float64(mostHome)
}

// orderScore is the static score used to rank the mover's candidates.
func orderScore(p game.Player, m game.Move) int {
	score := 100 * improvement(p, m)
	from, to := game.InHome(p, m.From), game.InHome(p, m.To)
	if !from && to {
		score += 160
	}
	if from && !to {
		score -= 300
	}
	return score + jumpBonus(m, 7)*22
}

// raceScore is how good m is for o's own race.
func raceScore(s game.State, o game.Player, m game.Move) int {
	after := s.MustApply(o, m)
	return 200*after.PegsInHome(o) - 70*after.RaceDistance(o) + jumpBonus(m, 7)*10
}
