package searcher

import "halma/game"

const (
	threatSelf        = 120
	threatJump        = 18
	threatEnterHome   = 160
	threatLeaveHome   = -260
	threatEnterLane   = 180
	threatLeaveLane   = -250
	threatImprove     = 120
	threatImproveCap  = 8
	threatLongJump    = 55
	threatLongJumpCap = 7
)

// Threat is a one-ply evaluator that also holds the central lane around the hole and
// penalises moves leaving opponents a big improvement or a long jump next turn.
type Threat struct {
	probe
}

func NewThreat() *Threat {
	return &Threat{}
}

func (t *Threat) FindMove(s game.State, p game.Player, shape game.Shape) (game.Move, error) {
	metrics := t.collector()
	metrics.Start("threat")

	moves := game.LegalMoves(s, p, shape)
	if len(moves) == 0 {
		return game.Move{}, noMove(p)
	}

	best := moves[0]
	bestScore := -1 << 62
	for _, m := range moves {
		metrics.AddBranch()
		if score := threatScore(s, p, m, shape); score > bestScore {
			bestScore = score
			best = m
		}
	}
	return best, nil
}

func threatScore(s game.State, p game.Player, m game.Move, shape game.Shape) int {
	after := s.MustApply(p, m)

	score := threatSelf*improvement(p, m) + threatJump*jumpBonus(m, 7)
	from, to := game.InHome(p, m.From), game.InHome(p, m.To)
	if !from && to {
		score += threatEnterHome
	}
	if from && !to {
		score += threatLeaveHome
	}

	fromLane, toLane := inLane(m.From), inLane(m.To)
	if toLane && !fromLane {
		score += threatEnterLane
	}
	if fromLane && !toLane {
		score += threatLeaveLane
	}

	improve, jump := 0, 0
	for _, o := range p.Opponents() {
		improve = max(improve, bestImprovement(after, o, shape))
		jump = max(jump, longestJump(after, o, shape))
	}
	score -= threatImprove * min(threatImproveCap, improve)
	score -= threatLongJump * min(threatLongJumpCap, jump)
	return score
}

// inLane reports whether c is in the ring of cells around the center hole.
func inLane(c game.Coord) bool {
	x, y, z := c.Cube()
	return max(abs(x), abs(y), abs(z)) <= 1
}

// bestImprovement is the largest distance gain o can make in one move; never negative.
func bestImprovement(s game.State, o game.Player, shape game.Shape) int {
	if s.PegCount(o) == 0 {
		return 0
	}
	best := 0
	for _, m := range game.LegalMoves(s, o, shape) {
		best = max(best, improvement(o, m))
	}
	return best
}

func longestJump(s game.State, o game.Player, shape game.Shape) int {
	longest := 0
	for _, m := range game.LegalMoves(s, o, shape) {
		longest = max(longest, m.Length())
	}
	return longest
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
