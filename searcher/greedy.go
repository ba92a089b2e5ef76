package searcher

import (
	"sort"

	"halma/game"
)

// Scored pairs a move with the greedy score it earned.
type Scored struct {
	Move  game.Move
	Score float64
}

// Greedy scores every legal move one ply deep and plays the best one.
type Greedy struct {
	probe
}

func NewGreedy() *Greedy {
	return &Greedy{}
}

func (g *Greedy) FindMove(s game.State, p game.Player, shape game.Shape) (game.Move, error) {
	g.collector().Start("greedy")
	ranked := GreedyScores(s, p, shape)
	if len(ranked) == 0 {
		return game.Move{}, noMove(p)
	}
	return ranked[0].Move, nil
}

// GreedyScores ranks p's legal moves best first. Equal scores keep generation order.
func GreedyScores(s game.State, p game.Player, shape game.Shape) []Scored {
	moves := game.LegalMoves(s, p, shape)
	ranked := make([]Scored, len(moves))
	for i, m := range moves {
		ranked[i] = Scored{Move: m, Score: greedyScore(s, p, m)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}

func greedyScore(s game.State, p game.Player, m game.Move) float64 {
	dist0 := s.HomeDistance(p)
	dist1 := dist0 - improvement(p, m)
	lead := leader(s, p)

	score := 110*(dist0-dist1) + 55*max(0, m.Length()-1) + 4*game.Forward(p, m.From, m.To)
	// Gain against the opponent closest to finishing, measured before it replies.
	score += 55 * ((lead - dist1) - (lead - dist0))
	if !game.InHome(p, m.From) && game.InHome(p, m.To) {
		score += 100
	}
	return float64(score)
}
