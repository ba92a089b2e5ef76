package searcher

import (
	"math"

	"halma/game"
)

// node is one state reached after a full turn cycle. Nodes live in a tree arena and
// refer to each other by index.
type node struct {
	state    game.State
	parent   int // -1 at the root
	move     game.Move
	children []int
	untried  []game.Move
	visits   int
	rewards  float64
}

type tree struct {
	nodes []node
}

func newTree(root game.State, moves []game.Move) *tree {
	return &tree{nodes: []node{{state: root, parent: -1, untried: moves}}}
}

func (t *tree) expandable(i int) bool {
	return len(t.nodes[i].untried) > 0
}

// popUntried removes and returns the last untried move of node i.
func (t *tree) popUntried(i int) game.Move {
	n := &t.nodes[i]
	m := n.untried[len(n.untried)-1]
	n.untried = n.untried[:len(n.untried)-1]
	return m
}

func (t *tree) addChild(parent int, m game.Move, s game.State, moves []game.Move) int {
	t.nodes = append(t.nodes, node{state: s, parent: parent, move: m, untried: moves})
	child := len(t.nodes) - 1
	t.nodes[parent].children = append(t.nodes[parent].children, child)
	return child
}

func (t *tree) backup(i int, reward float64) {
	for i >= 0 {
		t.nodes[i].visits++
		t.nodes[i].rewards += reward
		i = t.nodes[i].parent
	}
}

// selectChild returns the child of i with the highest UCB1 score, or an unvisited child
// as soon as one is seen.
func (t *tree) selectChild(i int, c float64) int {
	logN := math.Log(float64(t.nodes[i].visits + 1))
	best := -1
	bestScore := math.Inf(-1)
	for _, child := range t.nodes[i].children {
		score := ucb1(t.nodes[child].rewards, t.nodes[child].visits, c, logN)
		if math.IsInf(score, 1) {
			return child
		}
		if score > bestScore {
			bestScore = score
			best = child
		}
	}
	if best < 0 {
		panic("node has no children to select")
	}
	return best
}

// mostVisited returns the root move with the most visits, ties broken by mean reward.
func (t *tree) mostVisited() (game.Move, bool) {
	var best game.Move
	bestVisits := -1
	bestMean := math.Inf(-1)
	for _, child := range t.nodes[0].children {
		n := t.nodes[child]
		mean := math.Inf(-1)
		if n.visits > 0 {
			mean = n.rewards / float64(n.visits)
		}
		if n.visits > bestVisits || (n.visits == bestVisits && mean > bestMean) {
			bestVisits = n.visits
			bestMean = mean
			best = n.move
		}
	}
	return best, bestVisits >= 0
}
