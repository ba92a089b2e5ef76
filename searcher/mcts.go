package searcher

import (
	"time"

	"golang.org/x/exp/rand"

	"halma/game"
	"halma/meta"
)

type Option func(mcts *MCTS)

// MCTS searches over the mover's decisions only. Each edge is a full turn cycle in
// which both opponents reply greedily.
type MCTS struct {
	probe
	duration    time.Duration
	episodes    int
	plies       int
	sample      int
	exploration float64
	rng         *rand.Rand
}

func WithDuration(duration time.Duration) Option {
	return func(m *MCTS) {
		if duration > 0 {
			m.duration = duration
		}
	}
}

// WithEpisodes caps the search at a fixed number of iterations instead of a deadline.
func WithEpisodes(episodes int) Option {
	return func(m *MCTS) {
		if episodes > 0 {
			m.episodes = episodes
		}
	}
}

func WithRolloutPlies(plies int) Option {
	return func(m *MCTS) {
		if plies > 0 {
			m.plies = plies
		}
	}
}

func WithSampleSize(n int) Option {
	return func(m *MCTS) {
		if n > 0 {
			m.sample = n
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c > 0 {
			m.exploration = c
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seedOrClock(seed)))
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		duration:    meta.MCTS_DURATION,
		plies:       meta.ROLLOUT_PLIES,
		sample:      meta.ROLLOUT_SAMPLE,
		exploration: meta.EXPLORATION,
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(seedOrClock(0)))
	}
	return m
}

func (m *MCTS) FindMove(s game.State, p game.Player, shape game.Shape) (game.Move, error) {
	deadline := time.Now().Add(m.duration)
	metrics := m.collector()
	metrics.Start("mcts")

	rootMoves := game.LegalMoves(s, p, shape)
	if len(rootMoves) == 0 {
		return game.Move{}, noMove(p)
	}

	t := newTree(s, append([]game.Move(nil), rootMoves...))
	for i := 0; m.running(i, deadline); i++ {
		m.simulate(t, p, shape)
		metrics.AddEpisode()
	}

	if best, ok := t.mostVisited(); ok {
		return best, nil
	}
	return rootMoves[0], nil
}

// running bounds the search by the episode cap when one is set, otherwise by the deadline.
func (m *MCTS) running(i int, deadline time.Time) bool {
	if m.episodes > 0 {
		return i < m.episodes
	}
	return time.Now().Before(deadline)
}

func (m *MCTS) simulate(t *tree, p game.Player, shape game.Shape) {
	// Selection
	i := 0
	for !t.expandable(i) && len(t.nodes[i].children) > 0 {
		i = t.selectChild(i, m.exploration)
	}

	// Expansion
	if t.expandable(i) {
		move := t.popUntried(i)
		next := step(t.nodes[i].state, p, move, shape)
		i = t.addChild(i, move, next, game.LegalMoves(next, p, shape))
	}

	reward := m.rollout(t.nodes[i].state, p, shape)
	t.backup(i, reward)
}

// rollout plays a few turn cycles, each time choosing the best of a random sample of
// the mover's moves, and scores the final state.
func (m *MCTS) rollout(s game.State, p game.Player, shape game.Shape) float64 {
	for i := 0; i < m.plies; i++ {
		moves := game.LegalMoves(s, p, shape)
		if len(moves) == 0 {
			break
		}
		if len(moves) > m.sample {
			picked := make([]game.Move, m.sample)
			for j, idx := range m.rng.Perm(len(moves))[:m.sample] {
				picked[j] = moves[idx]
			}
			moves = picked
		}

		next := step(s, p, moves[0], shape)
		bestVal := reward(next, p)
		for _, move := range moves[1:] {
			candidate := step(s, p, move, shape)
			if val := reward(candidate, p); val > bestVal {
				bestVal = val
				next = candidate
			}
		}
		s = next
	}
	return reward(s, p)
}

// step plays move for p, then each opponent's greedy reply.
func step(s game.State, p game.Player, move game.Move, shape game.Shape) game.State {
	return replyCycle(s.MustApply(p, move), p, shape)
}

func reward(s game.State, p game.Player) float64 {
	own := float64(s.HomeDistance(p))
	return 3*(float64(leader(s, p))-own) - 0.2*own
}
