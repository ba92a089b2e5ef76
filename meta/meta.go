// meta/meta.go
package meta

import "time"

// MCTS_DURATION is the default wall-clock budget of one MCTS decision.
const MCTS_DURATION = 200 * time.Millisecond

// ROLLOUT_PLIES is the number of full turn cycles simulated per rollout.
const ROLLOUT_PLIES = 3

// ROLLOUT_SAMPLE caps the A moves considered at each rollout ply.
const ROLLOUT_SAMPLE = 8

// EXPLORATION is the UCB1 exploration constant c.
const EXPLORATION = 1.1

// PARANOID_BUDGET is the shared wall-clock budget of the beam search.
const PARANOID_BUDGET = 120 * time.Millisecond

// Beam widths of the paranoid search per player.
const (
	BEAM_A = 18
	BEAM_B = 10
	BEAM_C = 10
)

// FALLBACK_MARGIN is how much worse than greedy (by static ordering score) a
// beam result may be before greedy is played instead.
const FALLBACK_MARGIN = 120

// RACE_TOP_K bounds both the own and the reply candidates of the race engine.
const RACE_TOP_K = 12

// HISTORY_SIZE is the number of own-state fingerprints a session remembers.
const HISTORY_SIZE = 40

// MAX_TURNS stops arena games that never finish.
const MAX_TURNS = 600
