package searcher

import (
	"fmt"

	"halma/config"
)

// Names lists every engine New can build.
var Names = []string{"greedy", "race", "lookahead", "paranoid", "mcts", "threat", "random"}

// New builds the engine named by cfg. Zero knobs keep the engine defaults.
func New(cfg config.Engine) (Instrumented, error) {
	switch cfg.Name {
	case "greedy":
		return NewGreedy(), nil
	case "race":
		return NewRace(WithTopK(cfg.TopK), WithReplyTopK(cfg.ReplyTopK)), nil
	case "lookahead":
		return NewLookahead(), nil
	case "paranoid":
		return NewParanoid(WithBeam(cfg.BeamA, cfg.BeamB, cfg.BeamC), WithBudget(cfg.Budget())), nil
	case "mcts":
		return NewMCTS(
			WithDuration(cfg.Duration()),
			WithEpisodes(cfg.Episodes),
			WithRolloutPlies(cfg.RolloutPlies),
			WithSampleSize(cfg.SampleSize),
			WithExploration(cfg.Exploration),
			WithSeed(cfg.Seed),
		), nil
	case "threat":
		return NewThreat(), nil
	case "random":
		return NewRandom(cfg.Seed), nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownEngine, cfg.Name)
	}
}
