package experiments

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"halma/config"
	"halma/experiments/metrics"
	"halma/game"
	"halma/searcher"
)

func TestRun(t *testing.T) {
	t.Run("plays every match-up and stores the records", func(t *testing.T) {
		cfg := config.Arena{
			Env:      "ws2526.1.2.6",
			Games:    2,
			Parallel: 3,
			OutDir:   t.TempDir(),
			MaxTurns: 9,
			MatchUps: [][]config.Engine{
				{{Name: "greedy"}, {Name: "random", Seed: 1}, {Name: "race"}},
				{{Name: "mcts", Episodes: 5, Seed: 3}, {Name: "lookahead"}, {Name: "threat"}},
			},
		}

		res, err := Run(context.Background(), cfg)
		require.NoError(t, err)
		require.Len(t, res.Agents, 6)
		require.Len(t, res.Games, 4)
		for i, g := range res.Games {
			require.Equal(t, i+1, g.ID)
			require.Equal(t, i/2+1, g.MatchUp)
			require.Len(t, g.Agents, 3)
		}
		require.Equal(t, []int{4, 5, 6}, res.Games[3].Agents)
		require.Len(t, res.Moves, 4*9)

		for _, name := range []string{"agent_configs.csv", "game_records.csv", "move_records.csv", "moves.parquet"} {
			_, err := os.Stat(filepath.Join(res.Dir, name))
			require.NoError(t, err, name)
		}
		rows, err := metrics.ReadArchive(res.Archive)
		require.NoError(t, err)
		require.Len(t, rows, len(res.Moves))
	})

	t.Run("unknown env", func(t *testing.T) {
		_, err := Run(context.Background(), config.Arena{Env: "nowhere"})
		require.ErrorIs(t, err, game.ErrUnknownEnv)
	})

	t.Run("unknown engine", func(t *testing.T) {
		cfg := config.Arena{
			Env:      "ws2526.1.2.2",
			Games:    1,
			OutDir:   t.TempDir(),
			MatchUps: [][]config.Engine{{{Name: "greedy"}, {Name: "alphabeta"}}},
		}
		_, err := Run(context.Background(), cfg)
		require.ErrorIs(t, err, searcher.ErrUnknownEngine)
	})
}
