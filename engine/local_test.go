package engine

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"halma/agent"
	"halma/game"
	"halma/searcher"
)

func lookup(t *testing.T, name string) game.Env {
	t.Helper()
	env, err := game.LookupEnv(name)
	require.NoError(t, err)
	return env
}

// standStill always answers with a non-move on its first peg.
type standStill struct{}

func (standStill) FindMove(s game.State, p game.Player, _ game.Shape) (game.Move, error) {
	peg := s.Pegs(p)[0]
	return game.Move{From: peg, To: peg}, nil
}

func TestNewLocal(t *testing.T) {
	t.Run("rhombus is rejected", func(t *testing.T) {
		_, err := NewLocal(lookup(t, "ws2526.1.2.1"), []Player{searcher.NewGreedy(), searcher.NewGreedy()}, 10)
		require.ErrorIs(t, err, ErrUnsupportedShape)
	})

	t.Run("seat count must match", func(t *testing.T) {
		_, err := NewLocal(lookup(t, "ws2526.1.2.5"), []Player{searcher.NewGreedy(), searcher.NewGreedy()}, 10)
		require.ErrorIs(t, err, ErrSeatCount)
	})

	t.Run("starts from the corners", func(t *testing.T) {
		e, err := NewLocal(lookup(t, "ws2526.1.2.2"), []Player{searcher.NewGreedy(), searcher.NewGreedy()}, 10)
		require.NoError(t, err)
		require.ElementsMatch(t, game.Start(game.A), e.State().Pegs(game.A))
		require.ElementsMatch(t, game.Start(game.B), e.State().Pegs(game.B))
		require.Zero(t, e.State().PegCount(game.C))
	})
}

func TestLocalRun(t *testing.T) {
	ctx := context.Background()

	t.Run("three engines play legal moves until the turn limit", func(t *testing.T) {
		seats := []Player{searcher.NewParanoid(), searcher.NewMCTS(searcher.WithEpisodes(10), searcher.WithSeed(2)), searcher.NewGreedy()}
		e, err := NewLocal(lookup(t, "ws2526.1.2.5"), seats, 12)
		require.NoError(t, err)

		_, gameMetric, moves, err := e.Run(ctx)
		require.NoError(t, err)
		require.Len(t, moves, 12)
		require.Equal(t, 12, gameMetric.TotalMoves)
		require.True(t, gameMetric.Truncated)
		for i, m := range moves {
			require.True(t, m.Legal, "move %d (%s) should be legal", i, m.Move)
			require.Equal(t, game.Players[i%3].String(), m.Player)
		}
		require.Equal(t, "paranoid", moves[0].Engine)
		require.Equal(t, 10, moves[1].Episodes)
	})

	t.Run("finishing the race wins", func(t *testing.T) {
		e, err := NewLocal(lookup(t, "ws2526.1.2.2"), []Player{searcher.NewGreedy(), searcher.NewGreedy()}, 10)
		require.NoError(t, err)
		home := game.Home(game.A)
		var almost []game.Coord
		for _, c := range home {
			if c != (game.Coord{X: -2, Y: 4}) {
				almost = append(almost, c)
			}
		}
		e.state = game.NewState(map[game.Player][]game.Coord{
			game.A: append(almost, game.Coord{X: -2, Y: 3}),
			game.B: game.Start(game.B),
		})

		winner, gameMetric, moves, err := e.Run(ctx)
		require.NoError(t, err)
		require.Equal(t, "A", winner)
		require.Len(t, moves, 1)
		require.False(t, gameMetric.Truncated)
		require.True(t, e.State().Finished(game.A))
	})

	t.Run("illegal moves forfeit the turn", func(t *testing.T) {
		e, err := NewLocal(lookup(t, "ws2526.1.2.3"), []Player{standStill{}, searcher.NewGreedy()}, 4)
		require.NoError(t, err)

		_, _, moves, err := e.Run(ctx)
		require.NoError(t, err)
		require.Len(t, moves, 4)
		require.False(t, moves[0].Legal)
		require.True(t, moves[1].Legal)
		require.ElementsMatch(t, game.Start(game.A), e.State().Pegs(game.A))
	})

	t.Run("cancelled context stops the game", func(t *testing.T) {
		e, err := NewLocal(lookup(t, "ws2526.1.2.5"), []Player{searcher.NewGreedy(), searcher.NewGreedy(), searcher.NewGreedy()}, 10)
		require.NoError(t, err)
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, _, _, err = e.Run(cancelled)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestRemotePlayer(t *testing.T) {
	hub := agent.NewHub()
	srv := httptest.NewServer(agent.NewRouter(agent.New(searcher.NewGreedy(), "greedy", "", 0), hub))
	defer srv.Close()

	t.Run("plays A through the agent server", func(t *testing.T) {
		remote := NewRemotePlayer(srv.URL, "ws2526.1.2.5")
		e, err := NewLocal(lookup(t, "ws2526.1.2.5"), []Player{remote, searcher.NewGreedy(), searcher.NewGreedy()}, 6)
		require.NoError(t, err)

		_, _, moves, err := e.Run(context.Background())
		require.NoError(t, err)
		for _, m := range moves {
			require.True(t, m.Legal)
		}
	})

	t.Run("refuses other seats", func(t *testing.T) {
		remote := NewRemotePlayer(srv.URL, "ws2526.1.2.5")
		_, err := remote.FindMove(game.NewState(map[game.Player][]game.Coord{game.B: game.Start(game.B)}), game.B, game.Star)
		require.ErrorIs(t, err, ErrRemoteSeat)
	})

	t.Run("a player without pegs cannot move", func(t *testing.T) {
		remote := NewRemotePlayer(srv.URL, "ws2526.1.2.5")
		_, err := remote.FindMove(game.NewState(map[game.Player][]game.Coord{game.B: game.Start(game.B)}), game.A, game.Star)
		require.ErrorIs(t, err, searcher.ErrNoLegalMove)
	})
}
