package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"halma/experiments/metrics"
	"halma/game"
	"halma/meta"
	"halma/searcher"
)

// Local referees a game between in-process or remote players.
type Local struct {
	env        game.Env
	seats      []Player
	collectors []metrics.Collector
	state      game.State
	maxTurns   int
}

// NewLocal seats one player per corner of env, in turn order A, B, C.
func NewLocal(env game.Env, seats []Player, maxTurns int) (*Local, error) {
	if env.Shape != game.Star {
		return nil, fmt.Errorf("%w: %s is a %s board", ErrUnsupportedShape, env.Name, env.Shape)
	}
	if len(seats) != env.Players {
		return nil, fmt.Errorf("%w: %s needs %d players, got %d", ErrSeatCount, env.Name, env.Players, len(seats))
	}
	if maxTurns <= 0 {
		maxTurns = meta.MAX_TURNS
	}

	pegs := make(map[game.Player][]game.Coord, len(seats))
	collectors := make([]metrics.Collector, len(seats))
	for i, seat := range seats {
		pegs[game.Players[i]] = game.Start(game.Players[i])
		collectors[i] = metrics.NewDummyCollector()
		if in, ok := seat.(searcher.Instrumented); ok {
			collectors[i] = metrics.NewCollector()
			in.Instrument(collectors[i])
		}
	}

	return &Local{
		env:        env,
		seats:      seats,
		collectors: collectors,
		state:      game.NewState(pegs),
		maxTurns:   maxTurns,
	}, nil
}

func (e *Local) State() game.State {
	return e.state
}

// Run executes the game loop. A player that cannot move passes; an illegal move forfeits the turn.
func (e *Local) Run(ctx context.Context) (string, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{Players: len(e.seats), StartTime: time.Now()}
	var moveMetrics []metrics.MoveMetric

	winner := ""
	passes := 0
	turn := 0
	for ; turn < e.maxTurns && winner == "" && passes < len(e.seats); turn++ {
		if err := ctx.Err(); err != nil {
			return "", gameMetric, moveMetrics, err
		}
		idx := turn % len(e.seats)
		player := game.Players[idx]

		start := time.Now()
		move, err := e.seats[idx].FindMove(e.state, player, e.env.Shape)
		took := time.Since(start)
		if errors.Is(err, searcher.ErrNoLegalMove) {
			passes++
			continue
		}
		if err != nil {
			return "", gameMetric, moveMetrics, fmt.Errorf("player %s at turn %d: %w", player, turn+1, err)
		}

		search := e.collectors[idx].Complete()
		search.Duration = took
		mm := metrics.MoveMetric{
			Step:         turn + 1,
			Player:       player.String(),
			Move:         move.String(),
			Legal:        game.IsLegal(e.state, player, e.env.Shape, move),
			SearchMetric: search,
		}
		moveMetrics = append(moveMetrics, mm)

		if !mm.Legal {
			log.Warn().Msgf("player %s played illegal move %s at turn %d, turn forfeited", player, move, turn+1)
			passes++
			continue
		}
		passes = 0
		e.state = e.state.MustApply(player, move)
		if e.state.Finished(player) {
			winner = player.String()
		}
	}

	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = len(moveMetrics)
	gameMetric.Winner = winner
	gameMetric.Truncated = winner == "" && turn >= e.maxTurns

	if winner != "" {
		log.Info().Msgf("game ended after %d turns with winner %s", turn, winner)
	} else {
		log.Info().Msgf("game stopped after %d turns without a winner", turn)
	}
	return winner, gameMetric, moveMetrics, nil
}
