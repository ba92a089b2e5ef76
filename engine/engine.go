package engine

import (
	"context"
	"errors"

	"halma/experiments/metrics"
	"halma/game"
)

var (
	ErrUnsupportedShape = errors.New("arena games need the star board")
	ErrSeatCount        = errors.New("seat count does not match the environment")
)

// Player is anything that can be seated in an arena game. Every searcher qualifies.
type Player interface {
	FindMove(s game.State, p game.Player, shape game.Shape) (game.Move, error)
}

type Engine interface {
	// Run plays a game till a player finishes, nobody can move or the turn limit is reached
	Run(ctx context.Context) (winner string, gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}
