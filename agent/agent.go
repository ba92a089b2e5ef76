package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"halma/game"
	"halma/searcher"
)

var ErrNoRunSegment = errors.New("run url has no environment segment")

// Info is the runner's per-request metadata.
type Info struct {
	RunURL       string `json:"run_url"`
	ActionNumber int    `json:"action_number"`
}

// Request is one percept: the board position and where it came from.
type Request struct {
	Position game.Position `json:"position"`
	Info     Info          `json:"info"`
}

// Decision is a chosen move with the context it was made in.
type Decision struct {
	Move         game.Move     `json:"move"`
	Env          string        `json:"env"`
	ActionNumber int           `json:"action_number"`
	Engine       string        `json:"engine"`
	Duration     time.Duration `json:"duration"`
	Substituted  bool          `json:"substituted"` // anti-oscillation replaced the engine's pick
}

// EnvFromRunURL returns the path segment that follows "run".
func EnvFromRunURL(runURL string) (string, error) {
	parts := strings.Split(strings.Trim(runURL, "/"), "/")
	for i, part := range parts {
		if part == "run" && i+1 < len(parts) && parts[i+1] != "" {
			return parts[i+1], nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoRunSegment, runURL)
}

// Agent answers runner requests for player A.
type Agent struct {
	mu         sync.Mutex
	engine     searcher.Searcher
	engineName string
	defaultEnv string // used when a request carries no run url
	session    *Session
}

func New(engine searcher.Searcher, engineName, defaultEnv string, historySize int) *Agent {
	return &Agent{
		engine:     engine,
		engineName: engineName,
		defaultEnv: defaultEnv,
		session:    NewSession(historySize),
	}
}

func (a *Agent) env(info Info) (string, error) {
	if info.RunURL == "" && a.defaultEnv != "" {
		return a.defaultEnv, nil
	}
	return EnvFromRunURL(info.RunURL)
}

// Decide picks A's move for req. A request with action number zero starts a new game.
func (a *Agent) Decide(ctx context.Context, req Request) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	start := time.Now()

	state, err := game.FromPosition(req.Position)
	if err != nil {
		return Decision{}, err
	}
	env, err := a.env(req.Info)
	if err != nil {
		return Decision{}, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	shape, err := a.session.Shape(env)
	if err != nil {
		return Decision{}, err
	}
	if req.Info.ActionNumber == 0 {
		a.session.Reset()
	}
	a.session.Remember(state.Fingerprint(game.A))

	move, err := a.engine.FindMove(state, game.A, shape)
	if err != nil {
		return Decision{}, fmt.Errorf("%s engine: %w", a.engineName, err)
	}

	chosen, substituted := a.avoidOscillation(state, move, shape)
	a.session.Played(chosen)

	d := Decision{
		Move:         chosen,
		Env:          env,
		ActionNumber: req.Info.ActionNumber,
		Engine:       a.engineName,
		Duration:     time.Since(start),
		Substituted:  substituted,
	}
	log.Info().
		Str("engine", d.Engine).
		Str("env", d.Env).
		Int("action", d.ActionNumber).
		Stringer("move", d.Move).
		Bool("substituted", d.Substituted).
		Dur("took", d.Duration).
		Msg("decision")
	return d, nil
}

// avoidOscillation swaps a move that undoes the last one or revisits a remembered layout
// for the best greedy move that does neither. The engine's move stands when none exists.
func (a *Agent) avoidOscillation(s game.State, move game.Move, shape game.Shape) (game.Move, bool) {
	if !a.repeats(s, move) {
		return move, false
	}
	for _, alt := range searcher.GreedyScores(s, game.A, shape) {
		if !a.repeats(s, alt.Move) {
			log.Debug().Msgf("replacing oscillating move %s with %s", move, alt.Move)
			return alt.Move, true
		}
	}
	return move, false
}

func (a *Agent) repeats(s game.State, m game.Move) bool {
	if a.session.Undoes(m) {
		return true
	}
	next, err := s.Apply(game.A, m)
	if err != nil {
		return false
	}
	return a.session.Seen(next.Fingerprint(game.A))
}
