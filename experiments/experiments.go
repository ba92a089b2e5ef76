package experiments

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"halma/config"
	"halma/engine"
	"halma/experiments/metrics"
	"halma/game"
	"halma/searcher"
)

// Result holds everything an arena run recorded.
type Result struct {
	Dir     string
	Agents  []metrics.AgentConfig
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
	Wins    map[int]map[string]int // match-up -> winning seat -> games
	Archive string
}

type gameResult struct {
	record metrics.GameRecord
	moves  []metrics.MoveMetric
}

// Run plays every match-up cfg.Games times, up to cfg.Parallel games at once, and stores
// the records as CSV and parquet under cfg.OutDir.
func Run(ctx context.Context, cfg config.Arena) (Result, error) {
	env, err := game.LookupEnv(cfg.Env)
	if err != nil {
		return Result{}, err
	}

	agents, seats := agentConfigs(cfg.MatchUps)
	parallel := max(1, cfg.Parallel)
	if cfg.Remote != "" && parallel > 1 {
		// The remote agent keeps one session, so its games must not interleave.
		log.Warn().Msgf("remote agent seated as A, running games one at a time instead of %d", parallel)
		parallel = 1
	}

	results := make([]gameResult, len(cfg.MatchUps)*cfg.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	log.Info().Msgf("starting arena on %s with %d match-ups of %d games", env.Name, len(cfg.MatchUps), cfg.Games)
	for mi, matchUp := range cfg.MatchUps {
		for i := 0; i < cfg.Games; i++ {
			mi, matchUp, i := mi, matchUp, i
			id := mi*cfg.Games + i + 1
			g.Go(func() error {
				players, err := buildSeats(matchUp, cfg.Remote, env.Name)
				if err != nil {
					return err
				}
				e, err := engine.NewLocal(env, players, cfg.MaxTurns)
				if err != nil {
					return err
				}
				log.Info().Msgf("starting match-up %d of %d game %d of %d...", mi+1, len(cfg.MatchUps), i+1, cfg.Games)
				winner, gameMetric, moves, err := e.Run(gctx)
				if err != nil {
					return fmt.Errorf("game %d: %w", id, err)
				}
				log.Info().Msgf("completed match-up %d game %d with winner: %q", mi+1, i+1, winner)
				results[id-1] = gameResult{
					record: metrics.GameRecord{ID: id, MatchUp: mi + 1, Agents: seats[mi], GameMetric: gameMetric},
					moves:  moves,
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	res := Result{Agents: agents, Wins: make(map[int]map[string]int)}
	for _, r := range results {
		res.Games = append(res.Games, r.record)
		for _, mm := range r.moves {
			res.Moves = append(res.Moves, metrics.MoveRecord{Game: r.record.ID, MoveMetric: mm})
		}
		if res.Wins[r.record.MatchUp] == nil {
			res.Wins[r.record.MatchUp] = make(map[string]int)
		}
		if r.record.Winner != "" {
			res.Wins[r.record.MatchUp][r.record.Winner]++
		}
	}
	for mi := range cfg.MatchUps {
		log.Info().Msgf("match-up %d wins by seat: %v", mi+1, res.Wins[mi+1])
	}

	if err := store(cfg.OutDir, &res); err != nil {
		return Result{}, err
	}
	return res, nil
}

func agentConfigs(matchUps [][]config.Engine) ([]metrics.AgentConfig, [][]int) {
	var agents []metrics.AgentConfig
	seats := make([][]int, len(matchUps))
	for mi, matchUp := range matchUps {
		for si, eng := range matchUp {
			id := len(agents) + 1
			agents = append(agents, metrics.AgentConfig{ID: id, MatchUp: mi + 1, Seat: game.Players[si].String(), Engine: eng})
			seats[mi] = append(seats[mi], id)
		}
	}
	return agents, seats
}

// buildSeats creates fresh engines for one game so no state is shared between games.
func buildSeats(matchUp []config.Engine, remote, env string) ([]engine.Player, error) {
	players := make([]engine.Player, len(matchUp))
	for i, eng := range matchUp {
		if i == 0 && remote != "" {
			players[i] = engine.NewRemotePlayer(remote, env)
			continue
		}
		s, err := searcher.New(eng)
		if err != nil {
			return nil, err
		}
		players[i] = s
	}
	return players, nil
}

func store(root string, res *Result) error {
	writer, err := metrics.NewWriter(root, "arena")
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}
	res.Dir = writer.Dir()

	if err := writer.WriteAgentConfigs(res.Agents); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(res.Games); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(res.Moves); err != nil {
		return fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	res.Archive = filepath.Join(res.Dir, "moves.parquet")
	if err := metrics.WriteArchive(res.Archive, metrics.ArchiveRows(res.Games, res.Moves)); err != nil {
		return fmt.Errorf("failed to archive moves: %w", err)
	}
	log.Info().Msgf("archived moves to %s", res.Archive)
	return nil
}
