package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"halma/agent"
	"halma/config"
	"halma/experiments"
	"halma/game"
	"halma/searcher"
)

func main() {
	mode := flag.String("mode", "serve", "serve, arena or decide")
	path := flag.String("config", "", "JSON config file; defaults apply when empty")
	flag.Parse()

	cfg, err := config.Load(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	setupLogging(cfg)

	if err := game.ValidateTables(); err != nil {
		log.Fatal().Err(err).Msg("board tables are inconsistent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch *mode {
	case "serve":
		err = serve(ctx, cfg)
	case "arena":
		err = arena(ctx, cfg)
	case "decide":
		err = decide(ctx, cfg)
	default:
		err = fmt.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Str("mode", *mode).Msg("exiting")
	}
}

func setupLogging(cfg config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.PrettyLogs {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func newAgent(cfg config.Config) (*agent.Agent, error) {
	engine, err := searcher.New(cfg.Engine)
	if err != nil {
		return nil, err
	}
	return agent.New(engine, cfg.Engine.Name, cfg.Env, cfg.HistorySize), nil
}

func serve(ctx context.Context, cfg config.Config) error {
	a, err := newAgent(cfg)
	if err != nil {
		return err
	}
	hub := agent.NewHub()
	go hub.Run(ctx.Done())

	log.Info().Str("engine", cfg.Engine.Name).Str("env", cfg.Env).Msg("agent ready")
	return agent.Serve(ctx, cfg.Listen, agent.NewRouter(a, hub))
}

func arena(ctx context.Context, cfg config.Config) error {
	res, err := experiments.Run(ctx, cfg.Arena)
	if err != nil {
		return err
	}
	log.Info().Int("games", len(res.Games)).Int("moves", len(res.Moves)).Str("dir", res.Dir).Msg("arena finished")
	return nil
}

// decide answers a single request read from stdin.
func decide(ctx context.Context, cfg config.Config) error {
	a, err := newAgent(cfg)
	if err != nil {
		return err
	}
	var req agent.Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	d, err := a.Decide(ctx, req)
	if err != nil {
		return err
	}
	return json.NewEncoder(os.Stdout).Encode(d.Move)
}
