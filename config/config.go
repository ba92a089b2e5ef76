package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"halma/meta"
)

// Engine configures one search engine. Zero values fall back to the engine defaults.
type Engine struct {
	Name         string  `json:"name"`
	TopK         int     `json:"top_k"`
	ReplyTopK    int     `json:"reply_top_k"`
	BeamA        int     `json:"beam_a"`
	BeamB        int     `json:"beam_b"`
	BeamC        int     `json:"beam_c"`
	BudgetMs     int     `json:"budget_ms"`
	DurationMs   int     `json:"duration_ms"`
	Episodes     int     `json:"episodes"`
	RolloutPlies int     `json:"rollout_plies"`
	SampleSize   int     `json:"sample_size"`
	Exploration  float64 `json:"exploration"`
	Seed         uint64  `json:"seed"`
}

func (e Engine) Budget() time.Duration {
	return time.Duration(e.BudgetMs) * time.Millisecond
}

func (e Engine) Duration() time.Duration {
	return time.Duration(e.DurationMs) * time.Millisecond
}

// Arena configures local match-ups between engines.
type Arena struct {
	Env      string     `json:"env"`
	Games    int        `json:"games"` // per match-up
	Parallel int        `json:"parallel"`
	OutDir   string     `json:"out_dir"`
	MaxTurns int        `json:"max_turns"`
	Remote   string     `json:"remote"` // agent server seated as A in every game, optional
	MatchUps [][]Engine `json:"match_ups"`
}

type Config struct {
	Env         string `json:"env"`
	Listen      string `json:"listen"`
	LogLevel    string `json:"log_level"`
	PrettyLogs  bool   `json:"pretty_logs"`
	HistorySize int    `json:"history_size"`
	Engine      Engine `json:"engine"`
	Arena       Arena  `json:"arena"`
}

func Default() Config {
	return Config{
		Listen:      ":8080",
		LogLevel:    "info",
		PrettyLogs:  true,
		HistorySize: meta.HISTORY_SIZE,
		Engine:      Engine{Name: "paranoid"},
		Arena: Arena{
			Env:      "ws2526.1.2.5",
			Games:    4,
			Parallel: 2,
			OutDir:   "experiments",
			MaxTurns: meta.MAX_TURNS,
			MatchUps: [][]Engine{
				{{Name: "paranoid"}, {Name: "greedy"}, {Name: "greedy"}},
				{{Name: "mcts"}, {Name: "greedy"}, {Name: "greedy"}},
			},
		},
	}
}

// Load reads a JSON config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}
