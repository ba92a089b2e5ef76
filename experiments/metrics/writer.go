package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"halma/config"
)

type AgentConfig struct {
	ID      int
	MatchUp int
	Seat    string
	config.Engine
}

type GameRecord struct {
	ID      int
	MatchUp int
	Agents  []int // AgentConfig.ID per seat
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}

type Writer struct {
	baseDir string
}

// NewWriter creates a timestamped directory for one experiment under root.
func NewWriter(root, name string) (*Writer, error) {
	// Create a subfolder named by current timestamp
	timestamp := time.Now().UTC().Format("20060102T150405Z")
	baseDir := filepath.Join(root, name, timestamp)
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	return &Writer{
		baseDir: baseDir,
	}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) WriteAgentConfigs(configs []AgentConfig) error {
	header := []string{"id", "match_up", "seat", "engine", "top_k", "beam_a", "beam_b", "beam_c", "budget_ms", "duration_ms", "episodes", "rollout_plies", "seed"}
	rows := make([][]string, len(configs))
	for i, c := range configs {
		rows[i] = []string{
			strconv.Itoa(c.ID),
			strconv.Itoa(c.MatchUp),
			c.Seat,
			c.Name,
			strconv.Itoa(c.TopK),
			strconv.Itoa(c.BeamA),
			strconv.Itoa(c.BeamB),
			strconv.Itoa(c.BeamC),
			strconv.Itoa(c.BudgetMs),
			strconv.Itoa(c.DurationMs),
			strconv.Itoa(c.Episodes),
			strconv.Itoa(c.RolloutPlies),
			strconv.FormatUint(c.Seed, 10),
		}
	}
	return w.writeCSV("agent_configs.csv", header, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	header := []string{"id", "match_up", "agents", "players", "winner", "start_time", "end_time", "duration", "total_moves", "truncated"}
	rows := make([][]string, len(records))
	for i, r := range records {
		agents := make([]string, len(r.Agents))
		for j, id := range r.Agents {
			agents[j] = strconv.Itoa(id)
		}
		rows[i] = []string{
			strconv.Itoa(r.ID),
			strconv.Itoa(r.MatchUp),
			strings.Join(agents, ";"),
			strconv.Itoa(r.Players),
			r.Winner,
			r.StartTime.Format(time.RFC3339),
			r.EndTime.Format(time.RFC3339),
			r.Duration.String(),
			strconv.Itoa(r.TotalMoves),
			strconv.FormatBool(r.Truncated),
		}
	}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	header := []string{"game", "step", "player", "engine", "move", "legal", "duration", "episodes", "branches", "fallback"}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			strconv.Itoa(r.Game),
			strconv.Itoa(r.Step),
			r.Player,
			r.Engine,
			r.Move,
			strconv.FormatBool(r.Legal),
			r.Duration.String(),
			strconv.Itoa(r.Episodes),
			strconv.Itoa(r.Branches),
			strconv.FormatBool(r.Fallback),
		}
	}
	return w.writeCSV("move_records.csv", header, rows)
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s rows: %w", name, err)
	}
	return nil
}
