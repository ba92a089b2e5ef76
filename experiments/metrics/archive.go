package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// MoveRow is one arena decision as stored in the parquet archive.
type MoveRow struct {
	Game       int32  `parquet:"game"`
	MatchUp    int32  `parquet:"match_up"`
	Step       int32  `parquet:"step"`
	Player     string `parquet:"player,dict"`
	Engine     string `parquet:"engine,dict"`
	Move       string `parquet:"move"`
	Legal      bool   `parquet:"legal"`
	DurationUs int64  `parquet:"duration_us"`
	Episodes   int32  `parquet:"episodes"`
	Branches   int32  `parquet:"branches"`
	Fallback   bool   `parquet:"fallback"`
	Winner     string `parquet:"winner,dict"`
}

// ArchiveRows flattens move records, tagging each with its game's match-up and winner.
func ArchiveRows(games []GameRecord, moves []MoveRecord) []MoveRow {
	byID := make(map[int]GameRecord, len(games))
	for _, g := range games {
		byID[g.ID] = g
	}
	rows := make([]MoveRow, len(moves))
	for i, m := range moves {
		g := byID[m.Game]
		rows[i] = MoveRow{
			Game:       int32(m.Game),
			MatchUp:    int32(g.MatchUp),
			Step:       int32(m.Step),
			Player:     m.Player,
			Engine:     m.Engine,
			Move:       m.Move,
			Legal:      m.Legal,
			DurationUs: m.Duration.Microseconds(),
			Episodes:   int32(m.Episodes),
			Branches:   int32(m.Branches),
			Fallback:   m.Fallback,
			Winner:     g.Winner,
		}
	}
	return rows
}

// WriteArchive writes rows to outPath through a temp file so readers never see a partial file.
func WriteArchive(outPath string, rows []MoveRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", "arena_move_v1"),
	); err != nil {
		return fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

func ReadArchive(path string) ([]MoveRow, error) {
	rows, err := parquet.ReadFile[MoveRow](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}
