// Package record writes and reads parquet traces of played games. A trace
// holds one row per published snapshot so a game can be replayed frame by
// frame.
package record

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/brensch/gridsnake/game"
)

const schemaName = "snek_turn_v1"

// TurnRow is a single (game, snapshot) entry. The body is stored head first
// as parallel coordinate columns.
type TurnRow struct {
	GameID    string `parquet:"game_id,dict"`
	Seq       int32  `parquet:"seq"`
	Turn      int32  `parquet:"turn"`
	Phase     string `parquet:"phase,dict"`
	Event     string `parquet:"event,dict"`
	Direction string `parquet:"direction,dict"`
	Speed     string `parquet:"speed,dict"`
	Paused    bool   `parquet:"paused"`
	Score     int32  `parquet:"score"`
	Size      int32  `parquet:"size"`

	FoodX int32 `parquet:"food_x"`
	FoodY int32 `parquet:"food_y"`

	BodyX []int32 `parquet:"body_x"`
	BodyY []int32 `parquet:"body_y"`

	UnixMillis int64 `parquet:"unix_millis"`
}

// NewTurnRow flattens snap into a row.
func NewTurnRow(gameID string, seq int32, snap game.Snapshot, at time.Time) TurnRow {
	row := TurnRow{
		GameID:     gameID,
		Seq:        seq,
		Turn:       snap.Turn,
		Phase:      snap.Phase.String(),
		Event:      snap.Event.String(),
		Direction:  snap.Direction.String(),
		Speed:      snap.Speed.String(),
		Paused:     snap.Paused,
		Score:      int32(snap.Score),
		Size:       snap.Size,
		FoodX:      snap.Food.X,
		FoodY:      snap.Food.Y,
		BodyX:      make([]int32, len(snap.Snake)),
		BodyY:      make([]int32, len(snap.Snake)),
		UnixMillis: at.UnixMilli(),
	}
	for i, p := range snap.Snake {
		row.BodyX[i] = p.X
		row.BodyY[i] = p.Y
	}
	return row
}

// Snapshot rebuilds the game snapshot stored in the row. Names that fail to
// parse come back as the zero value of their type.
func (r TurnRow) Snapshot() game.Snapshot {
	snap := game.Snapshot{
		Size:   r.Size,
		Food:   game.Point{X: r.FoodX, Y: r.FoodY},
		Score:  int(r.Score),
		Turn:   r.Turn,
		Paused: r.Paused,
		Snake:  make([]game.Point, 0, len(r.BodyX)),
	}
	for i := range r.BodyX {
		if i >= len(r.BodyY) {
			break
		}
		snap.Snake = append(snap.Snake, game.Point{X: r.BodyX[i], Y: r.BodyY[i]})
	}
	snap.Direction, _ = game.ParseDirection(r.Direction)
	snap.Speed, _ = game.ParseSpeed(r.Speed)
	snap.Phase, _ = game.ParsePhase(r.Phase)
	snap.Event, _ = game.ParseEvent(r.Event)
	return snap
}

// WriteTrace writes rows to outDir/tmp and then moves the file into outDir,
// so readers never see a partially written trace. It returns the final path.
func WriteTrace(outDir, gameID string, rows []TurnRow) (string, error) {
	if len(rows) == 0 {
		return "", errors.New("no rows to write")
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("game_%d_%s.parquet", time.Now().UnixNano(), gameID)
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", schemaName),
	); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadTrace loads every row of a trace file in stored order.
func ReadTrace(path string) ([]TurnRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}
	if v, ok := pf.Lookup("schema"); ok && v != schemaName {
		return nil, fmt.Errorf("%s: unexpected schema %q", path, v)
	}

	reader := parquet.NewGenericReader[TurnRow](pf)
	defer reader.Close()

	rows := make([]TurnRow, 0, reader.NumRows())
	buf := make([]TurnRow, 256)
	for {
		// Zeroed rows keep the reader from reusing body slices already
		// handed out.
		clear(buf)
		n, err := reader.Read(buf)
		rows = append(rows, buf[:n]...)
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read rows: %w", err)
		}
		if n == 0 {
			return rows, nil
		}
	}
}
