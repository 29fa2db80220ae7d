package record

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brensch/gridsnake/game"
)

// IndexFile is the name of the index kept next to the traces.
const IndexFile = "index.tsv"

// Recorder buffers the snapshots of the current game and writes them as a
// trace when the game ends. It satisfies engine.Observer.
type Recorder struct {
	mu  sync.Mutex
	dir string
	idx *Index
	log *slog.Logger
	now func() time.Time

	gameID  string
	rows    []TurnRow
	written []string
}

func NewRecorder(dir string, log *slog.Logger) (*Recorder, error) {
	if log == nil {
		log = slog.Default()
	}
	idx, err := OpenIndex(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, err
	}
	return &Recorder{
		dir: dir,
		idx: idx,
		log: log.With("component", "recorder"),
		now: time.Now,
	}, nil
}

// Observe appends snap to the current game. A start event opens a new game
// and an ending event writes the trace.
func (r *Recorder) Observe(_ context.Context, snap game.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if snap.Event == game.EventStarted {
		if err := r.flushLocked(); err != nil {
			r.log.Warn("flush of unfinished game failed", "game_id", r.gameID, "err", err)
		}
		r.gameID = uuid.NewString()
		r.rows = r.rows[:0]
	}
	if r.gameID == "" {
		return nil
	}

	r.rows = append(r.rows, NewTurnRow(r.gameID, int32(len(r.rows)), snap, r.now()))
	if snap.Event.Ended() {
		return r.flushLocked()
	}
	return nil
}

// GameID is the ID of the game being recorded, empty between games.
func (r *Recorder) GameID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gameID
}

// Written lists the trace files produced so far.
func (r *Recorder) Written() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.written...)
}

// Close writes any game still in progress and closes the index.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	flushErr := r.flushLocked()
	if err := r.idx.Close(); err != nil && flushErr == nil {
		return err
	}
	return flushErr
}

func (r *Recorder) flushLocked() error {
	if r.gameID == "" || len(r.rows) == 0 {
		r.gameID = ""
		return nil
	}
	id := r.gameID
	r.gameID = ""

	path, err := WriteTrace(r.dir, id, r.rows)
	r.rows = r.rows[:0]
	if err != nil {
		return fmt.Errorf("write trace %s: %w", id, err)
	}
	r.written = append(r.written, path)
	if err := r.idx.Add(id, path); err != nil {
		return fmt.Errorf("index trace %s: %w", id, err)
	}
	r.log.Info("trace written", "game_id", id, "path", path)
	return nil
}
