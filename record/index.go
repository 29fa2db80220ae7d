package record

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Index is an append-only log of written traces, one "<game_id>\t<path>"
// line per game. It is loaded into memory on open so replays can look games
// up by ID. A torn final line from a crash is skipped on the next open.
type Index struct {
	mu      sync.RWMutex
	path    string
	file    *os.File
	order   []string
	entries map[string]string
}

func OpenIndex(path string) (*Index, error) {
	if path == "" {
		return nil, errors.New("index path is required")
	}

	idx := &Index{path: path, entries: make(map[string]string)}
	if f, err := os.Open(path); err == nil {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			id, trace, ok := strings.Cut(strings.TrimSpace(scanner.Text()), "\t")
			if !ok || id == "" || trace == "" {
				continue
			}
			if _, seen := idx.entries[id]; !seen {
				idx.order = append(idx.order, id)
			}
			idx.entries[id] = trace
		}
		_ = f.Close()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	idx.file = file
	return idx, nil
}

func (x *Index) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.file == nil {
		return nil
	}
	err := x.file.Close()
	x.file = nil
	return err
}

// Add records that gameID was written to tracePath and syncs the log.
func (x *Index) Add(gameID, tracePath string) error {
	if gameID == "" || tracePath == "" {
		return errors.New("game id and trace path are required")
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if x.file == nil {
		return errors.New("index is closed")
	}
	if _, err := x.file.WriteString(gameID + "\t" + tracePath + "\n"); err != nil {
		return fmt.Errorf("append index: %w", err)
	}
	if err := x.file.Sync(); err != nil {
		return fmt.Errorf("sync index: %w", err)
	}
	if _, seen := x.entries[gameID]; !seen {
		x.order = append(x.order, gameID)
	}
	x.entries[gameID] = tracePath
	return nil
}

// Lookup returns the trace path recorded for gameID.
func (x *Index) Lookup(gameID string) (string, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	p, ok := x.entries[gameID]
	return p, ok
}

// Games lists recorded game IDs in the order they were first written.
func (x *Index) Games() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return append([]string(nil), x.order...)
}

func (x *Index) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.entries)
}
