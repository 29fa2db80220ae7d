// Command snekreplay prints a recorded game frame by frame.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/brensch/gridsnake/game"
	"github.com/brensch/gridsnake/record"
)

func main() {
	dir := flag.String("dir", "traces", "Directory holding traces and their index")
	gameID := flag.String("game", "", "Game ID to replay (default: most recent)")
	file := flag.String("file", "", "Trace file to replay directly, bypassing the index")
	list := flag.Bool("list", false, "List recorded games and exit")
	delay := flag.Duration("delay", 0, "Pause between frames (0 prints everything at once)")
	flag.Parse()

	if *list {
		if err := listGames(os.Stdout, *dir); err != nil {
			log.Fatalf("list games: %v", err)
		}
		return
	}

	path := *file
	if path == "" {
		var err error
		path, err = resolveTrace(*dir, *gameID)
		if err != nil {
			log.Fatalf("find trace: %v", err)
		}
	}

	rows, err := record.ReadTrace(path)
	if err != nil {
		log.Fatalf("read trace: %v", err)
	}
	if len(rows) == 0 {
		log.Fatalf("trace %s has no frames", path)
	}
	log.Printf("Replaying %s (%d frames) from %s", rows[0].GameID, len(rows), path)

	replay(os.Stdout, rows, *delay)
}

func openIndex(dir string) (*record.Index, error) {
	return record.OpenIndex(filepath.Join(dir, record.IndexFile))
}

func listGames(w io.Writer, dir string) error {
	idx, err := openIndex(dir)
	if err != nil {
		return err
	}
	defer idx.Close()
	for _, id := range idx.Games() {
		path, _ := idx.Lookup(id)
		fmt.Fprintf(w, "%s\t%s\n", id, path)
	}
	return nil
}

// resolveTrace maps a game ID to its trace path through the index. An empty
// ID picks the most recently written game.
func resolveTrace(dir, gameID string) (string, error) {
	idx, err := openIndex(dir)
	if err != nil {
		return "", err
	}
	defer idx.Close()

	if gameID == "" {
		games := idx.Games()
		if len(games) == 0 {
			return "", fmt.Errorf("no games recorded in %s", dir)
		}
		gameID = games[len(games)-1]
	}
	path, ok := idx.Lookup(gameID)
	if !ok {
		return "", fmt.Errorf("game %s not in index", gameID)
	}
	return path, nil
}

func replay(w io.Writer, rows []record.TurnRow, delay time.Duration) {
	for i, row := range rows {
		snap := row.Snapshot()
		fmt.Fprintf(w, "=== Frame %d/%d event=%s ===\n%s\n", i+1, len(rows), snap.Event, game.Render(&snap))
		if delay > 0 && i < len(rows)-1 {
			time.Sleep(delay)
		}
	}
	last := rows[len(rows)-1].Snapshot()
	fmt.Fprintf(w, "Final score %d after %d turns (%s)\n", last.Score, last.Turn, last.Phase)
}
