package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brensch/gridsnake/engine"
	"github.com/brensch/gridsnake/game"
	"github.com/brensch/gridsnake/record"
)

// recordGame plays two short games into dir and returns their IDs in order.
func recordGame(t *testing.T, dir string) []string {
	t.Helper()
	rec, err := record.NewRecorder(dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	ctx := context.Background()

	var ids []string
	for range 2 {
		m, err := engine.New(engine.DefaultConfig(), nil)
		require.NoError(t, err)
		require.NoError(t, rec.Observe(ctx, m.Start()))
		ids = append(ids, rec.GameID())
		for _, d := range []game.Direction{game.MoveRight, game.MoveUp, game.MoveLeft, game.MoveDown} {
			require.NoError(t, m.SetDirection(d))
			require.NoError(t, rec.Observe(ctx, m.Tick()))
		}
	}
	require.NoError(t, rec.Close())
	return ids
}

func TestResolveTrace(t *testing.T) {
	dir := t.TempDir()
	ids := recordGame(t, dir)

	latest, err := resolveTrace(dir, "")
	require.NoError(t, err)
	assert.Contains(t, latest, ids[1])

	first, err := resolveTrace(dir, ids[0])
	require.NoError(t, err)
	assert.Contains(t, first, ids[0])

	_, err = resolveTrace(dir, "missing")
	assert.Error(t, err)
	_, err = resolveTrace(t.TempDir(), "")
	assert.Error(t, err)
}

func TestListAndReplay(t *testing.T) {
	dir := t.TempDir()
	ids := recordGame(t, dir)

	var list bytes.Buffer
	require.NoError(t, listGames(&list, dir))
	lines := strings.Split(strings.TrimSpace(list.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], ids[0]))

	path, err := resolveTrace(dir, ids[0])
	require.NoError(t, err)
	rows, err := record.ReadTrace(path)
	require.NoError(t, err)

	var out bytes.Buffer
	replay(&out, rows, 0)
	assert.Equal(t, len(rows), strings.Count(out.String(), "=== Frame"))
	assert.Contains(t, out.String(), "event=started")
	assert.Contains(t, out.String(), "event=ate")
	assert.Contains(t, out.String(), "event=crashed")
	assert.Contains(t, out.String(), "Final score")
}
