package cue

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brensch/gridsnake/game"
)

func TestBell_RingsOnFoodAndGameOver(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)
	ctx := context.Background()

	for _, ev := range []game.Event{game.EventStarted, game.EventMoved, game.EventPaused} {
		assert.NoError(t, b.Observe(ctx, game.Snapshot{Event: ev}))
	}
	assert.Zero(t, buf.Len())

	assert.NoError(t, b.Observe(ctx, game.Snapshot{Event: game.EventAte}))
	assert.Equal(t, "\a", buf.String())

	buf.Reset()
	assert.NoError(t, b.Observe(ctx, game.Snapshot{Event: game.EventCrashed}))
	assert.NoError(t, b.Observe(ctx, game.Snapshot{Event: game.EventBoardFull}))
	assert.Equal(t, "\a\a\a\a", buf.String())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("no speaker") }

func TestBell_ReportsWriteErrors(t *testing.T) {
	b := NewBell(brokenWriter{})
	assert.NoError(t, b.Observe(context.Background(), game.Snapshot{Event: game.EventMoved}))
	assert.Error(t, b.Observe(context.Background(), game.Snapshot{Event: game.EventAte}))
}
