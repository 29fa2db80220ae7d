package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/brensch/gridsnake/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingObserver struct {
	ch chan game.Snapshot
}

func (r *recordingObserver) Observe(ctx context.Context, snap game.Snapshot) error {
	select {
	case r.ch <- snap:
	case <-ctx.Done():
	}
	return nil
}

func waitForEvent(t *testing.T, ch <-chan game.Snapshot, want game.Event) game.Snapshot {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case snap := <-ch:
			if snap.Event == want {
				return snap
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", want)
		}
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func runSession(t *testing.T, cfg Config, opts ...Option) (*Session, *recordingObserver, context.CancelFunc) {
	t.Helper()
	rec := &recordingObserver{ch: make(chan game.Snapshot, 256)}
	opts = append([]Option{WithLogger(quietLogger()), WithObserver(rec)}, opts...)
	s, err := NewSession(cfg, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = s.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-s.Done()
	})
	return s, rec, cancel
}

func TestSession_StartThenTickEatsFood(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Speed = game.SpeedFast
	cfg.Seed = 1
	s, rec, _ := runSession(t, cfg)
	ctx := context.Background()

	snap, err := s.Start(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.Playing, snap.Phase)

	started := waitForEvent(t, rec.ch, game.EventStarted)
	assert.Equal(t, cfg.InitialSnake, started.Snake)

	ate := waitForEvent(t, rec.ch, game.EventAte)
	assert.Len(t, ate.Snake, 6)
	assert.Equal(t, 1, ate.Score)
}

func TestSession_CrashStopsTicking(t *testing.T) {
	// Heading left straight into its own neck.
	cfg := DefaultConfig()
	cfg.InitialDirection = game.MoveLeft
	cfg.Speed = game.SpeedFast
	cfg.Seed = 2
	s, rec, _ := runSession(t, cfg)
	ctx := context.Background()

	_, err := s.Start(ctx)
	require.NoError(t, err)
	crashed := waitForEvent(t, rec.ch, game.EventCrashed)
	assert.Equal(t, game.GameOver, crashed.Phase)
	assert.Equal(t, cfg.InitialSnake, crashed.Snake)

	select {
	case snap := <-rec.ch:
		t.Fatalf("unexpected event after game over: %s", snap.Event)
	case <-time.After(3 * game.SpeedFast.Interval()):
	}

	snap, err := s.Restart(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.Playing, snap.Phase)
	assert.Equal(t, 0, snap.Score)
}

func TestSession_DirectionAndSpeedInput(t *testing.T) {
	cfg := farFoodConfig()
	cfg.Speed = game.SpeedSlow
	s, _, _ := runSession(t, cfg)
	ctx := context.Background()

	_, err := s.SetDirection(ctx, game.Direction(12))
	assert.ErrorIs(t, err, ErrInvalidDirection)
	_, err = s.SetSpeed(ctx, game.Speed(12))
	assert.ErrorIs(t, err, ErrInvalidSpeed)

	_, err = s.Start(ctx)
	require.NoError(t, err)

	snap, err := s.SetSpeed(ctx, game.SpeedFast)
	require.NoError(t, err)
	assert.Equal(t, game.SpeedFast, snap.Speed)

	_, err = s.SetDirection(ctx, game.MoveLeft)
	require.NoError(t, err)
	snap, err = s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.MoveRight, snap.Direction)
}

func TestSession_PauseHoldsState(t *testing.T) {
	cfg := farFoodConfig()
	cfg.Speed = game.SpeedFast
	s, rec, _ := runSession(t, cfg)
	ctx := context.Background()

	_, err := s.Start(ctx)
	require.NoError(t, err)
	paused, err := s.Pause(ctx)
	require.NoError(t, err)
	assert.True(t, paused.Paused)
	waitForEvent(t, rec.ch, game.EventPaused)

	time.Sleep(3 * game.SpeedFast.Interval())
	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, paused.Snake, snap.Snake)
	assert.Equal(t, paused.Turn, snap.Turn)

	_, err = s.Resume(ctx)
	require.NoError(t, err)
	waitForEvent(t, rec.ch, game.EventMoved)
}

type failingObserver struct{}

func (failingObserver) Observe(context.Context, game.Snapshot) error {
	return errors.New("speaker unplugged")
}

func TestSession_ObserverFailuresAreIsolated(t *testing.T) {
	cfg := farFoodConfig()
	cfg.Speed = game.SpeedFast
	panicky := ObserverFunc(func(context.Context, game.Snapshot) error { panic("boom") })
	s, rec, _ := runSession(t, cfg, WithObserver(failingObserver{}), WithObserver(panicky))
	ctx := context.Background()

	_, err := s.Start(ctx)
	require.NoError(t, err)
	first := waitForEvent(t, rec.ch, game.EventMoved)
	second := waitForEvent(t, rec.ch, game.EventMoved)
	assert.Greater(t, second.Turn, first.Turn)
}

func TestSession_ClosedAfterCancel(t *testing.T) {
	s, _, cancel := runSession(t, farFoodConfig())
	cancel()
	<-s.Done()

	_, err := s.Start(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}
