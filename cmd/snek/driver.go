package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/brensch/gridsnake/clock"
	"github.com/brensch/gridsnake/engine"
	"github.com/brensch/gridsnake/game"
)

// controller is the set of intents the terminal can issue. *engine.Session
// implements it directly; frameDriver implements it over a Machine stepped
// from render frames.
type controller interface {
	Start(ctx context.Context) (game.Snapshot, error)
	Restart(ctx context.Context) (game.Snapshot, error)
	SetDirection(ctx context.Context, d game.Direction) (game.Snapshot, error)
	SetSpeed(ctx context.Context, s game.Speed) (game.Snapshot, error)
	Pause(ctx context.Context) (game.Snapshot, error)
	Resume(ctx context.Context) (game.Snapshot, error)
	Snapshot(ctx context.Context) (game.Snapshot, error)
}

var _ controller = (*engine.Session)(nil)

// frameDriver owns a Machine whose clock is a Stepper advanced by the UI's
// frame messages. All calls happen on the bubbletea update goroutine.
type frameDriver struct {
	machine   *engine.Machine
	stepper   *clock.Stepper
	observers []engine.Observer
	log       *slog.Logger
}

func newFrameDriver(cfg engine.Config, log *slog.Logger, observers ...engine.Observer) (*frameDriver, error) {
	stepper := clock.NewStepper()
	m, err := engine.New(cfg, stepper)
	if err != nil {
		return nil, err
	}
	return &frameDriver{machine: m, stepper: stepper, observers: observers, log: log}, nil
}

func (f *frameDriver) Start(ctx context.Context) (game.Snapshot, error) {
	return f.publishIfChanged(ctx, f.machine.Phase(), f.machine.Start()), nil
}

func (f *frameDriver) Restart(ctx context.Context) (game.Snapshot, error) {
	return f.publishIfChanged(ctx, f.machine.Phase(), f.machine.Restart()), nil
}

func (f *frameDriver) SetDirection(_ context.Context, d game.Direction) (game.Snapshot, error) {
	err := f.machine.SetDirection(d)
	return f.machine.Snapshot(), err
}

func (f *frameDriver) SetSpeed(_ context.Context, s game.Speed) (game.Snapshot, error) {
	err := f.machine.SetSpeed(s)
	return f.machine.Snapshot(), err
}

func (f *frameDriver) Pause(ctx context.Context) (game.Snapshot, error) {
	before := f.machine.Snapshot().Paused
	snap := f.machine.Pause()
	if snap.Paused != before {
		f.publish(ctx, snap)
	}
	return snap, nil
}

func (f *frameDriver) Resume(ctx context.Context) (game.Snapshot, error) {
	before := f.machine.Snapshot().Paused
	snap := f.machine.Resume()
	if snap.Paused != before {
		f.publish(ctx, snap)
	}
	return snap, nil
}

func (f *frameDriver) Snapshot(context.Context) (game.Snapshot, error) {
	return f.machine.Snapshot(), nil
}

// advance feeds elapsed frame time to the stepper and runs the ticks that
// became due, stopping early once the game leaves Playing.
func (f *frameDriver) advance(ctx context.Context, elapsed time.Duration) game.Snapshot {
	for range f.stepper.Advance(elapsed) {
		snap := f.machine.Tick()
		if snap.Event != game.EventNone {
			f.publish(ctx, snap)
		}
		if snap.Phase != game.Playing {
			break
		}
	}
	return f.machine.Snapshot()
}

func (f *frameDriver) publishIfChanged(ctx context.Context, before game.Phase, snap game.Snapshot) game.Snapshot {
	if snap.Phase != before {
		f.publish(ctx, snap)
	}
	return snap
}

func (f *frameDriver) publish(ctx context.Context, snap game.Snapshot) {
	for _, o := range f.observers {
		if err := o.Observe(ctx, *snap.Clone()); err != nil {
			f.log.Warn("observer failed", "observer", fmt.Sprintf("%T", o), "err", err)
		}
	}
}

// updateObserver forwards published snapshots to the UI.
type updateObserver chan<- game.Snapshot

func (u updateObserver) Observe(ctx context.Context, snap game.Snapshot) error {
	select {
	case u <- snap:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// engineConfig places the starting snake on the middle row of the board. The
// default board keeps the classic layout with food directly ahead.
func engineConfig(size int32, speed game.Speed, seed int64) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.Speed = speed
	cfg.Seed = seed
	if size == cfg.Size {
		return cfg
	}

	length := min(int32(5), size)
	row := size / 2
	cfg.Size = size
	cfg.InitialSnake = make([]game.Point, 0, length)
	for x := length - 1; x >= 0; x-- {
		cfg.InitialSnake = append(cfg.InitialSnake, game.Point{X: x, Y: row})
	}
	cfg.InitialFood = nil
	return cfg
}
