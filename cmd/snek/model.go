package main

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/gridsnake/game"
)

const frameInterval = 16 * time.Millisecond

type intent int

const (
	intentStart intent = iota
	intentDirection
	intentSpeed
	intentPause
	intentSnapshot
)

// UpdateMsg carries a snapshot published by the session.
type UpdateMsg game.Snapshot

// ResultMsg is the reply to an intent issued from a key press.
type ResultMsg struct {
	Intent intent
	Snap   game.Snapshot
	Err    error
}

// FrameMsg drives the stepper clock in frame mode.
type FrameMsg time.Time

type model struct {
	ctx     context.Context
	ctl     controller
	frames  *frameDriver
	updates <-chan game.Snapshot
	log     *slog.Logger

	snap      game.Snapshot
	err       error
	lastFrame time.Time
	styles    styles
}

// newTimerModel shows snapshots published by a running session.
func newTimerModel(ctx context.Context, ctl controller, updates <-chan game.Snapshot, initial game.Snapshot, log *slog.Logger) model {
	return model{ctx: ctx, ctl: ctl, updates: updates, snap: initial, log: log, styles: defaultStyles()}
}

// newFrameModel drives the game itself from render frames.
func newFrameModel(ctx context.Context, frames *frameDriver, log *slog.Logger) model {
	return model{ctx: ctx, ctl: frames, frames: frames, snap: frames.machine.Snapshot(), log: log, styles: defaultStyles()}
}

func frameCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameMsg(t)
	})
}

func waitForUpdate(updates <-chan game.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-updates
		if !ok {
			return nil
		}
		return UpdateMsg(snap)
	}
}

func (m model) Init() tea.Cmd {
	if m.frames != nil {
		return frameCmd()
	}
	return tea.Batch(waitForUpdate(m.updates), m.do(intentSnapshot, func(ctx context.Context) (game.Snapshot, error) {
		return m.ctl.Snapshot(ctx)
	}))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	case UpdateMsg:
		m.snap = game.Snapshot(msg)
		return m, waitForUpdate(m.updates)
	case ResultMsg:
		m.applyResult(msg)
		return m, nil
	case FrameMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			m.snap = m.frames.advance(m.ctx, now.Sub(m.lastFrame))
		}
		m.lastFrame = now
		return m, frameCmd()
	}
	return m, nil
}

func (m model) handleKey(key string) (tea.Model, tea.Cmd) {
	if key == "q" || key == "ctrl+c" {
		return m, tea.Quit
	}
	if d, ok := directionKeys[key]; ok {
		return m.run(intentDirection, func(ctx context.Context) (game.Snapshot, error) {
			return m.ctl.SetDirection(ctx, d)
		})
	}
	if s, ok := speedKeys[key]; ok {
		return m.run(intentSpeed, func(ctx context.Context) (game.Snapshot, error) {
			return m.ctl.SetSpeed(ctx, s)
		})
	}

	switch key {
	case " ", "space", "enter":
		phase := m.snap.Phase
		return m.run(intentStart, func(ctx context.Context) (game.Snapshot, error) {
			if phase == game.GameOver {
				return m.ctl.Restart(ctx)
			}
			return m.ctl.Start(ctx)
		})
	case "p":
		paused := m.snap.Paused
		return m.run(intentPause, func(ctx context.Context) (game.Snapshot, error) {
			if paused {
				return m.ctl.Resume(ctx)
			}
			return m.ctl.Pause(ctx)
		})
	}
	return m, nil
}

// run applies an intent inline in frame mode, where the machine is owned by
// this goroutine, and as a command otherwise so a busy session never blocks
// rendering.
func (m model) run(in intent, fn func(context.Context) (game.Snapshot, error)) (tea.Model, tea.Cmd) {
	if m.frames != nil {
		snap, err := fn(m.ctx)
		m.applyResult(ResultMsg{Intent: in, Snap: snap, Err: err})
		return m, nil
	}
	return m, m.do(in, fn)
}

func (m model) do(in intent, fn func(context.Context) (game.Snapshot, error)) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		snap, err := fn(ctx)
		return ResultMsg{Intent: in, Snap: snap, Err: err}
	}
}

func (m *model) applyResult(r ResultMsg) {
	m.err = r.Err
	if r.Err != nil {
		m.log.Warn("intent rejected", "intent", int(r.Intent), "err", r.Err)
		return
	}
	if m.frames != nil {
		m.snap = r.Snap
		return
	}

	// Session replies can race with published ticks. Published snapshots
	// stay authoritative except for the speed, which only a reply reports.
	switch r.Intent {
	case intentSpeed:
		m.snap.Speed = r.Snap.Speed
	case intentSnapshot:
		if m.snap.Phase == game.NotStarted {
			m.snap = r.Snap
		}
	}
}

var directionKeys = map[string]game.Direction{
	"up": game.MoveUp, "w": game.MoveUp, "k": game.MoveUp,
	"down": game.MoveDown, "s": game.MoveDown, "j": game.MoveDown,
	"left": game.MoveLeft, "a": game.MoveLeft, "h": game.MoveLeft,
	"right": game.MoveRight, "d": game.MoveRight, "l": game.MoveRight,
}

var speedKeys = map[string]game.Speed{
	"1": game.SpeedSlow,
	"2": game.SpeedNormal,
	"3": game.SpeedFast,
}
