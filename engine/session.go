package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brensch/gridsnake/clock"
	"github.com/brensch/gridsnake/game"
)

// ErrSessionClosed is returned by Session calls after Run has returned.
var ErrSessionClosed = errors.New("session closed")

// Observer receives a snapshot after each transition. Observers run on the
// session goroutine once the state is fully updated; a returned error or a
// panic is logged and never reaches the game.
type Observer interface {
	Observe(ctx context.Context, snap game.Snapshot) error
}

type ObserverFunc func(ctx context.Context, snap game.Snapshot) error

func (f ObserverFunc) Observe(ctx context.Context, snap game.Snapshot) error { return f(ctx, snap) }

// Option configures a Session.
type Option func(*Session)

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.log = l }
}

func WithObserver(o Observer) Option {
	return func(s *Session) { s.observers = append(s.observers, o) }
}

// Session owns a Machine and a clock.Ticker and serializes every command and
// tick through one goroutine, so each tick runs to completion before the next
// event is looked at.
type Session struct {
	Inbox chan any

	machine   *Machine
	ticker    *clock.Ticker
	observers []Observer
	log       *slog.Logger
	done      chan struct{}
}

func NewSession(cfg Config, opts ...Option) (*Session, error) {
	ticker := clock.NewTicker()
	m, err := New(cfg, ticker)
	if err != nil {
		return nil, err
	}
	s := &Session{
		Inbox:   make(chan any, 64),
		machine: m,
		ticker:  ticker,
		log:     slog.Default(),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run processes commands and ticks until ctx is cancelled. The clock is
// stopped before Run returns, so no tick fires against a torn-down session.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.ticker.Stop()

	s.log.Info("session started", "size", s.machine.grid.Size, "speed", s.machine.speed.String())
	for {
		select {
		case <-ctx.Done():
			s.log.Info("session stopped", "reason", context.Cause(ctx))
			return nil
		case cmd := <-s.Inbox:
			s.handleCommand(ctx, cmd)
		case <-s.ticker.C():
			snap := s.machine.Tick()
			s.ticker.Rearm()
			if snap.Event != game.EventNone {
				s.publish(ctx, snap)
			}
		}
	}
}

func (s *Session) handleCommand(ctx context.Context, cmd any) {
	switch c := cmd.(type) {
	case startCmd:
		before := s.machine.Phase()
		snap := s.machine.Start()
		c.reply <- reply{snap: snap}
		if before != snap.Phase {
			s.log.Info("game started", "turn", snap.Turn)
			s.publish(ctx, snap)
		}
	case restartCmd:
		before := s.machine.Phase()
		snap := s.machine.Restart()
		c.reply <- reply{snap: snap}
		if before != snap.Phase {
			s.log.Info("game restarted")
			s.publish(ctx, snap)
		}
	case directionCmd:
		err := s.machine.SetDirection(c.dir)
		c.reply <- reply{snap: s.machine.Snapshot(), err: err}
	case speedCmd:
		err := s.machine.SetSpeed(c.speed)
		if err == nil {
			s.log.Debug("speed changed", "speed", c.speed.String())
		}
		c.reply <- reply{snap: s.machine.Snapshot(), err: err}
	case pauseCmd:
		before := s.machine.Snapshot().Paused
		var snap game.Snapshot
		if c.resume {
			snap = s.machine.Resume()
		} else {
			snap = s.machine.Pause()
		}
		c.reply <- reply{snap: snap}
		if before != snap.Paused {
			s.publish(ctx, snap)
		}
	case snapshotCmd:
		c.reply <- reply{snap: s.machine.Snapshot()}
	default:
		s.log.Warn("unknown session command", "type", fmt.Sprintf("%T", cmd))
	}
}

func (s *Session) publish(ctx context.Context, snap game.Snapshot) {
	if snap.Event.Ended() {
		s.log.Info("game over", "event", snap.Event.String(), "score", snap.Score, "turns", snap.Turn)
	}
	for _, o := range s.observers {
		s.observe(ctx, o, snap)
	}
}

func (s *Session) observe(ctx context.Context, o Observer, snap game.Snapshot) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("observer panicked", "observer", fmt.Sprintf("%T", o), "panic", r)
		}
	}()
	if err := o.Observe(ctx, *snap.Clone()); err != nil {
		s.log.Warn("observer failed", "observer", fmt.Sprintf("%T", o), "err", err)
	}
}

func (s *Session) call(ctx context.Context, build func(chan<- reply) any) (game.Snapshot, error) {
	ch := make(chan reply, 1)
	select {
	case s.Inbox <- build(ch):
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	case <-s.done:
		return game.Snapshot{}, ErrSessionClosed
	}
	select {
	case r := <-ch:
		return r.snap, r.err
	case <-ctx.Done():
		return game.Snapshot{}, ctx.Err()
	case <-s.done:
		return game.Snapshot{}, ErrSessionClosed
	}
}

func (s *Session) Start(ctx context.Context) (game.Snapshot, error) {
	return s.call(ctx, func(r chan<- reply) any { return startCmd{reply: r} })
}

func (s *Session) Restart(ctx context.Context) (game.Snapshot, error) {
	return s.call(ctx, func(r chan<- reply) any { return restartCmd{reply: r} })
}

func (s *Session) SetDirection(ctx context.Context, d game.Direction) (game.Snapshot, error) {
	return s.call(ctx, func(r chan<- reply) any { return directionCmd{dir: d, reply: r} })
}

func (s *Session) SetSpeed(ctx context.Context, sp game.Speed) (game.Snapshot, error) {
	return s.call(ctx, func(r chan<- reply) any { return speedCmd{speed: sp, reply: r} })
}

func (s *Session) Pause(ctx context.Context) (game.Snapshot, error) {
	return s.call(ctx, func(r chan<- reply) any { return pauseCmd{reply: r} })
}

func (s *Session) Resume(ctx context.Context) (game.Snapshot, error) {
	return s.call(ctx, func(r chan<- reply) any { return pauseCmd{resume: true, reply: r} })
}

func (s *Session) Snapshot(ctx context.Context) (game.Snapshot, error) {
	return s.call(ctx, func(r chan<- reply) any { return snapshotCmd{reply: r} })
}

// Done is closed when Run returns.
func (s *Session) Done() <-chan struct{} { return s.done }
