// Package clock schedules simulation ticks independently of rendering.
//
// Two interchangeable strategies satisfy the same advance-on-threshold
// contract: Ticker delivers ticks from a timer on a channel, Stepper is
// driven by a host frame loop and reports how many ticks are due.
package clock

import (
	"time"
)

// State of a clock.
type State int32

const (
	Stopped State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "stopped"
}

// DefaultInterval is used when a non-positive interval is supplied.
const DefaultInterval = 200 * time.Millisecond

// Clock is the control surface the state machine drives. Start always begins
// fresh elapsed-time accounting; Stop takes effect immediately; SetInterval
// applies from the next scheduled tick.
type Clock interface {
	Start(interval time.Duration)
	Stop()
	SetInterval(interval time.Duration)
	Interval() time.Duration
	State() State
}

func normalize(interval time.Duration) time.Duration {
	if interval <= 0 {
		return DefaultInterval
	}
	return interval
}

// Ticker is a fixed-interval Clock. Each delivered tick must be acknowledged
// with Rearm, which schedules the next one using the current interval, so
// exactly one tick is outstanding at a time.
//
// Ticker is not safe for concurrent use; it is owned by one event loop.
type Ticker struct {
	timer    *time.Timer
	interval time.Duration
	state    State
}

func NewTicker() *Ticker {
	return &Ticker{interval: DefaultInterval}
}

func (t *Ticker) Start(interval time.Duration) {
	t.interval = normalize(interval)
	t.state = Running
	if t.timer == nil {
		t.timer = time.NewTimer(t.interval)
		return
	}
	// Reset discards any expiry that was pending before the restart.
	t.timer.Reset(t.interval)
}

func (t *Ticker) Stop() {
	t.state = Stopped
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *Ticker) SetInterval(interval time.Duration) {
	t.interval = normalize(interval)
}

func (t *Ticker) Interval() time.Duration { return t.interval }

func (t *Ticker) State() State { return t.state }

// C returns the tick channel, or nil while stopped so a select on it never
// fires.
func (t *Ticker) C() <-chan time.Time {
	if t.state != Running || t.timer == nil {
		return nil
	}
	return t.timer.C
}

// Rearm schedules the next tick after one has been handled.
func (t *Ticker) Rearm() {
	if t.state != Running || t.timer == nil {
		return
	}
	t.timer.Reset(t.interval)
}

// Stepper is a frame-driven Clock. The host calls Advance with the time since
// its previous frame and runs the returned number of ticks.
type Stepper struct {
	// MaxCatchUp caps ticks returned by one Advance call; any backlog beyond
	// it is dropped. Zero means DefaultMaxCatchUp.
	MaxCatchUp int

	interval time.Duration
	acc      time.Duration
	state    State
}

const DefaultMaxCatchUp = 4

func NewStepper() *Stepper {
	return &Stepper{interval: DefaultInterval}
}

func (s *Stepper) Start(interval time.Duration) {
	s.interval = normalize(interval)
	s.acc = 0
	s.state = Running
}

func (s *Stepper) Stop() {
	s.state = Stopped
	s.acc = 0
}

func (s *Stepper) SetInterval(interval time.Duration) {
	s.interval = normalize(interval)
}

func (s *Stepper) Interval() time.Duration { return s.interval }

func (s *Stepper) State() State { return s.state }

// Advance accumulates elapsed frame time and returns how many ticks crossed
// the threshold. It returns 0 while stopped.
func (s *Stepper) Advance(elapsed time.Duration) int {
	if s.state != Running || elapsed <= 0 {
		return 0
	}
	limit := s.MaxCatchUp
	if limit <= 0 {
		limit = DefaultMaxCatchUp
	}

	s.acc += elapsed
	n := 0
	for s.acc >= s.interval {
		s.acc -= s.interval
		n++
		if n == limit {
			s.acc = 0
			break
		}
	}
	return n
}
