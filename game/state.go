// Package game defines the core value types for a single-player snake board.
//
// These types are deliberately small values so the state machine can hand
// out deep-copied snapshots to renderers without sharing memory with the
// simulation. Coordinates follow screen conventions: (0,0) is the top-left
// cell and MoveUp decreases Y.
package game

import (
	"fmt"
	"time"
)

// Point is a board coordinate.
type Point struct {
	X int32
	Y int32
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Direction is one of the four grid moves.
type Direction int32

const (
	MoveUp Direction = iota
	MoveDown
	MoveLeft
	MoveRight
)

var directionNames = [...]string{"up", "down", "left", "right"}

// Valid reports whether d is one of the four declared moves.
func (d Direction) Valid() bool {
	return d >= MoveUp && d <= MoveRight
}

// Opposite returns the reverse move. Invalid values are returned unchanged.
func (d Direction) Opposite() Direction {
	switch d {
	case MoveUp:
		return MoveDown
	case MoveDown:
		return MoveUp
	case MoveLeft:
		return MoveRight
	case MoveRight:
		return MoveLeft
	}
	return d
}

// Delta returns the unwrapped (dx, dy) offset for one step.
func (d Direction) Delta() (dx, dy int32) {
	switch d {
	case MoveUp:
		return 0, -1
	case MoveDown:
		return 0, 1
	case MoveLeft:
		return -1, 0
	case MoveRight:
		return 1, 0
	}
	return 0, 0
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("direction(%d)", int32(d))
	}
	return directionNames[d]
}

// ParseDirection maps "up", "down", "left" or "right" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), true
		}
	}
	return 0, false
}

// Phase is the lifecycle stage of a game.
type Phase int32

const (
	NotStarted Phase = iota
	Playing
	GameOver
)

var phaseNames = [...]string{"not_started", "playing", "game_over"}

func (p Phase) String() string {
	if p < NotStarted || p > GameOver {
		return fmt.Sprintf("phase(%d)", int32(p))
	}
	return phaseNames[p]
}

// ParsePhase is the inverse of Phase.String.
func ParsePhase(s string) (Phase, bool) {
	for i, name := range phaseNames {
		if name == s {
			return Phase(i), true
		}
	}
	return 0, false
}

// Speed selects the tick interval.
type Speed int32

const (
	SpeedSlow Speed = iota
	SpeedNormal
	SpeedFast
)

var speedIntervals = [...]time.Duration{
	SpeedSlow:   300 * time.Millisecond,
	SpeedNormal: 200 * time.Millisecond,
	SpeedFast:   100 * time.Millisecond,
}

var speedNames = [...]string{"slow", "normal", "fast"}

func (s Speed) Valid() bool {
	return s >= SpeedSlow && s <= SpeedFast
}

// Interval is the time between ticks at this speed. Faster speeds map to
// strictly shorter intervals.
func (s Speed) Interval() time.Duration {
	if !s.Valid() {
		return speedIntervals[SpeedNormal]
	}
	return speedIntervals[s]
}

func (s Speed) String() string {
	if !s.Valid() {
		return fmt.Sprintf("speed(%d)", int32(s))
	}
	return speedNames[s]
}

// ParseSpeed maps "slow", "normal" or "fast" to a Speed.
func ParseSpeed(s string) (Speed, bool) {
	for i, name := range speedNames {
		if name == s {
			return Speed(i), true
		}
	}
	return 0, false
}

// Event names the transition that produced a snapshot.
type Event int32

const (
	EventNone Event = iota
	EventStarted
	EventMoved
	EventAte
	EventCrashed
	// EventBoardFull ends a game whose snake has covered every cell.
	EventBoardFull
	EventPaused
	EventResumed
)

var eventNames = [...]string{"none", "started", "moved", "ate", "crashed", "board_full", "paused", "resumed"}

func (e Event) String() string {
	if e < EventNone || int(e) >= len(eventNames) {
		return fmt.Sprintf("event(%d)", int32(e))
	}
	return eventNames[e]
}

// ParseEvent is the inverse of Event.String.
func ParseEvent(s string) (Event, bool) {
	for i, name := range eventNames {
		if name == s {
			return Event(i), true
		}
	}
	return 0, false
}

// Ended reports whether the event moved the game into GameOver.
func (e Event) Ended() bool {
	return e == EventCrashed || e == EventBoardFull
}

// Snapshot is the read-only view handed to adapters after every transition.
// Score is only meaningful while Playing or GameOver.
type Snapshot struct {
	Size      int32
	Snake     []Point
	Food      Point
	Direction Direction
	Phase     Phase
	Speed     Speed
	Score     int
	Turn      int32
	Paused    bool
	Event     Event
}

// Head returns the first snake segment, or false before the first start.
func (s *Snapshot) Head() (Point, bool) {
	if len(s.Snake) == 0 {
		return Point{}, false
	}
	return s.Snake[0], true
}

// Clone performs a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := *s
	if len(s.Snake) > 0 {
		out.Snake = make([]Point, len(s.Snake))
		copy(out.Snake, s.Snake)
	}
	return &out
}
