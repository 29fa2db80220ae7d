// Package engine drives a single snake game: Machine is the synchronous state
// machine, Session runs one Machine inside a single-goroutine event loop.
package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/brensch/gridsnake/clock"
	"github.com/brensch/gridsnake/game"
	"github.com/brensch/gridsnake/rules"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrInvalidSpeed     = errors.New("invalid speed")
	ErrInvalidSnake     = errors.New("invalid initial snake")
	ErrInvalidFood      = errors.New("invalid initial food")
)

// Config fixes the board and the starting position of every game.
type Config struct {
	Size             int32
	InitialSnake     []game.Point
	InitialDirection game.Direction
	// InitialFood pins the first food of each game. Nil places it randomly.
	InitialFood *game.Point
	Speed       game.Speed
	// Seed for food placement. Zero seeds from the wall clock.
	Seed int64
}

// DefaultConfig is a 10x10 board with a five segment snake on row 5 heading
// right and the first food directly ahead of it.
func DefaultConfig() Config {
	food := game.Point{X: 5, Y: 5}
	return Config{
		Size: game.DefaultSize,
		InitialSnake: []game.Point{
			{X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}, {X: 0, Y: 5},
		},
		InitialDirection: game.MoveRight,
		InitialFood:      &food,
		Speed:            game.SpeedNormal,
	}
}

func (c Config) Validate() error {
	grid, err := game.NewGrid(c.Size)
	if err != nil {
		return err
	}
	if len(c.InitialSnake) == 0 {
		return fmt.Errorf("%w: empty", ErrInvalidSnake)
	}
	for _, p := range c.InitialSnake {
		if !grid.Contains(p) {
			return fmt.Errorf("%w: segment %v off a %dx%d board", ErrInvalidSnake, p, c.Size, c.Size)
		}
	}
	if !rules.Distinct(c.InitialSnake) {
		return fmt.Errorf("%w: overlapping segments", ErrInvalidSnake)
	}
	if len(c.InitialSnake) >= grid.Area() {
		return fmt.Errorf("%w: no room left for food", ErrInvalidSnake)
	}
	if !c.InitialDirection.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, c.InitialDirection)
	}
	if !c.Speed.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSpeed, c.Speed)
	}
	if c.InitialFood != nil {
		if !grid.Contains(*c.InitialFood) {
			return fmt.Errorf("%w: %v off board", ErrInvalidFood, *c.InitialFood)
		}
		if rules.IsSelfCollision(*c.InitialFood, c.InitialSnake) {
			return fmt.Errorf("%w: %v on the snake", ErrInvalidFood, *c.InitialFood)
		}
	}
	return nil
}

// Machine is the game state machine. It is not safe for concurrent use: the
// owner serializes Start, Restart, input and Tick calls.
type Machine struct {
	cfg   Config
	grid  game.Grid
	clock clock.Clock
	rng   *rand.Rand

	phase   game.Phase
	snake   []game.Point
	food    game.Point
	active  game.Direction
	pending game.Direction
	speed   game.Speed
	turn    int32
	paused  bool
	event   game.Event
}

// New validates cfg and returns a Machine in NotStarted. If clk is nil a
// clock.Stepper is used, which the caller may drive or ignore.
func New(cfg Config, clk clock.Clock) (*Machine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.NewStepper()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg.InitialSnake = append([]game.Point(nil), cfg.InitialSnake...)
	if cfg.InitialFood != nil {
		food := *cfg.InitialFood
		cfg.InitialFood = &food
	}

	return &Machine{
		cfg:     cfg,
		grid:    game.Grid{Size: cfg.Size},
		clock:   clk,
		rng:     rand.New(rand.NewSource(seed)),
		phase:   game.NotStarted,
		active:  cfg.InitialDirection,
		pending: cfg.InitialDirection,
		speed:   cfg.Speed,
	}, nil
}

func (m *Machine) Clock() clock.Clock { return m.clock }

func (m *Machine) Phase() game.Phase { return m.phase }

// Start begins the first game. It is a no-op outside NotStarted.
func (m *Machine) Start() game.Snapshot {
	if m.phase != game.NotStarted {
		return m.Snapshot()
	}
	m.reset()
	return m.Snapshot()
}

// Restart begins a new game after a GameOver. It is a no-op otherwise.
func (m *Machine) Restart() game.Snapshot {
	if m.phase != game.GameOver {
		return m.Snapshot()
	}
	m.reset()
	return m.Snapshot()
}

func (m *Machine) reset() {
	m.snake = append([]game.Point(nil), m.cfg.InitialSnake...)
	m.active = m.cfg.InitialDirection
	m.pending = m.cfg.InitialDirection
	m.turn = 0
	m.paused = false

	if m.cfg.InitialFood != nil {
		m.food = *m.cfg.InitialFood
	} else {
		// Validate guarantees at least one free cell.
		m.food, _ = rules.PlaceFood(m.grid, rules.NewOccupancy(m.grid, m.snake), m.rng)
	}

	m.phase = game.Playing
	m.event = game.EventStarted
	m.clock.Start(m.speed.Interval())
}

// SetDirection buffers d for the next tick. Out of range values are rejected
// with ErrInvalidDirection. Reversing the active direction, or any change
// outside Playing, is silently ignored. Later calls before a tick replace
// earlier ones.
func (m *Machine) SetDirection(d game.Direction) error {
	if !d.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidDirection, d)
	}
	if m.phase != game.Playing {
		return nil
	}
	if !rules.CanTurn(m.active, d) {
		return nil
	}
	m.pending = d
	return nil
}

// SetSpeed changes the tick interval from the next scheduled tick on.
func (m *Machine) SetSpeed(s game.Speed) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSpeed, s)
	}
	if m.phase != game.Playing {
		return nil
	}
	m.speed = s
	m.clock.SetInterval(s.Interval())
	return nil
}

// Pause stops the clock without leaving Playing.
func (m *Machine) Pause() game.Snapshot {
	if m.phase == game.Playing && !m.paused {
		m.paused = true
		m.event = game.EventPaused
		m.clock.Stop()
	}
	return m.Snapshot()
}

// Resume restarts the clock with fresh elapsed-time accounting.
func (m *Machine) Resume() game.Snapshot {
	if m.phase == game.Playing && m.paused {
		m.paused = false
		m.event = game.EventResumed
		m.clock.Start(m.speed.Interval())
	}
	return m.Snapshot()
}

// Tick advances one step. Outside Playing, or while paused, it changes
// nothing and reports EventNone.
func (m *Machine) Tick() game.Snapshot {
	if m.phase != game.Playing || m.paused {
		snap := m.Snapshot()
		snap.Event = game.EventNone
		return snap
	}

	dir := m.pending
	out := rules.Move(m.snake, dir, m.food, m.grid)
	if out.Collided {
		m.end(game.EventCrashed)
		return m.Snapshot()
	}

	m.active = dir
	m.snake = out.Snake
	m.turn++
	m.event = game.EventMoved

	if out.Ate {
		m.event = game.EventAte
		food, ok := rules.PlaceFood(m.grid, rules.NewOccupancy(m.grid, m.snake), m.rng)
		if !ok {
			m.end(game.EventBoardFull)
			return m.Snapshot()
		}
		m.food = food
	}
	return m.Snapshot()
}

func (m *Machine) end(ev game.Event) {
	m.phase = game.GameOver
	m.event = ev
	m.clock.Stop()
}

// Score is the number of segments grown since the game started.
func (m *Machine) Score() int {
	if m.phase == game.NotStarted {
		return 0
	}
	return len(m.snake) - len(m.cfg.InitialSnake)
}

// Snapshot returns a deep copy of the current state.
func (m *Machine) Snapshot() game.Snapshot {
	snap := game.Snapshot{
		Size:      m.grid.Size,
		Food:      m.food,
		Direction: m.active,
		Phase:     m.phase,
		Speed:     m.speed,
		Score:     m.Score(),
		Turn:      m.turn,
		Paused:    m.paused,
		Event:     m.event,
	}
	if len(m.snake) > 0 {
		snap.Snake = append([]game.Point(nil), m.snake...)
	}
	return snap
}
