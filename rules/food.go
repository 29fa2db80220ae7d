package rules

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"

	"github.com/brensch/gridsnake/game"
	"github.com/kamstrup/intmap"
)

// rejectionAttempts bounds the blind sampling phase of PlaceFood. On a mostly
// empty board the first draw almost always succeeds; past this many misses
// the board is crowded and an explicit free-cell scan is cheaper.
const rejectionAttempts = 64

// Occupancy is the set of cells food must avoid.
type Occupancy struct {
	grid  game.Grid
	cells *intmap.Map[uint64, struct{}]
}

// NewOccupancy builds an occupancy set from one or more bodies.
func NewOccupancy(grid game.Grid, bodies ...[]game.Point) *Occupancy {
	o := &Occupancy{
		grid:  grid,
		cells: intmap.New[uint64, struct{}](grid.Area()),
	}
	for _, body := range bodies {
		for _, p := range body {
			o.Add(p)
		}
	}
	return o
}

// Add marks p occupied. Points off the board are ignored.
func (o *Occupancy) Add(p game.Point) {
	if !o.grid.Contains(p) {
		return
	}
	o.cells.Put(o.grid.Key(p), struct{}{})
}

func (o *Occupancy) Has(p game.Point) bool {
	if !o.grid.Contains(p) {
		return false
	}
	_, ok := o.cells.Get(o.grid.Key(p))
	return ok
}

func (o *Occupancy) Len() int { return o.cells.Len() }

// Full reports whether every cell on the board is occupied.
func (o *Occupancy) Full() bool { return o.Len() >= o.grid.Area() }

// PlaceFood picks a uniformly random free cell. It samples the whole board
// and retries on occupied cells, then falls back to a uniform pick from the
// explicit free list so it always terminates. ok is false only when the board
// is full.
//
// If rng is nil a generator seeded from the occupancy is used, so identical
// boards produce identical placements.
func PlaceFood(grid game.Grid, occupied *Occupancy, rng *rand.Rand) (p game.Point, ok bool) {
	if occupied == nil {
		occupied = NewOccupancy(grid)
	}
	if occupied.Full() {
		return game.Point{}, false
	}
	if rng == nil {
		seed := int64(occupancyHash(grid, occupied))
		if seed == 0 {
			seed = 1
		}
		rng = rand.New(rand.NewSource(seed))
	}

	area := grid.Area()
	for i := 0; i < rejectionAttempts; i++ {
		p := grid.At(uint64(rng.Intn(area)))
		if !occupied.Has(p) {
			return p, true
		}
	}

	available := make([]game.Point, 0, area-occupied.Len())
	for _, p := range grid.Cells() {
		if !occupied.Has(p) {
			available = append(available, p)
		}
	}
	if len(available) == 0 {
		return game.Point{}, false
	}
	return available[rng.Intn(len(available))], true
}

func occupancyHash(grid game.Grid, occupied *Occupancy) uint64 {
	h := fnv.New64a()
	var buf [8]byte

	binary.LittleEndian.PutUint64(buf[:], uint64(uint32(grid.Size)))
	_, _ = h.Write(buf[:])
	for key := 0; key < grid.Area(); key++ {
		if !occupied.Has(grid.At(uint64(key))) {
			continue
		}
		binary.LittleEndian.PutUint64(buf[:], uint64(key))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}
