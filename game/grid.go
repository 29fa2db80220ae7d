package game

import (
	"errors"
	"fmt"
)

// ErrInvalidGrid is returned for a non-positive board size.
var ErrInvalidGrid = errors.New("invalid grid size")

// DefaultSize is the board edge length used when none is configured.
const DefaultSize int32 = 10

// Grid is a square toroidal board: leaving one edge re-enters the opposite
// edge on the same row or column.
type Grid struct {
	Size int32
}

func NewGrid(size int32) (Grid, error) {
	if size <= 0 {
		return Grid{}, fmt.Errorf("%w: %d", ErrInvalidGrid, size)
	}
	return Grid{Size: size}, nil
}

// Step returns the cell one unit away from p in direction d.
func (g Grid) Step(p Point, d Direction) Point {
	return Step(p, d, g.Size)
}

// Contains reports whether p lies on the board.
func (g Grid) Contains(p Point) bool {
	return p.X >= 0 && p.X < g.Size && p.Y >= 0 && p.Y < g.Size
}

// Area is the number of cells on the board.
func (g Grid) Area() int {
	return int(g.Size) * int(g.Size)
}

// Key packs an on-board point into a dense integer in [0, Area).
func (g Grid) Key(p Point) uint64 {
	return uint64(p.Y)*uint64(g.Size) + uint64(p.X)
}

// At is the inverse of Key.
func (g Grid) At(key uint64) Point {
	size := uint64(g.Size)
	return Point{X: int32(key % size), Y: int32(key / size)}
}

// Cells lists every cell in row-major order, matching Key order.
func (g Grid) Cells() []Point {
	cells := make([]Point, 0, g.Area())
	for y := int32(0); y < g.Size; y++ {
		for x := int32(0); x < g.Size; x++ {
			cells = append(cells, Point{X: x, Y: y})
		}
	}
	return cells
}

// Step moves p one cell in d on a size×size torus.
func Step(p Point, d Direction, size int32) Point {
	dx, dy := d.Delta()
	return Point{X: wrap(p.X+dx, size), Y: wrap(p.Y+dy, size)}
}

func wrap(v, size int32) int32 {
	v %= size
	if v < 0 {
		v += size
	}
	return v
}
