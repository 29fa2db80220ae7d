package rules

import (
	"math/rand"
	"testing"

	"github.com/brensch/gridsnake/game"
)

func TestPlaceFood_NeverOnSnake(t *testing.T) {
	grid := game.Grid{Size: 10}
	snake := initialSnake()
	occ := NewOccupancy(grid, snake)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		p, ok := PlaceFood(grid, occ, rng)
		if !ok {
			t.Fatalf("placement failed on a mostly empty board")
		}
		if !grid.Contains(p) {
			t.Fatalf("food off board at %v", p)
		}
		if occ.Has(p) {
			t.Fatalf("food spawned on snake at %v", p)
		}
	}
}

func TestPlaceFood_CrowdedBoardUsesFreeList(t *testing.T) {
	grid := game.Grid{Size: 4}
	free := game.Point{X: 2, Y: 3}

	var body []game.Point
	for key := 0; key < grid.Area(); key++ {
		p := grid.At(uint64(key))
		if p != free {
			body = append(body, p)
		}
	}
	occ := NewOccupancy(grid, body)

	for seed := int64(0); seed < 20; seed++ {
		p, ok := PlaceFood(grid, occ, rand.New(rand.NewSource(seed)))
		if !ok || p != free {
			t.Fatalf("seed %d: got %v,%v want %v,true", seed, p, ok, free)
		}
	}
}

func TestPlaceFood_FullBoard(t *testing.T) {
	grid := game.Grid{Size: 3}
	var body []game.Point
	for key := 0; key < grid.Area(); key++ {
		body = append(body, grid.At(uint64(key)))
	}
	occ := NewOccupancy(grid, body)
	if !occ.Full() {
		t.Fatalf("occupancy len=%d not full", occ.Len())
	}
	if _, ok := PlaceFood(grid, occ, rand.New(rand.NewSource(1))); ok {
		t.Fatalf("placement succeeded on a full board")
	}
}

func TestPlaceFood_ReachesEveryFreeCell(t *testing.T) {
	grid := game.Grid{Size: 3}
	snake := []game.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	occ := NewOccupancy(grid, snake)
	rng := rand.New(rand.NewSource(42))

	hits := map[game.Point]int{}
	for i := 0; i < 3000; i++ {
		p, _ := PlaceFood(grid, occ, rng)
		hits[p]++
	}
	if len(hits) != grid.Area()-len(snake) {
		t.Fatalf("visited %d free cells want %d: %v", len(hits), grid.Area()-len(snake), hits)
	}
}

func TestPlaceFood_NilRngIsDeterministic(t *testing.T) {
	grid := game.Grid{Size: 10}
	occ := NewOccupancy(grid, initialSnake())

	a, okA := PlaceFood(grid, occ, nil)
	b, okB := PlaceFood(grid, occ, nil)
	if !okA || !okB || a != b {
		t.Fatalf("nil rng placements differ: %v,%v vs %v,%v", a, okA, b, okB)
	}
	if occ.Has(a) {
		t.Fatalf("deterministic food on snake at %v", a)
	}
}

func TestOccupancy_IgnoresOffBoard(t *testing.T) {
	grid := game.Grid{Size: 5}
	occ := NewOccupancy(grid, []game.Point{{X: -1, Y: 0}, {X: 5, Y: 5}, {X: 1, Y: 1}, {X: 1, Y: 1}})
	if occ.Len() != 1 {
		t.Fatalf("len=%d want=1", occ.Len())
	}
	if occ.Has(game.Point{X: -1, Y: 0}) {
		t.Fatalf("off-board point reported occupied")
	}
}
