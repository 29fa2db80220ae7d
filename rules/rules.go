package rules

import (
	"github.com/brensch/gridsnake/game"
)

// NextHead returns where the head lands after one move in d.
func NextHead(snake []game.Point, d game.Direction, grid game.Grid) game.Point {
	return grid.Step(snake[0], d)
}

// Advance returns a new body with next prepended. When ateFood is false the
// tail is dropped so the length is unchanged; otherwise the snake grows by one.
// The input slice is never modified or aliased.
func Advance(snake []game.Point, next game.Point, ateFood bool) []game.Point {
	keep := len(snake)
	if !ateFood {
		keep--
	}
	body := make([]game.Point, 0, keep+1)
	body = append(body, next)
	body = append(body, snake[:keep]...)
	return body
}

// RemainingBody is the part of the current body still occupied once this
// tick's tail shift has happened: everything but the tail for a plain move,
// the whole body when the snake is growing.
func RemainingBody(snake []game.Point, ateFood bool) []game.Point {
	if ateFood || len(snake) == 0 {
		return snake
	}
	return snake[:len(snake)-1]
}

// IsSelfCollision reports whether head lands on any cell of body. Callers pass
// RemainingBody so a head moving into the cell the tail vacates this tick is
// not reported.
func IsSelfCollision(head game.Point, body []game.Point) bool {
	for _, p := range body {
		if p == head {
			return true
		}
	}
	return false
}

// CanTurn reports whether requested may replace active as the next move.
// Reversing onto the neck is refused.
func CanTurn(active, requested game.Direction) bool {
	return requested.Valid() && requested != active.Opposite()
}

// Outcome describes one attempted move.
type Outcome struct {
	Head     game.Point
	Ate      bool
	Collided bool
	// Snake is the committed body, or the unchanged input when Collided.
	Snake []game.Point
}

// Move evaluates a single tick for snake heading in d with food on the board.
// On collision the move is discarded and the input body is returned as is.
func Move(snake []game.Point, d game.Direction, food game.Point, grid game.Grid) Outcome {
	head := NextHead(snake, d, grid)
	ate := head == food

	if IsSelfCollision(head, RemainingBody(snake, ate)) {
		return Outcome{Head: head, Ate: false, Collided: true, Snake: snake}
	}
	return Outcome{Head: head, Ate: ate, Snake: Advance(snake, head, ate)}
}

// Distinct reports whether no two segments share a cell.
func Distinct(snake []game.Point) bool {
	seen := make(map[game.Point]struct{}, len(snake))
	for _, p := range snake {
		if _, ok := seen[p]; ok {
			return false
		}
		seen[p] = struct{}{}
	}
	return true
}
