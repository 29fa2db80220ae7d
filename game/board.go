package game

import (
	"fmt"
	"strings"
)

// Render draws the snapshot as ASCII, one row per line from the top:
// 'H' head, 'o' body, 'F' food, '.' empty.
func Render(s *Snapshot) string {
	if s == nil || s.Size <= 0 {
		return "<empty board>\n"
	}

	grid := make([][]byte, s.Size)
	for y := range grid {
		grid[y] = make([]byte, s.Size)
		for x := range grid[y] {
			grid[y][x] = '.'
		}
	}

	inBounds := func(p Point) bool {
		return p.X >= 0 && p.X < s.Size && p.Y >= 0 && p.Y < s.Size
	}

	if s.Phase != NotStarted && inBounds(s.Food) {
		grid[s.Food.Y][s.Food.X] = 'F'
	}
	for i, p := range s.Snake {
		if !inBounds(p) {
			continue
		}
		if i == 0 {
			grid[p.Y][p.X] = 'H'
		} else {
			grid[p.Y][p.X] = 'o'
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Turn=%d Phase=%s Dir=%s Speed=%s Score=%d Len=%d\n",
		s.Turn, s.Phase, s.Direction, s.Speed, s.Score, len(s.Snake))
	for y := range grid {
		sb.Write(grid[y])
		sb.WriteByte('\n')
	}
	return sb.String()
}
