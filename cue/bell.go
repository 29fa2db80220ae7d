// Package cue plays audible cues for game events.
package cue

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/brensch/gridsnake/game"
)

const bell = "\a"

// Bell rings the terminal bell when food is eaten and when a game ends. Write
// errors are returned to the caller, which is expected to log and ignore them.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Observe(_ context.Context, snap game.Snapshot) error {
	n := rings(snap.Event)
	if n == 0 {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for range n {
		if _, err := io.WriteString(b.w, bell); err != nil {
			return fmt.Errorf("ring bell: %w", err)
		}
	}
	return nil
}

// rings is the number of bells for an event: one for food, two for the end
// of a game.
func rings(ev game.Event) int {
	switch {
	case ev == game.EventAte:
		return 1
	case ev.Ended():
		return 2
	}
	return 0
}
