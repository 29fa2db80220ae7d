package engine

import (
	"github.com/brensch/gridsnake/game"
)

// reply carries the result of a command back to the caller.
type reply struct {
	snap game.Snapshot
	err  error
}

type startCmd struct{ reply chan<- reply }

type restartCmd struct{ reply chan<- reply }

type directionCmd struct {
	dir   game.Direction
	reply chan<- reply
}

type speedCmd struct {
	speed game.Speed
	reply chan<- reply
}

type pauseCmd struct {
	resume bool
	reply  chan<- reply
}

type snapshotCmd struct{ reply chan<- reply }
