// Package nav is the contract between agents and whatever moves them around
// the level. Path computation lives behind it.
package nav

import "github.com/jakecoffman/cp"

// Locator reports the live position of something worth following. ok is
// false once it is gone.
type Locator interface {
	Locate() (pos cp.Vector, ok bool)
}

type LocatorFunc func() (cp.Vector, bool)

func (f LocatorFunc) Locate() (cp.Vector, bool) { return f() }

// Navigator is what the behavior controller commands.
type Navigator interface {
	SetDestination(p cp.Vector)
	// Follow moves toward target's position as it changes. A later
	// SetDestination replaces it.
	Follow(target Locator)
	IsPathPending() bool
	// RemainingDistance is 0 once the destination is reached or when none
	// is set.
	RemainingDistance() float64
	Stop()
	Resume()
	SetSpeed(speed float64)
	Speed() float64
	Stopped() bool
	SampleNavigablePoint(near cp.Vector, radius float64) (cp.Vector, bool)
}

// Agent is a Navigator that also owns the position it moves.
type Agent interface {
	Navigator
	Position() cp.Vector
	Warp(p cp.Vector)
	// Advance moves the agent for dt seconds and returns its new position.
	Advance(dt float64) cp.Vector
	// Velocity is the displacement per second of the last Advance.
	Velocity() cp.Vector
}
