// Package perception decides whether an observer can see a target.
package perception

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
)

// Observer is the viewpoint of a perception check.
type Observer struct {
	Position   cp.Vector
	Facing     float64 // radians, 0 = +X
	SightRange float64
	FOV        float64 // degrees, full cone width
}

// Forward returns the unit facing vector.
func (o Observer) Forward() cp.Vector {
	return cp.ForAngle(o.Facing)
}

// InSight reports whether target lies within sight range and strictly inside
// half the field of view. A target on top of the observer counts as dead
// ahead. The check has no memory; hysteresis belongs to whoever calls it.
func InSight(o Observer, target cp.Vector) bool {
	toTarget := target.Sub(o.Position)
	if toTarget.Length() > o.SightRange {
		return false
	}
	return common.AngleBetween(o.Forward(), toTarget) < o.FOV/2
}

// InSightOf is InSight for an optional target. A missing target is never seen.
func InSightOf(o Observer, target cp.Vector, ok bool) bool {
	return ok && InSight(o, target)
}

// Distance returns the distance to an optional target, +Inf when missing.
func Distance(from cp.Vector, target cp.Vector, ok bool) float64 {
	if !ok {
		return math.Inf(1)
	}
	return from.Distance(target)
}
