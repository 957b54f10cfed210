package component

import "github.com/jakecoffman/cp"

// Transform places an entity on the ground plane. Facing is in radians,
// measured counter-clockwise from +X.
type Transform struct {
	Position cp.Vector
	Facing   float64
}

// Forward is the unit vector the entity faces.
func (t Transform) Forward() cp.Vector {
	return cp.ForAngle(t.Facing)
}

var TransformComponent = NewComponent[Transform]()
