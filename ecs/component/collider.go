package component

import "github.com/jakecoffman/cp"

// Collider is a circle around the entity's transform. The physics system
// mirrors it into the collision space; a disabled collider is taken out of
// the space and can no longer be hit.
type Collider struct {
	Radius   float64
	Disabled bool
}

var ColliderComponent = NewComponent[Collider]()

// Obstacle is static level geometry that stops projectiles.
type Obstacle struct {
	Bounds cp.BB
}

var ObstacleComponent = NewComponent[Obstacle]()
