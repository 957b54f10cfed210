package component

import "github.com/jakecoffman/cp"

// ProjectileParams describes what a weapon or ranged agent launches.
type ProjectileParams struct {
	Speed           float64
	Damage          float64
	Lifetime        float64
	ExplosionRadius float64 // 0 means direct hit only
	Radius          float64
	ExcludeOwner    bool
}

type Projectile struct {
	ProjectileParams

	Velocity cp.Vector
	Owner    uint64
	Age      float64
	Resolved bool
}

var ProjectileComponent = NewComponent[Projectile]()
