package component

import "github.com/milk9111/skirmish/combat"

// Weapon fires projectiles toward the entity's aim point. The cooldown
// duration is the minimum time between shots.
type Weapon struct {
	Automatic    bool
	Spread       float64
	MuzzleOffset float64
	Projectile   ProjectileParams

	Cooldown combat.Cooldown
}

var WeaponComponent = NewComponent[Weapon]()
