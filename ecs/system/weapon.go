package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// WeaponSystem fires player weapons. Automatic weapons fire while the trigger
// is held, semi-automatic ones once per press; both respect the fire rate.
type WeaponSystem struct {
	env *Env
}

func NewWeaponSystem(env *Env) *WeaponSystem {
	return &WeaponSystem{env: env}
}

func (s *WeaponSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	now := w.Now()
	for _, e := range w.Query(component.WeaponComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind()) {
		if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok && !p.Active {
			continue
		}
		wp, _ := ecs.Get(w, e, component.WeaponComponent.Kind())
		in, _ := ecs.Get(w, e, component.InputComponent.Kind())
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		trigger := in.FirePressed
		if wp.Automatic {
			trigger = in.FireHeld
		}
		if !trigger || !wp.Cooldown.TryFire(now) {
			continue
		}

		dir, ok := common.Direction(t.Position, in.Aim)
		if !ok {
			dir = t.Forward()
		}
		dir = s.scatter(dir, wp.Spread)
		origin := t.Position.Add(dir.Mult(wp.MuzzleOffset))
		SpawnProjectile(w, e, origin, dir, wp.Projectile)
		s.env.spawnEffect(EffectMuzzle, origin, dir.ToAngle())
	}
}

// scatter offsets dir by up to spread on each axis and renormalises.
func (s *WeaponSystem) scatter(dir cp.Vector, spread float64) cp.Vector {
	if spread <= 0 {
		return dir
	}
	jitter := cp.Vector{
		X: (s.env.float()*2 - 1) * spread,
		Y: (s.env.float()*2 - 1) * spread,
	}
	if out, ok := common.Direction(cp.Vector{}, dir.Add(jitter)); ok {
		return out
	}
	return dir
}
