package system

import (
	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/logger"
)

// SpawnProjectile launches a projectile from origin along dir, which must be
// a unit vector.
func SpawnProjectile(w *ecs.World, owner ecs.Entity, origin, dir cp.Vector, params component.ProjectileParams) ecs.Entity {
	e := w.CreateEntity()
	_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: origin,
		Facing:   dir.ToAngle(),
	})
	_ = ecs.Add(w, e, component.ProjectileComponent.Kind(), &component.Projectile{
		ProjectileParams: params,
		Velocity:         dir.Mult(params.Speed),
		Owner:            uint64(owner),
	})
	return e
}

// ProjectileSystem moves projectiles and resolves their first collision.
// Every projectile resolves at most once: it either hits something or runs
// out of lifetime.
type ProjectileSystem struct {
	env *Env
}

func NewProjectileSystem(env *Env) *ProjectileSystem {
	return &ProjectileSystem{env: env}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	ecs.ForEach2(w, component.ProjectileComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, p *component.Projectile, t *component.Transform) {
		if p.Resolved {
			return
		}
		p.Age += dt

		from := t.Position
		to := from.Add(p.Velocity.Mult(dt))
		// the shooter never blocks its own shot; ExcludeOwner only matters
		// for splash
		if hit, ok := s.env.Physics.Sweep(from, to, p.Radius, ecs.Entity(p.Owner)); ok {
			t.Position = hit.Point
			s.resolve(w, e, p, hit)
			return
		}
		t.Position = to

		if p.Age >= p.Lifetime {
			p.Resolved = true
			w.DestroyEntity(e)
		}
	})
}

func (s *ProjectileSystem) resolve(w *ecs.World, e ecs.Entity, p *component.Projectile, hit Hit) {
	p.Resolved = true
	owner := ecs.Entity(p.Owner)

	entry := logger.Log.WithFields(logrus.Fields{
		"component": "projectile",
		"entity":    e.String(),
		"hit":       hit.Entity.String(),
	})

	if p.ExplosionRadius > 0 {
		victims := s.env.Physics.Overlapping(hit.Point, p.ExplosionRadius)
		entry.WithField("victims", len(victims)).Debug("explode")
		for _, victim := range victims {
			if p.ExcludeOwner && victim == owner {
				continue
			}
			if d, ok := DamageableOf(s.env, w, victim); ok {
				d.TakeDamage(p.Damage)
			}
		}
	} else if !hit.Static {
		if d, ok := DamageableOf(s.env, w, hit.Entity); ok {
			entry.Debug("direct hit")
			d.TakeDamage(p.Damage)
		}
	}

	s.env.spawnEffect(EffectHit, hit.Point, hit.Normal.ToAngle())
	w.DestroyEntity(e)
}
