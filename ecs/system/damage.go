package system

import (
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/logger"
)

const timerRemove = "remove"

// World events pushed by the damage pipeline. Data is a DamageEvent.
const (
	EventDamaged = "damaged"
	EventDied    = "died"
)

type DamageEvent struct {
	Entity ecs.Entity
	Amount float64
	Health float64
	Player bool
}

// damageTarget adapts an entity carrying Health to combat.Damageable. Agents
// and the player share it; what differs is handled by the components they
// carry.
type damageTarget struct {
	env *Env
	w   *ecs.World
	e   ecs.Entity
}

// DamageableOf returns the damage capability of e, if it has one.
func DamageableOf(env *Env, w *ecs.World, e ecs.Entity) (combat.Damageable, bool) {
	if w == nil || !ecs.Has(w, e, component.HealthComponent.Kind()) {
		return nil, false
	}
	return &damageTarget{env: env, w: w, e: e}, true
}

func (d *damageTarget) IsDead() bool {
	h, ok := ecs.Get(d.w, d.e, component.HealthComponent.Kind())
	return !ok || h.Dead
}

func (d *damageTarget) TakeDamage(amount float64) bool {
	h, ok := ecs.Get(d.w, d.e, component.HealthComponent.Kind())
	if !ok || h.Dead {
		return false
	}
	applied, died := h.ApplyDamage(amount)
	if !applied {
		return false
	}

	logger.Log.WithFields(logrus.Fields{
		"component": "damage",
		"entity":    d.e.String(),
		"amount":    amount,
		"health":    h.Current,
	}).Debug("damage taken")

	evt := DamageEvent{
		Entity: d.e,
		Amount: amount,
		Health: h.Current,
		Player: ecs.Has(d.w, d.e, component.PlayerComponent.Kind()),
	}
	d.w.Events().Push(ecs.Event{Type: EventDamaged, Data: evt})
	if died {
		d.w.Events().Push(ecs.Event{Type: EventDied, Data: evt})
		kill(d.env, d.w, d.e)
		return true
	}
	provoke(d.w, d.e)
	return false
}

// provoke makes an idle or wandering agent hunt whoever hurt it. The request
// goes through the pending state like any other transition.
func provoke(w *ecs.World, e ecs.Entity) {
	brain, ok := ecs.Get(w, e, component.BrainComponent.Kind())
	if !ok {
		return
	}
	if brain.State == component.StateIdle || brain.State == component.StateWander {
		brain.Pending = component.StateChase
	}
}

func kill(env *Env, w *ecs.World, e ecs.Entity) {
	// Dead agents are skipped by the controller, so nothing else would clear
	// a transition requested earlier this tick.
	if brain, ok := ecs.Get(w, e, component.BrainComponent.Kind()); ok {
		brain.Pending = component.StateNone
	}
	if n, ok := ecs.Get(w, e, component.NavAgentComponent.Kind()); ok && n.Agent != nil {
		n.Agent.Stop()
	}
	if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		c.Disabled = true
	}
	if env != nil {
		env.Physics.Remove(e)
	}
	if a, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok && a.Signals != nil {
		a.Signals.PlayDeath()
	}
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		env.spawnEffect(EffectDeath, t.Position, t.Facing)
	}

	entry := logger.Log.WithFields(logrus.Fields{"component": "damage", "entity": e.String()})

	if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok {
		p.Active = false
		entry.Info("player died")
		if env != nil {
			env.Tracker.OnPlayerDeath()
		}
		return
	}

	grace := 0.0
	if a, ok := ecs.Get(w, e, component.AgentComponent.Kind()); ok {
		grace = a.DeathGrace
	}
	entry.WithField("grace", grace).Info("agent died")
	if env != nil {
		env.Tracker.OnEntityDeath(e)
	}
	w.Schedule(e, grace, timerRemove, func(w *ecs.World) {
		if env != nil {
			env.Physics.Remove(e)
		}
		w.DestroyEntity(e)
	})
}
