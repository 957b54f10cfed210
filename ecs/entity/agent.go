package entity

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/nav"
	"github.com/milk9111/skirmish/prefabs"
)

// AgentTuning converts an agent prefab into its component form. projectile
// is only consulted for ranged attacks.
func AgentTuning(spec prefabs.AgentSpec, projectile prefabs.ProjectileSpec) component.Agent {
	a := component.Agent{
		Prefab:         spec.Name,
		SightRange:     spec.SightRange,
		FOV:            spec.FOV,
		WanderRadius:   spec.WanderRadius,
		AttackRange:    spec.AttackRange,
		ChaseSpeed:     spec.ChaseSpeed,
		WanderSpeed:    spec.WanderSpeed,
		TurnSpeed:      spec.TurnSpeed,
		AttackKind:     component.AttackKind(spec.Attack.Kind),
		AttackCooldown: spec.Attack.Cooldown,
		AttackDuration: spec.Attack.Duration,
		AttackHitDelay: spec.Attack.HitDelay,
		AttackDamage:   spec.Attack.Damage,
		DeathGrace:     spec.DeathGrace,
	}
	if a.AttackKind == component.AttackRanged {
		a.Projectile = ProjectileParams(projectile)
	}
	return a
}

func ProjectileParams(spec prefabs.ProjectileSpec) component.ProjectileParams {
	return component.ProjectileParams{
		Speed:           spec.Speed,
		Damage:          spec.Damage,
		Lifetime:        spec.Lifetime,
		ExplosionRadius: spec.ExplosionRadius,
		Radius:          spec.Radius,
		ExcludeOwner:    spec.ExcludeOwner,
	}
}

// AgentOptions places a new agent.
type AgentOptions struct {
	Position cp.Vector
	Facing   float64 // radians
	Bounds   cp.BB
	Target   ecs.Entity
}

// NewAgent builds a hostile agent. It starts in Idle with Idle pending so the
// Idle entry actions run on its first tick.
func NewAgent(w *ecs.World, tuning component.Agent, spec prefabs.AgentSpec, opts AgentOptions) (ecs.Entity, error) {
	e := w.CreateEntity()

	navigator := nav.NewDirect(opts.Bounds, opts.Position)
	navigator.SetBlocked(func(p cp.Vector) bool { return ObstacleAt(w, p) })
	start := navigator.Position()

	if err := ecs.Add(w, e, component.AgentTagComponent.Kind(), &component.AgentTag{}); err != nil {
		return 0, fmt.Errorf("agent: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.AgentComponent.Kind(), &tuning); err != nil {
		return 0, fmt.Errorf("agent: add tuning: %w", err)
	}
	if err := ecs.Add(w, e, component.BrainComponent.Kind(), &component.Brain{
		State:      component.StateIdle,
		Pending:    component.StateIdle,
		LastAttack: combat.NeverFired,
		Target:     uint64(opts.Target),
	}); err != nil {
		return 0, fmt.Errorf("agent: add brain: %w", err)
	}
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: start,
		Facing:   opts.Facing,
	}); err != nil {
		return 0, fmt.Errorf("agent: add transform: %w", err)
	}
	if err := ecs.Add(w, e, component.HealthComponent.Kind(), combat.NewHealth(spec.MaxHealth)); err != nil {
		return 0, fmt.Errorf("agent: add health: %w", err)
	}
	if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Radius: spec.Radius}); err != nil {
		return 0, fmt.Errorf("agent: add collider: %w", err)
	}
	if err := ecs.Add(w, e, component.NavAgentComponent.Kind(), &component.NavAgent{Agent: navigator}); err != nil {
		return 0, fmt.Errorf("agent: add navigator: %w", err)
	}
	if err := ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{
		Signals: system.NewClipAnimator(w, e, tuning.AttackDuration),
	}); err != nil {
		return 0, fmt.Errorf("agent: add animator: %w", err)
	}
	if spec.Script != "" {
		if err := ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Name: spec.Script}); err != nil {
			return 0, fmt.Errorf("agent: add script: %w", err)
		}
	}
	return e, nil
}

// Degrees converts a prefab facing to radians.
func Degrees(deg float64) float64 {
	return deg * math.Pi / 180
}

// Retune swaps the tuning of a live agent from an edited prefab. Runtime
// state (behavior, cooldown, health, position) is kept; the navigator picks
// up the new speed for the state it is in.
func Retune(w *ecs.World, e ecs.Entity, tuning component.Agent, spec prefabs.AgentSpec) error {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return fmt.Errorf("agent %s: %w", e, ecs.ErrEntityNotAlive)
	}
	*agent = tuning

	if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok {
		c.Radius = spec.Radius
	}
	if a, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		if clip, ok := a.Signals.(*system.ClipAnimator); ok {
			clip.AttackClip = tuning.AttackDuration
		}
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && !h.Dead {
		h.Max = spec.MaxHealth
		h.Current = math.Min(h.Current, h.Max)
	}
	if sc, ok := ecs.Get(w, e, component.ScriptComponent.Kind()); ok {
		sc.Name = spec.Script
	} else if spec.Script != "" {
		if err := ecs.Add(w, e, component.ScriptComponent.Kind(), &component.Script{Name: spec.Script}); err != nil {
			return fmt.Errorf("agent %s: add script: %w", e, err)
		}
	}

	brain, _ := ecs.Get(w, e, component.BrainComponent.Kind())
	n, ok := ecs.Get(w, e, component.NavAgentComponent.Kind())
	if brain == nil || !ok || n.Agent == nil {
		return nil
	}
	switch brain.State {
	case component.StateChase:
		n.Agent.SetSpeed(tuning.ChaseSpeed)
	case component.StateIdle, component.StateWander:
		n.Agent.SetSpeed(tuning.WanderSpeed)
	}

	return nil
}
