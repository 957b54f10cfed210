package system

import (
	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/logger"
	"github.com/milk9111/skirmish/nav"
	"github.com/milk9111/skirmish/perception"
)

const (
	// arrivalDistance is how close a wandering agent must get to its goal
	// before it picks another one.
	arrivalDistance = 0.5
	// loseSightFactor widens sight range before a chase is abandoned.
	loseSightFactor = 1.5
	// disengageFactor widens attack range when deciding to keep chasing
	// after a swing.
	disengageFactor = 1.5
	// attackTimeoutFactor bounds how long an agent waits for the attack
	// clip to report completion, in multiples of the attack duration.
	attackTimeoutFactor = 2.0

	timerStrike = "strike"
)

// StateHook is told about every committed state change, after the built-in
// entry actions ran.
type StateHook interface {
	OnEnter(w *ecs.World, e ecs.Entity, state component.BehaviorState)
}

// AgentSystem runs the behavior controller of every living agent. Each tick
// an agent first decides (only when nothing is pending), then commits the
// pending state with its entry actions, then applies per-state steering.
type AgentSystem struct {
	env   *Env
	hooks []StateHook
}

func NewAgentSystem(env *Env, hooks ...StateHook) *AgentSystem {
	return &AgentSystem{env: env, hooks: hooks}
}

type agentCtx struct {
	w      *ecs.World
	e      ecs.Entity
	agent  *component.Agent
	brain  *component.Brain
	tr     *component.Transform
	nav    nav.Agent
	anim   component.AnimationSignals
	target cp.Vector
	seen   bool // target exists, not whether it is in sight
}

func (s *AgentSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, e := range w.Query(component.AgentComponent.Kind(), component.BrainComponent.Kind(), component.TransformComponent.Kind()) {
		if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && h.Dead {
			continue
		}
		ctx := s.context(w, e)
		if ctx == nil {
			continue
		}
		if ctx.brain.Pending == component.StateNone {
			s.decide(ctx)
		}
		if ctx.brain.Pending != component.StateNone {
			s.commit(ctx)
		}
		s.steer(ctx)
	}
}

func (s *AgentSystem) context(w *ecs.World, e ecs.Entity) *agentCtx {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return nil
	}
	brain, _ := ecs.Get(w, e, component.BrainComponent.Kind())
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	ctx := &agentCtx{w: w, e: e, agent: agent, brain: brain, tr: tr}
	if n, ok := ecs.Get(w, e, component.NavAgentComponent.Kind()); ok {
		ctx.nav = n.Agent
	}
	if a, ok := ecs.Get(w, e, component.AnimatorComponent.Kind()); ok {
		ctx.anim = a.Signals
	}
	ctx.target, ctx.seen = targetPosition(w, ecs.Entity(brain.Target))
	return ctx
}

// targetPosition resolves a target handle. Destroyed or dead targets count as
// missing.
func targetPosition(w *ecs.World, target ecs.Entity) (cp.Vector, bool) {
	if target == 0 || !w.IsAlive(target) {
		return cp.Vector{}, false
	}
	if h, ok := ecs.Get(w, target, component.HealthComponent.Kind()); ok && h.Dead {
		return cp.Vector{}, false
	}
	t, ok := ecs.Get(w, target, component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return t.Position, true
}

// follow tracks the brain's target through the world, so navigation keeps
// up with it between ticks.
func (ctx *agentCtx) follow() nav.Locator {
	w, target := ctx.w, ecs.Entity(ctx.brain.Target)
	return nav.LocatorFunc(func() (cp.Vector, bool) {
		return targetPosition(w, target)
	})
}

func (ctx *agentCtx) observer() perception.Observer {
	return perception.Observer{
		Position:   ctx.tr.Position,
		Facing:     ctx.tr.Facing,
		SightRange: ctx.agent.SightRange,
		FOV:        ctx.agent.FOV,
	}
}

func (ctx *agentCtx) inSight() bool {
	return perception.InSightOf(ctx.observer(), ctx.target, ctx.seen)
}

func (ctx *agentCtx) distance() float64 {
	return perception.Distance(ctx.tr.Position, ctx.target, ctx.seen)
}

func (ctx *agentCtx) arrived() bool {
	if ctx.nav == nil {
		return false
	}
	return !ctx.nav.IsPathPending() && ctx.nav.RemainingDistance() < arrivalDistance
}

func (s *AgentSystem) decide(ctx *agentCtx) {
	a, b := ctx.agent, ctx.brain
	now := ctx.w.Now()

	switch b.State {
	case component.StateIdle:
		if ctx.inSight() {
			b.Pending = component.StateChase
		} else {
			b.Pending = component.StateWander
		}
	case component.StateWander:
		if ctx.inSight() {
			b.Pending = component.StateChase
		} else if ctx.arrived() {
			s.wanderGoal(ctx)
		}
	case component.StateChase:
		dist := ctx.distance()
		if dist <= a.AttackRange && combat.CanFire(b.LastAttack, now, a.AttackCooldown) {
			b.Pending = component.StateAttack
		} else if !ctx.inSight() && dist > a.SightRange*loseSightFactor {
			b.Pending = component.StateIdle
		}
	case component.StateAttack:
		if !b.AttackDone && now-b.AttackStarted < a.AttackDuration*attackTimeoutFactor {
			return
		}
		b.AttackDone = false
		switch {
		case ctx.distance() <= a.AttackRange*disengageFactor:
			b.Pending = component.StateChase
		case ctx.inSight():
			b.Pending = component.StateChase
		default:
			b.Pending = component.StateIdle
		}
	}
}

func (s *AgentSystem) commit(ctx *agentCtx) {
	a, b := ctx.agent, ctx.brain
	prev := b.State
	b.State = b.Pending
	b.Pending = component.StateNone

	logger.Log.WithFields(logrus.Fields{
		"component": "agent",
		"entity":    ctx.e.String(),
		"from":      prev.String(),
		"to":        b.State.String(),
	}).Debug("state change")

	switch b.State {
	case component.StateIdle:
		if ctx.nav != nil {
			ctx.nav.Stop()
			ctx.nav.SetSpeed(a.WanderSpeed)
		}
		s.walk(ctx, false)
	case component.StateWander:
		if ctx.nav != nil {
			ctx.nav.Resume()
			ctx.nav.SetSpeed(a.WanderSpeed)
		}
		s.walk(ctx, true)
		s.wanderGoal(ctx)
	case component.StateChase:
		if ctx.nav != nil {
			ctx.nav.Resume()
			ctx.nav.SetSpeed(a.ChaseSpeed)
			if ctx.seen {
				ctx.nav.Follow(ctx.follow())
			}
		}
		s.walk(ctx, true)
	case component.StateAttack:
		s.enterAttack(ctx)
	}

	for _, h := range s.hooks {
		h.OnEnter(ctx.w, ctx.e, b.State)
	}
}

func (s *AgentSystem) enterAttack(ctx *agentCtx) {
	a, b := ctx.agent, ctx.brain
	now := ctx.w.Now()
	if ctx.nav != nil {
		ctx.nav.Stop()
	}
	b.LastAttack = combat.RecordFire(now)
	b.AttackStarted = now
	b.AttackDone = false
	if ctx.seen {
		ctx.tr.Facing = common.HeadingTo(ctx.tr.Position, ctx.target)
	}
	if ctx.anim != nil {
		ctx.anim.PlayAttack()
	}

	switch a.AttackKind {
	case component.AttackRanged:
		s.fireAt(ctx)
	default:
		e := ctx.e
		ctx.w.Schedule(e, a.AttackHitDelay, timerStrike, func(w *ecs.World) {
			s.strike(w, e)
		})
	}
}

// strike lands a scheduled melee hit. The target must still be within
// attack range when the wind-up ends.
func (s *AgentSystem) strike(w *ecs.World, e ecs.Entity) {
	agent, ok := ecs.Get(w, e, component.AgentComponent.Kind())
	if !ok {
		return
	}
	brain, _ := ecs.Get(w, e, component.BrainComponent.Kind())
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if brain == nil || tr == nil {
		return
	}
	target := ecs.Entity(brain.Target)
	pos, ok := targetPosition(w, target)
	if !ok || tr.Position.Distance(pos) > agent.AttackRange {
		return
	}
	if d, ok := DamageableOf(s.env, w, target); ok {
		d.TakeDamage(agent.AttackDamage)
	}
}

func (s *AgentSystem) fireAt(ctx *agentCtx) {
	if !ctx.seen {
		return
	}
	dir, ok := common.Direction(ctx.tr.Position, ctx.target)
	if !ok {
		dir = ctx.tr.Forward()
	}
	offset := ctx.agent.Projectile.Radius
	if c, ok := ecs.Get(ctx.w, ctx.e, component.ColliderComponent.Kind()); ok {
		offset += c.Radius
	}
	origin := ctx.tr.Position.Add(dir.Mult(offset))
	SpawnProjectile(ctx.w, ctx.e, origin, dir, ctx.agent.Projectile)
	s.env.spawnEffect(EffectMuzzle, origin, dir.ToAngle())
}

func (s *AgentSystem) wanderGoal(ctx *agentCtx) {
	if ctx.nav == nil {
		return
	}
	offset := common.RandomInDisk(s.env.float, ctx.agent.WanderRadius)
	goal, ok := ctx.nav.SampleNavigablePoint(ctx.tr.Position.Add(offset), ctx.agent.WanderRadius)
	if !ok {
		return
	}
	ctx.nav.SetDestination(goal)
}

func (s *AgentSystem) walk(ctx *agentCtx, on bool) {
	if ctx.anim != nil {
		ctx.anim.PlayWalk(on)
	}
}

// steer applies the per-tick work of the current state. Chase turns toward
// the target gradually while Attack snaps to it.
func (s *AgentSystem) steer(ctx *agentCtx) {
	dt := ctx.w.Delta()
	switch ctx.brain.State {
	case component.StateChase:
		if !ctx.seen {
			return
		}
		if ctx.nav != nil {
			ctx.nav.Follow(ctx.follow())
		}
		if _, ok := common.Direction(ctx.tr.Position, ctx.target); ok {
			want := common.HeadingTo(ctx.tr.Position, ctx.target)
			ctx.tr.Facing = common.LerpAngle(ctx.tr.Facing, want, ctx.agent.TurnSpeed*dt)
		}
	case component.StateAttack:
		if _, ok := common.Direction(ctx.tr.Position, ctx.target); ctx.seen && ok {
			ctx.tr.Facing = common.HeadingTo(ctx.tr.Position, ctx.target)
		}
	case component.StateWander:
		if ctx.nav == nil {
			return
		}
		if v := ctx.nav.Velocity(); v.LengthSq() > 1e-12 {
			ctx.tr.Facing = common.LerpAngle(ctx.tr.Facing, v.ToAngle(), ctx.agent.TurnSpeed*dt)
		}
	}
}

// NotifyAttackAnimationComplete is the completion signal of an attack clip.
// It is ignored unless the agent is still attacking.
func NotifyAttackAnimationComplete(w *ecs.World, e ecs.Entity) {
	brain, ok := ecs.Get(w, e, component.BrainComponent.Kind())
	if !ok || brain.State != component.StateAttack {
		return
	}
	brain.AttackDone = true
}
