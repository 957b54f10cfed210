// Package arena is the simulation root: it builds a play session from an
// arena prefab, owns the world and the session tracker, and steps every
// system in order.
package arena

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/skirmish/combat"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/entity"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/logger"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/milk9111/skirmish/session"
)

// effectHistory bounds the effect log kept for viewers.
const effectHistory = 256

// Option adjusts the arena spec before the session is built.
type Option func(*prefabs.ArenaSpec)

// WithSeed replaces the arena's random seed.
func WithSeed(seed int64) Option {
	return func(s *prefabs.ArenaSpec) { s.Seed = seed }
}

type Arena struct {
	source string
	spec   prefabs.ArenaSpec
	opts   []Option

	World   *ecs.World
	Tracker *session.Tracker
	Effects *system.EffectLog
	Physics *system.PhysicsSystem
	Scripts *system.ScriptSystem

	env      *system.Env
	input    *system.InputSystem
	provider system.InputProvider
	sched    *ecs.Scheduler

	stats Stats

	player     ecs.Entity
	playerFile string
	prefabOf   map[ecs.Entity]string

	log *logrus.Entry
}

// Load builds an arena from an arena prefab file.
func Load(filename string, opts ...Option) (*Arena, error) {
	spec, err := prefabs.LoadArenaSpec(filename)
	if err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	a, err := New(spec, opts...)
	if err != nil {
		return nil, err
	}
	a.source = filename
	return a, nil
}

// New builds an arena from an already decoded spec.
func New(spec prefabs.ArenaSpec, opts ...Option) (*Arena, error) {
	for _, opt := range opts {
		opt(&spec)
	}
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("arena: %w", err)
	}
	a := &Arena{
		spec: spec,
		opts: opts,
		log:  logger.For("arena").WithField("arena", spec.Name),
	}
	if err := a.build(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Arena) build() error {
	spec := a.spec
	a.World = ecs.NewWorld()
	a.Tracker = session.NewTracker()
	a.Effects = system.NewEffectLog(effectHistory)
	a.Physics = system.NewPhysicsSystem()
	a.env = &system.Env{
		Tracker: a.Tracker,
		Effects: a.Effects,
		Physics: a.Physics,
		Bounds:  a.Bounds(),
		Rand:    rand.New(rand.NewSource(spec.Seed)),
	}
	a.Scripts = system.NewScriptSystem(a.env, prefabs.LoadScript)
	a.input = system.NewInputSystem(a.provider)
	a.prefabOf = make(map[ecs.Entity]string)
	a.stats = Stats{}

	a.sched = ecs.NewScheduler(
		system.NewTimerSystem(),
		a.input,
		system.NewPlayerSystem(a.env),
		system.NewAgentSystem(a.env, a.Scripts),
		system.NewNavigationSystem(),
		a.Physics,
		system.NewWeaponSystem(a.env),
		system.NewProjectileSystem(a.env),
		a.Scripts,
	)

	if err := a.spawnPlayer(spec.Player); err != nil {
		return err
	}
	for i, o := range spec.Obstacles {
		if _, err := entity.NewObstacle(a.World, rect(o)); err != nil {
			return fmt.Errorf("arena: obstacle %d: %w", i, err)
		}
	}
	for i, p := range spec.Agents {
		if err := a.spawnAgent(p); err != nil {
			return fmt.Errorf("arena: agent %d: %w", i, err)
		}
	}

	a.Tracker.OnEnd(func(o session.Outcome) {
		a.log.WithFields(logrus.Fields{
			"outcome": o.String(),
			"time":    a.World.Now(),
		}).Info("session over")
	})
	a.log.WithFields(logrus.Fields{
		"agents":    a.Tracker.Total(),
		"obstacles": len(spec.Obstacles),
	}).Info("arena ready")
	return nil
}

func (a *Arena) spawnPlayer(p prefabs.PlacementSpec) error {
	spec, err := prefabs.LoadPlayerSpec(p.Prefab)
	if err != nil {
		return fmt.Errorf("arena: %w", err)
	}
	projectile, err := prefabs.LoadProjectileSpec(spec.Weapon.Projectile)
	if err != nil {
		return fmt.Errorf("arena: %w", err)
	}
	e, err := entity.NewPlayer(a.World, spec, projectile, a.clamp(p.X, p.Y), entity.Degrees(p.Facing))
	if err != nil {
		return fmt.Errorf("arena: %w", err)
	}
	a.player = e
	a.playerFile = p.Prefab
	return nil
}

func (a *Arena) spawnAgent(p prefabs.PlacementSpec) error {
	spec, projectile, err := loadAgent(p.Prefab)
	if err != nil {
		return err
	}
	e, err := entity.NewAgent(a.World, entity.AgentTuning(spec, projectile), spec, entity.AgentOptions{
		Position: cp.Vector{X: p.X, Y: p.Y},
		Facing:   entity.Degrees(p.Facing),
		Bounds:   a.Bounds(),
		Target:   a.player,
	})
	if err != nil {
		return err
	}
	a.prefabOf[e] = p.Prefab
	a.Tracker.Register(e)
	return nil
}

// loadAgent reads an agent prefab together with the projectile it fires.
func loadAgent(file string) (prefabs.AgentSpec, prefabs.ProjectileSpec, error) {
	spec, err := prefabs.LoadAgentSpec(file)
	if err != nil {
		return spec, prefabs.ProjectileSpec{}, err
	}
	var projectile prefabs.ProjectileSpec
	if spec.Attack.Projectile != "" {
		projectile, err = prefabs.LoadProjectileSpec(spec.Attack.Projectile)
		if err != nil {
			return spec, projectile, err
		}
	}
	return spec, projectile, nil
}

// Step advances the session by dt seconds. Once the session has ended the
// clock stands still and Step reports false.
func (a *Arena) Step(dt float64) bool {
	if a.Tracker.Ended() || dt <= 0 {
		return false
	}
	a.World.Advance(dt)
	a.sched.Update(a.World)
	a.collect()
	return true
}

// Restart throws the current session away and rebuilds it from the spec.
func (a *Arena) Restart() error {
	a.log.Info("restart")
	return a.build()
}

// SetInput attaches the source the player is driven from.
func (a *Arena) SetInput(p system.InputProvider) {
	a.provider = p
	a.input.SetProvider(p)
}

func (a *Arena) Spec() prefabs.ArenaSpec { return a.spec }

func (a *Arena) Player() ecs.Entity { return a.player }

func (a *Arena) Bounds() cp.BB { return rect(a.spec.Bounds) }

// Agents returns the agents still in the world, dead ones included until
// their grace period ends.
func (a *Arena) Agents() []ecs.Entity {
	return a.World.Query(component.AgentComponent.Kind())
}

// LiveAgents returns the agents that can still fight, nearest first.
func (a *Arena) LiveAgents(from cp.Vector) []ecs.Entity {
	var out []ecs.Entity
	for _, e := range a.Agents() {
		if h, ok := ecs.Get(a.World, e, component.HealthComponent.Kind()); ok && !h.Dead {
			out = append(out, e)
		}
	}
	dist := func(e ecs.Entity) float64 {
		t, _ := ecs.Get(a.World, e, component.TransformComponent.Kind())
		return t.Position.DistanceSq(from)
	}
	sort.SliceStable(out, func(i, j int) bool { return dist(out[i]) < dist(out[j]) })
	return out
}

// Damageable exposes the damage capability of an entity, for tools and
// debug commands.
func (a *Arena) Damageable(e ecs.Entity) (combat.Damageable, bool) {
	return system.DamageableOf(a.env, a.World, e)
}

// Summary is a one-line status of the session.
func (a *Arena) Summary() string {
	hp := 0.0
	if h, ok := ecs.Get(a.World, a.player, component.HealthComponent.Kind()); ok {
		hp = h.Current
	}
	return fmt.Sprintf("%s | t=%.1fs | hp %.0f | %s", a.spec.Name, a.World.Now(), hp, a.Tracker.Summary())
}

func (a *Arena) clamp(x, y float64) cp.Vector {
	p := cp.Vector{X: x, Y: y}
	return a.Bounds().ClampVect(&p)
}

func rect(r prefabs.RectSpec) cp.BB {
	return cp.BB{L: r.MinX, B: r.MinY, R: r.MaxX, T: r.MaxY}
}
