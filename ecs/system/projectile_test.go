package system

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// still keeps agents in place so projectiles meet them where they spawned.
func still(a *component.Agent) {
	a.WanderSpeed = 0
	a.ChaseSpeed = 0
}

func (f *fixture) addObstacle(bb cp.BB) ecs.Entity {
	f.t.Helper()
	e := f.w.CreateEntity()
	must(f.t, ecs.Add(f.w, e, component.ObstacleTagComponent.Kind(), &component.ObstacleTag{}))
	must(f.t, ecs.Add(f.w, e, component.ObstacleComponent.Kind(), &component.Obstacle{Bounds: bb}))
	return e
}

func (f *fixture) setRadius(e ecs.Entity, r float64) {
	c, ok := ecs.Get(f.w, e, component.ColliderComponent.Kind())
	require.True(f.t, ok)
	c.Radius = r
}

func shot(damage, explosion float64) component.ProjectileParams {
	return component.ProjectileParams{
		Speed:           50,
		Damage:          damage,
		Lifetime:        5,
		Radius:          0.1,
		ExplosionRadius: explosion,
	}
}

func TestProjectileDirectHit(t *testing.T) {
	f := newFixture(t)
	h := f.addAgent(cp.Vector{X: 10}, math.Pi, still)
	p := SpawnProjectile(f.w, 0, cp.Vector{}, cp.Vector{X: 1}, shot(10, 0))

	f.step()
	assert.True(t, f.w.IsAlive(p))
	assert.Equal(t, 100.0, h.hp.Current)

	f.step()
	assert.False(t, f.w.IsAlive(p))
	assert.Equal(t, 90.0, h.hp.Current)

	require.Equal(t, 1, f.effects.Count(EffectHit))
	var hit Effect
	for _, fx := range f.effects.Recent() {
		if fx.Kind == EffectHit {
			hit = fx
		}
	}
	assert.InDelta(t, 9.5, hit.Pos.X, 1e-6)
	assert.InDelta(t, math.Pi, math.Abs(hit.Angle), 1e-6, "normal points back at the shooter")
}

func TestProjectileHitsOnlyFirstInLine(t *testing.T) {
	f := newFixture(t)
	front := f.addAgent(cp.Vector{X: 10}, 0, still)
	back := f.addAgent(cp.Vector{X: 12}, 0, still)
	SpawnProjectile(f.w, 0, cp.Vector{}, cp.Vector{X: 1}, shot(25, 0))

	f.steps(5)

	assert.Equal(t, 75.0, front.hp.Current)
	assert.Equal(t, 100.0, back.hp.Current)
	assert.Equal(t, 1, f.effects.Count(EffectHit))
}

func TestProjectileStoppedByObstacle(t *testing.T) {
	f := newFixture(t)
	f.addObstacle(cp.BB{L: 5, B: -2, R: 6, T: 2})
	behind := f.addAgent(cp.Vector{X: 10}, 0, still)
	p := SpawnProjectile(f.w, 0, cp.Vector{}, cp.Vector{X: 1}, shot(10, 0))

	f.steps(5)

	assert.False(t, f.w.IsAlive(p))
	assert.Equal(t, 100.0, behind.hp.Current)
	assert.Equal(t, 1, f.effects.Count(EffectHit))
}

func TestProjectileIgnoresShooter(t *testing.T) {
	f := newFixture(t)
	owner := f.addAgent(cp.Vector{}, 0, still)
	target := f.addAgent(cp.Vector{X: 8}, math.Pi, still)
	f.settle(owner)

	// launched from inside the shooter's own collider
	SpawnProjectile(f.w, owner.e, cp.Vector{}, cp.Vector{X: 1}, shot(10, 0))
	f.steps(3)

	assert.Equal(t, 100.0, owner.hp.Current)
	assert.Equal(t, 90.0, target.hp.Current)
}

func TestProjectileExpires(t *testing.T) {
	f := newFixture(t)
	params := shot(10, 0)
	params.Speed = 1
	params.Lifetime = 0.25
	p := SpawnProjectile(f.w, 0, cp.Vector{}, cp.Vector{X: 1}, params)

	f.steps(2)
	require.True(t, f.w.IsAlive(p))
	tr, _ := ecs.Get(f.w, p, component.TransformComponent.Kind())
	assert.InDelta(t, 0.2, tr.Position.X, 1e-9)

	f.step()
	assert.False(t, f.w.IsAlive(p))
	assert.Zero(t, f.effects.Count(EffectHit))
}

func TestProjectileAbsorbedByColliderWithoutHealth(t *testing.T) {
	f := newFixture(t)
	crate := f.w.CreateEntity()
	must(t, ecs.Add(f.w, crate, component.TransformComponent.Kind(), &component.Transform{Position: cp.Vector{X: 6}}))
	must(t, ecs.Add(f.w, crate, component.ColliderComponent.Kind(), &component.Collider{Radius: 0.5}))
	behind := f.addAgent(cp.Vector{X: 10}, 0, still)
	p := SpawnProjectile(f.w, 0, cp.Vector{}, cp.Vector{X: 1}, shot(10, 0))

	f.steps(3)

	assert.False(t, f.w.IsAlive(p))
	assert.True(t, f.w.IsAlive(crate))
	assert.Equal(t, 100.0, behind.hp.Current)
}

func TestSplashDamagesEveryoneInRadius(t *testing.T) {
	f := newFixture(t)
	f.addObstacle(cp.BB{L: 10, B: -5, R: 11, T: 5})
	near := f.addAgent(cp.Vector{X: 9, Y: 1}, 0, still)
	mid := f.addAgent(cp.Vector{X: 9, Y: 2.5}, 0, still)
	far := f.addAgent(cp.Vector{X: 9, Y: 4}, 0, still)
	for _, h := range []agentHandle{near, mid, far} {
		f.setRadius(h.e, 0.25)
	}
	SpawnProjectile(f.w, 0, cp.Vector{}, cp.Vector{X: 1}, shot(30, 3))

	f.steps(3)

	assert.Equal(t, 70.0, near.hp.Current)
	assert.Equal(t, 70.0, mid.hp.Current)
	assert.Equal(t, 100.0, far.hp.Current)
	assert.Equal(t, 1, f.effects.Count(EffectHit))
}

func TestSplashOwnerExclusion(t *testing.T) {
	for _, tc := range []struct {
		name    string
		exclude bool
		want    float64
	}{
		{name: "excluded", exclude: true, want: 100},
		{name: "included", exclude: false, want: 80},
	} {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			f.addObstacle(cp.BB{L: 10, B: -5, R: 11, T: 5})
			owner := f.addAgent(cp.Vector{X: 8.5}, 0, still)
			f.settle(owner)

			params := shot(20, 3)
			params.ExcludeOwner = tc.exclude
			SpawnProjectile(f.w, owner.e, cp.Vector{X: 9.2}, cp.Vector{X: 1}, params)
			f.step()

			assert.Equal(t, tc.want, owner.hp.Current)
		})
	}
}

func TestSplashProvokesSurvivors(t *testing.T) {
	f := newFixture(t)
	f.addObstacle(cp.BB{L: 10, B: -5, R: 11, T: 5})
	h := f.addAgent(cp.Vector{X: 9, Y: 1}, math.Pi, still)
	f.settle(h)
	SpawnProjectile(f.w, 0, cp.Vector{X: 5}, cp.Vector{X: 1}, shot(10, 3))

	f.step()
	// damage landed after the agent system ran this tick
	assert.Equal(t, component.StateChase, h.brain.Pending)
	f.step()
	assert.Equal(t, component.StateChase, h.brain.State)
}

func TestSplashKillsOnce(t *testing.T) {
	f := newFixture(t)
	f.addObstacle(cp.BB{L: 10, B: -5, R: 11, T: 5})
	h := f.addAgent(cp.Vector{X: 9, Y: 1}, 0, still)
	other := f.addAgent(cp.Vector{X: -20}, 0, still)
	f.settle(h)

	SpawnProjectile(f.w, 0, cp.Vector{X: 5}, cp.Vector{X: 1}, shot(60, 3))
	SpawnProjectile(f.w, 0, cp.Vector{X: 5, Y: 0.5}, cp.Vector{X: 1}, shot(60, 3))
	SpawnProjectile(f.w, 0, cp.Vector{X: 5, Y: -0.5}, cp.Vector{X: 1}, shot(60, 3))
	f.step()

	assert.True(t, h.hp.Dead)
	assert.Equal(t, 1, h.anim.deaths)
	assert.Equal(t, 1, f.tracker.Remaining())
	assert.True(t, f.w.IsAlive(other.e))
}
