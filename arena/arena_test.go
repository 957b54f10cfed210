package arena

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
	"github.com/milk9111/skirmish/logger"
	"github.com/milk9111/skirmish/prefabs"
	"github.com/milk9111/skirmish/session"
)

const dt = 1.0 / 30

func TestMain(m *testing.M) {
	logger.Discard()
	os.Exit(m.Run())
}

func load(t *testing.T) *Arena {
	t.Helper()
	a, err := Load("arena.yaml")
	require.NoError(t, err)
	return a
}

// overrides points prefab lookups at a fresh directory for the test.
func overrides(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "scripts"), 0o755))
	old := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = old })
	return dir
}

func prefabOf(a *Arena, e ecs.Entity) string {
	agent, _ := ecs.Get(a.World, e, component.AgentComponent.Kind())
	return agent.Prefab
}

func TestLoadBuildsSession(t *testing.T) {
	a := load(t)

	assert.Equal(t, 4, a.Tracker.Total())
	assert.Len(t, a.Agents(), 4)
	assert.True(t, a.World.IsAlive(a.Player()))
	assert.Len(t, a.World.Query(component.ObstacleComponent.Kind()), 2)
	assert.True(t, strings.HasPrefix(a.Summary(), "courtyard"))

	for _, e := range a.Agents() {
		brain, ok := ecs.Get(a.World, e, component.BrainComponent.Kind())
		require.True(t, ok)
		assert.Equal(t, uint64(a.Player()), brain.Target)
		assert.Equal(t, component.StateIdle, brain.Pending)
	}
}

func TestLoadRejectsBadArena(t *testing.T) {
	dir := overrides(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("name: broken\n"), 0o644))

	_, err := Load("broken.yaml")
	require.Error(t, err)
	assert.ErrorIs(t, err, prefabs.ErrInvalidSpec)
}

func TestStepStopsOnceSessionEnds(t *testing.T) {
	a := load(t)
	require.True(t, a.Step(dt))

	for _, e := range a.Agents() {
		d, ok := a.Damageable(e)
		require.True(t, ok)
		d.TakeDamage(10000)
	}
	require.Equal(t, session.OutcomeVictory, a.Tracker.Outcome())

	now := a.World.Now()
	assert.False(t, a.Step(dt))
	assert.Equal(t, now, a.World.Now())
	assert.Contains(t, a.Summary(), "VICTORY")
}

func TestPlayerDeathIsDefeat(t *testing.T) {
	a := load(t)
	d, ok := a.Damageable(a.Player())
	require.True(t, ok)
	require.True(t, d.TakeDamage(1000))

	assert.Equal(t, session.OutcomeDefeat, a.Tracker.Outcome())
	assert.False(t, a.Step(dt))
	assert.Contains(t, a.Summary(), "DEFEAT")
}

func TestRestartRebuilds(t *testing.T) {
	a := load(t)
	for i := 0; i < 30; i++ {
		a.Step(dt)
	}
	first := a.Agents()[0]
	d, _ := a.Damageable(first)
	d.TakeDamage(10000)
	require.Equal(t, 3, a.Tracker.Remaining())

	require.NoError(t, a.Restart())

	assert.Zero(t, a.World.Now())
	assert.Equal(t, 4, a.Tracker.Remaining())
	assert.Len(t, a.Agents(), 4)
}

func snapshot(a *Arena) []cp.Vector {
	var out []cp.Vector
	for _, e := range append([]ecs.Entity{a.Player()}, a.Agents()...) {
		t, _ := ecs.Get(a.World, e, component.TransformComponent.Kind())
		out = append(out, t.Position)
	}
	return out
}

func TestRunsAreDeterministic(t *testing.T) {
	run := func() ([]cp.Vector, string) {
		a := load(t)
		a.SetInput(NewAutopilot(a))
		for i := 0; i < 600; i++ {
			a.Step(dt)
		}
		return snapshot(a), a.Summary()
	}
	posA, sumA := run()
	posB, sumB := run()
	assert.Equal(t, posA, posB)
	assert.Equal(t, sumA, sumB)
}

func TestAutopilotEngages(t *testing.T) {
	a := load(t)
	a.SetInput(NewAutopilot(a))
	start := snapshot(a)[0]

	for i := 0; i < 300; i++ {
		a.Step(dt)
	}

	assert.Positive(t, a.Effects.Count(system.EffectMuzzle))
	assert.NotEqual(t, start, snapshot(a)[0], "the player closes in on the nearest agent")
}

func TestInputSurvivesRestart(t *testing.T) {
	a := load(t)
	a.SetInput(NewAutopilot(a))
	require.NoError(t, a.Restart())

	for i := 0; i < 300; i++ {
		a.Step(dt)
	}
	assert.Positive(t, a.Effects.Count(system.EffectMuzzle))
}

func TestReloadRetunesMatchingAgents(t *testing.T) {
	dir := overrides(t)
	a := load(t)
	a.Step(dt)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "grunt.yaml"), []byte("name: grunt\nsight_range: 3\nradius: 0.9\n"), 0o644))
	require.NoError(t, a.Reload(prefabs.Change{Name: "grunt.yaml"}))

	grunts := 0
	for _, e := range a.Agents() {
		agent, _ := ecs.Get(a.World, e, component.AgentComponent.Kind())
		collider, _ := ecs.Get(a.World, e, component.ColliderComponent.Kind())
		if prefabOf(a, e) == "grunt" {
			grunts++
			assert.Equal(t, 3.0, agent.SightRange)
			assert.Equal(t, 0.9, collider.Radius)
		} else {
			assert.NotEqual(t, 3.0, agent.SightRange)
		}
	}
	assert.Equal(t, 2, grunts)
}

func TestReloadPlayerWeapon(t *testing.T) {
	dir := overrides(t)
	a := load(t)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bullet.yaml"), []byte("name: bullet\nspeed: 80\ndamage: 35\n"), 0o644))
	require.NoError(t, a.Reload(prefabs.Change{Name: "bullet.yaml"}))

	wp, ok := ecs.Get(a.World, a.Player(), component.WeaponComponent.Kind())
	require.True(t, ok)
	assert.Equal(t, 80.0, wp.Projectile.Speed)
	assert.Equal(t, 35.0, wp.Projectile.Damage)
}

func TestReloadArenaRestarts(t *testing.T) {
	dir := overrides(t)
	a := load(t)
	a.Step(dt)

	arena := "name: duel\nseed: 3\nbounds: {min_x: -5, min_y: -5, max_x: 5, max_y: 5}\n" +
		"player: {prefab: player.yaml, x: -4, y: 0}\n" +
		"agents:\n  - {prefab: grunt.yaml, x: 4, y: 0, facing: 180}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "arena.yaml"), []byte(arena), 0o644))
	require.NoError(t, a.Reload(prefabs.Change{Name: "arena.yaml"}))

	assert.Equal(t, "duel", a.Spec().Name)
	assert.Equal(t, 1, a.Tracker.Total())
	assert.Zero(t, a.World.Now())
}

func TestReloadScriptRecompiles(t *testing.T) {
	dir := overrides(t)
	a := load(t)
	a.Step(dt)

	src := `on_enter := func(engine, state, current) { engine.effect("reloaded") }`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "scripts", "berserker.tengo"), []byte(src), 0o644))
	require.NoError(t, a.Reload(prefabs.Change{Name: "scripts/berserker.tengo", Script: true}))

	a.Step(dt)
	assert.Equal(t, 1, a.Effects.Count("reloaded"))
}

func TestReloadBadPrefabKeepsSession(t *testing.T) {
	dir := overrides(t)
	a := load(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "grunt.yaml"), []byte("sight_range: [oops\n"), 0o644))

	require.Error(t, a.Reload(prefabs.Change{Name: "grunt.yaml"}))
	assert.True(t, a.Step(dt))
}

func TestWithSeedChangesRun(t *testing.T) {
	run := func(opts ...Option) []cp.Vector {
		a, err := Load("arena.yaml", opts...)
		require.NoError(t, err)
		for i := 0; i < 300; i++ {
			a.Step(dt)
		}
		return snapshot(a)
	}
	a, err := Load("arena.yaml", WithSeed(99))
	require.NoError(t, err)
	assert.Equal(t, int64(99), a.Spec().Seed)

	// wandering goals come from the seeded source
	assert.NotEqual(t, run(), run(WithSeed(99)))
}

func TestStatsTallyDamageEvents(t *testing.T) {
	a := load(t)
	agents := a.Agents()
	hurt, _ := a.Damageable(agents[0])
	hurt.TakeDamage(1)
	dead, _ := a.Damageable(agents[1])
	dead.TakeDamage(10000)
	player, _ := a.Damageable(a.Player())
	player.TakeDamage(2)

	require.True(t, a.Step(dt))

	s := a.Stats()
	assert.Equal(t, 1, s.Kills)
	assert.GreaterOrEqual(t, s.Hits, 3)
	assert.GreaterOrEqual(t, s.DamageDealt, 10001.0)
	assert.GreaterOrEqual(t, s.DamageTaken, 2.0)

	require.NoError(t, a.Restart())
	assert.Equal(t, Stats{}, a.Stats())
}
