package system

import (
	"errors"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

const countingScript = `
on_enter := func(engine, state, current) {
	if is_undefined(state.count) {
		state.count = 0
	}
	state.count = state.count + 1
	engine.effect(current + ":" + string(state.count))
}
`

const enrageScript = `
on_enter := func(engine, state, current) {
	if current == "chase" && engine.health_ratio() < 0.5 {
		engine.set_speed(engine.speed() * 1.5)
		engine.effect("enrage")
	}
}
`

type sources map[string]string

func (s sources) load(name string) ([]byte, error) {
	src, ok := s[name]
	if !ok {
		return nil, errors.New("not found")
	}
	return []byte(src), nil
}

func newScriptFixture(t *testing.T, src sources) (*fixture, *ScriptSystem) {
	t.Helper()
	scripts := NewScriptSystem(nil, src.load)
	f := newFixture(t, scripts)
	scripts.env = f.env
	f.sched.Add(scripts)
	return f, scripts
}

func (f *fixture) script(h agentHandle, name string) {
	f.t.Helper()
	must(f.t, ecs.Add(f.w, h.e, component.ScriptComponent.Kind(), &component.Script{Name: name}))
}

func kinds(fx []Effect) []string {
	out := make([]string, 0, len(fx))
	for _, e := range fx {
		out = append(out, e.Kind)
	}
	return out
}

func TestScriptStateSurvivesBetweenCalls(t *testing.T) {
	f, _ := newScriptFixture(t, sources{"count": countingScript})
	f.addPlayer(cp.Vector{X: 1.5})
	h := f.addAgent(cp.Vector{}, 0, nil)
	f.script(h, "count")

	f.steps(3)

	require.Equal(t, component.StateAttack, h.brain.State)
	assert.Equal(t, []string{"idle:1", "chase:2", "attack:3"}, kinds(f.effects.Recent()))
}

func TestScriptTunesSpeedAfterEntryActions(t *testing.T) {
	f, _ := newScriptFixture(t, sources{"enrage": enrageScript})
	f.addPlayer(cp.Vector{X: 5})
	h := f.addAgent(cp.Vector{}, 0, nil)
	f.script(h, "enrage")
	h.hp.Current = 40

	f.steps(2)

	require.Equal(t, component.StateChase, h.brain.State)
	assert.InDelta(t, 3.5*1.5, h.nav.Speed(), 1e-9)
	assert.Equal(t, 1, f.effects.Count("enrage"))
}

func TestScriptLeavesHealthyAgentAlone(t *testing.T) {
	f, _ := newScriptFixture(t, sources{"enrage": enrageScript})
	f.addPlayer(cp.Vector{X: 5})
	h := f.addAgent(cp.Vector{}, 0, nil)
	f.script(h, "enrage")

	f.steps(2)

	assert.Equal(t, 3.5, h.nav.Speed())
	assert.Zero(t, f.effects.Count("enrage"))
}

func TestBrokenScriptIsDisabled(t *testing.T) {
	f, _ := newScriptFixture(t, sources{"broken": "on_enter := func(engine, state, current) {"})
	f.addPlayer(cp.Vector{X: 5})
	h := f.addAgent(cp.Vector{}, 0, nil)
	f.script(h, "broken")
	missing := f.addAgent(cp.Vector{Y: 1}, 0, nil)
	f.script(missing, "nope")

	assert.NotPanics(t, func() { f.steps(2) })
	assert.Equal(t, component.StateChase, h.brain.State)
	assert.Equal(t, component.StateChase, missing.brain.State)
}

func TestScriptRuntimeError(t *testing.T) {
	f, _ := newScriptFixture(t, sources{"bad": `
on_enter := func(engine, state, current) {
	engine.effect("entered")
	zero := 0
	x := 1 / zero
}
`})
	f.addPlayer(cp.Vector{X: 5})
	h := f.addAgent(cp.Vector{}, 0, nil)
	f.script(h, "bad")

	assert.NotPanics(t, func() { f.steps(2) })
	assert.Equal(t, component.StateChase, h.brain.State)
	// the faulting script ran once and was disabled
	assert.Equal(t, 1, f.effects.Count("entered"))
}

func TestInvalidateRecompiles(t *testing.T) {
	src := sources{"hook": `on_enter := func(engine, state, current) { engine.effect("old") }`}
	f, scripts := newScriptFixture(t, src)
	f.addPlayer(cp.Vector{X: -5})
	h := f.addAgent(cp.Vector{}, 0, nil)
	f.script(h, "hook")
	f.step()
	require.Equal(t, 1, f.effects.Count("old"))

	src["hook"] = `on_enter := func(engine, state, current) { engine.effect("new") }`
	scripts.Invalidate("hook")
	f.step()

	assert.Equal(t, 1, f.effects.Count("old"))
	assert.Equal(t, 1, f.effects.Count("new"))
}

func TestScriptRuntimesPrunedWithEntities(t *testing.T) {
	f, scripts := newScriptFixture(t, sources{"count": countingScript})
	f.addPlayer(cp.Vector{X: -5})
	h := f.addAgent(cp.Vector{}, 0, func(a *component.Agent) { a.DeathGrace = 0 })
	f.script(h, "count")
	f.step()
	require.Len(t, scripts.runtimes, 1)

	d, _ := DamageableOf(f.env, f.w, h.e)
	d.TakeDamage(1000)
	f.steps(2)

	assert.Empty(t, scripts.runtimes)
}
