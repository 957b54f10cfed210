package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/logger"
)

func TestMain(m *testing.M) {
	logger.Discard()
	m.Run()
}

func spawn(w *ecs.World, t *Tracker, n int) []ecs.Entity {
	out := make([]ecs.Entity, n)
	for i := range out {
		out[i] = w.CreateEntity()
		t.Register(out[i])
	}
	return out
}

func TestVictoryWhenLastAgentDies(t *testing.T) {
	w := ecs.NewWorld()
	tr := NewTracker()
	agents := spawn(w, tr, 3)

	var got []Outcome
	tr.OnEnd(func(o Outcome) { got = append(got, o) })

	tr.OnEntityDeath(agents[0])
	tr.OnEntityDeath(agents[0])
	assert.Equal(t, 2, tr.Remaining())
	assert.False(t, tr.Ended())

	tr.OnEntityDeath(agents[1])
	tr.OnEntityDeath(agents[2])
	require.True(t, tr.Ended())
	assert.Equal(t, OutcomeVictory, tr.Outcome())
	assert.Equal(t, []Outcome{OutcomeVictory}, got)
	assert.Equal(t, 0, tr.Remaining())
	assert.Equal(t, 3, tr.Total())
}

func TestDefeatIsFinal(t *testing.T) {
	w := ecs.NewWorld()
	tr := NewTracker()
	agents := spawn(w, tr, 1)

	calls := 0
	tr.OnEnd(func(Outcome) { calls++ })

	tr.OnPlayerDeath()
	tr.OnEntityDeath(agents[0])
	tr.OnPlayerDeath()

	assert.Equal(t, OutcomeDefeat, tr.Outcome())
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, tr.Remaining())
	assert.Contains(t, tr.Summary(), "DEFEAT")
}

func TestUnregisteredDeathsIgnored(t *testing.T) {
	w := ecs.NewWorld()
	tr := NewTracker()
	spawn(w, tr, 2)

	tr.OnEntityDeath(w.CreateEntity())
	assert.Equal(t, 2, tr.Remaining())
	assert.Equal(t, "agents: 2 / 2", tr.Summary())
}

func TestNilTrackerIsInert(t *testing.T) {
	var tr *Tracker
	tr.Register(1)
	tr.OnEntityDeath(1)
	tr.OnPlayerDeath()
	assert.Equal(t, OutcomeNone, tr.Outcome())
	assert.Zero(t, tr.Remaining())
}
