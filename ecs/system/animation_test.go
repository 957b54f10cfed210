package system

import (
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

func (f *fixture) clip(h agentHandle, length float64) *ClipAnimator {
	f.t.Helper()
	a, ok := ecs.Get(f.w, h.e, component.AnimatorComponent.Kind())
	require.True(f.t, ok)
	clip := NewClipAnimator(f.w, h.e, length)
	a.Signals = clip
	return clip
}

func TestClipCompletionEndsAttack(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(cp.Vector{X: 1.5})
	h := f.addAgent(cp.Vector{}, 0, nil)
	clip := f.clip(h, 0.5)
	enterAttack(t, f, h)
	assert.Equal(t, 1, clip.Attacks)
	assert.Equal(t, 1, f.w.PendingTimers(h.e, timerAttackClip))

	f.steps(3)
	assert.Equal(t, component.StateAttack, h.brain.State)

	f.steps(4)
	assert.Equal(t, component.StateChase, h.brain.State)
	assert.True(t, clip.Walking)
}

func TestClipCancelledOnDeath(t *testing.T) {
	f := newFixture(t)
	f.addPlayer(cp.Vector{X: 1.5})
	h := f.addAgent(cp.Vector{}, 0, nil)
	clip := f.clip(h, 0.5)
	enterAttack(t, f, h)

	d, _ := DamageableOf(f.env, f.w, h.e)
	d.TakeDamage(1000)

	assert.True(t, clip.Dead)
	assert.False(t, clip.Walking)
	assert.Zero(t, f.w.PendingTimers(h.e, timerAttackClip))

	clip.PlayAttack()
	assert.Equal(t, 1, clip.Attacks)
}

func TestClipRestartReplacesPendingCompletion(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	clip := NewClipAnimator(w, e, 1)

	clip.PlayAttack()
	w.Advance(0.5)
	clip.PlayAttack()

	assert.Equal(t, 2, clip.Attacks)
	assert.Equal(t, 1, w.PendingTimers(e, timerAttackClip))
}
