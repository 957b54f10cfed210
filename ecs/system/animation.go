package system

import (
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

const timerAttackClip = "attack-clip"

// ClipAnimator stands in for a real animation player. It keeps the flags a
// renderer would show and reports an attack clip as finished once its
// length has elapsed on the world clock.
type ClipAnimator struct {
	w          *ecs.World
	e          ecs.Entity
	AttackClip float64

	Walking bool
	Dead    bool
	Attacks int

	pending ecs.TimerID
}

var _ component.AnimationSignals = (*ClipAnimator)(nil)

func NewClipAnimator(w *ecs.World, e ecs.Entity, attackClip float64) *ClipAnimator {
	return &ClipAnimator{w: w, e: e, AttackClip: attackClip}
}

func (a *ClipAnimator) PlayAttack() {
	if a.Dead {
		return
	}
	a.Attacks++
	a.w.CancelTimer(a.pending)
	e := a.e
	a.pending = a.w.Schedule(e, a.AttackClip, timerAttackClip, func(w *ecs.World) {
		NotifyAttackAnimationComplete(w, e)
	})
}

func (a *ClipAnimator) PlayWalk(walking bool) {
	a.Walking = walking
}

func (a *ClipAnimator) PlayDeath() {
	a.Dead = true
	a.Walking = false
	a.w.CancelTimer(a.pending)
}
