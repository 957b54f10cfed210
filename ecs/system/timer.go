package system

import "github.com/milk9111/skirmish/ecs"

// TimerSystem fires the world's due timers. It runs first so deferred work
// scheduled on an earlier tick lands before anything else moves.
type TimerSystem struct{}

func NewTimerSystem() *TimerSystem {
	return &TimerSystem{}
}

func (s *TimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	w.RunTimers()
}
