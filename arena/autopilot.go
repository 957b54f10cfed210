package arena

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
	"github.com/milk9111/skirmish/ecs/system"
)

// Autopilot plays the player for headless runs: it aims at the nearest
// living agent, fires while one is within Range and backs off from anything
// closer than Keep.
type Autopilot struct {
	arena *Arena
	Range float64
	Keep  float64
}

var _ system.InputProvider = (*Autopilot)(nil)

func NewAutopilot(a *Arena) *Autopilot {
	return &Autopilot{arena: a, Range: 14, Keep: 4}
}

func (p *Autopilot) self() (cp.Vector, bool) {
	w := p.arena.World
	t, ok := ecs.Get(w, p.arena.Player(), component.TransformComponent.Kind())
	if !ok {
		return cp.Vector{}, false
	}
	return t.Position, true
}

// nearest returns the closest living agent's position.
func (p *Autopilot) nearest() (self, target cp.Vector, ok bool) {
	self, ok = p.self()
	if !ok {
		return self, target, false
	}
	agents := p.arena.LiveAgents(self)
	if len(agents) == 0 {
		return self, target, false
	}
	t, ok := ecs.Get(p.arena.World, agents[0], component.TransformComponent.Kind())
	if !ok {
		return self, target, false
	}
	return self, t.Position, true
}

func (p *Autopilot) IsFirePressed() bool { return p.IsFireHeld() }

func (p *Autopilot) IsFireHeld() bool {
	self, target, ok := p.nearest()
	return ok && self.Distance(target) <= p.Range
}

func (p *Autopilot) MoveAxis() cp.Vector {
	self, target, ok := p.nearest()
	if !ok {
		return cp.Vector{}
	}
	dir, ok := common.Direction(self, target)
	if !ok {
		return cp.Vector{}
	}
	switch d := self.Distance(target); {
	case d < p.Keep:
		return dir.Neg()
	case d > p.Range:
		return dir
	}
	return cp.Vector{}
}

func (p *Autopilot) AimPoint() cp.Vector {
	self, target, ok := p.nearest()
	if ok {
		return target
	}
	if t, ok := ecs.Get(p.arena.World, p.arena.Player(), component.TransformComponent.Kind()); ok {
		return self.Add(t.Forward())
	}
	return self
}
