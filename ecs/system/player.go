package system

import (
	"github.com/milk9111/skirmish/common"
	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// PlayerSystem moves the player from its sampled input and turns it toward
// the aim point.
type PlayerSystem struct {
	env *Env
}

func NewPlayerSystem(env *Env) *PlayerSystem {
	return &PlayerSystem{env: env}
}

func (s *PlayerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.Delta()
	for _, e := range w.Query(component.PlayerComponent.Kind(), component.InputComponent.Kind(), component.TransformComponent.Kind()) {
		p, _ := ecs.Get(w, e, component.PlayerComponent.Kind())
		if !p.Active {
			continue
		}
		in, _ := ecs.Get(w, e, component.InputComponent.Kind())
		t, _ := ecs.Get(w, e, component.TransformComponent.Kind())

		move := in.Move
		if move.Length() > 1 {
			move = move.Mult(1 / move.Length())
		}
		pos := t.Position.Add(move.Mult(p.Speed * dt))
		if s.env != nil && s.env.Bounds.R > s.env.Bounds.L {
			pos = s.env.Bounds.ClampVect(&pos)
		}
		t.Position = pos

		if _, ok := common.Direction(t.Position, in.Aim); ok {
			t.Facing = common.HeadingTo(t.Position, in.Aim)
		}
	}
}
