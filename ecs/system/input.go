package system

import (
	"github.com/jakecoffman/cp"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

// InputProvider is sampled once per tick. AimPoint is in world coordinates.
type InputProvider interface {
	IsFirePressed() bool
	IsFireHeld() bool
	MoveAxis() cp.Vector
	AimPoint() cp.Vector
}

type InputSystem struct {
	provider InputProvider
}

func NewInputSystem(provider InputProvider) *InputSystem {
	return &InputSystem{provider: provider}
}

// SetProvider swaps the input source, e.g. when a viewer attaches.
func (s *InputSystem) SetProvider(provider InputProvider) {
	s.provider = provider
}

func (s *InputSystem) Update(w *ecs.World) {
	if w == nil || s.provider == nil {
		return
	}
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, in *component.Input) {
		in.Move = s.provider.MoveAxis()
		in.Aim = s.provider.AimPoint()
		in.FirePressed = s.provider.IsFirePressed()
		in.FireHeld = s.provider.IsFireHeld()
	})
}
