package entity

import (
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

func NewObstacle(w *ecs.World, bounds cp.BB) (ecs.Entity, error) {
	e := w.CreateEntity()
	if err := ecs.Add(w, e, component.ObstacleTagComponent.Kind(), &component.ObstacleTag{}); err != nil {
		return 0, fmt.Errorf("obstacle: add tag: %w", err)
	}
	if err := ecs.Add(w, e, component.ObstacleComponent.Kind(), &component.Obstacle{Bounds: bounds}); err != nil {
		return 0, fmt.Errorf("obstacle: add bounds: %w", err)
	}
	return e, nil
}

// ObstacleAt reports whether p lies inside any obstacle of w.
func ObstacleAt(w *ecs.World, p cp.Vector) bool {
	inside := false
	ecs.ForEach(w, component.ObstacleComponent.Kind(), func(_ ecs.Entity, o *component.Obstacle) {
		if !inside && o.Bounds.ContainsVect(p) {
			inside = true
		}
	})
	return inside
}
