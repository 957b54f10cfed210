package system

import (
	"sort"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/skirmish/ecs"
	"github.com/milk9111/skirmish/ecs/component"
)

const (
	categoryBody uint = 1 << iota
	categoryObstacle
)

// Hit is the first thing a swept projectile touches.
type Hit struct {
	Entity ecs.Entity
	Point  cp.Vector
	Normal cp.Vector
	Alpha  float64
	Static bool
}

// PhysicsSystem mirrors colliders and obstacles into a chipmunk space and
// answers the spatial queries projectiles need. The space is never stepped:
// bodies are kinematic and follow their transforms.
type PhysicsSystem struct {
	space     *cp.Space
	bodies    map[ecs.Entity]*cp.Shape
	obstacles map[ecs.Entity]*cp.Shape
}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{
		space:     cp.NewSpace(),
		bodies:    make(map[ecs.Entity]*cp.Shape),
		obstacles: make(map[ecs.Entity]*cp.Shape),
	}
}

func (s *PhysicsSystem) Space() *cp.Space {
	return s.space
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	for e := range s.bodies {
		c, ok := ecs.Get(w, e, component.ColliderComponent.Kind())
		if !ok || c.Disabled {
			s.Remove(e)
		}
	}
	for e := range s.obstacles {
		if !ecs.Has(w, e, component.ObstacleComponent.Kind()) {
			s.Remove(e)
		}
	}

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Collider, t *component.Transform) {
		if c.Disabled {
			return
		}
		s.syncBody(e, c, t.Position)
	})

	ecs.ForEach(w, component.ObstacleComponent.Kind(), func(e ecs.Entity, o *component.Obstacle) {
		if _, ok := s.obstacles[e]; ok {
			return
		}
		shape := cp.NewBox2(s.space.StaticBody, o.Bounds, 0)
		shape.UserData = e
		shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryObstacle, cp.ALL_CATEGORIES))
		s.space.AddShape(shape)
		s.obstacles[e] = shape
	})
}

func (s *PhysicsSystem) syncBody(e ecs.Entity, c *component.Collider, pos cp.Vector) {
	shape, ok := s.bodies[e]
	if ok {
		circle, _ := shape.Class.(*cp.Circle)
		resized := circle != nil && circle.Radius() != c.Radius
		if !resized && shape.Body().Position().Equal(pos) {
			return
		}
		// The space is never stepped, so a moved shape is re-inserted to
		// refresh its bounding box in the index.
		s.space.RemoveShape(shape)
		if resized {
			circle.SetRadius(c.Radius)
		}
		shape.Body().SetPosition(pos)
		s.space.AddShape(shape)
		return
	}

	body := s.space.AddBody(cp.NewKinematicBody())
	body.SetPosition(pos)
	shape = cp.NewCircle(body, c.Radius, cp.Vector{})
	shape.UserData = e
	shape.SetFilter(cp.NewShapeFilter(uint(e.ID()), categoryBody, cp.ALL_CATEGORIES))
	s.space.AddShape(shape)
	s.bodies[e] = shape
}

// Remove takes e out of the space right away. Killed entities call it so
// they stop catching projectiles within the same tick.
func (s *PhysicsSystem) Remove(e ecs.Entity) {
	if s == nil {
		return
	}
	if shape, ok := s.bodies[e]; ok {
		body := shape.Body()
		s.space.RemoveShape(shape)
		s.space.RemoveBody(body)
		delete(s.bodies, e)
	}
	if shape, ok := s.obstacles[e]; ok {
		s.space.RemoveShape(shape)
		delete(s.obstacles, e)
	}
}

// Contains reports whether e currently has a shape in the space.
func (s *PhysicsSystem) Contains(e ecs.Entity) bool {
	if s == nil {
		return false
	}
	_, body := s.bodies[e]
	_, obstacle := s.obstacles[e]
	return body || obstacle
}

// Sweep moves a circle of the given radius from start to end and returns the
// first collider or obstacle it touches. Shapes belonging to ignore are
// skipped.
func (s *PhysicsSystem) Sweep(start, end cp.Vector, radius float64, ignore ecs.Entity) (Hit, bool) {
	if s == nil {
		return Hit{}, false
	}
	group := cp.NO_GROUP
	if ignore != 0 {
		group = uint(ignore.ID())
	}
	info := s.space.SegmentQueryFirst(start, end, radius, cp.NewShapeFilter(group, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES))
	if info.Shape == nil {
		return Hit{}, false
	}
	e, _ := info.Shape.UserData.(ecs.Entity)
	_, static := s.obstacles[e]
	return Hit{
		Entity: e,
		Point:  info.Point,
		Normal: info.Normal,
		Alpha:  info.Alpha,
		Static: static,
	}, true
}

// Overlapping returns every collider touching the circle at center, ordered
// by entity id. Obstacles are not reported.
func (s *PhysicsSystem) Overlapping(center cp.Vector, radius float64) []ecs.Entity {
	if s == nil || radius < 0 {
		return nil
	}
	var out []ecs.Entity
	filter := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, categoryBody)
	s.space.BBQuery(cp.NewBBForCircle(center, radius), filter, func(shape *cp.Shape, _ interface{}) {
		if shape.PointQuery(center).Distance > radius {
			return
		}
		if e, ok := shape.UserData.(ecs.Entity); ok {
			out = append(out, e)
		}
	}, nil)
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}
