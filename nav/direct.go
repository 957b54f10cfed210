package nav

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Direct is a straight-line navigator over an axis-aligned walkable area. A
// new destination is "pending" until the next Advance, the way a real path
// query completes a frame later.
type Direct struct {
	bounds  cp.BB
	blocked func(cp.Vector) bool

	pos      cp.Vector
	dest     cp.Vector
	follow   Locator
	hasDest  bool
	pending  bool
	stopped  bool
	speed    float64
	velocity cp.Vector
}

var _ Agent = (*Direct)(nil)

// NewDirect creates a navigator confined to bounds, standing at start.
func NewDirect(bounds cp.BB, start cp.Vector) *Direct {
	return &Direct{bounds: bounds, pos: bounds.ClampVect(&start)}
}

// SetBlocked installs a test for points that are not walkable inside the
// bounds, such as obstacles. nil treats the whole area as open ground.
func (d *Direct) SetBlocked(blocked func(cp.Vector) bool) {
	d.blocked = blocked
}

func (d *Direct) SetDestination(p cp.Vector) {
	d.follow = nil
	d.setDest(p)
}

func (d *Direct) setDest(p cp.Vector) {
	d.dest = d.bounds.ClampVect(&p)
	d.hasDest = true
	d.pending = true
}

func (d *Direct) Follow(target Locator) {
	if target == nil {
		d.follow = nil
		return
	}
	pos, ok := target.Locate()
	if !ok {
		d.follow = nil
		return
	}
	d.setDest(pos)
	d.follow = target
}

func (d *Direct) IsPathPending() bool { return d.pending }

func (d *Direct) RemainingDistance() float64 {
	if !d.hasDest {
		return 0
	}
	return d.pos.Distance(d.dest)
}

func (d *Direct) Stop() {
	d.stopped = true
	d.velocity = cp.Vector{}
}

func (d *Direct) Resume()                        { d.stopped = false }
func (d *Direct) Stopped() bool                  { return d.stopped }
func (d *Direct) SetSpeed(speed float64)         { d.speed = math.Max(0, speed) }
func (d *Direct) Speed() float64                 { return d.speed }
func (d *Direct) Position() cp.Vector            { return d.pos }
func (d *Direct) Velocity() cp.Vector            { return d.velocity }
func (d *Direct) Bounds() cp.BB                  { return d.bounds }
func (d *Direct) Destination() (cp.Vector, bool) { return d.dest, d.hasDest }

// Warp teleports the agent and drops its destination.
func (d *Direct) Warp(p cp.Vector) {
	d.pos = d.bounds.ClampVect(&p)
	d.follow = nil
	d.hasDest = false
	d.pending = false
	d.velocity = cp.Vector{}
}

// SampleNavigablePoint snaps near onto the walkable area. It fails when the
// closest point in bounds is farther than radius or is blocked.
func (d *Direct) SampleNavigablePoint(near cp.Vector, radius float64) (cp.Vector, bool) {
	p := d.bounds.ClampVect(&near)
	if p.Distance(near) > radius {
		return cp.Vector{}, false
	}
	if d.blocked != nil && d.blocked(p) {
		return cp.Vector{}, false
	}
	return p, true
}

func (d *Direct) Advance(dt float64) cp.Vector {
	d.pending = false
	d.velocity = cp.Vector{}
	if d.follow != nil {
		if pos, ok := d.follow.Locate(); ok {
			d.dest = d.bounds.ClampVect(&pos)
		} else {
			d.follow = nil
		}
	}
	if d.stopped || !d.hasDest || dt <= 0 || d.speed <= 0 {
		return d.pos
	}
	delta := d.dest.Sub(d.pos)
	dist := delta.Length()
	step := d.speed * dt
	if dist <= step {
		d.velocity = delta.Mult(1 / dt)
		d.pos = d.dest
		return d.pos
	}
	move := delta.Mult(step / dist)
	d.velocity = move.Mult(1 / dt)
	d.pos = d.pos.Add(move)
	return d.pos
}
