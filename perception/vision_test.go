package perception

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/skirmish/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInSight(t *testing.T) {
	o := Observer{Facing: 0, SightRange: 8, FOV: 120}
	cases := []struct {
		name   string
		target cp.Vector
		want   bool
	}{
		{"ahead_in_range", cp.Vector{X: 5}, true},
		{"ahead_out_of_range", cp.Vector{X: 8.01}, false},
		{"ahead_at_range_edge", cp.Vector{X: 8}, true},
		{"behind", cp.Vector{X: -3}, false},
		{"inside_half_fov", cp.ForAngle(59 * math.Pi / 180).Mult(4), true},
		{"outside_half_fov", cp.ForAngle(61 * math.Pi / 180).Mult(4), false},
		{"coincident", cp.Vector{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, InSight(o, c.target))
		})
	}
}

func TestInSightMissingTarget(t *testing.T) {
	o := Observer{SightRange: 8, FOV: 120}
	assert.False(t, InSightOf(o, cp.Vector{X: 1}, false))
	assert.True(t, math.IsInf(Distance(cp.Vector{}, cp.Vector{X: 1}, false), 1))
	assert.InDelta(t, 1, Distance(cp.Vector{}, cp.Vector{X: 1}, true), 1e-9)
}

func TestInSightRandomPlacements(t *testing.T) {
	rng := rand.New(rand.NewSource(12345))
	for i := 0; i < 2000; i++ {
		o := Observer{
			Position:   cp.Vector{X: rng.Float64()*40 - 20, Y: rng.Float64()*40 - 20},
			Facing:     rng.Float64()*2*math.Pi - math.Pi,
			SightRange: 1 + rng.Float64()*15,
			FOV:        10 + rng.Float64()*340,
		}
		target := cp.Vector{X: rng.Float64()*60 - 30, Y: rng.Float64()*60 - 30}
		seen := InSight(o, target)

		dist := o.Position.Distance(target)
		angle := common.AngleBetween(o.Forward(), target.Sub(o.Position))
		if dist > o.SightRange {
			require.False(t, seen, "seen beyond sight range: %+v -> %v", o, target)
		}
		if angle >= o.FOV/2 {
			require.False(t, seen, "seen outside fov: %+v -> %v", o, target)
		}
		if dist <= o.SightRange && angle < o.FOV/2 {
			require.True(t, seen)
		}
	}
}
