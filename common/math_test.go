package common

import (
	"math"
	"math/rand"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngle(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-3 * math.Pi / 2, math.Pi / 2},
		{4*math.Pi + 0.5, 0.5},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, NormalizeAngle(c.in), 1e-9)
	}
}

func TestLerpAngleTakesShortestArc(t *testing.T) {
	from := math.Pi - 0.1
	to := -math.Pi + 0.1
	mid := LerpAngle(from, to, 0.5)
	assert.InDelta(t, math.Pi, math.Abs(mid), 1e-9)
	assert.InDelta(t, to, LerpAngle(from, to, 2), 1e-9)
}

func TestAngleBetween(t *testing.T) {
	assert.InDelta(t, 90, AngleBetween(cp.Vector{X: 1}, cp.Vector{Y: 1}), 1e-9)
	assert.InDelta(t, 180, AngleBetween(cp.Vector{X: 1}, cp.Vector{X: -2}), 1e-9)
	assert.Equal(t, 0.0, AngleBetween(cp.Vector{}, cp.Vector{X: 1}))
}

func TestRandomInDiskStaysInside(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		p := RandomInDisk(rng.Float64, 6)
		assert.LessOrEqual(t, p.Length(), 6.0+1e-9)
	}
}

func TestDirection(t *testing.T) {
	d, ok := Direction(cp.Vector{X: 1, Y: 1}, cp.Vector{X: 1, Y: 4})
	assert.True(t, ok)
	assert.InDelta(t, 0, d.X, 1e-12)
	assert.InDelta(t, 1, d.Y, 1e-12)

	_, ok = Direction(cp.Vector{X: 2}, cp.Vector{X: 2})
	assert.False(t, ok)
}
