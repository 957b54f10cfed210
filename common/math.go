package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// NormalizeAngle wraps an angle to [-pi, pi].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a > math.Pi {
		a -= 2 * math.Pi
	} else if a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

// LerpAngle interpolates from a toward b along the shortest arc. t is clamped
// to [0, 1].
func LerpAngle(a, b, t float64) float64 {
	t = cp.Clamp(t, 0, 1)
	return NormalizeAngle(a + NormalizeAngle(b-a)*t)
}

// HeadingTo returns the angle in radians from `from` toward `to`.
func HeadingTo(from, to cp.Vector) float64 {
	return to.Sub(from).ToAngle()
}

// AngleBetween returns the unsigned angle in degrees between two vectors.
// A zero-length vector yields 0.
func AngleBetween(a, b cp.Vector) float64 {
	la, lb := a.Length(), b.Length()
	if la < 1e-12 || lb < 1e-12 {
		return 0
	}
	cos := cp.Clamp(a.Dot(b)/(la*lb), -1, 1)
	return math.Acos(cos) * 180 / math.Pi
}

// RandomInDisk returns a point uniformly distributed in a disk of the given
// radius centred on the origin. rnd must return values in [0, 1).
func RandomInDisk(rnd func() float64, radius float64) cp.Vector {
	r := radius * math.Sqrt(rnd())
	theta := rnd() * 2 * math.Pi
	return cp.Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// Direction returns the unit vector from `from` toward `to`. It reports false
// when the points coincide, where cp's Normalize would yield NaN.
func Direction(from, to cp.Vector) (cp.Vector, bool) {
	d := to.Sub(from)
	l := d.Length()
	if l < 1e-9 {
		return cp.Vector{}, false
	}
	return d.Mult(1 / l), true
}
