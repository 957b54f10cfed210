package main

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Camera maps arena coordinates (meters) to screen pixels. It frames the
// whole arena and can follow a point with smoothing.
type Camera struct {
	PosX float64
	PosY float64

	screenW int
	screenH int
	zoom    float64

	// smoothing factor (0..1). higher -> faster follow
	smooth float64
}

func NewCamera(screenW, screenH int) *Camera {
	return &Camera{screenW: screenW, screenH: screenH, zoom: 1, smooth: 0.15}
}

// Frame zooms so bounds fill most of the screen and centers on it.
func (c *Camera) Frame(bounds cp.BB) {
	w, h := bounds.R-bounds.L, bounds.T-bounds.B
	if w <= 0 || h <= 0 {
		return
	}
	c.zoom = 0.9 * math.Min(float64(c.screenW)/w, float64(c.screenH)/h)
	center := bounds.Center()
	c.PosX, c.PosY = center.X, center.Y
}

func (c *Camera) Zoom() float64 {
	return c.zoom
}

// Follow eases the camera toward a world point.
func (c *Camera) Follow(p cp.Vector) {
	if c.smooth <= 0 {
		c.PosX, c.PosY = p.X, p.Y
		return
	}
	c.PosX += (p.X - c.PosX) * c.smooth
	c.PosY += (p.Y - c.PosY) * c.smooth
}

// ToScreen converts a world point to screen pixels. Screen y grows down, so
// world y is flipped.
func (c *Camera) ToScreen(p cp.Vector) (float32, float32) {
	x := (p.X-c.PosX)*c.zoom + float64(c.screenW)/2
	y := -(p.Y-c.PosY)*c.zoom + float64(c.screenH)/2
	return float32(x), float32(y)
}

func (c *Camera) ToWorld(x, y int) cp.Vector {
	return cp.Vector{
		X: (float64(x)-float64(c.screenW)/2)/c.zoom + c.PosX,
		Y: -(float64(y)-float64(c.screenH)/2)/c.zoom + c.PosY,
	}
}

// Scale converts a world length to pixels.
func (c *Camera) Scale(l float64) float32 {
	return float32(l * c.zoom)
}
