// Package camera provides a 2D camera over the unit-square toroidal world.
package camera

import (
	"github.com/pthm-cable/birdies/vmath"
)

// Point is a screen position in pixels.
type Point struct {
	X, Y float32
}

// Camera controls the viewport into the world.
// World +y points up on screen; screen y grows downward.
type Camera struct {
	// Center is the world point shown at the middle of the viewport.
	Center vmath.Vec2

	// Zoom level (1.0 = the whole world fits the shorter viewport side)
	Zoom float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64

	// Zoom constraints
	MinZoom, MaxZoom float64
}

// New creates a camera centered on the world with the whole world visible.
func New(viewportW, viewportH float64) *Camera {
	return &Camera{
		Center:    vmath.Vec2{X: 0.5, Y: 0.5},
		Zoom:      1.0,
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinZoom:   1.0,
		MaxZoom:   8.0,
	}
}

// Scale returns pixels per world unit.
func (c *Camera) Scale() float64 {
	return min(c.ViewportW, c.ViewportH) * c.Zoom
}

// WorldToScreen converts a world point to screen pixels, taking the
// shortest way around the torus from the camera center.
func (c *Camera) WorldToScreen(p vmath.Vec2) Point {
	dx := toroidalDelta(p.X, c.Center.X)
	dy := toroidalDelta(p.Y, c.Center.Y)
	return c.offsetToScreen(dx, dy)
}

// ScreenToWorld converts screen pixels to a wrapped world point.
func (c *Camera) ScreenToWorld(s Point) vmath.Vec2 {
	scale := c.Scale()
	dx := (float64(s.X) - c.ViewportW/2) / scale
	dy := -(float64(s.Y) - c.ViewportH/2) / scale
	return vmath.WrapPoint(vmath.Vec2{X: c.Center.X + dx, Y: c.Center.Y + dy})
}

// IsVisible returns true if a circle at p with a radius in pixels could be on screen.
func (c *Camera) IsVisible(p vmath.Vec2, radius float64) bool {
	s := c.WorldToScreen(p)
	x, y := float64(s.X), float64(s.Y)
	return x >= -radius && x <= c.ViewportW+radius && y >= -radius && y <= c.ViewportH+radius
}

// GhostPositions returns the extra screen positions at which a point must be
// drawn when the viewport shows more than one copy of the world.
func (c *Camera) GhostPositions(p vmath.Vec2, radius float64) []Point {
	dx := toroidalDelta(p.X, c.Center.X)
	dy := toroidalDelta(p.Y, c.Center.Y)

	var ghosts []Point
	for _, ox := range [...]float64{-1, 0, 1} {
		for _, oy := range [...]float64{-1, 0, 1} {
			if ox == 0 && oy == 0 {
				continue
			}
			s := c.offsetToScreen(dx+ox, dy+oy)
			x, y := float64(s.X), float64(s.Y)
			if x >= -radius && x <= c.ViewportW+radius && y >= -radius && y <= c.ViewportH+radius {
				ghosts = append(ghosts, s)
			}
		}
	}
	return ghosts
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Pan moves the camera by the given delta in screen pixels.
// Automatically wraps around world boundaries.
func (c *Camera) Pan(dx, dy float64) {
	scale := c.Scale()
	c.Center = vmath.WrapPoint(vmath.Vec2{
		X: c.Center.X + dx/scale,
		Y: c.Center.Y - dy/scale,
	})
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float64) {
	c.Zoom = vmath.Clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float64) {
	c.SetZoom(c.Zoom * factor)
}

// Reset returns the camera to the default position and zoom.
func (c *Camera) Reset() {
	c.Center = vmath.Vec2{X: 0.5, Y: 0.5}
	c.Zoom = 1.0
}

func (c *Camera) offsetToScreen(dx, dy float64) Point {
	scale := c.Scale()
	return Point{
		X: float32(c.ViewportW/2 + dx*scale),
		Y: float32(c.ViewportH/2 - dy*scale),
	}
}

// toroidalDelta computes the shortest signed distance from 'from' to 'to'
// on the unit circle.
func toroidalDelta(to, from float64) float64 {
	d := to - from
	if d > 0.5 {
		d -= 1
	} else if d < -0.5 {
		d += 1
	}
	return d
}
