// Package vmath provides 2D vector math on the unit torus.
package vmath

import (
	"math"
	"math/rand"
)

// Vec2 is a 2D point or displacement.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Norm returns the Euclidean length of v.
func (v Vec2) Norm() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the Euclidean distance between v and o, ignoring wrap-around.
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Norm() }

// Rotate returns v rotated counter-clockwise by angle radians.
func (v Vec2) Rotate(angle float64) Vec2 {
	sin, cos := math.Sincos(angle)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// Forward returns the unit heading for rotation. Rotation 0 faces +y.
func Forward(rotation float64) Vec2 {
	return Vec2{0, 1}.Rotate(rotation)
}

// AngleFromForward returns the signed angle from +y to v, positive counter-clockwise.
func AngleFromForward(v Vec2) float64 {
	return math.Atan2(-v.X, v.Y)
}

// Wrap maps value into [low, high) by modular arithmetic.
func Wrap(value, low, high float64) float64 {
	// In-range values are returned exactly
	if value >= low && value < high {
		return value
	}
	w := high - low
	r := math.Mod(math.Mod(value-low, w)+w, w) + low
	// Mod of a tiny negative can round up to exactly w
	if r >= high {
		return low
	}
	return r
}

// WrapAngle maps an angle into [-Pi, Pi).
func WrapAngle(angle float64) float64 {
	return Wrap(angle, -math.Pi, math.Pi)
}

// WrapPoint maps both coordinates into [0, 1).
func WrapPoint(p Vec2) Vec2 {
	return Vec2{Wrap(p.X, 0, 1), Wrap(p.Y, 0, 1)}
}

// Clamp clamps v between minVal and maxVal.
func Clamp(v, minVal, maxVal float64) float64 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

// RandomPoint returns a uniform point in [0,1)^2. X is drawn first.
func RandomPoint(rng *rand.Rand) Vec2 {
	x := rng.Float64()
	y := rng.Float64()
	return Vec2{x, y}
}

// RandomRotation returns a uniform angle in [-Pi, Pi).
func RandomRotation(rng *rand.Rand) float64 {
	return -math.Pi + rng.Float64()*2*math.Pi
}
