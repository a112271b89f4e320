// Package vec provides the small 2-D vector type used for node positions and
// velocities.
//
// Vectors are plain values: every operation returns a new [Vec2] and never
// mutates its receiver, so positions can be snapshotted by simple assignment.
package vec

import (
	"math"
	"math/rand/v2"
)

// Vec2 is a 2-D vector with float64 components.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zero is the zero vector.
var Zero = Vec2{}

// New returns the vector (x, y).
func New(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Neg returns -v.
func (v Vec2) Neg() Vec2 { return Vec2{-v.X, -v.Y} }

// Length returns the Euclidean length of v.
func (v Vec2) Length() float64 { return math.Hypot(v.X, v.Y) }

// Distance returns the Euclidean distance between v and o.
func (v Vec2) Distance(o Vec2) float64 { return v.Sub(o).Length() }

// Unit returns v scaled to length 1.
//
// The unit vector of the zero vector is undefined; Unit returns the zero
// vector and false in that case so callers must decide how to handle
// coincident points.
func (v Vec2) Unit() (Vec2, bool) {
	l := v.Length()
	if l == 0 {
		return Zero, false
	}
	return Vec2{v.X / l, v.Y / l}, true
}

// IsFinite reports whether both components are finite numbers.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// RandomUnit returns a unit vector with a direction drawn uniformly from rng.
func RandomUnit(rng *rand.Rand) Vec2 {
	theta := rng.Float64() * 2 * math.Pi
	return Vec2{math.Cos(theta), math.Sin(theta)}
}
