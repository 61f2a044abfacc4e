package physics

import (
	"math"
	"strconv"
)

// Vec2 is an immutable 2D vector used for points, velocities and offsets.
type Vec2 struct{ X, Y float64 }

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{X: v.X + o.X, Y: v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{X: v.X - o.X, Y: v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2 { return Vec2{X: v.X * f, Y: v.Y * f} }
func (v Vec2) Neg() Vec2            { return Vec2{X: -v.X, Y: -v.Y} }
func (v Vec2) IsZero() bool         { return v.X == 0 && v.Y == 0 }
func (v Vec2) Perpendicular() Vec2  { return Vec2{X: -v.Y, Y: v.X} }
func (v Vec2) Equals(o Vec2) bool   { return v.X == o.X && v.Y == o.Y }
func (v Vec2) String() string {
	return "(" + strconv.FormatFloat(v.X, 'f', 4, 64) + ", " + strconv.FormatFloat(v.Y, 'f', 4, 64) + ")"
}

// Distance computes Euclidean distance between two points.
func Distance(a, b Vec2) float64 { return math.Sqrt((a.X-b.X)*(a.X-b.X) + (a.Y-b.Y)*(a.Y-b.Y)) }

// Magnitude returns the length of v.
func Magnitude(v Vec2) float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y) }

// UnitVector returns v scaled to length 1.
//
// v must not be the zero vector. Callers guard this; the result for a zero
// vector is NaN in both components.
func UnitVector(v Vec2) Vec2 {
	mag := Magnitude(v)
	return Vec2{X: v.X / mag, Y: v.Y / mag}
}

// Dot returns the dot product of a and b.
func Dot(a, b Vec2) float64 { return a.X*b.X + a.Y*b.Y }

// VectorBetween returns the vector pointing from start to end.
func VectorBetween(start, end Vec2) Vec2 { return end.Sub(start) }

// Reflect mirrors v across the plane with unit normal n: v - 2(v.n)n.
func Reflect(v, n Vec2) Vec2 {
	dot := Dot(v, n)
	return v.Sub(n.Scale(2 * dot))
}

// DegToRad converts an angle in degrees to radians.
func DegToRad(deg float64) float64 { return deg * math.Pi / 180 }
