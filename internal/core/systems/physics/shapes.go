package physics

import "math"

// Fixed physical constants of the simulation.
const (
	// Gravity is added to a body's vertical velocity once per step.
	Gravity = 0.06
	// DefaultBodyRadius is the radius given to spawned bodies.
	DefaultBodyRadius = 5.0
	// DefaultSegmentLength is the length of a segment when none is given.
	DefaultSegmentLength = 70.0
	// DefaultRotateSpeed is the per-step rotation of a segment, in degrees.
	DefaultRotateSpeed = 0.5
)

// Body is a circle moving through the world.
// Radius never changes after creation.
type Body struct {
	ID       string
	Center   Vec2
	Velocity Vec2
	Radius   float64
}

// Segment is a line obstacle rotating about its fixed center.
// Angle is in degrees and is never normalized.
type Segment struct {
	Center      Vec2
	Length      float64
	Angle       float64
	RotateSpeed float64
}

// NewSegment returns a segment with the default length and rotation speed.
func NewSegment(center Vec2, angle float64) Segment {
	return Segment{
		Center:      center,
		Length:      DefaultSegmentLength,
		Angle:       angle,
		RotateSpeed: DefaultRotateSpeed,
	}
}

// Endpoints derives both ends of the segment from its current angle.
// The first end lies along the heading (cos θ, sin θ), the second opposite to it.
func (s Segment) Endpoints() (Vec2, Vec2) {
	theta := DegToRad(s.Angle)
	heading := Vec2{X: math.Cos(theta), Y: math.Sin(theta)}
	offset := heading.Scale(s.Length / 2)
	return s.Center.Add(offset), s.Center.Sub(offset)
}

// Rotate advances the angle by RotateSpeed.
func (s *Segment) Rotate() { s.Angle += s.RotateSpeed }

// ClosestPointOnSegment returns the point of s nearest to point.
// Projections falling before the first end or past the second are clamped to that end.
func ClosestPointOnSegment(point Vec2, s Segment) Vec2 {
	end1, end2 := s.Endpoints()
	unit := UnitVector(VectorBetween(end1, end2))
	projection := Dot(VectorBetween(end1, point), unit)

	switch {
	case projection <= 0:
		return end1
	case projection >= s.Length:
		return end2
	default:
		return end1.Add(unit.Scale(projection))
	}
}
