package world

import "github.com/zeusync/bounce/internal/core/systems/physics"

// Rect is the world's extent, with the origin at the top-left corner and y
// growing downward.
type Rect struct {
	Width, Height float64
}

// BoundsFunc reports whether a body is still in play inside r.
type BoundsFunc func(b physics.Body, r Rect) bool

// InRect keeps a body while any part of its circle overlaps r.
func InRect(b physics.Body, r Rect) bool {
	return b.Center.X+b.Radius >= 0 &&
		b.Center.X-b.Radius <= r.Width &&
		b.Center.Y+b.Radius >= 0 &&
		b.Center.Y-b.Radius <= r.Height
}

// BelowFloor culls only bodies that fell past the bottom edge. Bodies thrown
// sideways or upward stay in play and may come back.
func BelowFloor(b physics.Body, r Rect) bool {
	return b.Center.Y-b.Radius <= r.Height
}
