package render

import (
	"errors"
	"fmt"

	"github.com/zeusync/bounce/internal/core/systems/physics"
)

var ErrUnknownShape = errors.New("unknown shape")

type Kind uint8

const (
	KindCircle Kind = iota + 1
	KindLine
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindLine:
		return "line"
	default:
		return "unknown"
	}
}

// Shape is a drawable primitive. Circle uses Center and Radius, Line uses From and To.
type Shape struct {
	Kind   Kind
	Center physics.Vec2
	Radius float64
	From   physics.Vec2
	To     physics.Vec2
}

func Circle(center physics.Vec2, radius float64) Shape {
	return Shape{Kind: KindCircle, Center: center, Radius: radius}
}

func Line(from, to physics.Vec2) Shape {
	return Shape{Kind: KindLine, From: from, To: to}
}

// Canvas is a drawing surface in world coordinates.
type Canvas interface {
	Arc(center physics.Vec2, radius float64)
	Line(from, to physics.Vec2)
}

// Shapes lists what a frame shows: segments first, bodies on top.
func Shapes(bodies []physics.Body, segments []physics.Segment) []Shape {
	out := make([]Shape, 0, len(bodies)+len(segments))
	for _, s := range segments {
		a, b := s.Endpoints()
		out = append(out, Line(a, b))
	}
	for _, b := range bodies {
		out = append(out, Circle(b.Center, b.Radius))
	}
	return out
}

// Draw puts s on c.
func Draw(c Canvas, s Shape) error {
	switch s.Kind {
	case KindCircle:
		c.Arc(s.Center, s.Radius)
	case KindLine:
		c.Line(s.From, s.To)
	default:
		return fmt.Errorf("%w: %d", ErrUnknownShape, s.Kind)
	}
	return nil
}
