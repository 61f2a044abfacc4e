package physics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSegment_Endpoints(t *testing.T) {
	t.Run("Horizontal", func(t *testing.T) {
		s := NewSegment(V(100, 100), 0)
		a, b := s.Endpoints()
		require.Equal(t, V(135, 100), a)
		require.Equal(t, V(65, 100), b)
	})

	t.Run("Vertical", func(t *testing.T) {
		s := Segment{Center: V(0, 0), Length: 10, Angle: 90}
		a, b := s.Endpoints()
		require.InDelta(t, 0, a.X, eps)
		require.InDelta(t, 5, a.Y, eps)
		require.InDelta(t, 0, b.X, eps)
		require.InDelta(t, -5, b.Y, eps)
	})

	t.Run("Distance between ends equals length", func(t *testing.T) {
		for _, angle := range []float64{0, 12.5, 45, 90, 179.5, 270, -33, 721.25, 1e6} {
			for _, length := range []float64{1, 10, 70, 333.3} {
				s := Segment{Center: V(-4, 17), Length: length, Angle: angle}
				a, b := s.Endpoints()
				require.InDelta(t, length, Distance(a, b), 1e-6, "angle=%v length=%v", angle, length)
			}
		}
	})

	t.Run("Angles a full turn apart give the same ends", func(t *testing.T) {
		a1, b1 := Segment{Center: V(3, 3), Length: 20, Angle: 30}.Endpoints()
		a2, b2 := Segment{Center: V(3, 3), Length: 20, Angle: 390}.Endpoints()
		require.InDelta(t, a1.X, a2.X, 1e-9)
		require.InDelta(t, a1.Y, a2.Y, 1e-9)
		require.InDelta(t, b1.X, b2.X, 1e-9)
		require.InDelta(t, b1.Y, b2.Y, 1e-9)
	})

	t.Run("Rotate", func(t *testing.T) {
		s := NewSegment(V(0, 0), 0)
		for i := 1; i <= 1000; i++ {
			s.Rotate()
			require.Equal(t, float64(i)*0.5, s.Angle)
		}
	})
}

func TestClosestPointOnSegment(t *testing.T) {
	s := Segment{Center: V(0, 0), Length: 10, Angle: 0}
	end1, end2 := s.Endpoints()

	t.Run("Negative projection clamps to first end", func(t *testing.T) {
		require.Equal(t, end1, ClosestPointOnSegment(V(8, 3), s))
		require.Equal(t, end1, ClosestPointOnSegment(V(5, -9), s))
	})

	t.Run("Projection past length clamps to second end", func(t *testing.T) {
		require.Equal(t, end2, ClosestPointOnSegment(V(-9, 2), s))
		require.Equal(t, end2, ClosestPointOnSegment(V(-5, 40), s))
	})

	t.Run("Perpendicular offset from the middle gives the center", func(t *testing.T) {
		require.Equal(t, s.Center, ClosestPointOnSegment(V(0, 4), s))
		require.Equal(t, s.Center, ClosestPointOnSegment(V(0, -250), s))
	})

	t.Run("Interior point", func(t *testing.T) {
		require.Equal(t, V(2, 0), ClosestPointOnSegment(V(2, 7), s))
	})

	t.Run("Rotated segment", func(t *testing.T) {
		r := Segment{Center: V(50, 50), Length: 70, Angle: 30}
		theta := DegToRad(30)
		perp := V(-math.Sin(theta), math.Cos(theta)).Scale(12)
		got := ClosestPointOnSegment(r.Center.Add(perp), r)
		require.InDelta(t, 50, got.X, 1e-9)
		require.InDelta(t, 50, got.Y, 1e-9)
	})
}
