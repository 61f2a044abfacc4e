package physics

// MaxResolutionSteps bounds the penetration resolution loop. A body that has
// not separated after this many velocity steps is placed algebraically.
const MaxResolutionSteps = 1000

// SeparationSlop is the clearance left between a body and a segment when the
// separating translation is computed directly.
const SeparationSlop = 1e-6

// IsIntersecting reports whether the body overlaps the segment.
// Touching exactly at distance Radius is not an intersection.
func IsIntersecting(b Body, s Segment) bool {
	closest := ClosestPointOnSegment(b.Center, s)
	return Distance(b.Center, closest) < b.Radius
}

// Contact describes one resolved bounce.
type Contact struct {
	Point  Vec2
	Normal Vec2
	// Steps is the number of velocity steps taken while separating.
	Steps int
	// Fallback is set when the body was placed by the separating translation
	// instead of stepping along its velocity.
	Fallback bool
}

// BounceNormal returns the unit normal at the contact point, pointing from the
// segment toward the body center.
//
// When the center lies exactly on the segment the direction is undefined; the
// segment's perpendicular facing against the body's velocity is used instead.
func BounceNormal(b Body, s Segment, contact Vec2) Vec2 {
	between := VectorBetween(contact, b.Center)
	if !between.IsZero() {
		return UnitVector(between)
	}

	end1, end2 := s.Endpoints()
	normal := UnitVector(VectorBetween(end1, end2)).Perpendicular()
	if Dot(b.Velocity, normal) > 0 {
		normal = normal.Neg()
	}
	return normal
}

// Bounce reflects the body's velocity off s and moves it out of the segment.
// Callers invoke it only when IsIntersecting(*b, s) holds.
func Bounce(b *Body, s Segment) Contact {
	contact := ClosestPointOnSegment(b.Center, s)
	normal := BounceNormal(*b, s, contact)
	b.Velocity = Reflect(b.Velocity, normal)

	c := Contact{Point: contact, Normal: normal}
	if !b.Velocity.IsZero() {
		for IsIntersecting(*b, s) {
			if c.Steps == MaxResolutionSteps {
				break
			}
			b.Center = b.Center.Add(b.Velocity)
			c.Steps++
		}
		if !IsIntersecting(*b, s) {
			return c
		}
	}

	Separate(b, s, normal)
	c.Fallback = true
	return c
}

// Separate moves the body along the contact normal so that it clears the
// segment by SeparationSlop. fallback is the direction used when the body
// center lies exactly on the segment. Velocity is left untouched.
func Separate(b *Body, s Segment, fallback Vec2) {
	contact := ClosestPointOnSegment(b.Center, s)
	normal := fallback
	if between := VectorBetween(contact, b.Center); !between.IsZero() {
		normal = UnitVector(between)
	}
	b.Center = contact.Add(normal.Scale(b.Radius + SeparationSlop))
}
