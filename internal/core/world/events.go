package world

import "github.com/zeusync/bounce/internal/core/systems/physics"

// Event types published on the bus.
const (
	EventBodySpawned    = "body.spawned"
	EventBodyBounced    = "body.bounced"
	EventBodyCulled     = "body.culled"
	EventBounceFallback = "bounce.fallback"
)

// BodyEvent is the payload of EventBodySpawned and EventBodyCulled.
type BodyEvent struct {
	Body physics.Body
}

// BounceEvent is the payload of EventBodyBounced and EventBounceFallback.
type BounceEvent struct {
	BodyID       string
	SegmentIndex int
	Contact      physics.Contact
	Velocity     physics.Vec2
}
