package world

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/zeusync/bounce/internal/core/events/bus"
	"github.com/zeusync/bounce/internal/core/observability/log"
	"github.com/zeusync/bounce/internal/core/systems/physics"
)

// World owns every body and segment of a simulation run.
//
// A World is driven by a single goroutine: AddBody and Step must not be called
// concurrently, and readers get copies through Bodies and Segments.
type World struct {
	bounds   Rect
	inPlay   BoundsFunc
	bodies   []physics.Body
	segments []physics.Segment
	tick     uint64

	events bus.EventBus
	logger log.Log
}

// StepReport summarizes one call to Step.
type StepReport struct {
	Tick      uint64
	Bodies    int
	Bounces   int
	Fallbacks int
	Culled    int
}

type Option func(*World)

// WithBoundsFunc replaces the default InRect culling test.
func WithBoundsFunc(f BoundsFunc) Option {
	return func(w *World) {
		if f != nil {
			w.inPlay = f
		}
	}
}

// WithEventBus publishes spawn, bounce and cull events to b.
func WithEventBus(b bus.EventBus) Option {
	return func(w *World) { w.events = b }
}

func WithLogger(l log.Log) Option {
	return func(w *World) { w.logger = l }
}

// New creates a world of the given extent holding segments in the given order.
func New(bounds Rect, segments []physics.Segment, opts ...Option) (*World, error) {
	if !positive(bounds.Width) || !positive(bounds.Height) {
		return nil, fmt.Errorf("%w: %gx%g", ErrInvalidBounds, bounds.Width, bounds.Height)
	}
	for i, s := range segments {
		if !positive(s.Length) || !finite(s.Center) || !isFinite(s.Angle) || !isFinite(s.RotateSpeed) {
			return nil, fmt.Errorf("%w: segment %d (length %g)", ErrInvalidSegment, i, s.Length)
		}
	}

	w := &World{
		bounds:   bounds,
		inPlay:   InRect,
		segments: append([]physics.Segment(nil), segments...),
		logger:   log.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With(log.String("component", "world"))
	return w, nil
}

// AddBody appends b after the existing bodies. It is processed from the next Step on.
func (w *World) AddBody(b physics.Body) error {
	if !positive(b.Radius) || !finite(b.Center) || !finite(b.Velocity) {
		return fmt.Errorf("%w: %q radius %g at %s", ErrInvalidBody, b.ID, b.Radius, b.Center)
	}
	w.bodies = append(w.bodies, b)
	return w.publish(bus.Event{Type: EventBodySpawned, Tick: w.tick, Data: BodyEvent{Body: b}})
}

// Step advances the world by one tick.
//
// Bodies are processed in insertion order. Each body is tested against every
// segment in order and bounced off each one it overlaps, so the last
// overlapping segment decides the final velocity. Gravity and motion follow,
// then bodies outside the bounds are dropped. Segments rotate once every body
// has moved. Events are published after the step is complete; their handler
// errors are returned but never interrupt the step.
func (w *World) Step() (StepReport, error) {
	tick := w.tick + 1
	report := StepReport{Tick: tick}
	var events []bus.Event

	kept := w.bodies[:0]
	for i := range w.bodies {
		b := w.bodies[i]

		for j, s := range w.segments {
			if !physics.IsIntersecting(b, s) {
				continue
			}
			contact := physics.Bounce(&b, s)
			report.Bounces++

			ev := BounceEvent{BodyID: b.ID, SegmentIndex: j, Contact: contact, Velocity: b.Velocity}
			events = append(events, bus.Event{Type: EventBodyBounced, Tick: tick, Data: ev})
			if contact.Fallback {
				report.Fallbacks++
				events = append(events, bus.Event{Type: EventBounceFallback, Tick: tick, Data: ev})
				w.logger.Debug("Bounce resolved by separation",
					log.String("body", b.ID),
					log.Int("segment", j),
					log.Int("steps", contact.Steps))
			}
		}

		b.Velocity = b.Velocity.Add(physics.V(0, physics.Gravity))
		b.Center = b.Center.Add(b.Velocity)

		if !w.inPlay(b, w.bounds) {
			report.Culled++
			events = append(events, bus.Event{Type: EventBodyCulled, Tick: tick, Data: BodyEvent{Body: b}})
			continue
		}
		kept = append(kept, b)
	}
	clear(w.bodies[len(kept):])
	w.bodies = kept

	for i := range w.segments {
		w.segments[i].Rotate()
	}

	w.tick = tick
	report.Bodies = len(w.bodies)

	if w.events == nil || len(events) == 0 {
		return report, nil
	}
	return report, w.events.PublishBatch(events...)
}

// Bodies returns a copy of the live bodies in processing order.
func (w *World) Bodies() []physics.Body {
	return append([]physics.Body(nil), w.bodies...)
}

// Segments returns a copy of the segments in processing order.
func (w *World) Segments() []physics.Segment {
	return append([]physics.Segment(nil), w.segments...)
}

func (w *World) BodyCount() int { return len(w.bodies) }
func (w *World) Tick() uint64   { return w.tick }
func (w *World) Bounds() Rect   { return w.bounds }

// Checksum digests the full simulation state. Two worlds fed the same
// segments and bodies produce the same checksum after the same number of steps.
func (w *World) Checksum() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 64)

	buf = binary.LittleEndian.AppendUint64(buf, w.tick)
	_, _ = d.Write(buf)

	for _, s := range w.segments {
		buf = appendFloats(buf[:0], s.Center.X, s.Center.Y, s.Length, s.Angle, s.RotateSpeed)
		_, _ = d.Write(buf)
	}
	for _, b := range w.bodies {
		_, _ = d.WriteString(b.ID)
		buf = appendFloats(buf[:0], b.Center.X, b.Center.Y, b.Velocity.X, b.Velocity.Y, b.Radius)
		_, _ = d.Write(buf)
	}
	return d.Sum64()
}

func (w *World) publish(e bus.Event) error {
	if w.events == nil {
		return nil
	}
	return w.events.Publish(e)
}

func appendFloats(buf []byte, fs ...float64) []byte {
	for _, f := range fs {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(f))
	}
	return buf
}

func isFinite(f float64) bool    { return !math.IsNaN(f) && !math.IsInf(f, 0) }
func positive(f float64) bool    { return isFinite(f) && f > 0 }
func finite(v physics.Vec2) bool { return isFinite(v.X) && isFinite(v.Y) }
