package render

import (
	"context"
	"fmt"
	"io"

	"github.com/zeusync/bounce/internal/core/observability/log"
	"github.com/zeusync/bounce/internal/core/systems"
	"github.com/zeusync/bounce/internal/core/world"
)

var _ systems.System = (*System)(nil)

// ClearScreen moves a terminal cursor home and wipes the screen before a frame.
const ClearScreen = "\x1b[H\x1b[2J"

// System draws the world onto an ASCIICanvas and writes each frame to out.
type System struct {
	world  *world.World
	canvas *ASCIICanvas
	out    io.Writer
	every  uint64
	prefix string
	logger log.Log
}

type Option func(*System)

// WithPrefix writes p before every frame, typically ClearScreen.
func WithPrefix(p string) Option {
	return func(s *System) { s.prefix = p }
}

func WithLogger(l log.Log) Option {
	return func(s *System) { s.logger = l }
}

func NewSystem(w *world.World, canvas *ASCIICanvas, out io.Writer, every uint64, opts ...Option) *System {
	if every == 0 {
		every = 1
	}
	s := &System{
		world:  w,
		canvas: canvas,
		out:    out,
		every:  every,
		logger: log.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(log.String("component", "renderer"))
	return s
}

func (s *System) Name() string                  { return "renderer" }
func (s *System) Phase() systems.ExecutionPhase { return systems.PhaseRender }
func (s *System) Priority() systems.Priority    { return systems.PriorityNormal }

func (s *System) Update(_ context.Context, frame systems.Frame) error {
	if frame.Number == 0 || (frame.Number-1)%s.every != 0 {
		return nil
	}

	s.canvas.Clear()
	for _, shape := range Shapes(s.world.Bodies(), s.world.Segments()) {
		if err := Draw(s.canvas, shape); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(s.out, "%sframe %d  bodies %d\n", s.prefix, frame.Number, s.world.BodyCount()); err != nil {
		return fmt.Errorf("write frame header: %w", err)
	}
	n, err := s.canvas.WriteTo(s.out)
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	s.logger.Debug("Frame drawn", log.Uint64("frame", frame.Number), log.Int64("bytes", n))
	return nil
}
