package spawn

import (
	"context"

	"github.com/google/uuid"

	"github.com/zeusync/bounce/internal/core/observability/log"
	"github.com/zeusync/bounce/internal/core/systems"
	"github.com/zeusync/bounce/internal/core/systems/physics"
	"github.com/zeusync/bounce/internal/core/world"
)

var _ systems.System = (*Spawner)(nil)

// Config fixes where and how often bodies appear.
type Config struct {
	Position physics.Vec2
	Velocity physics.Vec2
	Radius   float64
	// Every spawns on frames 1, 1+Every, 1+2*Every, ...
	Every uint64
	// MaxBodies pauses spawning while the world holds that many bodies; zero means no limit.
	MaxBodies int
}

// Spawner inserts a fresh body into the world on a fixed frame interval.
type Spawner struct {
	cfg     Config
	world   *world.World
	newID   func() string
	spawned uint64
	logger  log.Log
}

func New(cfg Config, w *world.World, logger log.Log) *Spawner {
	if cfg.Every == 0 {
		cfg.Every = 1
	}
	if cfg.Radius <= 0 {
		cfg.Radius = physics.DefaultBodyRadius
	}
	return &Spawner{
		cfg:    cfg,
		world:  w,
		newID:  uuid.NewString,
		logger: logger.With(log.String("component", "spawner")),
	}
}

func (s *Spawner) Name() string                  { return "spawner" }
func (s *Spawner) Phase() systems.ExecutionPhase { return systems.PhasePreUpdate }
func (s *Spawner) Priority() systems.Priority    { return systems.PriorityNormal }

// Spawned is the number of bodies inserted so far.
func (s *Spawner) Spawned() uint64 { return s.spawned }

func (s *Spawner) Update(_ context.Context, frame systems.Frame) error {
	if frame.Number == 0 || (frame.Number-1)%s.cfg.Every != 0 {
		return nil
	}
	if s.cfg.MaxBodies > 0 && s.world.BodyCount() >= s.cfg.MaxBodies {
		return nil
	}

	body := physics.Body{
		ID:       s.newID(),
		Center:   s.cfg.Position,
		Velocity: s.cfg.Velocity,
		Radius:   s.cfg.Radius,
	}
	if err := s.world.AddBody(body); err != nil {
		return err
	}
	s.spawned++
	s.logger.Debug("Body spawned",
		log.String("body", body.ID),
		log.Uint64("frame", frame.Number),
		log.Int("bodies", s.world.BodyCount()))
	return nil
}
