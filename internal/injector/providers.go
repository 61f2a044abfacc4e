package injector

import (
	"io"
	"time"

	"github.com/google/wire"

	"github.com/zeusync/bounce/internal/config"
	"github.com/zeusync/bounce/internal/core/events/bus"
	"github.com/zeusync/bounce/internal/core/observability/log"
	"github.com/zeusync/bounce/internal/core/render"
	"github.com/zeusync/bounce/internal/core/runner"
	"github.com/zeusync/bounce/internal/core/spawn"
	"github.com/zeusync/bounce/internal/core/systems"
	"github.com/zeusync/bounce/internal/core/systems/physics"
	"github.com/zeusync/bounce/internal/core/world"
)

// App is the assembled simulation.
type App struct {
	Config   *config.Config
	Logger   *log.Logger
	Events   bus.EventBus
	World    *world.World
	Manager  *systems.Manager
	Runner   *runner.Runner
	Spawner  *spawn.Spawner
	Renderer *render.System
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideEventBus,
	ProvideWorld,
	ProvideSpawner,
	ProvideRenderer,
	ProvideManager,
	ProvideRunner,
	wire.Struct(new(App), "*"),
)

func ProvideLogger(cfg *config.Config) (*log.Logger, func(), error) {
	logger, err := log.New(cfg.Log)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func ProvideEventBus() bus.EventBus {
	return bus.New()
}

func ProvideWorld(cfg *config.Config, events bus.EventBus, logger *log.Logger) (*world.World, error) {
	bounds := world.InRect
	if cfg.World.Cull == "floor" {
		bounds = world.BelowFloor
	}
	return world.New(
		world.Rect{Width: cfg.World.Width, Height: cfg.World.Height},
		cfg.BuildSegments(),
		world.WithBoundsFunc(bounds),
		world.WithEventBus(events),
		world.WithLogger(logger),
	)
}

func ProvideSpawner(cfg *config.Config, w *world.World, logger *log.Logger) *spawn.Spawner {
	sc := cfg.Spawn
	return spawn.New(spawn.Config{
		Position:  physics.V(sc.X, sc.Y),
		Velocity:  physics.V(sc.VX, sc.VY),
		Radius:    sc.Radius,
		Every:     sc.EveryTicks,
		MaxBodies: sc.MaxBodies,
	}, w, logger)
}

// ProvideRenderer returns nil when rendering is off.
func ProvideRenderer(cfg *config.Config, w *world.World, out io.Writer, logger *log.Logger) *render.System {
	rc := cfg.Render
	if rc.Mode != "ascii" {
		return nil
	}
	opts := []render.Option{render.WithLogger(logger)}
	if rc.ClearScreen {
		opts = append(opts, render.WithPrefix(render.ClearScreen))
	}
	canvas := render.NewASCIICanvas(w.Bounds(), rc.Columns, rc.Rows)
	return render.NewSystem(w, canvas, out, rc.Every, opts...)
}

func ProvideManager(logger *log.Logger, w *world.World, spawner *spawn.Spawner, renderer *render.System) (*systems.Manager, error) {
	m := systems.NewManager(logger)
	all := []systems.System{spawner, world.NewStepSystem(w)}
	if renderer != nil {
		all = append(all, renderer)
	}
	for _, s := range all {
		if err := m.Register(s); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func ProvideRunner(cfg *config.Config, m *systems.Manager, w *world.World, events bus.EventBus, logger *log.Logger) *runner.Runner {
	return runner.New(runner.Config{
		TickRate:       cfg.Clock.TickRate,
		Frames:         cfg.Clock.Frames,
		ReportInterval: time.Duration(cfg.Clock.ReportInterval * float64(time.Second)),
	}, m, w, events, logger)
}
