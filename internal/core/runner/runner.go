package runner

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/zeusync/bounce/internal/core/events/bus"
	"github.com/zeusync/bounce/internal/core/observability/log"
	"github.com/zeusync/bounce/internal/core/systems"
	"github.com/zeusync/bounce/internal/core/world"
)

type Config struct {
	// TickRate in Hz. Zero or negative runs ticks back to back.
	TickRate float64
	// Frames limits one Run; zero runs until the context is cancelled.
	Frames uint64
	// ReportInterval between stats log lines; zero disables reporting.
	ReportInterval time.Duration
}

// Stats is a snapshot of the counters a Runner keeps.
type Stats struct {
	Ticks    uint64
	Bodies   uint64
	Bounces  uint64
	Checksum uint64
}

// Runner drives a systems Manager from a frame clock paced by a rate limiter.
// Only the clock goroutine touches the world; the reporter reads atomic counters.
type Runner struct {
	cfg     Config
	manager *systems.Manager
	world   *world.World
	events  bus.EventBus
	logger  log.Log

	running  atomic.Bool
	ticks    atomic.Uint64
	bodies   atomic.Uint64
	bounces  atomic.Uint64
	checksum atomic.Uint64
}

func New(cfg Config, manager *systems.Manager, w *world.World, events bus.EventBus, logger log.Log) *Runner {
	return &Runner{
		cfg:     cfg,
		manager: manager,
		world:   w,
		events:  events,
		logger:  logger.With(log.String("component", "runner")),
	}
}

// Run ticks until Frames ticks have run or ctx is cancelled, whichever comes
// first. Cancellation is a normal stop and returns nil; a failed tick stops the
// run and returns its error.
func (r *Runner) Run(ctx context.Context) error {
	if !r.running.CompareAndSwap(false, true) {
		return ErrRunnerAlreadyRunning
	}
	defer r.running.Store(false)

	if r.events != nil {
		sub, err := r.events.Subscribe(world.EventBodyBounced, func(bus.Event) error {
			r.bounces.Add(1)
			return nil
		})
		if err != nil {
			return fmt.Errorf("subscribe to bounces: %w", err)
		}
		defer func() { _ = sub.Cancel() }()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r.logger.Info("Run started",
		log.Float64("tick_rate", r.cfg.TickRate),
		log.Uint64("frames", r.cfg.Frames))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return r.loop(gctx)
	})
	if r.cfg.ReportInterval > 0 {
		g.Go(func() error {
			r.report(gctx)
			return nil
		})
	}
	err := g.Wait()

	r.logStats("Run finished")
	return err
}

func (r *Runner) IsRunning() bool { return r.running.Load() }

func (r *Runner) Stats() Stats {
	return Stats{
		Ticks:    r.ticks.Load(),
		Bodies:   r.bodies.Load(),
		Bounces:  r.bounces.Load(),
		Checksum: r.checksum.Load(),
	}
}

func (r *Runner) loop(ctx context.Context) error {
	limiter := rate.NewLimiter(r.limit(), 1)

	var last time.Time
	first := r.ticks.Load() + 1
	for n := first; r.cfg.Frames == 0 || n-first < r.cfg.Frames; n++ {
		// Wait fails only when ctx is done or its deadline comes before the next frame.
		if err := limiter.Wait(ctx); err != nil {
			return nil
		}

		now := time.Now()
		frame := systems.Frame{Number: n, Started: now}
		if !last.IsZero() {
			frame.Delta = now.Sub(last)
		}
		last = now

		if err := r.manager.Tick(ctx, frame); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}

		r.ticks.Store(n)
		r.bodies.Store(uint64(r.world.BodyCount()))
		r.checksum.Store(r.world.Checksum())
	}
	return nil
}

func (r *Runner) limit() rate.Limit {
	if r.cfg.TickRate <= 0 || math.IsInf(r.cfg.TickRate, 1) {
		return rate.Inf
	}
	return rate.Limit(r.cfg.TickRate)
}

func (r *Runner) report(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.ReportInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.logStats("Simulation stats")
		}
	}
}

func (r *Runner) logStats(msg string) {
	s := r.Stats()
	r.logger.Info(msg,
		log.Uint64("ticks", s.Ticks),
		log.Uint64("bodies", s.Bodies),
		log.Uint64("bounces", s.Bounces),
		log.String("checksum", fmt.Sprintf("%016x", s.Checksum)))
}
