package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/zeusync/bounce/internal/core/events/bus"
	"github.com/zeusync/bounce/internal/core/observability/log"
	"github.com/zeusync/bounce/internal/core/systems"
	"github.com/zeusync/bounce/internal/core/systems/physics"
	"github.com/zeusync/bounce/internal/core/world"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type failingSystem struct{ at uint64 }

var errBoom = errors.New("boom")

func (f *failingSystem) Name() string                  { return "failing" }
func (f *failingSystem) Phase() systems.ExecutionPhase { return systems.PhasePostUpdate }
func (f *failingSystem) Priority() systems.Priority    { return systems.PriorityNormal }
func (f *failingSystem) Update(_ context.Context, frame systems.Frame) error {
	if frame.Number == f.at {
		return errBoom
	}
	return nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Sync() error { return nil }

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// setup builds a world with one flat segment and one body dropping onto it.
func setup(t *testing.T, cfg Config, logger log.Log) (*Runner, *world.World, bus.EventBus) {
	t.Helper()
	events := bus.New()
	seg := physics.NewSegment(physics.V(100, 100), 0)
	seg.RotateSpeed = 0
	w, err := world.New(world.Rect{Width: 800, Height: 600}, []physics.Segment{seg}, world.WithEventBus(events))
	require.NoError(t, err)
	require.NoError(t, w.AddBody(physics.Body{ID: "a", Center: physics.V(100, 95), Velocity: physics.V(0, 2), Radius: 5}))

	m := systems.NewManager(logger)
	require.NoError(t, m.Register(world.NewStepSystem(w)))
	return New(cfg, m, w, events, logger), w, events
}

func TestRunner_Run(t *testing.T) {
	t.Run("Stops after the frame limit", func(t *testing.T) {
		r, w, _ := setup(t, Config{Frames: 5}, log.NewNop())
		require.NoError(t, r.Run(context.Background()))

		stats := r.Stats()
		require.Equal(t, uint64(5), stats.Ticks)
		require.Equal(t, uint64(5), w.Tick())
		require.Equal(t, uint64(1), stats.Bodies)
		require.Equal(t, w.Checksum(), stats.Checksum)
		require.False(t, r.IsRunning())
	})

	t.Run("Frames continue across runs", func(t *testing.T) {
		r, w, _ := setup(t, Config{Frames: 3}, log.NewNop())
		require.NoError(t, r.Run(context.Background()))
		require.NoError(t, r.Run(context.Background()))
		require.Equal(t, uint64(6), r.Stats().Ticks)
		require.Equal(t, uint64(6), w.Tick())
	})

	t.Run("Counts bounces from the bus", func(t *testing.T) {
		r, _, events := setup(t, Config{Frames: 10}, log.NewNop())
		var seen uint64
		_, err := events.Subscribe(world.EventBodyBounced, func(bus.Event) error {
			seen++
			return nil
		})
		require.NoError(t, err)

		require.NoError(t, r.Run(context.Background()))
		require.NotZero(t, seen)
		require.Equal(t, seen, r.Stats().Bounces)
	})

	t.Run("Paces frames at the tick rate", func(t *testing.T) {
		r, _, _ := setup(t, Config{TickRate: 100, Frames: 5}, log.NewNop())
		started := time.Now()
		require.NoError(t, r.Run(context.Background()))
		// the first frame is immediate, the other four wait 10ms each
		require.GreaterOrEqual(t, time.Since(started), 35*time.Millisecond)
		require.Equal(t, uint64(5), r.Stats().Ticks)
	})

	t.Run("Cancellation is a clean stop", func(t *testing.T) {
		r, _, _ := setup(t, Config{TickRate: 1000}, log.NewNop())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		require.NoError(t, r.Run(ctx))
		require.NotZero(t, r.Stats().Ticks)
	})

	t.Run("Already running", func(t *testing.T) {
		r, _, _ := setup(t, Config{TickRate: 200}, log.NewNop())
		ctx, cancel := context.WithCancel(context.Background())

		done := make(chan error, 1)
		go func() { done <- r.Run(ctx) }()
		require.Eventually(t, r.IsRunning, time.Second, time.Millisecond)

		require.ErrorIs(t, r.Run(context.Background()), ErrRunnerAlreadyRunning)
		cancel()
		require.NoError(t, <-done)
	})

	t.Run("Failed tick stops the run", func(t *testing.T) {
		r, _, _ := setup(t, Config{}, log.NewNop())
		require.NoError(t, r.manager.Register(&failingSystem{at: 4}))

		err := r.Run(context.Background())
		require.ErrorIs(t, err, errBoom)
		require.Contains(t, err.Error(), "frame 4")
		require.Equal(t, uint64(3), r.Stats().Ticks)
	})

	t.Run("Reports stats periodically", func(t *testing.T) {
		out := &syncBuffer{}
		logger, err := log.NewWithWriter(log.Config{Level: "info", Format: "json"}, out)
		require.NoError(t, err)

		r, _, _ := setup(t, Config{TickRate: 500, Frames: 50, ReportInterval: 10 * time.Millisecond}, logger)
		require.NoError(t, r.Run(context.Background()))

		logs := out.String()
		require.Contains(t, logs, `"msg":"Simulation stats"`)
		require.Contains(t, logs, `"msg":"Run finished"`)
		require.Equal(t, 1, strings.Count(logs, `"msg":"Run started"`))
	})
}

func TestRunner_Deterministic(t *testing.T) {
	a, _, _ := setup(t, Config{Frames: 200}, log.NewNop())
	b, _, _ := setup(t, Config{Frames: 200}, log.NewNop())
	require.NoError(t, a.Run(context.Background()))
	require.NoError(t, b.Run(context.Background()))
	require.Equal(t, a.Stats(), b.Stats())
}
