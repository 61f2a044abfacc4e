package spawn

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/bounce/internal/core/events/bus"
	"github.com/zeusync/bounce/internal/core/observability/log"
	"github.com/zeusync/bounce/internal/core/systems"
	"github.com/zeusync/bounce/internal/core/systems/physics"
	"github.com/zeusync/bounce/internal/core/world"
)

func TestSpawner(t *testing.T) {
	t.Run("Spawns on a fixed interval", func(t *testing.T) {
		b := bus.New()
		var ids []string
		_, _ = b.Subscribe(world.EventBodySpawned, func(e bus.Event) error {
			ids = append(ids, e.Data.(world.BodyEvent).Body.ID)
			return nil
		})
		w, err := world.New(world.Rect{Width: 800, Height: 600}, nil, world.WithEventBus(b))
		require.NoError(t, err)

		s := New(Config{Position: physics.V(400, 0), Velocity: physics.V(1, 0), Radius: 5, Every: 3}, w, log.NewNop())
		for n := uint64(1); n <= 10; n++ {
			require.NoError(t, s.Update(context.Background(), systems.Frame{Number: n}))
		}
		// frames 1, 4, 7, 10
		require.Equal(t, uint64(4), s.Spawned())
		require.Equal(t, 4, w.BodyCount())
		require.Len(t, ids, 4)

		for i, body := range w.Bodies() {
			require.Equal(t, physics.V(400, 0), body.Center)
			require.Equal(t, physics.V(1, 0), body.Velocity)
			require.Equal(t, 5.0, body.Radius)
			require.Equal(t, ids[i], body.ID)
			_, err := uuid.Parse(body.ID)
			require.NoError(t, err)
		}
	})

	t.Run("Respects the body limit", func(t *testing.T) {
		w, err := world.New(world.Rect{Width: 800, Height: 600}, nil)
		require.NoError(t, err)
		s := New(Config{Position: physics.V(10, 10), Every: 1, MaxBodies: 2}, w, log.NewNop())
		for n := uint64(1); n <= 5; n++ {
			require.NoError(t, s.Update(context.Background(), systems.Frame{Number: n}))
		}
		require.Equal(t, 2, w.BodyCount())
		require.Equal(t, physics.DefaultBodyRadius, w.Bodies()[0].Radius)
	})

	t.Run("Runs before the world step", func(t *testing.T) {
		w, err := world.New(world.Rect{Width: 800, Height: 600}, nil)
		require.NoError(t, err)
		m := systems.NewManager(log.NewNop())
		require.NoError(t, m.Register(world.NewStepSystem(w)))
		require.NoError(t, m.Register(New(Config{Position: physics.V(100, 100), Every: 100}, w, log.NewNop())))
		require.Equal(t, []string{"spawner", "world"}, m.ExecutionOrder())

		require.NoError(t, m.Tick(context.Background(), systems.Frame{Number: 1}))
		bodies := w.Bodies()
		require.Len(t, bodies, 1)
		// spawned and stepped within the same tick
		require.InDelta(t, 100.06, bodies[0].Center.Y, 1e-12)
	})
}
