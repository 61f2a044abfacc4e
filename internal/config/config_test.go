package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/bounce/internal/core/systems/physics"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	require.Equal(t, physics.DefaultBodyRadius, c.Spawn.Radius)

	segs := c.BuildSegments()
	require.Len(t, segs, 22)
	for _, s := range segs {
		require.Equal(t, physics.DefaultSegmentLength, s.Length)
		require.Equal(t, physics.DefaultRotateSpeed, s.RotateSpeed)
		require.GreaterOrEqual(t, s.Center.X, 0.0)
		require.LessOrEqual(t, s.Center.X, c.World.Width)
		require.Greater(t, s.Center.Y, c.Grid.Top)
		require.Less(t, s.Center.Y, c.World.Height)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Run("Overrides keep other defaults", func(t *testing.T) {
		c, err := LoadYAML(strings.NewReader(`
world:
  width: 400
  height: 300
segments:
  - {x: 100, y: 100, angle: 30}
  - {x: 200, y: 150, length: 40, angle: -15, rotate_speed: 0}
spawn:
  every_ticks: 5
clock:
  frames: 120
log:
  level: debug
`))
		require.NoError(t, err)
		require.Equal(t, 400.0, c.World.Width)
		require.Equal(t, "rect", c.World.Cull)
		require.Equal(t, uint64(5), c.Spawn.EveryTicks)
		require.Equal(t, 400.0, c.Spawn.X)
		require.Equal(t, uint64(120), c.Clock.Frames)
		require.Equal(t, 60.0, c.Clock.TickRate)
		require.Equal(t, "debug", c.Log.Level)
		require.Equal(t, "json", c.Log.Format)

		segs := c.BuildSegments()
		require.Len(t, segs, 2)
		require.Equal(t, physics.Segment{Center: physics.V(100, 100), Length: 70, Angle: 30, RotateSpeed: 0.5}, segs[0])
		require.Equal(t, physics.Segment{Center: physics.V(200, 150), Length: 40, Angle: -15, RotateSpeed: 0}, segs[1])
	})

	t.Run("Empty document gives defaults", func(t *testing.T) {
		c, err := LoadYAML(strings.NewReader(""))
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(Default(), *c))
	})

	t.Run("Unknown keys are rejected", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader("gravity: 1.5\n"))
		require.Error(t, err)
	})

	t.Run("Invalid values", func(t *testing.T) {
		for name, doc := range map[string]string{
			"width":       "world: {width: 0}",
			"cull":        "world: {cull: sides}",
			"radius":      "spawn: {radius: -1}",
			"every":       "spawn: {every_ticks: 0}",
			"max":         "spawn: {max_bodies: -3}",
			"render mode": "render: {mode: svg}",
			"render size": "render: {columns: 1}",
			"render each": "render: {every: 0}",
			"log level":   "log: {level: loud}",
			"segment":     "segments: [{x: 1, y: 1, length: -4}]",
			"grid":        "grid: {columns: -1}",
			"grid top":    "grid: {top: 600}",
		} {
			_, err := LoadYAML(strings.NewReader(doc))
			require.ErrorIs(t, err, ErrInvalidConfig, name)
		}
	})

	t.Run("Headless render needs no size", func(t *testing.T) {
		_, err := LoadYAML(strings.NewReader("render: {mode: none, columns: 0, rows: 0}"))
		require.NoError(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bounce.yaml")
	require.NoError(t, os.WriteFile(path, []byte("grid: {columns: 2, rows: 1, top: 0}\n"), 0o600))

	c, err := LoadFile(path)
	require.NoError(t, err)
	segs := c.BuildSegments()
	require.Len(t, segs, 2)
	require.Equal(t, physics.V(200, 300), segs[0].Center)
	require.Equal(t, physics.V(600, 300), segs[1].Center)
	require.Equal(t, 0.0, segs[0].Angle)
	require.Equal(t, 45.0, segs[1].Angle)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestGridSkipsEmptyLayout(t *testing.T) {
	c := Default()
	c.Grid = GridConfig{}
	require.Empty(t, c.BuildSegments())
}
