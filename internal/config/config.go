package config

import (
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/bounce/internal/core/observability/log"
	"github.com/zeusync/bounce/internal/core/systems/physics"
)

// Config describes a simulation run. Physical constants are fixed in package
// physics and cannot be set here.
type Config struct {
	World    WorldConfig     `yaml:"world"`
	Segments []SegmentConfig `yaml:"segments,omitempty"`
	Grid     GridConfig      `yaml:"grid"`
	Spawn    SpawnConfig     `yaml:"spawn"`
	Clock    ClockConfig     `yaml:"clock"`
	Render   RenderConfig    `yaml:"render"`
	Log      log.Config      `yaml:"log"`
}

type WorldConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	// Cull selects the bounds test: "rect" or "floor".
	Cull string `yaml:"cull"`
}

// SegmentConfig places one segment. Zero Length and a missing RotateSpeed
// fall back to the physics defaults.
type SegmentConfig struct {
	X           float64  `yaml:"x"`
	Y           float64  `yaml:"y"`
	Length      float64  `yaml:"length,omitempty"`
	Angle       float64  `yaml:"angle"`
	RotateSpeed *float64 `yaml:"rotate_speed,omitempty"`
}

// GridConfig lays segments out in evenly spaced rows and columns when no
// explicit segments are listed. Odd rows are shifted by half a cell and hold
// one segment less; starting angles step by 45 degrees so neighbours are not parallel.
type GridConfig struct {
	Columns int     `yaml:"columns"`
	Rows    int     `yaml:"rows"`
	Top     float64 `yaml:"top"`
}

type SpawnConfig struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	VX         float64 `yaml:"vx"`
	VY         float64 `yaml:"vy"`
	Radius     float64 `yaml:"radius"`
	EveryTicks uint64  `yaml:"every_ticks"`
	MaxBodies  int     `yaml:"max_bodies"`
}

type ClockConfig struct {
	// TickRate in Hz; zero or negative runs ticks back to back.
	TickRate float64 `yaml:"tick_rate"`
	// Frames stops the run after that many ticks; zero runs until cancelled.
	Frames uint64 `yaml:"frames"`
	// ReportInterval in seconds between stats log lines; zero disables them.
	ReportInterval float64 `yaml:"report_interval"`
}

type RenderConfig struct {
	Mode    string `yaml:"mode"` // "ascii" or "none"
	Columns int    `yaml:"columns"`
	Rows    int    `yaml:"rows"`
	Every   uint64 `yaml:"every"`

	// ClearScreen redraws in place on an ANSI terminal instead of scrolling.
	ClearScreen bool `yaml:"clear_screen"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		World: WorldConfig{Width: 800, Height: 600, Cull: "rect"},
		Grid:  GridConfig{Columns: 6, Rows: 4, Top: 150},
		Spawn: SpawnConfig{
			X:          400,
			Y:          0,
			VX:         0.5,
			VY:         0,
			Radius:     physics.DefaultBodyRadius,
			EveryTicks: 20,
			MaxBodies:  200,
		},
		Clock:  ClockConfig{TickRate: 60, ReportInterval: 5},
		Render: RenderConfig{Mode: "ascii", Columns: 100, Rows: 40, Every: 1, ClearScreen: true},
		Log:    log.DefaultConfig(),
	}
}

// LoadYAML decodes a config over the defaults, so omitted keys keep their default value.
func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a YAML config from path.
func LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return LoadYAML(f)
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case !positive(c.World.Width) || !positive(c.World.Height):
		return invalid("world size must be positive, got %gx%g", c.World.Width, c.World.Height)
	case c.World.Cull != "rect" && c.World.Cull != "floor":
		return invalid("world.cull must be rect or floor, got %q", c.World.Cull)
	case len(c.Segments) == 0 && (c.Grid.Columns < 0 || c.Grid.Rows < 0):
		return invalid("grid must not be negative, got %dx%d", c.Grid.Columns, c.Grid.Rows)
	case len(c.Segments) == 0 && (c.Grid.Top < 0 || c.Grid.Top >= c.World.Height):
		return invalid("grid.top must lie inside the world, got %g", c.Grid.Top)
	case !positive(c.Spawn.Radius):
		return invalid("spawn.radius must be positive, got %g", c.Spawn.Radius)
	case c.Spawn.EveryTicks == 0:
		return invalid("spawn.every_ticks must be at least 1")
	case c.Spawn.MaxBodies < 0:
		return invalid("spawn.max_bodies must not be negative")
	case math.IsNaN(c.Clock.TickRate) || c.Clock.ReportInterval < 0:
		return invalid("clock settings out of range")
	case c.Render.Mode != "ascii" && c.Render.Mode != "none":
		return invalid("render.mode must be ascii or none, got %q", c.Render.Mode)
	case c.Render.Mode == "ascii" && (c.Render.Columns < 2 || c.Render.Rows < 2):
		return invalid("render size too small, got %dx%d", c.Render.Columns, c.Render.Rows)
	case c.Render.Every == 0:
		return invalid("render.every must be at least 1")
	}
	if _, ok := log.ParseLevel(c.Log.Level); !ok {
		return invalid("unknown log level %q", c.Log.Level)
	}
	for i, s := range c.Segments {
		if s.Length < 0 || math.IsNaN(s.Length) {
			return invalid("segment %d: length must be positive, got %g", i, s.Length)
		}
	}
	return nil
}

// BuildSegments returns the configured segments, or the grid layout when none are listed.
func (c *Config) BuildSegments() []physics.Segment {
	if len(c.Segments) > 0 {
		out := make([]physics.Segment, 0, len(c.Segments))
		for _, sc := range c.Segments {
			s := physics.NewSegment(physics.V(sc.X, sc.Y), sc.Angle)
			if sc.Length > 0 {
				s.Length = sc.Length
			}
			if sc.RotateSpeed != nil {
				s.RotateSpeed = *sc.RotateSpeed
			}
			out = append(out, s)
		}
		return out
	}
	return gridSegments(c.World, c.Grid)
}

func gridSegments(w WorldConfig, g GridConfig) []physics.Segment {
	if g.Columns == 0 || g.Rows == 0 {
		return nil
	}
	cellW := w.Width / float64(g.Columns)
	cellH := (w.Height - g.Top) / float64(g.Rows)

	out := make([]physics.Segment, 0, g.Columns*g.Rows)
	for row := 0; row < g.Rows; row++ {
		y := g.Top + cellH*(float64(row)+0.5)
		if row%2 == 0 {
			for col := 0; col < g.Columns; col++ {
				out = append(out, gridSegment(cellW*(float64(col)+0.5), y, row, col))
			}
			continue
		}
		// odd rows sit between the columns of the row above
		for col := 0; col < g.Columns-1; col++ {
			out = append(out, gridSegment(cellW*float64(col+1), y, row, col))
		}
	}
	return out
}

func gridSegment(x, y float64, row, col int) physics.Segment {
	return physics.NewSegment(physics.V(x, y), float64((row+col)%4)*45)
}

func positive(f float64) bool { return f > 0 && !math.IsInf(f, 0) }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
}
