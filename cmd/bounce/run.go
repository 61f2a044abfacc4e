package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zeusync/bounce/internal/config"
	"github.com/zeusync/bounce/internal/core/events/bus"
	"github.com/zeusync/bounce/internal/core/observability/log"
	"github.com/zeusync/bounce/internal/core/world"
	"github.com/zeusync/bounce/internal/injector"
)

type runOptions struct {
	configFile string
	frames     uint64
	tickRate   float64
	render     string
	logLevel   string
}

func newRunCmd() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		Long: `Run drops bodies from the spawn point onto the configured segments until
the frame limit is reached or the process receives SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return runSimulation(cmd, cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML config file (defaults are used when empty)")
	flags.Uint64Var(&opts.frames, "frames", 0, "stop after this many frames, 0 runs until interrupted")
	flags.Float64Var(&opts.tickRate, "tick-rate", 0, "frames per second, 0 or less runs as fast as possible")
	flags.StringVar(&opts.render, "render", "", "render mode: ascii or none")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	return cmd
}

// loadConfig reads the config file, if any, and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts runOptions) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		loaded, err := config.LoadFile(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	flags := cmd.Flags()
	if flags.Changed("frames") {
		cfg.Clock.Frames = opts.frames
	}
	if flags.Changed("tick-rate") {
		cfg.Clock.TickRate = opts.tickRate
	}
	if flags.Changed("render") {
		cfg.Render.Mode = opts.render
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func runSimulation(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := injector.InitializeApp(cfg, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer cleanup()

	logger := app.Logger.With(log.String("component", "cli"))
	if logger.GetLevel() == log.LevelDebug {
		sub, err := app.Events.Subscribe(bus.AnyEvent, eventLogger(logger))
		if err != nil {
			return err
		}
		defer func() { _ = sub.Cancel() }()
	}

	logger.Info("Starting bounce",
		log.String("version", Version),
		log.Int("segments", len(app.World.Segments())),
		log.String("render", cfg.Render.Mode))

	if err := app.Runner.Run(ctx); err != nil {
		logger.Error("Simulation failed", log.Error(err))
		return err
	}
	return nil
}

func eventLogger(logger log.Log) bus.EventHandler {
	return func(e bus.Event) error {
		fields := []log.Field{log.String("type", e.Type), log.Uint64("tick", e.Tick)}
		switch data := e.Data.(type) {
		case world.BounceEvent:
			fields = append(fields,
				log.String("body", data.BodyID),
				log.Int("segment", data.SegmentIndex),
				log.Int("steps", data.Contact.Steps),
				log.String("normal", data.Contact.Normal.String()))
		case world.BodyEvent:
			fields = append(fields,
				log.String("body", data.Body.ID),
				log.String("center", data.Body.Center.String()))
		}
		logger.Debug("Event", fields...)
		return nil
	}
}
