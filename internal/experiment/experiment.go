// Package experiment assembles a runnable simulation from a config: terrain
// world, locomotion controller, input source and metrics.
package experiment

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/san-kum/stride/internal/config"
	"github.com/san-kum/stride/internal/input"
	"github.com/san-kum/stride/internal/integrators"
	"github.com/san-kum/stride/internal/locomotion"
	"github.com/san-kum/stride/internal/metrics"
	"github.com/san-kum/stride/internal/sim"
	"github.com/san-kum/stride/internal/world"
)

type Experiment struct {
	cfg        *config.Config
	world      *world.World
	controller *locomotion.Controller
	simulator  *sim.Simulator
}

// New validates cfg and wires its parts together. The body is spawned and
// ready to step.
func New(cfg *config.Config, log zerolog.Logger) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	terrain, err := world.TerrainByName(cfg.Terrain)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.ByName(cfg.Integrator)
	if err != nil {
		return nil, err
	}
	src, err := inputSource(cfg)
	if err != nil {
		return nil, err
	}

	opts := world.DefaultOptions()
	opts.Gravity = cfg.Locomotion.Gravity
	opts.Radius = cfg.World.Radius
	opts.Substeps = cfg.World.Substeps
	opts.GroundDot = cfg.World.GroundDot

	w := world.New(terrain, integ, opts, log.With().Str("component", "world").Logger())
	w.Spawn(cfg.Spawn)

	ctrl := locomotion.New(w, w, cfg.Locomotion,
		locomotion.WithOrientation(input.Orientation{Yaw: cfg.CameraYaw}),
		locomotion.WithLogger(log.With().Str("component", "locomotion").Logger()),
	)
	w.AddListener(ctrl)

	s := sim.New(ctrl, w, src)
	s.SetLogger(log.With().Str("component", "sim").Str("run", cfg.Name).Logger())
	for _, m := range metrics.Default(cfg.Locomotion.Gravity.Y()) {
		s.AddMetric(m)
	}

	return &Experiment{cfg: cfg, world: w, controller: ctrl, simulator: s}, nil
}

func inputSource(cfg *config.Config) (sim.InputSource, error) {
	switch {
	case cfg.InputFile != "":
		return input.LoadScript(cfg.InputFile)
	case len(cfg.Input) > 0:
		return input.NewScript(cfg.Input), nil
	default:
		return input.None{}, nil
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, sim.Config{Dt: e.cfg.Dt, Duration: e.cfg.Duration})
}

func (e *Experiment) Config() *config.Config             { return e.cfg }
func (e *Experiment) World() *world.World                { return e.world }
func (e *Experiment) Controller() *locomotion.Controller { return e.controller }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// Run builds and runs cfg in one call.
func Run(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*sim.Result, error) {
	e, err := New(cfg, log)
	if err != nil {
		return nil, err
	}
	return e.Run(ctx)
}
