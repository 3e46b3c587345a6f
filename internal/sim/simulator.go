package sim

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/san-kum/stride/internal/locomotion"
)

// Simulator drives a controller and its world in lockstep. Each step samples
// input, lets the controller write the body velocity, then advances the
// world, whose contacts reach the controller before the next step.
type Simulator struct {
	controller Controller
	world      World
	input      InputSource
	metrics    []Metric
	observers  []Observer
	log        zerolog.Logger

	step int
	t    float64
}

func New(controller Controller, world World, input InputSource) *Simulator {
	return &Simulator{
		controller: controller,
		world:      world,
		input:      input,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		log:        zerolog.Nop(),
	}
}

func (s *Simulator) AddMetric(m Metric)         { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer)     { s.observers = append(s.observers, o) }
func (s *Simulator) SetLogger(l zerolog.Logger) { s.log = l }
func (s *Simulator) Time() float64              { return s.t }

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration/cfg.Dt + 1e-9)
	result := &Result{
		Samples: make([]Sample, 0, steps),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	s.log.Debug().Int("steps", steps).Float64("dt", cfg.Dt).Msg("run started")

	var runErr error
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		sample := s.advance(s.input.Sample(s.step, s.t), cfg.Dt)
		if !sample.IsValid() {
			runErr = &SimulationError{Step: sample.Step, Time: sample.Time, Sample: sample, Wrapped: ErrInvalidState}
			break
		}

		for _, m := range s.metrics {
			m.Observe(sample)
		}
		for _, obs := range s.observers {
			obs.OnStep(sample)
		}

		result.Samples = append(result.Samples, sample)
		result.StepsTaken++
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	if runErr != nil {
		s.log.Warn().Err(runErr).Msg("run aborted")
	} else {
		s.log.Debug().Int("steps", result.StepsTaken).Msg("run finished")
	}
	return result, runErr
}

// Tick advances a single step with an explicit input, bypassing the input
// source. Observers see the sample; metrics do not.
func (s *Simulator) Tick(in locomotion.Input, dt float64) (Sample, error) {
	if dt <= 0 {
		return Sample{}, errors.Wrapf(ErrInvalidConfig, "dt must be positive, got %f", dt)
	}
	sample := s.advance(in, dt)
	if !sample.IsValid() {
		return sample, &SimulationError{Step: sample.Step, Time: sample.Time, Sample: sample, Wrapped: ErrInvalidState}
	}
	for _, obs := range s.observers {
		obs.OnStep(sample)
	}
	return sample, nil
}

func (s *Simulator) advance(in locomotion.Input, dt float64) Sample {
	_, blend := s.controller.Step(in, dt)
	s.world.Step(dt)

	s.step++
	s.t += dt

	state := s.controller.Snapshot()
	report := s.controller.LastStep()
	return Sample{
		Step:      s.step,
		Time:      s.t,
		Input:     in,
		Position:  s.world.Position(),
		Velocity:  s.world.Velocity(),
		Blend:     blend,
		Yaw:       s.controller.Yaw(),
		Grounded:  report.Grounded,
		Steep:     report.Steep,
		JumpPhase: state.JumpPhase,
		Snapped:   report.Snapped,
		Jumped:    report.Jumped,
	}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
