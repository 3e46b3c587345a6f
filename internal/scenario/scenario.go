// Package scenario runs scripted sequences of locomotion runs and parameter
// sweeps described in YAML.
package scenario

import (
	"context"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stride/internal/config"
	"github.com/san-kum/stride/internal/experiment"
	"github.com/san-kum/stride/internal/sim"
)

// Scenario is a named list of runs and sweeps.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Runs        []Run   `yaml:"runs"`
	Sweeps      []Sweep `yaml:"sweeps"`
}

// Run starts from a preset ("terrain/name") or the defaults and applies the
// overrides in Config on top.
type Run struct {
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
	SaveAs string    `yaml:"save_as"`
}

// Sweep varies one locomotion parameter across evenly spaced values.
type Sweep struct {
	Preset   string  `yaml:"preset"`
	Param    string  `yaml:"param"`
	Min      float64 `yaml:"min"`
	Max      float64 `yaml:"max"`
	Steps    int     `yaml:"steps"`
	Parallel int     `yaml:"parallel"`
}

// Outcome is one finished run.
type Outcome struct {
	Config *config.Config
	Result *sim.Result
	SaveAs string
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read scenario %s", path)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrap(err, "parse scenario")
	}
	return &sc, nil
}

// Resolve builds the config for a run.
func (r Run) Resolve() (*config.Config, error) {
	cfg, err := resolvePreset(r.Preset)
	if err != nil {
		return nil, err
	}
	if r.Config.Kind != 0 {
		if err := r.Config.Decode(cfg); err != nil {
			return nil, errors.Wrapf(err, "apply overrides to %s", r.Preset)
		}
	}
	if r.SaveAs != "" {
		cfg.Name = r.SaveAs
	}
	return cfg, cfg.Validate()
}

func resolvePreset(ref string) (*config.Config, error) {
	if ref == "" {
		return config.DefaultConfig(), nil
	}
	terrain, name, ok := strings.Cut(ref, "/")
	if !ok {
		return nil, errors.Errorf("preset %q must be terrain/name", ref)
	}
	cfg := config.GetPreset(terrain, name)
	if cfg == nil {
		return nil, errors.Errorf("unknown preset: %s", ref)
	}
	return cfg, nil
}

// RunScenario executes every run in order, stopping at the first failure.
func RunScenario(ctx context.Context, sc *Scenario, log zerolog.Logger) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(sc.Runs))

	for i, run := range sc.Runs {
		cfg, err := run.Resolve()
		if err != nil {
			return outcomes, errors.Wrapf(err, "run %d", i+1)
		}

		log.Info().Int("run", i+1).Int("of", len(sc.Runs)).Str("preset", run.Preset).Msg("running")

		result, err := experiment.Run(ctx, cfg, log)
		if err != nil {
			return outcomes, errors.Wrapf(err, "run %d", i+1)
		}
		outcomes = append(outcomes, Outcome{Config: cfg, Result: result, SaveAs: run.SaveAs})
	}

	return outcomes, nil
}

// Values returns the parameter values a sweep visits.
func (s Sweep) Values() []float64 {
	if s.Steps <= 1 {
		return []float64{s.Min}
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)
	values := make([]float64, s.Steps)
	for i := range values {
		values[i] = s.Min + float64(i)*step
	}
	return values
}

// RunSweep runs one simulation per parameter value, concurrently.
func RunSweep(ctx context.Context, sweep Sweep, log zerolog.Logger) ([]SweepResult, error) {
	base, err := resolvePreset(sweep.Preset)
	if err != nil {
		return nil, err
	}
	if err := base.Clone().SetParam(sweep.Param, sweep.Min); err != nil {
		return nil, err
	}

	values := sweep.Values()
	build := func(i int) (*sim.Simulator, error) {
		cfg := base.Clone()
		if err := cfg.SetParam(sweep.Param, values[i]); err != nil {
			return nil, err
		}
		e, err := experiment.New(cfg, log)
		if err != nil {
			return nil, errors.Wrapf(err, "%s=%g", sweep.Param, values[i])
		}
		return e.Simulator(), nil
	}

	log.Info().Str("param", sweep.Param).Int("steps", len(values)).Msg("sweep started")

	results, err := sim.NewEnsemble(build, len(values), sweep.Parallel).
		Run(ctx, sim.Config{Dt: base.Dt, Duration: base.Duration})
	if err != nil {
		return nil, err
	}

	out := make([]SweepResult, len(results))
	for i, r := range results {
		out[i] = SweepResult{Value: values[i], Metrics: r.Metrics}
	}
	return out, nil
}
