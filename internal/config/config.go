package config

import (
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stride/internal/input"
	"github.com/san-kum/stride/internal/integrators"
	"github.com/san-kum/stride/internal/locomotion"
	"github.com/san-kum/stride/internal/world"
)

const (
	DefaultDt         = 0.02
	DefaultDuration   = 10.0
	DefaultTerrain    = "flat"
	DefaultIntegrator = "semi_implicit"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Name       string              `yaml:"name,omitempty"`
	Terrain    string              `yaml:"terrain"`
	Integrator string              `yaml:"integrator"`
	Dt         float64             `yaml:"dt"`
	Duration   float64             `yaml:"duration"`
	Spawn      mgl64.Vec3          `yaml:"spawn,flow"`
	CameraYaw  float64             `yaml:"camera_yaw"`
	World      WorldConfig         `yaml:"world"`
	Locomotion locomotion.Settings `yaml:"locomotion"`
	Input      []input.Keyframe    `yaml:"input,omitempty"`
	// InputFile, when set, replaces Input with a script loaded from disk.
	InputFile string `yaml:"input_file,omitempty"`
}

type WorldConfig struct {
	Radius    float64 `yaml:"radius"`
	Substeps  int     `yaml:"substeps"`
	GroundDot float64 `yaml:"ground_dot"`
}

func DefaultConfig() *Config {
	opts := world.DefaultOptions()
	return &Config{
		Terrain:    DefaultTerrain,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Spawn:      mgl64.Vec3{0, 1, 0},
		World: WorldConfig{
			Radius:    opts.Radius,
			Substeps:  opts.Substeps,
			GroundDot: opts.GroundDot,
		},
		Locomotion: locomotion.DefaultSettings(),
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	if c.Input != nil {
		out.Input = make([]input.Keyframe, len(c.Input))
		copy(out.Input, c.Input)
	}
	return &out
}

// Load reads a YAML file over the defaults, so missing keys keep their
// default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config %s", path)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshal config")
	}
	return errors.Wrapf(os.WriteFile(path, data, 0644), "write config %s", path)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "dt must be positive, got %f", c.Dt)
	}
	if c.Duration <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "duration must be positive, got %f", c.Duration)
	}
	if _, err := world.TerrainByName(c.Terrain); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if _, err := integrators.ByName(c.Integrator); err != nil {
		return errors.Wrap(ErrInvalidConfig, err.Error())
	}
	if c.World.Radius <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "world radius must be positive, got %f", c.World.Radius)
	}
	if c.World.Substeps < 1 {
		return errors.Wrapf(ErrInvalidConfig, "world substeps must be at least 1, got %d", c.World.Substeps)
	}
	return validateSettings(c.Locomotion)
}

func validateSettings(s locomotion.Settings) error {
	nonNegative := []struct {
		name  string
		value float64
	}{
		{"max_speed", s.MaxSpeed},
		{"max_acceleration", s.MaxAcceleration},
		{"max_air_acceleration", s.MaxAirAcceleration},
		{"jump_height", s.JumpHeight},
		{"max_snap_speed", s.MaxSnapSpeed},
		{"probe_distance", s.ProbeDistance},
		{"turn_smooth_time", s.TurnSmoothTime},
		{"max_air_jumps", float64(s.MaxAirJumps)},
	}
	for _, f := range nonNegative {
		if f.value < 0 {
			return errors.Wrapf(ErrInvalidConfig, "%s must not be negative, got %v", f.name, f.value)
		}
	}
	if s.MaxGroundAngle < 0 || s.MaxGroundAngle > 90 {
		return errors.Wrapf(ErrInvalidConfig, "max_ground_angle must be within [0, 90], got %f", s.MaxGroundAngle)
	}
	switch s.Grounding {
	case locomotion.GroundingContacts, locomotion.GroundingBody:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown grounding %q", s.Grounding)
	}
	switch s.VelocityClamp {
	case locomotion.ClampAxis, locomotion.ClampJoint:
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown velocity clamp %q", s.VelocityClamp)
	}
	return nil
}

// SetParam sets a numeric locomotion setting by its YAML name.
func (c *Config) SetParam(name string, v float64) error {
	s := &c.Locomotion
	switch name {
	case "max_speed":
		s.MaxSpeed = v
	case "max_acceleration":
		s.MaxAcceleration = v
	case "max_air_acceleration":
		s.MaxAirAcceleration = v
	case "jump_height":
		s.JumpHeight = v
	case "max_air_jumps":
		s.MaxAirJumps = int(v)
	case "max_ground_angle":
		s.MaxGroundAngle = v
	case "max_snap_speed":
		s.MaxSnapSpeed = v
	case "probe_distance":
		s.ProbeDistance = v
	case "turn_smooth_time":
		s.TurnSmoothTime = v
	default:
		return errors.Errorf("unknown parameter: %s", name)
	}
	return nil
}
