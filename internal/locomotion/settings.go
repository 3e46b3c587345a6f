package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Grounding selects what decides whether the body stands on the ground.
type Grounding string

const (
	// GroundingContacts treats any accumulated ground contact as grounded.
	GroundingContacts Grounding = "contacts"
	// GroundingBody asks the body's own grounded flag; contacts only supply the normal.
	GroundingBody Grounding = "body"
)

// VelocityClamp selects how the per-step speed change is bounded.
type VelocityClamp string

const (
	// ClampAxis bounds each tangent axis independently.
	ClampAxis VelocityClamp = "axis"
	// ClampJoint bounds the magnitude of the combined in-plane change.
	ClampJoint VelocityClamp = "joint"
)

const (
	DefaultMaxSpeed           = 10.0
	DefaultMaxAcceleration    = 10.0
	DefaultMaxAirAcceleration = 1.0
	DefaultJumpHeight         = 2.0
	DefaultMaxGroundAngle     = 25.0
	DefaultMaxSnapSpeed       = 100.0
	DefaultProbeDistance      = 1.0
	DefaultTurnSmoothTime     = 0.1
	DefaultGravity            = -9.81
)

// Settings holds the tunable parameters of a Controller.
type Settings struct {
	MaxSpeed           float64       `yaml:"max_speed"`
	MaxAcceleration    float64       `yaml:"max_acceleration"`
	MaxAirAcceleration float64       `yaml:"max_air_acceleration"`
	JumpHeight         float64       `yaml:"jump_height"`
	MaxAirJumps        int           `yaml:"max_air_jumps"`
	MaxGroundAngle     float64       `yaml:"max_ground_angle"`
	MaxSnapSpeed       float64       `yaml:"max_snap_speed"`
	ProbeDistance      float64       `yaml:"probe_distance"`
	ProbeMask          uint32        `yaml:"probe_mask"`
	TurnSmoothTime     float64       `yaml:"turn_smooth_time"`
	Gravity            mgl64.Vec3    `yaml:"gravity,flow"`
	Grounding          Grounding     `yaml:"grounding"`
	VelocityClamp      VelocityClamp `yaml:"velocity_clamp"`
}

// DefaultSettings returns the tuning used when a config leaves settings out.
func DefaultSettings() Settings {
	return Settings{
		MaxSpeed:           DefaultMaxSpeed,
		MaxAcceleration:    DefaultMaxAcceleration,
		MaxAirAcceleration: DefaultMaxAirAcceleration,
		JumpHeight:         DefaultJumpHeight,
		MaxGroundAngle:     DefaultMaxGroundAngle,
		MaxSnapSpeed:       DefaultMaxSnapSpeed,
		ProbeDistance:      DefaultProbeDistance,
		ProbeMask:          math.MaxUint32,
		TurnSmoothTime:     DefaultTurnSmoothTime,
		Gravity:            mgl64.Vec3{0, DefaultGravity, 0},
		Grounding:          GroundingContacts,
		VelocityClamp:      ClampAxis,
	}
}

// Derived holds constants computed from Settings.
type Derived struct {
	MinGroundDotProduct float64
}

// DeriveState computes the constants a Controller needs from its settings.
// It is pure and is called on construction and on every settings change.
func DeriveState(s Settings) Derived {
	return Derived{
		MinGroundDotProduct: math.Cos(mgl64.DegToRad(s.MaxGroundAngle)),
	}
}

// JumpSpeed is the launch speed that reaches JumpHeight under Gravity.
func (s Settings) JumpSpeed() float64 {
	return math.Sqrt(math.Max(0, -2*s.Gravity.Y()*s.JumpHeight))
}
