package locomotion

import (
	"github.com/go-gl/mathgl/mgl64"
)

var (
	up      = mgl64.Vec3{0, 1, 0}
	down    = mgl64.Vec3{0, -1, 0}
	right   = mgl64.Vec3{1, 0, 0}
	forward = mgl64.Vec3{0, 0, 1}
)

// steepFloor is the lowest normal up-component still counted as steep.
// Anything below it faces downward and is ignored as a ceiling.
const steepFloor = -0.01

// State is the persistent record of a Controller.
//
// ContactNormal and SteepNormal are sums while contacts accumulate and only
// become unit directions once UpdateState or CheckSteepContacts normalize them.
type State struct {
	Velocity      mgl64.Vec3
	ContactNormal mgl64.Vec3
	SteepNormal   mgl64.Vec3

	GroundContactCount int
	SteepContactCount  int

	JumpPhase              int
	StepsSinceLastGrounded int
	StepsSinceLastJump     int

	// Grounded is the effective groundedness decided by the last UpdateState.
	Grounded bool

	MinGroundDotProduct float64
}

// StepReport describes what happened during the last Step.
type StepReport struct {
	Grounded bool
	Steep    bool
	Snapped  bool
	Promoted bool
	Jumped   bool
}

// Input is one tick of player input.
type Input struct {
	// Move is the raw directional vector; components lie in [-1, 1].
	Move mgl64.Vec2
	// Jump is an edge-triggered press.
	Jump bool
}

// ContactKind is the classification of a single contact normal.
type ContactKind uint8

const (
	ContactIgnored ContactKind = iota
	ContactGround
	ContactSteep
)

func (k ContactKind) String() string {
	switch k {
	case ContactGround:
		return "ground"
	case ContactSteep:
		return "steep"
	default:
		return "ignored"
	}
}

// Classify sorts a contact normal by its up-component.
func Classify(normal mgl64.Vec3, minGroundDot float64) ContactKind {
	y := normal.Y()
	switch {
	case y >= minGroundDot:
		return ContactGround
	case y > steepFloor:
		return ContactSteep
	default:
		return ContactIgnored
	}
}

// normalize mirrors a game engine's safe normalization: vectors too short to
// carry a direction become zero instead of NaN.
func normalize(v mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-5 {
		return mgl64.Vec3{}
	}
	return v.Mul(1 / l)
}

func projectOnPlane(v, normal mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(normal.Mul(v.Dot(normal)))
}

func moveTowards(current, target, maxDelta float64) float64 {
	if target-current > maxDelta {
		return current + maxDelta
	}
	if current-target > maxDelta {
		return current - maxDelta
	}
	return target
}

func clampMagnitude(v mgl64.Vec2, limit float64) mgl64.Vec2 {
	if l := v.Len(); l > limit {
		return v.Mul(limit / l)
	}
	return v
}
