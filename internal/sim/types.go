package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/stride/internal/locomotion"
)

// Controller is the locomotion side of a step.
type Controller interface {
	Step(in locomotion.Input, dt float64) (mgl64.Vec3, float64)
	Snapshot() locomotion.State
	LastStep() locomotion.StepReport
	Yaw() float64
}

// World is the physics side of a step. It feeds contacts back to the
// controller between steps.
type World interface {
	Step(dt float64)
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
}

type InputSource interface {
	Sample(step int, t float64) locomotion.Input
}

// Sample is the record of one completed step.
type Sample struct {
	Step      int
	Time      float64
	Input     locomotion.Input
	Position  mgl64.Vec3
	Velocity  mgl64.Vec3
	Blend     float64
	Yaw       float64
	Grounded  bool
	Steep     bool
	JumpPhase int
	Snapped   bool
	Jumped    bool
}

func (s Sample) Speed() float64 { return s.Velocity.Len() }

func (s Sample) HorizontalSpeed() float64 {
	return mgl64.Vec2{s.Velocity.X(), s.Velocity.Z()}.Len()
}

func (s Sample) IsValid() bool {
	for _, v := range [...]float64{
		s.Position.X(), s.Position.Y(), s.Position.Z(),
		s.Velocity.X(), s.Velocity.Y(), s.Velocity.Z(),
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}

func (r *Result) Final() (Sample, bool) {
	if len(r.Samples) == 0 {
		return Sample{}, false
	}
	return r.Samples[len(r.Samples)-1], true
}
