package metrics

import "github.com/san-kum/stride/internal/sim"

// Energy is the mean specific mechanical energy ½|v|² − g·y of the body.
// Gravity is negative on a standard world, so height adds energy.
type Energy struct {
	name        string
	gravity     float64
	samples     int
	totalEnergy float64
}

func NewEnergy(gravity float64) *Energy {
	return &Energy{
		name:    "energy",
		gravity: gravity,
	}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s sim.Sample) {
	ke := 0.5 * s.Velocity.LenSqr()
	pe := -e.gravity * s.Position.Y()
	e.totalEnergy += ke + pe
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.samples = 0
}
