package metrics

import (
	"math"

	"github.com/san-kum/stride/internal/sim"
)

// AirTime is the fraction of steps spent without ground.
type AirTime struct {
	airborne int
	samples  int
}

func NewAirTime() *AirTime { return &AirTime{} }

func (a *AirTime) Name() string { return "air_time" }

func (a *AirTime) Observe(s sim.Sample) {
	if !s.Grounded {
		a.airborne++
	}
	a.samples++
}

func (a *AirTime) Value() float64 {
	if a.samples == 0 {
		return 0
	}
	return float64(a.airborne) / float64(a.samples)
}

func (a *AirTime) Reset() { a.airborne, a.samples = 0, 0 }

// Counter counts steps matching a predicate.
type Counter struct {
	name  string
	match func(sim.Sample) bool
	count int
}

func NewJumps() *Counter {
	return &Counter{name: "jumps", match: func(s sim.Sample) bool { return s.Jumped }}
}

func NewSnaps() *Counter {
	return &Counter{name: "snaps", match: func(s sim.Sample) bool { return s.Snapped }}
}

func (c *Counter) Name() string { return c.name }

func (c *Counter) Observe(s sim.Sample) {
	if c.match(s) {
		c.count++
	}
}

func (c *Counter) Value() float64 { return float64(c.count) }
func (c *Counter) Reset()         { c.count = 0 }

type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(s sim.Sample) {
	p.peak = math.Max(p.peak, s.Speed())
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

type MeanBlend struct {
	sum     float64
	samples int
}

func NewMeanBlend() *MeanBlend { return &MeanBlend{} }

func (m *MeanBlend) Name() string { return "mean_blend" }

func (m *MeanBlend) Observe(s sim.Sample) {
	m.sum += s.Blend
	m.samples++
}

func (m *MeanBlend) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanBlend) Reset() { m.sum, m.samples = 0, 0 }

// Default is the metric set attached to every run.
func Default(gravity float64) []sim.Metric {
	return []sim.Metric{
		NewAirTime(),
		NewJumps(),
		NewSnaps(),
		NewPeakSpeed(),
		NewMeanBlend(),
		NewEnergy(gravity),
	}
}
