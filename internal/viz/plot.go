package viz

import (
	"fmt"
	"sort"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stride/internal/sim"
)

// Series extracts one value per sample.
type Series func(sim.Sample) float64

var series = map[string]Series{
	"speed":    func(s sim.Sample) float64 { return s.Speed() },
	"hspeed":   func(s sim.Sample) float64 { return s.HorizontalSpeed() },
	"height":   func(s sim.Sample) float64 { return s.Position.Y() },
	"x":        func(s sim.Sample) float64 { return s.Position.X() },
	"vy":       func(s sim.Sample) float64 { return s.Velocity.Y() },
	"blend":    func(s sim.Sample) float64 { return s.Blend },
	"yaw":      func(s sim.Sample) float64 { return s.Yaw },
	"phase":    func(s sim.Sample) float64 { return float64(s.JumpPhase) },
	"grounded": func(s sim.Sample) float64 { return indicator(s.Grounded) },
}

func indicator(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func SeriesNames() []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func Extract(samples []sim.Sample, name string) ([]float64, error) {
	fn, ok := series[name]
	if !ok {
		return nil, fmt.Errorf("unknown series: %s", name)
	}
	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = fn(s)
	}
	return data, nil
}

// Plot charts a named series of samples.
func Plot(samples []sim.Sample, name string, width, height int) (string, error) {
	data, err := Extract(samples, name)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", fmt.Errorf("no samples to plot")
	}
	caption := fmt.Sprintf("%s over %.2fs", name, samples[len(samples)-1].Time)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	), nil
}
