package world

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	LayerGround uint32 = 1 << iota
	LayerProps
	LayerAll uint32 = math.MaxUint32
)

// Segment is one straight piece of the terrain profile in the XY plane. The
// terrain is extruded along Z, so every segment is an infinite strip.
type Segment struct {
	A     mgl64.Vec2 `yaml:"a,flow"`
	B     mgl64.Vec2 `yaml:"b,flow"`
	Layer uint32     `yaml:"layer"`
}

// Normal is the left-hand normal of A->B. Segments listed left to right
// therefore face up.
func (s Segment) Normal() mgl64.Vec2 {
	d := s.B.Sub(s.A)
	n := mgl64.Vec2{-d.Y(), d.X()}
	if l := n.Len(); l > 0 {
		return n.Mul(1 / l)
	}
	return mgl64.Vec2{0, 1}
}

// Closest returns the point on the segment nearest to p.
func (s Segment) Closest(p mgl64.Vec2) mgl64.Vec2 {
	d := s.B.Sub(s.A)
	l2 := d.LenSqr()
	if l2 == 0 {
		return s.A
	}
	u := mgl64.Clamp(p.Sub(s.A).Dot(d)/l2, 0, 1)
	return s.A.Add(d.Mul(u))
}

type Terrain struct {
	Name     string    `yaml:"name"`
	Segments []Segment `yaml:"segments"`
}

// Polyline builds a terrain from consecutive points on a single layer.
func Polyline(name string, layer uint32, points ...mgl64.Vec2) Terrain {
	t := Terrain{Name: name}
	for i := 0; i+1 < len(points); i++ {
		t.Segments = append(t.Segments, Segment{A: points[i], B: points[i+1], Layer: layer})
	}
	return t
}

const extent = 1000.0

func Flat() Terrain {
	return Polyline("flat", LayerGround, mgl64.Vec2{-extent, 0}, mgl64.Vec2{extent, 0})
}

// Ramp rises at angle degrees starting at x = 0.
func Ramp(angle float64) Terrain {
	slope := math.Tan(mgl64.DegToRad(angle))
	const run = 20.0
	return Polyline(fmt.Sprintf("ramp%.0f", angle), LayerGround,
		mgl64.Vec2{-extent, 0},
		mgl64.Vec2{0, 0},
		mgl64.Vec2{run, run * slope},
		mgl64.Vec2{extent, run * slope},
	)
}

// Bump is a small crest that launches a fast body unless it snaps.
func Bump() Terrain {
	return Polyline("bump", LayerGround,
		mgl64.Vec2{-extent, 0},
		mgl64.Vec2{4, 0},
		mgl64.Vec2{5, 0.3},
		mgl64.Vec2{6, 0},
		mgl64.Vec2{extent, 0},
	)
}

// StepDown drops by a small ledge.
func StepDown() Terrain {
	return Polyline("step-down", LayerGround,
		mgl64.Vec2{-extent, 0},
		mgl64.Vec2{5, 0},
		mgl64.Vec2{5, -0.25},
		mgl64.Vec2{extent, -0.25},
	)
}

// Wall is flat ground ending at a vertical wall at x = 5.
func Wall() Terrain {
	return Polyline("wall", LayerGround,
		mgl64.Vec2{-extent, 0},
		mgl64.Vec2{5, 0},
		mgl64.Vec2{5, 50},
	)
}

// Crevasse is a V between two steep walls; neither face alone is walkable.
func Crevasse() Terrain {
	return Polyline("crevasse", LayerGround,
		mgl64.Vec2{-20, 40},
		mgl64.Vec2{0, 0},
		mgl64.Vec2{20, 40},
	)
}

var presets = map[string]func() Terrain{
	"flat":      Flat,
	"ramp":      func() Terrain { return Ramp(20) },
	"steep":     func() Terrain { return Ramp(50) },
	"bump":      Bump,
	"step-down": StepDown,
	"wall":      Wall,
	"crevasse":  Crevasse,
}

// TerrainByName returns a preset terrain.
func TerrainByName(name string) (Terrain, error) {
	fn, ok := presets[name]
	if !ok {
		return Terrain{}, fmt.Errorf("unknown terrain: %s", name)
	}
	t := fn()
	t.Name = name
	return t, nil
}

func TerrainNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HeightAt returns the highest surface directly under x, if any.
func (t Terrain) HeightAt(x float64) (float64, bool) {
	best, found := 0.0, false
	for _, s := range t.Segments {
		lo, hi := s.A, s.B
		if lo.X() > hi.X() {
			lo, hi = hi, lo
		}
		if x < lo.X() || x > hi.X() || hi.X() == lo.X() {
			continue
		}
		u := (x - lo.X()) / (hi.X() - lo.X())
		y := lo.Y() + u*(hi.Y()-lo.Y())
		if !found || y > best {
			best, found = y, true
		}
	}
	return best, found
}
