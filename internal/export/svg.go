package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/san-kum/stride/internal/sim"
	"github.com/san-kum/stride/internal/world"
)

// bounds is the XY box the profile is drawn in.
type bounds struct {
	min, max mgl64.Vec2
}

func (b *bounds) add(p mgl64.Vec2) {
	b.min = mgl64.Vec2{math.Min(b.min.X(), p.X()), math.Min(b.min.Y(), p.Y())}
	b.max = mgl64.Vec2{math.Max(b.max.X(), p.X()), math.Max(b.max.Y(), p.Y())}
}

// pad grows the box by frac of its size on every side and keeps it at
// least one unit across.
func (b *bounds) pad(frac float64) {
	size := b.max.Sub(b.min)
	w, h := math.Max(size.X(), 1), math.Max(size.Y(), 1)
	b.min = b.min.Sub(mgl64.Vec2{w * frac, h * frac})
	b.max = b.max.Add(mgl64.Vec2{w * frac, h * frac})
}

// ProfileSVG draws a side view of a run: the terrain profile clipped to the
// trajectory, the body path and a marker at every jump.
func ProfileSVG(w io.Writer, terrain world.Terrain, samples []sim.Sample, width, height int) error {
	if len(samples) < 2 {
		return errors.New("export: need at least two samples")
	}

	first := samples[0].Position
	b := bounds{min: mgl64.Vec2{first.X(), first.Y()}, max: mgl64.Vec2{first.X(), first.Y()}}
	for _, s := range samples {
		b.add(mgl64.Vec2{s.Position.X(), s.Position.Y()})
	}
	b.pad(0.1)

	size := b.max.Sub(b.min)
	project := func(p mgl64.Vec2) (float64, float64) {
		x := (p.X() - b.min.X()) / size.X() * float64(width)
		y := float64(height) - (p.Y()-b.min.Y())/size.Y()*float64(height)
		return x, y
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	sb.WriteString(`<g stroke="#666666" stroke-width="2">` + "\n")
	for _, seg := range terrain.Segments {
		a, c, ok := clipX(seg, b.min.X(), b.max.X())
		if !ok {
			continue
		}
		x0, y0 := project(a)
		x1, y1 := project(c)
		fmt.Fprintf(&sb, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>`+"\n", x0, y0, x1, y1)
	}
	sb.WriteString("</g>\n")

	sb.WriteString(`<path fill="none" stroke="#00ff88" stroke-width="1.5" d="M`)
	for i, s := range samples {
		x, y := project(mgl64.Vec2{s.Position.X(), s.Position.Y()})
		if i > 0 {
			sb.WriteString(" L")
		}
		fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
	}
	sb.WriteString(`"/>` + "\n")

	sb.WriteString(`<g fill="#ff4466">` + "\n")
	for _, s := range samples {
		if !s.Jumped {
			continue
		}
		x, y := project(mgl64.Vec2{s.Position.X(), s.Position.Y()})
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="3"/>`+"\n", x, y)
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return errors.Wrap(err, "write svg")
}

// clipX trims a segment to the vertical band [lo, hi].
func clipX(s world.Segment, lo, hi float64) (mgl64.Vec2, mgl64.Vec2, bool) {
	a, c := s.A, s.B
	if a.X() > c.X() {
		a, c = c, a
	}
	if c.X() < lo || a.X() > hi {
		return a, c, false
	}
	dx := c.X() - a.X()
	if dx == 0 {
		return a, c, true
	}
	a0, c0 := a, c
	at := func(x float64) mgl64.Vec2 {
		return mgl64.Vec2{x, a0.Y() + (x-a0.X())/dx*(c0.Y()-a0.Y())}
	}
	if a0.X() < lo {
		a = at(lo)
	}
	if c0.X() > hi {
		c = at(hi)
	}
	return a, c, true
}
