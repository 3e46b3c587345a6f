package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a braille grid of Width x Height cells, each holding 2x4 dots.
// A viewport maps world XY coordinates onto it with +Y up.
type Canvas struct {
	Width, Height int
	Grid          [][]rune

	center mgl64.Vec2
	scale  float64 // dots per world unit
}

func NewCanvas(w, h int, scale float64) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		scale:  scale,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// LookAt centers the viewport on p.
func (c *Canvas) LookAt(p mgl64.Vec2) { c.center = p }

// Project maps a world point to dot coordinates.
func (c *Canvas) Project(p mgl64.Vec2) (int, int) {
	x := float64(c.Width*2)/2 + (p.X()-c.center.X())*c.scale
	y := float64(c.Height*4)/2 - (p.Y()-c.center.Y())*c.scale
	return int(math.Round(x)), int(math.Round(y))
}

// Set lights the dot at (x, y); the canvas is (Width*2) x (Height*4) dots.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawSegment draws a world-space segment, clipped to a generous window
// around the viewport so long terrain pieces stay cheap.
func (c *Canvas) DrawSegment(a, b mgl64.Vec2) {
	reach := float64(c.Width*2+c.Height*4) / c.scale
	a, b, ok := clip(a, b, c.center, reach)
	if !ok {
		return
	}
	x0, y0 := c.Project(a)
	x1, y1 := c.Project(b)
	c.DrawLine(x0, y0, x1, y1)
}

// DrawCircle outlines a world-space circle.
func (c *Canvas) DrawCircle(center mgl64.Vec2, r float64) {
	n := int(math.Max(12, 2*math.Pi*r*c.scale))
	px, py := c.Project(center.Add(mgl64.Vec2{r, 0}))
	for i := 1; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		x, y := c.Project(center.Add(mgl64.Vec2{r * math.Cos(a), r * math.Sin(a)}))
		c.DrawLine(px, py, x, y)
		px, py = x, y
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// clip trims a segment to the square of half-size reach around center.
func clip(a, b, center mgl64.Vec2, reach float64) (mgl64.Vec2, mgl64.Vec2, bool) {
	lo := center.Sub(mgl64.Vec2{reach, reach})
	hi := center.Add(mgl64.Vec2{reach, reach})
	t0, t1 := 0.0, 1.0
	d := b.Sub(a)
	for axis := 0; axis < 2; axis++ {
		if d[axis] == 0 {
			if a[axis] < lo[axis] || a[axis] > hi[axis] {
				return a, b, false
			}
			continue
		}
		ta := (lo[axis] - a[axis]) / d[axis]
		tb := (hi[axis] - a[axis]) / d[axis]
		if ta > tb {
			ta, tb = tb, ta
		}
		t0 = math.Max(t0, ta)
		t1 = math.Min(t1, tb)
		if t0 > t1 {
			return a, b, false
		}
	}
	return a.Add(d.Mul(t0)), a.Add(d.Mul(t1)), true
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
