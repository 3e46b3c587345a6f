package viz

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/stride/internal/locomotion"
	"github.com/san-kum/stride/internal/sim"
	"github.com/san-kum/stride/internal/world"
)

func TestCanvasProjectCenter(t *testing.T) {
	c := NewCanvas(10, 5, 4)
	c.LookAt(mgl64.Vec2{3, 2})

	x, y := c.Project(mgl64.Vec2{3, 2})
	if x != 10 || y != 10 {
		t.Errorf("center projected to (%d, %d), want (10, 10)", x, y)
	}
	x, y = c.Project(mgl64.Vec2{4, 3})
	if x != 14 || y != 6 {
		t.Errorf("offset projected to (%d, %d), want (14, 6) with +y up", x, y)
	}
}

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(2, 1, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)

	if c.Grid[0][0] != blank|0x1 {
		t.Errorf("cell 0 = %x", c.Grid[0][0])
	}
	if c.Grid[0][1] != blank|0x80 {
		t.Errorf("cell 1 = %x", c.Grid[0][1])
	}

	c.Clear()
	if strings.Trim(c.String(), string(rune(blank))+"\n") != "" {
		t.Error("canvas not cleared")
	}
}

func TestCanvasDrawSegmentClips(t *testing.T) {
	c := NewCanvas(20, 5, 2)
	c.DrawSegment(mgl64.Vec2{-1000, 0}, mgl64.Vec2{1000, 0})

	_, y := c.Project(mgl64.Vec2{0, 0})
	row := c.Grid[y/4]
	for i, r := range row {
		if r == blank {
			t.Errorf("horizon gap at column %d", i)
		}
	}

	c.Clear()
	c.DrawSegment(mgl64.Vec2{-1000, 500}, mgl64.Vec2{1000, 500})
	if strings.Trim(c.String(), string(rune(blank))+"\n") != "" {
		t.Error("off-screen segment drawn")
	}
}

func TestCanvasDrawCircle(t *testing.T) {
	c := NewCanvas(10, 5, 8)
	c.DrawCircle(mgl64.Vec2{}, 0.5)

	x, y := c.Project(mgl64.Vec2{0.5, 0})
	if c.Grid[y/4][x/2]&rune(pixelMap[y%4][x%2]) == 0 {
		t.Error("rightmost point of circle not set")
	}
	cx, cy := c.Project(mgl64.Vec2{})
	if c.Grid[cy/4][cx/2]&rune(pixelMap[cy%4][cx%2]) != 0 {
		t.Error("circle center should be empty")
	}
}

func samples(n int) []sim.Sample {
	out := make([]sim.Sample, n)
	for i := range out {
		out[i] = sim.Sample{
			Step:     i + 1,
			Time:     float64(i+1) * 0.02,
			Position: mgl64.Vec3{float64(i), 0.5, 0},
			Velocity: mgl64.Vec3{float64(i), 0, 0},
			Blend:    float64(i) / float64(n),
			Grounded: i%2 == 0,
		}
	}
	return out
}

func TestExtract(t *testing.T) {
	data, err := Extract(samples(4), "grounded")
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{1, 0, 1, 0}
	for i := range want {
		if data[i] != want[i] {
			t.Errorf("grounded[%d] = %v, want %v", i, data[i], want[i])
		}
	}
	if _, err := Extract(samples(1), "torque"); err == nil {
		t.Error("expected error for unknown series")
	}
	if len(SeriesNames()) == 0 {
		t.Error("no series registered")
	}
}

func TestPlot(t *testing.T) {
	out, err := Plot(samples(50), "speed", 40, 8)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "speed over 1.00s") {
		t.Errorf("caption missing from plot:\n%s", out)
	}
	if _, err := Plot(nil, "speed", 40, 8); err == nil {
		t.Error("expected error for empty trace")
	}
}

func TestSummary(t *testing.T) {
	out := Summary("flat/walk", map[string]float64{"jumps": 2, "air_time": 0.25})
	if !strings.Contains(out, "flat/walk") || !strings.Contains(out, "2.0000") {
		t.Errorf("summary missing content:\n%s", out)
	}
	if strings.Index(out, "air_time") > strings.Index(out, "jumps") {
		t.Error("metrics not sorted")
	}
}

type fakeStepper struct {
	inputs []locomotion.Input
	fail   error
}

func (f *fakeStepper) Tick(in locomotion.Input, dt float64) (sim.Sample, error) {
	if f.fail != nil {
		return sim.Sample{}, f.fail
	}
	f.inputs = append(f.inputs, in)
	n := len(f.inputs)
	return sim.Sample{
		Step:     n,
		Time:     float64(n) * dt,
		Position: mgl64.Vec3{float64(n) * 0.1, 0.5, 0},
		Velocity: mgl64.Vec3{5, 0, 0},
		Grounded: true,
	}, nil
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelKeysDriveInput(t *testing.T) {
	f := &fakeStepper{}
	m := NewModel(f, world.Flat(), 0.5, 0.02, "flat")

	m = update(m, key("d"))
	m = update(m, key(" "))
	m = update(m, TickMsg{})
	m = update(m, TickMsg{})

	if len(f.inputs) != 2 {
		t.Fatalf("expected 2 ticks, got %d", len(f.inputs))
	}
	if f.inputs[0].Move != (mgl64.Vec2{1, 0}) || !f.inputs[0].Jump {
		t.Errorf("first input = %+v", f.inputs[0])
	}
	if f.inputs[1].Jump {
		t.Error("jump must last a single tick")
	}

	for i := 0; i < holdTicks; i++ {
		m = update(m, TickMsg{})
	}
	if last := f.inputs[len(f.inputs)-1]; last.Move != (mgl64.Vec2{}) {
		t.Errorf("move should release after %d ticks, got %v", holdTicks, last.Move)
	}
}

func TestModelPauseAndError(t *testing.T) {
	f := &fakeStepper{}
	m := NewModel(f, world.Flat(), 0.5, 0.02, "flat")

	m = update(m, key("p"))
	m = update(m, TickMsg{})
	if len(f.inputs) != 0 {
		t.Error("paused model stepped")
	}
	m = update(m, key("p"))

	f.fail = errors.New("diverged")
	m = update(m, TickMsg{})
	if m.running || m.err == nil {
		t.Error("error should stop the model")
	}
	if !strings.Contains(m.View(), "diverged") {
		t.Error("error not shown")
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestModelView(t *testing.T) {
	f := &fakeStepper{}
	m := NewModel(f, world.Bump(), 0.5, 0.02, "bump")
	for i := 0; i < 5; i++ {
		m = update(m, TickMsg{})
	}
	view := m.View()
	for _, want := range []string{"BUMP", "GROUNDED", "RUNNING", "speed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
	if len(m.trail) != 5 || len(m.speeds) != 5 {
		t.Errorf("history not recorded: trail %d speeds %d", len(m.trail), len(m.speeds))
	}
}
