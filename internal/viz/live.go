package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/stride/internal/locomotion"
	"github.com/san-kum/stride/internal/sim"
	"github.com/san-kum/stride/internal/world"
)

const (
	canvasWidth     = 60
	canvasHeight    = 16
	dotsPerUnit     = 8.0
	trailCapacity   = 120
	historyCapacity = 300
	// holdTicks keeps a move key active between terminal key repeats.
	holdTicks = 12
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(60)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// Stepper advances the simulation by one step with the given input.
type Stepper interface {
	Tick(in locomotion.Input, dt float64) (sim.Sample, error)
}

type TickMsg time.Time

// Model is a live side view of one body on a terrain.
type Model struct {
	stepper Stepper
	terrain world.Terrain
	radius  float64
	dt      float64
	name    string

	canvas  *Canvas
	move    mgl64.Vec2
	moveTTL int
	jump    bool
	running bool

	last   sim.Sample
	trail  []mgl64.Vec2
	speeds []float64
	err    error
}

func NewModel(stepper Stepper, terrain world.Terrain, radius, dt float64, name string) Model {
	return Model{
		stepper: stepper,
		terrain: terrain,
		radius:  radius,
		dt:      dt,
		name:    name,
		canvas:  NewCanvas(canvasWidth, canvasHeight, dotsPerUnit),
		running: true,
		trail:   make([]mgl64.Vec2, 0, trailCapacity),
		speeds:  make([]float64, 0, historyCapacity),
	}
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Duration(m.dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles keys and steps the simulation once per tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "a", "left":
			m.press(-1, 0)
		case "d", "right":
			m.press(1, 0)
		case "w", "up":
			m.press(0, 1)
		case "s", "down":
			m.press(0, -1)
		case " ":
			m.jump = true
		case "p":
			m.running = !m.running
		}
	case TickMsg:
		if m.running && m.err == nil {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) press(x, z float64) {
	m.move = mgl64.Vec2{x, z}
	m.moveTTL = holdTicks
}

func (m *Model) step() {
	in := locomotion.Input{Move: m.move, Jump: m.jump}
	m.jump = false
	if m.moveTTL > 0 {
		m.moveTTL--
		if m.moveTTL == 0 {
			m.move = mgl64.Vec2{}
		}
	}

	sample, err := m.stepper.Tick(in, m.dt)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.last = sample

	m.trail = append(m.trail, mgl64.Vec2{sample.Position.X(), sample.Position.Y()})
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
	m.speeds = append(m.speeds, sample.HorizontalSpeed())
	if len(m.speeds) > historyCapacity {
		m.speeds = m.speeds[1:]
	}
}

func (m Model) draw() {
	pos := mgl64.Vec2{m.last.Position.X(), m.last.Position.Y()}
	m.canvas.Clear()
	m.canvas.LookAt(pos)
	for _, s := range m.terrain.Segments {
		m.canvas.DrawSegment(s.A, s.B)
	}
	for _, p := range m.trail {
		m.canvas.Set(m.canvas.Project(p))
	}
	m.canvas.DrawCircle(pos, m.radius)
}

// View renders the side view and the stats panel.
func (m Model) View() string {
	m.draw()
	canvasView := canvasStyle.Render(m.canvas.String())

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = StatusError.Render("ERROR: " + m.err.Error())
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}

	s := m.last
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(strings.ToUpper(m.name)) + "\n")
	b.WriteString(status + "\n\n")
	b.WriteString(Row("time", fmt.Sprintf("%.2fs", s.Time)) + "\n")
	b.WriteString(Row("position", fmt.Sprintf("%.2f, %.2f, %.2f", s.Position.X(), s.Position.Y(), s.Position.Z())) + "\n")
	b.WriteString(Row("speed", fmt.Sprintf("%.2f", s.HorizontalSpeed())) + "\n")
	b.WriteString(Row("vertical", fmt.Sprintf("%+.2f", s.Velocity.Y())) + "\n")
	b.WriteString(Row("yaw", fmt.Sprintf("%.0f°", s.Yaw)) + "\n")
	b.WriteString(Row("jump phase", fmt.Sprintf("%d", s.JumpPhase)) + "\n")
	b.WriteString(MetricLabel.Render("blend") + ProgressBar(s.Blend, 20) + "\n\n")
	b.WriteString(strings.Join([]string{
		Flag("GROUNDED", s.Grounded),
		Flag("STEEP", s.Steep),
		Flag("SNAP", s.Snapped),
		Flag("JUMP", s.Jumped),
	}, "  ") + "\n")

	if len(m.speeds) > 1 {
		graph := asciigraph.Plot(m.speeds, asciigraph.Height(6), asciigraph.Width(40), asciigraph.Caption("speed"))
		b.WriteString(graphStyle.Render(graph) + "\n")
	}
	b.WriteString(KeyHint.Render("a/d move · w/s depth · space jump · p pause · q quit"))

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(b.String()))
}
