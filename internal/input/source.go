// Package input produces per-tick locomotion input.
//
// A [Source] is sampled once per fixed step. Jump presses are edge-triggered:
// a source reports a press on exactly one step, however long the button is
// held ([Latch]).
package input

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/stride/internal/locomotion"
)

type Source interface {
	Sample(step int, t float64) locomotion.Input
}

// Latch turns a held button into a single press on its rising edge.
type Latch struct {
	held bool
}

func (l *Latch) Press(held bool) bool {
	pressed := held && !l.held
	l.held = held
	return pressed
}

func (l *Latch) Reset() { l.held = false }

// Fixed holds one move vector and presses jump on the listed steps.
type Fixed struct {
	Move   mgl64.Vec2
	JumpAt map[int]bool
}

func (f *Fixed) Sample(step int, t float64) locomotion.Input {
	return locomotion.Input{Move: f.Move, Jump: f.JumpAt[step]}
}

// None is a source that never moves.
type None struct{}

func (None) Sample(int, float64) locomotion.Input { return locomotion.Input{} }
