package integrators

import "github.com/go-gl/mathgl/mgl64"

// Euler is the explicit forward Euler method: position uses the old velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	return pos.Add(vel.Mul(dt)), vel.Add(acc.Mul(dt))
}

// SemiImplicitEuler updates velocity first and moves with the new velocity,
// which is what most game physics engines do.
type SemiImplicitEuler struct{}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	vel = vel.Add(acc.Mul(dt))
	return pos.Add(vel.Mul(dt)), vel
}
