package integrators

import "github.com/go-gl/mathgl/mgl64"

// Verlet is velocity Verlet. With constant acceleration it is exact for
// ballistic motion.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	newPos := pos.Add(vel.Mul(dt)).Add(acc.Mul(0.5 * dt * dt))
	return newPos, vel.Add(acc.Mul(dt))
}
