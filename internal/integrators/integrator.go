package integrators

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Integrator advances a point mass under constant acceleration for one step.
type Integrator interface {
	Step(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3)
}

var registry = map[string]func() Integrator{
	"euler":         func() Integrator { return NewEuler() },
	"semi_implicit": func() Integrator { return NewSemiImplicitEuler() },
	"verlet":        func() Integrator { return NewVerlet() },
}

// ByName returns a fresh integrator registered under name.
func ByName(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
