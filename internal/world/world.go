package world

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/san-kum/stride/internal/integrators"
	"github.com/san-kum/stride/internal/locomotion"
)

// ContactListener receives every contact normal the world resolves, once per
// contact per substep.
type ContactListener interface {
	ReportContact(normal mgl64.Vec3)
}

type Options struct {
	Gravity  mgl64.Vec3
	Radius   float64
	Substeps int
	// GroundDot is the minimum normal up-component the world itself treats
	// as ground for its Grounded flag.
	GroundDot float64
	// Skin keeps resting contacts reported while the body hovers within
	// this distance of a surface.
	Skin float64
}

func DefaultOptions() Options {
	return Options{
		Gravity:   mgl64.Vec3{0, locomotion.DefaultGravity, 0},
		Radius:    0.5,
		Substeps:  4,
		GroundDot: 0.7,
		Skin:      1e-3,
	}
}

// World simulates a single sphere against a terrain. It plays the role of
// the physics engine around a locomotion controller.
type World struct {
	terrain    Terrain
	integrator integrators.Integrator
	opts       Options

	pos, vel  mgl64.Vec3
	grounded  bool
	contacts  int
	listeners []ContactListener

	log zerolog.Logger
}

func New(terrain Terrain, integ integrators.Integrator, opts Options, log zerolog.Logger) *World {
	if opts.Substeps < 1 {
		opts.Substeps = 1
	}
	return &World{
		terrain:    terrain,
		integrator: integ,
		opts:       opts,
		log:        log,
	}
}

func (w *World) AddListener(l ContactListener) { w.listeners = append(w.listeners, l) }

// Spawn places the body at pos at rest.
func (w *World) Spawn(pos mgl64.Vec3) {
	w.pos = pos
	w.vel = mgl64.Vec3{}
	w.grounded = false
	w.contacts = 0
}

func (w *World) Terrain() Terrain           { return w.terrain }
func (w *World) Radius() float64            { return w.opts.Radius }
func (w *World) Gravity() mgl64.Vec3        { return w.opts.Gravity }
func (w *World) Position() mgl64.Vec3       { return w.pos }
func (w *World) Velocity() mgl64.Vec3       { return w.vel }
func (w *World) SetVelocity(v mgl64.Vec3)   { w.vel = v }
func (w *World) Grounded() bool             { return w.grounded }
func (w *World) Contacts() int              { return w.contacts }
func (w *World) SetPosition(pos mgl64.Vec3) { w.pos = pos }

// Step advances the world by dt in equal substeps, resolving penetration and
// broadcasting contacts after each one.
func (w *World) Step(dt float64) {
	h := dt / float64(w.opts.Substeps)
	w.grounded = false
	w.contacts = 0
	for i := 0; i < w.opts.Substeps; i++ {
		w.pos, w.vel = w.integrator.Step(w.pos, w.vel, w.opts.Gravity, h)
		w.resolve()
	}
}

func (w *World) resolve() {
	center := mgl64.Vec2{w.pos.X(), w.pos.Y()}
	for _, s := range w.terrain.Segments {
		closest := s.Closest(center)
		d := center.Sub(closest)
		dist := d.Len()
		if dist > w.opts.Radius+w.opts.Skin {
			continue
		}

		var n2 mgl64.Vec2
		if dist < 1e-9 {
			n2 = s.Normal()
		} else {
			n2 = d.Mul(1 / dist)
		}
		n := mgl64.Vec3{n2.X(), n2.Y(), 0}

		if pen := w.opts.Radius - dist; pen > 0 {
			w.pos = w.pos.Add(n.Mul(pen))
			center = mgl64.Vec2{w.pos.X(), w.pos.Y()}
		}
		if vn := w.vel.Dot(n); vn < 0 {
			w.vel = w.vel.Sub(n.Mul(vn))
		}

		w.contacts++
		if n.Y() >= w.opts.GroundDot {
			w.grounded = true
		}
		for _, l := range w.listeners {
			l.ReportContact(n)
		}
	}
}

// Raycast finds the nearest surface hit by a ray. Surfaces on layers outside
// mask are skipped; a non-positive maxDistance never hits.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDistance float64, mask uint32) (locomotion.Hit, bool) {
	if maxDistance <= 0 || dir.Len() == 0 {
		return locomotion.Hit{}, false
	}
	dir = dir.Normalize()
	o := mgl64.Vec2{origin.X(), origin.Y()}
	d := mgl64.Vec2{dir.X(), dir.Y()}

	var (
		best  locomotion.Hit
		found bool
	)
	for _, s := range w.terrain.Segments {
		if s.Layer&mask == 0 {
			continue
		}
		e := s.B.Sub(s.A)
		denom := cross(d, e)
		if math.Abs(denom) < 1e-12 {
			continue
		}
		ao := s.A.Sub(o)
		t := cross(ao, e) / denom
		u := cross(ao, d) / denom
		if t < 0 || t > maxDistance || u < 0 || u > 1 {
			continue
		}
		if found && t >= best.Distance {
			continue
		}
		n2 := s.Normal()
		if n2.Dot(d) > 0 {
			n2 = n2.Mul(-1)
		}
		best = locomotion.Hit{
			Point:    origin.Add(dir.Mul(t)),
			Normal:   mgl64.Vec3{n2.X(), n2.Y(), 0},
			Distance: t,
		}
		found = true
	}
	if found {
		w.log.Trace().Float64("distance", best.Distance).Msg("ray hit")
	}
	return best, found
}

func cross(a, b mgl64.Vec2) float64 {
	return a.X()*b.Y() - a.Y()*b.X()
}
