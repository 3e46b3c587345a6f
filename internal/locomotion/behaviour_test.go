package locomotion_test

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/stride/internal/locomotion"
)

type body struct {
	pos, vel mgl64.Vec3
}

func (b *body) Position() mgl64.Vec3     { return b.pos }
func (b *body) Velocity() mgl64.Vec3     { return b.vel }
func (b *body) SetVelocity(v mgl64.Vec3) { b.vel = v }

type floor struct {
	hits int
}

func (f *floor) Raycast(origin, dir mgl64.Vec3, maxDistance float64, mask uint32) (locomotion.Hit, bool) {
	f.hits++
	return locomotion.Hit{Normal: mgl64.Vec3{0, 1, 0}, Distance: 0.5}, true
}

// groundNormal returns a random unit normal at most maxAngle degrees from up.
func groundNormal(r *rand.Rand, maxAngle float64) mgl64.Vec3 {
	tilt := mgl64.DegToRad(r.Float64() * maxAngle)
	heading := r.Float64() * 2 * math.Pi
	return mgl64.Vec3{
		math.Sin(tilt) * math.Cos(heading),
		math.Cos(tilt),
		math.Sin(tilt) * math.Sin(heading),
	}
}

var _ = Describe("Controller", func() {
	var (
		b        *body
		probe    *floor
		settings locomotion.Settings
		ctrl     *locomotion.Controller
		rng      *rand.Rand
	)

	BeforeEach(func() {
		b = &body{}
		probe = &floor{}
		settings = locomotion.DefaultSettings()
		rng = rand.New(rand.NewSource(7))
	})

	JustBeforeEach(func() {
		ctrl = locomotion.New(b, probe, settings)
	})

	Describe("contact classification", func() {
		It("counts every walkable normal as ground", func() {
			minDot := ctrl.Snapshot().MinGroundDotProduct
			for trial := 0; trial < 50; trial++ {
				ctrl.ClearState()
				n := 1 + rng.Intn(8)
				for i := 0; i < n; i++ {
					normal := groundNormal(rng, settings.MaxGroundAngle-0.5)
					Expect(normal.Y()).To(BeNumerically(">=", minDot))
					ctrl.ReportContact(normal)
				}
				s := ctrl.Snapshot()
				Expect(s.GroundContactCount).To(Equal(n))
				Expect(s.SteepContactCount).To(BeZero())
			}
		})

		It("normalizes several ground contacts to a unit vector", func() {
			for trial := 0; trial < 50; trial++ {
				ctrl.ClearState()
				n := 2 + rng.Intn(6)
				for i := 0; i < n; i++ {
					ctrl.ReportContact(groundNormal(rng, settings.MaxGroundAngle-0.5))
				}
				ctrl.UpdateState()
				Expect(ctrl.Snapshot().ContactNormal.Len()).To(BeNumerically("~", 1, 1e-9))
			}
		})

		It("averages a symmetric cluster back to up", func() {
			ctrl.EvaluateCollision(
				mgl64.Vec3{0, 1, 0},
				mgl64.Vec3{0.1, 0.99, 0},
				mgl64.Vec3{-0.1, 0.99, 0},
			)
			ctrl.UpdateState()
			n := ctrl.Snapshot().ContactNormal
			Expect(n.X()).To(BeNumerically("~", 0, 1e-9))
			Expect(n.Y()).To(BeNumerically("~", 1, 1e-9))
			Expect(n.Z()).To(BeNumerically("~", 0, 1e-9))
		})
	})

	Describe("snapping", func() {
		It("never probes once airborne for more than one step", func() {
			for i := 0; i < 5; i++ {
				ctrl.ReportContact(mgl64.Vec3{0, 1, 0})
				ctrl.Step(locomotion.Input{}, 0.02)
			}
			ctrl.Step(locomotion.Input{}, 0.02)
			Expect(ctrl.LastStep().Snapped).To(BeTrue())

			// the probe keeps the body grounded as long as it hits, so jump
			// into the air and fall past the snap window instead
			ctrl.ReportContact(mgl64.Vec3{0, 1, 0})
			ctrl.Step(locomotion.Input{Jump: true}, 0.02)
			Expect(ctrl.LastStep().Jumped).To(BeTrue())

			for i := 0; i < 10; i++ {
				ctrl.Step(locomotion.Input{}, 0.02)
				s := ctrl.Snapshot()
				if s.StepsSinceLastGrounded > 1 {
					Expect(ctrl.LastStep().Snapped).To(BeFalse())
				}
			}
			Expect(ctrl.Snapshot().StepsSinceLastGrounded).To(BeNumerically(">", 1))
		})

		It("does not snap within two steps of a jump", func() {
			ctrl.ReportContact(mgl64.Vec3{0, 1, 0})
			ctrl.Step(locomotion.Input{Jump: true}, 0.02)
			hits := probe.hits
			ctrl.Step(locomotion.Input{}, 0.02)
			Expect(ctrl.LastStep().Snapped).To(BeFalse())
			Expect(probe.hits).To(Equal(hits))
		})
	})

	Describe("jumping", func() {
		It("launches straight up at the ballistic speed from flat ground", func() {
			ctrl.ReportContact(mgl64.Vec3{0, 1, 0})
			vel, _ := ctrl.Step(locomotion.Input{Jump: true}, 0.02)
			Expect(vel.Y()).To(Equal(math.Sqrt(-2 * settings.Gravity.Y() * settings.JumpHeight)))
		})

		Context("without air jumps", func() {
			BeforeEach(func() {
				settings.MaxAirJumps = 0
				b.vel = mgl64.Vec3{2, -1, 0}
			})

			It("drops the request in mid air", func() {
				ctrl.UpdateState()
				before := ctrl.Snapshot().Velocity
				Expect(ctrl.Jump()).To(BeFalse())
				Expect(ctrl.Snapshot().Velocity).To(Equal(before))
			})
		})

		Context("with one air jump", func() {
			BeforeEach(func() {
				settings.MaxAirJumps = 1
			})

			It("allows exactly one more jump after leaving the ground", func() {
				ctrl.ReportContact(mgl64.Vec3{0, 1, 0})
				ctrl.Step(locomotion.Input{Jump: true}, 0.02)
				Expect(ctrl.LastStep().Jumped).To(BeTrue())

				ctrl.Step(locomotion.Input{Jump: true}, 0.02)
				Expect(ctrl.LastStep().Jumped).To(BeTrue())

				ctrl.Step(locomotion.Input{Jump: true}, 0.02)
				Expect(ctrl.LastStep().Jumped).To(BeFalse())
			})
		})
	})

	Describe("clearing", func() {
		It("always leaves zero contact counts after a step", func() {
			for trial := 0; trial < 20; trial++ {
				n := rng.Intn(10)
				for i := 0; i < n; i++ {
					ctrl.ReportContact(groundNormal(rng, 89))
				}
				ctrl.Step(locomotion.Input{Move: mgl64.Vec2{rng.Float64()*2 - 1, rng.Float64()*2 - 1}}, 0.02)
				s := ctrl.Snapshot()
				Expect(s.GroundContactCount).To(BeZero())
				Expect(s.SteepContactCount).To(BeZero())
			}
		})
	})
})
