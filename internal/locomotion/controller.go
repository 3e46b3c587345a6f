package locomotion

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// Controller turns per-step input and reported contacts into a body
// velocity.
type Controller struct {
	body     Body
	caster   RayCaster
	settings Settings
	state    State
	report   StepReport

	desiredJump bool

	orientation OrientationReference
	animation   AnimationSink
	yawSink     OrientationSink
	yaw         float64
	yawVelocity float64

	log zerolog.Logger
}

// Option configures optional collaborators of a Controller.
type Option func(*Controller)

// WithOrientation converts input through ref instead of using world axes.
func WithOrientation(ref OrientationReference) Option {
	return func(c *Controller) { c.orientation = ref }
}

// WithAnimationSink receives the blend after every step.
func WithAnimationSink(sink AnimationSink) Option {
	return func(c *Controller) { c.animation = sink }
}

// WithOrientationSink receives the smoothed yaw whenever it turns.
func WithOrientationSink(sink OrientationSink) Option {
	return func(c *Controller) { c.yawSink = sink }
}

// WithLogger logs jumps, snaps and steep promotions.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// New creates a controller for body. caster may be nil, in which case
// snapping never succeeds.
func New(body Body, caster RayCaster, settings Settings, opts ...Option) *Controller {
	c := &Controller{
		body:     body,
		caster:   caster,
		settings: settings,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state.MinGroundDotProduct = DeriveState(settings).MinGroundDotProduct
	return c
}

func (c *Controller) Settings() Settings { return c.settings }

// SetSettings replaces the configuration and re-derives its constants.
func (c *Controller) SetSettings(s Settings) {
	c.settings = s
	c.state.MinGroundDotProduct = DeriveState(s).MinGroundDotProduct
}

// Snapshot returns a copy of the controller state.
func (c *Controller) Snapshot() State { return c.state }

// LastStep reports what the most recent Step did.
func (c *Controller) LastStep() StepReport { return c.report }

// Yaw is the smoothed heading in degrees.
func (c *Controller) Yaw() float64 { return c.yaw }

// OnGround reports the groundedness decided by the last UpdateState.
func (c *Controller) OnGround() bool { return c.state.Grounded }

// OnSteep reports whether steep contacts are pending for the next step.
func (c *Controller) OnSteep() bool { return c.state.SteepContactCount > 0 }

// ReportContact classifies a contact normal and accumulates it for the next
// step. It may be called any number of times between steps.
func (c *Controller) ReportContact(normal mgl64.Vec3) {
	switch Classify(normal, c.state.MinGroundDotProduct) {
	case ContactGround:
		c.state.GroundContactCount++
		c.state.ContactNormal = c.state.ContactNormal.Add(normal)
	case ContactSteep:
		c.state.SteepContactCount++
		c.state.SteepNormal = c.state.SteepNormal.Add(normal)
	}
}

// EvaluateCollision reports every normal of one collision.
func (c *Controller) EvaluateCollision(normals ...mgl64.Vec3) {
	for _, n := range normals {
		c.ReportContact(n)
	}
}

// Step runs one fixed tick and writes the resulting velocity back to the body.
// It returns that velocity and the animation blend.
func (c *Controller) Step(in Input, dt float64) (mgl64.Vec3, float64) {
	move := clampMagnitude(in.Move, 1)
	desired := c.desiredVelocity(move)
	c.desiredJump = c.desiredJump || in.Jump

	c.report = StepReport{}
	c.UpdateState()
	c.report.Grounded = c.state.Grounded
	c.report.Steep = c.OnSteep()

	c.AdjustVelocity(desired, dt)
	if c.desiredJump {
		c.desiredJump = false
		c.report.Jumped = c.Jump()
	}
	c.body.SetVelocity(c.state.Velocity)

	blend := c.blend()
	if c.animation != nil {
		c.animation.SetBlend(blend)
	}
	c.turn(move, dt)

	c.ClearState()
	return c.state.Velocity, blend
}

// UpdateState advances the step counters, reseeds velocity from the body and
// decides groundedness for this step.
func (c *Controller) UpdateState() {
	s := &c.state
	s.StepsSinceLastGrounded++
	s.StepsSinceLastJump++
	s.Velocity = c.body.Velocity()

	if c.groundFlag() || c.SnapToGround() || c.CheckSteepContacts() {
		s.Grounded = true
		s.StepsSinceLastGrounded = 0
		if s.StepsSinceLastJump > 1 {
			s.JumpPhase = 0
		}
		switch {
		case s.GroundContactCount > 1:
			s.ContactNormal = normalize(s.ContactNormal)
		case s.GroundContactCount == 0:
			s.ContactNormal = up
		}
		return
	}
	s.Grounded = false
	s.ContactNormal = up
}

func (c *Controller) groundFlag() bool {
	if c.settings.Grounding == GroundingBody {
		if g, ok := c.body.(GroundReporter); ok {
			return g.Grounded()
		}
	}
	return c.state.GroundContactCount > 0
}

// SnapToGround re-establishes ground contact with a downward probe when it was
// lost for a single step. It acts on a ray hit; a miss never snaps.
func (c *Controller) SnapToGround() bool {
	s := &c.state
	if s.StepsSinceLastGrounded > 1 || s.StepsSinceLastJump <= 2 {
		return false
	}
	speed := s.Velocity.Len()
	if speed > c.settings.MaxSnapSpeed {
		return false
	}
	if c.caster == nil || c.settings.ProbeDistance <= 0 {
		return false
	}
	hit, ok := c.caster.Raycast(c.body.Position(), down, c.settings.ProbeDistance, c.settings.ProbeMask)
	if !ok {
		return false
	}
	if hit.Normal.Y() < s.MinGroundDotProduct {
		return false
	}

	s.GroundContactCount = 1
	s.ContactNormal = hit.Normal
	if dot := s.Velocity.Dot(hit.Normal); dot > 0 {
		s.Velocity = normalize(s.Velocity.Sub(hit.Normal.Mul(dot))).Mul(speed)
	}
	c.report.Snapped = true
	c.log.Trace().Float64("distance", hit.Distance).Float64("speed", speed).Msg("snapped to ground")
	return true
}

// CheckSteepContacts promotes a crevasse of steep contacts whose combined
// normal is walkable to a single ground contact.
func (c *Controller) CheckSteepContacts() bool {
	s := &c.state
	if s.SteepContactCount <= 1 {
		return false
	}
	s.SteepNormal = normalize(s.SteepNormal)
	if s.SteepNormal.Y() < s.MinGroundDotProduct {
		return false
	}
	s.GroundContactCount = 1
	s.ContactNormal = s.SteepNormal
	c.report.Promoted = true
	c.log.Trace().Int("steep", s.SteepContactCount).Msg("steep contacts promoted to ground")
	return true
}

// AdjustVelocity moves the in-plane velocity toward desired, bounded by the
// ground or air acceleration over dt.
func (c *Controller) AdjustVelocity(desired mgl64.Vec3, dt float64) {
	s := &c.state
	xAxis := normalize(projectOnPlane(right, s.ContactNormal))
	zAxis := normalize(projectOnPlane(forward, s.ContactNormal))

	currentX := s.Velocity.Dot(xAxis)
	currentZ := s.Velocity.Dot(zAxis)

	acceleration := c.settings.MaxAirAcceleration
	if s.Grounded {
		acceleration = c.settings.MaxAcceleration
	}
	maxSpeedChange := acceleration * dt

	var newX, newZ float64
	switch c.settings.VelocityClamp {
	case ClampJoint:
		delta := clampMagnitude(mgl64.Vec2{desired.X() - currentX, desired.Z() - currentZ}, maxSpeedChange)
		newX = currentX + delta.X()
		newZ = currentZ + delta.Y()
	default:
		newX = moveTowards(currentX, desired.X(), maxSpeedChange)
		newZ = moveTowards(currentZ, desired.Z(), maxSpeedChange)
	}

	s.Velocity = s.Velocity.
		Add(xAxis.Mul(newX - currentX)).
		Add(zAxis.Mul(newZ - currentZ))
}

// Jump applies a jump impulse if one is allowed and reports whether it did.
func (c *Controller) Jump() bool {
	s := &c.state
	var dir mgl64.Vec3
	switch {
	case s.Grounded:
		dir = s.ContactNormal
	case c.OnSteep():
		dir = normalize(s.SteepNormal)
		s.JumpPhase = 0
	case c.settings.MaxAirJumps > 0 && s.JumpPhase <= c.settings.MaxAirJumps:
		if s.JumpPhase == 0 {
			s.JumpPhase = 1
		}
		dir = s.ContactNormal
	default:
		return false
	}

	s.StepsSinceLastJump = 0
	s.JumpPhase++

	jumpSpeed := c.settings.JumpSpeed()
	dir = normalize(dir.Add(up))
	if aligned := s.Velocity.Dot(dir); aligned > 0 {
		jumpSpeed = math.Max(jumpSpeed-aligned, 0)
	}
	s.Velocity = s.Velocity.Add(dir.Mul(jumpSpeed))

	c.log.Debug().Int("phase", s.JumpPhase).Float64("speed", jumpSpeed).Msg("jump")
	return true
}

// ClearState zeroes the per-step contact accumulators.
func (c *Controller) ClearState() {
	s := &c.state
	s.GroundContactCount = 0
	s.SteepContactCount = 0
	s.ContactNormal = mgl64.Vec3{}
	s.SteepNormal = mgl64.Vec3{}
}

func (c *Controller) desiredVelocity(move mgl64.Vec2) mgl64.Vec3 {
	return c.worldDirection(move).Mul(c.settings.MaxSpeed)
}

// worldDirection maps input space onto the horizontal plane. Without an
// orientation reference the input axes are the world X and Z axes.
func (c *Controller) worldDirection(move mgl64.Vec2) mgl64.Vec3 {
	if c.orientation == nil {
		return mgl64.Vec3{move.X(), 0, move.Y()}
	}
	fwd := c.orientation.Forward()
	fwd[1] = 0
	rgt := c.orientation.Right()
	rgt[1] = 0
	return normalize(fwd).Mul(move.Y()).Add(normalize(rgt).Mul(move.X()))
}

func (c *Controller) blend() float64 {
	if c.settings.MaxSpeed <= 0 {
		return 0
	}
	v := c.state.Velocity
	horizontal := math.Hypot(v.X(), v.Z())
	return mgl64.Clamp(horizontal/c.settings.MaxSpeed, 0, 1)
}

func (c *Controller) turn(move mgl64.Vec2, dt float64) {
	if move.LenSqr() < 1e-6 {
		return
	}
	dir := c.worldDirection(move)
	target := mgl64.RadToDeg(math.Atan2(dir.X(), dir.Z()))
	c.yaw, c.yawVelocity = SmoothDampAngle(c.yaw, target, c.yawVelocity, c.settings.TurnSmoothTime, dt)
	if c.yawSink != nil {
		c.yawSink.SetYaw(c.yaw)
	}
}
