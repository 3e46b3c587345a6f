package locomotion

import "github.com/go-gl/mathgl/mgl64"

// Body is the physics world's view of the controlled body. The world is the
// source of truth for velocity between steps.
type Body interface {
	Position() mgl64.Vec3
	Velocity() mgl64.Vec3
	SetVelocity(v mgl64.Vec3)
}

// GroundReporter is implemented by bodies whose physics world tracks its own
// grounded flag. It is consulted only with GroundingBody.
type GroundReporter interface {
	Grounded() bool
}

// Hit is the result of a successful ray cast.
type Hit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
}

// RayCaster casts a ray against every surface whose layer matches mask.
type RayCaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDistance float64, mask uint32) (Hit, bool)
}

// OrientationReference converts input space into world space, usually a camera.
type OrientationReference interface {
	Forward() mgl64.Vec3
	Right() mgl64.Vec3
}

// AnimationSink receives the normalized horizontal speed once per step.
type AnimationSink interface {
	SetBlend(blend float64)
}

// OrientationSink receives the smoothed yaw in degrees once per step.
type OrientationSink interface {
	SetYaw(yaw float64)
}
