package input

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orientation is a fixed camera heading used as the input reference frame.
// Yaw is in degrees, clockwise from +Z when seen from above.
type Orientation struct {
	Yaw float64
}

func (o Orientation) Forward() mgl64.Vec3 {
	r := mgl64.DegToRad(o.Yaw)
	return mgl64.Vec3{math.Sin(r), 0, math.Cos(r)}
}

func (o Orientation) Right() mgl64.Vec3 {
	r := mgl64.DegToRad(o.Yaw)
	return mgl64.Vec3{math.Cos(r), 0, -math.Sin(r)}
}
