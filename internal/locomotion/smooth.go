package locomotion

import "math"

// SmoothDamp moves current toward target with a critically damped spring.
// smoothTime is roughly the time to reach the target; velocity carries the
// spring state between calls and is returned updated.
func SmoothDamp(current, target, velocity, smoothTime, dt float64) (float64, float64) {
	if dt <= 0 {
		return current, velocity
	}
	smoothTime = math.Max(1e-4, smoothTime)
	omega := 2 / smoothTime
	x := omega * dt
	decay := 1 / (1 + x + 0.48*x*x + 0.235*x*x*x)

	change := current - target
	temp := (velocity + omega*change) * dt
	velocity = (velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	// never overshoot
	if (target-current > 0) == (out > target) {
		out = target
		velocity = 0
	}
	return out, velocity
}

// SmoothDampAngle is SmoothDamp for angles in degrees, taking the short way
// around. The result is wrapped into [0, 360).
func SmoothDampAngle(current, target, velocity, smoothTime, dt float64) (float64, float64) {
	target = current + DeltaAngle(current, target)
	out, velocity := SmoothDamp(current, target, velocity, smoothTime, dt)
	return repeat(out, 360), velocity
}

// DeltaAngle is the shortest signed difference between two angles in degrees.
func DeltaAngle(current, target float64) float64 {
	d := repeat(target-current, 360)
	if d > 180 {
		d -= 360
	}
	return d
}

func repeat(t, length float64) float64 {
	return t - math.Floor(t/length)*length
}
