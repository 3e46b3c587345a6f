package locomotion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeltaAngle(t *testing.T) {
	tests := []struct {
		current, target, want float64
	}{
		{0, 90, 90},
		{0, 270, -90},
		{350, 10, 20},
		{10, 350, -20},
		{0, 180, 180},
		{-720, 45, 45},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, DeltaAngle(tt.current, tt.target), 1e-9, "%v -> %v", tt.current, tt.target)
	}
}

func TestSmoothDamp_Converges(t *testing.T) {
	x, v := 0.0, 0.0
	for i := 0; i < 500; i++ {
		x, v = SmoothDamp(x, 10, v, 0.1, 0.01)
		assert.LessOrEqual(t, x, 10.0, "never overshoots")
	}
	assert.InDelta(t, 10.0, x, 1e-3)
}

func TestSmoothDampAngle_ShortWay(t *testing.T) {
	yaw, v := 350.0, 0.0
	yaw, _ = SmoothDampAngle(yaw, 10, v, 0.1, 0.01)
	assert.True(t, yaw > 350 || yaw < 10, "turns through 0, got %v", yaw)
}

func TestSmoothDamp_ZeroDt(t *testing.T) {
	x, v := SmoothDamp(3, 10, 1, 0.1, 0)
	assert.Equal(t, 3.0, x)
	assert.Equal(t, 1.0, v)
}
