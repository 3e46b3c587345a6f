package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/stride/internal/config"
	"github.com/san-kum/stride/internal/sim"
)

func runPreset(t *testing.T, terrain, name string, tune func(*config.Config)) *sim.Result {
	t.Helper()
	cfg := config.GetPreset(terrain, name)
	require.NotNil(t, cfg, "%s/%s", terrain, name)
	if tune != nil {
		tune(cfg)
	}
	result, err := Run(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)
	require.NotEmpty(t, result.Samples)
	return result
}

func TestWalkReachesMaxSpeed(t *testing.T) {
	result := runPreset(t, "flat", "walk", nil)

	s := result.Samples[150]
	assert.True(t, s.Grounded)
	assert.InDelta(t, 10, s.HorizontalSpeed(), 0.05)
	assert.InDelta(t, 1, s.Blend, 0.01)
	assert.InDelta(t, 0.5, s.Position.Y(), 1e-3, "body stays on the floor")

	final, _ := result.Final()
	assert.InDelta(t, 0, final.HorizontalSpeed(), 0.05, "stops once input is released")
	assert.Zero(t, result.Metrics["jumps"])
}

func TestAirJumpsLimited(t *testing.T) {
	result := runPreset(t, "flat", "air-jumps", nil)
	assert.Equal(t, 3.0, result.Metrics["jumps"], "one ground jump plus two air jumps")

	result = runPreset(t, "flat", "air-jumps", func(c *config.Config) { c.Locomotion.MaxAirJumps = 0 })
	assert.Equal(t, 1.0, result.Metrics["jumps"], "presses while airborne are ignored")
}

func TestBumpSnapKeepsContact(t *testing.T) {
	snap := runPreset(t, "bump", "snap", nil)
	free := runPreset(t, "bump", "no-snap", nil)

	assert.Positive(t, snap.Metrics["snaps"])
	assert.Zero(t, free.Metrics["snaps"])
	assert.Less(t, snap.Metrics["air_time"], free.Metrics["air_time"])
}

func TestCrevasseGroundsThroughSteepContacts(t *testing.T) {
	result := runPreset(t, "crevasse", "wedged", nil)

	final, _ := result.Final()
	assert.True(t, final.Grounded, "two steep walls together act as ground")
	assert.True(t, final.Steep)
	assert.InDelta(t, 0, final.Position.X(), 0.01)
	assert.InDelta(t, 0.5*math.Sqrt(5), final.Position.Y(), 0.02)
}

func TestRampClimb(t *testing.T) {
	result := runPreset(t, "ramp", "climb", nil)

	final, _ := result.Final()
	top := 20 * math.Tan(20*math.Pi/180)
	assert.Greater(t, final.Position.X(), 20.0)
	assert.InDelta(t, top+0.5, final.Position.Y(), 0.01)
}

func TestSteepSlopeNotClimbable(t *testing.T) {
	result := runPreset(t, "steep", "slide", nil)

	top := 20 * math.Tan(50*math.Pi/180)
	for _, s := range result.Samples {
		require.Less(t, s.Position.Y(), top/2, "t=%.2f", s.Time)
	}
}

func TestDeterministic(t *testing.T) {
	a := runPreset(t, "wall", "wall-jump", nil)
	b := runPreset(t, "wall", "wall-jump", nil)
	assert.Equal(t, a.Samples, b.Samples)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Terrain = "lava"
	_, err := New(cfg, zerolog.Nop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	cfg = config.DefaultConfig()
	cfg.InputFile = "does/not/exist.yaml"
	_, err = New(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestNewWiresControllerToWorld(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Spawn[1] = 0.5
	e, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)

	e.World().Step(cfg.Dt)
	assert.Positive(t, e.Controller().Snapshot().GroundContactCount, "world contacts reach the controller")
}
