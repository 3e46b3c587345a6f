package config

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/stride/internal/input"
)

func preset(terrain string, duration float64, spawn mgl64.Vec3, frames []input.Keyframe, tune func(*Config)) *Config {
	cfg := DefaultConfig()
	cfg.Terrain = terrain
	cfg.Duration = duration
	cfg.Spawn = spawn
	cfg.Input = frames
	if tune != nil {
		tune(cfg)
	}
	return cfg
}

func key(at, x, z float64, jump bool) input.Keyframe {
	return input.Keyframe{At: at, Move: mgl64.Vec2{x, z}, Jump: jump}
}

var Presets = map[string]map[string]*Config{
	"flat": {
		"walk": preset("flat", 6, mgl64.Vec3{0, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false), key(4, 0, 0, false)}, nil),
		"sprint": preset("flat", 6, mgl64.Vec3{0, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false), key(4, 0, 0, false)},
			func(c *Config) {
				c.Locomotion.MaxSpeed = 15
				c.Locomotion.MaxAcceleration = 30
			}),
		"circle": preset("flat", 8, mgl64.Vec3{0, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false), key(2, 0, 1, false), key(4, -1, 0, false), key(6, 0, -1, false)}, nil),
		"air-jumps": preset("flat", 5, mgl64.Vec3{0, 0.5, 0},
			[]input.Keyframe{
				key(0, 0.5, 0, false),
				key(1.0, 0.5, 0, true), key(1.1, 0.5, 0, false),
				key(1.4, 0.5, 0, true), key(1.5, 0.5, 0, false),
				key(1.8, 0.5, 0, true), key(1.9, 0.5, 0, false),
				key(2.2, 0.5, 0, true), key(2.3, 0.5, 0, false),
			},
			func(c *Config) { c.Locomotion.MaxAirJumps = 2 }),
	},
	"ramp": {
		"climb": preset("ramp", 8, mgl64.Vec3{-3, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false)}, nil),
		"descend": preset("ramp", 8, mgl64.Vec3{12, 5, 0},
			[]input.Keyframe{key(0, -1, 0, false)}, nil),
	},
	"steep": {
		"slide": preset("steep", 6, mgl64.Vec3{-3, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false)}, nil),
		"scramble": preset("steep", 6, mgl64.Vec3{-3, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false)},
			func(c *Config) { c.Locomotion.MaxGroundAngle = 55 }),
	},
	"bump": {
		"snap": preset("bump", 4, mgl64.Vec3{0, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false)},
			func(c *Config) { c.Locomotion.MaxSpeed = 8 }),
		"no-snap": preset("bump", 4, mgl64.Vec3{0, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false)},
			func(c *Config) {
				c.Locomotion.MaxSpeed = 8
				c.Locomotion.ProbeDistance = 0
			}),
	},
	"step-down": {
		"drop": preset("step-down", 4, mgl64.Vec3{0, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false)}, nil),
	},
	"wall": {
		"wall-jump": preset("wall", 5, mgl64.Vec3{0, 0.5, 0},
			[]input.Keyframe{key(0, 1, 0, false), key(1.5, 1, 0, true), key(1.6, -1, 0, false)}, nil),
	},
	"crevasse": {
		"wedged": preset("crevasse", 4, mgl64.Vec3{0, 3, 0}, nil, nil),
	},
}

// GetPreset returns a copy of a preset, or nil if it does not exist.
func GetPreset(terrain, name string) *Config {
	terrainPresets, ok := Presets[terrain]
	if !ok {
		return nil
	}
	cfg, ok := terrainPresets[name]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	out.Name = terrain + "/" + name
	return out
}

func ListPresets(terrain string) []string {
	terrainPresets, ok := Presets[terrain]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(terrainPresets))
	for name := range terrainPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListTerrains() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
