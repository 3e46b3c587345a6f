package input

import (
	"os"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/stride/internal/locomotion"
)

// Keyframe holds an input from At seconds until the next keyframe.
type Keyframe struct {
	At   float64    `yaml:"at"`
	Move mgl64.Vec2 `yaml:"move,flow"`
	// Jump holds the jump button for the whole keyframe.
	Jump bool `yaml:"jump"`
}

// Script replays a keyframe timeline.
type Script struct {
	frames []Keyframe
	active int
	latch  Latch
}

func NewScript(frames []Keyframe) *Script {
	sorted := make([]Keyframe, len(frames))
	copy(sorted, frames)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].At < sorted[j].At })
	return &Script{frames: sorted, active: -1}
}

func ParseScript(data []byte) (*Script, error) {
	var frames []Keyframe
	if err := yaml.Unmarshal(data, &frames); err != nil {
		return nil, errors.Wrap(err, "parse input script")
	}
	return NewScript(frames), nil
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read input script %s", path)
	}
	return ParseScript(data)
}

func (s *Script) Frames() []Keyframe { return s.frames }

// Sample returns the keyframe active at t. Before the first keyframe the
// script is idle. Entering a keyframe releases the jump button, so every
// jump keyframe presses once.
func (s *Script) Sample(step int, t float64) locomotion.Input {
	i := sort.Search(len(s.frames), func(i int) bool { return s.frames[i].At > t }) - 1
	if i != s.active {
		s.active = i
		s.latch.Reset()
	}
	if i < 0 {
		s.latch.Press(false)
		return locomotion.Input{}
	}
	f := s.frames[i]
	return locomotion.Input{Move: f.Move, Jump: s.latch.Press(f.Jump)}
}
