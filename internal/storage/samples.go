package storage

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"

	"github.com/san-kum/stride/internal/locomotion"
	"github.com/san-kum/stride/internal/sim"
)

var sampleHeader = []string{
	"step", "time", "move_x", "move_z", "jump",
	"x", "y", "z", "vx", "vy", "vz",
	"blend", "yaw", "grounded", "steep", "jump_phase", "snapped", "jumped",
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }

func WriteSamplesCSV(w io.Writer, samples []sim.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(sampleHeader); err != nil {
		return errors.Wrap(err, "write header")
	}
	for _, s := range samples {
		row := []string{
			strconv.Itoa(s.Step),
			formatFloat(s.Time),
			formatFloat(s.Input.Move.X()),
			formatFloat(s.Input.Move.Y()),
			strconv.FormatBool(s.Input.Jump),
			formatFloat(s.Position.X()),
			formatFloat(s.Position.Y()),
			formatFloat(s.Position.Z()),
			formatFloat(s.Velocity.X()),
			formatFloat(s.Velocity.Y()),
			formatFloat(s.Velocity.Z()),
			formatFloat(s.Blend),
			formatFloat(s.Yaw),
			strconv.FormatBool(s.Grounded),
			strconv.FormatBool(s.Steep),
			strconv.Itoa(s.JumpPhase),
			strconv.FormatBool(s.Snapped),
			strconv.FormatBool(s.Jumped),
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write step %d", s.Step)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush samples")
}

// rowParser reads typed columns from one record and keeps the first error.
type rowParser struct {
	record []string
	col    int
	err    error
}

func (p *rowParser) next() string {
	v := p.record[p.col]
	p.col++
	return v
}

func (p *rowParser) float() float64 {
	v, err := strconv.ParseFloat(p.next(), 64)
	if p.err == nil && err != nil {
		p.err = errors.Wrapf(err, "column %s", sampleHeader[p.col-1])
	}
	return v
}

func (p *rowParser) integer() int {
	v, err := strconv.Atoi(p.next())
	if p.err == nil && err != nil {
		p.err = errors.Wrapf(err, "column %s", sampleHeader[p.col-1])
	}
	return v
}

func (p *rowParser) flag() bool {
	v, err := strconv.ParseBool(p.next())
	if p.err == nil && err != nil {
		p.err = errors.Wrapf(err, "column %s", sampleHeader[p.col-1])
	}
	return v
}

func ReadSamplesCSV(r io.Reader) ([]sim.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(sampleHeader)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "read samples")
	}
	if len(records) < 2 {
		return []sim.Sample{}, nil
	}

	samples := make([]sim.Sample, 0, len(records)-1)
	for i, record := range records[1:] {
		p := &rowParser{record: record}
		s := sim.Sample{
			Step:      p.integer(),
			Time:      p.float(),
			Input:     locomotion.Input{Move: mgl64.Vec2{p.float(), p.float()}, Jump: p.flag()},
			Position:  mgl64.Vec3{p.float(), p.float(), p.float()},
			Velocity:  mgl64.Vec3{p.float(), p.float(), p.float()},
			Blend:     p.float(),
			Yaw:       p.float(),
			Grounded:  p.flag(),
			Steep:     p.flag(),
			JumpPhase: p.integer(),
			Snapped:   p.flag(),
			Jumped:    p.flag(),
		}
		if p.err != nil {
			return nil, errors.Wrapf(p.err, "row %d", i+2)
		}
		samples = append(samples, s)
	}
	return samples, nil
}
