package storage

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"

	"github.com/san-kum/stride/internal/sim"
)

type ExportData struct {
	Run     RunMetadata  `json:"run"`
	Samples []sim.Sample `json:"samples"`
}

// ExportJSON writes a run and its samples as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []sim.Sample) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(ExportData{Run: meta, Samples: samples}), "encode export")
}

// Export copies a stored run to w as "json" or "csv".
func (s *Store) Export(w io.Writer, runID, format string) error {
	samples, err := s.LoadSamples(runID)
	if err != nil {
		return err
	}
	switch format {
	case "csv":
		return WriteSamplesCSV(w, samples)
	case "json":
		meta, err := s.Load(runID)
		if err != nil {
			return err
		}
		return ExportJSON(w, *meta, samples)
	default:
		return errors.Errorf("unknown export format: %s", format)
	}
}
