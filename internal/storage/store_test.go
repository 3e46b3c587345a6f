package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/stride/internal/config"
	"github.com/san-kum/stride/internal/locomotion"
	"github.com/san-kum/stride/internal/sim"
)

func testResult() *sim.Result {
	return &sim.Result{
		Samples: []sim.Sample{
			{
				Step: 1, Time: 0.02,
				Input:    locomotion.Input{Move: mgl64.Vec2{1, 0}},
				Position: mgl64.Vec3{0.1, 0.5, 0}, Velocity: mgl64.Vec3{5, 0, 0},
				Blend: 0.5, Yaw: 90, Grounded: true,
			},
			{
				Step: 2, Time: 0.04,
				Input:    locomotion.Input{Move: mgl64.Vec2{1, 0}, Jump: true},
				Position: mgl64.Vec3{0.2, 0.6, 0}, Velocity: mgl64.Vec3{5, 6.264184, 0},
				Blend: 0.5, Yaw: 90, JumpPhase: 1, Jumped: true, Snapped: true, Steep: true,
			},
		},
		Metrics:    map[string]float64{"jumps": 1},
		StepsTaken: 2,
	}
}

func testConfig() *config.Config {
	cfg := config.GetPreset("flat", "walk")
	cfg.Dt = 0.02
	return cfg
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "flat/walk" || meta.Terrain != "flat" {
		t.Errorf("expected flat/walk on flat, got %s on %s", meta.Name, meta.Terrain)
	}
	if meta.Steps != 2 {
		t.Errorf("expected 2 steps, got %d", meta.Steps)
	}
	if meta.Metrics["jumps"] != 1 {
		t.Errorf("expected jumps 1, got %f", meta.Metrics["jumps"])
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	want := testResult().Samples
	if len(samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(samples))
	}
	for i := range want {
		if samples[i] != want[i] {
			t.Errorf("sample %d: got %+v, want %+v", i, samples[i], want[i])
		}
	}

	cfg, err := st.LoadConfig(runID)
	if err != nil {
		t.Fatalf("load config failed: %v", err)
	}
	if len(cfg.Input) != len(testConfig().Input) {
		t.Errorf("config input not stored: %+v", cfg.Input)
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for i := 0; i < 2; i++ {
		if _, err := st.Save(testConfig(), testResult()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}
	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID == runs[1].ID {
		t.Error("run ids must be unique")
	}
}

func TestStoreListMissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{metadataFile, configFile, samplesFile} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestStoreLoadMissing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
	if _, err := st.LoadSamples("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReadSamplesCSVErrors(t *testing.T) {
	header := strings.Join(sampleHeader, ",") + "\n"
	bad := header + "1,x,0,0,false,0,0,0,0,0,0,0,0,false,false,0,false,false\n"
	if _, err := ReadSamplesCSV(strings.NewReader(bad)); err == nil {
		t.Error("expected parse error")
	}
	short := header + "1,2,3\n"
	if _, err := ReadSamplesCSV(strings.NewReader(short)); err == nil {
		t.Error("expected column count error")
	}
	samples, err := ReadSamplesCSV(strings.NewReader(header))
	if err != nil || len(samples) != 0 {
		t.Errorf("expected no samples, got %v, %v", samples, err)
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(testConfig(), testResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.Export(&buf, runID, "json"); err != nil {
		t.Fatalf("json export failed: %v", err)
	}
	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.ID != runID || len(data.Samples) != 2 {
		t.Errorf("unexpected export %+v", data.Run)
	}

	buf.Reset()
	if err := st.Export(&buf, runID, "csv"); err != nil {
		t.Fatalf("csv export failed: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines", lines)
	}

	if err := st.Export(&buf, runID, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
