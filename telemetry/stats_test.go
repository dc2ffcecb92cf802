package telemetry

import (
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/noisetex/config"
)

func init() {
	config.MustInit("")
}

func grey(v uint8) color.RGBA {
	return color.RGBA{R: v, G: v, B: v, A: 255}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		c    color.RGBA
		want float64
	}{
		{grey(0), 0},
		{grey(255), 1},
		{color.RGBA{G: 255, A: 255}, 0.7152},
	}
	for _, tt := range tests {
		if got := Luminance(tt.c); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Luminance(%+v) = %v, want %v", tt.c, got, tt.want)
		}
	}
}

func TestComputeTextureStats(t *testing.T) {
	pixels := []color.RGBA{grey(0), grey(255), grey(0), grey(255)}
	s := ComputeTextureStats(pixels, 1)

	if s.Samples != 4 {
		t.Errorf("samples = %d, want 4", s.Samples)
	}
	if math.Abs(s.Mean-0.5) > 1e-9 {
		t.Errorf("mean = %v, want 0.5", s.Mean)
	}
	if math.Abs(s.StdDev-0.5) > 1e-9 {
		t.Errorf("std = %v, want 0.5", s.StdDev)
	}
	if s.Min != 0 || math.Abs(s.Max-1) > 1e-9 {
		t.Errorf("range = [%v, %v], want [0, 1]", s.Min, s.Max)
	}
	if s.P10 > s.P50 || s.P50 > s.P90 {
		t.Errorf("percentiles out of order: %v %v %v", s.P10, s.P50, s.P90)
	}
}

func TestComputeTextureStatsStride(t *testing.T) {
	pixels := []color.RGBA{grey(255), grey(0), grey(255), grey(0), grey(255)}
	s := ComputeTextureStats(pixels, 2)
	if s.Samples != 3 || math.Abs(s.Mean-1) > 1e-9 || s.StdDev > 1e-9 {
		t.Errorf("stride 2 should only see white pixels: %+v", s)
	}
}

func TestComputeTextureStatsEmpty(t *testing.T) {
	if s := ComputeTextureStats(nil, 1); s != (TextureStats{}) {
		t.Errorf("expected zero stats, got %+v", s)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for i := 1; i <= 2; i++ {
		rec := GenerationRecord{Sequence: i, Algorithm: "perlin", Width: 9, Height: 9, Interpolation: "bicubic"}
		rec.SetStats(TextureStats{Mean: 0.5})
		if err := om.WriteGeneration(rec); err != nil {
			t.Fatalf("WriteGeneration: %v", err)
		}
	}
	pc := NewPerfCollector(2)
	pc.StartFrame()
	pc.StartPhase(PhaseRender)
	pc.EndFrame()
	if err := om.WritePerf(pc.Stats(), 1); err != nil {
		t.Fatalf("WritePerf: %v", err)
	}
	if err := om.WriteConfig(config.Cfg()); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("generations.csv has %d lines, want header + 2 rows:\n%s", len(lines), data)
	}
	if !strings.HasPrefix(lines[0], "seq,algorithm,width") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "2,perlin,9,9,bicubic") {
		t.Errorf("unexpected row %q", lines[2])
	}

	for _, name := range []string{"perf.csv", "config.yaml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestNilOutputManager(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("empty dir should disable output, got %v, %v", om, err)
	}
	if err := om.WriteGeneration(GenerationRecord{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 0); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}
