package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Generation.Threads != 4 {
		t.Errorf("threads = %d, want 4", cfg.Generation.Threads)
	}
	if cfg.Derived.TimeBudget != 25*time.Millisecond {
		t.Errorf("time budget = %v, want 25ms", cfg.Derived.TimeBudget)
	}
	if cfg.Defaults.Perlin.GridSize != [2]int{31, 31} {
		t.Errorf("grid size = %v", cfg.Defaults.Perlin.GridSize)
	}
	if cfg.Camera.ZoomStep != 1.1 {
		t.Errorf("zoom step = %g", cfg.Camera.ZoomStep)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	data := []byte("generation:\n  time_budget_ms: 10\ndefaults:\n  algorithm: white\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Derived.TimeBudget != 10*time.Millisecond {
		t.Errorf("time budget = %v, want 10ms", cfg.Derived.TimeBudget)
	}
	if cfg.Defaults.Algorithm != "white" {
		t.Errorf("algorithm = %q, want white", cfg.Defaults.Algorithm)
	}
	// Untouched sections keep their defaults.
	if cfg.Generation.Threads != 4 || cfg.Defaults.Width != 900 {
		t.Errorf("defaults lost: threads=%d width=%d", cfg.Generation.Threads, cfg.Defaults.Width)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []string{
		"generation:\n  threads: 0\n",
		"generation:\n  time_budget_ms: -1\n",
		"camera:\n  min_zoom: 10\n  max_zoom: 1\n",
		"camera:\n  zoom_step: 1\n",
		"defaults:\n  corner:\n    colors: [[1, 0, 0]]\n",
	}
	for _, body := range tests {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("expected error for %q", body)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Export.Format = "bmp"
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}
	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load written file: %v", err)
	}
	if back.Export.Format != "bmp" {
		t.Errorf("format = %q, want bmp", back.Export.Format)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() {
		global = saved
		if recover() == nil {
			t.Error("Cfg did not panic")
		}
	}()
	Cfg()
}
