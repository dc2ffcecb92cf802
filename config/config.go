// Package config provides configuration loading and access for the texture viewer.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Generation GenerationConfig `yaml:"generation"`
	Camera     CameraConfig     `yaml:"camera"`
	Defaults   DefaultsConfig   `yaml:"defaults"`
	Overlay    OverlayConfig    `yaml:"overlay"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Export     ExportConfig     `yaml:"export"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	TargetFPS  int `yaml:"target_fps"`
	PanelWidth int `yaml:"panel_width"` // Parameter panel on the left edge
}

// GenerationConfig holds scheduler parameters.
type GenerationConfig struct {
	TimeBudgetMS int `yaml:"time_budget_ms"` // Main goroutine share per frame
	Threads      int `yaml:"threads"`        // Column ranges, including the main share
}

// CameraConfig holds inspection camera parameters.
type CameraConfig struct {
	ZoomStep          float64 `yaml:"zoom_step"` // Multiplier per wheel notch
	MinZoom           float64 `yaml:"min_zoom"`
	MaxZoom           float64 `yaml:"max_zoom"`
	PanSpeed          float64 `yaml:"pan_speed"`           // Texture pixels per second
	FastPanMultiplier float64 `yaml:"fast_pan_multiplier"` // Applied while shift is held
}

// DefaultsConfig holds the initial generation request.
type DefaultsConfig struct {
	Algorithm string        `yaml:"algorithm"`
	Width     int           `yaml:"width"`
	Height    int           `yaml:"height"`
	White     WhiteConfig   `yaml:"white"`
	Perlin    PerlinConfig  `yaml:"perlin"`
	Corner    CornerConfig  `yaml:"corner"`
	Simplex   SimplexConfig `yaml:"simplex"`
}

// WhiteConfig holds white noise parameters.
type WhiteConfig struct {
	BlackProbability float64 `yaml:"black_probability"`
	RandomSeed       int64   `yaml:"random_seed"` // <= 0 seeds from the clock
}

// PerlinConfig holds Perlin noise parameters.
type PerlinConfig struct {
	GridSize         [2]int     `yaml:"grid_size"`
	GridStep         [2]float64 `yaml:"grid_step"`
	Offset           [2]float64 `yaml:"offset"`
	NormalizeOffsets bool       `yaml:"normalize_offsets"`
	Interpolation    string     `yaml:"interpolation"`
	RandomSeed       int64      `yaml:"random_seed"` // <= 0 seeds from the clock
}

// CornerConfig holds corner interpolation parameters.
type CornerConfig struct {
	Algorithm string       `yaml:"algorithm"`
	Colors    [][3]float64 `yaml:"colors"` // 16 RGB triples in [0,1], row by row; empty = stock palette
}

// SimplexConfig holds OpenSimplex parameters.
type SimplexConfig struct {
	Scale float64 `yaml:"scale"`
	Seed  int64   `yaml:"seed"`
}

// OverlayConfig holds visualization overlay parameters.
type OverlayConfig struct {
	GradientGlyphSize float64  `yaml:"gradient_glyph_size"` // Glyph side in screen pixels at full scale
	GradientLineWidth float64  `yaml:"gradient_line_width"`
	GradientColor     [4]uint8 `yaml:"gradient_color"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	PerfCollectorWindow int `yaml:"perf_collector_window"` // Frames in the rolling timing window
	StatsStride         int `yaml:"stats_stride"`          // Sample every Nth pixel for texture stats
}

// ExportConfig holds texture export parameters.
type ExportConfig struct {
	Dir    string  `yaml:"dir"`
	Format string  `yaml:"format"` // png or bmp
	Scale  float64 `yaml:"scale"`
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	TimeBudget time.Duration // Generation.TimeBudgetMS as a duration
	ScreenW32  float32       // Screen.Width as float32
	ScreenH32  float32       // Screen.Height as float32
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Generation.Threads < 1 {
		return fmt.Errorf("generation.threads must be at least 1, got %d", c.Generation.Threads)
	}
	if c.Generation.TimeBudgetMS <= 0 {
		return fmt.Errorf("generation.time_budget_ms must be positive, got %d", c.Generation.TimeBudgetMS)
	}
	if c.Camera.MinZoom <= 0 || c.Camera.MaxZoom < c.Camera.MinZoom {
		return fmt.Errorf("camera zoom range [%g, %g] is invalid", c.Camera.MinZoom, c.Camera.MaxZoom)
	}
	if c.Camera.ZoomStep <= 1 {
		return fmt.Errorf("camera.zoom_step must be greater than 1, got %g", c.Camera.ZoomStep)
	}
	if n := len(c.Defaults.Corner.Colors); n != 0 && n != 16 {
		return fmt.Errorf("defaults.corner.colors needs 16 entries, got %d", n)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TimeBudget = time.Duration(c.Generation.TimeBudgetMS) * time.Millisecond
	c.Derived.ScreenW32 = float32(c.Screen.Width)
	c.Derived.ScreenH32 = float32(c.Screen.Height)
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
