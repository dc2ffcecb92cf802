package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/noisetex/config"
)

// PreviewParams holds the slider state of the preview tool.
type PreviewParams struct {
	Simplex bool // false previews white noise
	Scale   float32
	Seed    int64

	BlackProbability float32
}

func defaultPreviewParams() PreviewParams {
	return PreviewParams{
		Simplex:          true,
		Scale:            60,
		Seed:             1,
		BlackProbability: 0.5,
	}
}

// defaultsBlock renders the parameters as the matching defaults section
// of config.yaml, ready to paste.
func defaultsBlock(p PreviewParams) (string, error) {
	var block struct {
		Defaults struct {
			Algorithm string                `yaml:"algorithm"`
			Simplex   *config.SimplexConfig `yaml:"simplex,omitempty"`
			White     *config.WhiteConfig   `yaml:"white,omitempty"`
		} `yaml:"defaults"`
	}
	if p.Simplex {
		block.Defaults.Algorithm = "simplex"
		block.Defaults.Simplex = &config.SimplexConfig{Scale: float64(p.Scale), Seed: p.Seed}
	} else {
		block.Defaults.Algorithm = "white"
		block.Defaults.White = &config.WhiteConfig{BlackProbability: float64(p.BlackProbability), RandomSeed: p.Seed}
	}
	out, err := yaml.Marshal(&block)
	if err != nil {
		return "", fmt.Errorf("marshaling defaults: %w", err)
	}
	return string(out), nil
}
