// Package config holds the tunable surface of the descreening pipeline.
// Values ship with defaults matching the empirically tuned constants of the
// algorithm; a YAML file can override them and CLI flags sit on top.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const DefaultWorkers = 8

type Config struct {
	InputDir  string `yaml:"input_dir"`
	OutputDir string `yaml:"output_dir"`
	Workers   int    `yaml:"max_workers"`

	Detector Detector `yaml:"detector"`
	Axis     Axis     `yaml:"axis_exclusion"`

	// Extensions names the formats expected in the input tree. Every file is
	// classified by decoding it regardless; the list only controls whether a
	// decode failure is reported as a warning or as routine debug noise.
	Extensions []string `yaml:"extensions"`
}

// Detector configures the spectral peak detector.
type Detector struct {
	MedianWindow      int `yaml:"median_window"`
	OpeningKernel     int `yaml:"opening_kernel"`
	FallbackThreshold int `yaml:"fallback_threshold"`
}

// Axis configures the exclusion bands protecting the spectrum's central
// axes. The sizes are empirically tuned constants, not derived values.
type Axis struct {
	BandHeight int `yaml:"band_height"`
	BandWidth  int `yaml:"band_width"`
}

func Default() Config {
	return Config{
		Workers: DefaultWorkers,
		Detector: Detector{
			MedianWindow:      7,
			OpeningKernel:     17,
			FallbackThreshold: 127,
		},
		Axis: Axis{
			BandHeight: 23,
			BandWidth:  12,
		},
		Extensions: []string{".png", ".jpg", ".jpeg", ".bmp", ".tif", ".tiff"},
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("input_dir is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if c.Workers < 1 {
		return fmt.Errorf("max_workers must be at least 1, got %d", c.Workers)
	}
	if c.Detector.MedianWindow < 3 || c.Detector.MedianWindow%2 == 0 {
		return fmt.Errorf("median_window must be an odd number of at least 3, got %d", c.Detector.MedianWindow)
	}
	if c.Detector.OpeningKernel < 3 {
		return fmt.Errorf("opening_kernel must be at least 3, got %d", c.Detector.OpeningKernel)
	}
	if c.Detector.FallbackThreshold < 0 || c.Detector.FallbackThreshold > 255 {
		return fmt.Errorf("fallback_threshold must be within [0,255], got %d", c.Detector.FallbackThreshold)
	}
	if c.Axis.BandHeight < 1 || c.Axis.BandWidth < 1 {
		return fmt.Errorf("axis exclusion bands must be at least 1px, got %dx%d", c.Axis.BandHeight, c.Axis.BandWidth)
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("at least one accepted extension is required")
	}
	return nil
}
