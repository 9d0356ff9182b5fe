// Package config provides the substrate's configuration values: an
// embedded set of defaults that a caller can overlay with a partial
// YAML document.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds every parameter needed to construct a substrate.
//
// A Config is an independent value, not a package-level singleton:
// every substrate owns its own copy so multiple substrates (tests, an
// optimizer sweep, parallel experiments) never share mutable state.
type Config struct {
	Width        int     `yaml:"width" json:"width"`
	Height       int     `yaml:"height" json:"height"`
	Resolution   float64 `yaml:"resolution" json:"resolution"`
	DT           float64 `yaml:"dt" json:"dt"`
	StepsPerTick int     `yaml:"steps_per_tick" json:"steps_per_tick"`
	WrapBoundary bool    `yaml:"wrap_boundary" json:"wrap_boundary"`

	Channels []ChannelConfig `yaml:"channels" json:"channels"`
	Kernels  []KernelConfig  `yaml:"kernels" json:"kernels"`
	Growths  []GrowthConfig  `yaml:"growths" json:"growths"`
	Flow     FlowConfig      `yaml:"flow" json:"flow"`
}

// ChannelConfig describes one channel of the substrate.
type ChannelConfig struct {
	Name          string  `yaml:"name" json:"name"`
	MinValue      float64 `yaml:"min_value" json:"min_value"`
	MaxValue      float64 `yaml:"max_value" json:"max_value"`
	DecayRate     float64 `yaml:"decay_rate" json:"decay_rate"`
	DiffusionRate float64 `yaml:"diffusion_rate" json:"diffusion_rate"`
	KernelIndex   int     `yaml:"kernel_index" json:"kernel_index"`
	GrowthIndex   int     `yaml:"growth_index" json:"growth_index"`
}

// KernelConfig describes one convolution kernel.
type KernelConfig struct {
	Family  string    `yaml:"family" json:"family"` // gaussian, polynomial, exponential, donut, custom
	Radius  int       `yaml:"radius" json:"radius"`
	Beta    []float64 `yaml:"beta" json:"beta"`
	Alpha   float64   `yaml:"alpha" json:"alpha"`
	Peaks   int       `yaml:"peaks" json:"peaks"`
	Weights []float64 `yaml:"weights" json:"weights,omitempty"` // only consulted when Family == "custom"
}

// GrowthConfig describes one growth function.
type GrowthConfig struct {
	Family    string  `yaml:"family" json:"family"` // gaussian, polynomial, step
	Mu        float64 `yaml:"mu" json:"mu"`
	Sigma     float64 `yaml:"sigma" json:"sigma"`
	Amplitude float64 `yaml:"amplitude" json:"amplitude"`
}

// FlowConfig describes the velocity field.
type FlowConfig struct {
	Enabled           bool    `yaml:"enabled" json:"enabled"`
	Viscosity         float64 `yaml:"viscosity" json:"viscosity"`
	Diffusion         float64 `yaml:"diffusion" json:"diffusion"` // reserved, unused by the step logic
	AdvectionStrength float64 `yaml:"advection_strength" json:"advection_strength"`
	VelocityDecay     float64 `yaml:"velocity_decay" json:"velocity_decay"`
}

// Defaults returns a fresh Config parsed from the embedded defaults.
func Defaults() *Config {
	cfg, err := parse(nil)
	if err != nil {
		// The embedded defaults are part of the binary; a parse failure
		// here means the module itself is broken, not caller error.
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load overlays partial YAML bytes atop the embedded defaults. Fields
// absent from data retain their default value: unmarshalling onto an
// already-populated struct lets the override keep whatever it doesn't
// mention, instead of a field-by-field reflection merge.
func Load(data []byte) (*Config, error) {
	return parse(data)
}

// LoadFile reads path and merges it atop the embedded defaults. An
// empty path returns the embedded defaults unchanged.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return Defaults(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Load(data)
}

func parse(override []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	if override != nil {
		if err := yaml.Unmarshal(override, cfg); err != nil {
			return nil, fmt.Errorf("parsing config override: %w", err)
		}
	}
	return cfg, nil
}

// Clone returns a deep copy so callers can mutate the result without
// affecting the Config a Substrate holds internally.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Channels = append([]ChannelConfig(nil), c.Channels...)
	out.Kernels = make([]KernelConfig, len(c.Kernels))
	for i, k := range c.Kernels {
		out.Kernels[i] = k
		out.Kernels[i].Beta = append([]float64(nil), k.Beta...)
		out.Kernels[i].Weights = append([]float64(nil), k.Weights...)
	}
	out.Growths = append([]GrowthConfig(nil), c.Growths...)
	return &out
}
