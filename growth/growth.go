// Package growth implements the pointwise growth-mapping functions
// applied to a kernel's convolved potential field.
package growth

import (
	"math"

	"github.com/Bbeierle12/EcoSysX-sub006/config"
)

// Family names one of the growth-mapping shapes.
type Family int

const (
	Gaussian Family = iota
	Polynomial
	Step
)

// ParseFamily maps a config family name to a Family, defaulting to
// Gaussian for anything unrecognised.
func ParseFamily(name string) Family {
	switch name {
	case "polynomial":
		return Polynomial
	case "step":
		return Step
	default:
		return Gaussian
	}
}

// GrowthFn is a pure, stateless scalar map [0,1] -> [-Amplitude,
// +Amplitude] applied pointwise to a convolved potential field.
type GrowthFn struct {
	Family    Family
	Mu        float64
	Sigma     float64
	Amplitude float64
}

// New builds a GrowthFn from a config entry.
func New(cfg config.GrowthConfig) *GrowthFn {
	sigma := cfg.Sigma
	if sigma == 0 {
		sigma = 1e-9 // avoid division by zero; a zero-width growth band matches nothing
	}
	return &GrowthFn{
		Family:    ParseFamily(cfg.Family),
		Mu:        cfg.Mu,
		Sigma:     sigma,
		Amplitude: cfg.Amplitude,
	}
}

// Apply evaluates the growth function at u, a potential value
// (typically in [0,1]). The result is in [-Amplitude, +Amplitude].
func (g *GrowthFn) Apply(u float64) float64 {
	var raw float64
	switch g.Family {
	case Polynomial:
		v := 1 - math.Pow((u-g.Mu)/g.Sigma, 2)
		if v > 0 {
			raw = v
		}
	case Step:
		if math.Abs(u-g.Mu) <= g.Sigma {
			raw = 1
		}
	default: // Gaussian
		d := u - g.Mu
		raw = math.Exp(-(d * d) / (2 * g.Sigma * g.Sigma))
	}
	return (2*raw - 1) * g.Amplitude
}

// ApplyField writes output[i] = Apply(input[i]) for every cell.
func (g *GrowthFn) ApplyField(input, output []float32) {
	for i, v := range input {
		output[i] = float32(g.Apply(float64(v)))
	}
}
