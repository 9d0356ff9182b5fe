// Package kernel implements the radial convolution kernels used to
// compute a channel's potential field each step.
package kernel

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/Bbeierle12/EcoSysX-sub006/config"
)

// Family names one of the radial kernel shapes.
type Family int

const (
	Gaussian Family = iota
	Polynomial
	Exponential
	Donut
	Custom
)

// ParseFamily maps a config family name to a Family. Unknown names
// fall back to Gaussian silently rather than an error, since kernel
// construction can never fail. "custom" always maps to Custom here;
// the fallback for "custom" with no supplied weights happens in New.
func ParseFamily(name string) Family {
	switch name {
	case "polynomial":
		return Polynomial
	case "exponential":
		return Exponential
	case "donut":
		return Donut
	case "custom":
		return Custom
	default:
		return Gaussian
	}
}

// Kernel is a precomputed, L1-normalised S×S radial weight grid
// (S = 2*Radius+1), used to convolve a channel's read buffer into a
// potential buffer.
type Kernel struct {
	Family  Family
	Radius  int
	Side    int
	Weights []float32 // row-major, Side*Side
}

// New builds a Kernel from a config entry. If the family is "custom"
// and cfg.Weights is empty, it silently falls back to Gaussian.
func New(cfg config.KernelConfig) *Kernel {
	family := ParseFamily(cfg.Family)
	if family == Custom && len(cfg.Weights) == 0 {
		family = Gaussian
	}
	if family == Custom {
		return NewCustom(cfg.Radius, cfg.Weights)
	}

	r := cfg.Radius
	if r < 1 {
		r = 1
	}
	side := 2*r + 1
	raw := make([]float64, side*side)

	beta := cfg.Beta
	if len(beta) == 0 {
		beta = []float64{0.5}
	}
	alpha := cfg.Alpha
	if alpha <= 0 {
		alpha = 1
	}
	peaks := cfg.Peaks
	if peaks < 1 {
		peaks = 1
	}

	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			d := math.Hypot(float64(dx), float64(dy)) / float64(r)
			var w float64
			if d <= 1 {
				w = evalFamily(family, d, beta, alpha, peaks)
			}
			raw[(dy+r)*side+(dx+r)] = w
		}
	}

	return &Kernel{
		Family:  family,
		Radius:  r,
		Side:    side,
		Weights: normalise(raw),
	}
}

// NewCustom wraps caller-supplied weights (row-major, side*side where
// side = 2*radius+1) and L1-normalises them. Weights are copied, never
// aliased.
func NewCustom(radius int, weights []float64) *Kernel {
	side := 2*radius + 1
	raw := make([]float64, side*side)
	copy(raw, weights)
	return &Kernel{
		Family:  Custom,
		Radius:  radius,
		Side:    side,
		Weights: normalise(raw),
	}
}

func evalFamily(family Family, d float64, beta []float64, alpha float64, peaks int) float64 {
	switch family {
	case Polynomial:
		k := peaks
		if k > len(beta) {
			k = len(beta)
		}
		if k <= 1 {
			b0 := beta[0]
			v := 1 - math.Pow((d-b0)*alpha, 2)
			if v < 0 {
				v = 0
			}
			return v
		}
		var sum float64
		for i := 0; i < k; i++ {
			v := 1 - math.Pow((d-beta[i])*alpha, 2)
			if v > 0 {
				sum += v
			}
		}
		return sum / float64(k)
	case Exponential:
		return math.Exp(-alpha * math.Abs(d-beta[0]))
	case Donut:
		b0 := beta[0]
		b1 := 1.0
		if len(beta) > 1 {
			b1 = beta[1]
		}
		if b1 <= 0 {
			return 0
		}
		v := 1 - math.Abs(d-b0)/b1
		if v < 0 {
			return 0
		}
		return v
	default: // Gaussian
		sigma := 1 / alpha
		b0 := beta[0]
		return math.Exp(-((d - b0) * (d - b0)) / (2 * sigma * sigma))
	}
}

// normalise L1-normalises raw (sum of all weights becomes 1), or
// leaves every weight at zero when the total is zero.
func normalise(raw []float64) []float32 {
	total := floats.Sum(raw)
	out := make([]float32, len(raw))
	if total == 0 {
		return out
	}
	for i, v := range raw {
		out[i] = float32(v / total)
	}
	return out
}

// Convolve writes the convolution of in against k into out. in and
// out must be distinct W*H buffers (aliasing is forbidden: the kernel
// reads every neighbour of a cell while writing that cell). When wrap
// is false, kernel taps that fall outside the grid contribute nothing
// rather than being clamped: mass is lost near the boundary, which is
// intentional (see the substrate's boundary policy table).
func (k *Kernel) Convolve(in, out []float32, w, h int, wrap bool) {
	r := k.Radius
	side := k.Side
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum float32
			for ky := -r; ky <= r; ky++ {
				sy := y + ky
				if wrap {
					sy = wrapIndex(sy, h)
				} else if sy < 0 || sy >= h {
					continue
				}
				rowOff := sy * w
				kRowOff := (ky + r) * side
				for kx := -r; kx <= r; kx++ {
					sx := x + kx
					if wrap {
						sx = wrapIndex(sx, w)
					} else if sx < 0 || sx >= w {
						continue
					}
					sum += in[rowOff+sx] * k.Weights[kRowOff+kx+r]
				}
			}
			out[y*w+x] = sum
		}
	}
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
