package substrate

import (
	"math"
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/Bbeierle12/EcoSysX-sub006/config"
)

// Preset names one of the built-in starting configurations.
type Preset int

const (
	PresetEmpty Preset = iota
	PresetNoise
	PresetBlob
	PresetOrbium
	PresetGeminium
)

// ParsePreset maps a preset name to a Preset, defaulting to
// PresetEmpty for anything unrecognised.
func ParsePreset(name string) Preset {
	switch name {
	case "noise":
		return PresetNoise
	case "blob":
		return PresetBlob
	case "orbium":
		return PresetOrbium
	case "geminium":
		return PresetGeminium
	default:
		return PresetEmpty
	}
}

// PresetOptions augments preset seeding. Organic replaces the analytic
// orbium/geminium seed shape with the same shape perturbed by 2D
// OpenSimplex noise, for organic texture instead of a purely analytic
// stamp. It has no effect on PresetEmpty, PresetNoise or PresetBlob.
type PresetOptions struct {
	Organic      bool
	OrganicScale float64 // spatial frequency of the perturbation; 0 uses a sane default
}

// NewFromPreset builds a substrate seeded from a named preset. A nil
// cfg uses config.Defaults(); preset-specific growth overrides (see
// the orbium/geminium cases) are applied atop it before construction.
func NewFromPreset(preset Preset, cfg *config.Config, rng *rand.Rand) *Substrate {
	return NewFromPresetWithOptions(preset, cfg, rng, PresetOptions{})
}

// NewFromPresetWithOptions is NewFromPreset with organic-noise seeding
// control.
func NewFromPresetWithOptions(preset Preset, cfg *config.Config, rng *rand.Rand, opts PresetOptions) *Substrate {
	if cfg == nil {
		cfg = config.Defaults()
	} else {
		cfg = cfg.Clone()
	}
	applyPresetGrowthOverrides(preset, cfg)

	s := New(cfg, rng)
	s.seedPreset(preset, opts)
	logger.Debug("substrate seeded from preset", "preset", preset, "organic", opts.Organic)
	return s
}

func applyPresetGrowthOverrides(preset Preset, cfg *config.Config) {
	if len(cfg.Channels) == 0 || len(cfg.Growths) == 0 {
		return
	}
	idx := cfg.Channels[0].GrowthIndex
	if idx < 0 || idx >= len(cfg.Growths) {
		return
	}
	switch preset {
	case PresetOrbium:
		cfg.Growths[idx].Mu = 0.15
		cfg.Growths[idx].Sigma = 0.015
	case PresetGeminium:
		cfg.Growths[idx].Mu = 0.27
		cfg.Growths[idx].Sigma = 0.02
	}
}

func (s *Substrate) seedPreset(preset Preset, opts PresetOptions) {
	if len(s.channels) == 0 {
		return
	}
	cx, cy := float64(s.w)/2, float64(s.h)/2

	switch preset {
	case PresetEmpty:
		// no-op: every channel is already zero-filled.
	case PresetNoise:
		s.InitializeNoise(0, 0.5)
	case PresetBlob:
		s.InitializeBlob(0, cx, cy, 20)
	case PresetOrbium:
		s.seedOrbiumShape(0, cx, cy, 15, opts)
	case PresetGeminium:
		s.seedOrbiumShape(0, cx-10, cy, 15, opts)
		s.seedOrbiumShape(0, cx+10, cy, 15, opts)
	}
}

// seedOrbiumShape stamps a Gaussian-weighted asymmetric blob
// exp(-2*r^2)*(1+0.3*cos(theta)), r = distance/radius, theta the
// angle from the blob's centre. With Organic set, the analytic value
// is multiplied by a [0.5, 1.5]-ranged OpenSimplex perturbation so the
// seed is organically textured rather than perfectly radial.
func (s *Substrate) seedOrbiumShape(c int, cx, cy, radius float64, opts PresetOptions) {
	if c < 0 || c >= len(s.channels) {
		return
	}
	ch := &s.channels[c]

	var noise opensimplex.Noise
	scale := opts.OrganicScale
	if opts.Organic {
		if scale <= 0 {
			scale = 0.15
		}
		noise = opensimplex.New(int64(s.rng.Int63()))
	}

	// Cut off at 3x radius: exp(-2*9) is negligible beyond that. Under
	// wrap the box is also limited to one grid period, so no cell is
	// stamped twice through offsets that alias to it.
	bound := int(math.Ceil(radius * 3))
	loX, hiX, loY, hiY := -bound, bound, -bound, bound
	if s.wrap {
		if 2*bound+1 > s.w {
			loX, hiX = -(s.w / 2), s.w-1-s.w/2
		}
		if 2*bound+1 > s.h {
			loY, hiY = -(s.h / 2), s.h-1-s.h/2
		}
	}
	icx, icy := int(math.Round(cx)), int(math.Round(cy))

	for dy := loY; dy <= hiY; dy++ {
		for dx := loX; dx <= hiX; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			r := d / radius
			theta := math.Atan2(float64(dy), float64(dx))
			v := math.Exp(-2*r*r) * (1 + 0.3*math.Cos(theta))

			if noise != nil {
				n := noise.Eval2(float64(icx+dx)*scale, float64(icy+dy)*scale) // [-1, 1]
				v *= 1 + 0.5*n
			}
			if v <= 0 {
				continue
			}

			idx, ok := resolveIndex(icx+dx, icy+dy, s.w, s.h, s.wrap)
			if !ok {
				continue
			}
			ch.read[idx] = float32(clampFloat(v, ch.cfg.MinValue, ch.cfg.MaxValue))
		}
	}
}
