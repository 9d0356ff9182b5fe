package substrate

import "math"

// Falloff names how deposited mass tapers with distance from the
// deposit centre.
type Falloff int

const (
	FalloffConstant Falloff = iota
	FalloffLinear
	FalloffGaussian
)

// DepositParams describes one agent-driven deposition.
type DepositParams struct {
	Channel int
	Amount  float64
	Radius  float64 // in world units
	Falloff Falloff
}

// DepositAt adds mass to a channel around a world position. An
// out-of-range channel silently no-ops. Deposits mutate the channel's
// active (read) buffer directly, not the back buffer, so the effect is
// visible immediately and the next step convolves against it.
func (s *Substrate) DepositAt(wx, wy float64, params DepositParams) {
	if params.Channel < 0 || params.Channel >= len(s.channels) {
		return
	}
	ch := &s.channels[params.Channel]

	cx := wx * s.resolution
	cy := wy * s.resolution
	radiusCells := params.Radius * s.resolution
	if radiusCells <= 0 {
		return
	}

	bound := int(math.Ceil(radiusCells))
	for dy := -bound; dy <= bound; dy++ {
		for dx := -bound; dx <= bound; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d > radiusCells {
				continue
			}
			factor := falloffFactor(params.Falloff, d, radiusCells)

			tx := int(math.Floor(cx + float64(dx)))
			ty := int(math.Floor(cy + float64(dy)))
			idx, ok := resolveIndex(tx, ty, s.w, s.h, s.wrap)
			if !ok {
				continue
			}

			v := float64(ch.read[idx]) + params.Amount*factor
			ch.read[idx] = float32(clampFloat(v, ch.cfg.MinValue, ch.cfg.MaxValue))
		}
	}
}

func falloffFactor(f Falloff, d, radiusCells float64) float64 {
	switch f {
	case FalloffLinear:
		return 1 - d/radiusCells
	case FalloffGaussian:
		sigma := radiusCells / 2
		if sigma <= 0 {
			return 1
		}
		return math.Exp(-(d * d) / (2 * sigma * sigma))
	default: // FalloffConstant
		return 1
	}
}
