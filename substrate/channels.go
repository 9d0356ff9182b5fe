package substrate

import "math"

// GetChannelAt floors (x,y) to a cell and reads channel c under the
// boundary policy. Out-of-range c, or an out-of-range cell under a
// non-wrapping policy, returns 0 rather than failing.
func (s *Substrate) GetChannelAt(c int, x, y float64) float64 {
	if c < 0 || c >= len(s.channels) {
		return 0
	}
	idx, ok := resolveIndex(int(math.Floor(x)), int(math.Floor(y)), s.w, s.h, s.wrap)
	if !ok {
		return 0
	}
	return float64(s.channels[c].read[idx])
}

// SetChannelAt floors (x,y) to a cell and writes channel c, clamped to
// the channel's configured range. Out-of-range c, or an out-of-range
// cell under a non-wrapping policy, silently no-ops.
func (s *Substrate) SetChannelAt(c int, x, y, v float64) {
	if c < 0 || c >= len(s.channels) {
		return
	}
	ch := &s.channels[c]
	idx, ok := resolveIndex(int(math.Floor(x)), int(math.Floor(y)), s.w, s.h, s.wrap)
	if !ok {
		return
	}
	ch.read[idx] = float32(clampFloat(v, ch.cfg.MinValue, ch.cfg.MaxValue))
}

// GetChannelData returns a defensive copy of channel c's active grid.
// Out-of-range c returns nil.
func (s *Substrate) GetChannelData(c int) []float32 {
	if c < 0 || c >= len(s.channels) {
		return nil
	}
	return append([]float32(nil), s.channels[c].read...)
}

// GetChannelDataRaw returns channel c's active grid without copying.
// Callers must treat the result as immutable: it aliases the
// substrate's internal buffer, which setters and deposits write at
// once and later steps reuse as a back buffer.
// Out-of-range c returns nil.
func (s *Substrate) GetChannelDataRaw(c int) []float32 {
	if c < 0 || c >= len(s.channels) {
		return nil
	}
	return s.channels[c].read
}

// GetFlowData returns defensive copies of the velocity grids.
func (s *Substrate) GetFlowData() (vx, vy []float32) {
	return s.flow.VelocityData()
}

// InitializeNoise fills channel c with values drawn uniformly from
// [0, maxValue] using the substrate's injected RNG.
func (s *Substrate) InitializeNoise(c int, maxValue float64) {
	if c < 0 || c >= len(s.channels) {
		return
	}
	ch := &s.channels[c]
	for i := range ch.read {
		v := s.rng.Float64() * maxValue
		ch.read[i] = float32(clampFloat(v, ch.cfg.MinValue, ch.cfg.MaxValue))
	}
}

// InitializeBlob stamps a linearly-decaying disc of the given radius
// (in cells) centred at (cx, cy) into channel c, overwriting whatever
// was there.
func (s *Substrate) InitializeBlob(c int, cx, cy, radius float64) {
	if c < 0 || c >= len(s.channels) || radius <= 0 {
		return
	}
	s.stampRadial(c, cx, cy, radius, func(d, r float64) float64 {
		v := 1 - d/r
		if v < 0 {
			return 0
		}
		return v
	})
}

// stampRadial overwrites every cell within radius of (cx, cy) with
// shape(distance, radius), respecting the channel's clamp range and
// the substrate's boundary policy.
func (s *Substrate) stampRadial(c int, cx, cy, radius float64, shape func(d, r float64) float64) {
	ch := &s.channels[c]
	bound := int(math.Ceil(radius))
	icx, icy := int(math.Round(cx)), int(math.Round(cy))
	for dy := -bound; dy <= bound; dy++ {
		for dx := -bound; dx <= bound; dx++ {
			d := math.Hypot(float64(dx), float64(dy))
			if d > radius {
				continue
			}
			idx, ok := resolveIndex(icx+dx, icy+dy, s.w, s.h, s.wrap)
			if !ok {
				continue
			}
			v := shape(d, radius)
			ch.read[idx] = float32(clampFloat(v, ch.cfg.MinValue, ch.cfg.MaxValue))
		}
	}
}
