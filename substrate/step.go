package substrate

import (
	"math"
	"time"
)

// advectEpsilon is the minimum per-axis displacement magnitude below
// which advection is skipped entirely for a cell.
const advectEpsilon = 0.001

// Update advances the substrate by StepsPerTick internal steps, then
// recomputes statistics and records wall-clock update time.
func (s *Substrate) Update() {
	start := time.Now()
	for i := 0; i < s.stepsPerTick; i++ {
		s.step()
	}
	s.recomputeStats(time.Since(start))
}

// step runs one full integration pass: convolve + integrate every
// channel into its back buffer (all channels observe the same,
// pre-step read buffers), update the flow field from the primary
// channel's pre-swap state, then swap every buffer atomically.
func (s *Substrate) step() {
	for c := range s.channels {
		s.integrateChannel(c)
	}

	if s.flow.Enabled {
		s.flow.Update(s.channels[0].read, s.wrap, s.dt)
	}

	for i := range s.channels {
		s.channels[i].read, s.channels[i].back = s.channels[i].back, s.channels[i].read
	}
	if s.flow.Enabled {
		s.flow.Swap()
	}

	s.tick++
}

func (s *Substrate) integrateChannel(c int) {
	ch := &s.channels[c]
	k := s.kernels[ch.cfg.KernelIndex]
	g := s.growths[ch.cfg.GrowthIndex]

	k.Convolve(ch.read, s.scratch, s.w, s.h, s.wrap)

	for i := range ch.read {
		x := i % s.w
		y := i / s.w

		potential := float64(s.scratch[i])
		growthValue := g.Apply(potential)

		v := float64(ch.read[i]) + growthValue*s.dt
		v *= 1 - ch.cfg.DecayRate*s.dt

		if ch.cfg.DiffusionRate > 0 {
			avg := neighborAverage4(ch.read, s.w, s.h, x, y, s.wrap)
			v += (avg - v) * ch.cfg.DiffusionRate * s.dt
		}

		if s.flow.Enabled {
			v = s.advect(ch.read, x, y, i, v)
		}

		ch.back[i] = float32(clampFloat(v, ch.cfg.MinValue, ch.cfg.MaxValue))
	}
}

// advect applies semi-Lagrangian advection to v at cell (x,y,i),
// sampling upstream from in: the channel's current read buffer, not
// the partially-written back buffer.
func (s *Substrate) advect(in []float32, x, y, i int, v float64) float64 {
	dx, dy := s.flow.Displacement(i, s.dt)
	if math.Abs(dx) < advectEpsilon && math.Abs(dy) < advectEpsilon {
		return v
	}
	upstream := bilinearSample(in, s.w, s.h, float64(x)-dx, float64(y)-dy, s.wrap)
	strength := s.flow.AdvectionStrength
	return v*(1-strength) + upstream*strength
}
