package substrate

// gradientEpsilon is the half-step used for the central-difference
// gradient estimate in SenseAt.
const gradientEpsilon = 0.5

// Sensing is the result of an agent querying the substrate at a world
// position: interpolated channel values, their local gradients, and
// the local flow velocity.
type Sensing struct {
	Position  [2]float64
	Channels  []float64
	GradientX []float64
	GradientY []float64
	Flow      [2]float64
}

// SenseAt bilinearly samples every channel (and its local gradient) at
// world coordinates (wx, wy), plus the flow velocity there. Array
// lengths always equal the channel count.
func (s *Substrate) SenseAt(wx, wy float64) Sensing {
	cx := wx * s.resolution
	cy := wy * s.resolution

	n := len(s.channels)
	result := Sensing{
		Position:  [2]float64{wx, wy},
		Channels:  make([]float64, n),
		GradientX: make([]float64, n),
		GradientY: make([]float64, n),
	}

	for c := range s.channels {
		grid := s.channels[c].read
		result.Channels[c] = bilinearSample(grid, s.w, s.h, cx, cy, s.wrap)

		right := bilinearSample(grid, s.w, s.h, cx+gradientEpsilon, cy, s.wrap)
		left := bilinearSample(grid, s.w, s.h, cx-gradientEpsilon, cy, s.wrap)
		result.GradientX[c] = right - left

		down := bilinearSample(grid, s.w, s.h, cx, cy+gradientEpsilon, s.wrap)
		up := bilinearSample(grid, s.w, s.h, cx, cy-gradientEpsilon, s.wrap)
		result.GradientY[c] = down - up
	}

	vx, vy := s.flow.Sample(cx, cy, s.wrap)
	result.Flow = [2]float64{float64(vx), float64(vy)}

	return result
}
