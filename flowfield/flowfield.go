// Package flowfield implements the substrate's self-generated velocity
// field: a pair of grids (vx, vy) driven by the primary channel's
// density gradient, with viscosity diffusion, decay, and semi-Lagrangian
// advection support for the channels it steers.
package flowfield

import (
	"gonum.org/v1/gonum/floats"

	"github.com/Bbeierle12/EcoSysX-sub006/config"
)

// FlowField owns two double-buffered grids of velocity components.
// It is mutated exclusively inside a substrate step; callers never
// see a half-written buffer.
type FlowField struct {
	Enabled           bool
	Viscosity         float64
	AdvectionStrength float64
	VelocityDecay     float64

	W, H int

	VX, VY []float32 // current (read) buffers
	vxBack []float32
	vyBack []float32
}

// New allocates a zeroed flow field sized W*H.
func New(cfg config.FlowConfig, w, h int) *FlowField {
	size := w * h
	return &FlowField{
		Enabled:           cfg.Enabled,
		Viscosity:         cfg.Viscosity,
		AdvectionStrength: cfg.AdvectionStrength,
		VelocityDecay:     cfg.VelocityDecay,
		W:                 w,
		H:                 h,
		VX:                make([]float32, size),
		VY:                make([]float32, size),
		vxBack:            make([]float32, size),
		vyBack:            make([]float32, size),
	}
}

// Displacement returns the scaled semi-Lagrangian displacement at cell
// i for the given dt: (vx_i, vy_i) * AdvectionStrength * dt.
func (f *FlowField) Displacement(i int, dt float64) (dx, dy float64) {
	return float64(f.VX[i]) * f.AdvectionStrength * dt, float64(f.VY[i]) * f.AdvectionStrength * dt
}

// Update recomputes the velocity field from the primary channel's
// current (pre-swap) read buffer and writes the result into the back
// buffers. Swap must be called afterward (alongside the channel
// buffer swaps) to commit it. primary is read-only here.
func (f *FlowField) Update(primary []float32, wrap bool, dt float64) {
	w, h := f.W, f.H
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x

			gx, gy := centralGradient(primary, w, h, x, y, wrap)

			vx := float64(f.VX[i]) - gx*dt
			vy := float64(f.VY[i]) - gy*dt

			vx *= f.VelocityDecay
			vy *= f.VelocityDecay

			if f.Viscosity > 0 {
				avgX, avgY := neighborAverage(f.VX, f.VY, w, h, x, y, wrap)
				vx = vx*(1-f.Viscosity) + float64(avgX)*f.Viscosity
				vy = vy*(1-f.Viscosity) + float64(avgY)*f.Viscosity
			}

			f.vxBack[i] = float32(vx)
			f.vyBack[i] = float32(vy)
		}
	}
}

// Swap exchanges the read and back buffers.
func (f *FlowField) Swap() {
	f.VX, f.vxBack = f.vxBack, f.VX
	f.VY, f.vyBack = f.vyBack, f.VY
}

// Sample bilinearly samples the current velocity at fractional cell
// coordinates (cx, cy).
func (f *FlowField) Sample(cx, cy float64, wrap bool) (vx, vy float32) {
	return sampleBilinear(f.VX, f.W, f.H, cx, cy, wrap), sampleBilinear(f.VY, f.W, f.H, cx, cy, wrap)
}

// Energy returns the flow field's kinetic energy, 1/2 * sum(vx^2 + vy^2).
func (f *FlowField) Energy() float64 {
	var sum float64
	for i := range f.VX {
		vx := float64(f.VX[i])
		vy := float64(f.VY[i])
		sum += vx*vx + vy*vy
	}
	return 0.5 * sum
}

// VelocityData returns defensive copies of the velocity grids.
func (f *FlowField) VelocityData() (vx, vy []float32) {
	return append([]float32(nil), f.VX...), append([]float32(nil), f.VY...)
}

func centralGradient(field []float32, w, h, x, y int, wrap bool) (gx, gy float64) {
	leftX, rightX := edgeIndices(x, w, wrap)
	upY, downY := edgeIndices(y, h, wrap)

	left := field[y*w+leftX]
	right := field[y*w+rightX]
	up := field[upY*w+x]
	down := field[downY*w+x]

	gx = (float64(right) - float64(left)) / 2
	gy = (float64(down) - float64(up)) / 2
	return gx, gy
}

func neighborAverage(vx, vy []float32, w, h, x, y int, wrap bool) (avgX, avgY float32) {
	leftX, rightX := edgeIndices(x, w, wrap)
	upY, downY := edgeIndices(y, h, wrap)

	sumX := vx[y*w+leftX] + vx[y*w+rightX] + vx[upY*w+x] + vx[downY*w+x]
	sumY := vy[y*w+leftX] + vy[y*w+rightX] + vy[upY*w+x] + vy[downY*w+x]
	return sumX / 4, sumY / 4
}

// edgeIndices returns the (prev, next) neighbour index of i along an
// axis of length n: wrapped modulo n when wrap is set, else clamped to
// the edge. Central differences and neighbour averages near a
// non-wrapped boundary therefore read the edge cell twice, producing
// smaller gradient/average magnitudes there: a known, preserved
// asymmetry.
func edgeIndices(i, n int, wrap bool) (prev, next int) {
	if wrap {
		prev = i - 1
		if prev < 0 {
			prev += n
		}
		next = i + 1
		if next >= n {
			next -= n
		}
		return prev, next
	}
	prev = i - 1
	if prev < 0 {
		prev = 0
	}
	next = i + 1
	if next >= n {
		next = n - 1
	}
	return prev, next
}

// sampleBilinear 4-tap-interpolates grid at fractional cell coordinates
// (cx, cy). Out-of-range coordinates wrap modulo W/H when wrap is set,
// else clamp to [0, W-1] x [0, H-1].
func sampleBilinear(grid []float32, w, h int, cx, cy float64, wrap bool) float32 {
	x0f := floorF(cx)
	y0f := floorF(cy)
	tx := cx - x0f
	ty := cy - y0f

	x0 := int(x0f)
	y0 := int(y0f)
	x1 := x0 + 1
	y1 := y0 + 1

	if wrap {
		x0 = wrapIndex(x0, w)
		x1 = wrapIndex(x1, w)
		y0 = wrapIndex(y0, h)
		y1 = wrapIndex(y1, h)
	} else {
		x0 = clampIndex(x0, w)
		x1 = clampIndex(x1, w)
		y0 = clampIndex(y0, h)
		y1 = clampIndex(y1, h)
	}

	v00 := grid[y0*w+x0]
	v10 := grid[y0*w+x1]
	v01 := grid[y1*w+x0]
	v11 := grid[y1*w+x1]

	a := float64(v00) + (float64(v10)-float64(v00))*tx
	b := float64(v01) + (float64(v11)-float64(v01))*tx
	return float32(a + (b-a)*ty)
}

func floorF(v float64) float64 {
	i := float64(int(v))
	if v < 0 && i != v {
		i--
	}
	return i
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// TotalKineticEnergy is a gonum-backed equivalent of Energy, kept for
// callers that already have flattened vx/vy slices (e.g. a
// deserialized snapshot) and don't want to construct a FlowField.
func TotalKineticEnergy(vx, vy []float32) float64 {
	sq := make([]float64, len(vx))
	for i := range vx {
		sq[i] = float64(vx[i])*float64(vx[i]) + float64(vy[i])*float64(vy[i])
	}
	return 0.5 * floats.Sum(sq)
}
