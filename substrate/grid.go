package substrate

import "math"

// resolveIndex maps integer cell coordinates to a linear index under
// the substrate's boundary policy: wrapped modulo w/h when wrap is
// set, otherwise reporting ok=false for any out-of-range coordinate
// (the caller then no-ops the read/write).
func resolveIndex(x, y, w, h int, wrap bool) (idx int, ok bool) {
	if wrap {
		return wrapIndex(y, h)*w + wrapIndex(x, w), true
	}
	if x < 0 || x >= w || y < 0 || y >= h {
		return 0, false
	}
	return y*w + x, true
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

// neighborAverage4 averages the 4-connected neighbours of (x,y) in
// grid, applying wrap policy when wrap is set and clamp-to-edge
// otherwise.
func neighborAverage4(grid []float32, w, h, x, y int, wrap bool) float64 {
	var left, right, up, down int
	if wrap {
		left, right = wrapIndex(x-1, w), wrapIndex(x+1, w)
		up, down = wrapIndex(y-1, h), wrapIndex(y+1, h)
	} else {
		left, right = clampIndex(x-1, w), clampIndex(x+1, w)
		up, down = clampIndex(y-1, h), clampIndex(y+1, h)
	}
	sum := float64(grid[y*w+left]) + float64(grid[y*w+right]) + float64(grid[up*w+x]) + float64(grid[down*w+x])
	return sum / 4
}

// bilinearSample 4-tap-interpolates grid at fractional cell
// coordinates (cx, cy). Out-of-range coordinates wrap modulo w/h when
// wrap is set, else clamp to [0, w-1] x [0, h-1].
func bilinearSample(grid []float32, w, h int, cx, cy float64, wrap bool) float64 {
	x0f := math.Floor(cx)
	y0f := math.Floor(cy)
	tx := cx - x0f
	ty := cy - y0f

	x0 := int(x0f)
	y0 := int(y0f)
	x1 := x0 + 1
	y1 := y0 + 1

	if wrap {
		x0, x1 = wrapIndex(x0, w), wrapIndex(x1, w)
		y0, y1 = wrapIndex(y0, h), wrapIndex(y1, h)
	} else {
		x0, x1 = clampIndex(x0, w), clampIndex(x1, w)
		y0, y1 = clampIndex(y0, h), clampIndex(y1, h)
	}

	v00 := float64(grid[y0*w+x0])
	v10 := float64(grid[y0*w+x1])
	v01 := float64(grid[y1*w+x0])
	v11 := float64(grid[y1*w+x1])

	a := v00 + (v10-v00)*tx
	b := v01 + (v11-v01)*tx
	return a + (b-a)*ty
}
