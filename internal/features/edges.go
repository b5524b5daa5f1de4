package features

import "math"

// Two-threshold edge detector parameters, on the 0-255 luminance scale.
// Gradients above edgeThresholdHigh are always edges; gradients between
// the thresholds survive only when connected to a strong edge.
const (
	edgeThresholdLow  = 50.0
	edgeThresholdHigh = 150.0
)

// edgeMap is a binary edge image; true marks an edge pixel.
type edgeMap [][]bool

// density returns the fraction of pixels marked as edges, in [0,1].
// An empty map has density 0.
func (e edgeMap) density() float64 {
	total := 0
	edges := 0
	for _, row := range e {
		for _, on := range row {
			total++
			if on {
				edges++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(edges) / float64(total)
}

// detectEdges runs Canny-style edge detection over a luminance plane:
// Gaussian blur, Sobel gradients, non-maximum suppression, then double
// thresholding with hysteresis.
func detectEdges(gray [][]float64, width, height int) edgeMap {
	edges := make(edgeMap, height)
	for y := range edges {
		edges[y] = make([]bool, width)
	}
	if width == 0 || height == 0 {
		return edges
	}

	blurred := gaussianBlur(gray, width, height)
	magnitude, direction := sobelGradients(blurred, width, height)

	// Non-maximum suppression: keep only pixels that are local maxima
	// along their gradient direction, thinning edges to one pixel.
	suppressed := make([][]float64, height)
	for y := 0; y < height; y++ {
		suppressed[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			if y == 0 || y == height-1 || x == 0 || x == width-1 {
				continue
			}

			angle := direction[y][x]
			mag := magnitude[y][x]

			var n1, n2 float64
			if (angle >= -math.Pi/8 && angle < math.Pi/8) || (angle >= 7*math.Pi/8 || angle < -7*math.Pi/8) {
				n1 = magnitude[y][x-1]
				n2 = magnitude[y][x+1]
			} else if (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8) {
				n1 = magnitude[y-1][x+1]
				n2 = magnitude[y+1][x-1]
			} else if (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8) {
				n1 = magnitude[y-1][x]
				n2 = magnitude[y+1][x]
			} else {
				n1 = magnitude[y-1][x-1]
				n2 = magnitude[y+1][x+1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[y][x] = mag
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			val := suppressed[y][x]
			if val >= edgeThresholdHigh {
				edges[y][x] = true
			} else if val >= edgeThresholdLow {
				// Weak edge: keep only if connected to a strong one.
				for ky := -1; ky <= 1 && !edges[y][x]; ky++ {
					for kx := -1; kx <= 1; kx++ {
						py := clamp(y+ky, 0, height-1)
						px := clamp(x+kx, 0, width-1)
						if suppressed[py][px] >= edgeThresholdHigh {
							edges[y][x] = true
							break
						}
					}
				}
			}
		}
	}

	return edges
}
