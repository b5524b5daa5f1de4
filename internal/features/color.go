package features

import (
	"image"
	"math"
	"math/rand"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"
)

// Color clustering parameters. Five clusters are computed; the three
// largest survive as dominant colors. Multiple restarts guard against a
// bad random initialization, and the lowest-cost partition wins.
const (
	colorClusters   = 5
	retainedColors  = 3
	kmeansRestarts  = 10
	kmeansMaxIter   = 100
	kmeansEpsilon   = 0.2
	maxColorSamples = 20000
)

// DominantColor is one color cluster, ranked by the fraction of samples
// it represents.
type DominantColor struct {
	RGB        [3]uint8 `json:"rgb"`
	Hex        string   `json:"hex"`
	Percentage float64  `json:"percentage"`
}

// ColorFeatures summarizes the color composition of an image.
//
// DominantColors is ordered by descending percentage. Percentages are
// fractions of the sampled pixels, so they sum to at most 100 across the
// retained entries. AverageColor and ColorVariance are per-channel
// statistics over the same sample set.
type ColorFeatures struct {
	DominantColors []DominantColor `json:"dominant_colors"`
	AverageColor   [3]float64      `json:"average_color"`
	ColorVariance  [3]float64      `json:"color_variance"`
}

// ExtractColorFeatures clusters the image's colors with k-means and
// ranks the resulting clusters by coverage.
//
// Pixels are subsampled on a uniform grid to at most maxColorSamples, so
// runtime stays bounded for large images; the subsample is deterministic
// for a given image. All randomness (cluster initialization) comes from
// rng, so identical (image, seed) pairs produce identical output.
//
// A degenerate image (zero samples) yields an empty feature set rather
// than an error.
func ExtractColorFeatures(img image.Image, rng *rand.Rand) ColorFeatures {
	samples := sampleColors(img)
	if len(samples) == 0 {
		return ColorFeatures{DominantColors: []DominantColor{}}
	}

	var rCh, gCh, bCh []float64
	for _, s := range samples {
		rCh = append(rCh, s[0])
		gCh = append(gCh, s[1])
		bCh = append(bCh, s[2])
	}

	centroids, counts := kmeansColors(samples, colorClusters, rng)

	dominant := make([]DominantColor, 0, len(centroids))
	for i, c := range centroids {
		if counts[i] == 0 {
			continue
		}
		rgb := [3]uint8{roundChannel(c[0]), roundChannel(c[1]), roundChannel(c[2])}
		dominant = append(dominant, DominantColor{
			RGB: rgb,
			Hex: colorful.Color{
				R: float64(rgb[0]) / 255,
				G: float64(rgb[1]) / 255,
				B: float64(rgb[2]) / 255,
			}.Hex(),
			Percentage: float64(counts[i]) / float64(len(samples)) * 100,
		})
	}

	sort.SliceStable(dominant, func(i, j int) bool {
		return dominant[i].Percentage > dominant[j].Percentage
	})
	if len(dominant) > retainedColors {
		dominant = dominant[:retainedColors]
	}

	return ColorFeatures{
		DominantColors: dominant,
		AverageColor:   [3]float64{stat.Mean(rCh, nil), stat.Mean(gCh, nil), stat.Mean(bCh, nil)},
		ColorVariance:  [3]float64{popVariance(rCh), popVariance(gCh), popVariance(bCh)},
	}
}

// sampleColors flattens the image into RGB triples on a uniform grid.
// The stride is chosen so at most maxColorSamples pixels are taken.
func sampleColors(img image.Image) [][3]float64 {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	total := width * height
	if total == 0 {
		return nil
	}

	stride := 1
	if total > maxColorSamples {
		stride = int(math.Ceil(math.Sqrt(float64(total) / float64(maxColorSamples))))
	}

	samples := make([][3]float64, 0, total/(stride*stride)+1)
	for y := 0; y < height; y += stride {
		for x := 0; x < width; x += stride {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			samples = append(samples, [3]float64{
				float64(r >> 8),
				float64(g >> 8),
				float64(b >> 8),
			})
		}
	}
	return samples
}

// kmeansColors runs Lloyd's algorithm with kmeansRestarts random
// initializations and returns the centroids and membership counts of the
// lowest-cost partition. k is reduced when there are fewer samples than
// clusters.
func kmeansColors(samples [][3]float64, k int, rng *rand.Rand) ([][3]float64, []int) {
	if k > len(samples) {
		k = len(samples)
	}

	bestCost := math.Inf(1)
	var bestCentroids [][3]float64
	var bestCounts []int

	for restart := 0; restart < kmeansRestarts; restart++ {
		centroids := initCentroids(samples, k, rng)
		assign := make([]int, len(samples))

		for iter := 0; iter < kmeansMaxIter; iter++ {
			for i, s := range samples {
				assign[i] = nearestCentroid(s, centroids)
			}

			shift := updateCentroids(samples, assign, centroids, rng)
			if shift < kmeansEpsilon {
				break
			}
		}

		cost := 0.0
		counts := make([]int, k)
		for i, s := range samples {
			c := nearestCentroid(s, centroids)
			assign[i] = c
			counts[c]++
			cost += sqDist(s, centroids[c])
		}

		if cost < bestCost {
			bestCost = cost
			bestCentroids = centroids
			bestCounts = counts
		}
	}

	return bestCentroids, bestCounts
}

// initCentroids picks k distinct sample indices as starting centroids.
func initCentroids(samples [][3]float64, k int, rng *rand.Rand) [][3]float64 {
	chosen := make(map[int]bool, k)
	centroids := make([][3]float64, 0, k)
	for len(centroids) < k {
		idx := rng.Intn(len(samples))
		if chosen[idx] && len(chosen) < len(samples) {
			continue
		}
		chosen[idx] = true
		centroids = append(centroids, samples[idx])
	}
	return centroids
}

// updateCentroids recomputes each centroid as the mean of its members
// and returns the largest centroid movement. Empty clusters are reseeded
// from a random sample so k partitions survive.
func updateCentroids(samples [][3]float64, assign []int, centroids [][3]float64, rng *rand.Rand) float64 {
	k := len(centroids)
	sums := make([][3]float64, k)
	counts := make([]int, k)
	for i, s := range samples {
		c := assign[i]
		sums[c][0] += s[0]
		sums[c][1] += s[1]
		sums[c][2] += s[2]
		counts[c]++
	}

	maxShift := 0.0
	for c := 0; c < k; c++ {
		var next [3]float64
		if counts[c] == 0 {
			next = samples[rng.Intn(len(samples))]
		} else {
			n := float64(counts[c])
			next = [3]float64{sums[c][0] / n, sums[c][1] / n, sums[c][2] / n}
		}
		if shift := math.Sqrt(sqDist(next, centroids[c])); shift > maxShift {
			maxShift = shift
		}
		centroids[c] = next
	}
	return maxShift
}

func nearestCentroid(s [3]float64, centroids [][3]float64) int {
	best := 0
	bestDist := math.Inf(1)
	for i, c := range centroids {
		if d := sqDist(s, c); d < bestDist {
			bestDist = d
			best = i
		}
	}
	return best
}

func sqDist(a, b [3]float64) float64 {
	dr := a[0] - b[0]
	dg := a[1] - b[1]
	db := a[2] - b[2]
	return dr*dr + dg*dg + db*db
}

// popVariance is the population variance; gonum's stat.Variance is the
// unbiased sample estimator, so rescale by (n-1)/n.
func popVariance(xs []float64) float64 {
	n := float64(len(xs))
	if n < 2 {
		return 0
	}
	return stat.Variance(xs, nil) * (n - 1) / n
}

func roundChannel(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
