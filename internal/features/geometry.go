package features

import (
	"image"
	"math"
	"sort"
)

// Line detection parameters. A Hough peak needs houghVoteThreshold edge
// pixels voting for it; collinear runs are split where consecutive edge
// pixels are more than maxLineGap apart, and runs shorter than
// minSegmentLength are discarded.
const (
	houghAngles        = 180
	houghVoteThreshold = 100
	minSegmentLength   = 100.0
	maxLineGap         = 10.0
	lineTolerance      = 2.0
	maxLineSegments    = 1000
)

// Orientation histogram parameters: orientationBins equal-width bins
// spanning [-90,90).
const (
	orientationBins      = 8
	retainedOrientations = 3
	alignmentTolerance   = 10.0
)

// Orientation is one non-empty histogram bin, identified by its center
// angle and the number of segments that fell into it.
type Orientation struct {
	AngleDeg float64 `json:"angle"`
	Count    int     `json:"count"`
}

// lineSegment is a detected straight segment. AngleDeg is normalized to
// (-90, 90].
type lineSegment struct {
	x1, y1, x2, y2 int
	length         float64
	angleDeg       float64
}

// GeometricFeatures summarizes the line structure of an image.
//
// StructuralRegularity is the fraction of detected segments aligned
// within alignmentTolerance degrees of horizontal or vertical; it serves
// as a proxy for "looks like a built structure" and is 0 when no lines
// are detected.
type GeometricFeatures struct {
	NumLines             int           `json:"num_lines"`
	DominantOrientations []Orientation `json:"dominant_orientations"`
	EdgeDensity          float64       `json:"edge_density"`
	StructuralRegularity float64       `json:"structural_regularity"`
}

// ExtractGeometricFeatures detects edges, extracts straight line
// segments, and derives the orientation histogram and regularity score.
//
// A degenerate or featureless image produces zero lines, an empty
// orientation list, and zero regularity - never an error.
func ExtractGeometricFeatures(img image.Image) GeometricFeatures {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width == 0 || height == 0 {
		return GeometricFeatures{DominantOrientations: []Orientation{}}
	}

	gray := grayscale(img)
	edges := detectEdges(gray, width, height)
	segments := detectSegments(edges, width, height)

	angles := make([]float64, len(segments))
	for i, s := range segments {
		angles[i] = s.angleDeg
	}

	return GeometricFeatures{
		NumLines:             len(segments),
		DominantOrientations: dominantOrientations(angles),
		EdgeDensity:          edges.density(),
		StructuralRegularity: regularity(angles),
	}
}

// detectSegments extracts straight line segments via a Hough transform.
//
// Edge pixels vote in (rho, theta) space; local-maximum peaks above the
// vote threshold identify candidate lines. Each peak's edge pixels are
// then ordered along the line and split into runs wherever consecutive
// pixels are further than maxLineGap apart, so one Hough line can yield
// several segments with real endpoints.
func detectSegments(edges edgeMap, width, height int) []lineSegment {
	maxDist := int(math.Sqrt(float64(width*width + height*height)))
	if maxDist == 0 {
		return nil
	}

	accumulator := make([][]int, maxDist*2)
	for i := range accumulator {
		accumulator[i] = make([]int, houghAngles)
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !edges[y][x] {
				continue
			}
			for theta := 0; theta < houghAngles; theta++ {
				angle := float64(theta) * math.Pi / float64(houghAngles)
				rho := float64(x)*math.Cos(angle) + float64(y)*math.Sin(angle)
				rhoIdx := int(rho) + maxDist
				if rhoIdx >= 0 && rhoIdx < maxDist*2 {
					accumulator[rhoIdx][theta]++
				}
			}
		}
	}

	type peak struct {
		rho   int
		theta int
		votes int
	}
	peaks := make([]peak, 0)

	for rhoIdx := 0; rhoIdx < maxDist*2; rhoIdx++ {
		for theta := 0; theta < houghAngles; theta++ {
			votes := accumulator[rhoIdx][theta]
			if votes < houghVoteThreshold {
				continue
			}
			// Local maximum over a 5x5 neighborhood in Hough space.
			isMax := true
			for dr := -2; dr <= 2 && isMax; dr++ {
				for dt := -2; dt <= 2 && isMax; dt++ {
					if dr == 0 && dt == 0 {
						continue
					}
					nr := rhoIdx + dr
					nt := (theta + dt + houghAngles) % houghAngles
					if nr >= 0 && nr < maxDist*2 && accumulator[nr][nt] > votes {
						isMax = false
					}
				}
			}
			if isMax {
				peaks = append(peaks, peak{rho: rhoIdx - maxDist, theta: theta, votes: votes})
			}
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].votes != peaks[j].votes {
			return peaks[i].votes > peaks[j].votes
		}
		if peaks[i].rho != peaks[j].rho {
			return peaks[i].rho < peaks[j].rho
		}
		return peaks[i].theta < peaks[j].theta
	})

	segments := make([]lineSegment, 0)

	for _, pk := range peaks {
		if len(segments) >= maxLineSegments {
			break
		}

		angle := float64(pk.theta) * math.Pi / float64(houghAngles)
		cosA := math.Cos(angle)
		sinA := math.Sin(angle)
		rho := float64(pk.rho)

		// Collect edge pixels near this line, keyed by their position
		// along the line direction (-sin, cos).
		type linePoint struct {
			x, y int
			t    float64
		}
		points := make([]linePoint, 0)
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				if !edges[y][x] {
					continue
				}
				dist := math.Abs(float64(x)*cosA + float64(y)*sinA - rho)
				if dist < lineTolerance {
					t := -float64(x)*sinA + float64(y)*cosA
					points = append(points, linePoint{x: x, y: y, t: t})
				}
			}
		}
		if len(points) == 0 {
			continue
		}

		sort.Slice(points, func(i, j int) bool { return points[i].t < points[j].t })

		// Split the ordered points into runs at gaps, then keep runs
		// long enough to count as structure.
		runStart := 0
		for i := 1; i <= len(points); i++ {
			if i < len(points) && points[i].t-points[i-1].t <= maxLineGap {
				continue
			}
			first := points[runStart]
			last := points[i-1]
			runStart = i

			dx := float64(last.x - first.x)
			dy := float64(last.y - first.y)
			length := math.Sqrt(dx*dx + dy*dy)
			if length < minSegmentLength {
				continue
			}

			segments = append(segments, lineSegment{
				x1:       first.x,
				y1:       first.y,
				x2:       last.x,
				y2:       last.y,
				length:   length,
				angleDeg: normalizeAngle(math.Atan2(dy, dx) * 180 / math.Pi),
			})
			if len(segments) >= maxLineSegments {
				break
			}
		}
	}

	return segments
}

// normalizeAngle maps an angle in degrees to (-90, 90].
func normalizeAngle(deg float64) float64 {
	for deg <= -90 {
		deg += 180
	}
	for deg > 90 {
		deg -= 180
	}
	return deg
}

// dominantOrientations buckets angles into orientationBins equal-width
// bins over [-90,90) and returns up to retainedOrientations non-empty
// bins ordered by descending count. The +90 boundary folds into the last
// bin.
func dominantOrientations(angles []float64) []Orientation {
	if len(angles) == 0 {
		return []Orientation{}
	}

	const binWidth = 180.0 / orientationBins
	counts := make([]int, orientationBins)
	for _, a := range angles {
		bin := int((a + 90) / binWidth)
		if bin >= orientationBins {
			bin = orientationBins - 1
		}
		if bin < 0 {
			bin = 0
		}
		counts[bin]++
	}

	result := make([]Orientation, 0, orientationBins)
	for i, c := range counts {
		if c == 0 {
			continue
		}
		center := -90 + (float64(i)+0.5)*binWidth
		result = append(result, Orientation{AngleDeg: center, Count: c})
	}

	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	if len(result) > retainedOrientations {
		result = result[:retainedOrientations]
	}
	return result
}

// regularity is the fraction of angles within alignmentTolerance of
// horizontal or vertical. Inputs are already normalized to (-90, 90],
// so horizontal is near 0 and vertical is near either 90 or -90.
func regularity(angles []float64) float64 {
	if len(angles) == 0 {
		return 0
	}
	aligned := 0
	for _, a := range angles {
		switch {
		case math.Abs(a) < alignmentTolerance:
			aligned++
		case math.Abs(a-90) < alignmentTolerance || math.Abs(a+90) < alignmentTolerance:
			aligned++
		}
	}
	return float64(aligned) / float64(len(angles))
}
