// Package geometry estimates the pixel diameter of an annotated object.
//
// Boxes (with or without an angle) use the larger of width and height.
// Quadrilaterals use the longest distance between any two vertices, which
// holds for arbitrarily rotated shapes where a bounding-box diagonal does not.
//
// Coordinates are treated as normalized when they fall in [0,1] and are then
// scaled by the image size; anything larger is taken to be in pixels already.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/menta2k/label-analyzer/pkg/annotation"
	"github.com/menta2k/label-analyzer/pkg/types"
)

var (
	// ErrMissingImage is returned when normalized box coordinates cannot be
	// converted because the image size is unknown.
	ErrMissingImage = errors.New("normalized coordinates but image size unknown")

	// ErrUnsupportedFormat is returned for coordinate counts other than 4, 5 or 8.
	ErrUnsupportedFormat = errors.New("unsupported number of fields")

	// ErrNonFinite is returned when a coordinate the estimate depends on is
	// NaN or infinite.
	ErrNonFinite = errors.New("non-finite coordinate")
)

// Estimate returns the pixel diameter for a coordinate list. dims may be nil.
func Estimate(coords []float64, dims *types.Dimensions) (float64, error) {
	switch annotation.ShapeOf(len(coords)) {
	case annotation.ShapeBox, annotation.ShapeRotatedBox:
		return EstimateBox(coords, dims)
	case annotation.ShapePolygon:
		if !finite(coords) {
			return 0, ErrNonFinite
		}
		return EstimatePolygon(coords, dims), nil
	default:
		return 0, fmt.Errorf("%w (%d)", ErrUnsupportedFormat, len(coords))
	}
}

// EstimateBox uses width and height at positions 2 and 3. A trailing angle
// is ignored, so heavily rotated boxes keep their unrotated extent.
func EstimateBox(coords []float64, dims *types.Dimensions) (float64, error) {
	if len(coords) < 4 {
		return 0, fmt.Errorf("%w (%d)", ErrUnsupportedFormat, len(coords))
	}
	w, h := coords[2], coords[3]
	if !finite([]float64{w, h}) {
		return 0, ErrNonFinite
	}

	if w > 1.0 || h > 1.0 {
		return math.Max(w, h), nil
	}
	if !dims.Known() {
		return 0, ErrMissingImage
	}
	return math.Max(w*float64(dims.Width), h*float64(dims.Height)), nil
}

// EstimatePolygon returns the maximum pairwise vertex distance. Vertices are
// scaled only when every coordinate is normalized and the image size is
// known; otherwise they are used as given.
func EstimatePolygon(coords []float64, dims *types.Dimensions) float64 {
	pts := Vertices(coords)
	if dims.Known() && normalized(coords) {
		for i := range pts {
			pts[i] = r2.Point{X: pts[i].X * float64(dims.Width), Y: pts[i].Y * float64(dims.Height)}
		}
	}
	return MaxPairwiseDistance(pts)
}

// Vertices pairs up a flat x1,y1,x2,y2... list. An odd trailing value is dropped.
func Vertices(coords []float64) []r2.Point {
	pts := make([]r2.Point, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		pts = append(pts, r2.Point{X: coords[i], Y: coords[i+1]})
	}
	return pts
}

// MaxPairwiseDistance returns the largest Euclidean distance between any two
// points, or 0 for fewer than two points.
func MaxPairwiseDistance(pts []r2.Point) float64 {
	maxd := 0.0
	for i := 0; i < len(pts); i++ {
		for j := i + 1; j < len(pts); j++ {
			if d := pts[j].Sub(pts[i]).Norm(); d > maxd {
				maxd = d
			}
		}
	}
	return maxd
}

func finite(coords []float64) bool {
	for _, v := range coords {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func normalized(coords []float64) bool {
	for _, v := range coords {
		if v < 0 || v > 1 {
			return false
		}
	}
	return true
}
