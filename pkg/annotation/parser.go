// Package annotation parses YOLO-style label lines: a class id followed by
// box, rotated box or polygon coordinates.
package annotation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrParse is returned for lines whose class id or coordinates are not numeric
var ErrParse = errors.New("parse error")

// Shape identifies how a coordinate list is interpreted. It is decided by the
// number of coordinates alone.
type Shape int

const (
	ShapeUnsupported Shape = iota
	// ShapeBox is x_center y_center width height
	ShapeBox
	// ShapeRotatedBox is x_center y_center width height angle
	ShapeRotatedBox
	// ShapePolygon is x1 y1 x2 y2 x3 y3 x4 y4
	ShapePolygon
)

// ShapeOf returns the shape for a coordinate count
func ShapeOf(n int) Shape {
	switch n {
	case 4:
		return ShapeBox
	case 5:
		return ShapeRotatedBox
	case 8:
		return ShapePolygon
	default:
		return ShapeUnsupported
	}
}

func (s Shape) String() string {
	switch s {
	case ShapeBox:
		return "box"
	case ShapeRotatedBox:
		return "rotated box"
	case ShapePolygon:
		return "polygon"
	default:
		return "unsupported"
	}
}

// Annotation is one parsed label line
type Annotation struct {
	ClassID     int
	Coordinates []float64
}

// Shape returns the variant implied by the coordinate count
func (a Annotation) Shape() Shape {
	return ShapeOf(len(a.Coordinates))
}

// IsSkippable reports whether a line carries no annotation: blank or a
// comment starting with '#'.
func IsSkippable(line string) bool {
	s := strings.TrimSpace(line)
	return s == "" || strings.HasPrefix(s, "#")
}

// ParseLine parses a single label line. The boolean result is false for
// blank and comment lines, which are not errors. The class id may be written
// as a real number and is truncated toward zero.
func ParseLine(line string) (Annotation, bool, error) {
	if IsSkippable(line) {
		return Annotation{}, false, nil
	}

	fields := strings.Fields(line)
	classID, err := parseClassID(fields[0])
	if err != nil {
		return Annotation{}, false, err
	}

	if len(fields) == 1 {
		return Annotation{}, false, fmt.Errorf("%w: no coordinates after class id", ErrParse)
	}

	coords := make([]float64, 0, len(fields)-1)
	for _, f := range fields[1:] {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return Annotation{}, false, fmt.Errorf("%w: invalid coordinate %q", ErrParse, f)
		}
		coords = append(coords, v)
	}

	return Annotation{ClassID: classID, Coordinates: coords}, true, nil
}

func parseClassID(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid class id %q", ErrParse, s)
	}
	v = math.Trunc(v)
	if math.IsNaN(v) || v > math.MaxInt32 || v < math.MinInt32 {
		return 0, fmt.Errorf("%w: class id %q out of range", ErrParse, s)
	}
	return int(v), nil
}
