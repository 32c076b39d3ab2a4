// Package scale converts pixel lengths to real-world lengths using a
// reference scale bar.
package scale

import (
	"errors"
	"fmt"
	"math"
)

// DefaultUnit is used when no unit label is configured
const DefaultUnit = "um"

// ErrInvalidScale is returned when the reference pixel length is not a
// positive finite number.
var ErrInvalidScale = errors.New("invalid scale")

// Converter maps pixel lengths to real lengths. The ratio is fixed for a run.
type Converter struct {
	pixels float64
	real   float64
	unit   string
}

// NewConverter validates the reference scale once: pixels is the length of
// the scale bar in pixels and real the length it represents.
func NewConverter(pixels, real float64, unit string) (*Converter, error) {
	if pixels == 0 {
		return nil, fmt.Errorf("%w: scale pixels must not be zero", ErrInvalidScale)
	}
	if pixels < 0 || math.IsNaN(pixels) || math.IsInf(pixels, 0) {
		return nil, fmt.Errorf("%w: scale pixels must be positive, got %v", ErrInvalidScale, pixels)
	}
	if math.IsNaN(real) || math.IsInf(real, 0) {
		return nil, fmt.Errorf("%w: scale real length must be finite, got %v", ErrInvalidScale, real)
	}
	if unit == "" {
		unit = DefaultUnit
	}
	return &Converter{pixels: pixels, real: real, unit: unit}, nil
}

// Ratio is the real length of one pixel
func (c *Converter) Ratio() float64 {
	return c.real / c.pixels
}

// Unit returns the unit label attached to converted values
func (c *Converter) Unit() string {
	return c.unit
}

// ToReal converts a pixel length
func (c *Converter) ToReal(pixels float64) float64 {
	return pixels * c.Ratio()
}

// ToPixels is the inverse of ToReal. It returns 0 when the real scale is 0.
func (c *Converter) ToPixels(real float64) float64 {
	if c.real == 0 {
		return 0
	}
	return real * c.pixels / c.real
}
