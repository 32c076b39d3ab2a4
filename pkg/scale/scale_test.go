package scale

import (
	"errors"
	"math"
	"testing"
)

func TestNewConverter(t *testing.T) {
	tests := []struct {
		name    string
		pixels  float64
		real    float64
		wantErr bool
	}{
		{"valid", 100, 10, false},
		{"zero real is allowed", 100, 0, false},
		{"zero pixels", 0, 10, true},
		{"negative pixels", -5, 10, true},
		{"nan pixels", math.NaN(), 10, true},
		{"infinite pixels", math.Inf(1), 10, true},
		{"nan real", 100, math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConverter(tt.pixels, tt.real, "um")
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidScale) {
					t.Errorf("expected ErrInvalidScale, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConverter_DefaultUnit(t *testing.T) {
	c, err := NewConverter(1, 1, "")
	if err != nil {
		t.Fatal(err)
	}
	if c.Unit() != "um" {
		t.Errorf("expected default unit um, got %q", c.Unit())
	}
}

func TestConverter_ToReal(t *testing.T) {
	c, err := NewConverter(100, 10, "um")
	if err != nil {
		t.Fatal(err)
	}
	if got := c.ToReal(150); math.Abs(got-15) > 1e-9 {
		t.Errorf("ToReal(150): got %f, want 15", got)
	}
	if got := c.ToReal(0); got != 0 {
		t.Errorf("ToReal(0): got %f, want 0", got)
	}
}

func TestConverter_LinearAndInvertible(t *testing.T) {
	scales := [][2]float64{{100, 10}, {3, 7}, {0.5, 250}, {1234.5, 1}}
	diameters := []float64{1, 42.5, 100 * math.Sqrt2, 9999}

	for _, s := range scales {
		c, err := NewConverter(s[0], s[1], "mm")
		if err != nil {
			t.Fatal(err)
		}
		for _, d := range diameters {
			real := c.ToReal(d)
			if math.Abs(real/d-s[1]/s[0]) > 1e-12 {
				t.Errorf("scale %v, d=%f: ratio %f, want %f", s, d, real/d, s[1]/s[0])
			}
			if back := c.ToPixels(real); math.Abs(back-d) > 1e-9*d {
				t.Errorf("scale %v: ToPixels(ToReal(%f)) = %f", s, d, back)
			}
		}
	}
}
