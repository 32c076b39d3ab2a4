package types

import (
	"errors"
	"testing"
)

func TestDimensionsKnown(t *testing.T) {
	var nilDims *Dimensions
	tests := []struct {
		name string
		d    *Dimensions
		want bool
	}{
		{"nil", nilDims, false},
		{"zero", &Dimensions{}, false},
		{"zero height", &Dimensions{Width: 10}, false},
		{"positive", &Dimensions{Width: 10, Height: 5}, true},
	}

	for _, tt := range tests {
		if got := tt.d.Known(); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDiagnostic(t *testing.T) {
	base := errors.New("boom")

	d := Diagnostic{File: "a.txt", Line: 3, Err: base}
	if d.Error() != "a.txt:3: boom" {
		t.Errorf("unexpected message %q", d.Error())
	}
	if !errors.Is(d, base) {
		t.Error("Diagnostic should unwrap to its error")
	}

	fileLevel := Diagnostic{File: "a.txt", Err: base}
	if fileLevel.Error() != "a.txt: boom" {
		t.Errorf("unexpected message %q", fileLevel.Error())
	}
}
