package types

import "fmt"

// Dimensions is the pixel size of the image a label file annotates
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Known reports whether both sides are positive and usable for scaling
// normalized coordinates.
func (d *Dimensions) Known() bool {
	return d != nil && d.Width > 0 && d.Height > 0
}

// DiameterRecord is the estimated size of one annotated object
type DiameterRecord struct {
	Image          string  `json:"image"`
	LabelFile      string  `json:"label_file"`
	ClassID        int     `json:"class_id"`
	DiameterPixels float64 `json:"diameter_pixels"`
	RealDiameter   float64 `json:"real_diameter"`
	Unit           string  `json:"unit"`
}

// Diagnostic describes a line or file that was skipped. Line is 1-based and
// zero when the problem concerns the whole file.
type Diagnostic struct {
	File string
	Line int
	Err  error
}

func (d Diagnostic) Error() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s:%d: %v", d.File, d.Line, d.Err)
	}
	return fmt.Sprintf("%s: %v", d.File, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// ProcessingOptions controls how the image belonging to a label file is found
type ProcessingOptions struct {
	ImageExtensions []string
	ImageSearchDirs []string
}
