// Package labelanalyzer summarizes object-detection label files.
//
// Label files hold one object per line: a class id followed by a box
// (x y w h), a rotated box (x y w h angle) or a quadrilateral
// (x1 y1 ... x4 y4), in normalized or pixel coordinates. Two summaries are
// produced:
//
//   - class counts per label file and over all files
//   - object diameters in pixels and, through a reference scale bar, in
//     real-world units
//
// Basic usage:
//
//	package main
//
//	import (
//		"log"
//		"os"
//
//		labelanalyzer "github.com/menta2k/label-analyzer"
//		"github.com/menta2k/label-analyzer/pkg/scale"
//	)
//
//	func main() {
//		files, err := labelanalyzer.Discover("dataset/labels", "")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		conv, err := scale.NewConverter(100, 10, "um")
//		if err != nil {
//			log.Fatal(err)
//		}
//
//		a := labelanalyzer.New(log.New(os.Stderr, "", 0))
//		result := a.Diameters(files, conv)
//		for _, r := range result.Records {
//			log.Printf("%s class %d: %.2f %s", r.LabelFile, r.ClassID, r.RealDiameter, r.Unit)
//		}
//	}
//
// Problems with single lines or files never stop a run. They are logged and
// returned as diagnostics while the remaining input is processed. Only an
// invalid scale or an input without label files is fatal.
package labelanalyzer

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/menta2k/label-analyzer/internal/utils"
	"github.com/menta2k/label-analyzer/pkg/annotation"
	"github.com/menta2k/label-analyzer/pkg/counter"
	"github.com/menta2k/label-analyzer/pkg/geometry"
	"github.com/menta2k/label-analyzer/pkg/processing"
	"github.com/menta2k/label-analyzer/pkg/scale"
	"github.com/menta2k/label-analyzer/pkg/types"
)

// Version of the label analyzer library
const Version = "1.0.0"

// ErrNoInput is returned by Discover when no label files are found
var ErrNoInput = errors.New("no .txt label files found")

// ImageLocator finds the image a label file annotates and its pixel size.
// Both results are empty when there is no image.
type ImageLocator interface {
	LookupForLabel(labelPath string) (string, *types.Dimensions, error)
}

// LabelAnalyzer runs the counting and diameter passes over label files
type LabelAnalyzer struct {
	images ImageLocator
	logger *log.Logger
}

// New creates an analyzer with the default image lookup. A nil logger
// discards diagnostics; they are still returned in results.
func New(logger *log.Logger) *LabelAnalyzer {
	return NewWithLocator(processing.NewProcessor(), logger)
}

// NewWithOptions creates an analyzer whose image lookup follows opts
func NewWithOptions(opts types.ProcessingOptions, logger *log.Logger) *LabelAnalyzer {
	return NewWithLocator(processing.NewProcessorWithOptions(opts), logger)
}

// NewWithLocator creates an analyzer with a custom image lookup
func NewWithLocator(images ImageLocator, logger *log.Logger) *LabelAnalyzer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &LabelAnalyzer{images: images, logger: logger}
}

// Discover lists the label files under path: the file itself, or every .txt
// file beneath a directory. classesFile, if set, is left out. It fails with
// ErrNoInput when nothing is found.
func Discover(path, classesFile string) ([]string, error) {
	files, err := utils.ListLabelFiles(path, classesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to list label files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoInput, path)
	}
	return files, nil
}

// DiameterResult is the outcome of a diameter pass
type DiameterResult struct {
	Records     []types.DiameterRecord
	Diagnostics []types.Diagnostic
}

// CountResult is the outcome of a counting pass
type CountResult struct {
	Tally       counter.Tally
	Diagnostics []types.Diagnostic
}

// Diameters estimates the size of every annotated object in files, in order
func (a *LabelAnalyzer) Diameters(files []string, conv *scale.Converter) DiameterResult {
	var result DiameterResult
	for _, f := range files {
		records, diags := a.DiametersForFile(f, conv)
		result.Records = append(result.Records, records...)
		result.Diagnostics = append(result.Diagnostics, diags...)
	}
	return result
}

// DiametersForFile processes one label file. Every skipped line or file
// failure is logged and returned as a diagnostic.
func (a *LabelAnalyzer) DiametersForFile(path string, conv *scale.Converter) ([]types.DiameterRecord, []types.Diagnostic) {
	var diags []types.Diagnostic

	imgPath, dims, err := a.images.LookupForLabel(path)
	if err != nil {
		// an unreadable image is treated like a missing one
		diags = append(diags, a.diagnose(path, 0, err))
		dims = nil
	}
	imageName := ""
	if imgPath != "" {
		imageName = filepath.Base(imgPath)
	}

	lines, err := annotation.ReadLines(path)
	if err != nil {
		return nil, append(diags, a.diagnose(path, 0, err))
	}

	var records []types.DiameterRecord
	for i, line := range lines {
		ann, ok, err := annotation.ParseLine(line)
		if err != nil {
			diags = append(diags, a.diagnose(path, i+1, err))
			continue
		}
		if !ok {
			continue
		}

		px, err := geometry.Estimate(ann.Coordinates, dims)
		if err != nil {
			diags = append(diags, a.diagnose(path, i+1, err))
			continue
		}

		records = append(records, types.DiameterRecord{
			Image:          imageName,
			LabelFile:      filepath.Base(path),
			ClassID:        ann.ClassID,
			DiameterPixels: px,
			RealDiameter:   conv.ToReal(px),
			Unit:           conv.Unit(),
		})
	}
	return records, diags
}

// Counts tallies class ids over files
func (a *LabelAnalyzer) Counts(files []string) CountResult {
	var result CountResult
	for _, f := range files {
		var diags []types.Diagnostic
		result.Tally, diags = a.CountFile(result.Tally, f)
		result.Diagnostics = append(result.Diagnostics, diags...)
	}
	return result
}

// CountFile adds one file's class ids to tally and returns the new tally.
// A file that cannot be read leaves tally unchanged.
func (a *LabelAnalyzer) CountFile(tally counter.Tally, path string) (counter.Tally, []types.Diagnostic) {
	lines, err := annotation.ReadLines(path)
	if err != nil {
		return tally, []types.Diagnostic{a.diagnose(path, 0, err)}
	}

	var (
		ids   []int
		diags []types.Diagnostic
	)
	for i, line := range lines {
		ann, ok, err := annotation.ParseLine(line)
		if err != nil {
			diags = append(diags, a.diagnose(path, i+1, err))
			continue
		}
		if ok {
			ids = append(ids, ann.ClassID)
		}
	}
	return tally.Add(filepath.Base(path), path, ids), diags
}

func (a *LabelAnalyzer) diagnose(file string, line int, err error) types.Diagnostic {
	d := types.Diagnostic{File: file, Line: line, Err: err}
	a.logger.Printf("warning: %v", d)
	return d
}

// GetVersion returns the library version
func GetVersion() string {
	return Version
}
