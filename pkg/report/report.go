// Package report turns diameter records and class counts into table rows and
// writes them as CSV files.
package report

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/menta2k/label-analyzer/internal/utils"
	"github.com/menta2k/label-analyzer/pkg/classes"
	"github.com/menta2k/label-analyzer/pkg/counter"
	"github.com/menta2k/label-analyzer/pkg/types"
)

// Output file names
const (
	DiametersFile  = "diameters.csv"
	SummaryFile    = "diameter_summary.csv"
	PerImagePrefix = "counts_per_image"
	TotalPrefix    = "counts_total"
	csvExt         = ".csv"
)

// DiameterHeader is the fixed header of the diameter report
var DiameterHeader = []string{"image", "label_file", "class_id", "diameter_pixels", "real_diameter", "unit"}

// Table is a header plus its rows
type Table struct {
	Header []string
	Rows   [][]string
}

// Assembler builds report tables. Count and summary tables gain a
// class_name column when names are known.
type Assembler struct {
	names classes.Names
}

// NewAssembler creates an assembler; names may be nil
func NewAssembler(names classes.Names) *Assembler {
	return &Assembler{names: names}
}

func (a *Assembler) withNames() bool {
	return len(a.names) > 0
}

// Diameters lays out one row per record, in record order
func (a *Assembler) Diameters(records []types.DiameterRecord) Table {
	t := Table{Header: DiameterHeader}
	for _, r := range records {
		t.Rows = append(t.Rows, []string{
			r.Image,
			r.LabelFile,
			strconv.Itoa(r.ClassID),
			formatFloat(r.DiameterPixels),
			formatFloat(r.RealDiameter),
			r.Unit,
		})
	}
	return t
}

// PerFile lays out per-file counts ordered by file name then class id
func (a *Assembler) PerFile(tally counter.Tally) Table {
	t := Table{Header: a.header([]string{"image", "class_id"}, "count")}
	for _, fc := range tally.SortedFiles() {
		for _, id := range fc.Counts.Classes() {
			row := []string{fc.Name, strconv.Itoa(id)}
			t.Rows = append(t.Rows, a.row(row, id, strconv.Itoa(fc.Counts[id])))
		}
	}
	return t
}

// Totals lays out the aggregate counts ordered by class id
func (a *Assembler) Totals(tally counter.Tally) Table {
	t := Table{Header: a.header([]string{"class_id"}, "total_count")}
	for _, id := range tally.Total.Classes() {
		t.Rows = append(t.Rows, a.row([]string{strconv.Itoa(id)}, id, strconv.Itoa(tally.Total[id])))
	}
	return t
}

// ClassSummary holds real-diameter statistics for one class
type ClassSummary struct {
	ClassID int
	Count   int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	Unit    string
}

// Summarize groups records by class id. StdDev is the sample standard
// deviation and 0 for a single record.
func Summarize(records []types.DiameterRecord) []ClassSummary {
	groups := make(map[int][]float64)
	units := make(map[int]string)
	for _, r := range records {
		groups[r.ClassID] = append(groups[r.ClassID], r.RealDiameter)
		if _, ok := units[r.ClassID]; !ok {
			units[r.ClassID] = r.Unit
		}
	}

	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]ClassSummary, 0, len(ids))
	for _, id := range ids {
		xs := groups[id]
		mean, std := stat.MeanStdDev(xs, nil)
		if len(xs) < 2 || math.IsNaN(std) {
			std = 0
		}
		out = append(out, ClassSummary{
			ClassID: id,
			Count:   len(xs),
			Mean:    mean,
			StdDev:  std,
			Min:     floats.Min(xs),
			Max:     floats.Max(xs),
			Unit:    units[id],
		})
	}
	return out
}

// Summary lays out Summarize's result
func (a *Assembler) Summary(records []types.DiameterRecord) Table {
	t := Table{Header: a.header([]string{"class_id"}, "count", "mean", "std_dev", "min", "max", "unit")}
	for _, s := range Summarize(records) {
		t.Rows = append(t.Rows, a.row([]string{strconv.Itoa(s.ClassID)}, s.ClassID,
			strconv.Itoa(s.Count),
			formatFloat(s.Mean),
			formatFloat(s.StdDev),
			formatFloat(s.Min),
			formatFloat(s.Max),
			s.Unit,
		))
	}
	return t
}

func (a *Assembler) header(lead []string, tail ...string) []string {
	h := append([]string{}, lead...)
	if a.withNames() {
		h = append(h, "class_name")
	}
	return append(h, tail...)
}

func (a *Assembler) row(lead []string, id int, tail ...string) []string {
	r := append([]string{}, lead...)
	if a.withNames() {
		r = append(r, a.names.Name(id))
	}
	return append(r, tail...)
}

// WriteDiameters writes the diameter report and the per-class summary into
// dir and returns their paths.
func (a *Assembler) WriteDiameters(dir string, records []types.DiameterRecord) ([]string, error) {
	if err := utils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	diamPath := filepath.Join(dir, DiametersFile)
	if err := WriteCSV(diamPath, a.Diameters(records)); err != nil {
		return nil, err
	}
	sumPath := filepath.Join(dir, SummaryFile)
	if err := WriteCSV(sumPath, a.Summary(records)); err != nil {
		return []string{diamPath}, err
	}
	return []string{diamPath, sumPath}, nil
}

// WriteCounts writes the per-file and total count reports into dir under a
// shared, previously unused index and returns their paths.
func (a *Assembler) WriteCounts(dir string, tally counter.Tally) ([]string, error) {
	idx, err := nextCountIndex(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare output directory: %w", err)
	}

	perFilePath := filepath.Join(dir, utils.IndexedFilename(PerImagePrefix, idx, csvExt))
	if err := WriteCSV(perFilePath, a.PerFile(tally)); err != nil {
		return nil, err
	}
	totalPath := filepath.Join(dir, utils.IndexedFilename(TotalPrefix, idx, csvExt))
	if err := WriteCSV(totalPath, a.Totals(tally)); err != nil {
		return []string{perFilePath}, err
	}
	return []string{perFilePath, totalPath}, nil
}

// nextCountIndex keeps the two count files paired even if one of them was
// removed by hand.
func nextCountIndex(dir string) (int, error) {
	idx, err := utils.NextIndex(dir, PerImagePrefix, csvExt)
	if err != nil {
		return 0, err
	}
	totalIdx, err := utils.NextIndex(dir, TotalPrefix, csvExt)
	if err != nil {
		return 0, err
	}
	if totalIdx > idx {
		idx = totalIdx
	}
	return idx, nil
}

// WriteCSV writes a table to path, replacing any existing file
func WriteCSV(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(t.Header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
