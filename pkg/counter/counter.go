// Package counter aggregates class occurrences per label file and overall.
package counter

import (
	"sort"
)

// Counts maps a class id to its number of occurrences
type Counts map[int]int

// CountIDs builds a table from a sequence of class ids
func CountIDs(ids []int) Counts {
	c := make(Counts)
	for _, id := range ids {
		c[id]++
	}
	return c
}

// Classes returns the class ids in ascending order
func (c Counts) Classes() []int {
	ids := make([]int, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Sum returns the number of occurrences over all classes
func (c Counts) Sum() int {
	n := 0
	for _, v := range c {
		n += v
	}
	return n
}

// Merge returns a new table holding c plus other
func (c Counts) Merge(other Counts) Counts {
	out := make(Counts, len(c))
	for id, n := range c {
		out[id] = n
	}
	for id, n := range other {
		out[id] += n
	}
	return out
}

// FileCounts is the table for one label file
type FileCounts struct {
	Name   string
	Path   string
	Counts Counts
}

// Tally is the running accumulator of a counting pass. It is passed through
// each per-file step and returned updated; the zero value is ready to use.
type Tally struct {
	Files []FileCounts
	Total Counts
}

// Add records the class ids of one file and returns the updated tally.
// The receiver's slices and maps are not shared with the result.
func (t Tally) Add(name, path string, ids []int) Tally {
	fc := FileCounts{Name: name, Path: path, Counts: CountIDs(ids)}

	files := make([]FileCounts, len(t.Files), len(t.Files)+1)
	copy(files, t.Files)

	return Tally{
		Files: append(files, fc),
		Total: t.Total.Merge(fc.Counts),
	}
}

// Merge combines two tallies. Per-file entries are concatenated.
func (t Tally) Merge(other Tally) Tally {
	files := make([]FileCounts, 0, len(t.Files)+len(other.Files))
	files = append(files, t.Files...)
	files = append(files, other.Files...)
	return Tally{Files: files, Total: t.Total.Merge(other.Total)}
}

// SortedFiles returns the per-file tables ordered by file name, then path
func (t Tally) SortedFiles() []FileCounts {
	files := make([]FileCounts, len(t.Files))
	copy(files, t.Files)
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Name != files[j].Name {
			return files[i].Name < files[j].Name
		}
		return files[i].Path < files[j].Path
	})
	return files
}
