package counter

import (
	"reflect"
	"testing"
)

func TestCountIDs(t *testing.T) {
	c := CountIDs([]int{2, 0, 2, 1, 2})
	want := Counts{0: 1, 1: 1, 2: 3}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("got %v, want %v", c, want)
	}
	if c.Sum() != 5 {
		t.Errorf("Sum: got %d, want 5", c.Sum())
	}
}

func TestCounts_Classes(t *testing.T) {
	c := Counts{10: 1, -1: 2, 3: 4}
	if got := c.Classes(); !reflect.DeepEqual(got, []int{-1, 3, 10}) {
		t.Errorf("Classes not ascending: %v", got)
	}
}

func TestCounts_MergeDoesNotMutate(t *testing.T) {
	a := Counts{0: 1}
	b := Counts{0: 2, 1: 1}
	m := a.Merge(b)
	if !reflect.DeepEqual(m, Counts{0: 3, 1: 1}) {
		t.Errorf("unexpected merge: %v", m)
	}
	if a[0] != 1 || len(a) != 1 {
		t.Errorf("Merge mutated receiver: %v", a)
	}
}

func TestTally_Add(t *testing.T) {
	var tally Tally
	tally = tally.Add("b.txt", "/d/b.txt", []int{0, 0, 1})
	tally = tally.Add("a.txt", "/d/a.txt", []int{1, 2})
	tally = tally.Add("empty.txt", "/d/empty.txt", nil)

	if !reflect.DeepEqual(tally.Total, Counts{0: 2, 1: 2, 2: 1}) {
		t.Errorf("Total: got %v", tally.Total)
	}

	files := tally.SortedFiles()
	names := []string{files[0].Name, files[1].Name, files[2].Name}
	if !reflect.DeepEqual(names, []string{"a.txt", "b.txt", "empty.txt"}) {
		t.Errorf("files not sorted by name: %v", names)
	}
	if len(files[2].Counts) != 0 {
		t.Errorf("empty file should have empty counts, got %v", files[2].Counts)
	}
	// insertion order is preserved on the tally itself
	if tally.Files[0].Name != "b.txt" {
		t.Errorf("SortedFiles reordered the tally: %v", tally.Files[0].Name)
	}
}

func TestTally_AddIsPure(t *testing.T) {
	base := Tally{}.Add("a.txt", "a.txt", []int{0})
	next := base.Add("b.txt", "b.txt", []int{0, 1})

	if len(base.Files) != 1 || base.Total[0] != 1 || len(base.Total) != 1 {
		t.Errorf("Add mutated the previous tally: %+v", base)
	}
	if next.Total[0] != 2 || next.Total[1] != 1 {
		t.Errorf("unexpected totals: %v", next.Total)
	}
}

func TestTally_DoubleRunDoublesCounts(t *testing.T) {
	run := func() Tally {
		var tally Tally
		tally = tally.Add("a.txt", "a.txt", []int{0, 1, 1})
		tally = tally.Add("b.txt", "b.txt", []int{1, 3})
		return tally
	}

	single := run()
	double := run().Merge(run())

	for id, n := range single.Total {
		if double.Total[id] != 2*n {
			t.Errorf("class %d: got %d, want %d", id, double.Total[id], 2*n)
		}
	}
	if len(double.Total) != len(single.Total) {
		t.Errorf("class sets differ: %v vs %v", double.Total, single.Total)
	}
}

func TestSortedFiles_SameNameOrderedByPath(t *testing.T) {
	var tally Tally
	tally = tally.Add("x.txt", "/b/x.txt", []int{0})
	tally = tally.Add("x.txt", "/a/x.txt", []int{1})

	files := tally.SortedFiles()
	if files[0].Path != "/a/x.txt" {
		t.Errorf("expected /a/x.txt first, got %s", files[0].Path)
	}
}
