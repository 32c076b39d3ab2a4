package utils

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// LabelExtension is the extension of annotation files
const LabelExtension = ".txt"

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return os.MkdirAll(dir, 0755)
	}
	return nil
}

// IsLabelFile checks if a file has the label extension
func IsLabelFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), LabelExtension)
}

// ListLabelFiles returns path itself when it is a file, or every label file
// beneath it when it is a directory, sorted. Paths in exclude are skipped.
// A path that does not exist yields no files and no error.
func ListLabelFiles(path string, exclude ...string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		if e == "" {
			continue
		}
		if abs, err := filepath.Abs(e); err == nil {
			skip[abs] = true
		}
	}
	excluded := func(p string) bool {
		abs, err := filepath.Abs(p)
		return err == nil && skip[abs]
	}

	if !info.IsDir() {
		if excluded(path) {
			return nil, nil
		}
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable entries are skipped, the rest of the tree is still listed
			if d != nil && d.IsDir() && p != path {
				return filepath.SkipDir
			}
			if p == path {
				return err
			}
			return nil
		}
		if !d.IsDir() && IsLabelFile(p) && !excluded(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// NextIndex returns one more than the highest NNN among files named
// <prefix>_NNN<ext> in dir, or 1 when there are none. The directory is
// created if needed.
func NextIndex(dir, prefix, ext string) (int, error) {
	if err := EnsureDir(dir); err != nil {
		return 0, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}

	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(prefix) + `_(\d+)` + regexp.QuoteMeta(ext) + "$")
	maxIdx := 0
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		m := pattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		if idx, err := strconv.Atoi(m[1]); err == nil && idx > maxIdx {
			maxIdx = idx
		}
	}
	return maxIdx + 1, nil
}

// IndexedFilename formats <prefix>_NNN<ext>
func IndexedFilename(prefix string, idx int, ext string) string {
	return fmt.Sprintf("%s_%03d%s", prefix, idx, ext)
}

// FileExists checks if a file exists and is not a directory
func FileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
