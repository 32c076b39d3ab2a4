// Package classes resolves class ids to names from a sidecar list where line
// N (0-based) names class N.
package classes

import (
	"fmt"
	"os"
	"strings"

	"github.com/menta2k/label-analyzer/pkg/annotation"
)

// Names maps class ids to human-readable labels
type Names map[int]string

// Parse builds a mapping from list text. Blank lines keep their index and
// map to an empty name.
func Parse(text string) Names {
	names := make(Names)
	for i, line := range annotation.SplitLines(text) {
		if name := strings.TrimSpace(line); name != "" {
			names[i] = name
		}
	}
	return names
}

// FromList builds a mapping from an in-memory list
func FromList(list []string) Names {
	return Parse(strings.Join(list, "\n"))
}

// Load reads a class list file. An empty path yields an empty mapping.
func Load(path string) (Names, error) {
	if path == "" {
		return Names{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classes file: %w", err)
	}
	text, err := annotation.DecodeText(data, nil)
	if err != nil {
		return nil, err
	}
	return Parse(text), nil
}

// Name returns the label for id, or "" when the id has no entry
func (n Names) Name(id int) string {
	return n[id]
}

// Empty reports whether no names are known
func (n Names) Empty() bool {
	return len(n) == 0
}
