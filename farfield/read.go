package farfield

import (
	"fmt"
	"os"
	"strings"
)

// ReadFile loads path in a single read and parses it with d. A nil d picks
// the dialect with Detect. A truncated data block is not an error; check
// SampleGrid.Truncation.
func ReadFile(path string, d Dialect) (*SampleGrid, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read far field: %w", err)
	}

	lines := SplitLines(string(b))
	if d == nil {
		if d, err = Detect(path, lines); err != nil {
			return nil, err
		}
	}

	g, err := d.Parse(lines)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", path, d.Name(), err)
	}
	return g, nil
}

// SplitLines splits content on newlines, dropping carriage returns.
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
