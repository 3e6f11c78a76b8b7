package farfield

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Dialect parses the lines of one far-field file layout into a SampleGrid.
type Dialect interface {
	Name() string
	Parse(lines []string) (*SampleGrid, error)
}

// DialectNames lists the dialects understood by DialectByName.
var DialectNames = [...]string{
	"ffs",
	"ffe",
}

// DialectByName returns the dialect for name, which may carry a leading dot
// so that a file extension can be passed as is.
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "ffs":
		return FFS{}, nil
	case "ffe":
		return FFE{}, nil
	}
	return nil, fmt.Errorf("unknown far-field dialect %q", name)
}

// Detect picks the dialect from the file extension and falls back to the
// data block markers found in lines.
func Detect(path string, lines []string) (Dialect, error) {
	if d, err := DialectByName(filepath.Ext(path)); err == nil {
		return d, nil
	}
	for _, line := range lines {
		switch {
		case strings.Contains(line, ffsDataMarker):
			return FFS{}, nil
		case strings.Contains(line, ffeDataMarker):
			return FFE{}, nil
		}
	}
	return nil, malformed("%s: no known data block marker", filepath.Base(path))
}

// Shared by both dialects: four values on the lines following the marker.
const powerMarker = "Radiated/Accepted/Stimulated Power , Frequency"

func parsePowerBlock(lines []string, i int, h *Header) error {
	dst := []*float64{&h.RadiatedPower, &h.AcceptedPower, &h.StimulatedPower, &h.Frequency}
	for k, v := range dst {
		s, err := lineAfter(lines, i, k+1)
		if err != nil {
			return err
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return malformed("power block line %d: %v", i+k+2, err)
		}
		*v = f
	}
	return nil
}

func lineAfter(lines []string, i, offset int) (string, error) {
	if i+offset >= len(lines) {
		return "", malformed("header ends after line %d", i+1)
	}
	return strings.TrimSpace(lines[i+offset]), nil
}

// layout locates the columns of one data record.
type layout struct {
	marker      string
	columns     int
	phi, theta  int
	directivity int // total directivity column, -1 when absent
}

// Field components always follow the two angle columns.
const (
	colReETheta = 2 + iota
	colImETheta
	colReEPhi
	colImEPhi
)

func (l layout) read(lines []string, h Header) (*SampleGrid, error) {
	start := -1
	for i, line := range lines {
		if strings.Contains(line, l.marker) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil, malformed("data block marker %q not found", l.marker)
	}

	g := newSampleGrid(h, l.directivity >= 0)
	total := h.Records()
	record := make([]float64, l.columns)
	for j := 0; j < total; j++ {
		n := start + j
		if n >= len(lines) {
			g.Truncation = &TruncatedDataBlock{Expected: total, Read: j}
			break
		}
		if !parseRecord(lines[n], record) {
			g.Truncation = &TruncatedDataBlock{Expected: total, Read: j, Line: n + 1}
			break
		}
		p, t := j/h.ThetaSamples, j%h.ThetaSamples
		g.Phi[p][t] = record[l.phi]
		g.Theta[p][t] = record[l.theta]
		g.ETheta[p][t] = complex(record[colReETheta], record[colImETheta])
		g.EPhi[p][t] = complex(record[colReEPhi], record[colImEPhi])
		if l.directivity >= 0 {
			g.Directivity[p][t] = record[l.directivity]
		}
		g.Read++
	}
	g.toRadians()
	g.completeAxes()
	return g, nil
}

// parseRecord fills dst from the leading whitespace separated fields of
// line. Runs of blanks count as one separator.
func parseRecord(line string, dst []float64) bool {
	fields := strings.Fields(line)
	if len(fields) < len(dst) {
		return false
	}
	for i := range dst {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return false
		}
		dst[i] = v
	}
	return true
}
