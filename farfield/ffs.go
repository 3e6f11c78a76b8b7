package farfield

import (
	"strconv"
	"strings"
)

const (
	ffsFrequencies = "Frequencies"
	ffsPosition    = "Position"
	ffsSamples     = "Total #phi samples, total #theta samples"
	ffsDataMarker  = "Phi, Theta, Re(E_Theta), Im(E_Theta), Re(E_Phi), Im(E_Phi)"
)

var ffsLayout = layout{
	marker:      ffsDataMarker,
	columns:     6,
	phi:         0,
	theta:       1,
	directivity: -1,
}

// FFS is the CST far-field source dialect. Records are
// {phi, theta, Re(Etheta), Im(Etheta), Re(Ephi), Im(Ephi)}.
type FFS struct{}

func (FFS) Name() string { return "ffs" }

func (FFS) Parse(lines []string) (*SampleGrid, error) {
	h, err := ffsHeader(lines)
	if err != nil {
		return nil, err
	}
	g, err := ffsLayout.read(lines, h)
	if err != nil {
		return nil, err
	}
	g.Dialect = "ffs"
	return g, nil
}

func ffsHeader(lines []string) (Header, error) {
	var h Header
	for i, line := range lines {
		if strings.Contains(line, ffsFrequencies) {
			s, err := lineAfter(lines, i, 1)
			if err != nil {
				return h, err
			}
			if h.Frequencies, err = strconv.Atoi(s); err != nil {
				return h, malformed("frequencies: %v", err)
			}
		}
		if strings.Contains(line, ffsPosition) {
			s, err := lineAfter(lines, i, 1)
			if err != nil {
				return h, err
			}
			fields := strings.Fields(s)
			if len(fields) < 3 {
				return h, malformed("position needs 3 values, got %d", len(fields))
			}
			for k := range h.Position {
				if h.Position[k], err = strconv.ParseFloat(fields[k], 64); err != nil {
					return h, malformed("position: %v", err)
				}
			}
			h.HasPosition = true
		}
		if strings.Contains(line, powerMarker) {
			if err := parsePowerBlock(lines, i, &h); err != nil {
				return h, err
			}
		}
		if strings.Contains(line, ffsSamples) {
			s, err := lineAfter(lines, i, 1)
			if err != nil {
				return h, err
			}
			fields := strings.Fields(s)
			if len(fields) < 2 {
				return h, malformed("sample counts need 2 values, got %d", len(fields))
			}
			if h.PhiSamples, err = strconv.Atoi(fields[0]); err != nil {
				return h, malformed("phi samples: %v", err)
			}
			if h.ThetaSamples, err = strconv.Atoi(fields[1]); err != nil {
				return h, malformed("theta samples: %v", err)
			}
			return h, checkSamples(h)
		}
	}
	return h, malformed("%q not found", ffsSamples)
}

// MaxRecords bounds the grid a header may announce. The grid is allocated
// before the data block is read, so larger counts are rejected as malformed.
const MaxRecords = 1 << 24

func checkSamples(h Header) error {
	if h.PhiSamples <= 0 || h.ThetaSamples <= 0 {
		return malformed("sample counts must be positive, got %d x %d", h.PhiSamples, h.ThetaSamples)
	}
	if h.PhiSamples > MaxRecords/h.ThetaSamples {
		return malformed("%d x %d samples exceed %d records", h.PhiSamples, h.ThetaSamples, MaxRecords)
	}
	return nil
}
