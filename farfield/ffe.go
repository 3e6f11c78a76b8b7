package farfield

import (
	"strconv"
	"strings"
)

const (
	ffeFrequency    = "#Frequency: "
	ffeThetaSamples = "#No. of Theta Samples: "
	ffePhiSamples   = "#No. of Phi Samples: "
	ffeDataMarker   = "Re(Etheta)"
)

var ffeLayout = layout{
	marker:      ffeDataMarker,
	columns:     9,
	theta:       0,
	phi:         1,
	directivity: 8,
}

// FFE is the FEKO far-field export dialect. Records are
// {theta, phi, Re(Etheta), Im(Etheta), Re(Ephi), Im(Ephi), Dtheta, Dphi, Dtotal}.
// The directivity columns only feed SampleGrid.DirectivityRatio.
type FFE struct{}

func (FFE) Name() string { return "ffe" }

func (FFE) Parse(lines []string) (*SampleGrid, error) {
	h, err := ffeHeader(lines)
	if err != nil {
		return nil, err
	}
	g, err := ffeLayout.read(lines, h)
	if err != nil {
		return nil, err
	}
	g.Dialect = "ffe"
	return g, nil
}

// colonValue returns what follows the first ": " of line.
func colonValue(line string) string {
	i := strings.Index(line, ": ")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(line[i+2:])
}

func ffeHeader(lines []string) (Header, error) {
	// FEKO exports carry no power block unless one was added by hand.
	h := Header{RadiatedPower: 1, AcceptedPower: 1, StimulatedPower: 1}
	var haveTheta, havePhi bool
	for i, line := range lines {
		var err error
		switch {
		case strings.Contains(line, powerMarker):
			err = parsePowerBlock(lines, i, &h)
		case strings.Contains(line, ffeFrequency):
			if h.Frequency, err = strconv.ParseFloat(colonValue(line), 64); err != nil {
				err = malformed("frequency: %v", err)
			}
		case strings.Contains(line, ffeThetaSamples):
			if h.ThetaSamples, err = strconv.Atoi(colonValue(line)); err != nil {
				err = malformed("theta samples: %v", err)
			}
			haveTheta = true
		case strings.Contains(line, ffePhiSamples):
			if h.PhiSamples, err = strconv.Atoi(colonValue(line)); err != nil {
				err = malformed("phi samples: %v", err)
			}
			havePhi = true
		}
		if err != nil {
			return h, err
		}
		if haveTheta && havePhi {
			return h, checkSamples(h)
		}
	}
	if !haveTheta {
		return h, malformed("%q not found", strings.TrimSpace(ffeThetaSamples))
	}
	return h, malformed("%q not found", strings.TrimSpace(ffePhiSamples))
}
