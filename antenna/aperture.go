// Package antenna exposes a far-field pattern file as an Aperture: a
// read-only directive gain pattern that can be queried at any direction.
package antenna

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"

	"github.com/wiless/reflector/farfield"
	"github.com/wiless/reflector/sphere"
)

// Aperture is one loaded far-field pattern. It is immutable after Load and
// safe to share between goroutines.
type Aperture struct {
	path    string
	dialect string
	mode    sphere.Mode
	header  farfield.Header

	theta, phi vlib.VectorF
	gain       vlib.MatrixF
	grid       *sphere.Grid
	maxGain    float64

	truncation *farfield.TruncatedDataBlock
	degenerate int
}

// Load builds an Aperture from path with default settings.
func Load(path string) (*Aperture, error) {
	return LoadWithSettings(path, *NewSettings())
}

// LoadWithSettings parses path, builds the gain grid and prepares the
// interpolator. Only a file whose sample counts cannot be found, or that
// cannot be read, fails; a truncated data block is logged and kept.
func LoadWithSettings(path string, s Settings) (*Aperture, error) {
	mode, err := sphere.ParseMode(s.Mode)
	if err != nil {
		return nil, err
	}
	dialect, err := s.dialect()
	if err != nil {
		return nil, err
	}

	samples, err := farfield.ReadFile(path, dialect)
	if err != nil {
		return nil, fmt.Errorf("load aperture: %w", err)
	}
	fields := log.Fields{"path": path, "dialect": samples.Dialect}

	if samples.Truncation != nil {
		log.WithFields(fields).WithFields(log.Fields{
			"expected": samples.Truncation.Expected,
			"read":     samples.Truncation.Read,
		}).Warn("antenna: truncated data block, unread samples have zero gain")
	}

	h := samples.Header
	if ratio, ok := samples.DirectivityRatio(); ok {
		switch {
		case s.NormalizeToDirectivity:
			h.RadiatedPower /= ratio
			log.WithFields(fields).WithField("ratio", ratio).Debug("antenna: radiated power scaled to directivity")
		case math.Abs(ratio-1) > s.DirectivityTolerance:
			log.WithFields(fields).WithField("ratio", ratio).Warn("antenna: peak gain does not match peak directivity")
		}
	}

	gain := farfield.BuildGain(h, samples.ETheta, samples.EPhi)
	// Degenerate normalization: non-finite or negative gain becomes 0 here,
	// the first point of use, and is counted rather than hidden.
	degenerate := farfield.Sanitize(gain)
	if degenerate > 0 {
		log.WithFields(fields).WithFields(log.Fields{
			"samples":        degenerate,
			"radiated_power": h.RadiatedPower,
		}).Warn("antenna: degenerate gain normalization, samples set to 0")
	}

	theta, phi := samples.ThetaAxis(), samples.PhiAxis()
	grid, err := sphere.NewGrid(theta, phi, gain)
	if err != nil {
		return nil, fmt.Errorf("load aperture %s: %w", path, err)
	}

	a := &Aperture{
		path:       path,
		dialect:    samples.Dialect,
		mode:       mode,
		header:     h,
		theta:      theta,
		phi:        phi,
		gain:       gain,
		grid:       grid,
		maxGain:    farfield.MaxOf(gain),
		truncation: samples.Truncation,
		degenerate: degenerate,
	}

	log.WithFields(fields).WithFields(log.Fields{
		"phi_samples":   h.PhiSamples,
		"theta_samples": h.ThetaSamples,
		"max_gain_dbi":  a.MaxGainDb(),
	}).Info("antenna: pattern loaded")
	return a, nil
}

// MeshGainPattern returns the gain at every (theta, phi) of two meshes of
// equal shape, in radians, with the aperture's default mode.
func (a *Aperture) MeshGainPattern(theta, phi vlib.MatrixF) (vlib.MatrixF, error) {
	return a.MeshGainPatternMode(theta, phi, a.mode)
}

// MeshGainPatternMode is MeshGainPattern with an explicit mode. Negative
// theta is read as the mirror direction through the pole. Every value is
// finite and non-negative.
func (a *Aperture) MeshGainPatternMode(theta, phi vlib.MatrixF, mode sphere.Mode) (vlib.MatrixF, error) {
	if len(theta) != len(phi) {
		return nil, fmt.Errorf("%w: %d theta rows, %d phi rows", sphere.ErrShapeMismatch, len(theta), len(phi))
	}
	var flatTheta, flatPhi []float64
	for r := range theta {
		if len(theta[r]) != len(phi[r]) {
			return nil, fmt.Errorf("%w: row %d has %d theta, %d phi", sphere.ErrShapeMismatch, r, len(theta[r]), len(phi[r]))
		}
		flatTheta = append(flatTheta, theta[r]...)
		flatPhi = append(flatPhi, phi[r]...)
	}

	flat, err := a.grid.Interpolate(flatTheta, flatPhi, mode)
	if err != nil {
		return nil, err
	}

	out := make(vlib.MatrixF, len(theta))
	k := 0
	for r := range theta {
		out[r] = vlib.VectorF(flat[k : k+len(theta[r]) : k+len(theta[r])])
		k += len(theta[r])
	}
	return out, nil
}

// GainPattern evaluates flat query slices of equal length.
func (a *Aperture) GainPattern(theta, phi []float64, mode sphere.Mode) ([]float64, error) {
	return a.grid.Interpolate(theta, phi, mode)
}

// Gain returns the gain in one direction with the default mode.
func (a *Aperture) Gain(theta, phi float64) float64 {
	return a.grid.At(theta, phi, a.mode)
}

// MaxGain is the largest stored gain sample, not an interpolated value.
func (a *Aperture) MaxGain() float64 {
	return a.maxGain
}

// MaxGainDb is MaxGain in dBi.
func (a *Aperture) MaxGainDb() float64 {
	return vlib.Db(a.maxGain)
}

func (a *Aperture) Path() string            { return a.path }
func (a *Aperture) Dialect() string         { return a.dialect }
func (a *Aperture) Mode() sphere.Mode       { return a.mode }
func (a *Aperture) Header() farfield.Header { return a.header }

// Truncation is non-nil when the file held fewer records than announced.
func (a *Aperture) Truncation() *farfield.TruncatedDataBlock {
	if a.truncation == nil {
		return nil
	}
	t := *a.truncation
	return &t
}

// Degenerate is the number of gain samples replaced by 0 because the
// normalization produced a non-finite or negative value.
func (a *Aperture) Degenerate() int {
	return a.degenerate
}

// ThetaAxis returns a copy of the theta axis in radians.
func (a *Aperture) ThetaAxis() vlib.VectorF {
	return append(vlib.VectorF(nil), a.theta...)
}

// PhiAxis returns a copy of the phi axis in radians.
func (a *Aperture) PhiAxis() vlib.VectorF {
	return append(vlib.VectorF(nil), a.phi...)
}

// GainGrid returns a copy of the stored gain, indexed [phi][theta].
func (a *Aperture) GainGrid() vlib.MatrixF {
	out := make(vlib.MatrixF, len(a.gain))
	for p := range a.gain {
		out[p] = append(vlib.VectorF(nil), a.gain[p]...)
	}
	return out
}
