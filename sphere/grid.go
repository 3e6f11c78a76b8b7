package sphere

import (
	"errors"
	"fmt"
	"math"

	"github.com/wiless/vlib"
)

var (
	ErrEmptyGrid     = errors.New("sphere: empty grid")
	ErrShapeMismatch = errors.New("sphere: shape mismatch")
	ErrUnknownMode   = errors.New("sphere: unknown interpolation mode")
)

// Grid is a read-only set of samples indexed [phi][theta] on uniform theta
// and phi axes. It is safe for concurrent use.
type Grid struct {
	theta, phi axis
	values     vlib.MatrixF
}

// NewGrid checks that values is len(phi) rows of len(theta) samples. The
// axes must be ascending and uniformly spaced; only their end points and
// length are used. values is kept, not copied.
func NewGrid(theta, phi vlib.VectorF, values vlib.MatrixF) (*Grid, error) {
	if len(theta) == 0 || len(phi) == 0 {
		return nil, ErrEmptyGrid
	}
	if len(values) != len(phi) {
		return nil, fmt.Errorf("%w: %d phi rows for %d phi samples", ErrShapeMismatch, len(values), len(phi))
	}
	for p, row := range values {
		if len(row) != len(theta) {
			return nil, fmt.Errorf("%w: row %d has %d samples, want %d", ErrShapeMismatch, p, len(row), len(theta))
		}
	}
	return &Grid{
		theta:  newAxis(theta),
		phi:    newPeriodicAxis(phi),
		values: values,
	}, nil
}

// Wraps reports whether the azimuth axis covers the full circle.
func (g *Grid) Wraps() bool {
	return g.phi.period > 0
}

// sample treats a non-finite stored value as 0.
func (g *Grid) sample(p, t int) float64 {
	v := g.values[g.phi.index(p)][g.theta.index(t)]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// At interpolates the grid at one direction. The result is always finite
// and non-negative. A mode outside ModeNames is read as Bicubic, the
// default; Interpolate rejects it instead.
func (g *Grid) At(theta, phi float64, mode Mode) float64 {
	theta, phi = Normalize(theta, phi)
	i, ft := g.theta.locate(theta)
	j, fp := g.phi.locate(phi)

	var v float64
	switch mode {
	case Bilinear:
		v = g.bilinear(i, j, ft, fp)
	default:
		v = g.bicubic(i, j, ft, fp)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func (g *Grid) bilinear(i, j int, ft, fp float64) float64 {
	lo := (1-ft)*g.sample(j, i) + ft*g.sample(j, i+1)
	hi := (1-ft)*g.sample(j+1, i) + ft*g.sample(j+1, i+1)
	return (1-fp)*lo + fp*hi
}

// bicubic runs the Catmull-Rom kernel along theta on four phi rows, then
// along phi on the four results.
func (g *Grid) bicubic(i, j int, ft, fp float64) float64 {
	wt, wp := catmullRom(ft), catmullRom(fp)
	var v float64
	for a := 0; a < 4; a++ {
		var row float64
		for b := 0; b < 4; b++ {
			row += wt[b] * g.sample(j+a-1, i+b-1)
		}
		v += wp[a] * row
	}
	return v
}

// catmullRom returns the weights of samples -1, 0, 1, 2 at offset t from
// sample 0.
func catmullRom(t float64) [4]float64 {
	t2, t3 := t*t, t*t*t
	return [4]float64{
		(-t3 + 2*t2 - t) / 2,
		(3*t3 - 5*t2 + 2) / 2,
		(-3*t3 + 4*t2 + t) / 2,
		(t3 - t2) / 2,
	}
}

// Interpolate evaluates the grid at every (theta[k], phi[k]) pair. The
// output is allocated per call.
func (g *Grid) Interpolate(theta, phi []float64, mode Mode) ([]float64, error) {
	if len(theta) != len(phi) {
		return nil, fmt.Errorf("%w: %d theta and %d phi queries", ErrShapeMismatch, len(theta), len(phi))
	}
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrUnknownMode, mode)
	}
	out := make([]float64, len(theta))
	for k := range theta {
		out[k] = g.At(theta[k], phi[k], mode)
	}
	return out, nil
}
