package sphere

import (
	"math"

	"github.com/wiless/vlib"
)

// axis is a uniformly sampled coordinate. Neighbours are found by
// arithmetic on start and step, never by search.
type axis struct {
	start, step float64
	n           int
	// period is the number of samples covering 2pi, 0 when the axis does
	// not wrap. It is n-1 when the last sample repeats the first.
	period int
}

func newAxis(v vlib.VectorF) axis {
	a := axis{n: len(v)}
	if a.n == 0 {
		return a
	}
	a.start = v[0]
	if a.n > 1 {
		a.step = (v[a.n-1] - v[0]) / float64(a.n-1)
	}
	return a
}

// newPeriodicAxis is newAxis for an azimuth axis. It wraps only when the
// samples cover the full circle.
func newPeriodicAxis(v vlib.VectorF) axis {
	a := newAxis(v)
	if a.step <= 0 {
		return a
	}
	cells := twoPi / a.step
	p := math.Round(cells)
	if math.Abs(cells-p) > 1e-3 {
		return a
	}
	switch int(p) {
	case a.n:
		a.period = a.n
	case a.n - 1:
		a.period = a.n - 1
	}
	return a
}

// locate returns the index of the sample at or below x and the fractional
// offset towards the next one. Non wrapping axes clamp x to their span.
func (a axis) locate(x float64) (int, float64) {
	if a.n < 2 || a.step <= 0 {
		return 0, 0
	}
	u := (x - a.start) / a.step
	if a.period > 0 {
		u = math.Mod(u, float64(a.period))
		if u < 0 {
			u += float64(a.period)
		}
		i := int(math.Floor(u))
		if i >= a.period {
			i = a.period - 1
		}
		return i, u - float64(i)
	}
	u = math.Max(0, math.Min(u, float64(a.n-1)))
	i := int(math.Floor(u))
	if i > a.n-2 {
		i = a.n - 2
	}
	return i, u - float64(i)
}

// index maps a stencil index onto a stored sample, wrapping periodic axes
// and clamping the others.
func (a axis) index(i int) int {
	if a.period > 0 {
		i %= a.period
		if i < 0 {
			i += a.period
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i >= a.n {
		return a.n - 1
	}
	return i
}
