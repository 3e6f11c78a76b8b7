package farfield

import (
	"math"

	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/floats"
)

// SampleGrid holds the parsed samples of one file, indexed [phi][theta].
// Angles are in radians. The grid is not modified after parsing.
type SampleGrid struct {
	Header  Header
	Dialect string

	Theta  vlib.MatrixF
	Phi    vlib.MatrixF
	ETheta [][]complex128
	EPhi   [][]complex128

	// Directivity is the total directivity column, nil for dialects
	// without one.
	Directivity vlib.MatrixF

	Read       int
	Truncation *TruncatedDataBlock
}

func newSampleGrid(h Header, directivity bool) *SampleGrid {
	g := &SampleGrid{
		Header: h,
		Theta:  vlib.NewMatrixF(h.PhiSamples, h.ThetaSamples),
		Phi:    vlib.NewMatrixF(h.PhiSamples, h.ThetaSamples),
		ETheta: newComplexGrid(h.PhiSamples, h.ThetaSamples),
		EPhi:   newComplexGrid(h.PhiSamples, h.ThetaSamples),
	}
	if directivity {
		g.Directivity = vlib.NewMatrixF(h.PhiSamples, h.ThetaSamples)
	}
	return g
}

func newComplexGrid(rows, cols int) [][]complex128 {
	m := make([][]complex128, rows)
	for i := range m {
		m[i] = make([]complex128, cols)
	}
	return m
}

// ThetaAxis returns a copy of the theta samples of the first phi cut.
func (g *SampleGrid) ThetaAxis() vlib.VectorF {
	axis := vlib.NewVectorF(g.Header.ThetaSamples)
	copy(axis, g.Theta[0])
	return axis
}

// PhiAxis returns a copy of the phi value of every cut.
func (g *SampleGrid) PhiAxis() vlib.VectorF {
	axis := vlib.NewVectorF(g.Header.PhiSamples)
	for p := range axis {
		axis[p] = g.Phi[p][0]
	}
	return axis
}

func (g *SampleGrid) toRadians() {
	for p := range g.Theta {
		for t := range g.Theta[p] {
			g.Theta[p][t] *= math.Pi / 180
			g.Phi[p][t] *= math.Pi / 180
		}
	}
}

// completeAxes fills the angles of unread records by extending the uniform
// step of the records that were read. Their field stays zero.
func (g *SampleGrid) completeAxes() {
	nPhi, nTheta := g.Header.PhiSamples, g.Header.ThetaSamples
	if g.Read >= nPhi*nTheta {
		return
	}

	known := g.Read
	if known > nTheta {
		known = nTheta
	}
	theta := extendAxis(g.Theta[0][:known], nTheta, math.Pi/float64(maxInt(nTheta-1, 1)))

	cuts := make([]float64, (g.Read+nTheta-1)/nTheta)
	for p := range cuts {
		cuts[p] = g.Phi[p][0]
	}
	phi := extendAxis(cuts, nPhi, 2*math.Pi/float64(nPhi))

	for j := g.Read; j < nPhi*nTheta; j++ {
		p, t := j/nTheta, j%nTheta
		g.Theta[p][t] = theta[t]
		g.Phi[p][t] = phi[p]
	}
}

func extendAxis(known []float64, n int, fallbackStep float64) vlib.VectorF {
	axis := vlib.NewVectorF(n)
	copy(axis, known)
	start, step := 0.0, fallbackStep
	if len(known) > 0 {
		start = known[0]
	}
	if len(known) > 1 {
		step = (known[len(known)-1] - known[0]) / float64(len(known)-1)
	}
	for i := len(known); i < n; i++ {
		axis[i] = start + float64(i)*step
	}
	return axis
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Gain builds the directive gain grid from the stored field samples.
func (g *SampleGrid) Gain() vlib.MatrixF {
	return BuildGain(g.Header, g.ETheta, g.EPhi)
}

// DirectivityRatio returns max(Dtotal)/max(G), the factor by which the gain
// grid must be scaled to match the directivity column of the file. ok is
// false when the dialect carries no directivity or the ratio is not a
// positive finite number.
func (g *SampleGrid) DirectivityRatio() (ratio float64, ok bool) {
	if g.Directivity == nil || g.Read == 0 {
		return 0, false
	}
	gain := g.Gain()
	Sanitize(gain)
	ratio = MaxOf(g.Directivity) / MaxOf(gain)
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio <= 0 {
		return 0, false
	}
	return ratio, true
}

// IntegratedPower integrates the radiated power density over the sampled
// sphere, assuming unit radius:
//   sum (|Etheta|^2 + |Ephi|^2) / (2 Z0) sin(theta) dtheta dphi
// with the steps taken as the axis span over the sample count.
func (g *SampleGrid) IntegratedPower() float64 {
	theta, phi := g.ThetaAxis(), g.PhiAxis()
	dTheta := (floats.Max(theta) - floats.Min(theta)) / float64(len(theta))
	dPhi := (floats.Max(phi) - floats.Min(phi)) / float64(len(phi))

	density := make([]float64, 0, g.Header.Records())
	for p := range g.ETheta {
		for t := range g.ETheta[p] {
			e2 := abs2(g.ETheta[p][t]) + abs2(g.EPhi[p][t])
			density = append(density, e2/(2*vacuumImpedance)*math.Sin(g.Theta[p][t]))
		}
	}
	return floats.Sum(density) * dTheta * dPhi
}
