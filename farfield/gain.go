package farfield

import (
	"math"

	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/floats"
)

const (
	// Impedance used by the directive gain definition.
	freeSpaceImpedance = 120 * math.Pi
	// Z0, used when integrating the radiated power.
	vacuumImpedance = 376.73031366857
)

// BuildGain computes the directive gain of every sample
//
//	G = 2 pi (|Etheta|^2 + |Ephi|^2) / (120 pi Prad)
//
// Cross polarization is not modeled: any loss it causes is assumed to be in
// the accepted/radiated power ratio of the file. Zero or negative radiated
// power is not an error here; the non-finite or negative values it yields
// are left for Sanitize.
func BuildGain(h Header, eTheta, ePhi [][]complex128) vlib.MatrixF {
	gain := make(vlib.MatrixF, len(eTheta))
	for p := range eTheta {
		gain[p] = vlib.NewVectorF(len(eTheta[p]))
		for t := range eTheta[p] {
			gain[p][t] = 2 * math.Pi * (abs2(eTheta[p][t]) + abs2(ePhi[p][t])) / (freeSpaceImpedance * h.RadiatedPower)
		}
	}
	return gain
}

// Sanitize replaces non-finite and negative gain values with 0 in place and
// returns how many were replaced. A zero gain is the defined value of a
// degenerate normalization.
func Sanitize(gain vlib.MatrixF) int {
	n := 0
	for p := range gain {
		for t, v := range gain[p] {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				gain[p][t] = 0
				n++
			}
		}
	}
	return n
}

// MaxOf returns the largest value of m, or 0 for an empty matrix.
func MaxOf(m vlib.MatrixF) float64 {
	max := math.Inf(-1)
	for _, row := range m {
		if len(row) > 0 {
			max = math.Max(max, floats.Max(row))
		}
	}
	if math.IsInf(max, -1) {
		return 0
	}
	return max
}

func abs2(c complex128) float64 {
	return real(c)*real(c) + imag(c)*imag(c)
}
