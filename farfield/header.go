// Package farfield reads far-field source files exported by EM solvers and
// turns their complex field samples into a directive gain grid.
//
// Two dialects are understood: the CST "ffs" far-field source layout and the
// FEKO "ffe" layout. Both end up in the same SampleGrid, indexed
// [phi][theta] with angles in radians.
package farfield

// Header carries the scalar metadata found ahead of the data block.
type Header struct {
	Frequencies     int
	Position        [3]float64
	HasPosition     bool
	RadiatedPower   float64 // W
	AcceptedPower   float64 // W
	StimulatedPower float64 // W
	Frequency       float64 // Hz
	PhiSamples      int
	ThetaSamples    int
}

// Records is the number of data records the header announces.
func (h Header) Records() int {
	return h.PhiSamples * h.ThetaSamples
}
