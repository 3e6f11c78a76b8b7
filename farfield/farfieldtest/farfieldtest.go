// Package farfieldtest writes synthetic far-field files in both dialects for
// tests.
package farfieldtest

import (
	"bufio"
	"fmt"
	"math"
	"os"
)

// FieldFunc returns (Etheta, Ephi) at theta, phi in radians.
type FieldFunc func(theta, phi float64) (complex128, complex128)

// Pattern describes a synthetic far field sampled on a regular grid.
type Pattern struct {
	ThetaDeg []float64
	PhiDeg   []float64
	Field    FieldFunc

	// Directivity feeds the ffe Dtotal column; nil writes zeros.
	Directivity func(theta, phi float64) float64

	RadiatedPower float64
	Frequency     float64

	// Records limits the number of data lines written when positive.
	Records int
	// NoPowerBlock leaves the power block out of the header.
	NoPowerBlock bool
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	v := make([]float64, n)
	if n == 1 {
		v[0] = start
		return v
	}
	step := (stop - start) / float64(n-1)
	for i := range v {
		v[i] = start + float64(i)*step
	}
	return v
}

// Uniform returns the far field of a uniformly illuminated L x W aperture
// at wavelength lambda, polarized along y. The pattern peaks at theta = 0.
func Uniform(l, w, lambda float64) FieldFunc {
	return func(theta, phi float64) (complex128, complex128) {
		st := math.Sin(theta)
		f := sinc(math.Pi*l*st*math.Cos(phi)/lambda) * sinc(math.Pi*w*st*math.Sin(phi)/lambda) * l * w / lambda
		return complex(f*math.Sin(phi), 0), complex(f*math.Cos(phi)*math.Cos(theta), 0)
	}
}

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	return math.Sin(x) / x
}

func (pt Pattern) limit() int {
	total := len(pt.ThetaDeg) * len(pt.PhiDeg)
	if pt.Records > 0 && pt.Records < total {
		return pt.Records
	}
	return total
}

func (pt Pattern) writePower(w *bufio.Writer) {
	if pt.NoPowerBlock {
		return
	}
	fmt.Fprintf(w, "// Radiated/Accepted/Stimulated Power , Frequency\n")
	fmt.Fprintf(w, "%e\n%e\n%e\n%e\n\n", pt.RadiatedPower, pt.RadiatedPower, pt.RadiatedPower, pt.Frequency)
}

// WriteFFS writes pt to path in the CST ffs layout, phi-major.
func WriteFFS(path string, pt Pattern) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "// CST Farfield Source File\n\n// Version:\n3.0\n\n// Data Type\nFarfield\n\n")
	fmt.Fprintf(w, "// #Frequencies\n1\n\n// Position\n0.000000e+000 0.000000e+000 0.000000e+000\n\n")
	pt.writePower(w)
	fmt.Fprintf(w, "// >> Total #phi samples, total #theta samples\n%d %d\n\n", len(pt.PhiDeg), len(pt.ThetaDeg))
	fmt.Fprintf(w, "// >> Phi, Theta, Re(E_Theta), Im(E_Theta), Re(E_Phi), Im(E_Phi):\n")

	n := 0
	for _, p := range pt.PhiDeg {
		for _, t := range pt.ThetaDeg {
			if n == pt.limit() {
				return w.Flush()
			}
			et, ep := pt.Field(t*math.Pi/180, p*math.Pi/180)
			fmt.Fprintf(w, "  %10.3f  %10.3f   %.15e  %.15e   %.15e  %.15e\n", p, t, real(et), imag(et), real(ep), imag(ep))
			n++
		}
	}
	return w.Flush()
}

// WriteFFE writes pt to path in the FEKO ffe layout, phi-major.
func WriteFFE(path string, pt Pattern) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)

	fmt.Fprintf(w, "##File Type: Far field\n##File Format: 8\n##Source: farfieldtest\n\n")
	pt.writePower(w)
	fmt.Fprintf(w, "#Request Name: FarField1\n#Frequency:   %.8E\n#Coordinate System: Spherical\n", pt.Frequency)
	fmt.Fprintf(w, "#No. of Theta Samples: %d\n#No. of Phi Samples: %d\n", len(pt.ThetaDeg), len(pt.PhiDeg))
	fmt.Fprintf(w, "#Result Type: Directivity\n#No. of Header Lines: 1\n")
	fmt.Fprintf(w, "#     \"Theta\"    \"Phi\"    \"Re(Etheta)\"    \"Im(Etheta)\"    \"Re(Ephi)\"    \"Im(Ephi)\"    \"Directivity(Theta)\"    \"Directivity(Phi)\"    \"Directivity(Total)\"\n")

	n := 0
	for _, p := range pt.PhiDeg {
		for _, t := range pt.ThetaDeg {
			if n == pt.limit() {
				return w.Flush()
			}
			th, ph := t*math.Pi/180, p*math.Pi/180
			et, ep := pt.Field(th, ph)
			d := 0.0
			if pt.Directivity != nil {
				d = pt.Directivity(th, ph)
			}
			fmt.Fprintf(w, " %.8E %.8E %.15E %.15E %.15E %.15E %.8E %.8E %.15E\n",
				t, p, real(et), imag(et), real(ep), imag(ep), 0.0, 0.0, d)
			n++
		}
	}
	return w.Flush()
}

// Gain is the directive gain of et, ep for the given radiated power.
func Gain(et, ep complex128, radiatedPower float64) float64 {
	e2 := real(et)*real(et) + imag(et)*imag(et) + real(ep)*real(ep) + imag(ep)*imag(ep)
	return 2 * math.Pi * e2 / (120 * math.Pi * radiatedPower)
}
