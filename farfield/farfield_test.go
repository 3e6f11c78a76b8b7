package farfield_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/wiless/reflector/farfield"
	"github.com/wiless/reflector/farfield/farfieldtest"
)

func testPattern() farfieldtest.Pattern {
	return farfieldtest.Pattern{
		ThetaDeg:      farfieldtest.Linspace(0, 90, 31),
		PhiDeg:        farfieldtest.Linspace(0, 355, 72),
		Field:         farfieldtest.Uniform(2, 0.3, 0.03),
		RadiatedPower: 0.5,
		Frequency:     10e9,
	}
}

func writeFFS(t *testing.T, pt farfieldtest.Pattern) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pattern.ffs")
	if err := farfieldtest.WriteFFS(path, pt); err != nil {
		t.Fatalf("write ffs: %v", err)
	}
	return path
}

func writeFFE(t *testing.T, pt farfieldtest.Pattern) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pattern.ffe")
	if err := farfieldtest.WriteFFE(path, pt); err != nil {
		t.Fatalf("write ffe: %v", err)
	}
	return path
}

func TestReadFFSHeader(t *testing.T) {
	g, err := farfield.ReadFile(writeFFS(t, testPattern()), nil)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	h := g.Header
	if g.Dialect != "ffs" {
		t.Errorf("dialect = %q, want ffs", g.Dialect)
	}
	if h.PhiSamples != 72 || h.ThetaSamples != 31 {
		t.Errorf("samples = %d x %d, want 72 x 31", h.PhiSamples, h.ThetaSamples)
	}
	if h.Frequencies != 1 || !h.HasPosition {
		t.Errorf("frequencies = %d, position = %v", h.Frequencies, h.HasPosition)
	}
	if h.RadiatedPower != 0.5 || h.AcceptedPower != 0.5 || h.StimulatedPower != 0.5 {
		t.Errorf("powers = %v %v %v", h.RadiatedPower, h.AcceptedPower, h.StimulatedPower)
	}
	if h.Frequency != 10e9 {
		t.Errorf("frequency = %v", h.Frequency)
	}
	if g.Truncation != nil {
		t.Errorf("unexpected truncation: %v", g.Truncation)
	}
	if g.Directivity != nil {
		t.Error("ffs must not carry directivity")
	}
}

func TestAxesInRadians(t *testing.T) {
	g, err := farfield.ReadFile(writeFFS(t, testPattern()), nil)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	theta, phi := g.ThetaAxis(), g.PhiAxis()
	if !floats.EqualWithinAbs(theta[len(theta)-1], math.Pi/2, 1e-9) {
		t.Errorf("last theta = %v, want pi/2", theta[len(theta)-1])
	}
	if !floats.EqualWithinAbs(phi[1], 5*math.Pi/180, 1e-9) {
		t.Errorf("phi[1] = %v, want 5 deg", phi[1])
	}
	// Row-major, phi-major reshape.
	if !floats.EqualWithinAbs(g.Phi[3][7], 15*math.Pi/180, 1e-9) || !floats.EqualWithinAbs(g.Theta[3][7], 21*math.Pi/180, 1e-9) {
		t.Errorf("sample [3][7] at (%v, %v)", g.Phi[3][7], g.Theta[3][7])
	}
}

func TestGainFormula(t *testing.T) {
	pt := testPattern()
	g, err := farfield.ReadFile(writeFFS(t, pt), nil)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	gain := g.Gain()
	for _, idx := range [][2]int{{0, 0}, {10, 4}, {71, 30}} {
		p, th := idx[0], idx[1]
		et, ep := pt.Field(g.Theta[p][th], g.Phi[p][th])
		want := farfieldtest.Gain(et, ep, pt.RadiatedPower)
		if !floats.EqualWithinAbsOrRel(gain[p][th], want, 1e-9, 1e-6) {
			t.Errorf("gain[%d][%d] = %v, want %v", p, th, gain[p][th], want)
		}
	}
}

func TestDialectEquivalence(t *testing.T) {
	pt := testPattern()
	pt.RadiatedPower = 1
	gs, err := farfield.ReadFile(writeFFS(t, pt), nil)
	if err != nil {
		t.Fatalf("ffs: %v", err)
	}
	pt.NoPowerBlock = true
	ge, err := farfield.ReadFile(writeFFE(t, pt), nil)
	if err != nil {
		t.Fatalf("ffe: %v", err)
	}
	if ge.Dialect != "ffe" || ge.Directivity == nil {
		t.Fatalf("ffe dialect not detected: %q", ge.Dialect)
	}
	if ge.Header.RadiatedPower != 1 {
		t.Errorf("ffe default radiated power = %v, want 1", ge.Header.RadiatedPower)
	}

	a, b := gs.Gain(), ge.Gain()
	for p := range a {
		for th := range a[p] {
			if !floats.EqualWithinAbsOrRel(a[p][th], b[p][th], 1e-12, 1e-9) {
				t.Fatalf("gain[%d][%d]: ffs %v, ffe %v", p, th, a[p][th], b[p][th])
			}
		}
	}
	if !floats.EqualApprox(gs.ThetaAxis(), ge.ThetaAxis(), 1e-9) || !floats.EqualApprox(gs.PhiAxis(), ge.PhiAxis(), 1e-9) {
		t.Error("axes differ between dialects")
	}
}

func TestTruncatedDataBlock(t *testing.T) {
	pt := testPattern()
	pt.Records = 31*10 + 5
	g, err := farfield.ReadFile(writeFFS(t, pt), nil)
	if err != nil {
		t.Fatalf("truncation must not fail: %v", err)
	}
	if g.Truncation == nil {
		t.Fatal("truncation not reported")
	}
	if g.Truncation.Read != pt.Records || g.Truncation.Expected != 72*31 {
		t.Errorf("truncation = %+v", *g.Truncation)
	}
	if g.Read != pt.Records {
		t.Errorf("read = %d", g.Read)
	}

	gain := g.Gain()
	if gain[10][4] <= 0 {
		t.Error("populated record lost")
	}
	if gain[10][5] != 0 || gain[40][0] != 0 {
		t.Error("unread records must have zero gain")
	}

	// The unread part of the axes keeps the sampling step.
	phi := g.PhiAxis()
	if !floats.EqualWithinAbs(phi[40], 200*math.Pi/180, 1e-9) {
		t.Errorf("extended phi[40] = %v", phi[40])
	}
	if !floats.EqualWithinAbs(g.Theta[40][30], math.Pi/2, 1e-9) {
		t.Errorf("extended theta = %v", g.Theta[40][30])
	}
}

func TestShortRecordEndsBlock(t *testing.T) {
	path := writeFFE(t, testPattern())
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := farfield.SplitLines(string(b))
	start := 0
	for i, l := range lines {
		if len(l) > 0 && l[0] == ' ' {
			start = i
			break
		}
	}
	lines[start+3] = " 0.0 1.0 2.0"
	g, err := farfield.FFE{}.Parse(lines)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if g.Truncation == nil || g.Read != 3 || g.Truncation.Line != start+4 {
		t.Fatalf("truncation = %+v, read %d", g.Truncation, g.Read)
	}
}

func TestMalformedPatternFile(t *testing.T) {
	cases := map[string][]string{
		"no sample counts": {"// Radiated/Accepted/Stimulated Power , Frequency", "1", "1", "1", "1e10"},
		"bad sample count": {"// >> Total #phi samples, total #theta samples", "x 3"},
		"zero samples":     {"// >> Total #phi samples, total #theta samples", "0 3"},
		"huge grid":        {"// >> Total #phi samples, total #theta samples", "200000 200000", "// >> Phi, Theta, Re(E_Theta), Im(E_Theta), Re(E_Phi), Im(E_Phi):", "0 0 1 0 0 0"},
		"overflow":         {"// >> Total #phi samples, total #theta samples", "9223372036854775807 4"},
		"no data marker":   {"// >> Total #phi samples, total #theta samples", "2 2", "0 0 1 0 0 0"},
		"header cut":       {"// Radiated/Accepted/Stimulated Power , Frequency", "1"},
	}
	for name, lines := range cases {
		if _, err := (farfield.FFS{}).Parse(lines); !errors.Is(err, farfield.ErrMalformedPatternFile) {
			t.Errorf("%s: err = %v", name, err)
		}
	}

	if _, err := (farfield.FFE{}).Parse([]string{"#No. of Phi Samples: 3"}); !errors.Is(err, farfield.ErrMalformedPatternFile) {
		t.Errorf("ffe without theta samples: err = %v", err)
	}
	huge := []string{"#No. of Theta Samples: 200000", "#No. of Phi Samples: 200000"}
	if _, err := (farfield.FFE{}).Parse(huge); !errors.Is(err, farfield.ErrMalformedPatternFile) {
		t.Errorf("ffe 200000 x 200000: err = %v", err)
	}
}

func TestDetect(t *testing.T) {
	d, err := farfield.Detect("a/b/pattern.FFE", nil)
	if err != nil || d.Name() != "ffe" {
		t.Errorf("by extension: %v %v", d, err)
	}
	d, err = farfield.Detect("pattern.txt", []string{"x", "// >> Phi, Theta, Re(E_Theta), Im(E_Theta), Re(E_Phi), Im(E_Phi):"})
	if err != nil || d.Name() != "ffs" {
		t.Errorf("by marker: %v %v", d, err)
	}
	if _, err = farfield.Detect("pattern.txt", []string{"nothing"}); !errors.Is(err, farfield.ErrMalformedPatternFile) {
		t.Errorf("unknown content: %v", err)
	}
	if _, err = farfield.DialectByName("nec"); err == nil {
		t.Error("unknown dialect name accepted")
	}
}

func TestDegenerateNormalization(t *testing.T) {
	pt := testPattern()
	pt.RadiatedPower = 0
	g, err := farfield.ReadFile(writeFFS(t, pt), nil)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	gain := g.Gain()
	if !math.IsInf(gain[0][0], 1) {
		t.Errorf("gain with zero power = %v, want +Inf", gain[0][0])
	}
	n := farfield.Sanitize(gain)
	if n != 72*31 {
		t.Errorf("sanitized %d samples", n)
	}
	if farfield.MaxOf(gain) != 0 {
		t.Error("sanitized grid not zero")
	}
}

func TestDirectivityRatio(t *testing.T) {
	pt := testPattern()
	pt.NoPowerBlock = true
	pt.Directivity = func(theta, phi float64) float64 {
		et, ep := pt.Field(theta, phi)
		return 2 * farfieldtest.Gain(et, ep, 1)
	}
	g, err := farfield.ReadFile(writeFFE(t, pt), nil)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	ratio, ok := g.DirectivityRatio()
	if !ok || !floats.EqualWithinRel(ratio, 2, 1e-6) {
		t.Errorf("ratio = %v %v, want 2", ratio, ok)
	}

	gs, err := farfield.ReadFile(writeFFS(t, testPattern()), nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := gs.DirectivityRatio(); ok {
		t.Error("ffs has no directivity to compare")
	}
}

func TestIntegratedPower(t *testing.T) {
	// |E|^2 / (2 Z0) = 1 everywhere integrates to about 4 pi.
	e := complex(math.Sqrt(2*376.73031366857), 0)
	pt := farfieldtest.Pattern{
		ThetaDeg:      farfieldtest.Linspace(0, 180, 181),
		PhiDeg:        farfieldtest.Linspace(0, 359, 360),
		Field:         func(theta, phi float64) (complex128, complex128) { return e, 0 },
		RadiatedPower: 1,
	}
	g, err := farfield.ReadFile(writeFFS(t, pt), nil)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if p := g.IntegratedPower(); !floats.EqualWithinRel(p, 4*math.Pi, 0.02) {
		t.Errorf("integrated power = %v, want ~%v", p, 4*math.Pi)
	}
}
