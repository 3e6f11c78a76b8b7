package main

import (
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/wiless/reflector"
	"github.com/wiless/reflector/config"
	"github.com/wiless/reflector/farfield/farfieldtest"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestMeshBuild(t *testing.T) {
	thetaDeg, phiDeg, theta, phi, err := Mesh{ThetaMax: 60, NTheta: 5, NPhi: 4}.Build()
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(thetaDeg, []float64{-60, -30, 0, 30, 60}) {
		t.Errorf("theta axis = %v", thetaDeg)
	}
	if !floats.Equal(phiDeg, []float64{0, 45, 90, 135}) {
		t.Errorf("phi axis = %v", phiDeg)
	}
	if len(theta) != 4 || len(phi) != 4 || len(theta[0]) != 5 || len(phi[3]) != 5 {
		t.Fatalf("mesh shape %dx%d", len(theta), len(theta[0]))
	}
	if !floats.EqualWithinAbs(theta[2][0], -math.Pi/3, 1e-12) || !floats.EqualWithinAbs(phi[3][4], 3*math.Pi/4, 1e-12) {
		t.Errorf("mesh not in radians: %v %v", theta[2][0], phi[3][4])
	}

	for _, m := range []Mesh{{ThetaMax: 90, NTheta: 1, NPhi: 4}, {ThetaMax: 90, NTheta: 3, NPhi: 0}} {
		if _, _, _, _, err := m.Build(); err == nil {
			t.Errorf("%+v accepted", m)
		}
	}
}

func TestEvaluateLoss(t *testing.T) {
	dir := t.TempDir()
	ref := farfieldtest.Pattern{
		ThetaDeg:      farfieldtest.Linspace(0, 180, 37),
		PhiDeg:        farfieldtest.Linspace(0, 350, 36),
		Field:         farfieldtest.Uniform(0.05, 0.05, 0.05),
		RadiatedPower: 1,
		Frequency:     6e9,
	}
	def := ref
	def.RadiatedPower = 2
	if err := farfieldtest.WriteFFS(filepath.Join(dir, "ref.ffs"), ref); err != nil {
		t.Fatal(err)
	}
	if err := farfieldtest.WriteFFS(filepath.Join(dir, "def.ffs"), def); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(dir, "catalogue.yaml")
	content := "reference: ref\ndeformed: def\npatterns:\n  - {name: ref, path: ref.ffs}\n  - {name: def, path: def.ffs}\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	cat, err := reflector.LoadCatalogue(cfg)
	if err != nil {
		t.Fatal(err)
	}

	summary := summarize(cat)
	if len(summary) != 2 || summary[0].Name != "def" || summary[1].Dialect != "ffs" {
		t.Errorf("summary = %+v", summary)
	}

	r, err := evaluateLoss(cat, Mesh{ThetaMax: 30, NTheta: 7, NPhi: 6})
	if err != nil {
		t.Fatal(err)
	}
	want := -10 * math.Log10(2)
	if !floats.EqualWithinAbs(r.PeakLossDb, want, 1e-9) {
		t.Errorf("peak loss = %v, want %v", r.PeakLossDb, want)
	}
	if len(r.LossDb) != 6 || len(r.LossDb[0]) != 7 {
		t.Fatalf("loss shape %dx%d", len(r.LossDb), len(r.LossDb[0]))
	}
	for p := range r.LossDb {
		for k, v := range r.LossDb[p] {
			if !floats.EqualWithinAbs(v, want, 1e-9) {
				t.Errorf("loss[%d][%d] = %v, want %v", p, k, v, want)
			}
		}
	}

	if _, err := evaluateLoss(cat, Mesh{NTheta: 1, NPhi: 1}); err == nil {
		t.Error("degenerate mesh accepted")
	}
}
