// Command ffgain loads a pattern catalogue, reports the peak gain of every
// pattern and, when the catalogue names a reference/deformed pair, writes the
// gain loss over a theta/phi mesh.
package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/floats"

	"github.com/wiless/reflector"
	"github.com/wiless/reflector/config"
)

// PatternSummary is one line of the summary file.
type PatternSummary struct {
	Name       string  `json:"name"`
	Path       string  `json:"path"`
	Dialect    string  `json:"dialect"`
	MaxGainDbi float64 `json:"maxGainDbi"`
	Truncated  bool    `json:"truncated"`
	Degenerate int     `json:"degenerate"`
}

// LossResult holds the mesh and loss written for a reference/deformed pair.
type LossResult struct {
	Reference  string       `json:"reference"`
	Deformed   string       `json:"deformed"`
	PeakLossDb float64      `json:"peakLossDb"`
	ThetaDeg   vlib.VectorF `json:"thetaDeg"`
	PhiDeg     vlib.VectorF `json:"phiDeg"`
	LossDb     vlib.MatrixF `json:"lossDb"`
}

var (
	configPath = pflag.StringP("config", "c", "catalogue.yaml", "Pattern catalogue (yaml, toml or json)")
	outdir     = pflag.StringP("outdir", "o", ".", "Directory where the output files are written")
	thetaMax   = pflag.Float64("theta-max", 90, "Largest |theta| of the loss mesh in degrees")
	nTheta     = pflag.Int("ntheta", 181, "Theta samples of the loss mesh, from -theta-max to theta-max")
	nPhi       = pflag.Int("nphi", 180, "Phi samples of the loss mesh, over [0, 180) degrees")
	matlab     = pflag.Bool("matlab", false, "Also write the loss mesh as a Matlab script")
	verbose    = pflag.BoolP("verbose", "v", false, "Debug logging")
)

func main() {
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("ffgain: invalid config")
	}
	if err := config.Apply(cfg); err != nil {
		log.WithError(err).Fatal("ffgain: invalid config")
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	if err := os.MkdirAll(*outdir, os.ModeDir|os.ModePerm); err != nil {
		log.WithError(err).Fatal("ffgain: output directory")
	}

	cat, err := reflector.LoadCatalogue(cfg)
	if err != nil {
		log.WithError(err).Fatal("ffgain: load catalogue")
	}

	summary := summarize(cat)
	vlib.SaveStructure(summary, filepath.Join(*outdir, "summary.json"), true)

	if cfg.Reference == "" {
		return
	}
	result, err := evaluateLoss(cat, Mesh{ThetaMax: *thetaMax, NTheta: *nTheta, NPhi: *nPhi})
	if err != nil {
		log.WithError(err).Fatal("ffgain: gain loss")
	}
	fmt.Printf("\n%s vs %s : peak %s\n", result.Deformed, result.Reference, lossColor(result.PeakLossDb))
	vlib.SaveStructure(result, filepath.Join(*outdir, "loss.json"), true)
	if *matlab {
		exportMatlab(result)
	}
}

func summarize(cat *reflector.Catalogue) []PatternSummary {
	bold := color.New(color.Bold).SprintFunc()
	var summary []PatternSummary
	for _, name := range cat.Names() {
		a, err := cat.Get(name)
		if err != nil {
			log.WithError(err).Warn("ffgain: pattern vanished from catalogue")
			continue
		}
		s := PatternSummary{
			Name:       name,
			Path:       a.Path(),
			Dialect:    a.Dialect(),
			MaxGainDbi: a.MaxGainDb(),
			Truncated:  a.Truncation() != nil,
			Degenerate: a.Degenerate(),
		}
		summary = append(summary, s)

		line := fmt.Sprintf("%-20s %s %8.3f dBi", bold(name), s.Dialect, s.MaxGainDbi)
		switch {
		case s.Degenerate > 0:
			color.Red("%s  (%d degenerate samples)", line, s.Degenerate)
		case s.Truncated:
			color.Yellow("%s  (truncated)", line)
		default:
			fmt.Println(line)
		}
	}
	return summary
}

// Mesh is the grid of directions the loss is evaluated on. Phi only spans
// half a turn since negative theta covers the other half.
type Mesh struct {
	ThetaMax float64 // degrees
	NTheta   int
	NPhi     int
}

// Build returns the axes in degrees and the [phi][theta] query meshes in
// radians.
func (m Mesh) Build() (thetaDeg, phiDeg vlib.VectorF, theta, phi vlib.MatrixF, err error) {
	if m.NTheta < 2 || m.NPhi < 1 {
		return nil, nil, nil, nil, fmt.Errorf("mesh needs at least 2 theta and 1 phi samples, got %d x %d", m.NTheta, m.NPhi)
	}
	thetaDeg = vlib.NewVectorF(m.NTheta)
	floats.Span(thetaDeg, -m.ThetaMax, m.ThetaMax)
	phiDeg = vlib.NewVectorF(m.NPhi)
	for i := range phiDeg {
		phiDeg[i] = 180 * float64(i) / float64(m.NPhi)
	}

	theta = vlib.NewMatrixF(m.NPhi, m.NTheta)
	phi = vlib.NewMatrixF(m.NPhi, m.NTheta)
	for p := range theta {
		for t := range theta[p] {
			theta[p][t] = thetaDeg[t] * math.Pi / 180
			phi[p][t] = phiDeg[p] * math.Pi / 180
		}
	}
	return thetaDeg, phiDeg, theta, phi, nil
}

func evaluateLoss(cat *reflector.Catalogue, mesh Mesh) (*LossResult, error) {
	cmp, err := cat.Pair()
	if err != nil {
		return nil, err
	}
	thetaDeg, phiDeg, theta, phi, err := mesh.Build()
	if err != nil {
		return nil, err
	}
	loss, err := cmp.GainLossDb(theta, phi)
	if err != nil {
		return nil, err
	}
	return &LossResult{
		Reference:  cmp.Reference.Path(),
		Deformed:   cmp.Deformed.Path(),
		PeakLossDb: cmp.PeakLossDb(),
		ThetaDeg:   thetaDeg,
		PhiDeg:     phiDeg,
		LossDb:     loss,
	}, nil
}

func exportMatlab(r *LossResult) {
	m := vlib.NewMatlab(filepath.Join(*outdir, "loss"))
	m.Silent = true
	m.Json = false
	m.Export("theta", r.ThetaDeg)
	m.Export("phi", r.PhiDeg)
	m.Command("loss=zeros(length(phi),length(theta));")
	for p, row := range r.LossDb {
		m.Export("cut", row)
		m.Command(fmt.Sprintf("loss(%d,:)=cut;", p+1))
	}
	m.Command("imagesc(theta,phi,loss);colorbar;xlabel('theta');ylabel('phi');")
	m.Close()
}

func lossColor(db float64) string {
	s := fmt.Sprintf("%.3f dB", db)
	switch {
	case db < -1:
		return color.RedString(s)
	case db < -0.1:
		return color.YellowString(s)
	}
	return color.GreenString(s)
}
