// Package reflector loads a catalogue of far-field patterns and compares a
// deformed reflector against its reference.
package reflector

import (
	"errors"
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/vlib"

	"github.com/wiless/reflector/antenna"
	"github.com/wiless/reflector/config"
)

// MinGain is the floor applied before converting a gain to dB.
var MinGain float64 = 1e-30

var ErrUnknownPattern = errors.New("unknown pattern")

// Catalogue holds every aperture named in a config, keyed by name.
type Catalogue struct {
	cfg       config.Config
	apertures map[string]*antenna.Aperture
}

// LoadCatalogue loads every pattern of cfg. The first pattern that fails
// aborts the load.
func LoadCatalogue(cfg config.Config) (*Catalogue, error) {
	c := &Catalogue{cfg: cfg, apertures: make(map[string]*antenna.Aperture, len(cfg.Patterns))}
	for _, p := range cfg.Patterns {
		a, err := antenna.LoadWithSettings(p.Path, p.Settings(cfg.Interpolation))
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", p.Name, err)
		}
		c.apertures[p.Name] = a
	}
	log.WithField("patterns", len(c.apertures)).Info("reflector: catalogue loaded")
	return c, nil
}

// Get returns the aperture called name.
func (c *Catalogue) Get(name string) (*antenna.Aperture, error) {
	a, ok := c.apertures[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
	}
	return a, nil
}

// Names lists the loaded patterns in sorted order.
func (c *Catalogue) Names() []string {
	names := make([]string, 0, len(c.apertures))
	for n := range c.apertures {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Compare pairs two loaded patterns.
func (c *Catalogue) Compare(reference, deformed string) (*Comparison, error) {
	ref, err := c.Get(reference)
	if err != nil {
		return nil, err
	}
	def, err := c.Get(deformed)
	if err != nil {
		return nil, err
	}
	return &Comparison{Reference: ref, Deformed: def}, nil
}

// Pair is Compare on the reference and deformed names of the config.
func (c *Catalogue) Pair() (*Comparison, error) {
	if c.cfg.Reference == "" {
		return nil, errors.New("reflector: config names no reference/deformed pair")
	}
	return c.Compare(c.cfg.Reference, c.cfg.Deformed)
}

// Comparison evaluates the gain change of a deformed reflector.
type Comparison struct {
	Reference *antenna.Aperture
	Deformed  *antenna.Aperture
}

// GainLossDb returns Db(deformed) - Db(reference) over a mesh. Negative
// values are a loss. Both gains are floored at MinGain.
func (c *Comparison) GainLossDb(theta, phi vlib.MatrixF) (vlib.MatrixF, error) {
	ref, err := c.Reference.MeshGainPattern(theta, phi)
	if err != nil {
		return nil, fmt.Errorf("reference: %w", err)
	}
	def, err := c.Deformed.MeshGainPattern(theta, phi)
	if err != nil {
		return nil, fmt.Errorf("deformed: %w", err)
	}
	out := vlib.NewMatrixF(len(ref), 0)
	for r := range ref {
		out[r] = vlib.NewVectorF(len(ref[r]))
		for k := range ref[r] {
			out[r][k] = db(def[r][k]) - db(ref[r][k])
		}
	}
	return out, nil
}

// PeakLossDb compares the stored peak gains of the pair.
func (c *Comparison) PeakLossDb() float64 {
	return db(c.Deformed.MaxGain()) - db(c.Reference.MaxGain())
}

func db(g float64) float64 {
	if g < MinGain {
		g = MinGain
	}
	return vlib.Db(g)
}
