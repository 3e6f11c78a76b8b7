package antenna

import (
	"encoding/json"

	log "github.com/sirupsen/logrus"

	"github.com/wiless/reflector/farfield"
	"github.com/wiless/reflector/sphere"
)

// Settings controls how a pattern file is turned into an Aperture.
type Settings struct {
	// Dialect forces "ffs" or "ffe"; empty detects it from the file.
	Dialect string
	// Mode is the default interpolation mode name, "bicubic" or "bilinear".
	Mode string
	// NormalizeToDirectivity rescales the radiated power so that the peak
	// gain equals the peak of the file's directivity column, when present.
	NormalizeToDirectivity bool
	// DirectivityTolerance is the relative mismatch between peak gain and
	// peak directivity above which a warning is logged.
	DirectivityTolerance float64
}

func (s *Settings) SetDefault() {
	s.Dialect = ""
	s.Mode = sphere.Bicubic.String()
	s.NormalizeToDirectivity = false
	s.DirectivityTolerance = 0.05
}

func NewSettings() *Settings {
	result := new(Settings)
	result.SetDefault()
	return result
}

// Set overrides fields from a JSON object.
func (s *Settings) Set(str string) error {
	err := json.Unmarshal([]byte(str), s)
	if err != nil {
		log.WithError(err).Error("antenna: invalid settings")
	}
	return err
}

func (s Settings) dialect() (farfield.Dialect, error) {
	if s.Dialect == "" {
		return nil, nil
	}
	return farfield.DialectByName(s.Dialect)
}
