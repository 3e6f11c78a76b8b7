// Package config loads the pattern catalogue: which far-field files to load,
// how to interpolate them and which two of them form a reference/deformed
// pair. Any format viper reads (yaml, toml, json) is accepted.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"

	"github.com/mitchellh/mapstructure"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/wiless/reflector/antenna"
	"github.com/wiless/reflector/sphere"
)

// Config mirrors the catalogue file.
type Config struct {
	Logging       LoggingConfig   `mapstructure:"logging"`
	Interpolation sphere.Mode     `mapstructure:"interpolation"`
	Patterns      []PatternConfig `mapstructure:"patterns"`
	Reference     string          `mapstructure:"reference"`
	Deformed      string          `mapstructure:"deformed"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

type PatternConfig struct {
	Name    string `mapstructure:"name"`
	Path    string `mapstructure:"path"`
	Dialect string `mapstructure:"dialect"`
	// Mode overrides Config.Interpolation for this pattern when set.
	Mode                   string  `mapstructure:"mode"`
	NormalizeToDirectivity bool    `mapstructure:"normalize_to_directivity"`
	DirectivityTolerance   float64 `mapstructure:"directivity_tolerance"`
}

// Settings converts the entry into aperture settings, falling back to def
// for the interpolation mode.
func (p PatternConfig) Settings(def sphere.Mode) antenna.Settings {
	s := antenna.NewSettings()
	s.Dialect = p.Dialect
	s.Mode = def.String()
	if p.Mode != "" {
		s.Mode = p.Mode
	}
	s.NormalizeToDirectivity = p.NormalizeToDirectivity
	if p.DirectivityTolerance > 0 {
		s.DirectivityTolerance = p.DirectivityTolerance
	}
	return *s
}

// Pattern returns the entry called name.
func (c Config) Pattern(name string) (PatternConfig, bool) {
	for _, p := range c.Patterns {
		if p.Name == name {
			return p, true
		}
	}
	return PatternConfig{}, false
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("interpolation", sphere.Bicubic.String())
}

// Load reads the catalogue at path. Relative pattern paths are resolved
// against the directory of the catalogue.
func Load(path string) (Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	hook := mapstructure.ComposeDecodeHookFunc(modeHook, mapstructure.StringToTimeDurationHookFunc())
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return cfg, fmt.Errorf("decode config %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i, p := range cfg.Patterns {
		if p.Path != "" && !filepath.IsAbs(p.Path) {
			cfg.Patterns[i].Path = filepath.Join(dir, p.Path)
		}
	}

	if err := validate(cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	log.WithFields(log.Fields{"path": path, "patterns": len(cfg.Patterns)}).Debug("config: loaded")
	return cfg, nil
}

// modeHook decodes interpolation mode names into sphere.Mode.
var modeHook mapstructure.DecodeHookFuncType = func(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(sphere.Mode(0)) || from.Kind() != reflect.String {
		return data, nil
	}
	return sphere.ParseMode(data.(string))
}

func validate(cfg Config) error {
	if _, err := log.ParseLevel(cfg.Logging.Level); err != nil {
		return err
	}
	seen := make(map[string]bool, len(cfg.Patterns))
	for i, p := range cfg.Patterns {
		if p.Name == "" {
			return fmt.Errorf("patterns[%d].name must not be empty", i)
		}
		if p.Path == "" {
			return fmt.Errorf("patterns[%d].path must not be empty", i)
		}
		if seen[p.Name] {
			return fmt.Errorf("pattern %q defined twice", p.Name)
		}
		seen[p.Name] = true
		if _, err := sphere.ParseMode(p.Mode); err != nil {
			return fmt.Errorf("pattern %q: %w", p.Name, err)
		}
	}
	if (cfg.Reference == "") != (cfg.Deformed == "") {
		return errors.New("reference and deformed must be set together")
	}
	for _, name := range []string{cfg.Reference, cfg.Deformed} {
		if name != "" && !seen[name] {
			return fmt.Errorf("pattern %q is not in the catalogue", name)
		}
	}
	return nil
}

// Apply sets the process wide log level.
func Apply(cfg Config) error {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}
