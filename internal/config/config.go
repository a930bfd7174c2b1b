// Package config loads the settings of the depotsim host.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Simulation SimulationConfig `toml:"simulation" yaml:"simulation"`
	Logging    LoggingConfig    `toml:"logging" yaml:"logging"`
	Profile    ProfileConfig    `toml:"profile" yaml:"profile"`
}

type SimulationConfig struct {
	Ticks    int `toml:"ticks" yaml:"ticks"`
	Entities int `toml:"entities" yaml:"entities"`
	Capacity int `toml:"capacity" yaml:"capacity"`     // per-storage capacity hint
	Lifetime int `toml:"lifetime" yaml:"lifetime"`     // ticks before a mover expires; 0 = never
	Children int `toml:"children" yaml:"children"`     // children attached to each root
	Spawn    int `toml:"spawn_rate" yaml:"spawn_rate"` // movers spawned per tick
}

type LoggingConfig struct {
	Level      string `toml:"level" yaml:"level"`
	Format     string `toml:"format" yaml:"format"` // "json" or "console"
	File       string `toml:"file" yaml:"file"`     // empty = stderr
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups"`
}

type ProfileConfig struct {
	Mode string `toml:"mode" yaml:"mode"` // "", "cpu", "mem"
	Path string `toml:"path" yaml:"path"`
}

// Load reads path over the defaults. The format follows the extension:
// .toml, .yaml or .yml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read config %s", path)
	}
	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, eris.Errorf("config %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, eris.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Validate rejects negative counts.
func (c *Config) Validate() error {
	s := c.Simulation
	for name, v := range map[string]int{
		"ticks":      s.Ticks,
		"entities":   s.Entities,
		"capacity":   s.Capacity,
		"lifetime":   s.Lifetime,
		"children":   s.Children,
		"spawn_rate": s.Spawn,
	} {
		if v < 0 {
			return eris.Errorf("simulation.%s must not be negative, got %d", name, v)
		}
	}
	switch c.Profile.Mode {
	case "", "cpu", "mem":
	default:
		return eris.Errorf("profile.mode %q is not one of cpu, mem", c.Profile.Mode)
	}
	return nil
}

func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Ticks:    600,
			Entities: 1000,
			Capacity: 1024,
			Lifetime: 120,
			Children: 2,
			Spawn:    10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
		Profile: ProfileConfig{
			Path: ".",
		},
	}
}
