// Package config loads the rewrite pass's runtime configuration from a
// TOML file, in the struct-of-structs-with-toml-tags shape the wider
// example pack uses for its own config layers.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds every knob the rewrite pass and its CLI driver expose.
type Config struct {
	Rewrite struct {
		OptLevel      string `toml:"opt_level"` // "none", "speed", "speed_and_size"
		MaxIterations int    `toml:"max_iterations"`
	} `toml:"rewrite"`

	Trace struct {
		Enabled    bool   `toml:"enabled"`
		OutputFile string `toml:"output_file"`
	} `toml:"trace"`

	Log struct {
		Level  string `toml:"level"` // "debug", "info", "warn", "error"
		Format string `toml:"format"`
	} `toml:"log"`
}

// DefaultConfig returns the configuration used when no config file is
// present.
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Rewrite.OptLevel = "speed_and_size"
	cfg.Rewrite.MaxIterations = 64
	cfg.Trace.Enabled = false
	cfg.Trace.OutputFile = "trace.gob"
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// LoadFrom reads a TOML config file at path, falling back to
// DefaultConfig (no error) when the file does not exist.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SaveTo writes cfg to path as TOML, creating parent directories as
// needed.
func (c *Config) SaveTo(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(c)
}
