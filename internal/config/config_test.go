package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Rewrite.OptLevel != "speed_and_size" {
		t.Errorf("expected opt_level=speed_and_size, got %s", cfg.Rewrite.OptLevel)
	}
	if cfg.Rewrite.MaxIterations != 64 {
		t.Errorf("expected max_iterations=64, got %d", cfg.Rewrite.MaxIterations)
	}
}

func TestLoadNonExistentReturnsDefault(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom should not error on a missing file: %v", err)
	}
	if cfg.Rewrite.OptLevel != "speed_and_size" {
		t.Error("expected default config when file is missing")
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ssaopt.toml")
	cfg := DefaultConfig()
	cfg.Rewrite.MaxIterations = 10
	cfg.Trace.Enabled = true
	cfg.Log.Level = "debug"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Rewrite.MaxIterations != 10 || !loaded.Trace.Enabled || loaded.Log.Level != "debug" {
		t.Errorf("round-tripped config mismatch: %+v", loaded)
	}
}
