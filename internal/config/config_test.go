package config

import (
	"path/filepath"
	"testing"

	"github.com/san-kum/isinglab/internal/lattice"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Rows != DefaultSize || cfg.Cols != DefaultSize {
		t.Errorf("expected %dx%d, got %dx%d", DefaultSize, DefaultSize, cfg.Rows, cfg.Cols)
	}
	if cfg.Temp <= 0 {
		t.Error("temp should be positive")
	}
	if cfg.JRow != DefaultJ || cfg.JCol != DefaultJ {
		t.Error("coupling should default to DefaultJ in both directions")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 32, 48
	cfg.Temp = 1.5
	cfg.JRow, cfg.JCol = 2.0, 0.5
	cfg.Field = -0.25
	cfg.InitState = "down"
	cfg.Seed = 42
	cfg.Schedule = ScheduleConfig{Kind: "cooling", FinalTemp: 0.5, CoolingRate: 0.3}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if *loaded != *cfg {
		t.Errorf("round trip mismatch:\n  saved  %+v\n  loaded %+v", cfg, loaded)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(c *Config) {}, true},
		{"zero rows", func(c *Config) { c.Rows = 0 }, false},
		{"negative cols", func(c *Config) { c.Cols = -4 }, false},
		{"zero temp", func(c *Config) { c.Temp = 0 }, false},
		{"bad init state", func(c *Config) { c.InitState = "sideways" }, false},
		{"negative sweeps", func(c *Config) { c.Sweeps = -1 }, false},
		{"bad schedule kind", func(c *Config) { c.Schedule.Kind = "wobble" }, false},
		{"cooling schedule", func(c *Config) { c.Schedule = ScheduleConfig{Kind: "cooling", FinalTemp: 1} }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLatticeConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Rows, cfg.Cols = 16, 24
	cfg.JRow, cfg.JCol = 1.5, 0.5
	cfg.InitState = ""

	lc := cfg.LatticeConfig()
	if lc.Rows != 16 || lc.Cols != 24 {
		t.Errorf("expected 16x24, got %dx%d", lc.Rows, lc.Cols)
	}
	if lc.Coupling != (lattice.Coupling{Row: 1.5, Col: 0.5}) {
		t.Errorf("coupling not carried over: %+v", lc.Coupling)
	}
	if lc.Init != lattice.InitRandom {
		t.Errorf("empty init state should default to random, got %q", lc.Init)
	}
}

func TestBuildSchedule(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.BuildSchedule() != nil {
		t.Error("empty schedule kind should build nil")
	}

	cfg.Schedule = ScheduleConfig{Kind: "cooling", FinalTemp: 1.0, CoolingRate: 0.5}
	sched := cfg.BuildSchedule()
	if sched == nil {
		t.Fatal("expected cooling schedule")
	}
	if temp, _ := sched(0); temp != cfg.Temp {
		t.Errorf("cooling should start at %g, got %g", cfg.Temp, temp)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("critical")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Temp != 2.269 {
		t.Errorf("expected critical temperature 2.269, got %g", cfg.Temp)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset should validate: %v", err)
	}

	// Returned copy must not alias the table.
	cfg.Temp = 99
	if Presets["critical"].Temp == 99 {
		t.Error("mutating a returned preset leaked into the table")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestAllPresetsValidate(t *testing.T) {
	for _, name := range ListPresets() {
		if err := GetPreset(name).Validate(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
