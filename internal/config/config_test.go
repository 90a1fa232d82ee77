package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.GridSize <= 0 {
		t.Error("grid size should be positive")
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Engine.Alpha != 1.0 {
		t.Errorf("expected alpha 1.0, got %f", cfg.Engine.Alpha)
	}
	if cfg.Stress != nil {
		t.Error("stress tracking should be off by default")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("robust")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Engine.ExcitBound != 1e3 {
		t.Errorf("expected tight bound 1e3, got %g", cfg.Engine.ExcitBound)
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestMonitoredPresetEnablesStress(t *testing.T) {
	cfg := GetPreset("monitored")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Stress == nil {
		t.Fatal("monitored preset must carry stress config")
	}

	p := cfg.EngineParams()
	if p.Stress == nil {
		t.Error("stress config should survive conversion to engine params")
	}
	if p.Stress.BreakingThreshold != 2.0 {
		t.Errorf("expected breaking threshold 2.0, got %f", p.Stress.BreakingThreshold)
	}
}

func TestQuietPresetIsLinear(t *testing.T) {
	cfg := GetPreset("quiet")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Engine.MFactor != 0 || cfg.Engine.CubicDamping != 0 {
		t.Error("quiet preset must disable the ramp and cubic damping")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) < 5 {
		t.Errorf("expected at least 5 presets, got %d", len(names))
	}

	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"baseline", "robust", "excitable", "monitored", "quiet"} {
		if !seen[want] {
			t.Errorf("missing preset %q", want)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := GetPreset("excitable")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Engine.Beta != cfg.Engine.Beta {
		t.Errorf("beta mismatch: %f vs %f", loaded.Engine.Beta, cfg.Engine.Beta)
	}
	if loaded.Seed.Sigma != cfg.Seed.Sigma {
		t.Errorf("sigma mismatch: %f vs %f", loaded.Seed.Sigma, cfg.Seed.Sigma)
	}
	if loaded.Dt != cfg.Dt {
		t.Errorf("dt mismatch: %f vs %f", loaded.Dt, cfg.Dt)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/path.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestEngineParamsConversion(t *testing.T) {
	cfg := DefaultConfig()
	p := cfg.EngineParams()

	if p.Alpha != cfg.Engine.Alpha {
		t.Errorf("alpha mismatch: %f vs %f", p.Alpha, cfg.Engine.Alpha)
	}
	if p.TauReg != cfg.Engine.TauReg {
		t.Errorf("tau_f mismatch: %f vs %f", p.TauReg, cfg.Engine.TauReg)
	}
	if p.Stress != nil {
		t.Error("no stress config should yield nil stress params")
	}
}
