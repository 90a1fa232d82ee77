package config

import "sort"

// Presets are the canonical engine variants. Each is a full Config so a
// preset can pin grid and timestep as well as dynamics.
var Presets = map[string]*Config{
	// Default coupling, wide bounds.
	"baseline": DefaultConfig(),

	// Tight bounds and gentler coupling; survives rough initial data.
	"robust": {
		GridSize: 32, Length: 1.0, Dt: 0.0005, Steps: 2000,
		Seed: SeedConfig{Amplitude: 1.0, Sigma: 0.1},
		Engine: EngineConfig{
			Alpha: 1.0, Beta: 0.3, Gamma: 0.05, Delta1: 0.3, Delta2: 0.2,
			Kappa: 0.3, TauRho: 50, TauExcit: 10, TauReg: 20,
			MFactor: 4, EtaPower: 2, RhoCutoff: 0.5, MaxGain: 5,
			CubicDamping: 0.2, RegDiffusion: 0.05, StiffDiffusion: 0.01,
			DiffExcit: 0.05, DiffReg: 0.05,
			ExcitBound: 1e3, RegBound: 1e3,
		},
	},

	// Strong F -> E drive and cross-coupling; rides the cubic damping.
	"excitable": {
		GridSize: 32, Length: 1.0, Dt: 0.0005, Steps: 2000,
		Seed: SeedConfig{Amplitude: 2.0, Sigma: 0.08},
		Engine: EngineConfig{
			Alpha: 1.0, Beta: 1.5, Gamma: 0.05, Delta1: 1.0, Delta2: 0.8,
			Kappa: 0.1, TauRho: 50, TauExcit: 5, TauReg: 10,
			MFactor: 6, EtaPower: 3, RhoCutoff: 0.4, MaxGain: 8,
			CubicDamping: 0.3, RegDiffusion: 0.1, StiffDiffusion: 0.01,
			DiffExcit: 0.05, DiffReg: 0.05,
			ExcitBound: 1e4, RegBound: 1e4,
		},
	},

	// Baseline dynamics plus the stress tracker and damage map.
	"monitored": {
		GridSize: 32, Length: 1.0, Dt: 0.001, Steps: 1000,
		Seed: SeedConfig{Amplitude: 1.5, Sigma: 0.1},
		Engine: EngineConfig{
			Alpha: 1.0, Beta: 0.5, Gamma: 0.05, Delta1: 0.5, Delta2: 0.3,
			Kappa: 0.2, TauRho: 50, TauExcit: 10, TauReg: 20,
			MFactor: 4, EtaPower: 2, RhoCutoff: 0.5, MaxGain: 5,
			CubicDamping: 0.1, RegDiffusion: 0.1, StiffDiffusion: 0.01,
			DiffExcit: 0.05, DiffReg: 0.05,
			ExcitBound: 1e4, RegBound: 1e4,
		},
		Stress: &StressConfig{
			VelocitySensitivity: 1.0,
			StateSensitivity:    0.5,
			BreakingThreshold:   2.0,
			BrokenResistance:    0.3,
			RecoveryRate:        0.5,
		},
	},

	// Linear reaction-diffusion: ramp and cubic damping disabled.
	"quiet": {
		GridSize: 32, Length: 1.0, Dt: 0.001, Steps: 1000,
		Seed: SeedConfig{Amplitude: 0.5, Sigma: 0.15},
		Engine: EngineConfig{
			Alpha: 1.0, Beta: 0, Gamma: 0.05, Delta1: 0, Delta2: 0,
			Kappa: 0.2, TauRho: 10, TauExcit: 10, TauReg: 10,
			MFactor: 0, EtaPower: 2, RhoCutoff: 0.5, MaxGain: 5,
			CubicDamping: 0, RegDiffusion: 0, StiffDiffusion: 0,
			DiffExcit: 0.05, DiffReg: 0.05,
			ExcitBound: 1e4, RegBound: 1e4,
		},
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
