package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fieldlab/internal/engine"
	"github.com/san-kum/fieldlab/internal/stress"
)

const (
	DefaultGridSize = 32
	DefaultLength   = 1.0
	DefaultDt       = 0.001
	DefaultSteps    = 1000
)

// Config is the serializable run configuration: grid, timestep, initial
// seeding and the full engine parameter set. Behavioral variants are
// presets of this structure, never code forks.
type Config struct {
	GridSize int           `yaml:"grid_size"`
	Length   float64       `yaml:"length"`
	Dt       float64       `yaml:"dt"`
	Steps    int           `yaml:"steps"`
	Seed     SeedConfig    `yaml:"seed"`
	Engine   EngineConfig  `yaml:"engine"`
	Stress   *StressConfig `yaml:"stress,omitempty"`
}

// SeedConfig describes the initial Gaussian density bump.
type SeedConfig struct {
	Amplitude float64 `yaml:"amplitude"`
	Sigma     float64 `yaml:"sigma"`
}

type EngineConfig struct {
	Alpha          float64 `yaml:"alpha"`
	Beta           float64 `yaml:"beta"`
	Gamma          float64 `yaml:"gamma"`
	Delta1         float64 `yaml:"delta1"`
	Delta2         float64 `yaml:"delta2"`
	Kappa          float64 `yaml:"kappa"`
	TauRho         float64 `yaml:"tau_rho"`
	TauExcit       float64 `yaml:"tau_e"`
	TauReg         float64 `yaml:"tau_f"`
	MFactor        float64 `yaml:"m_factor"`
	EtaPower       float64 `yaml:"eta_power"`
	RhoCutoff      float64 `yaml:"rho_cutoff"`
	MaxGain        float64 `yaml:"max_gain"`
	CubicDamping   float64 `yaml:"cubic_damping"`
	RegDiffusion   float64 `yaml:"reg_diffusion"`
	StiffDiffusion float64 `yaml:"stiff_diffusion"`
	DiffExcit      float64 `yaml:"diff_e"`
	DiffReg        float64 `yaml:"diff_f"`
	ExcitBound     float64 `yaml:"excit_bound"`
	RegBound       float64 `yaml:"reg_bound"`
}

type StressConfig struct {
	VelocitySensitivity float64 `yaml:"velocity_sensitivity"`
	StateSensitivity    float64 `yaml:"state_sensitivity"`
	BreakingThreshold   float64 `yaml:"breaking_threshold"`
	BrokenResistance    float64 `yaml:"broken_resistance"`
	RecoveryRate        float64 `yaml:"recovery_rate"`
}

func DefaultConfig() *Config {
	return &Config{
		GridSize: DefaultGridSize,
		Length:   DefaultLength,
		Dt:       DefaultDt,
		Steps:    DefaultSteps,
		Seed:     SeedConfig{Amplitude: 1.0, Sigma: 0.1},
		Engine:   fromParams(engine.DefaultParams()),
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// EngineParams converts the serialized form into the engine's immutable
// parameter struct. Validation happens in engine.New.
func (c *Config) EngineParams() engine.Params {
	p := engine.Params{
		Alpha:          c.Engine.Alpha,
		Beta:           c.Engine.Beta,
		Gamma:          c.Engine.Gamma,
		Delta1:         c.Engine.Delta1,
		Delta2:         c.Engine.Delta2,
		Kappa:          c.Engine.Kappa,
		TauRho:         c.Engine.TauRho,
		TauExcit:       c.Engine.TauExcit,
		TauReg:         c.Engine.TauReg,
		MFactor:        c.Engine.MFactor,
		EtaPower:       c.Engine.EtaPower,
		RhoCutoff:      c.Engine.RhoCutoff,
		MaxGain:        c.Engine.MaxGain,
		CubicDamping:   c.Engine.CubicDamping,
		RegDiffusion:   c.Engine.RegDiffusion,
		StiffDiffusion: c.Engine.StiffDiffusion,
		DiffExcit:      c.Engine.DiffExcit,
		DiffReg:        c.Engine.DiffReg,
		ExcitBound:     c.Engine.ExcitBound,
		RegBound:       c.Engine.RegBound,
	}
	if c.Stress != nil {
		p.Stress = &stress.Params{
			VelocitySensitivity: c.Stress.VelocitySensitivity,
			StateSensitivity:    c.Stress.StateSensitivity,
			BreakingThreshold:   c.Stress.BreakingThreshold,
			BrokenResistance:    c.Stress.BrokenResistance,
			RecoveryRate:        c.Stress.RecoveryRate,
		}
	}
	return p
}

func fromParams(p engine.Params) EngineConfig {
	return EngineConfig{
		Alpha:          p.Alpha,
		Beta:           p.Beta,
		Gamma:          p.Gamma,
		Delta1:         p.Delta1,
		Delta2:         p.Delta2,
		Kappa:          p.Kappa,
		TauRho:         p.TauRho,
		TauExcit:       p.TauExcit,
		TauReg:         p.TauReg,
		MFactor:        p.MFactor,
		EtaPower:       p.EtaPower,
		RhoCutoff:      p.RhoCutoff,
		MaxGain:        p.MaxGain,
		CubicDamping:   p.CubicDamping,
		RegDiffusion:   p.RegDiffusion,
		StiffDiffusion: p.StiffDiffusion,
		DiffExcit:      p.DiffExcit,
		DiffReg:        p.DiffReg,
		ExcitBound:     p.ExcitBound,
		RegBound:       p.RegBound,
	}
}
