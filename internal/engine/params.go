package engine

import (
	"fmt"

	"github.com/san-kum/fieldlab/internal/stress"
)

// Params is the immutable engine configuration. Every behavioral variant
// of the dynamics is a different Params value, not a different engine.
type Params struct {
	// Coupling and relaxation.
	Alpha  float64 // stiffness baseline
	Beta   float64 // F -> E drive
	Gamma  float64 // baseline density diffusion
	Delta1 float64 // rho -> F source
	Delta2 float64 // E -> F source
	Kappa  float64 // linear F decay

	// Relaxation times; all must be positive.
	TauRho   float64
	TauExcit float64
	TauReg   float64

	// Stiffness ramp.
	MFactor      float64 // amplification; zero disables the ramp
	EtaPower     float64 // tanh sharpness
	RhoCutoff    float64 // activation threshold
	MaxGain      float64 // multiplier saturation
	CubicDamping float64 // F^3 self-damping, the nonlinear stabilizer

	// Density diffusion composition: the effective coefficient is
	// Gamma + RegDiffusion*F^2 + StiffDiffusion*(keff - Alpha). The
	// source variants disagree on this formula, so it is configuration.
	RegDiffusion   float64
	StiffDiffusion float64

	// Implicit diffusion coefficients for E and F.
	DiffExcit float64
	DiffReg   float64

	// Symmetric clamp ranges enforced after every step.
	ExcitBound float64
	RegBound   float64

	// Optional stress/damage extension; nil disables it.
	Stress *stress.Params
}

// DefaultParams returns the baseline configuration: moderate coupling,
// stiffness ramp enabled, wide bounds.
func DefaultParams() Params {
	return Params{
		Alpha:          1.0,
		Beta:           0.5,
		Gamma:          0.05,
		Delta1:         0.5,
		Delta2:         0.3,
		Kappa:          0.2,
		TauRho:         50.0,
		TauExcit:       10.0,
		TauReg:         20.0,
		MFactor:        4.0,
		EtaPower:       2.0,
		RhoCutoff:      0.5,
		MaxGain:        5.0,
		CubicDamping:   0.1,
		RegDiffusion:   0.1,
		StiffDiffusion: 0.01,
		DiffExcit:      0.05,
		DiffReg:        0.05,
		ExcitBound:     1e4,
		RegBound:       1e4,
	}
}

func (p Params) validate() error {
	if p.TauRho <= 0 || p.TauExcit <= 0 || p.TauReg <= 0 {
		return fmt.Errorf("engine: relaxation times must be positive (tau_rho=%g, tau_E=%g, tau_F=%g)",
			p.TauRho, p.TauExcit, p.TauReg)
	}
	if p.Gamma < 0 || p.DiffExcit < 0 || p.DiffReg < 0 {
		return fmt.Errorf("engine: diffusion coefficients must be non-negative")
	}
	if p.ExcitBound <= 0 || p.RegBound <= 0 {
		return fmt.Errorf("engine: field bounds must be positive (E=%g, F=%g)", p.ExcitBound, p.RegBound)
	}
	if p.CubicDamping < 0 {
		return fmt.Errorf("engine: cubic damping must be non-negative, got %g", p.CubicDamping)
	}
	return nil
}
