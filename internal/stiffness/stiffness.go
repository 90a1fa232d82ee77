// Package stiffness maps local density to a spatially varying coupling
// coefficient with a sharp but smooth tanh-based activation.
package stiffness

import (
	"fmt"
	"math"

	"github.com/san-kum/fieldlab/internal/grid"
)

// Params configures the density-dependent coupling. The effective
// coefficient is
//
//	alpha * min(1 + M*max(0, tanh(eta*(rho - cutoff))), maxGain)
//
// Far below the cutoff the coefficient stays at the baseline alpha; as
// density crosses the cutoff it ramps toward alpha*M and saturates at
// alpha*maxGain.
type Params struct {
	Alpha         float64 // base coefficient
	Amplification float64 // M; zero disables the ramp entirely
	Sharpness     float64 // eta, steepness of the tanh transition
	Cutoff        float64 // rho_cut, activation threshold
	MaxGain       float64 // upper clamp on the multiplier
}

type Model struct {
	p Params
}

func New(p Params) (*Model, error) {
	if p.Alpha <= 0 {
		return nil, fmt.Errorf("stiffness: alpha must be positive, got %f", p.Alpha)
	}
	if p.Amplification < 0 {
		return nil, fmt.Errorf("stiffness: amplification must be non-negative, got %f", p.Amplification)
	}
	if p.Sharpness < 0 {
		return nil, fmt.Errorf("stiffness: sharpness must be non-negative, got %f", p.Sharpness)
	}
	if p.MaxGain < 1 {
		return nil, fmt.Errorf("stiffness: max gain must be at least 1, got %f", p.MaxGain)
	}
	return &Model{p: p}, nil
}

func (m *Model) Params() Params { return m.p }

// Alpha returns the baseline coefficient.
func (m *Model) Alpha() float64 { return m.p.Alpha }

// At evaluates the effective coefficient for a single density value.
func (m *Model) At(rho float64) float64 {
	if rho < 0 {
		// Negative density must not suppress stiffness below baseline.
		rho = 0
	}
	if m.p.Amplification == 0 {
		return m.p.Alpha
	}
	ramp := math.Tanh(m.p.Sharpness * (rho - m.p.Cutoff))
	if ramp < 0 {
		ramp = 0
	}
	gain := 1 + m.p.Amplification*ramp
	if gain > m.p.MaxGain {
		gain = m.p.MaxGain
	}
	return m.p.Alpha * gain
}

// Coefficient evaluates the effective coefficient over a whole density
// field. When broken is non-nil, cells flagged broken have the excess
// over the baseline scaled down by resistance (the baseline itself is
// never reduced). Pure function of its inputs.
func (m *Model) Coefficient(rho grid.Field, broken []bool, resistance float64) grid.Field {
	coef := make(grid.Field, len(rho))
	for i, v := range rho {
		c := m.At(v)
		if broken != nil && broken[i] {
			c = m.p.Alpha + (c-m.p.Alpha)*resistance
		}
		coef[i] = c
	}
	return coef
}
