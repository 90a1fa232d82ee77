package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/fieldlab/internal/grid"
)

// FieldStats summarizes one field at the current step.
type FieldStats struct {
	Min float64
	Max float64
	RMS float64
}

// Statistics is the per-step query result exposed to callers: extrema
// and RMS of every field, whether the stiffness threshold is engaged,
// and the stability bookkeeping.
type Statistics struct {
	Step              int
	Dt                float64
	Rho               FieldStats
	Excit             FieldStats
	Reg               FieldStats
	TotalMass         float64 // integral of density over the domain
	ThresholdEngaged  bool
	StabilityWarnings int
	BrokenCells       int
}

// Stats computes summary statistics of the current state.
func (e *Engine) Stats() Statistics {
	s := e.state
	st := Statistics{
		Step:              s.StepCount,
		Dt:                e.dt,
		Rho:               fieldStats(s.Rho),
		Excit:             fieldStats(s.Excit),
		Reg:               fieldStats(s.Reg),
		StabilityWarnings: s.StabilityWarnings,
	}

	cellArea := e.geo.Dx * e.geo.Dx
	st.TotalMass = floats.Sum(s.Rho) * cellArea

	// The coefficient is monotone in density, so the peak density tells
	// whether the ramp is engaged anywhere.
	st.ThresholdEngaged = e.stiff.At(st.Rho.Max) > e.stiff.Alpha()*(1+1e-12)

	if e.tracker != nil {
		st.BrokenCells = e.tracker.BrokenCount()
	}
	return st
}

func fieldStats(f grid.Field) FieldStats {
	if len(f) == 0 {
		return FieldStats{}
	}

	sumSq := 0.0
	for _, v := range f {
		sumSq += v * v
	}

	return FieldStats{
		Min: floats.Min(f),
		Max: floats.Max(f),
		RMS: math.Sqrt(sumSq / float64(len(f))),
	}
}
