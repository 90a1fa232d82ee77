package engine

import "github.com/san-kum/fieldlab/internal/grid"

// State is the evolving simulation state. It is owned exclusively by the
// engine; Snapshot returns an independent copy for inspection.
type State struct {
	Rho   grid.Field // density, always >= 0
	Excit grid.Field // excitation, clamped symmetric
	Reg   grid.Field // regulation, clamped symmetric

	StepCount         int
	StabilityWarnings int
}

func newState(cells int) *State {
	return &State{
		Rho:   make(grid.Field, cells),
		Excit: make(grid.Field, cells),
		Reg:   make(grid.Field, cells),
	}
}

func (s *State) clone() State {
	return State{
		Rho:               s.Rho.Clone(),
		Excit:             s.Excit.Clone(),
		Reg:               s.Reg.Clone(),
		StepCount:         s.StepCount,
		StabilityWarnings: s.StabilityWarnings,
	}
}
