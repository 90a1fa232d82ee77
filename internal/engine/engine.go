package engine

import (
	"fmt"
	"math"

	"github.com/san-kum/fieldlab/internal/grid"
	"github.com/san-kum/fieldlab/internal/stability"
	"github.com/san-kum/fieldlab/internal/stiffness"
	"github.com/san-kum/fieldlab/internal/stress"
)

// minChunk is the smallest cell range worth its own worker goroutine.
const minChunk = 1024

// Engine advances the three-field state one step at a time. All variant
// behavior lives in Params; there is exactly one step algorithm.
type Engine struct {
	params  Params
	geo     *grid.Geometry
	op      *grid.Operator
	stiff   *stiffness.Model
	guard   *stability.Guard
	tracker *stress.Tracker // nil unless the preset enables it

	state   *State
	prevRho grid.Field // density before the current step, for stress tracking
	dt      float64

	// per-mode implicit diffusion factors, rebuilt when dt changes
	factorExcit grid.Field
	factorReg   grid.Field
}

// New validates the configuration and builds an engine. Grid resolution,
// domain length, timestep and relaxation times must be positive; anything
// else is a construction error, never a runtime panic.
func New(n int, length, dt float64, p Params) (*Engine, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("engine: initial timestep must be positive, got %g", dt)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	geo, err := grid.NewGeometry(n, length)
	if err != nil {
		return nil, err
	}

	stiff, err := stiffness.New(stiffness.Params{
		Alpha:         p.Alpha,
		Amplification: p.MFactor,
		Sharpness:     p.EtaPower,
		Cutoff:        p.RhoCutoff,
		MaxGain:       p.MaxGain,
	})
	if err != nil {
		return nil, err
	}

	e := &Engine{
		params: p,
		geo:    geo,
		op:     grid.NewOperator(geo),
		stiff:  stiff,
		guard:  stability.NewGuard(p.ExcitBound, p.RegBound),
		state:  newState(geo.Cells()),
		dt:     dt,
	}

	if p.Stress != nil {
		sp := *p.Stress
		if sp.Cutoff == 0 {
			sp.Cutoff = p.RhoCutoff
		}
		e.tracker = stress.NewTracker(sp, geo.Cells())
	}

	e.refreshFactors()
	return e, nil
}

func (e *Engine) refreshFactors() {
	e.factorExcit = e.op.ImplicitFactor(e.dt, e.params.DiffExcit)
	e.factorReg = e.op.ImplicitFactor(e.dt, e.params.DiffReg)
}

// Geometry returns the immutable grid geometry.
func (e *Engine) Geometry() *grid.Geometry { return e.geo }

// Dt returns the current timestep. It only ever shrinks.
func (e *Engine) Dt() float64 { return e.dt }

// StepCount returns the number of completed steps.
func (e *Engine) StepCount() int { return e.state.StepCount }

// Snapshot returns an independent copy of the simulation state.
func (e *Engine) Snapshot() State { return e.state.clone() }

// Broken returns the damage mask, or nil when stress tracking is off.
// The slice is a copy and safe to retain across steps.
func (e *Engine) Broken() []bool {
	if e.tracker == nil {
		return nil
	}
	mask := e.tracker.Broken()
	out := make([]bool, len(mask))
	copy(out, mask)
	return out
}

// SeedGaussian places a centered Gaussian bump of the given amplitude and
// width into the density field and zeroes excitation and regulation.
func (e *Engine) SeedGaussian(amplitude, sigma float64) {
	n := e.geo.N
	c := e.geo.Length / 2
	twoSigmaSq := 2 * sigma * sigma

	for i := 0; i < n; i++ {
		x := float64(i) * e.geo.Dx
		for j := 0; j < n; j++ {
			y := float64(j) * e.geo.Dx
			r2 := (x-c)*(x-c) + (y-c)*(y-c)
			e.state.Rho[i*n+j] = amplitude * math.Exp(-r2/twoSigmaSq)
		}
	}
	for i := range e.state.Excit {
		e.state.Excit[i] = 0
		e.state.Reg[i] = 0
	}
	e.state.Rho.ClampNonNegative()
}

// SetFields replaces all three fields with caller-supplied values. The
// inputs are copied; density is clamped non-negative so the positivity
// invariant holds before the first step.
func (e *Engine) SetFields(rho, excit, reg grid.Field) error {
	cells := e.geo.Cells()
	if len(rho) != cells || len(excit) != cells || len(reg) != cells {
		return ErrShapeMismatch
	}
	copy(e.state.Rho, rho)
	copy(e.state.Excit, excit)
	copy(e.state.Reg, reg)
	e.state.Rho.ClampNonNegative()
	return nil
}

// InjectDensity adds an external stimulus field into density between
// steps. The result is clamped non-negative.
func (e *Engine) InjectDensity(f grid.Field) error {
	if len(f) != e.geo.Cells() {
		return ErrShapeMismatch
	}
	for i, v := range f {
		e.state.Rho[i] += v
	}
	e.state.Rho.ClampNonNegative()
	return nil
}

// InjectExcitation adds an external stimulus field into excitation
// between steps, respecting the configured bound.
func (e *Engine) InjectExcitation(f grid.Field) error {
	if len(f) != e.geo.Cells() {
		return ErrShapeMismatch
	}
	for i, v := range f {
		e.state.Excit[i] += v
	}
	e.state.Excit.ClampSymmetric(e.params.ExcitBound)
	return nil
}

// Advance runs n steps. It never fails: numerical trouble is repaired by
// the stability guard and counted in the state's warning counter.
func (e *Engine) Advance(n int) {
	for i := 0; i < n; i++ {
		e.step()
	}
}

func (e *Engine) step() {
	s := e.state
	p := e.params
	dt := e.dt

	lapRho := e.op.Laplacian(s.Rho)

	var broken []bool
	resistance := 1.0
	if e.tracker != nil {
		broken = e.tracker.Broken()
		resistance = e.tracker.Resistance()
	}
	keff := e.stiff.Coefficient(s.Rho, broken, resistance)

	if e.tracker != nil {
		e.prevRho = s.Rho.Clone()
	}

	cells := e.geo.Cells()
	newRho := make(grid.Field, cells)
	excitStar := make(grid.Field, cells)
	regStar := make(grid.Field, cells)

	parallelFor(cells, minChunk, func(start, end int) {
		for i := start; i < end; i++ {
			rho, ex, f := s.Rho[i], s.Excit[i], s.Reg[i]
			excess := keff[i] - p.Alpha

			// Density diffuses faster where regulation is strong and
			// where the stiffness ramp is engaged.
			diff := p.Gamma + p.RegDiffusion*f*f + p.StiffDiffusion*excess
			newRho[i] = rho + dt*(diff*lapRho[i]-rho/p.TauRho)

			excitStar[i] = ex + dt*(p.Beta*f-ex/p.TauExcit)

			regStar[i] = f + dt*(p.Delta1*rho+p.Delta2*ex-p.Kappa*f-f/p.TauReg+
				excess*f-p.CubicDamping*f*f*f)
		}
	})

	// Guaranteed positivity: a hard invariant, not a convenience clamp.
	newRho.ClampNonNegative()

	// Diffusion of E and F is applied implicitly per mode, which stays
	// stable for any dt.
	s.Rho = newRho
	s.Excit = e.op.ApplyImplicit(excitStar, e.factorExcit)
	s.Reg = e.op.ApplyImplicit(regStar, e.factorReg)

	e.guard.EnforceBounds(s.Rho, s.Excit, s.Reg)

	dtBefore := e.dt
	if e.guard.DetectAndRecover(s.Rho, s.Excit, s.Reg, &e.dt) {
		s.StabilityWarnings++
		if e.tracker != nil {
			e.tracker.Reset()
		}
		if e.dt != dtBefore {
			e.refreshFactors()
		}
	} else if e.tracker != nil {
		e.tracker.Update(s.Rho, e.prevRho, dt)
	}

	s.StepCount++
}
