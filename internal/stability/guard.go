// Package stability keeps the field simulation numerically bounded.
//
// The guard never reports numerical trouble as an error: bounds are
// clamped and divergence is repaired in place, trading timestep size for
// stability so long runs survive transient numerical stress.
package stability

import (
	"math"

	"github.com/san-kum/fieldlab/internal/grid"
)

const (
	// DefaultSafeAmplitude is the density peak target after emergency
	// stabilization.
	DefaultSafeAmplitude = 0.1

	// DefaultTightBound is the symmetric band the excitation and
	// regulation fields are clamped into after a recovery.
	DefaultTightBound = 1.0

	// defaultHalvingThreshold is how many cumulative warnings are
	// tolerated before the timestep starts halving.
	defaultHalvingThreshold = 3
)

// Guard enforces physical bounds and repairs divergent states.
type Guard struct {
	excitBound       float64
	regBound         float64
	safeAmplitude    float64
	tightBound       float64
	halvingThreshold int
	warnings         int
}

func NewGuard(excitBound, regBound float64) *Guard {
	return &Guard{
		excitBound:       excitBound,
		regBound:         regBound,
		safeAmplitude:    DefaultSafeAmplitude,
		tightBound:       DefaultTightBound,
		halvingThreshold: defaultHalvingThreshold,
	}
}

// Warnings returns the cumulative divergence count.
func (g *Guard) Warnings() int { return g.warnings }

// EnforceBounds clamps the fields to their physical ranges in place:
// density at zero from below, excitation and regulation symmetrically.
// NaN cells pass through untouched; DetectAndRecover owns those.
func (g *Guard) EnforceBounds(rho, excit, reg grid.Field) {
	rho.ClampNonNegative()
	excit.ClampSymmetric(g.excitBound)
	reg.ClampSymmetric(g.regBound)
}

// DetectAndRecover scans all three fields for NaN/Inf. On detection it
// performs emergency stabilization: non-finite cells are zeroed, density
// is rescaled toward a small safe amplitude, excitation and regulation
// are clamped into a tight band, and once warnings accumulate past the
// halving threshold the timestep is cut in half. The timestep policy is
// one-directional: dt is only ever reduced.
//
// Returns true when a divergence was found and repaired.
func (g *Guard) DetectAndRecover(rho, excit, reg grid.Field, dt *float64) bool {
	if rho.IsFinite() && excit.IsFinite() && reg.IsFinite() {
		return false
	}

	g.warnings++

	zeroNonFinite(rho)
	zeroNonFinite(excit)
	zeroNonFinite(reg)

	rescalePeak(rho, g.safeAmplitude)
	excit.ClampSymmetric(g.tightBound)
	reg.ClampSymmetric(g.tightBound)

	if g.warnings > g.halvingThreshold && dt != nil {
		*dt *= 0.5
	}
	return true
}

func zeroNonFinite(f grid.Field) {
	for i, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			f[i] = 0
		}
	}
}

// rescalePeak shrinks f so its maximum equals target. Fields already
// below the target are left alone.
func rescalePeak(f grid.Field, target float64) {
	peak := 0.0
	for _, v := range f {
		if v > peak {
			peak = v
		}
	}
	if peak <= target || peak == 0 {
		return
	}
	scale := target / peak
	for i := range f {
		f[i] *= scale
	}
}
