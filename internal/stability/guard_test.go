package stability

import (
	"math"
	"testing"

	"github.com/san-kum/fieldlab/internal/grid"
)

func TestEnforceBounds(t *testing.T) {
	g := NewGuard(10, 5)

	rho := grid.Field{-1, 0.5}
	excit := grid.Field{-20, 20}
	reg := grid.Field{7, -7}

	g.EnforceBounds(rho, excit, reg)

	if rho[0] != 0 {
		t.Errorf("density must be non-negative, got %f", rho[0])
	}
	if excit[0] != -10 || excit[1] != 10 {
		t.Errorf("excitation clamp failed: %v", excit)
	}
	if reg[0] != 5 || reg[1] != -5 {
		t.Errorf("regulation clamp failed: %v", reg)
	}
}

func TestDetectAndRecoverCleanState(t *testing.T) {
	g := NewGuard(10, 10)
	rho := grid.Field{0.1, 0.2}
	excit := grid.Field{0, 0}
	reg := grid.Field{0, 0}
	dt := 0.01

	if g.DetectAndRecover(rho, excit, reg, &dt) {
		t.Error("clean state should not trigger recovery")
	}
	if g.Warnings() != 0 {
		t.Errorf("expected 0 warnings, got %d", g.Warnings())
	}
	if dt != 0.01 {
		t.Errorf("dt should be untouched, got %f", dt)
	}
}

func TestDetectAndRecoverNaN(t *testing.T) {
	g := NewGuard(10, 10)
	rho := grid.Field{5.0, math.NaN()}
	excit := grid.Field{math.Inf(1), 0}
	reg := grid.Field{0, 3}
	dt := 0.01

	if !g.DetectAndRecover(rho, excit, reg, &dt) {
		t.Fatal("expected recovery")
	}
	if g.Warnings() != 1 {
		t.Errorf("expected 1 warning, got %d", g.Warnings())
	}

	for _, f := range []grid.Field{rho, excit, reg} {
		if !f.IsFinite() {
			t.Errorf("field still non-finite after recovery: %v", f)
		}
	}

	peak := math.Max(rho[0], rho[1])
	if peak > DefaultSafeAmplitude+1e-12 {
		t.Errorf("density peak %f above safe amplitude", peak)
	}
	if reg[1] > DefaultTightBound {
		t.Errorf("regulation not clamped into tight band: %f", reg[1])
	}
}

func TestTimestepHalvesAfterRepeatedWarnings(t *testing.T) {
	g := NewGuard(10, 10)
	dt := 0.01

	for i := 0; i < 6; i++ {
		rho := grid.Field{math.NaN()}
		g.DetectAndRecover(rho, grid.Field{0}, grid.Field{0}, &dt)
	}

	// Warnings 1-3 leave dt alone; 4, 5 and 6 each halve it.
	want := 0.01 * 0.5 * 0.5 * 0.5
	if math.Abs(dt-want) > 1e-15 {
		t.Errorf("expected dt %g after 6 warnings, got %g", want, dt)
	}
	if g.Warnings() != 6 {
		t.Errorf("expected 6 warnings, got %d", g.Warnings())
	}
}

func TestRescaleLeavesSmallFieldsAlone(t *testing.T) {
	g := NewGuard(10, 10)
	rho := grid.Field{0.01, math.NaN()}
	dt := 0.01

	g.DetectAndRecover(rho, grid.Field{0, 0}, grid.Field{0, 0}, &dt)

	if rho[0] != 0.01 {
		t.Errorf("small density should not be rescaled, got %f", rho[0])
	}
}
