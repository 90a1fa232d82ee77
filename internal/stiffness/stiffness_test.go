package stiffness

import (
	"math"
	"testing"

	"github.com/san-kum/fieldlab/internal/grid"
)

func defaultParams() Params {
	return Params{Alpha: 1.0, Amplification: 4.0, Sharpness: 2.0, Cutoff: 0.5, MaxGain: 5.0}
}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name string
		p    Params
	}{
		{"zero alpha", Params{Alpha: 0, MaxGain: 2}},
		{"negative alpha", Params{Alpha: -1, MaxGain: 2}},
		{"negative amplification", Params{Alpha: 1, Amplification: -1, MaxGain: 2}},
		{"negative sharpness", Params{Alpha: 1, Sharpness: -0.5, MaxGain: 2}},
		{"max gain below one", Params{Alpha: 1, MaxGain: 0.5}},
	}

	for _, tt := range tests {
		if _, err := New(tt.p); err == nil {
			t.Errorf("%s: expected error, got nil", tt.name)
		}
	}
}

func TestMonotoneInDensity(t *testing.T) {
	m, err := New(defaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prev := math.Inf(-1)
	for rho := -1.0; rho <= 3.0; rho += 0.01 {
		c := m.At(rho)
		if c < prev {
			t.Fatalf("coefficient decreased at rho=%.2f: %f -> %f", rho, prev, c)
		}
		prev = c
	}
}

func TestBaselineBelowCutoff(t *testing.T) {
	m, _ := New(defaultParams())

	// Below the cutoff the ramp is clamped to zero, so the coefficient
	// stays exactly at alpha.
	for _, rho := range []float64{-2, -0.5, 0, 0.3, 0.49} {
		if c := m.At(rho); c != 1.0 {
			t.Errorf("rho=%.2f: expected baseline 1.0, got %f", rho, c)
		}
	}
}

func TestAmplificationZeroDisables(t *testing.T) {
	p := defaultParams()
	p.Amplification = 0
	m, _ := New(p)

	for _, rho := range []float64{-1, 0, 0.5, 10, 1e6} {
		if c := m.At(rho); c != p.Alpha {
			t.Errorf("rho=%g: expected alpha %f, got %f", rho, p.Alpha, c)
		}
	}
}

func TestSaturatesAtMaxGain(t *testing.T) {
	m, _ := New(defaultParams())

	c := m.At(1e6)
	if c != 5.0 {
		t.Errorf("expected saturation at alpha*maxGain = 5.0, got %f", c)
	}
}

func TestCoefficientFieldWithDamage(t *testing.T) {
	m, _ := New(defaultParams())

	rho := grid.Field{0.0, 2.0, 2.0}
	broken := []bool{false, false, true}
	coef := m.Coefficient(rho, broken, 0.25)

	if coef[0] != 1.0 {
		t.Errorf("quiet cell: expected baseline, got %f", coef[0])
	}
	if coef[1] <= coef[2] {
		t.Errorf("broken cell should carry less excess: intact=%f broken=%f", coef[1], coef[2])
	}
	if coef[2] < 1.0 {
		t.Errorf("damage must not push below baseline, got %f", coef[2])
	}

	want := 1.0 + (coef[1]-1.0)*0.25
	if math.Abs(coef[2]-want) > 1e-12 {
		t.Errorf("expected damped excess %f, got %f", want, coef[2])
	}
}
