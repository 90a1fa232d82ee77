package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/fieldlab/internal/engine"
)

func statsWithMass(mass float64) engine.Statistics {
	return engine.Statistics{TotalMass: mass}
}

func TestMassDrift(t *testing.T) {
	m := NewMassDrift()

	m.Observe(statsWithMass(10))
	m.Observe(statsWithMass(10))
	if m.Value() != 0 {
		t.Errorf("expected zero drift, got %f", m.Value())
	}

	m.Observe(statsWithMass(11))
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected drift 0.1, got %f", m.Value())
	}

	// Drift is a running maximum; returning to the initial mass must
	// not lower it.
	m.Observe(statsWithMass(10))
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("expected max drift to stick at 0.1, got %f", m.Value())
	}
}

func TestMassDriftReset(t *testing.T) {
	m := NewMassDrift()
	m.Observe(statsWithMass(10))
	m.Observe(statsWithMass(20))
	if m.Value() == 0 {
		t.Error("expected non-zero drift before reset")
	}

	m.Reset()
	if m.Value() != 0 {
		t.Errorf("expected zero drift after reset, got %f", m.Value())
	}
}

func TestBoundedness(t *testing.T) {
	b := NewBoundedness(5.0)

	quiet := engine.Statistics{
		Rho:   engine.FieldStats{Max: 1},
		Excit: engine.FieldStats{Min: -2, Max: 2},
		Reg:   engine.FieldStats{Min: -1, Max: 1},
	}
	loud := engine.Statistics{
		Rho:   engine.FieldStats{Max: 1},
		Excit: engine.FieldStats{Min: -20, Max: 3},
		Reg:   engine.FieldStats{Min: -1, Max: 1},
	}

	b.Observe(quiet)
	b.Observe(quiet)
	b.Observe(loud)
	b.Observe(quiet)

	if math.Abs(b.Value()-0.75) > 1e-12 {
		t.Errorf("expected 0.75, got %f", b.Value())
	}
}

func TestBoundednessEmpty(t *testing.T) {
	b := NewBoundedness(5.0)
	if b.Value() != 1.0 {
		t.Errorf("empty metric should read 1.0, got %f", b.Value())
	}
}

func TestWarningRate(t *testing.T) {
	w := NewWarningRate()

	for i := 0; i < 10; i++ {
		w.Observe(engine.Statistics{StabilityWarnings: 2})
	}

	if math.Abs(w.Value()-0.2) > 1e-12 {
		t.Errorf("expected 0.2 warnings/step, got %f", w.Value())
	}

	w.Reset()
	if w.Value() != 0 {
		t.Errorf("expected 0 after reset, got %f", w.Value())
	}
}
