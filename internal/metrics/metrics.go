// Package metrics provides step-observing summaries for simulation runs.
package metrics

import (
	"math"

	"github.com/san-kum/fieldlab/internal/engine"
)

// Metric observes per-step statistics and reduces them to one number at
// the end of a run.
type Metric interface {
	Name() string
	Observe(st engine.Statistics)
	Value() float64
	Reset()
}

// MassDrift tracks the maximum relative drift of the density integral
// from its initial value. Near zero for diffusion-dominated runs.
type MassDrift struct {
	name        string
	initialMass float64
	maxDrift    float64
	samples     int
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(st engine.Statistics) {
	if m.samples == 0 {
		m.initialMass = st.TotalMass
	}
	m.samples++

	if m.initialMass != 0 {
		drift := math.Abs(st.TotalMass-m.initialMass) / math.Abs(m.initialMass)
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MassDrift) Value() float64 { return m.maxDrift }

func (m *MassDrift) Reset() {
	m.initialMass = 0
	m.maxDrift = 0
	m.samples = 0
}

// Boundedness reports the fraction of observed steps where every field
// stayed inside the given amplitude threshold. 1.0 means a quiet run.
type Boundedness struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewBoundedness(threshold float64) *Boundedness {
	return &Boundedness{name: "boundedness", threshold: threshold}
}

func (b *Boundedness) Name() string { return b.name }

func (b *Boundedness) Observe(st engine.Statistics) {
	b.samples++
	peak := math.Max(st.Rho.Max, math.Max(math.Abs(st.Excit.Min), st.Excit.Max))
	peak = math.Max(peak, math.Max(math.Abs(st.Reg.Min), st.Reg.Max))
	if peak > b.threshold {
		b.violations++
	}
}

func (b *Boundedness) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Boundedness) Reset() {
	b.violations = 0
	b.samples = 0
}

// WarningRate reports stability warnings per observed step.
type WarningRate struct {
	name     string
	warnings int
	samples  int
}

func NewWarningRate() *WarningRate {
	return &WarningRate{name: "warning_rate"}
}

func (w *WarningRate) Name() string { return w.name }

func (w *WarningRate) Observe(st engine.Statistics) {
	w.samples++
	w.warnings = st.StabilityWarnings
}

func (w *WarningRate) Value() float64 {
	if w.samples == 0 {
		return 0
	}
	return float64(w.warnings) / float64(w.samples)
}

func (w *WarningRate) Reset() {
	w.warnings = 0
	w.samples = 0
}
