// Package stress tracks a smoothed local rate of change of the density
// field and maintains a hysteretic per-cell damage map. Broken cells
// locally weaken the effective stiffness until the smoothed stress
// history has decayed well below the breaking threshold.
package stress

import (
	"math"

	"github.com/san-kum/fieldlab/internal/grid"
)

// velocity and history smoothing weights; a cell's velocity estimate is
// v = 0.9*v_prev + 0.1*|rho - rho_prev|/dt.
const (
	velocityMemory = 0.9
	historyMemory  = 0.95
)

type Params struct {
	VelocitySensitivity float64 // weight of the rate-of-change term
	StateSensitivity    float64 // weight of the density-excess term
	Cutoff              float64 // density threshold shared with the stiffness ramp
	BreakingThreshold   float64 // stress above this marks a cell broken
	BrokenResistance    float64 // stiffness-excess multiplier in broken cells
	RecoveryRate        float64 // hysteresis factor for leaving the broken set
}

// Tracker owns the per-cell velocity estimate, the smoothed stress
// history, and the damage map. It is mutated exactly once per step.
type Tracker struct {
	p        Params
	velocity grid.Field
	history  grid.Field
	broken   []bool
	count    int
}

func NewTracker(p Params, cells int) *Tracker {
	return &Tracker{
		p:        p,
		velocity: make(grid.Field, cells),
		history:  make(grid.Field, cells),
		broken:   make([]bool, cells),
	}
}

// Update advances the stress state given the density field before and
// after the step. A cell enters the broken set when its instantaneous
// stress exceeds the breaking threshold; it leaves only when the
// smoothed history has fallen below threshold*recoveryRate, which
// prevents chatter at the boundary.
func (t *Tracker) Update(rho, prev grid.Field, dt float64) {
	if dt <= 0 || len(rho) != len(t.velocity) || len(prev) != len(t.velocity) {
		return
	}

	enter := t.p.BreakingThreshold
	exit := t.p.BreakingThreshold * t.p.RecoveryRate

	for i := range t.velocity {
		rate := math.Abs(rho[i]-prev[i]) / dt
		t.velocity[i] = velocityMemory*t.velocity[i] + (1-velocityMemory)*rate

		excess := rho[i] - t.p.Cutoff
		if excess < 0 {
			excess = 0
		}
		stress := t.p.VelocitySensitivity*t.velocity[i] + t.p.StateSensitivity*excess
		t.history[i] = historyMemory*t.history[i] + (1-historyMemory)*stress

		if !t.broken[i] && stress > enter {
			t.broken[i] = true
			t.count++
		} else if t.broken[i] && t.history[i] < exit {
			t.broken[i] = false
			t.count--
		}
	}
}

// Broken returns the damage map. The slice is owned by the tracker and
// must not be mutated by callers.
func (t *Tracker) Broken() []bool { return t.broken }

// BrokenCount returns the number of currently broken cells.
func (t *Tracker) BrokenCount() int { return t.count }

// Resistance returns the configured stiffness-excess multiplier.
func (t *Tracker) Resistance() float64 { return t.p.BrokenResistance }

// Reset clears all stress state. Called only by emergency stabilization.
func (t *Tracker) Reset() {
	for i := range t.velocity {
		t.velocity[i] = 0
		t.history[i] = 0
		t.broken[i] = false
	}
	t.count = 0
}
