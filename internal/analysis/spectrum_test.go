package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/fieldlab/internal/grid"
)

func TestPowerSpectrumSinusoid(t *testing.T) {
	n := 256
	cycles := 8
	data := make([]float64, n)
	for i := range data {
		data[i] = math.Sin(2 * math.Pi * float64(cycles) * float64(i) / float64(n))
	}

	ps := PowerSpectrum(data)
	idx, _ := DominantFrequency(ps)
	if idx != cycles {
		t.Errorf("expected dominant bin %d, got %d", cycles, idx)
	}
}

func TestPowerSpectrumPadsToPowerOfTwo(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 64 {
		t.Errorf("expected 64 bins for length-100 input, got %d", len(ps))
	}
}

func TestPowerSpectrumEmpty(t *testing.T) {
	if ps := PowerSpectrum(nil); ps != nil {
		t.Errorf("expected nil for empty input, got %v", ps)
	}
}

func TestRadialSpectrumSingleMode(t *testing.T) {
	geo, err := grid.NewGeometry(32, 10.0)
	if err != nil {
		t.Fatalf("geometry: %v", err)
	}

	n := geo.N
	m := 4
	f := make(grid.Field, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			f[i*n+j] = math.Cos(2 * math.Pi * float64(m) * float64(j) / float64(n))
		}
	}

	bins := RadialSpectrum(f, geo)
	if len(bins) != n/2 {
		t.Fatalf("expected %d bins, got %d", n/2, len(bins))
	}

	peak := 0
	for k := 1; k < len(bins); k++ {
		if bins[k] > bins[peak] {
			peak = k
		}
	}
	if peak != m {
		t.Errorf("expected peak at wavenumber %d, got %d", m, peak)
	}
}

func TestRadialSpectrumSizeMismatch(t *testing.T) {
	geo, err := grid.NewGeometry(16, 10.0)
	if err != nil {
		t.Fatalf("geometry: %v", err)
	}
	if bins := RadialSpectrum(make(grid.Field, 10), geo); bins != nil {
		t.Error("expected nil for size mismatch")
	}
}
