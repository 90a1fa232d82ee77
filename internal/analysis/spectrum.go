// Package analysis provides spectral diagnostics for runs and fields.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/fieldlab/internal/grid"
)

// PowerSpectrum returns the magnitude spectrum of a time series. The
// input is zero-padded to the next power of two; only the positive
// half of the spectrum is returned.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}

	n := 1
	for n < len(data) {
		n *= 2
	}
	padded := make([]float64, n)
	copy(padded, data)

	coeffs := fft.FFTReal(padded)
	ps := make([]float64, len(coeffs)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(coeffs[i])
	}
	return ps
}

// DominantFrequency returns the index and magnitude of the strongest
// non-DC component of a power spectrum.
func DominantFrequency(ps []float64) (int, float64) {
	maxIdx, maxPower := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > maxPower {
			maxPower = ps[i]
			maxIdx = i
		}
	}
	return maxIdx, maxPower
}

// RadialSpectrum computes the shell-averaged spectral energy of a
// field, binned by integer radial wavenumber. Bin zero holds the mean
// mode. The result has N/2 bins.
func RadialSpectrum(f grid.Field, geo *grid.Geometry) []float64 {
	n := geo.N
	if len(f) != n*n {
		return nil
	}

	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = f[i*n : (i+1)*n]
	}
	coeffs := fft.FFT2Real(rows)

	bins := make([]float64, n/2)
	counts := make([]int, n/2)
	for i := 0; i < n; i++ {
		ki := i
		if ki > n/2 {
			ki = n - ki
		}
		for j := 0; j < n; j++ {
			kj := j
			if kj > n/2 {
				kj = n - kj
			}
			k := int(math.Round(math.Sqrt(float64(ki*ki + kj*kj))))
			if k >= len(bins) {
				continue
			}
			mag := cmplx.Abs(coeffs[i][j])
			bins[k] += mag * mag
			counts[k]++
		}
	}

	for k := range bins {
		if counts[k] > 0 {
			bins[k] /= float64(counts[k])
		}
	}
	return bins
}
