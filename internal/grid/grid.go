package grid

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Geometry holds the immutable grid parameters: resolution N, physical
// domain length L, derived spacing dx = L/N, and the squared wavenumber
// magnitude per mode used for spectral differentiation.
type Geometry struct {
	N      int
	Length float64
	Dx     float64
	kSq    []float64 // flat N*N, FFT frequency ordering
}

// NewGeometry validates the grid parameters and precomputes wavenumbers.
func NewGeometry(n int, length float64) (*Geometry, error) {
	if n <= 0 {
		return nil, fmt.Errorf("grid: resolution must be positive, got %d", n)
	}
	if length <= 0 {
		return nil, fmt.Errorf("grid: domain length must be positive, got %f", length)
	}

	g := &Geometry{
		N:      n,
		Length: length,
		Dx:     length / float64(n),
	}

	k := waveNumbers(n, g.Dx)
	g.kSq = make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			g.kSq[i*n+j] = k[i]*k[i] + k[j]*k[j]
		}
	}
	return g, nil
}

// Cells returns the number of grid cells N*N.
func (g *Geometry) Cells() int { return g.N * g.N }

// KSq returns the squared wavenumber magnitude for one mode.
func (g *Geometry) KSq(idx int) float64 { return g.kSq[idx] }

// waveNumbers builds the 1D angular wavenumber vector in FFT ordering:
// frequencies 0..n/2-1 positive, then negative, scaled by 2*pi/(n*d).
func waveNumbers(n int, d float64) []float64 {
	k := make([]float64, n)
	scale := 2.0 * math.Pi / (float64(n) * d)
	for i := 0; i < n; i++ {
		var freq float64
		if i < (n+1)/2 {
			freq = float64(i)
		} else {
			freq = float64(i - n)
		}
		k[i] = freq * scale
	}
	return k
}

// Operator computes spectral derivatives on a fixed geometry.
type Operator struct {
	geo *Geometry
}

func NewOperator(geo *Geometry) *Operator {
	return &Operator{geo: geo}
}

func (op *Operator) Geometry() *Geometry { return op.geo }

// Laplacian returns the periodic Laplacian of f: forward transform,
// multiply by -k^2, inverse transform, keep the real part. The input
// is not modified.
func (op *Operator) Laplacian(f Field) Field {
	n := op.geo.N
	if len(f) != n*n {
		return NewField(n)
	}

	spec := op.forward(f)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			spec[i][j] *= complex(-op.geo.kSq[i*n+j], 0)
		}
	}
	return op.inverse(spec)
}

// ImplicitFactor returns the per-mode factor 1/(1 + dt*D*k^2) that applies
// diffusion with coefficient D implicitly over one step of size dt.
func (op *Operator) ImplicitFactor(dt, diffusion float64) Field {
	factor := make(Field, len(op.geo.kSq))
	for i, k2 := range op.geo.kSq {
		factor[i] = 1.0 / (1.0 + dt*diffusion*k2)
	}
	return factor
}

// ApplyImplicit multiplies f by a precomputed per-mode factor in frequency
// space and transforms back, returning the real part.
func (op *Operator) ApplyImplicit(f, factor Field) Field {
	n := op.geo.N
	if len(f) != n*n || len(factor) != n*n {
		return NewField(n)
	}

	spec := op.forward(f)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			spec[i][j] *= complex(factor[i*n+j], 0)
		}
	}
	return op.inverse(spec)
}

func (op *Operator) forward(f Field) [][]complex128 {
	n := op.geo.N
	rows := make([][]float64, n)
	for i := 0; i < n; i++ {
		rows[i] = f[i*n : (i+1)*n]
	}
	return fft.FFT2Real(rows)
}

func (op *Operator) inverse(spec [][]complex128) Field {
	n := op.geo.N
	out := fft.IFFT2(spec)
	f := make(Field, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			f[i*n+j] = real(out[i][j])
		}
	}
	return f
}
