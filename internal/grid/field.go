package grid

import "math"

// Field is a scalar field on a square periodic grid, stored row-major
// as a flat slice of length N*N (index = row*N + col).
type Field []float64

// NewField allocates a zeroed field for an n x n grid.
func NewField(n int) Field {
	return make(Field, n*n)
}

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

// IsFinite reports whether every cell is a finite number.
func (f Field) IsFinite() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// ClampNonNegative floors every cell at zero in place.
func (f Field) ClampNonNegative() {
	for i, v := range f {
		if v < 0 {
			f[i] = 0
		}
	}
}

// ClampSymmetric restricts every cell to [-bound, bound] in place.
// NaN cells are left untouched; divergence detection handles those.
func (f Field) ClampSymmetric(bound float64) {
	for i, v := range f {
		if v > bound {
			f[i] = bound
		} else if v < -bound {
			f[i] = -bound
		}
	}
}
