// Package grid provides periodic-grid geometry and spectral differentiation.
//
// Fields live on a square N x N grid with periodic boundaries, stored
// row-major as flat slices. Spatial derivatives are computed spectrally:
// transform to frequency space, multiply by a function of the wavenumber,
// transform back. This is exact for periodic domains.
//
//   - [Geometry]: immutable grid resolution, domain length and wavenumbers
//   - [Operator]: Laplacian and implicit per-mode diffusion factors
//
// The per-mode factor 1/(1 + dt*D*k^2) applies diffusion implicitly in
// frequency space, which is unconditionally stable regardless of dt.
package grid
