// Package engine evolves three coupled scalar fields on a periodic 2-D
// grid: density rho, excitation E and regulation F.
//
// Each step computes spectral Laplacians, derives a density-dependent
// effective stiffness, advances density explicitly with guaranteed
// positivity, advances excitation and regulation with an IMEX scheme
// (reaction terms explicit, diffusion implicit in frequency space), and
// hands the result to the stability guard before accepting it.
//
//	eng, err := engine.New(64, 10.0, 0.001, engine.DefaultParams())
//	eng.SeedGaussian(1.0, 0.5)
//	eng.Advance(1000)
//	st := eng.Stats()
//
// Numerical divergence is never returned as an error: the guard repairs
// the state in place and, under repeated stress, halves the timestep.
// Only invalid construction parameters and shape mismatches fail fast.
//
// An Engine is not safe for concurrent use; drive it from a single
// goroutine and inject stimuli between Advance calls.
package engine
