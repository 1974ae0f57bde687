// Package analysis provides spectral tools for sampled orbital series.
//
//   - [PowerSpectrum]: magnitudes of the non-negative frequencies
//   - [DominantPeriod]: period of the strongest oscillation in a series
//
// A numerically integrated separation series recovers the Kepler period:
//
//	p, err := analysis.DominantPeriod(radii, dt)
package analysis
