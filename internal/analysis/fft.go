package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns |X[k]| for the non-negative frequencies
// k in [0, n/2] of data. Any length is accepted.
func PowerSpectrum(data []float64) []float64 {
	f := fft.FFTReal(data)
	ps := make([]float64, len(f)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(f[i])
	}
	return ps
}
