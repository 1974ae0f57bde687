package analysis

import (
	"errors"
	"math"

	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

var ErrNoOscillation = errors.New("analysis: series has no dominant oscillation")

// MinSamples is the shortest series DominantPeriod accepts.
const MinSamples = 16

// DominantPeriod estimates the period of the strongest oscillation in
// series, sampled every dt. The series is Hann windowed and the spectral
// peak refined by a parabola through the log magnitudes of the peak bin and
// its neighbours.
func DominantPeriod(series []float64, dt float64) (float64, error) {
	if len(series) < MinSamples {
		return 0, errors.New("analysis: series too short")
	}
	if !(dt > 0) {
		return 0, errors.New("analysis: sample interval must be positive")
	}

	n := len(series)
	centered := make([]float64, n)
	copy(centered, series)
	mean := stat.Mean(centered, nil)
	floats.AddConst(-mean, centered)

	window.Apply(centered, window.Hann)

	ps := PowerSpectrum(centered)
	k := floats.MaxIdx(ps[1:]) + 1
	if ps[k] <= 1e-12*math.Max(math.Abs(mean), 1)*float64(n) {
		return 0, ErrNoOscillation
	}

	peak := float64(k)
	if k+1 < len(ps) && ps[k-1] > 0 && ps[k+1] > 0 {
		a, b, c := math.Log(ps[k-1]), math.Log(ps[k]), math.Log(ps[k+1])
		if d := a - 2*b + c; d < 0 {
			peak += 0.5 * (a - c) / d
		}
	}
	return float64(n) * dt / peak, nil
}
