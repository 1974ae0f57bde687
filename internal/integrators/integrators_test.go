package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

type oscillator struct{}

func (oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (oscillator) StateDim() int { return 2 }

// kepler is a unit circular orbit in the plane (μ = 1, r = 1, period 2π).
type kepler struct{}

func (kepler) Derive(x dynamo.State, t float64) dynamo.State {
	r := math.Hypot(x[0], x[1])
	r3 := r * r * r
	return dynamo.State{x[2], x[3], -x[0] / r3, -x[1] / r3}
}

func (kepler) StateDim() int { return 4 }

func (kepler) Energy(x dynamo.State) float64 {
	return 0.5*(x[2]*x[2]+x[3]*x[3]) - 1/math.Hypot(x[0], x[1])
}

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()
	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(oscillator{}, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)
	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestIntegrators_CircularOrbit(t *testing.T) {
	tests := []struct {
		name      string
		steps     int
		posTol    float64
		energyTol float64
	}{
		{"rk4", 1000, 1e-6, 1e-8},
		{"rk45", 1000, 1e-3, 1e-4},
		{"verlet", 5000, 1e-2, 1e-5},
		{"leapfrog", 5000, 1e-2, 1e-5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ, err := New(tt.name)
			if err != nil {
				t.Fatal(err)
			}
			x := dynamo.State{1, 0, 0, 1}
			e0 := kepler{}.Energy(x)
			dt := 2 * math.Pi / float64(tt.steps)
			for i := 0; i < tt.steps; i++ {
				x = integ.Step(kepler{}, x, float64(i)*dt, dt)
			}

			if d := math.Hypot(x[0]-1, x[1]); d > tt.posTol {
				t.Errorf("expected return to start after one period, off by %.3e", d)
			}
			if drift := math.Abs(kepler{}.Energy(x)-e0) / math.Abs(e0); drift > tt.energyTol {
				t.Errorf("energy drift %.3e exceeds %.1e", drift, tt.energyTol)
			}
		})
	}
}

func TestRK45_StepAdaptive(t *testing.T) {
	r := NewRK45()
	x := dynamo.State{1, 0, 0, 1}

	_, dtSmall, err := r.StepAdaptive(kepler{}, x, 0, 1.0, 1e-12)
	if err != nil {
		t.Fatal(err)
	}
	if dtSmall >= 1.0 {
		t.Errorf("expected the step to shrink under a tight tolerance, got %g", dtSmall)
	}

	_, dtLarge, err := r.StepAdaptive(kepler{}, x, 0, 1e-4, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if dtLarge <= 1e-4 {
		t.Errorf("expected the step to grow under a loose tolerance, got %g", dtLarge)
	}
}

func TestNew_Unknown(t *testing.T) {
	if _, err := New("euler"); err == nil {
		t.Error("expected error for unknown integrator")
	}
	if len(Names()) != len(factories) {
		t.Errorf("expected %d names, got %v", len(factories), Names())
	}
}

func BenchmarkRK4_Kepler(b *testing.B) {
	integ := NewRK4()
	x := dynamo.State{1, 0, 0, 1}
	for i := 0; i < b.N; i++ {
		x = integ.Step(kepler{}, x, 0, 1e-3)
	}
}

func BenchmarkLeapfrog_Kepler(b *testing.B) {
	integ := NewLeapfrog()
	x := dynamo.State{1, 0, 0, 1}
	for i := 0; i < b.N; i++ {
		x = integ.Step(kepler{}, x, 0, 1e-3)
	}
}
