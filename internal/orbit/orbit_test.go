package orbit

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func mustElements(t *testing.T, el Elements) (Orbit, *testBody) {
	t.Helper()
	b := &testBody{mass: earthMass}
	o, err := AssignElements(b, sun(), el)
	if err != nil {
		t.Fatalf("AssignElements failed: %v", err)
	}
	return o, b
}

func TestStateAt_ZeroReturnsInitialState(t *testing.T) {
	for _, e := range []float64{0, 0.3, 0.9} {
		o, _ := mustElements(t, Elements{Periapsis: au, Eccentricity: e, Inclination: 0.2, TrueAnomaly: 1.1})

		sv, err := o.StateAt(0)
		if err != nil {
			t.Fatalf("e=%v: StateAt(0) failed: %v", e, err)
		}
		if sv.Position != o.R0 || sv.Velocity != o.V0 {
			t.Errorf("e=%v: expected (r0, v0), got %v", e, sv)
		}
	}
}

func TestStateAt_PeriodConsistency(t *testing.T) {
	for _, e := range []float64{0, 0.1, 0.5, 0.9} {
		o, _ := mustElements(t, Elements{
			Periapsis: au, Eccentricity: e,
			Inclination: 0.4, AngleAscending: 1, ArgumentOfPeriapsis: 2, TrueAnomaly: 0.7,
		})

		full, err := o.StateAt(o.Period)
		if err != nil {
			t.Fatalf("e=%v: %v", e, err)
		}
		vecClose(t, "one period position", full.Position, o.R0, 1e-9)
		vecClose(t, "one period velocity", full.Velocity, o.V0, 1e-9)

		almost, err := o.StateAt(o.Period * (1 - 1e-9))
		if err != nil {
			t.Fatalf("e=%v: just before one period: %v", e, err)
		}
		vecClose(t, "just before one period", almost.Position, o.R0, 1e-5)

		third, err := o.StateAt(o.Period / 3)
		if err != nil {
			t.Fatal(err)
		}
		later, err := o.StateAt(o.Period + o.Period/3)
		if err != nil {
			t.Fatal(err)
		}
		vecClose(t, "periodicity", later.Position, third.Position, 1e-6)

		before, err := o.StateAt(-o.Period / 3)
		if err != nil {
			t.Fatal(err)
		}
		wrapped, err := o.StateAt(2 * o.Period / 3)
		if err != nil {
			t.Fatal(err)
		}
		vecClose(t, "negative time wraps", before.Position, wrapped.Position, 1e-6)
	}
}

func TestStateAt_HalfPeriodReachesApoapsis(t *testing.T) {
	b := &testBody{mass: 1}
	o, err := AssignElements(b, sun(), Elements{Periapsis: au, Eccentricity: 0.5})
	if err != nil {
		t.Fatal(err)
	}

	sv, err := o.StateAt(o.Period / 2)
	if err != nil {
		t.Fatal(err)
	}
	if r := r3.Norm(sv.Position); !scalar.EqualWithinRel(r, o.Apoapsis(), 1e-6) {
		t.Errorf("expected apoapsis %.6e, got %.6e", o.Apoapsis(), r)
	}
}

func TestStateAt_ConservesEnergy(t *testing.T) {
	o, _ := mustElements(t, Elements{Periapsis: 0.3 * au, Eccentricity: 0.8, Inclination: 1.2, TrueAnomaly: 2})
	k := o.relativeScale()
	want := o.SpecificEnergy()

	for _, frac := range []float64{0.01, 0.13, 0.5, 0.77, 0.999} {
		sv, err := o.StateAt(frac * o.Period)
		if err != nil {
			t.Fatalf("t=%v·T: %v", frac, err)
		}
		r := r3.Norm(sv.Position) * k
		v := r3.Norm(sv.Velocity) * k
		got := v*v/2 - o.StandardGravitationalParameter/r
		if !scalar.EqualWithinRel(got, want, 1e-7) {
			t.Errorf("t=%v·T: expected energy %.8e, got %.8e", frac, want, got)
		}
	}
}

func TestStateAt_Parabolic(t *testing.T) {
	o, _ := mustElements(t, Elements{Periapsis: au, Eccentricity: 1, TrueAnomaly: 0.5})

	if !math.IsInf(o.Period, 1) || !math.IsInf(o.Apoapsis(), 1) {
		t.Fatalf("expected infinite period and apoapsis, got %v / %v", o.Period, o.Apoapsis())
	}
	if o.Alpha() != 0 {
		t.Errorf("expected alpha 0, got %v", o.Alpha())
	}

	sv, err := o.StateAt(86400 * 30)
	if err != nil {
		t.Fatalf("parabolic propagation failed: %v", err)
	}
	k := o.relativeScale()
	r := r3.Norm(sv.Position) * k
	v := r3.Norm(sv.Velocity) * k
	energy := v*v/2 - o.StandardGravitationalParameter/r
	if math.Abs(energy) > 1e-6*o.StandardGravitationalParameter/r {
		t.Errorf("expected zero specific energy, got %.6e", energy)
	}
	if r <= o.Radius {
		t.Errorf("outbound parabolic orbit should recede: %.6e <= %.6e", r, o.Radius)
	}
}

func TestStateAt_ParabolicBackward(t *testing.T) {
	o, _ := mustElements(t, Elements{Periapsis: au, Eccentricity: 1, TrueAnomaly: 0.5})
	k := o.relativeScale()
	mu := o.StandardGravitationalParameter

	peri, err := o.StateAt(-o.Epoch)
	if err != nil {
		t.Fatalf("propagating back to periapsis failed: %v", err)
	}
	if r := r3.Norm(peri.Position) * k; !scalar.EqualWithinRel(r, o.Periapsis, 1e-6) {
		t.Errorf("expected periapsis %.6e, got %.6e", o.Periapsis, r)
	}

	straight := r3.Add(o.R0, r3.Scale(-5e6, o.V0))
	for _, dt := range []float64{-5e6, -o.Epoch / 2, -3 * o.Epoch} {
		sv, err := o.StateAt(dt)
		if err != nil {
			t.Fatalf("t=%v: %v", dt, err)
		}
		r := r3.Norm(sv.Position) * k
		v := r3.Norm(sv.Velocity) * k
		if energy := v*v/2 - mu/r; math.Abs(energy) > 1e-6*mu/r {
			t.Errorf("t=%v: expected zero specific energy, got %.6e", dt, energy)
		}
		if dt == -5e6 && r3.Norm(r3.Sub(sv.Position, straight)) < 1e-3*r3.Norm(straight) {
			t.Errorf("t=%v: position follows a straight line", dt)
		}
	}

	// Equal times either side of periapsis give equal radii.
	before, err := o.StateAt(-o.Epoch - 1e6)
	if err != nil {
		t.Fatal(err)
	}
	after, err := o.StateAt(-o.Epoch + 1e6)
	if err != nil {
		t.Fatal(err)
	}
	if rb, ra := r3.Norm(before.Position), r3.Norm(after.Position); !scalar.EqualWithinRel(rb, ra, 1e-6) {
		t.Errorf("expected symmetric radii about periapsis, got %.6e and %.6e", rb, ra)
	}
}

func TestStateAt_IterationCap(t *testing.T) {
	o, _ := mustElements(t, Elements{Periapsis: au, Eccentricity: 0.9})

	_, err := o.StateAtWith(o.Period*0.37, Solver{MaxIterations: 1, Tolerance: 1e-15})
	if !errors.Is(err, dynamo.ErrConvergence) {
		t.Fatalf("expected ErrConvergence, got %v", err)
	}
	var ce *dynamo.ConvergenceError
	if !errors.As(err, &ce) || ce.Iterations != 1 {
		t.Errorf("expected ConvergenceError with 1 iteration, got %v", err)
	}
}

func TestStateAt_RejectsDegenerate(t *testing.T) {
	if _, err := (Orbit{}).StateAt(10); !errors.Is(err, dynamo.ErrDegenerateOrbit) {
		t.Errorf("expected ErrDegenerateOrbit for zero period, got %v", err)
	}
}

func TestAnomalies(t *testing.T) {
	o, _ := mustElements(t, Elements{Periapsis: au, Eccentricity: 0.4, TrueAnomaly: 1.3})

	nu, err := o.TrueAnomalyAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if dynamo.AngleBetween(nu, 1.3) > 1e-8 {
		t.Errorf("expected true anomaly 1.3 at definition, got %v", nu)
	}

	if ts := o.TimeSincePeriapsis(0); !scalar.EqualWithinRel(ts, o.Epoch, 1e-12) {
		t.Errorf("expected time since periapsis %v, got %v", o.Epoch, ts)
	}
	if m := o.MeanAnomalyAt(o.Period - o.Epoch); m > 1e-6 && m < dynamo.TwoPi-1e-6 {
		t.Errorf("expected mean anomaly 0 at next periapsis, got %v", m)
	}

	sv, err := o.StateAt(o.Period - o.Epoch)
	if err != nil {
		t.Fatal(err)
	}
	if r := r3.Norm(sv.Position) * o.relativeScale(); !scalar.EqualWithinRel(r, o.Periapsis, 1e-6) {
		t.Errorf("expected periapsis distance %.6e, got %.6e", o.Periapsis, r)
	}
}

func TestEccentricFromMean_RoundTrip(t *testing.T) {
	for _, e := range []float64{0, 0.2, 0.7, 0.95} {
		for _, E := range []float64{0.1, 1, 3, 5.5} {
			M := MeanFromEccentric(E, e)
			got, err := EccentricFromMean(M, e, Solver{})
			if err != nil {
				t.Fatalf("e=%v E=%v: %v", e, E, err)
			}
			if dynamo.AngleBetween(got, E) > 1e-9 {
				t.Errorf("e=%v: expected E=%v, got %v", e, E, got)
			}
		}
	}
}

func TestStumpff(t *testing.T) {
	if c := StumpffC(0); c != 0.5 {
		t.Errorf("C(0) = %v, want 0.5", c)
	}
	if s := StumpffS(0); !scalar.EqualWithinAbs(s, 1.0/6, 1e-15) {
		t.Errorf("S(0) = %v, want 1/6", s)
	}

	// series and closed forms agree across the switch-over
	for _, z := range []float64{stumpffSeriesLimit, -stumpffSeriesLimit} {
		below := z * 0.999999
		if !scalar.EqualWithinRel(StumpffC(z), StumpffC(below), 1e-6) {
			t.Errorf("C discontinuous at %v", z)
		}
		if !scalar.EqualWithinRel(StumpffS(z), StumpffS(below), 1e-6) {
			t.Errorf("S discontinuous at %v", z)
		}
	}

	z := 4.0
	if want := (1 - math.Cos(2)) / 4; !scalar.EqualWithinRel(StumpffC(z), want, 1e-12) {
		t.Errorf("C(4) = %v, want %v", StumpffC(z), want)
	}
	z = -4.0
	if want := (math.Sinh(2) - 2) / 8; !scalar.EqualWithinRel(StumpffS(z), want, 1e-12) {
		t.Errorf("S(-4) = %v, want %v", StumpffS(z), want)
	}
}

func TestRebuild(t *testing.T) {
	b := &precessingBody{testBody{mass: earthMass, precession: 0.3}}
	primary := sun()
	primary.ID = "sun"
	primary.Position = r3.Vec{X: 5, Y: 6, Z: 7}

	for _, e := range []float64{0, 0.4, 1} {
		o, err := AssignElements(b, primary, Elements{
			Periapsis: au, Eccentricity: e, Inclination: 2, AngleAscending: 4, ArgumentOfPeriapsis: 5, TrueAnomaly: 0.5,
		})
		if err != nil {
			t.Fatal(err)
		}

		got, err := Rebuild(o.Record(b.precession))
		if err != nil {
			t.Fatalf("e=%v: %v", e, err)
		}
		if got != o {
			t.Errorf("e=%v: rebuilt orbit differs:\n%v\n%v", e, got, o)
		}
	}
}
