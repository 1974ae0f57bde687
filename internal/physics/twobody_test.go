package physics

import (
	"math"
	"testing"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/orbit"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	solarMass = 1.98892e30
	earthMass = 5.9722e24
	au        = 1.495978707e11
)

func earthOrbit(t *testing.T, e float64) orbit.Orbit {
	t.Helper()
	o, err := orbit.Rebuild(orbit.Record{
		OrbitedMass:  solarMass,
		OrbitingMass: earthMass,
		Elements:     orbit.Elements{Periapsis: au, Eccentricity: e, Inclination: 0.1, TrueAnomaly: 1},
	})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestFromOrbit(t *testing.T) {
	o := earthOrbit(t, 0.3)
	sys, x0 := FromOrbit(o)

	if sys.StateDim() != len(x0) {
		t.Fatalf("expected %d components, got %d", sys.StateDim(), len(x0))
	}
	if !scalar.EqualWithinRel(sys.Energy(x0), o.SpecificEnergy(), 1e-9) {
		t.Errorf("expected energy %g, got %g", o.SpecificEnergy(), sys.Energy(x0))
	}

	bary := sys.Barycentric(x0)
	if !scalar.EqualWithinRel(r3.Norm(bary.Position), r3.Norm(o.R0), 1e-12) {
		t.Errorf("expected barycentric radius %g, got %g", r3.Norm(o.R0), r3.Norm(bary.Position))
	}
}

func TestDerive_PointsInward(t *testing.T) {
	sys := &TwoBody{Mu: 1}
	dx := sys.Derive(dynamo.State{2, 0, 0, 0, 0.5, 0}, 0)

	if dx[1] != 0.5 {
		t.Errorf("expected dy = vy, got %g", dx[1])
	}
	if math.Abs(dx[3]+0.25) > 1e-15 {
		t.Errorf("expected ax = -1/4, got %g", dx[3])
	}
}

func TestAngularMomentum(t *testing.T) {
	sys := &TwoBody{Mu: 1}
	h := sys.AngularMomentum(dynamo.State{1, 0, 0, 0, 2, 0})
	if h != (r3.Vec{Z: 2}) {
		t.Errorf("expected (0,0,2), got %v", h)
	}
}
