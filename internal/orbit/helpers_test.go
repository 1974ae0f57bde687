package orbit

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

const (
	solarMass = 1.989e30
	earthMass = 5.972e24
	au        = 1.496e11
)

type testBody struct {
	pos, vel   r3.Vec
	mass       float64
	orbit      Orbit
	assigned   bool
	precession float64
}

func (b *testBody) OrbitalState() (r3.Vec, float64) { return b.pos, b.mass }

func (b *testBody) SetOrbit(o Orbit, position, velocity r3.Vec) {
	b.orbit = o
	b.pos = position
	b.vel = velocity
	b.assigned = true
}

type precessingBody struct {
	testBody
}

func (b *precessingBody) AxialPrecession() float64 { return b.precession }

func sun() Primary {
	return Primary{ID: "sun", Mass: solarMass, Radius: 6.957e8}
}

func vecClose(t *testing.T, name string, got, want r3.Vec, relTol float64) {
	t.Helper()
	diff := r3.Norm(r3.Sub(got, want))
	scale := math.Max(1, r3.Norm(want))
	if diff > relTol*scale {
		t.Errorf("%s: got %v, want %v (|Δ|=%.3e)", name, got, want, diff)
	}
}
