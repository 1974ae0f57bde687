package space

import (
	"math"
	"testing"

	"github.com/san-kum/cosmosim/internal/random"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestSphere(t *testing.T) {
	s := Sphere{Radius: 2}

	if want := 32.0 / 3 * math.Pi; !scalar.EqualWithinRel(s.Volume(), want, 1e-12) {
		t.Errorf("expected volume %v, got %v", want, s.Volume())
	}
	if !s.Contains(r3.Vec{X: 1, Y: 1}) || s.Contains(r3.Vec{X: 2, Y: 0.1}) {
		t.Error("unexpected containment result")
	}

	tests := []struct {
		offset r3.Vec
		radius float64
		want   bool
	}{
		{r3.Vec{X: 3}, 0.5, false},
		{r3.Vec{X: 3}, 1.5, true},
		{r3.Vec{}, 0, true},
		{r3.Vec{Y: -10}, 7.9, false},
	}
	for _, tt := range tests {
		if got := s.IntersectsSphere(tt.offset, tt.radius); got != tt.want {
			t.Errorf("IntersectsSphere(%v, %v): expected %v, got %v", tt.offset, tt.radius, tt.want, got)
		}
	}
}

func TestEllipsoid(t *testing.T) {
	e := Ellipsoid{Axes: r3.Vec{X: 10, Y: 5, Z: 1}}

	if e.ContainingRadius() != 10 {
		t.Errorf("expected containing radius 10, got %v", e.ContainingRadius())
	}
	if !e.Contains(r3.Vec{X: 9.9}) || e.Contains(r3.Vec{Z: 1.1}) {
		t.Error("unexpected containment result")
	}
	if e.IntersectsSphere(r3.Vec{Z: 3}, 1) {
		t.Error("sphere above the disk should not intersect")
	}
	if !e.IntersectsSphere(r3.Vec{X: 10.5}, 1) {
		t.Error("sphere touching the long axis should intersect")
	}
	if e.IntersectsSphere(r3.Vec{X: 20}, 5) {
		t.Error("distant sphere should not intersect")
	}
}

func TestEllipsoid_ThinOverlap(t *testing.T) {
	e := Ellipsoid{Axes: r3.Vec{X: 10, Y: 1, Z: 1}}

	// Surface point at 45° and its outward normal.
	surface := r3.Vec{X: 10 * math.Sqrt2 / 2, Y: math.Sqrt2 / 2}
	normal := r3.Unit(r3.Vec{X: surface.X / 100, Y: surface.Y})

	tests := []struct {
		gap  float64
		want bool
	}{
		{0.5, true},
		{0.9, true},
		{1.1, false},
		{3, false},
	}
	for _, tt := range tests {
		center := r3.Add(surface, r3.Scale(tt.gap, normal))
		if got := e.IntersectsSphere(center, 1); got != tt.want {
			t.Errorf("sphere %.1f from the surface: expected %v, got %v", tt.gap, tt.want, got)
		}
		if d := e.SurfaceDistance(center); math.Abs(d-tt.gap) > 1e-9 {
			t.Errorf("expected surface distance %v, got %v", tt.gap, d)
		}
	}

	if d := e.SurfaceDistance(r3.Vec{X: 1}); d != 0 {
		t.Errorf("expected 0 inside, got %v", d)
	}
	if d := e.SurfaceDistance(r3.Vec{X: -12}); math.Abs(d-2) > 1e-9 {
		t.Errorf("expected distance 2 beyond the tip, got %v", d)
	}
}

func TestRandomPoint_StaysInside(t *testing.T) {
	rng := random.New(42)
	shapes := []Shape{
		Sphere{Radius: 1e20},
		Ellipsoid{Axes: r3.Vec{X: 3, Y: 2, Z: 0.5}},
	}
	for _, s := range shapes {
		for i := 0; i < 1000; i++ {
			p := s.RandomPoint(rng)
			if !s.Contains(p) {
				t.Fatalf("%v: point %v outside the shape", s, p)
			}
		}
	}
}

func TestRandomPoint_UniformInVolume(t *testing.T) {
	rng := random.New(1)
	s := Sphere{Radius: 1}

	// Half the volume of a unit ball lies beyond radius 2^(-1/3).
	inner := math.Cbrt(0.5)
	outside := 0
	const n = 20000
	for i := 0; i < n; i++ {
		if r3.Norm(s.RandomPoint(rng)) > inner {
			outside++
		}
	}
	if frac := float64(outside) / n; math.Abs(frac-0.5) > 0.02 {
		t.Errorf("expected half the samples in the outer shell, got %.3f", frac)
	}
}

func TestShapeSpec_RoundTrip(t *testing.T) {
	for _, s := range []Shape{Sphere{Radius: 4}, Ellipsoid{Axes: r3.Vec{X: 1, Y: 2, Z: 3}}, nil} {
		spec, err := SpecOf(s)
		if err != nil {
			t.Fatal(err)
		}
		got, err := spec.Shape()
		if err != nil {
			t.Fatal(err)
		}
		if got != s {
			t.Errorf("expected %v, got %v", s, got)
		}
	}

	if _, err := (ShapeSpec{Type: "torus"}).Shape(); err == nil {
		t.Error("expected error for unknown shape type")
	}
}
