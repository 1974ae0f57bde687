package space

import (
	"fmt"
	"math"

	"github.com/san-kum/cosmosim/internal/random"
	"gonum.org/v1/gonum/spatial/r3"
)

// Shape is the volume a node occupies, centered on the node's position.
type Shape interface {
	// ContainingRadius is the radius of the smallest sphere around the
	// center that contains the shape.
	ContainingRadius() float64
	Volume() float64
	// Contains reports whether a point given relative to the center lies
	// inside the shape.
	Contains(p r3.Vec) bool
	// RandomPoint draws a point uniformly from the shape's volume.
	RandomPoint(rng *random.Source) r3.Vec
	// IntersectsSphere reports whether a sphere of the given radius,
	// centered at offset from the shape's center, overlaps the shape.
	IntersectsSphere(offset r3.Vec, radius float64) bool
}

type Sphere struct {
	Radius float64 `json:"radius"`
}

func (s Sphere) ContainingRadius() float64 { return s.Radius }

func (s Sphere) Volume() float64 { return 4.0 / 3 * math.Pi * s.Radius * s.Radius * s.Radius }

func (s Sphere) Contains(p r3.Vec) bool { return r3.Norm(p) <= s.Radius }

func (s Sphere) RandomPoint(rng *random.Source) r3.Vec {
	return r3.Scale(s.Radius, unitBallPoint(rng))
}

func (s Sphere) IntersectsSphere(offset r3.Vec, radius float64) bool {
	return r3.Norm(offset) < s.Radius+radius
}

func (s Sphere) String() string { return fmt.Sprintf("sphere(r=%.4g)", s.Radius) }

// Ellipsoid is an axis-aligned ellipsoid with the given semi-axes.
type Ellipsoid struct {
	Axes r3.Vec `json:"axes"`
}

func (e Ellipsoid) ContainingRadius() float64 {
	return math.Max(e.Axes.X, math.Max(e.Axes.Y, e.Axes.Z))
}

func (e Ellipsoid) Volume() float64 {
	return 4.0 / 3 * math.Pi * e.Axes.X * e.Axes.Y * e.Axes.Z
}

func (e Ellipsoid) Contains(p r3.Vec) bool {
	return ellipsoidLevel(p, e.Axes) <= 1
}

func (e Ellipsoid) RandomPoint(rng *random.Source) r3.Vec {
	u := unitBallPoint(rng)
	return r3.Vec{X: u.X * e.Axes.X, Y: u.Y * e.Axes.Y, Z: u.Z * e.Axes.Z}
}

// IntersectsSphere reports whether the sphere reaches the ellipsoid,
// comparing radius with the distance from offset to the surface.
func (e Ellipsoid) IntersectsSphere(offset r3.Vec, radius float64) bool {
	if r3.Norm(offset) >= e.ContainingRadius()+radius {
		return false
	}
	if e.Contains(offset) {
		return true
	}
	return e.SurfaceDistance(offset) < radius
}

// SurfaceDistance returns the distance from a point outside the ellipsoid
// to its surface, and 0 for points inside. The nearest surface point is
// a²p/(t+a²) per axis, where t > 0 solves Σ(a·p/(t+a²))² = 1; t is found
// by bisection and rounded down, so the result never exceeds the true
// distance.
func (e Ellipsoid) SurfaceDistance(p r3.Vec) float64 {
	if e.Contains(p) {
		return 0
	}
	axes := [3]float64{e.Axes.X, e.Axes.Y, e.Axes.Z}
	y := [3]float64{math.Abs(p.X), math.Abs(p.Y), math.Abs(p.Z)}
	level := func(t float64) float64 {
		var sum float64
		for i, a := range axes {
			if a > 0 {
				q := a * y[i] / (t + a*a)
				sum += q * q
			}
		}
		return sum
	}

	lo, hi := 0.0, e.ContainingRadius()*r3.Norm(p)
	for i := 0; i < 100; i++ {
		mid := (lo + hi) / 2
		if level(mid) > 1 {
			lo = mid
		} else {
			hi = mid
		}
	}

	var d2 float64
	for i, a := range axes {
		x := a * a * y[i] / (lo + a*a)
		d2 += (y[i] - x) * (y[i] - x)
	}
	return math.Sqrt(d2)
}

func (e Ellipsoid) String() string {
	return fmt.Sprintf("ellipsoid(%.4g, %.4g, %.4g)", e.Axes.X, e.Axes.Y, e.Axes.Z)
}

func ellipsoidLevel(p, axes r3.Vec) float64 {
	x, y, z := p.X/axes.X, p.Y/axes.Y, p.Z/axes.Z
	return x*x + y*y + z*z
}

// unitBallPoint draws uniformly from the unit ball: a uniform direction
// from three normals, with the radius distributed as the cube root.
func unitBallPoint(rng *random.Source) r3.Vec {
	for {
		d := r3.Vec{X: rng.Normal(0, 1), Y: rng.Normal(0, 1), Z: rng.Normal(0, 1)}
		n := r3.Norm(d)
		if n == 0 {
			continue
		}
		return r3.Scale(math.Cbrt(rng.Float64())/n, d)
	}
}

// Intersects reports whether two shapes placed at the given centers overlap,
// using b's containing sphere against a.
func Intersects(a Shape, aCenter r3.Vec, b Shape, bCenter r3.Vec) bool {
	return a.IntersectsSphere(r3.Sub(bCenter, aCenter), b.ContainingRadius())
}

// ShapeSpec is the serializable form of a Shape.
type ShapeSpec struct {
	Type   string  `json:"type"`
	Radius float64 `json:"radius,omitempty"`
	Axes   *r3.Vec `json:"axes,omitempty"`
}

func SpecOf(s Shape) (ShapeSpec, error) {
	switch v := s.(type) {
	case nil:
		return ShapeSpec{}, nil
	case Sphere:
		return ShapeSpec{Type: "sphere", Radius: v.Radius}, nil
	case Ellipsoid:
		axes := v.Axes
		return ShapeSpec{Type: "ellipsoid", Axes: &axes}, nil
	default:
		return ShapeSpec{}, fmt.Errorf("space: unsupported shape %T", s)
	}
}

func (s ShapeSpec) Shape() (Shape, error) {
	switch s.Type {
	case "":
		return nil, nil
	case "sphere":
		return Sphere{Radius: s.Radius}, nil
	case "ellipsoid":
		if s.Axes == nil {
			return nil, fmt.Errorf("space: ellipsoid without axes")
		}
		return Ellipsoid{Axes: *s.Axes}, nil
	default:
		return nil, fmt.Errorf("space: unknown shape type %q", s.Type)
	}
}
