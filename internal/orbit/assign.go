package orbit

import (
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"github.com/san-kum/cosmosim/internal/random"
	"gonum.org/v1/gonum/spatial/r3"
)

// Primary describes the orbited body. Position is in the same frame as the
// orbiting body's position.
type Primary struct {
	ID       string
	Mass     float64
	Position r3.Vec
	// Radius is the primary's containing radius; orbits are kept from
	// dipping below it where a mode has the freedom to choose.
	Radius float64
}

// Orbiter is a body that can be placed on an orbit.
type Orbiter interface {
	// OrbitalState reports the current position and mass.
	OrbitalState() (position r3.Vec, mass float64)
	// SetOrbit installs a new orbit together with the consistent position
	// and velocity. Velocity is relative to the orbited body.
	SetOrbit(o Orbit, position, velocity r3.Vec)
}

// Precessor is implemented by orbiters with an axial precession; it is
// subtracted from the longitude of periapsis so the rotational and orbital
// frames agree.
type Precessor interface {
	AxialPrecession() float64
}

func precessionOf(b Orbiter) float64 {
	if p, ok := b.(Precessor); ok {
		return p.AxialPrecession()
	}
	return 0
}

// degenerateInclination is the sine of the elevation below which a position
// is treated as lying in the reference plane.
const degenerateInclination = 1e-12

// planeThrough returns the inclination and ascending node of the least
// inclined orbit plane containing direction rel, plus the argument of
// latitude of rel within that plane.
func planeThrough(rel r3.Vec) (inclination, ascending, latitude float64) {
	r := r3.Norm(rel)
	phi := math.Atan2(rel.Y, rel.X)
	sinElevation := math.Abs(rel.Z) / r
	if sinElevation < degenerateInclination {
		return 0, 0, dynamo.NormalizeAngle(phi)
	}

	inclination = math.Asin(dynamo.Clamp(sinElevation, 0, 1))
	if rel.Z > 0 {
		return inclination, dynamo.NormalizeAngle(phi - math.Pi/2), math.Pi / 2
	}
	return inclination, dynamo.NormalizeAngle(phi + math.Pi/2), 3 * math.Pi / 2
}

func separation(b Orbiter, primary Primary) (r3.Vec, float64, float64, error) {
	pos, mass := b.OrbitalState()
	rel := r3.Sub(pos, primary.Position)
	r := r3.Norm(rel)
	if total := primary.Mass + mass; !(total > 0) {
		return r3.Vec{}, 0, 0, dynamo.Degenerate("combined mass", total)
	}
	return rel, r, mass, nil
}

func install(b Orbiter, primary Primary, d definition, reposition bool) (Orbit, error) {
	o, rel, err := build(d)
	if err != nil {
		return Orbit{}, err
	}
	pos, _ := b.OrbitalState()
	if reposition {
		pos = r3.Add(primary.Position, rel.Position)
	}
	b.SetOrbit(o, pos, rel.Velocity)
	return o, nil
}

// AssignCircular puts b on a circular orbit through its current position.
// The plane is the least inclined one containing the position; the time
// since periapsis is drawn uniformly within one period.
func AssignCircular(rng *random.Source, b Orbiter, primary Primary) (Orbit, error) {
	rel, r, mass, err := separation(b, primary)
	if err != nil {
		return Orbit{}, err
	}
	if !(r > 0) {
		return Orbit{}, dynamo.Degenerate("separation", r)
	}

	mu := dynamo.G * (primary.Mass + mass)
	period := dynamo.TwoPi * math.Sqrt(r*r*r/mu)
	epoch := rng.Range(0, period)
	nu := dynamo.NormalizeAngle(dynamo.TwoPi * epoch / period)

	i, ascending, latitude := planeThrough(rel)
	return install(b, primary, definition{
		primary:      primary,
		orbitingMass: mass,
		precession:   precessionOf(b),
		elements: Elements{
			Periapsis:           r,
			Eccentricity:        0,
			Inclination:         i,
			AngleAscending:      ascending,
			ArgumentOfPeriapsis: latitude - nu,
			TrueAnomaly:         nu,
		},
	}, false)
}

// maxAnomalyDraws bounds the resampling of a true anomaly whose periapsis
// would fall inside the primary.
const maxAnomalyDraws = 16

// AssignFromEccentricity puts b on an orbit of eccentricity e through its
// current position, which is not moved. The true anomaly is drawn uniformly;
// the periapsis follows from the current radius, which lies between
// periapsis and apoapsis. When every draw would bring the periapsis inside
// the primary, the current position is taken as the periapsis.
func AssignFromEccentricity(rng *random.Source, b Orbiter, primary Primary, e float64) (Orbit, error) {
	rel, r, mass, err := separation(b, primary)
	if err != nil {
		return Orbit{}, err
	}
	if !(r > 0) {
		return Orbit{}, dynamo.Degenerate("separation", r)
	}
	e = dynamo.Clamp(e, 0, 1)

	nu, periapsis := 0.0, r
	for i := 0; i < maxAnomalyDraws; i++ {
		candidate := rng.Range(0, dynamo.TwoPi)
		denom := 1 + e*math.Cos(candidate)
		if denom <= 1e-6 {
			continue
		}
		rp := r * denom / (1 + e)
		if rp > primary.Radius {
			nu, periapsis = candidate, rp
			break
		}
	}

	inc, ascending, latitude := planeThrough(rel)
	return install(b, primary, definition{
		primary:      primary,
		orbitingMass: mass,
		precession:   precessionOf(b),
		elements: Elements{
			Periapsis:           periapsis,
			Eccentricity:        e,
			Inclination:         inc,
			AngleAscending:      ascending,
			ArgumentOfPeriapsis: latitude - nu,
			TrueAnomaly:         nu,
		},
	}, false)
}

// AssignElements puts b on the orbit described by el and moves it to the
// position at el.TrueAnomaly.
func AssignElements(b Orbiter, primary Primary, el Elements) (Orbit, error) {
	_, mass := b.OrbitalState()
	if total := primary.Mass + mass; !(total > 0) {
		return Orbit{}, dynamo.Degenerate("combined mass", total)
	}
	return install(b, primary, definition{
		primary:      primary,
		orbitingMass: mass,
		precession:   precessionOf(b),
		elements:     el,
	}, true)
}

// AssignFromPeriod puts b on an orbit with eccentricity e and the given
// period in seconds. The semi-major axis follows from Kepler's third law;
// the true anomaly is drawn uniformly and b is moved along its current
// direction from the primary onto the new orbit.
func AssignFromPeriod(rng *random.Source, b Orbiter, primary Primary, e, period float64) (Orbit, error) {
	rel, r, mass, err := separation(b, primary)
	if err != nil {
		return Orbit{}, err
	}
	if !(period > 0) || math.IsInf(period, 0) {
		return Orbit{}, dynamo.Degenerate("period", period)
	}
	e = dynamo.Clamp(e, 0, 1)
	if e >= 1 {
		return Orbit{}, dynamo.Degenerate("eccentricity for a periodic orbit", e)
	}

	mu := dynamo.G * (primary.Mass + mass)
	n := period / dynamo.TwoPi
	a := math.Cbrt(n * n * mu)

	direction := r3.Vec{X: 1}
	if r > 0 {
		direction = r3.Scale(1/r, rel)
	}
	nu := rng.Range(0, dynamo.TwoPi)

	inc, ascending, latitude := planeThrough(direction)
	return install(b, primary, definition{
		primary:      primary,
		orbitingMass: mass,
		precession:   precessionOf(b),
		elements: Elements{
			Periapsis:           a * (1 - e),
			Eccentricity:        e,
			Inclination:         inc,
			AngleAscending:      ascending,
			ArgumentOfPeriapsis: latitude - nu,
			TrueAnomaly:         nu,
		},
	}, true)
}
