package orbit

import (
	"fmt"
	"math"
	"time"

	"github.com/san-kum/cosmosim/internal/dynamo"
	"gonum.org/v1/gonum/spatial/r3"
)

// Orbit holds the Kepler elements of one two-body orbit, fixed at the moment
// the orbit was defined. Values are never mutated after construction;
// replacing an orbit means building a new one.
type Orbit struct {
	OrbitedID       string  `json:"orbited_id,omitempty"`
	OrbitedMass     float64 `json:"orbited_mass"`
	OrbitedPosition r3.Vec  `json:"orbited_position"`
	OrbitingMass    float64 `json:"orbiting_mass"`
	Barycenter      r3.Vec  `json:"barycenter"`

	Eccentricity         float64 `json:"eccentricity"`
	Inclination          float64 `json:"inclination"`
	AngleAscending       float64 `json:"angle_ascending"`
	ArgumentOfPeriapsis  float64 `json:"argument_of_periapsis"`
	LongitudeOfPeriapsis float64 `json:"longitude_of_periapsis"`
	MeanLongitude        float64 `json:"mean_longitude"`
	TrueAnomaly          float64 `json:"true_anomaly"`

	Periapsis                      float64 `json:"periapsis"`
	SemiMajorAxis                  float64 `json:"semi_major_axis"`
	Radius                         float64 `json:"radius"`
	StandardGravitationalParameter float64 `json:"standard_gravitational_parameter"`
	MeanMotion                     float64 `json:"mean_motion"`
	Period                         float64 `json:"period"`

	// R0 and V0 are the orbiting body's position and velocity relative to
	// the barycenter at definition time.
	R0 r3.Vec `json:"r0"`
	V0 r3.Vec `json:"v0"`

	// Epoch is the time in seconds since the most recent periapsis passage,
	// at definition time.
	Epoch float64 `json:"epoch"`
}

// Elements is the classical element set used to define an orbit.
type Elements struct {
	Periapsis           float64 `json:"periapsis"`
	Eccentricity        float64 `json:"eccentricity"`
	Inclination         float64 `json:"inclination"`
	AngleAscending      float64 `json:"angle_ascending"`
	ArgumentOfPeriapsis float64 `json:"argument_of_periapsis"`
	TrueAnomaly         float64 `json:"true_anomaly"`
}

// Record is the persisted form of an orbit. Every other field is derived
// again by Rebuild, which keeps infinite periods of unbound orbits out of
// serialized data.
type Record struct {
	OrbitedID       string   `json:"orbited_id,omitempty"`
	OrbitedMass     float64  `json:"orbited_mass"`
	OrbitedPosition r3.Vec   `json:"orbited_position"`
	OrbitingMass    float64  `json:"orbiting_mass"`
	Elements        Elements `json:"elements"`
	Precession      float64  `json:"precession,omitempty"`
}

// Record returns the definition of o. precession is the orbiting body's
// axial precession at definition time.
func (o Orbit) Record(precession float64) Record {
	return Record{
		OrbitedID:       o.OrbitedID,
		OrbitedMass:     o.OrbitedMass,
		OrbitedPosition: o.OrbitedPosition,
		OrbitingMass:    o.OrbitingMass,
		Elements: Elements{
			Periapsis:           o.Periapsis,
			Eccentricity:        o.Eccentricity,
			Inclination:         o.Inclination,
			AngleAscending:      o.AngleAscending,
			ArgumentOfPeriapsis: o.ArgumentOfPeriapsis,
			TrueAnomaly:         o.TrueAnomaly,
		},
		Precession: precession,
	}
}

// Rebuild derives the orbit described by r.
func Rebuild(r Record) (Orbit, error) {
	o, _, err := build(definition{
		primary: Primary{
			ID:       r.OrbitedID,
			Mass:     r.OrbitedMass,
			Position: r.OrbitedPosition,
		},
		orbitingMass: r.OrbitingMass,
		elements:     r.Elements,
		precession:   r.Precession,
	})
	return o, err
}

// Apoapsis returns the farthest separation, +Inf for unbound orbits.
func (o Orbit) Apoapsis() float64 {
	if o.Eccentricity >= 1 {
		return math.Inf(1)
	}
	return o.SemiMajorAxis * (1 + o.Eccentricity)
}

// Alpha returns μ/a, the reciprocal semi-major axis scaled by μ. Zero for
// parabolic orbits.
func (o Orbit) Alpha() float64 {
	if math.IsInf(o.SemiMajorAxis, 0) {
		return 0
	}
	return o.StandardGravitationalParameter / o.SemiMajorAxis
}

// SpecificEnergy returns the specific orbital energy -μ/(2a).
func (o Orbit) SpecificEnergy() float64 {
	if math.IsInf(o.SemiMajorAxis, 0) {
		return 0
	}
	return -o.StandardGravitationalParameter / (2 * o.SemiMajorAxis)
}

// EpochDuration returns Epoch as a time.Duration, saturating at the
// largest representable duration.
func (o Orbit) EpochDuration() time.Duration {
	if o.Epoch >= math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(o.Epoch * float64(time.Second))
}

func (o Orbit) String() string {
	return fmt.Sprintf("a=%.4g rp=%.4g e=%.4f i=%.4f Ω=%.4f ω=%.4f ν=%.4f T=%.4gs",
		o.SemiMajorAxis, o.Periapsis, o.Eccentricity, o.Inclination,
		o.AngleAscending, o.ArgumentOfPeriapsis, o.TrueAnomaly, o.Period)
}

// RelativeState returns the orbiting body's position and velocity relative
// to the orbited body at definition time.
func (o Orbit) RelativeState() dynamo.StateVector {
	k := o.relativeScale()
	return dynamo.StateVector{Position: r3.Scale(k, o.R0), Velocity: r3.Scale(k, o.V0)}
}

// relativeScale converts barycentric vectors of the orbiting body into the
// orbiting-minus-orbited relative vectors the Kepler solution applies to.
func (o Orbit) relativeScale() float64 {
	return (o.OrbitedMass + o.OrbitingMass) / o.OrbitedMass
}

// perifocal returns the unit vectors P̂ (toward periapsis) and Q̂ (90° ahead
// in the orbit plane) in the reference frame.
func perifocal(inclination, ascending, argPeriapsis float64) (p, q r3.Vec) {
	sinO, cosO := math.Sincos(ascending)
	sinW, cosW := math.Sincos(argPeriapsis)
	sinI, cosI := math.Sincos(inclination)

	p = r3.Vec{
		X: cosO*cosW - sinO*sinW*cosI,
		Y: sinO*cosW + cosO*sinW*cosI,
		Z: sinW * sinI,
	}
	q = r3.Vec{
		X: -cosO*sinW - sinO*cosW*cosI,
		Y: -sinO*sinW + cosO*cosW*cosI,
		Z: cosW * sinI,
	}
	return p, q
}

// relativeState returns the orbiting body's position and velocity relative
// to the orbited body for the given elements.
func relativeState(mu float64, el Elements) (dynamo.StateVector, error) {
	e := el.Eccentricity
	denom := 1 + e*math.Cos(el.TrueAnomaly)
	if denom <= 1e-12 {
		return dynamo.StateVector{}, dynamo.Degenerate("true anomaly beyond asymptote", el.TrueAnomaly)
	}

	semiLatus := el.Periapsis * (1 + e)
	r := semiLatus / denom
	p, q := perifocal(el.Inclination, el.AngleAscending, el.ArgumentOfPeriapsis)
	sinNu, cosNu := math.Sincos(el.TrueAnomaly)

	pos := r3.Add(r3.Scale(r*cosNu, p), r3.Scale(r*sinNu, q))
	speed := math.Sqrt(mu / semiLatus)
	vel := r3.Add(r3.Scale(-speed*sinNu, p), r3.Scale(speed*(e+cosNu), q))

	return dynamo.StateVector{Position: pos, Velocity: vel}, nil
}

// canonicalElements folds angles into their stored ranges without changing
// the orbit's geometry: inclinations past π are reflected, which flips the
// node line and the periapsis direction by π.
func canonicalElements(el Elements) Elements {
	el.Eccentricity = dynamo.Clamp(el.Eccentricity, 0, 1)
	i := dynamo.NormalizeAngle(el.Inclination)
	if i > math.Pi {
		i = dynamo.TwoPi - i
		el.AngleAscending += math.Pi
		el.ArgumentOfPeriapsis += math.Pi
	}
	el.Inclination = i
	el.AngleAscending = dynamo.NormalizeAngle(el.AngleAscending)
	el.ArgumentOfPeriapsis = dynamo.NormalizeAngle(el.ArgumentOfPeriapsis)
	el.TrueAnomaly = dynamo.NormalizeAngle(el.TrueAnomaly)
	return el
}

// definition is everything needed to build an Orbit.
type definition struct {
	primary      Primary
	orbitingMass float64
	elements     Elements
	precession   float64
}

// build validates a definition and derives every stored quantity. The
// returned state is the orbiting body's position and velocity relative to
// the orbited body.
func build(d definition) (Orbit, dynamo.StateVector, error) {
	total := d.primary.Mass + d.orbitingMass
	if !(total > 0) {
		return Orbit{}, dynamo.StateVector{}, dynamo.Degenerate("combined mass", total)
	}
	if !(d.primary.Mass > 0) {
		return Orbit{}, dynamo.StateVector{}, dynamo.Degenerate("orbited mass", d.primary.Mass)
	}
	if !(d.elements.Periapsis > 0) {
		return Orbit{}, dynamo.StateVector{}, dynamo.Degenerate("periapsis", d.elements.Periapsis)
	}

	el := canonicalElements(d.elements)
	mu := dynamo.G * total

	rel, err := relativeState(mu, el)
	if err != nil {
		return Orbit{}, dynamo.StateVector{}, err
	}

	e := el.Eccentricity
	o := Orbit{
		OrbitedID:                      d.primary.ID,
		OrbitedMass:                    d.primary.Mass,
		OrbitedPosition:                d.primary.Position,
		OrbitingMass:                   d.orbitingMass,
		Eccentricity:                   e,
		Inclination:                    el.Inclination,
		AngleAscending:                 el.AngleAscending,
		ArgumentOfPeriapsis:            el.ArgumentOfPeriapsis,
		TrueAnomaly:                    el.TrueAnomaly,
		Periapsis:                      el.Periapsis,
		StandardGravitationalParameter: mu,
		Radius:                         r3.Norm(rel.Position),
		LongitudeOfPeriapsis:           dynamo.NormalizeAngle(el.AngleAscending + el.ArgumentOfPeriapsis - d.precession),
	}

	if e < 1 {
		a := el.Periapsis / (1 - e)
		if !(a > 0) || math.IsInf(a, 0) {
			return Orbit{}, dynamo.StateVector{}, dynamo.Degenerate("semi-major axis", a)
		}
		o.SemiMajorAxis = a
		o.MeanMotion = math.Sqrt(mu / (a * a * a))
		o.Period = dynamo.TwoPi / o.MeanMotion
		meanAnomaly := MeanFromTrue(el.TrueAnomaly, e)
		o.Epoch = meanAnomaly / o.MeanMotion
		o.MeanLongitude = dynamo.NormalizeAngle(o.LongitudeOfPeriapsis + meanAnomaly)
	} else {
		o.SemiMajorAxis = math.Inf(1)
		o.Period = math.Inf(1)
		nu := el.TrueAnomaly
		if nu > math.Pi {
			nu -= dynamo.TwoPi
		}
		o.Epoch = parabolicTimeSincePeriapsis(nu, el.Periapsis, mu)
		o.MeanLongitude = dynamo.NormalizeAngle(o.LongitudeOfPeriapsis + el.TrueAnomaly)
	}

	massFraction := d.orbitingMass / total
	o.Barycenter = r3.Add(d.primary.Position, r3.Scale(massFraction, rel.Position))
	o.R0 = r3.Scale(1-massFraction, rel.Position)
	o.V0 = r3.Scale(1-massFraction, rel.Velocity)

	return o, rel, nil
}
