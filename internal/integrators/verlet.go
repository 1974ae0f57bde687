package integrators

import "github.com/san-kum/cosmosim/internal/dynamo"

// The symplectic methods below expect states laid out as positions
// followed by velocities of equal length, as physics.TwoBody uses.

// drift moves positions by dt at velocity v.
func drift(dst, pos, vel dynamo.State, dt float64) {
	for i := range dst {
		dst[i] = pos[i] + vel[i]*dt
	}
}

// kick changes velocities by dt at acceleration acc.
func kick(dst, vel, acc dynamo.State, dt float64) {
	for i := range dst {
		dst[i] = vel[i] + acc[i]*dt
	}
}

// Verlet is velocity Verlet.
type Verlet struct {
	probe dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	h := n / 2
	if len(v.probe) != n {
		v.probe = make(dynamo.State, n)
	}

	acc := dyn.Derive(x, t)[h:]
	out := make(dynamo.State, n)

	// x' = x + v·dt + a·dt²/2
	kick(out[h:], x[h:], acc, dt/2)
	drift(out[:h], x[:h], out[h:], dt)

	copy(v.probe[:h], out[:h])
	copy(v.probe[h:], x[h:])
	accNext := dyn.Derive(v.probe, t+dt)[h:]

	// v' = v + (a + a')·dt/2
	for i := 0; i < h; i++ {
		out[h+i] = x[h+i] + (acc[i]+accNext[i])*dt/2
	}
	return out
}

// Leapfrog is the kick-drift-kick form. Like Verlet it keeps orbital
// energy bounded over many periods.
type Leapfrog struct {
	probe dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	h := n / 2
	if len(l.probe) != n {
		l.probe = make(dynamo.State, n)
	}

	out := make(dynamo.State, n)
	kick(out[h:], x[h:], dyn.Derive(x, t)[h:], dt/2)
	drift(out[:h], x[:h], out[h:], dt)

	copy(l.probe, out)
	kick(out[h:], out[h:], dyn.Derive(l.probe, t+dt)[h:], dt/2)
	return out
}
