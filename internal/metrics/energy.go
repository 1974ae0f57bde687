package metrics

import (
	"math"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

// EnergyDrift tracks the largest relative departure from the first
// observed energy. Systems without an energy function report zero.
type EnergyDrift struct {
	energy    dynamo.Hamiltonian
	reference float64
	last      float64
	worst     float64
	seen      bool
}

func NewEnergyDrift(dyn dynamo.System) *EnergyDrift {
	h, _ := dyn.(dynamo.Hamiltonian)
	return &EnergyDrift{energy: h}
}

func (e *EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(x dynamo.State, t float64) {
	if e.energy == nil {
		return
	}
	v := e.energy.Energy(x)
	if !e.seen {
		e.reference, e.seen = v, true
	}
	e.last = v
	if e.reference != 0 {
		e.worst = math.Max(e.worst, math.Abs((v-e.reference)/e.reference))
	}
}

func (e *EnergyDrift) Value() float64 { return e.worst }

// Final is the relative drift at the last observation.
func (e *EnergyDrift) Final() float64 {
	if e.reference == 0 {
		return 0
	}
	return math.Abs((e.last - e.reference) / e.reference)
}

func (e *EnergyDrift) Reset() {
	*e = EnergyDrift{energy: e.energy}
}
