package integrators

import "github.com/san-kum/cosmosim/internal/dynamo"

// tableau is an explicit Butcher tableau. errWeights, when set, are the
// differences between the propagating weights and an embedded lower
// order solution; its last entry may weigh the derivative at the new
// state (first-same-as-last).
type tableau struct {
	nodes      []float64
	matrix     [][]float64
	weights    []float64
	errWeights []float64
}

var classicRK4 = tableau{
	nodes: []float64{0, 0.5, 0.5, 1},
	matrix: [][]float64{
		{},
		{0.5},
		{0, 0.5},
		{0, 0, 1},
	},
	weights: []float64{1.0 / 6, 1.0 / 3, 1.0 / 3, 1.0 / 6},
}

var dormandPrince = tableau{
	nodes: []float64{0, 1.0 / 5, 3.0 / 10, 4.0 / 5, 8.0 / 9, 1},
	matrix: [][]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
	},
	weights: []float64{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	errWeights: []float64{
		35.0/384 - 5179.0/57600,
		0,
		500.0/1113 - 7571.0/16695,
		125.0/192 - 393.0/640,
		-2187.0/6784 + 92097.0/339200,
		11.0/84 - 187.0/2100,
		-1.0 / 40,
	},
}

// explicitRK evaluates one tableau with reusable stage buffers. It is not
// safe for concurrent use.
type explicitRK struct {
	tab    tableau
	stages []dynamo.State
	tmp    dynamo.State
}

func newExplicitRK(tab tableau) explicitRK {
	return explicitRK{tab: tab}
}

func (e *explicitRK) ensure(n int) {
	if len(e.tmp) == n {
		return
	}
	e.tmp = make(dynamo.State, n)
	e.stages = make([]dynamo.State, max(len(e.tab.weights), len(e.tab.errWeights)))
	for i := range e.stages {
		e.stages[i] = make(dynamo.State, n)
	}
}

// step advances x by dt and returns the new state. With an embedded pair
// it also returns the per-component error estimate in errOut.
func (e *explicitRK) step(dyn dynamo.System, x dynamo.State, t, dt float64, errOut dynamo.State) dynamo.State {
	n := len(x)
	e.ensure(n)

	for s, row := range e.tab.matrix {
		copy(e.tmp, x)
		for j, a := range row {
			if a == 0 {
				continue
			}
			for i := range e.tmp {
				e.tmp[i] += dt * a * e.stages[j][i]
			}
		}
		copy(e.stages[s], dyn.Derive(e.tmp, t+e.tab.nodes[s]*dt))
	}

	out := x.Clone()
	for s, b := range e.tab.weights {
		if b == 0 {
			continue
		}
		for i := range out {
			out[i] += dt * b * e.stages[s][i]
		}
	}

	if errOut == nil || e.tab.errWeights == nil {
		return out
	}
	last := len(e.tab.weights)
	if len(e.tab.errWeights) > last {
		copy(e.stages[last], dyn.Derive(out, t+dt))
	}
	for i := range errOut {
		errOut[i] = 0
		for s, d := range e.tab.errWeights {
			errOut[i] += dt * d * e.stages[s][i]
		}
	}
	return out
}
