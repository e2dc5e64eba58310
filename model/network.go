package model

import (
	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/vector"
)

var _ Trainable = (*Network)(nil)

// Network is a flat linear model over the full feature vector: one weight
// per input plus a bias term at the end of the parameter vector.
type Network struct {
	topo   Topology
	lr     float64
	params vector.Vector
	state  optimizer.State
	score  float64
}

func NewNetwork(units []int, lr float64, state optimizer.State) *Network {
	topo := Topology{Kind: KindNetwork, Units: units}

	return &Network{
		topo:   topo,
		lr:     lr,
		params: vector.Zeros(topo.ParameterCount()),
		state:  state,
	}
}

func (n *Network) Topology() Topology { return n.topo }

func (n *Network) Params() vector.Vector { return n.params }

func (n *Network) OptimizerState() optimizer.State { return n.state }

func (n *Network) Score() float64 { return n.score }

func (n *Network) Snapshot() Snapshot {
	return newSnapshot(n.topo, n.params, n.state, n.lr)
}

func (n *Network) predict(ex Example) float64 {
	out := n.params[len(n.params)-1]
	for i, x := range ex.Features {
		out += n.params[i] * x
	}

	return out
}

func (n *Network) FitBatch(batch []Example) (float64, error) {
	grad, loss, err := gradient(n.params, batch, n.predict)
	if err != nil {
		return 0, err
	}
	if err := step(n.params, grad, n.lr, n.state); err != nil {
		return 0, err
	}
	n.score = loss

	return loss, nil
}

func (n *Network) ApplyAverage(params vector.Vector, state optimizer.State, score float64) {
	n.params = params
	n.state = state
	n.score = score
}
