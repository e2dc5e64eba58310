package model

import (
	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/vector"
)

var _ Trainable = (*Graph)(nil)

// Graph is a vertex-structured linear model: the feature vector is segmented
// across vertices, each vertex produces a partial activation over its
// segment, and the output is the sum of activations plus a shared bias.
type Graph struct {
	topo   Topology
	lr     float64
	params vector.Vector
	state  optimizer.State
	score  float64
}

func NewGraph(units []int, lr float64, state optimizer.State) *Graph {
	topo := Topology{Kind: KindGraph, Units: units}

	return &Graph{
		topo:   topo,
		lr:     lr,
		params: vector.Zeros(topo.ParameterCount()),
		state:  state,
	}
}

func (g *Graph) Topology() Topology { return g.topo }

func (g *Graph) Params() vector.Vector { return g.params }

func (g *Graph) OptimizerState() optimizer.State { return g.state }

func (g *Graph) Score() float64 { return g.score }

func (g *Graph) Snapshot() Snapshot {
	return newSnapshot(g.topo, g.params, g.state, g.lr)
}

func (g *Graph) predict(ex Example) float64 {
	out := g.params[len(g.params)-1]
	offset := 0
	for _, width := range g.topo.Units {
		for i := 0; i < width; i++ {
			out += g.params[offset+i] * ex.Features[offset+i]
		}
		offset += width
	}

	return out
}

func (g *Graph) FitBatch(batch []Example) (float64, error) {
	grad, loss, err := gradient(g.params, batch, g.predict)
	if err != nil {
		return 0, err
	}
	if err := step(g.params, grad, g.lr, g.state); err != nil {
		return 0, err
	}
	g.score = loss

	return loss, nil
}

func (g *Graph) ApplyAverage(params vector.Vector, state optimizer.State, score float64) {
	g.params = params
	g.state = state
	g.score = score
}
