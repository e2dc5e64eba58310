package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-ml/flotilla/model"
	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/vector"
)

func TestNewUnknownTopology(t *testing.T) {
	t.Parallel()

	_, err := model.New(model.Topology{Kind: "perceptron", Units: []int{4}}, 0.01, nil)
	assert.ErrorIs(t, err, model.ErrUnknownTopology)
}

func TestParameterCount(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 5, model.Topology{Kind: model.KindNetwork, Units: []int{4}}.ParameterCount())
	assert.Equal(t, 7, model.Topology{Kind: model.KindGraph, Units: []int{2, 3, 1}}.ParameterCount())
}

func TestFitBatchReducesLoss(t *testing.T) {
	t.Parallel()

	kinds := []model.Kind{model.KindNetwork, model.KindGraph}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			t.Parallel()

			topo := model.Topology{Kind: kind, Units: []int{4}}
			m, err := model.New(topo, 0.05, nil)
			require.NoError(t, err)

			examples := model.GenerateExamples(256, 4, 0, 7)

			first, err := m.FitBatch(examples[:32])
			require.NoError(t, err)

			var last float64
			for range 50 {
				last, err = m.FitBatch(examples)
				require.NoError(t, err)
			}

			assert.Less(t, last, first)
			assert.Equal(t, last, m.Score())
		})
	}
}

func TestFitBatchBadExample(t *testing.T) {
	t.Parallel()

	m, err := model.New(model.Topology{Kind: model.KindNetwork, Units: []int{4}}, 0.01, nil)
	require.NoError(t, err)

	_, err = m.FitBatch([]model.Example{{Features: vector.Zeros(3)}})
	assert.ErrorIs(t, err, model.ErrBadExample)
}

func TestSnapshotIsDetached(t *testing.T) {
	t.Parallel()

	m, err := model.New(model.Topology{Kind: model.KindNetwork, Units: []int{2}}, 0.01, optimizer.NewMomentum(0.9, 3))
	require.NoError(t, err)

	snap := m.Snapshot()

	// Training after the snapshot must not leak into it.
	_, err = m.FitBatch(model.GenerateExamples(8, 2, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, vector.Zeros(3), snap.Params)
	assert.NotEqual(t, snap.Params, m.Params())
}

func TestInstantiateIndependentCopies(t *testing.T) {
	t.Parallel()

	m, err := model.New(model.Topology{Kind: model.KindNetwork, Units: []int{2}}, 0.05, nil)
	require.NoError(t, err)
	snap := m.Snapshot()

	a, err := snap.Instantiate()
	require.NoError(t, err)
	b, err := snap.Instantiate()
	require.NoError(t, err)

	_, err = a.FitBatch(model.GenerateExamples(8, 2, 0, 2))
	require.NoError(t, err)

	assert.NotEqual(t, a.Params(), b.Params())
	assert.Equal(t, snap.Params, b.Params())
}

func TestSnapshotBinaryRoundTrip(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		state optimizer.State
	}{
		{name: "no optimizer state"},
		{
			name: "momentum",
			state: &optimizer.Momentum{
				Mu:       0.9,
				Velocity: vector.Vector{0.1, 0.2, 0.3},
			},
		},
		{
			name: "adam",
			state: &optimizer.Adam{
				Beta1:   0.9,
				Beta2:   0.999,
				Epsilon: 1e-8,
				M:       vector.Vector{0.1, 0.1, 0.1},
				V:       vector.Vector{0.2, 0.2, 0.2},
				Step:    12,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			snap := model.Snapshot{
				Topology: model.Topology{Kind: model.KindNetwork, Units: []int{2}},
				Params:   vector.Vector{1.5, -2.5, 0.5},
				State:    tc.state,
				LR:       0.01,
			}

			data, err := snap.MarshalBinary()
			require.NoError(t, err)

			var got model.Snapshot
			require.NoError(t, got.UnmarshalBinary(data))

			assert.Equal(t, snap.Topology, got.Topology)
			assert.Equal(t, snap.Params, got.Params)
			assert.Equal(t, snap.LR, got.LR)
			assert.Equal(t, tc.state, got.State)
		})
	}
}
