package optimizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/vector"
)

func TestMomentumMergeAverage(t *testing.T) {
	t.Parallel()

	a := optimizer.NewMomentum(0.9, 3)
	a.Velocity = vector.Vector{1, 2, 3}
	b := optimizer.NewMomentum(0.9, 3)
	b.Velocity = vector.Vector{3, 4, 5}

	merged, err := a.Merge(b)
	require.NoError(t, err)

	avg := merged.Average(2)
	m, ok := avg.(*optimizer.Momentum)
	require.True(t, ok)
	assert.Equal(t, vector.Vector{2, 3, 4}, m.Velocity)
}

func TestMomentumMergeShapeMismatch(t *testing.T) {
	t.Parallel()

	a := optimizer.NewMomentum(0.9, 3)
	b := optimizer.NewMomentum(0.9, 4)

	_, err := a.Merge(b)
	assert.ErrorIs(t, err, optimizer.ErrIncompatibleState)
}

func TestMergeDifferentFamilies(t *testing.T) {
	t.Parallel()

	m := optimizer.NewMomentum(0.9, 3)
	a := optimizer.NewAdam(0.9, 0.999, 1e-8, 3)

	_, err := m.Merge(a)
	assert.ErrorIs(t, err, optimizer.ErrIncompatibleState)

	_, err = a.Merge(m)
	assert.ErrorIs(t, err, optimizer.ErrIncompatibleState)
}

func TestAdamMergeAverage(t *testing.T) {
	t.Parallel()

	a := optimizer.NewAdam(0.9, 0.999, 1e-8, 2)
	a.M = vector.Vector{2, 2}
	a.V = vector.Vector{4, 4}
	a.Step = 3
	b := optimizer.NewAdam(0.9, 0.999, 1e-8, 2)
	b.M = vector.Vector{4, 4}
	b.V = vector.Vector{8, 8}
	b.Step = 5

	merged, err := a.Merge(b)
	require.NoError(t, err)

	got, ok := merged.Average(2).(*optimizer.Adam)
	require.True(t, ok)
	assert.Equal(t, vector.Vector{3, 3}, got.M)
	assert.Equal(t, vector.Vector{6, 6}, got.V)
	assert.Equal(t, 5, got.Step)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()

	m := optimizer.NewMomentum(0.9, 2)
	m.Velocity = vector.Vector{1, 1}

	c, ok := m.Clone().(*optimizer.Momentum)
	require.True(t, ok)
	c.Velocity[0] = 7

	assert.Equal(t, vector.Vector{1, 1}, m.Velocity)
}
