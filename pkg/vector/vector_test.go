package vector_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-ml/flotilla/pkg/vector"
)

func TestAdd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		v    vector.Vector
		o    vector.Vector
		want vector.Vector
		err  error
	}{
		{
			name: "same length",
			v:    vector.Vector{1, 2, 3},
			o:    vector.Vector{4, 5, 6},
			want: vector.Vector{5, 7, 9},
		},
		{
			name: "length mismatch",
			v:    vector.Zeros(10),
			o:    vector.Zeros(12),
			err:  vector.ErrDimensionMismatch,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.v.Add(tc.o)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, tc.v)
		})
	}
}

func TestScale(t *testing.T) {
	t.Parallel()

	v := vector.Vector{2, 4, 8}
	v.Scale(0.5)
	assert.Equal(t, vector.Vector{1, 2, 4}, v)
}

func TestDot(t *testing.T) {
	t.Parallel()

	v := vector.Vector{1, 2, 3}
	got, err := v.Dot(vector.Vector{4, 5, 6})
	require.NoError(t, err)
	assert.InDelta(t, 32, got, 1e-12)

	_, err = v.Dot(vector.Zeros(2))
	assert.ErrorIs(t, err, vector.ErrDimensionMismatch)
}

func TestClone(t *testing.T) {
	t.Parallel()

	v := vector.Vector{1, 2}
	c := v.Clone()
	c[0] = 9
	assert.Equal(t, vector.Vector{1, 2}, v)

	var nilVec vector.Vector
	assert.Nil(t, nilVec.Clone())
}
