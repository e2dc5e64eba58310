package training_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-ml/flotilla/training"
)

func TestShouldRepartition(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		policy     training.Repartition
		partitions int
		workers    int
		want       bool
		err        error
	}{
		{
			name:       "never with mismatched counts",
			policy:     training.Never,
			partitions: 3,
			workers:    8,
			want:       false,
		},
		{
			name:       "always with matching counts",
			policy:     training.Always,
			partitions: 8,
			workers:    8,
			want:       true,
		},
		{
			name:       "when counts differ and they do",
			policy:     training.WhenPartitionCountDiffers,
			partitions: 3,
			workers:    8,
			want:       true,
		},
		{
			name:       "when counts differ and they match",
			policy:     training.WhenPartitionCountDiffers,
			partitions: 8,
			workers:    8,
			want:       false,
		},
		{
			name:   "unknown policy",
			policy: training.Repartition(42),
			err:    training.ErrUnknownRepartition,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := tc.policy.ShouldRepartition(tc.partitions, tc.workers)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)

				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRepartitionString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "never", training.Never.String())
	assert.Equal(t, "when-partition-count-differs", training.WhenPartitionCountDiffers.String())
	assert.Equal(t, "always", training.Always.String())
}
