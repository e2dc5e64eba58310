package master_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-ml/flotilla/master"
	"github.com/flotilla-ml/flotilla/training"
)

func TestObjectsPerRound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		workers int
		records int
		batch   int
		avgFreq int
		want    int
	}{
		{
			name:    "single example objects",
			workers: 4,
			records: 1,
			batch:   16,
			avgFreq: 5,
			want:    320,
		},
		{
			name:    "single example objects minimal window",
			workers: 2,
			records: 1,
			batch:   8,
			avgFreq: 1,
			want:    16,
		},
		{
			name:    "pre-batched objects",
			workers: 4,
			records: 32,
			batch:   16,
			avgFreq: 5,
			want:    20,
		},
		{
			name:    "pre-batched objects one per worker",
			workers: 6,
			records: 128,
			batch:   16,
			avgFreq: 1,
			want:    6,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			cfg, err := training.NewBuilder(tc.workers, tc.records).
				BatchSizePerWorker(tc.batch).
				AveragingFrequency(tc.avgFreq).
				Build()
			require.NoError(t, err)

			got := master.ObjectsPerRound(cfg)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 1)
		})
	}
}
