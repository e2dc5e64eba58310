package training_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-ml/flotilla/training"
)

func TestBuilderDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := training.NewBuilder(4, 1).Build()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.NumWorkers)
	assert.Equal(t, 1, cfg.RecordsPerStoredObject)
	assert.Equal(t, 16, cfg.BatchSizePerWorker)
	assert.Equal(t, 5, cfg.AveragingFrequency)
	assert.Equal(t, 0, cfg.PrefetchBatches)
	assert.True(t, cfg.SaveOptimizerState)
	assert.Equal(t, training.Never, cfg.Repartition)
	assert.False(t, cfg.CollectStats)
}

func TestBuilderOverrides(t *testing.T) {
	t.Parallel()

	cfg, err := training.NewBuilder(8, 32).
		BatchSizePerWorker(64).
		AveragingFrequency(3).
		PrefetchBatches(2).
		SaveOptimizerState(false).
		RepartitionData(training.Always).
		CollectStats(true).
		Build()
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.BatchSizePerWorker)
	assert.Equal(t, 3, cfg.AveragingFrequency)
	assert.Equal(t, 2, cfg.PrefetchBatches)
	assert.False(t, cfg.SaveOptimizerState)
	assert.Equal(t, training.Always, cfg.Repartition)
	assert.True(t, cfg.CollectStats)
}

func TestBuilderValidation(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		build func() (training.Config, error)
	}{
		{
			name: "zero workers",
			build: func() (training.Config, error) {
				return training.NewBuilder(0, 1).Build()
			},
		},
		{
			name: "negative workers",
			build: func() (training.Config, error) {
				return training.NewBuilder(-2, 1).Build()
			},
		},
		{
			name: "zero records per stored object",
			build: func() (training.Config, error) {
				return training.NewBuilder(4, 0).Build()
			},
		},
		{
			name: "zero batch size",
			build: func() (training.Config, error) {
				return training.NewBuilder(4, 1).BatchSizePerWorker(0).Build()
			},
		},
		{
			name: "zero averaging frequency",
			build: func() (training.Config, error) {
				return training.NewBuilder(4, 1).AveragingFrequency(0).Build()
			},
		},
		{
			name: "negative prefetch",
			build: func() (training.Config, error) {
				return training.NewBuilder(4, 1).PrefetchBatches(-1).Build()
			},
		},
		{
			name: "unknown repartition policy",
			build: func() (training.Config, error) {
				return training.NewBuilder(4, 1).RepartitionData(training.Repartition(99)).Build()
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := tc.build()
			assert.ErrorIs(t, err, training.ErrInvalidConfig)
		})
	}
}
