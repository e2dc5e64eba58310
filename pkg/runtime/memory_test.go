package runtime_test

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flotilla-ml/flotilla/pkg/runtime"
)

func ints(n int) []int {
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}

	return rows
}

func collect[T any](ds runtime.Dataset[T]) []T {
	var out []T
	for p := range ds.NumPartitions() {
		it := ds.Partition(p)
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			out = append(out, v)
		}
	}

	return out
}

func TestFromSlice(t *testing.T) {
	t.Parallel()

	ds := runtime.FromSlice(ints(10), 4)
	assert.Equal(t, 4, ds.NumPartitions())

	n, err := ds.Count(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	assert.ElementsMatch(t, ints(10), collect(ds))
}

func TestRandomSplit(t *testing.T) {
	t.Parallel()

	ds := runtime.FromSliceSeeded(ints(1000), 4, 42)

	splits, err := ds.RandomSplit(t.Context(), []float64{0.5, 0.5})
	require.NoError(t, err)
	require.Len(t, splits, 2)

	var all []int
	var total int64
	for _, s := range splits {
		assert.Equal(t, 4, s.NumPartitions())
		n, err := s.Count(t.Context())
		require.NoError(t, err)
		total += n
		all = append(all, collect(s)...)
	}

	// Splits are disjoint and exhaustive.
	assert.Equal(t, int64(1000), total)
	assert.ElementsMatch(t, ints(1000), all)

	// Uniform weights give roughly even splits.
	n0, err := splits[0].Count(t.Context())
	require.NoError(t, err)
	assert.InDelta(t, 500, float64(n0), 100)
}

func TestRandomSplitBadWeights(t *testing.T) {
	t.Parallel()

	ds := runtime.FromSlice(ints(10), 2)

	_, err := ds.RandomSplit(t.Context(), nil)
	assert.ErrorIs(t, err, runtime.ErrBadWeights)

	_, err = ds.RandomSplit(t.Context(), []float64{0.5, -0.5})
	assert.ErrorIs(t, err, runtime.ErrBadWeights)
}

func TestRepartition(t *testing.T) {
	t.Parallel()

	ds := runtime.FromSlice(ints(10), 3)

	got, err := ds.Repartition(t.Context(), 5)
	require.NoError(t, err)
	assert.Equal(t, 5, got.NumPartitions())
	assert.ElementsMatch(t, ints(10), collect(got))

	_, err = ds.Repartition(t.Context(), 0)
	assert.ErrorIs(t, err, runtime.ErrBadPartitionCount)
}

func TestMapPartitions(t *testing.T) {
	t.Parallel()

	ds := runtime.FromSlice(ints(8), 4)

	mapped, err := runtime.MapPartitions(t.Context(), ds, func(_ context.Context, it runtime.Iterator[int]) ([]string, error) {
		var out []string
		for {
			v, ok := it.Next()
			if !ok {
				break
			}
			out = append(out, strconv.Itoa(v*2))
		}

		return out, nil
	})
	require.NoError(t, err)

	assert.Equal(t, 4, mapped.NumPartitions())
	assert.ElementsMatch(t, []string{"0", "2", "4", "6", "8", "10", "12", "14"}, collect(mapped))
}

func TestMapPartitionsPropagatesError(t *testing.T) {
	t.Parallel()

	ds := runtime.FromSlice(ints(8), 2)
	boom := errors.New("boom")

	_, err := runtime.MapPartitions(t.Context(), ds, func(_ context.Context, _ runtime.Iterator[int]) ([]int, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
}

func TestReduce(t *testing.T) {
	t.Parallel()

	add := func(acc, v int) (int, error) { return acc + v, nil }
	combine := func(a, b int) (int, error) { return a + b, nil }

	cases := []struct {
		name       string
		rows       int
		partitions int
		want       int
	}{
		{name: "single partition", rows: 10, partitions: 1, want: 45},
		{name: "even partitions", rows: 100, partitions: 4, want: 4950},
		{name: "odd partitions", rows: 100, partitions: 7, want: 4950},
		{name: "more partitions than rows", rows: 3, partitions: 8, want: 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ds := runtime.FromSlice(ints(tc.rows), tc.partitions)
			got, err := runtime.Reduce(t.Context(), ds, 0, add, combine)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReducePropagatesError(t *testing.T) {
	t.Parallel()

	ds := runtime.FromSlice(ints(10), 2)
	boom := errors.New("boom")

	_, err := runtime.Reduce(t.Context(), ds, 0, func(acc, v int) (int, error) {
		return 0, boom
	}, func(a, b int) (int, error) {
		return a + b, nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestBroadcaster(t *testing.T) {
	t.Parallel()

	b := runtime.NewBroadcaster[string]()
	h, err := b.Distribute(t.Context(), "snapshot")
	require.NoError(t, err)
	assert.Equal(t, "snapshot", h.Value())
}
