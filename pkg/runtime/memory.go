package runtime

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
)

// memoryDataset is the in-process Dataset implementation: rows held in
// slice-backed partitions. It backs tests, the CLI and the daemon's
// synthetic passes.
type memoryDataset[T any] struct {
	id         string
	partitions [][]T
	rng        *rand.Rand
	persisted  bool
}

// FromSlice spreads rows round-robin over the given number of partitions.
func FromSlice[T any](rows []T, partitions int) Dataset[T] {
	return FromSliceSeeded(rows, partitions, rand.Int63())
}

// FromSliceSeeded is FromSlice with a fixed seed for the random-split
// source, for reproducible runs.
func FromSliceSeeded[T any](rows []T, partitions int, seed int64) Dataset[T] {
	if partitions < 1 {
		partitions = 1
	}
	parts := make([][]T, partitions)
	for i, r := range rows {
		p := i % partitions
		parts[p] = append(parts[p], r)
	}

	return &memoryDataset[T]{
		id:         uuid.NewString(),
		partitions: parts,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// FromPartitions wraps already-partitioned rows without copying.
func FromPartitions[T any](parts [][]T) Dataset[T] {
	if len(parts) == 0 {
		parts = make([][]T, 1)
	}

	return &memoryDataset[T]{
		id:         uuid.NewString(),
		partitions: parts,
		rng:        rand.New(rand.NewSource(rand.Int63())),
	}
}

func (d *memoryDataset[T]) Persist(_ context.Context) error {
	// Slice-backed partitions are already materialized.
	d.persisted = true

	return nil
}

func (d *memoryDataset[T]) Count(_ context.Context) (int64, error) {
	var n int64
	for _, p := range d.partitions {
		n += int64(len(p))
	}

	return n, nil
}

func (d *memoryDataset[T]) NumPartitions() int {
	return len(d.partitions)
}

func (d *memoryDataset[T]) Partition(i int) Iterator[T] {
	return &sliceIterator[T]{rows: d.partitions[i]}
}

func (d *memoryDataset[T]) RandomSplit(_ context.Context, weights []float64) ([]Dataset[T], error) {
	if len(weights) == 0 {
		return nil, ErrBadWeights
	}
	total := 0.0
	for _, w := range weights {
		if w <= 0 {
			return nil, ErrBadWeights
		}
		total += w
	}

	splits := make([]*memoryDataset[T], len(weights))
	for s := range splits {
		splits[s] = &memoryDataset[T]{
			id:         uuid.NewString(),
			partitions: make([][]T, len(d.partitions)),
			rng:        rand.New(rand.NewSource(d.rng.Int63())),
		}
	}

	// Each row keeps its partition index and lands in a split drawn in
	// proportion to the weights, so split composition is independent of
	// storage order.
	for p, part := range d.partitions {
		for _, row := range part {
			u := d.rng.Float64() * total
			s := 0
			for s < len(weights)-1 && u >= weights[s] {
				u -= weights[s]
				s++
			}
			splits[s].partitions[p] = append(splits[s].partitions[p], row)
		}
	}

	out := make([]Dataset[T], len(splits))
	for i, s := range splits {
		out[i] = s
	}

	return out, nil
}

func (d *memoryDataset[T]) Repartition(_ context.Context, n int) (Dataset[T], error) {
	if n < 1 {
		return nil, ErrBadPartitionCount
	}

	parts := make([][]T, n)
	i := 0
	for _, part := range d.partitions {
		for _, row := range part {
			parts[i%n] = append(parts[i%n], row)
			i++
		}
	}

	return &memoryDataset[T]{
		id:         uuid.NewString(),
		partitions: parts,
		rng:        rand.New(rand.NewSource(d.rng.Int63())),
	}, nil
}

type sliceIterator[T any] struct {
	rows []T
	i    int
}

func (it *sliceIterator[T]) Next() (T, bool) {
	if it.i >= len(it.rows) {
		var zero T

		return zero, false
	}
	row := it.rows[it.i]
	it.i++

	return row, true
}

type handle[V any] struct {
	v V
}

func (h handle[V]) Value() V { return h.v }

type memoryBroadcaster[V any] struct{}

// NewBroadcaster returns an in-process Broadcaster: workers share the
// master's address space, so distribution is a no-op wrap.
func NewBroadcaster[V any]() Broadcaster[V] {
	return memoryBroadcaster[V]{}
}

func (memoryBroadcaster[V]) Distribute(_ context.Context, v V) (Handle[V], error) {
	return handle[V]{v: v}, nil
}
