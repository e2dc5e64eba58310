// Package runtime defines the collaborator interfaces the training master
// drives: a partitioned dataset with persist/count/split/repartition
// primitives, generic map-over-partitions and reduce operations, and a
// broadcast facility for distributing immutable values to every worker.
// An in-memory implementation backs tests, the CLI and the daemon's
// synthetic passes; a cluster-backed implementation satisfies the same
// interfaces.
package runtime

import (
	"context"
	"errors"
)

var (
	ErrBadWeights        = errors.New("random split weights must be non-empty and positive")
	ErrBadPartitionCount = errors.New("partition count must be >= 1")
)

// Iterator walks the elements of one partition. Iterators are single-use
// and owned by exactly one worker.
type Iterator[T any] interface {
	Next() (T, bool)
}

// Dataset is an immutable, partitioned collection. All derived datasets
// (splits, repartitions, mapped results) are independent of their parent.
type Dataset[T any] interface {
	// Persist pins the dataset in memory so repeated traversals across
	// rounds do not recompute it.
	Persist(ctx context.Context) error

	Count(ctx context.Context) (int64, error)

	NumPartitions() int

	// Partition returns a fresh iterator over partition i.
	Partition(i int) Iterator[T]

	// RandomSplit partitions the dataset into len(weights) disjoint
	// datasets, assigning elements at random in proportion to the weights
	// so split composition is not correlated with storage order.
	RandomSplit(ctx context.Context, weights []float64) ([]Dataset[T], error)

	// Repartition redistributes the elements across exactly n partitions.
	Repartition(ctx context.Context, n int) (Dataset[T], error)
}

// Handle references a value made available to every worker without
// re-sending it on each task.
type Handle[V any] interface {
	Value() V
}

// Broadcaster distributes an immutable value to all workers.
type Broadcaster[V any] interface {
	Distribute(ctx context.Context, v V) (Handle[V], error)
}
