package runtime

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// MapPartitions runs fn once per partition of ds, in parallel, and returns
// the emitted values as a dataset with the same partition layout. fn owns
// its iterator exclusively and may emit zero or more values.
func MapPartitions[T, R any](ctx context.Context, ds Dataset[T], fn func(context.Context, Iterator[T]) ([]R, error)) (Dataset[R], error) {
	parts := make([][]R, ds.NumPartitions())

	g, gctx := errgroup.WithContext(ctx)
	for i := range ds.NumPartitions() {
		g.Go(func() error {
			out, err := fn(gctx, ds.Partition(i))
			if err != nil {
				return err
			}
			parts[i] = out

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return FromPartitions(parts), nil
}

// Reduce folds every element of ds into a per-partition accumulator with
// add, then merges the partial accumulators pairwise with combine until one
// remains. zero must be the monoid's empty value; add and combine must be
// interchangeable at any point of the merge tree, which is what permits the
// parallel, tree-shaped reduction.
func Reduce[R, A any](ctx context.Context, ds Dataset[R], zero A, add func(A, R) (A, error), combine func(A, A) (A, error)) (A, error) {
	n := ds.NumPartitions()
	if n == 0 {
		return zero, nil
	}
	partials := make([]A, n)

	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			acc := zero
			it := ds.Partition(i)
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				r, ok := it.Next()
				if !ok {
					break
				}
				var err error
				acc, err = add(acc, r)
				if err != nil {
					return err
				}
			}
			partials[i] = acc

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return zero, err
	}

	// Log-depth pairwise merge. Each partial is exclusively owned by one
	// merging goroutine per level.
	for len(partials) > 1 {
		half := (len(partials) + 1) / 2
		next := make([]A, half)
		g, _ := errgroup.WithContext(ctx)
		for i := range half {
			g.Go(func() error {
				lo := partials[2*i]
				hi := 2*i + 1
				if hi >= len(partials) {
					next[i] = lo

					return nil
				}
				merged, err := combine(lo, partials[hi])
				if err != nil {
					return err
				}
				next[i] = merged

				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return zero, err
		}
		partials = next
	}

	return partials[0], nil
}
