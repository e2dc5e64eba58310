// Package aggregate folds an unordered set of worker results into a single
// round aggregate. Add and Combine form a commutative, associative monoid,
// so the runtime is free to shape the reduction tree however it likes; only
// floating-point summation order can differ between shapes.
package aggregate

import (
	"errors"

	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/stats"
	"github.com/flotilla-ml/flotilla/pkg/vector"
	"github.com/flotilla-ml/flotilla/worker"
)

var ErrEmptyAggregation = errors.New("aggregation produced no worker results")

// Accumulator is the partial aggregate of zero or more worker results. The
// zero value is the empty sentinel: the parameter vector stays nil until the
// first contribution, which fixes the dimensionality, so nothing has to be
// assumed about the model size up front.
type Accumulator struct {
	ParamsSum        vector.Vector
	Optimizer        optimizer.State
	ScoreSum         float64
	AggregationCount int
	WorkerStats      []stats.WorkerStats
}

// Empty reports whether no result has been folded in yet.
func (a Accumulator) Empty() bool {
	return a.AggregationCount == 0
}

// Add folds one worker result into the accumulator. The first contribution
// transfers ownership of the result's vector instead of copying it.
func Add(acc Accumulator, r worker.Result) (Accumulator, error) {
	if acc.ParamsSum == nil {
		acc.ParamsSum = r.ParamsSum
	} else if err := acc.ParamsSum.Add(r.ParamsSum); err != nil {
		return Accumulator{}, err
	}

	st, err := mergeState(acc.Optimizer, r.Optimizer)
	if err != nil {
		return Accumulator{}, err
	}
	acc.Optimizer = st

	acc.ScoreSum += r.ScoreSum
	acc.AggregationCount += r.AggregationCount
	acc.WorkerStats = append(acc.WorkerStats, r.Stats...)

	return acc, nil
}

// Combine merges two partial accumulators produced on different execution
// nodes. It is interchangeable with Add at any point of a merge tree.
func Combine(a, b Accumulator) (Accumulator, error) {
	if a.ParamsSum == nil {
		a.ParamsSum = b.ParamsSum
	} else if b.ParamsSum != nil {
		if err := a.ParamsSum.Add(b.ParamsSum); err != nil {
			return Accumulator{}, err
		}
	}

	st, err := mergeState(a.Optimizer, b.Optimizer)
	if err != nil {
		return Accumulator{}, err
	}
	a.Optimizer = st

	a.ScoreSum += b.ScoreSum
	a.AggregationCount += b.AggregationCount
	a.WorkerStats = append(a.WorkerStats, b.WorkerStats...)

	return a, nil
}

// Average finalizes the aggregate: element-wise division of the parameter
// sum and score by the contribution count, and averaging of the merged
// optimizer state. Fails on an empty accumulator so the caller can never
// divide by zero.
func (a Accumulator) Average() (vector.Vector, optimizer.State, float64, error) {
	if a.Empty() || a.ParamsSum == nil {
		return nil, nil, 0, ErrEmptyAggregation
	}

	n := a.AggregationCount
	params := a.ParamsSum
	params.Scale(1 / float64(n))

	var st optimizer.State
	if a.Optimizer != nil {
		st = a.Optimizer.Average(n)
	}

	return params, st, a.ScoreSum / float64(n), nil
}

func mergeState(a, b optimizer.State) (optimizer.State, error) {
	switch {
	case a == nil:
		return b, nil
	case b == nil:
		return a, nil
	default:
		return a.Merge(b)
	}
}
