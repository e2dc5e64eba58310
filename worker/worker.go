// Package worker runs one round of local training over a single data shard.
// Each worker derives a private trainable copy from the broadcast snapshot,
// fits mini-batches until its shard is exhausted, and emits exactly one
// Result; empty shards emit nothing.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/0x6flab/namegenerator"

	"github.com/flotilla-ml/flotilla/model"
	"github.com/flotilla-ml/flotilla/pkg/optimizer"
	"github.com/flotilla-ml/flotilla/pkg/runtime"
	"github.com/flotilla-ml/flotilla/pkg/stats"
	"github.com/flotilla-ml/flotilla/pkg/vector"
)

// Result is the immutable output of one worker's local training run,
// consumed exactly once by the round accumulator.
type Result struct {
	// ParamsSum holds this worker's final parameters. Across workers the
	// vectors are summed, hence the name.
	ParamsSum vector.Vector

	// Optimizer is the worker's final optimizer state, nil when state
	// saving is disabled or the model tracks none.
	Optimizer optimizer.State

	// ScoreSum is the worker's final score, summed across workers during
	// aggregation.
	ScoreSum float64

	// AggregationCount is the number of worker contributions this result
	// represents. Always 1 when freshly produced.
	AggregationCount int

	Stats []stats.WorkerStats
}

// Config carries the per-worker slice of the training configuration.
type Config struct {
	BatchSize          int
	AveragingFrequency int
	PrefetchBatches    int
	SaveOptimizerState bool
	CollectStats       bool
}

type Executor struct {
	cfg  Config
	name string
}

var names = namegenerator.NewGenerator()

func New(cfg Config) *Executor {
	return &Executor{
		cfg:  cfg,
		name: names.Generate(),
	}
}

// Fit trains a private copy of the snapshot on the shard and returns zero
// results for an empty shard, one otherwise. Local training is bounded at
// AveragingFrequency mini-batches; round sizing keeps shards at roughly that
// many batches, so in the common case the whole shard is consumed.
func (e *Executor) Fit(ctx context.Context, snap runtime.Handle[model.Snapshot], shard runtime.Iterator[model.Example]) ([]Result, error) {
	stop := make(chan struct{})
	defer close(stop)
	batches := e.batches(shard, stop)

	first, ok := <-batches
	if !ok {
		return nil, nil
	}

	m, err := snap.Value().Instantiate()
	if err != nil {
		return nil, fmt.Errorf("worker %s: %w", e.name, err)
	}

	start := time.Now()
	examples, nBatches := 0, 0
	for batch := first; ; {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if _, err := m.FitBatch(batch); err != nil {
			return nil, fmt.Errorf("worker %s: %w", e.name, err)
		}
		examples += len(batch)
		nBatches++
		if nBatches >= e.cfg.AveragingFrequency {
			break
		}

		var more bool
		batch, more = <-batches
		if !more {
			break
		}
	}

	res := Result{
		ParamsSum:        m.Params(),
		ScoreSum:         m.Score(),
		AggregationCount: 1,
	}
	if e.cfg.SaveOptimizerState {
		res.Optimizer = m.OptimizerState()
	}
	if e.cfg.CollectStats {
		res.Stats = []stats.WorkerStats{{
			Executor: e.name,
			Start:    start,
			Duration: time.Since(start),
			Examples: examples,
			Batches:  nBatches,
		}}
	}

	return []Result{res}, nil
}

// batches groups shard elements into mini-batches. With prefetching enabled
// the producer runs ahead of the fit loop by up to PrefetchBatches batches;
// stop unblocks the producer if the consumer returns early.
func (e *Executor) batches(shard runtime.Iterator[model.Example], stop <-chan struct{}) <-chan []model.Example {
	out := make(chan []model.Example, e.cfg.PrefetchBatches)
	go func() {
		defer close(out)
		for {
			batch := make([]model.Example, 0, e.cfg.BatchSize)
			for len(batch) < e.cfg.BatchSize {
				ex, ok := shard.Next()
				if !ok {
					break
				}
				batch = append(batch, ex)
			}
			if len(batch) == 0 {
				return
			}
			select {
			case out <- batch:
			case <-stop:
				return
			}
		}
	}()

	return out
}
