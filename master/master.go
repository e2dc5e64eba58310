// Package master orchestrates synchronous parameter-averaging training: it
// sizes and splits the dataset into rounds, distributes the current model
// snapshot to all workers, dispatches local training, merges the worker
// results into one averaged update and applies it to the global model, one
// round at a time.
package master

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/flotilla-ml/flotilla/model"
	"github.com/flotilla-ml/flotilla/pkg/aggregate"
	"github.com/flotilla-ml/flotilla/pkg/runtime"
	"github.com/flotilla-ml/flotilla/pkg/stats"
	"github.com/flotilla-ml/flotilla/training"
	"github.com/flotilla-ml/flotilla/worker"
)

// Listener is notified synchronously on the orchestrating goroutine after
// each round's averaged update is applied. Listeners must not block
// indefinitely; no timeout is enforced here.
type Listener interface {
	OnRoundComplete(ctx context.Context, m model.Trainable, iteration int)
}

// TrainingMaster owns the global model between rounds. It is the model's
// single writer: the model is read once per round to produce a broadcast
// snapshot and written once per round from the aggregation result.
type TrainingMaster struct {
	cfg         training.Config
	net         model.Trainable
	broadcaster runtime.Broadcaster[model.Snapshot]
	collector   stats.Collector
	listeners   []Listener
	iteration   int
	logger      *slog.Logger
}

func New(cfg training.Config, net model.Trainable, b runtime.Broadcaster[model.Snapshot], logger *slog.Logger) *TrainingMaster {
	collector := stats.Noop()
	if cfg.CollectStats {
		collector = stats.NewCollector()
	}

	return &TrainingMaster{
		cfg:         cfg,
		net:         net,
		broadcaster: b,
		collector:   collector,
		logger:      logger,
	}
}

// RegisterListener adds a round-complete listener. Not safe to call while a
// pass is running.
func (tm *TrainingMaster) RegisterListener(l Listener) {
	tm.listeners = append(tm.listeners, l)
}

// IterationCount is the number of rounds applied so far, across passes.
func (tm *TrainingMaster) IterationCount() int {
	return tm.iteration
}

// Model returns the global model. Valid to read only between passes.
func (tm *TrainingMaster) Model() model.Trainable {
	return tm.net
}

// TrainingStats returns the phase-timing report of the last completed pass,
// or false when stats collection is disabled.
func (tm *TrainingMaster) TrainingStats() (*stats.Report, bool) {
	r := tm.collector.Report()

	return r, r != nil
}

// Fit runs one full training pass over the dataset. Rounds are strictly
// sequential: each round trains on top of the previous round's averaged
// model. Any round failure aborts the pass; there is no partial-round retry.
func (tm *TrainingMaster) Fit(ctx context.Context, data runtime.Dataset[model.Example]) error {
	tm.collector.PassStart()

	if err := data.Persist(ctx); err != nil {
		return fmt.Errorf("persist training data: %w", err)
	}
	total, err := data.Count(ctx)
	if err != nil {
		return fmt.Errorf("count training data: %w", err)
	}

	perRound := ObjectsPerRound(tm.cfg)
	splits, err := tm.randomSplit(ctx, total, perRound, data)
	if err != nil {
		return fmt.Errorf("split training data: %w", err)
	}

	for i, split := range splits {
		tm.logger.InfoContext(ctx, "starting training round",
			slog.Int("round", i+1),
			slog.Int("total_rounds", len(splits)),
			slog.Int("worker_batch_size", tm.cfg.BatchSizePerWorker),
			slog.Int("averaging_frequency", tm.cfg.AveragingFrequency),
			slog.Int64("total_objects", total),
			slog.Int("workers", tm.cfg.NumWorkers),
		)
		if err := tm.runRound(ctx, split); err != nil {
			return fmt.Errorf("round %d of %d: %w", i+1, len(splits), err)
		}
		tm.logger.InfoContext(ctx, "completed training round",
			slog.Int("round", i+1),
			slog.Int("total_rounds", len(splits)),
			slog.Float64("score", tm.net.Score()),
		)
	}

	tm.collector.PassEnd(total, len(splits))

	return nil
}

// randomSplit partitions the dataset into ordered rounds of roughly
// perRound objects each. The remainder is spread proportionally across the
// computed rounds by the weighted random assignment rather than dropped or
// put in an undersized extra round.
func (tm *TrainingMaster) randomSplit(ctx context.Context, total int64, perRound int, data runtime.Dataset[model.Example]) ([]runtime.Dataset[model.Example], error) {
	tm.collector.PhaseStart(stats.PhaseSplit)
	defer tm.collector.PhaseEnd(stats.PhaseSplit)

	if total <= int64(perRound) {
		return []runtime.Dataset[model.Example]{data}, nil
	}

	numSplits := int(total / int64(perRound))
	weights := make([]float64, numSplits)
	for i := range weights {
		weights[i] = 1.0 / float64(numSplits)
	}

	return data.RandomSplit(ctx, weights)
}

func (tm *TrainingMaster) runRound(ctx context.Context, split runtime.Dataset[model.Example]) error {
	split, err := tm.repartitionIfRequired(ctx, split)
	if err != nil {
		return err
	}

	tm.collector.PhaseStart(stats.PhaseBroadcast)
	snap, err := tm.broadcaster.Distribute(ctx, tm.net.Snapshot())
	tm.collector.PhaseEnd(stats.PhaseBroadcast)
	if err != nil {
		return fmt.Errorf("broadcast model snapshot: %w", err)
	}

	wcfg := worker.Config{
		BatchSize:          tm.cfg.BatchSizePerWorker,
		AveragingFrequency: tm.cfg.AveragingFrequency,
		PrefetchBatches:    tm.cfg.PrefetchBatches,
		SaveOptimizerState: tm.cfg.SaveOptimizerState,
		CollectStats:       tm.cfg.CollectStats,
	}

	tm.collector.PhaseStart(stats.PhaseLocalExecution)
	results, err := runtime.MapPartitions(ctx, split,
		func(ctx context.Context, shard runtime.Iterator[model.Example]) ([]worker.Result, error) {
			return worker.New(wcfg).Fit(ctx, snap, shard)
		})
	tm.collector.PhaseEnd(stats.PhaseLocalExecution)
	tm.collector.AddPartitions(split.NumPartitions())
	if err != nil {
		return fmt.Errorf("local training: %w", err)
	}

	tm.collector.PhaseStart(stats.PhaseAggregation)
	acc, err := runtime.Reduce(ctx, results, aggregate.Accumulator{}, aggregate.Add, aggregate.Combine)
	tm.collector.PhaseEnd(stats.PhaseAggregation)
	if err != nil {
		return fmt.Errorf("aggregate worker results: %w", err)
	}

	tm.collector.PhaseStart(stats.PhaseApply)
	params, state, score, err := acc.Average()
	if err != nil {
		tm.collector.PhaseEnd(stats.PhaseApply)

		return err
	}
	if !tm.cfg.SaveOptimizerState {
		state = nil
	}
	tm.net.ApplyAverage(params, state, score)
	tm.collector.PhaseEnd(stats.PhaseApply)
	tm.collector.AddWorkerStats(acc.WorkerStats)

	tm.iteration++
	for _, l := range tm.listeners {
		l.OnRoundComplete(ctx, tm.net, tm.iteration)
	}

	return nil
}

func (tm *TrainingMaster) repartitionIfRequired(ctx context.Context, split runtime.Dataset[model.Example]) (runtime.Dataset[model.Example], error) {
	should, err := tm.cfg.Repartition.ShouldRepartition(split.NumPartitions(), tm.cfg.NumWorkers)
	if err != nil {
		return nil, err
	}
	if !should {
		return split, nil
	}

	tm.collector.PhaseStart(stats.PhaseRepartition)
	defer tm.collector.PhaseEnd(stats.PhaseRepartition)

	return split.Repartition(ctx, tm.cfg.NumWorkers)
}
