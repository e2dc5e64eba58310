package master

import "github.com/flotilla-ml/flotilla/training"

// ObjectsPerRound computes how many stored data objects make up one training
// round.
//
// When every stored object holds a single example, the round must cover the
// work all workers do across the whole averaging window, so the size scales
// with workers x batch size x averaging frequency. When objects are
// pre-batched the dominant constraint becomes at least one object per
// worker: the per-worker object count is derived from the examples needed
// for the window and clamped to 1, trading sizing precision for simplicity
// in the common pre-batched case.
func ObjectsPerRound(cfg training.Config) int {
	if cfg.RecordsPerStoredObject == 1 {
		return cfg.NumWorkers * cfg.BatchSizePerWorker * cfg.AveragingFrequency
	}

	requiredExamplesPerWorker := cfg.BatchSizePerWorker * cfg.AveragingFrequency
	objectsPerWorker := requiredExamplesPerWorker / cfg.BatchSizePerWorker
	if objectsPerWorker < 1 {
		// A single stored object already holds more examples than one
		// worker needs for the whole round.
		objectsPerWorker = 1
	}

	return objectsPerWorker * cfg.NumWorkers
}
