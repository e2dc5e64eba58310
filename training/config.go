package training

import "fmt"

const (
	defBatchSizePerWorker = 16
	defAveragingFrequency = 5
)

// Config is the immutable parameter-averaging configuration. Build it with
// NewBuilder; a Config obtained any other way is not guaranteed valid.
type Config struct {
	// NumWorkers is the number of parallel execution units the cluster
	// provides. Round sizing assumes this matches the actual cluster.
	NumWorkers int `json:"num_workers" toml:"num_workers"`

	// RecordsPerStoredObject is the number of examples in each stored data
	// object. Preprocessed pipelines typically store N>1 examples per
	// object; inline pipelines store exactly 1.
	RecordsPerStoredObject int `json:"records_per_stored_object" toml:"records_per_stored_object"`

	// BatchSizePerWorker is the mini-batch size of each local fit.
	BatchSizePerWorker int `json:"batch_size_per_worker" toml:"batch_size_per_worker"`

	// AveragingFrequency is how many mini-batches each worker runs between
	// parameter averagings. Too low floods the network, too high hurts
	// convergence.
	AveragingFrequency int `json:"averaging_frequency" toml:"averaging_frequency"`

	// PrefetchBatches is how many mini-batches a worker fetches ahead of
	// the fit loop. 0 disables prefetching.
	PrefetchBatches int `json:"prefetch_batches" toml:"prefetch_batches"`

	// SaveOptimizerState averages and redistributes optimizer state along
	// with the parameters. Can double network traffic each way.
	SaveOptimizerState bool `json:"save_optimizer_state" toml:"save_optimizer_state"`

	// Repartition decides when round data is redistributed across workers.
	Repartition Repartition `json:"repartition" toml:"repartition"`

	// CollectStats enables phase-timing instrumentation for the pass.
	CollectStats bool `json:"collect_stats" toml:"collect_stats"`
}

// Builder assembles a Config. Required arguments are taken up front, the
// rest default as documented on Config.
type Builder struct {
	cfg Config
}

func NewBuilder(numWorkers, recordsPerStoredObject int) *Builder {
	return &Builder{
		cfg: Config{
			NumWorkers:             numWorkers,
			RecordsPerStoredObject: recordsPerStoredObject,
			BatchSizePerWorker:     defBatchSizePerWorker,
			AveragingFrequency:     defAveragingFrequency,
			SaveOptimizerState:     true,
			Repartition:            Never,
		},
	}
}

func (b *Builder) BatchSizePerWorker(n int) *Builder {
	b.cfg.BatchSizePerWorker = n

	return b
}

func (b *Builder) AveragingFrequency(n int) *Builder {
	b.cfg.AveragingFrequency = n

	return b
}

func (b *Builder) PrefetchBatches(n int) *Builder {
	b.cfg.PrefetchBatches = n

	return b
}

func (b *Builder) SaveOptimizerState(save bool) *Builder {
	b.cfg.SaveOptimizerState = save

	return b
}

func (b *Builder) RepartitionData(r Repartition) *Builder {
	b.cfg.Repartition = r

	return b
}

func (b *Builder) CollectStats(collect bool) *Builder {
	b.cfg.CollectStats = collect

	return b
}

func (b *Builder) Build() (Config, error) {
	if err := b.cfg.Validate(); err != nil {
		return Config{}, err
	}

	return b.cfg, nil
}

// Validate rejects configurations that would make a round unexecutable.
// It runs at construction time so rounds never fail on bad sizing.
func (c Config) Validate() error {
	if c.NumWorkers <= 0 {
		return fmt.Errorf("%w: number of workers must be >= 1, got %d", ErrInvalidConfig, c.NumWorkers)
	}
	if c.RecordsPerStoredObject <= 0 {
		return fmt.Errorf("%w: records per stored object must be >= 1, got %d", ErrInvalidConfig, c.RecordsPerStoredObject)
	}
	if c.BatchSizePerWorker <= 0 {
		return fmt.Errorf("%w: batch size per worker must be >= 1, got %d", ErrInvalidConfig, c.BatchSizePerWorker)
	}
	if c.AveragingFrequency <= 0 {
		return fmt.Errorf("%w: averaging frequency must be >= 1, got %d", ErrInvalidConfig, c.AveragingFrequency)
	}
	if c.PrefetchBatches < 0 {
		return fmt.Errorf("%w: prefetch batches must be >= 0, got %d", ErrInvalidConfig, c.PrefetchBatches)
	}
	if _, err := c.Repartition.ShouldRepartition(1, 1); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, c.Repartition)
	}

	return nil
}
