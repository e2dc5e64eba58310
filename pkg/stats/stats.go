// Package stats collects phase timings around a training pass: how long the
// master spends splitting, repartitioning, broadcasting, waiting on local
// execution and aggregating. Collection is opt-in; a no-op collector is used
// when disabled so call sites stay unconditional.
package stats

import (
	"sync"
	"time"
)

// Phase names recorded by the collector.
const (
	PhaseSplit          = "split"
	PhaseRepartition    = "repartition"
	PhaseBroadcast      = "broadcast"
	PhaseLocalExecution = "local-execution"
	PhaseAggregation    = "aggregation"
	PhaseApply          = "apply"
)

// WorkerStats is one worker's view of its local training run. Produced on
// the executor, merged into the round accumulator by concatenation.
type WorkerStats struct {
	Executor string        `json:"executor"`
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration"`
	Examples int           `json:"examples"`
	Batches  int           `json:"batches"`
}

// PhaseTotals aggregates every occurrence of one phase across the pass.
type PhaseTotals struct {
	Count int           `json:"count"`
	Total time.Duration `json:"total"`
}

// Report is the structured result of a collected pass.
type Report struct {
	PassDuration time.Duration          `json:"pass_duration"`
	TotalObjects int64                  `json:"total_objects"`
	Rounds       int                    `json:"rounds"`
	Partitions   int                    `json:"partitions"`
	Phases       map[string]PhaseTotals `json:"phases"`
	Workers      []WorkerStats          `json:"workers,omitempty"`
}

// Collector records phase boundaries during a pass. Implementations must
// tolerate PhaseEnd without a matching PhaseStart (the occurrence is dropped).
type Collector interface {
	PassStart()
	PassEnd(totalObjects int64, rounds int)
	PhaseStart(phase string)
	PhaseEnd(phase string)
	AddPartitions(n int)
	AddWorkerStats(ws []WorkerStats)
	Report() *Report
}

type collector struct {
	mu         sync.Mutex
	passStart  time.Time
	open       map[string]time.Time
	totals     map[string]PhaseTotals
	workers    []WorkerStats
	partitions int
	report     Report
}

func NewCollector() Collector {
	return &collector{
		open:   make(map[string]time.Time),
		totals: make(map[string]PhaseTotals),
	}
}

func (c *collector) PassStart() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.passStart = time.Now()
}

func (c *collector) PassEnd(totalObjects int64, rounds int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.report = Report{
		PassDuration: time.Since(c.passStart),
		TotalObjects: totalObjects,
		Rounds:       rounds,
		Partitions:   c.partitions,
		Phases:       c.totals,
		Workers:      c.workers,
	}
}

func (c *collector) PhaseStart(phase string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.open[phase] = time.Now()
}

func (c *collector) PhaseEnd(phase string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	start, ok := c.open[phase]
	if !ok {
		return
	}
	delete(c.open, phase)

	t := c.totals[phase]
	t.Count++
	t.Total += time.Since(start)
	c.totals[phase] = t
}

func (c *collector) AddPartitions(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.partitions += n
}

func (c *collector) AddWorkerStats(ws []WorkerStats) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.workers = append(c.workers, ws...)
}

func (c *collector) Report() *Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.report

	return &r
}

type noop struct{}

// Noop returns a collector that records nothing and reports nil.
func Noop() Collector {
	return noop{}
}

func (noop) PassStart()                   {}
func (noop) PassEnd(int64, int)           {}
func (noop) PhaseStart(string)            {}
func (noop) PhaseEnd(string)              {}
func (noop) AddPartitions(int)            {}
func (noop) AddWorkerStats([]WorkerStats) {}
func (noop) Report() *Report              { return nil }
