// Package engine wires the benchmark together: it runs the warmup
// phase, then the measured phase, and produces the final result.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dynobench/dynobench/internal/benchmark"
	"github.com/dynobench/dynobench/internal/benchmark/admission"
	"github.com/dynobench/dynobench/internal/benchmark/executor"
	"github.com/dynobench/dynobench/internal/benchmark/metrics"
	"github.com/dynobench/dynobench/internal/benchmark/rate"
	"github.com/dynobench/dynobench/internal/config"
	"github.com/dynobench/dynobench/internal/logging"
)

// Engine drives one benchmark run. Both phases share one pacer, one
// permit pool, and one phase executor; the warmup phase discards
// results while the measured phase retains every one.
type Engine struct {
	cfg *config.BenchmarkConfig
	op  benchmark.Operation

	pacer *rate.Pacer
	pool  *admission.Pool
}

// Result is the outcome of a completed run.
type Result struct {
	// RunID identifies this run in logs and reports.
	RunID string

	// Samples is the number of measured operations; equals the
	// configured query count on a successful run.
	Samples int

	// Elapsed is the measured phase's wall-clock duration, first tick
	// to full drain. Throughput derives from this, not from summed
	// per-operation durations, since operations overlap.
	Elapsed time.Duration

	// SortedDurations holds every measured duration, ascending.
	SortedDurations []time.Duration

	// Outcomes maps classification keys, including the error key, to
	// occurrence counts.
	Outcomes map[benchmark.OutcomeKey]int

	// Errors retains each measured operation failure.
	Errors []error

	// Latency carries supplementary mean/stddev statistics.
	Latency metrics.LatencySummary
}

// Throughput returns achieved operations per second over the measured
// phase.
func (r *Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Samples) / r.Elapsed.Seconds()
}

// New creates an engine for the given configuration and operation.
// The configuration is validated here, before any dispatch.
func New(cfg *config.BenchmarkConfig, op benchmark.Operation) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	pacer, err := rate.NewPacer(cfg.Rate)
	if err != nil {
		return nil, err
	}
	pool, err := admission.NewPool(cfg.Concurrency)
	if err != nil {
		return nil, err
	}

	return &Engine{cfg: cfg, op: op, pacer: pacer, pool: pool}, nil
}

// Run executes the warmup phase followed by the measured phase and
// returns the aggregated result.
//
// Warmup completions are discarded except for failures, which are
// logged; the full drain between phases guarantees no warmup work
// bleeds into measured timing. Operation failures during measurement
// never abort the run: they are timed, counted, and reported like any
// other sample.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	runID := uuid.New().String()
	logging.Infof("Starting benchmark %s: %d queries at %g QPS with parallelism of %d",
		runID, e.cfg.Queries, e.cfg.Rate, e.cfg.Concurrency)

	phase := executor.NewPhase(e.pacer, e.pool, e.op)

	if e.cfg.Warmup > 0 {
		logging.Infof("Starting %d warmup queries", e.cfg.Warmup)
		warmup, err := phase.Run(ctx, e.cfg.Warmup, nil)
		if err != nil {
			return nil, fmt.Errorf("warmup phase: %w", err)
		}
		logging.Infof("Completed warmups in %.3fs", warmup.Seconds())
	}

	collector := metrics.NewCollector(e.cfg.Queries)
	elapsed, err := phase.Run(ctx, e.cfg.Queries, collector)
	if err != nil {
		return nil, fmt.Errorf("measurement phase: %w", err)
	}
	agg := collector.Finalize()

	return &Result{
		RunID:           runID,
		Samples:         len(agg.SortedDurations),
		Elapsed:         elapsed,
		SortedDurations: agg.SortedDurations,
		Outcomes:        agg.Outcomes,
		Errors:          agg.Errors,
		Latency:         agg.Latency,
	}, nil
}
