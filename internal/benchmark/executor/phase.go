// Package executor runs a single benchmark phase: it pairs pacer ticks
// with admission permits and dispatches the operation under test.
package executor

import (
	"context"
	"time"

	"github.com/dynobench/dynobench/internal/benchmark"
	"github.com/dynobench/dynobench/internal/benchmark/admission"
	"github.com/dynobench/dynobench/internal/benchmark/metrics"
	"github.com/dynobench/dynobench/internal/benchmark/rate"
	"github.com/dynobench/dynobench/internal/logging"
)

// Phase dispatches paced, concurrency-bounded invocations of one
// operation. Warmup and measurement share the same mechanics and the
// same Phase value; the only difference is whether completions are
// recorded, controlled by the collector argument to Run.
//
// For each authorized dispatch: wait for a pacer tick, acquire a
// permit, invoke asynchronously. A completion releases its permit
// before recording anything, so admission control reflects the true
// in-flight count rather than result-processing time.
type Phase struct {
	pacer *rate.Pacer
	pool  *admission.Pool
	op    benchmark.Operation
}

// NewPhase creates a phase executor over the given pacer, permit pool,
// and operation.
func NewPhase(pacer *rate.Pacer, pool *admission.Pool, op benchmark.Operation) *Phase {
	return &Phase{pacer: pacer, pool: pool, op: op}
}

// Run dispatches count operations and blocks until every one of them
// has completed. When collect is non-nil, every completion records
// exactly one sample (the measured phase); when nil, successes are
// dropped and failures are only logged (the warmup phase).
//
// The pacer is re-anchored at entry, so the phase does not inherit
// scheduling debt from a previous phase. After the last dispatch, Run
// waits for the permit pool's full drain: the return of Run is a true
// phase barrier, and the returned wall-clock duration spans first tick
// to full drain.
func (p *Phase) Run(ctx context.Context, count int, collect *metrics.Collector) (time.Duration, error) {
	p.pacer.Reset()
	start := time.Now()

	for i := 0; i < count; i++ {
		if _, err := p.pacer.Tick(ctx); err != nil {
			return 0, err
		}
		if err := p.pool.Acquire(ctx); err != nil {
			return 0, err
		}
		go p.dispatch(ctx, collect)
	}

	if err := p.pool.Drain(ctx); err != nil {
		return 0, err
	}
	return time.Since(start), nil
}

// dispatch invokes the operation once and reports its completion.
// Runs on its own goroutine; one permit is held across the invocation.
func (p *Phase) dispatch(ctx context.Context, collect *metrics.Collector) {
	issued := time.Now()
	key, err := p.op.Invoke(ctx)
	elapsed := time.Since(issued)

	p.pool.Release()

	if collect == nil {
		if err != nil {
			logging.Warnf("warmup query failed: %v", err)
		}
		return
	}
	collect.Record(benchmark.Sample{
		IssuedAt: issued,
		Elapsed:  elapsed,
		Key:      key,
		Err:      err,
	})
}
