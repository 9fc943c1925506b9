// Package benchmark defines the core types shared by the benchmark
// driver: the operation under test, its outcome classification, and the
// per-operation sample retained during the measured phase.
package benchmark

import (
	"context"
	"fmt"
	"time"
)

// OutcomeKey classifies a completed operation for histogram grouping.
// Successful operations map to a small discrete key (for a range query,
// the returned item count); all failures map to KeyError.
type OutcomeKey string

// KeyError is the distinguished histogram key for failed operations.
const KeyError OutcomeKey = "error"

// ItemCountKey returns the outcome key for a query that returned n items.
func ItemCountKey(n int) OutcomeKey {
	return OutcomeKey(fmt.Sprintf("%d items", n))
}

// Operation is a single invocable unit of remote work. Implementations
// must be safe for concurrent invocation: the driver calls Invoke from
// many goroutines at once.
//
// The driver never retries and never enforces a timeout. An operation
// that can hang holds its concurrency permit forever and eventually
// stalls the whole run; callers needing resilience must build the
// timeout into the Operation itself.
type Operation interface {
	Invoke(ctx context.Context) (OutcomeKey, error)
}

// OperationFunc adapts a plain function to the Operation interface.
type OperationFunc func(ctx context.Context) (OutcomeKey, error)

// Invoke calls f.
func (f OperationFunc) Invoke(ctx context.Context) (OutcomeKey, error) {
	return f(ctx)
}

// Sample is one measured operation's timing and outcome. Exactly one
// Sample is produced per dispatch in the measured phase; warmup
// dispatches produce none. Timing starts at invocation, not at the
// pacer tick, so each Sample is self-contained regardless of how
// completions interleave.
type Sample struct {
	// IssuedAt is the instant the operation was invoked.
	IssuedAt time.Time

	// Elapsed is the operation's own duration.
	Elapsed time.Duration

	// Key is the outcome classification. Unset when Err is non-nil.
	Key OutcomeKey

	// Err is the failure cause, nil on success. Failed operations are
	// still timed and still count toward the sample total.
	Err error
}
